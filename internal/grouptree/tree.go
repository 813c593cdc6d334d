// Package grouptree groups requirement records into a Core/GenEd tree and
// answers selection queries against it.
//
// Every function here is pure: trees are rebuilt from scratch for each record
// batch and selections are passed in and returned, never stored.
package grouptree

import (
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/reqpath"
)

const (
	CoreRootName  = "Core Requirements"
	GenEdRootName = "GenEd Requirements"
)

// Category identifies which root a node or tag belongs to
type Category string

const (
	CategoryCore  Category = "core"
	CategoryGenEd Category = "gened"
)

// LeafRef is a requirement attached to a group
type LeafRef struct {
	Label    string `json:"label" yaml:"label"`         // Final label segment
	RawValue string `json:"raw_value" yaml:"raw_value"` // Original raw path
}

// GroupNode is a named group of requirements.
// Roots have an empty Path; every other node's Path ends with its Name.
type GroupNode struct {
	Name     string       `json:"name" yaml:"name"`
	Path     []string     `json:"path,omitempty" yaml:"path,omitempty"`
	Items    []LeafRef    `json:"items,omitempty" yaml:"items,omitempty"`
	Children []*GroupNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Child returns the direct subgroup with the given name, or nil
func (n *GroupNode) Child(name string) *GroupNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsRoot reports whether the node is one of the two fixed roots
func (n *GroupNode) IsRoot() bool {
	return len(n.Path) == 0
}

func (n *GroupNode) empty() bool {
	return len(n.Items) == 0 && len(n.Children) == 0
}

func (n *GroupNode) ensureChild(name string) *GroupNode {
	if c := n.Child(name); c != nil {
		return c
	}
	path := make([]string, len(n.Path), len(n.Path)+1)
	copy(path, n.Path)
	c := &GroupNode{Name: name, Path: append(path, name)}
	n.Children = append(n.Children, c)
	return c
}

// Tree holds the optional Core and GenEd roots
type Tree struct {
	Core  *GroupNode `json:"core,omitempty" yaml:"core,omitempty"`
	GenEd *GroupNode `json:"gened,omitempty" yaml:"gened,omitempty"`
}

// Root returns the root for a category, or nil when absent
func (t *Tree) Root(c Category) *GroupNode {
	if t == nil {
		return nil
	}
	switch c {
	case CategoryCore:
		return t.Core
	case CategoryGenEd:
		return t.GenEd
	}
	return nil
}

// Find walks from a category root along the given group path
func (t *Tree) Find(c Category, path ...string) *GroupNode {
	node := t.Root(c)
	for _, name := range path {
		if node = node.Child(name); node == nil {
			return nil
		}
	}
	return node
}

// Values returns the raw values of every leaf in the tree, Core first
func (t *Tree) Values() []string {
	if t == nil {
		return nil
	}
	var values []string
	for _, root := range t.roots() {
		values = append(values, AllLeafValues(root.node)...)
	}
	return values
}

type categoryRoot struct {
	category Category
	node     *GroupNode
}

func (t *Tree) roots() []categoryRoot {
	var roots []categoryRoot
	if t == nil {
		return roots
	}
	if t.Core != nil {
		roots = append(roots, categoryRoot{CategoryCore, t.Core})
	}
	if t.GenEd != nil {
		roots = append(roots, categoryRoot{CategoryGenEd, t.GenEd})
	}
	return roots
}

type leafPos struct {
	node  *GroupNode
	index int
}

// Build groups records into a tree keyed by their display label segments.
//
// Records with an empty label are skipped. A raw value seen twice keeps its
// first position while the later record's label replaces the earlier one.
// Empty groups are pruned and an empty root is left nil.
func Build(records []model.RequirementRecord) *Tree {
	core := &GroupNode{Name: CoreRootName}
	gened := &GroupNode{Name: GenEdRootName}
	placed := make(map[string]leafPos)

	for _, record := range records {
		label := reqpath.ClassifyAndFormat(record)
		if label.Empty() {
			continue
		}

		if pos, ok := placed[record.RawPath]; ok {
			pos.node.Items[pos.index].Label = label.Last()
			continue
		}

		node := core
		if record.IsGenEd {
			node = gened
		}
		for _, segment := range label.Parents() {
			node = node.ensureChild(segment)
		}

		node.Items = append(node.Items, LeafRef{Label: label.Last(), RawValue: record.RawPath})
		placed[record.RawPath] = leafPos{node: node, index: len(node.Items) - 1}
	}

	prune(core)
	prune(gened)

	tree := &Tree{}
	if !core.empty() {
		tree.Core = core
	}
	if !gened.empty() {
		tree.GenEd = gened
	}
	return tree
}

func prune(n *GroupNode) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		prune(c)
		if !c.empty() {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	n.Children = kept
}

// Walk visits every node depth-first in stored order, Core root first.
// Returning false from fn skips the node's children.
func Walk(t *Tree, fn func(c Category, n *GroupNode) bool) {
	for _, root := range t.roots() {
		walk(root.category, root.node, fn)
	}
}

func walk(c Category, n *GroupNode, fn func(Category, *GroupNode) bool) {
	if !fn(c, n) {
		return
	}
	for _, child := range n.Children {
		walk(c, child, fn)
	}
}
