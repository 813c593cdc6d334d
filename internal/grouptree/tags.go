package grouptree

import (
	"strings"

	"github.com/ppiankov/degreeplan/internal/reqpath"
)

// TagKind distinguishes group tags from leaf tags
type TagKind string

const (
	GroupTag TagKind = "group"
	LeafTag  TagKind = "leaf"
)

// minGroupTagLeaves is the smallest group that collapses into a group tag
const minGroupTagLeaves = 2

// Tag is one filter chip in the selection summary
type Tag struct {
	Kind      TagKind  `json:"kind" yaml:"kind"`
	Category  Category `json:"category,omitempty" yaml:"category,omitempty"`
	GroupPath []string `json:"group_path,omitempty" yaml:"group_path,omitempty"`
	RawValue  string   `json:"raw_value,omitempty" yaml:"raw_value,omitempty"`
	Covered   []string `json:"covered" yaml:"covered"`   // Raw values cleared when the tag is removed
	Resolved  bool     `json:"resolved" yaml:"resolved"` // False for values missing from the tree
}

// Label returns the chip text.
// Unresolved leaf tags show their raw value verbatim.
func (t Tag) Label() string {
	switch {
	case t.Kind == GroupTag:
		return strings.Join(t.GroupPath, reqpath.Arrow)
	case !t.Resolved:
		return t.RawValue
	default:
		return reqpath.SummaryLabel(t.RawValue)
	}
}

// ReconcileTags reduces a selection to the tags shown in the filter summary.
//
// Groups are visited top-down in stored order, Core first. A non-root group
// covering at least two leaves, all still unclaimed, becomes a single group
// tag and its subtree is not descended. A group holding one leaf is shown as
// that leaf. Values left over afterwards become leaf tags:
// those found in the tree in tree order, then values missing from the tree in
// sorted order. The tags' covered values partition the selection exactly.
func ReconcileTags(t *Tree, selected SelectionSet) []Tag {
	remaining := selected.Clone()
	var tags []Tag

	var visit func(Category, *GroupNode)
	visit = func(c Category, n *GroupNode) {
		if !n.IsRoot() {
			values := AllLeafValues(n)
			if len(values) >= minGroupTagLeaves && remaining.ContainsAll(values) {
				for _, v := range values {
					remaining.Remove(v)
				}
				tags = append(tags, Tag{
					Kind:      GroupTag,
					Category:  c,
					GroupPath: append([]string(nil), n.Path...),
					Covered:   values,
					Resolved:  true,
				})
				return
			}
		}
		for _, child := range n.Children {
			visit(c, child)
		}
	}

	roots := t.roots()
	for _, root := range roots {
		visit(root.category, root.node)
	}

	for _, root := range roots {
		for _, v := range AllLeafValues(root.node) {
			if remaining.Has(v) {
				remaining.Remove(v)
				tags = append(tags, Tag{
					Kind:     LeafTag,
					Category: root.category,
					RawValue: v,
					Covered:  []string{v},
					Resolved: true,
				})
			}
		}
	}

	for _, v := range remaining.Values() {
		tags = append(tags, Tag{Kind: LeafTag, RawValue: v, Covered: []string{v}})
	}

	return tags
}

// RemoveTag clears exactly the values a tag covers from the selection
func RemoveTag(tag Tag, selected SelectionSet) SelectionSet {
	next := selected.Clone()
	for _, v := range tag.Covered {
		next.Remove(v)
	}
	if tag.Kind == LeafTag {
		next.Remove(tag.RawValue)
	}
	return next
}

// CoveredValues returns the union of values covered by tags
func CoveredValues(tags []Tag) SelectionSet {
	s := NewSelectionSet()
	for _, tag := range tags {
		for _, v := range tag.Covered {
			s.Add(v)
		}
	}
	return s
}
