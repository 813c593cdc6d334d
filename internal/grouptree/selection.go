package grouptree

import "sort"

// SelectionSet is the set of selected raw values for one major.
// A nil set reads as empty; use NewSelectionSet before adding to it.
type SelectionSet map[string]struct{}

// NewSelectionSet creates a set holding the given values
func NewSelectionSet(values ...string) SelectionSet {
	s := make(SelectionSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is selected
func (s SelectionSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Add selects v
func (s SelectionSet) Add(v string) {
	s[v] = struct{}{}
}

// Remove deselects v
func (s SelectionSet) Remove(v string) {
	delete(s, v)
}

// Len returns the number of selected values
func (s SelectionSet) Len() int {
	return len(s)
}

// Values returns the selected values in sorted order
func (s SelectionSet) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Clone returns an independent copy; cloning a nil set yields an empty one
func (s SelectionSet) Clone() SelectionSet {
	c := make(SelectionSet, len(s))
	for v := range s {
		c[v] = struct{}{}
	}
	return c
}

// ContainsAll reports whether every value is selected
func (s SelectionSet) ContainsAll(values []string) bool {
	for _, v := range values {
		if !s.Has(v) {
			return false
		}
	}
	return true
}

// AllLeafValues returns the raw values of every leaf reachable from n:
// its own items first, then each child's in stored order.
func AllLeafValues(n *GroupNode) []string {
	if n == nil {
		return nil
	}
	seen := make(map[string]bool)
	var values []string
	var collect func(*GroupNode)
	collect = func(node *GroupNode) {
		for _, item := range node.Items {
			if !seen[item.RawValue] {
				seen[item.RawValue] = true
				values = append(values, item.RawValue)
			}
		}
		for _, c := range node.Children {
			collect(c)
		}
	}
	collect(n)
	return values
}

// IsGroupFullySelected reports whether n has leaves and all of them are selected
func IsGroupFullySelected(n *GroupNode, selected SelectionSet) bool {
	values := AllLeafValues(n)
	return len(values) > 0 && selected.ContainsAll(values)
}

// IsGroupPartiallySelected reports whether some, but not all, of n's leaves are selected
func IsGroupPartiallySelected(n *GroupNode, selected SelectionSet) bool {
	values := AllLeafValues(n)
	count := 0
	for _, v := range values {
		if selected.Has(v) {
			count++
		}
	}
	return count > 0 && count < len(values)
}

// IsAllSelected reports whether the selection is exactly the option list
func IsAllSelected(options []string, selected SelectionSet) bool {
	distinct := NewSelectionSet(options...)
	if distinct.Len() == 0 || selected.Len() != distinct.Len() {
		return false
	}
	return selected.ContainsAll(options)
}

// ToggleAll is the "Select All / Deselect All" action: an all-selected
// major is cleared, anything else becomes exactly options.
func ToggleAll(options []string, selected SelectionSet) SelectionSet {
	if IsAllSelected(options, selected) {
		return NewSelectionSet()
	}
	return NewSelectionSet(options...)
}

// ToggleGroup is the "select all in group" action: a fully selected group
// has its leaves removed, otherwise all of them are added.
func ToggleGroup(n *GroupNode, selected SelectionSet) SelectionSet {
	next := selected.Clone()
	values := AllLeafValues(n)
	if IsGroupFullySelected(n, selected) {
		for _, v := range values {
			next.Remove(v)
		}
		return next
	}
	for _, v := range values {
		next.Add(v)
	}
	return next
}
