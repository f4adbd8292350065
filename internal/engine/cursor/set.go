package cursor

import "sort"

// SelectionSet manages several selections kept sorted by position and
// non-overlapping. One of them is primary: its head is the document
// cursor.
type SelectionSet struct {
	selections []Selection
	primary    int
}

// NewSelectionSet creates a set holding a single selection.
func NewSelectionSet(initial Selection) *SelectionSet {
	return &SelectionSet{
		selections: []Selection{initial},
	}
}

// Primary returns the primary selection.
func (ss *SelectionSet) Primary() Selection {
	return ss.selections[ss.primary]
}

// All returns a copy of all selections in position order.
func (ss *SelectionSet) All() []Selection {
	result := make([]Selection, len(ss.selections))
	copy(result, ss.selections)
	return result
}

// Count returns the number of selections.
func (ss *SelectionSet) Count() int {
	return len(ss.selections)
}

// IsMulti returns true if there are multiple selections.
func (ss *SelectionSet) IsMulti() bool {
	return len(ss.selections) > 1
}

// Add adds a selection and makes it primary. Touching selections are
// merged; the merged result becomes primary.
func (ss *SelectionSet) Add(sel Selection) {
	ss.selections = append(ss.selections, sel)
	ss.primary = len(ss.selections) - 1
	ss.normalize()
}

// Set replaces all selections with a single selection.
func (ss *SelectionSet) Set(sel Selection) {
	ss.selections = []Selection{sel}
	ss.primary = 0
}

// ClearSecondary drops every selection except the primary.
func (ss *SelectionSet) ClearSecondary() {
	ss.Set(ss.Primary())
}

// HasSelection returns true if any selection is non-empty.
func (ss *SelectionSet) HasSelection() bool {
	for _, sel := range ss.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Clamp clamps all selections to [0, maxOffset].
func (ss *SelectionSet) Clamp(maxOffset int) {
	for i, sel := range ss.selections {
		ss.selections[i] = sel.Clamp(maxOffset)
	}
	ss.normalize()
}

// Ranges returns the range of every selection.
func (ss *SelectionSet) Ranges() []Range {
	ranges := make([]Range, len(ss.selections))
	for i, sel := range ss.selections {
		ranges[i] = sel.Range()
	}
	return ranges
}

// normalize sorts selections, merges touching ones, and keeps track of
// which selection is primary.
func (ss *SelectionSet) normalize() {
	if len(ss.selections) <= 1 {
		ss.primary = 0
		return
	}

	head := ss.selections[ss.primary].Head

	sort.SliceStable(ss.selections, func(i, j int) bool {
		si, sj := ss.selections[i].Start(), ss.selections[j].Start()
		if si != sj {
			return si < sj
		}
		return ss.selections[i].End() > ss.selections[j].End()
	})

	merged := ss.selections[:1]
	for _, sel := range ss.selections[1:] {
		last := &merged[len(merged)-1]
		// Two bare cursors at the same spot collapse; non-empty
		// selections merge when they overlap.
		if sel.Start() < last.End() || (sel.Start() == last.End() && (sel.IsEmpty() || last.IsEmpty())) {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	ss.selections = merged

	ss.primary = 0
	for i, sel := range ss.selections {
		if sel.Head == head {
			ss.primary = i
			return
		}
	}
	for i, sel := range ss.selections {
		if sel.ContainsInclusive(head) {
			ss.primary = i
			return
		}
	}
}
