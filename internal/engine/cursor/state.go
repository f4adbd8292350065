package cursor

import (
	"strings"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Text is the read side of a buffer that selection state needs.
type Text interface {
	Len() int
	LineAtOffset(offset int) (int, error)
	LineRange(line int) (buffer.Range, error)
	LineText(line int) (string, error)
	GetRange(offset, length int) (string, error)
	Delimiter() buffer.Delimiter
}

// Notifier receives selection and cursor notifications from a State.
type Notifier interface {
	// NotifySelection is called once for every selection change with
	// the normalized range.
	NotifySelection(start, end int)
	// NotifyCursor is called whenever the cursor offset changes.
	NotifyCursor(offset int)
}

// Option configures a State.
type Option func(*State)

// WithTabWidth sets the tab width used for block-mode visual columns.
func WithTabWidth(width int) Option {
	return func(s *State) {
		if width > 0 {
			s.tabWidth = width
		}
	}
}

// WithNotifier sets the receiver of selection and cursor notifications.
func WithNotifier(n Notifier) Option {
	return func(s *State) {
		s.notifier = n
	}
}

// State is the canonical selection and cursor of one document.
type State struct {
	text      Text
	set       *SelectionSet
	block     Block
	blockMode bool
	tabWidth  int
	notifier  Notifier
}

// NewState creates a state with the cursor at offset 0.
func NewState(text Text, opts ...Option) *State {
	s := &State{
		text:     text,
		set:      NewSelectionSet(NewCursorSelection(0)),
		tabWidth: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNotifier replaces the notification receiver.
func (s *State) SetNotifier(n Notifier) {
	s.notifier = n
}

// TabWidth returns the tab width used for visual columns.
func (s *State) TabWidth() int {
	return s.tabWidth
}

// SetTabWidth changes the tab width used for visual columns.
func (s *State) SetTabWidth(width int) {
	if width > 0 {
		s.tabWidth = width
	}
}

// CursorOffset returns the head of the primary selection.
func (s *State) CursorOffset() int {
	return s.set.Primary().Head
}

// SelectionOffset returns the anchor of the primary selection.
func (s *State) SelectionOffset() int {
	return s.set.Primary().Anchor
}

// Primary returns the primary selection.
func (s *State) Primary() Selection {
	return s.set.Primary()
}

// Selections returns every selection in position order.
func (s *State) Selections() []Selection {
	return s.set.All()
}

// HasSelection reports whether any text is selected.
func (s *State) HasSelection() bool {
	if s.blockMode {
		return !s.block.IsEmpty()
	}
	return s.set.HasSelection()
}

// SelectionRange returns the primary selection as (start, end). In block
// mode it spans from the block's top-left to its bottom-right corner.
func (s *State) SelectionRange() Range {
	if s.blockMode {
		ranges := s.blockRanges()
		return Range{Start: ranges[0].Start, End: ranges[len(ranges)-1].End}
	}
	return s.set.Primary().Range()
}

// SelectionRanges returns every selected range: one per selection, or
// one per line in block mode.
func (s *State) SelectionRanges() []Range {
	if s.blockMode {
		return s.blockRanges()
	}
	return s.set.Ranges()
}

// SelectedText returns the selected text. Multiple ranges are joined by
// the buffer's line delimiter.
func (s *State) SelectedText() (string, error) {
	ranges := s.SelectionRanges()
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.IsEmpty() && len(ranges) > 1 && !s.blockMode {
			continue
		}
		text, err := s.text.GetRange(r.Start, r.Len())
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, s.text.Delimiter().Sequence()), nil
}

// SelectAll selects the whole buffer with the cursor at offset 0. Block
// mode is switched off.
func (s *State) SelectAll() {
	s.blockMode = false
	s.block = Block{}
	s.apply(NewSelection(s.text.Len(), 0))
}

// SetSelectionRange selects from selection (anchor) to cursor (head),
// dropping any secondary selections. In block mode the two offsets are
// opposite corners of the block.
func (s *State) SetSelectionRange(cursor, selection int) error {
	if err := s.check("SetSelectionRange", cursor); err != nil {
		return err
	}
	if err := s.check("SetSelectionRange", selection); err != nil {
		return err
	}
	s.apply(NewSelection(selection, cursor))
	return nil
}

// SetCursorOffset collapses the selection to a cursor at offset.
func (s *State) SetCursorOffset(offset int) error {
	return s.SetSelectionRange(offset, offset)
}

// AddSelection adds another selection and makes it primary.
func (s *State) AddSelection(cursor, selection int) error {
	if s.blockMode {
		return ErrBlockMode
	}
	if err := s.check("AddSelection", cursor); err != nil {
		return err
	}
	if err := s.check("AddSelection", selection); err != nil {
		return err
	}

	prevHead := s.CursorOffset()
	s.set.Add(NewSelection(selection, cursor))
	s.notify(prevHead)
	return nil
}

// ClearSecondary drops all but the primary selection.
func (s *State) ClearSecondary() {
	if !s.set.IsMulti() {
		return
	}
	s.set.ClearSecondary()
	s.notify(s.CursorOffset())
}

// BlockSelectionMode reports whether block mode is on.
func (s *State) BlockSelectionMode() bool {
	return s.blockMode
}

// SetBlockSelectionMode switches block mode. Turning it on drops any
// secondary selections and turns the primary selection into a block.
func (s *State) SetBlockSelectionMode(on bool) {
	if on == s.blockMode {
		return
	}
	s.blockMode = on
	if on {
		s.set.ClearSecondary()
		s.block = s.blockFor(s.set.Primary())
	} else {
		s.block = Block{}
	}
	s.notify(s.CursorOffset())
}

// Block returns the current block and whether block mode is on.
func (s *State) Block() (Block, bool) {
	return s.block, s.blockMode
}

// Transform moves every selection after a buffer edit and reports a
// cursor move if the primary head changed. It does not raise a selection
// notification.
func (s *State) Transform(e buffer.Edit) {
	prevHead := s.CursorOffset()
	TransformSet(s.set, e)
	s.set.Clamp(s.text.Len())
	if s.blockMode {
		s.block = s.blockFor(s.set.Primary())
	}
	if head := s.CursorOffset(); head != prevHead && s.notifier != nil {
		s.notifier.NotifyCursor(head)
	}
}

func (s *State) apply(sel Selection) {
	prevHead := s.CursorOffset()
	s.set.Set(sel)
	if s.blockMode {
		s.block = s.blockFor(sel)
	}
	s.notify(prevHead)
}

func (s *State) notify(prevHead int) {
	if s.notifier == nil {
		return
	}
	r := s.SelectionRange()
	s.notifier.NotifySelection(r.Start, r.End)
	if head := s.CursorOffset(); head != prevHead {
		s.notifier.NotifyCursor(head)
	}
}

func (s *State) check(op string, offset int) error {
	if offset < 0 || offset > s.text.Len() {
		return outOfRange(op, offset, s.text.Len())
	}
	return nil
}

// visualPosition returns the line and visual column of offset.
func (s *State) visualPosition(offset int) (int, int) {
	line, err := s.text.LineAtOffset(offset)
	if err != nil {
		return 0, 0
	}
	lr, err := s.text.LineRange(line)
	if err != nil {
		return line, 0
	}
	text, err := s.text.LineText(line)
	if err != nil {
		return line, 0
	}
	return line, VisualColumn(text, offset-lr.Start, s.tabWidth)
}

func (s *State) blockFor(sel Selection) Block {
	l1, c1 := s.visualPosition(sel.Anchor)
	l2, c2 := s.visualPosition(sel.Head)
	return NewBlock(l1, c1, l2, c2)
}

// blockRanges maps the block onto one range per covered line. Short
// lines yield empty ranges at their end.
func (s *State) blockRanges() []Range {
	ranges := make([]Range, 0, s.block.Height())
	for line := s.block.StartLine; line <= s.block.EndLine; line++ {
		lr, err := s.text.LineRange(line)
		if err != nil {
			break
		}
		text, err := s.text.LineText(line)
		if err != nil {
			break
		}
		start := ColumnAtVisual(text, s.block.StartCol, s.tabWidth)
		end := ColumnAtVisual(text, s.block.EndCol, s.tabWidth)
		ranges = append(ranges, Range{Start: lr.Start + start, End: lr.Start + end})
	}
	if len(ranges) == 0 {
		c := s.CursorOffset()
		ranges = append(ranges, Range{Start: c, End: c})
	}
	return ranges
}
