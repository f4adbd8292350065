package document

// View is the display a document is shown in. Lines are zero-based.
type View interface {
	SmallestVisibleLine() int
	BiggestVisibleLine() int
	EnsureVisible(offset int)
	ScrollToLine(line int)
	TabWidth() int
	SoftTabs() bool
}

// LastCheckedResetter is implemented by views that track when the
// backing store was last checked for outside changes.
type LastCheckedResetter interface {
	ResetLastChecked()
}

// Titler is implemented by views that display the document title.
type Titler interface {
	SetTitle(title string)
}

// Compounder is implemented by views that group edits, e.g. for undo.
type Compounder interface {
	BeginCompound()
	EndCompound()
}

// HeadlessView is a View with no display. It keeps a viewport of a fixed
// height and records what the document asked of it.
type HeadlessView struct {
	top      int
	height   int
	tabWidth int
	softTabs bool

	// Title is the last title set by the document.
	Title string
	// Ensured is the last offset passed to EnsureVisible, -1 if none.
	Ensured int
	// Resets counts ResetLastChecked calls.
	Resets int
	// Compounds counts completed compound edits.
	Compounds int

	depth int
}

// NewHeadlessView creates a view showing height lines.
func NewHeadlessView(height, tabWidth int, softTabs bool) *HeadlessView {
	return &HeadlessView{
		height:   max(height, 1),
		tabWidth: max(tabWidth, 1),
		softTabs: softTabs,
		Ensured:  -1,
	}
}

// SmallestVisibleLine implements View.
func (v *HeadlessView) SmallestVisibleLine() int { return v.top }

// BiggestVisibleLine implements View.
func (v *HeadlessView) BiggestVisibleLine() int { return v.top + v.height - 1 }

// EnsureVisible implements View.
func (v *HeadlessView) EnsureVisible(offset int) { v.Ensured = offset }

// ScrollToLine implements View by putting line at the top.
func (v *HeadlessView) ScrollToLine(line int) { v.top = max(line, 0) }

// TabWidth implements View.
func (v *HeadlessView) TabWidth() int { return v.tabWidth }

// SoftTabs implements View.
func (v *HeadlessView) SoftTabs() bool { return v.softTabs }

// SetTitle implements Titler.
func (v *HeadlessView) SetTitle(title string) { v.Title = title }

// ResetLastChecked implements LastCheckedResetter.
func (v *HeadlessView) ResetLastChecked() { v.Resets++ }

// BeginCompound implements Compounder.
func (v *HeadlessView) BeginCompound() { v.depth++ }

// EndCompound implements Compounder.
func (v *HeadlessView) EndCompound() {
	if v.depth > 0 {
		v.depth--
		if v.depth == 0 {
			v.Compounds++
		}
	}
}
