package document

// ScrollToLine scrolls as little as possible to bring line into view,
// leaving two lines of context when it has to move.
func (d *Document) ScrollToLine(line int) {
	smallest := d.view.SmallestVisibleLine()
	biggest := d.view.BiggestVisibleLine()
	switch {
	case line > biggest:
		top := smallest + (line - biggest) + 2
		d.ScrollToLineAtTop(min(top, d.LineCount()-1))
	case line < smallest:
		d.ScrollToLineAtTop(max(line-2, 0))
	}
}

// ScrollToLineAtTop asks the view to put line at the top.
func (d *Document) ScrollToLineAtTop(line int) {
	d.view.ScrollToLine(line)
}

// NumLinesVisible returns the number of lines the view shows, less one.
func (d *Document) NumLinesVisible() int {
	return d.view.BiggestVisibleLine() - d.view.SmallestVisibleLine()
}

// EnsureVisible asks the view to show offset.
func (d *Document) EnsureVisible(offset int) {
	d.view.EnsureVisible(offset)
}

// SmallestVisibleLine returns the first visible line.
func (d *Document) SmallestVisibleLine() int {
	return d.view.SmallestVisibleLine()
}

// BiggestVisibleLine returns the last visible line.
func (d *Document) BiggestVisibleLine() int {
	return d.view.BiggestVisibleLine()
}
