package cursor

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Block is a rectangular selection spanning lines StartLine..EndLine
// (inclusive) and visual columns [StartCol, EndCol).
type Block struct {
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
}

// NewBlock creates a normalized block from two corners.
func NewBlock(line1, col1, line2, col2 int) Block {
	b := Block{StartLine: line1, EndLine: line2, StartCol: col1, EndCol: col2}
	return b.Normalize()
}

// Normalize ensures StartLine <= EndLine and StartCol <= EndCol.
func (b Block) Normalize() Block {
	if b.StartLine > b.EndLine {
		b.StartLine, b.EndLine = b.EndLine, b.StartLine
	}
	if b.StartCol > b.EndCol {
		b.StartCol, b.EndCol = b.EndCol, b.StartCol
	}
	return b
}

// Height returns the number of lines the block covers.
func (b Block) Height() int {
	return b.EndLine - b.StartLine + 1
}

// Width returns the number of visual columns the block covers.
func (b Block) Width() int {
	return b.EndCol - b.StartCol
}

// IsEmpty returns true if the block has no width.
func (b Block) IsEmpty() bool {
	return b.StartCol == b.EndCol
}

// String returns a debug representation of the block.
func (b Block) String() string {
	return fmt.Sprintf("Block(lines %d-%d, cols %d-%d)", b.StartLine, b.EndLine, b.StartCol, b.EndCol)
}

// VisualColumn returns the display column at which character col of line
// starts. Tabs advance to the next multiple of tabWidth; other grapheme
// clusters advance by their display width.
func VisualColumn(line string, col, tabWidth int) int {
	visual, chars := 0, 0
	g := uniseg.NewGraphemes(line)
	for chars < col && g.Next() {
		visual += cellWidth(g.Str(), visual, tabWidth)
		chars += len(g.Runes())
	}
	return visual
}

// ColumnAtVisual returns the character column of the first grapheme
// cluster in line that starts at or after display column visual, or the
// line length when no such cluster exists.
func ColumnAtVisual(line string, visual, tabWidth int) int {
	at, chars := 0, 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		if at >= visual {
			return chars
		}
		at += cellWidth(g.Str(), at, tabWidth)
		chars += len(g.Runes())
	}
	return chars
}

func cellWidth(cluster string, visual, tabWidth int) int {
	if cluster == "\t" {
		if tabWidth < 1 {
			tabWidth = 1
		}
		return tabWidth - visual%tabWidth
	}
	return uniseg.StringWidth(cluster)
}
