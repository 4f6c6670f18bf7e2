package minefield

import (
	"strconv"
	"strings"
)

// String renders the board as text: a header of column numbers, then one
// line per row prefixed by its row number.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString(" ")
	for col := 1; col <= b.cols; col++ {
		sb.WriteString("  ")
		sb.WriteString(strconv.Itoa(col))
		sb.WriteString("  ")
	}

	i := 0
	for row := 1; row <= b.rows; row++ {
		sb.WriteString("\n")
		sb.WriteString(strconv.Itoa(row))
		for col := 1; col <= b.cols; col++ {
			sb.WriteString(" ")
			sb.WriteString(b.cells[i].Glyph(b.minedNeighbors(i)))
			sb.WriteString(" ")
			i++
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
