package minefield

import (
	"slices"
	"strconv"
)

// CellState is the visible state of a single cell.
type CellState int

const (
	// CellHidden is the initial state.
	CellHidden CellState = iota
	// CellHiddenFlagged is a hidden cell carrying a flag.
	CellHiddenFlagged
	// CellOpened is terminal until the next reset.
	CellOpened
)

func (s CellState) String() string {
	switch s {
	case CellHidden:
		return "hidden"
	case CellHiddenFlagged:
		return "flagged"
	case CellOpened:
		return "opened"
	default:
		return "unknown"
	}
}

// Cell glyphs used by Board.String.
const (
	GlyphFlagged = "x"
	GlyphMine    = "*"
	GlyphEmpty   = " "
	GlyphHidden  = "?"
)

// Cell is one grid position. Row and column are fixed at construction;
// neighbors index into the owning board's cell collection.
type Cell struct {
	row       int
	col       int
	mined     bool
	opened    bool
	flagged   bool
	neighbors []int
}

func newCell(row, col int) Cell {
	return Cell{row: row, col: col}
}

// Row returns the 1-based row.
func (c Cell) Row() int { return c.row }

// Col returns the 1-based column.
func (c Cell) Col() int { return c.col }

// Mined reports whether the cell holds a mine.
func (c Cell) Mined() bool { return c.mined }

// Opened reports whether the cell has been opened.
func (c Cell) Opened() bool { return c.opened }

// Flagged reports whether the cell carries a flag.
func (c Cell) Flagged() bool { return c.flagged }

// Neighbors returns the board indices of the adjacent cells.
func (c Cell) Neighbors() []int { return slices.Clone(c.neighbors) }

// State returns the cell's visible state.
func (c Cell) State() CellState {
	switch {
	case c.opened:
		return CellOpened
	case c.flagged:
		return CellHiddenFlagged
	default:
		return CellHidden
	}
}

// GoalReached reports whether this cell is resolved: a mine must be
// flagged, a safe cell must be opened.
func (c Cell) GoalReached() bool {
	return (c.mined && c.flagged) || (!c.mined && c.opened)
}

// Glyph renders the cell for a text grid given its mined-neighbor count.
func (c Cell) Glyph(minedNeighbors int) string {
	switch {
	case c.flagged:
		return GlyphFlagged
	case c.opened && c.mined:
		return GlyphMine
	case c.opened && minedNeighbors > 0:
		return strconv.Itoa(minedNeighbors)
	case c.opened:
		return GlyphEmpty
	default:
		return GlyphHidden
	}
}

func (c *Cell) mine() {
	c.mined = true
}

// open is the single-cell transition; cascading is the board's job.
func (c *Cell) open() Outcome {
	if c.flagged || c.opened {
		return OutcomeIgnored
	}
	if c.mined {
		return OutcomeExploded
	}
	c.opened = true
	return OutcomeOpened
}

func (c *Cell) toggleFlag() Outcome {
	if c.opened {
		return OutcomeIgnored
	}
	c.flagged = !c.flagged
	if c.flagged {
		return OutcomeFlagged
	}
	return OutcomeUnflagged
}

// reveal forces the cell open after an explosion. The flag is dropped so a
// cell is never opened and flagged at once.
func (c *Cell) reveal() {
	c.opened = true
	c.flagged = false
}

func (c *Cell) reset() {
	c.mined = false
	c.opened = false
	c.flagged = false
}
