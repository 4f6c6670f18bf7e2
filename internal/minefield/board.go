package minefield

import (
	"fmt"
	"math/rand"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/random"
)

// Board is a rows x cols grid of cells with a fixed number of mines.
type Board struct {
	rows      int
	cols      int
	mineCount int
	cells     []Cell
	source    Source
	seed      int64
	seeds     *rand.Rand
	exploded  bool
}

type options struct {
	source Source
	seed   int64
}

// Option configures NewBoard.
type Option func(*options)

// WithSeed places mines from a math/rand generator seeded with seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.source = nil
	}
}

// WithSource places mines from src. The board does not record a seed.
func WithSource(src Source) Option {
	return func(o *options) {
		o.source = src
		o.seed = 0
	}
}

// NewBoard builds a board, wires the neighbor graph and sows mineCount mines.
// Without WithSeed or WithSource the seed comes from crypto/rand.
func NewBoard(rows, cols, mineCount int, opts ...Option) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, invalidDimensions(rows, cols)
	}
	total := rows * cols
	if mineCount < 0 || mineCount > total {
		return nil, invalidMineCount(mineCount, total)
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.source == nil {
		if o.seed == 0 {
			seed, err := random.ResolveSeed(0)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeSeedUnavailable, "resolve board seed", err)
			}
			o.seed = seed
		}
		o.source = NewSeededSource(o.seed)
	}
	var seeds *rand.Rand
	if o.seed != 0 {
		seeds = rand.New(rand.NewSource(o.seed))
	}

	b := &Board{
		rows:      rows,
		cols:      cols,
		mineCount: mineCount,
		cells:     make([]Cell, 0, total),
		source:    o.source,
		seed:      o.seed,
		seeds:     seeds,
	}
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			b.cells = append(b.cells, newCell(row, col))
		}
	}
	linkNeighbors(b.cells)
	sowMines(b.cells, b.mineCount, b.source)
	return b, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// MineCount returns the number of mines sown per round.
func (b *Board) MineCount() int { return b.mineCount }

// Seed returns the placement seed of the current round, or 0 when a custom
// Source was supplied. NewBoard with WithSeed(Seed()) rebuilds the layout.
func (b *Board) Seed() int64 { return b.seed }

// Open opens the cell at (row, col), cascading through empty regions.
//
// Coordinates outside the grid, flagged cells and opened cells yield
// OutcomeIgnored. Opening a mine forces every cell open and returns
// OutcomeExploded with an error matching ErrExplosion.
func (b *Board) Open(row, col int) (Outcome, error) {
	idx, ok := b.index(row, col)
	if !ok {
		return OutcomeIgnored, nil
	}

	outcome := b.cells[idx].open()
	switch outcome {
	case OutcomeExploded:
		b.exploded = true
		for i := range b.cells {
			b.cells[i].reveal()
		}
		return OutcomeExploded, explosionAt(row, col)
	case OutcomeOpened:
		b.cascade(idx)
	}
	return outcome, nil
}

// cascade opens the zero region around start with an explicit stack. The
// opened flag is the visited set, so each cell is pushed at most once.
func (b *Board) cascade(start int) {
	stack := []int{start}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.minedNeighbors(idx) > 0 {
			continue
		}
		for _, n := range b.cells[idx].neighbors {
			// A zero cell has no mined neighbors, so open never explodes here.
			if b.cells[n].open() == OutcomeOpened {
				stack = append(stack, n)
			}
		}
	}
}

// Mark toggles the flag on the cell at (row, col). Opened cells and
// coordinates outside the grid yield OutcomeIgnored.
func (b *Board) Mark(row, col int) Outcome {
	idx, ok := b.index(row, col)
	if !ok {
		return OutcomeIgnored
	}
	return b.cells[idx].toggleFlag()
}

// GoalReached reports whether every mine is flagged and every safe cell is
// opened.
func (b *Board) GoalReached() bool {
	for i := range b.cells {
		if !b.cells[i].GoalReached() {
			return false
		}
	}
	return true
}

// Reset clears every cell in place and sows a fresh set of mines. The
// neighbor graph is kept. Seeded boards draw a new round seed first, so
// every round stays reproducible from Seed; a custom Source keeps feeding
// the next round.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i].reset()
	}
	b.exploded = false
	if b.seeds != nil {
		b.seed = nextSeed(b.seeds)
		b.source = NewSeededSource(b.seed)
	}
	sowMines(b.cells, b.mineCount, b.source)
}

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) (Cell, bool) {
	idx, ok := b.index(row, col)
	if !ok {
		return Cell{}, false
	}
	return b.cells[idx], true
}

// Cells returns a row-major copy of every cell.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// Neighbors returns copies of the cells adjacent to (row, col).
func (b *Board) Neighbors(row, col int) []Cell {
	idx, ok := b.index(row, col)
	if !ok {
		return nil
	}
	out := make([]Cell, 0, len(b.cells[idx].neighbors))
	for _, n := range b.cells[idx].neighbors {
		out = append(out, b.cells[n])
	}
	return out
}

// MinedNeighbors returns how many cells adjacent to (row, col) are mined.
func (b *Board) MinedNeighbors(row, col int) int {
	idx, ok := b.index(row, col)
	if !ok {
		return 0
	}
	return b.minedNeighbors(idx)
}

// Status summarizes the round.
func (b *Board) Status() Status {
	status := Status{
		Round: RoundInProgress,
		Cells: len(b.cells),
		Mines: b.mineCount,
	}
	for i := range b.cells {
		if b.cells[i].opened {
			status.Opened++
		}
		if b.cells[i].flagged {
			status.Flagged++
		}
	}
	switch {
	case b.exploded:
		status.Round = RoundLost
	case b.GoalReached():
		status.Round = RoundWon
	}
	return status
}

// Exploded reports whether a mine was opened this round.
func (b *Board) Exploded() bool { return b.exploded }

func (b *Board) minedNeighbors(idx int) int {
	count := 0
	for _, n := range b.cells[idx].neighbors {
		if b.cells[n].mined {
			count++
		}
	}
	return count
}

func (b *Board) index(row, col int) (int, bool) {
	if row < 1 || row > b.rows || col < 1 || col > b.cols {
		return 0, false
	}
	return Index(b.cols, row, col), true
}

// GoString helps debugging in test failures.
func (b *Board) GoString() string {
	return fmt.Sprintf("minefield.Board{rows: %d, cols: %d, mines: %d, seed: %d}", b.rows, b.cols, b.mineCount, b.seed)
}
