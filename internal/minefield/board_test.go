package minefield

import (
	"errors"
	"slices"
	"testing"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

func newFixedBoard(t *testing.T, rows, cols int, mines ...[2]int) *Board {
	t.Helper()
	indices := make([]int, 0, len(mines))
	for _, m := range mines {
		indices = append(indices, Index(cols, m[0], m[1]))
	}
	board, err := NewBoard(rows, cols, len(mines), WithSource(NewSequenceSource(indices...)))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return board
}

func countOpened(b *Board) int {
	opened := 0
	for _, cell := range b.Cells() {
		if cell.Opened() {
			opened++
		}
	}
	return opened
}

// TestNewBoardRejectsInvalidConfig ensures non-positive sizes and impossible mine counts are rejected.
func TestNewBoardRejectsInvalidConfig(t *testing.T) {
	tcs := []struct {
		name  string
		rows  int
		cols  int
		mines int
		want  error
	}{
		{name: "zero rows", rows: 0, cols: 3, mines: 0, want: ErrInvalidDimensions},
		{name: "negative cols", rows: 3, cols: -1, mines: 0, want: ErrInvalidDimensions},
		{name: "negative mines", rows: 3, cols: 3, mines: -1, want: ErrInvalidMineCount},
		{name: "too many mines", rows: 3, cols: 3, mines: 10, want: ErrInvalidMineCount},
	}
	for _, tc := range tcs {
		_, err := NewBoard(tc.rows, tc.cols, tc.mines, WithSeed(1))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNewBoardInvalidMineCountCarriesMetadata(t *testing.T) {
	_, err := NewBoard(2, 2, 5, WithSeed(1))
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T", err)
	}
	if domainErr.Metadata["Mines"] != "5" || domainErr.Metadata["Cells"] != "4" {
		t.Fatalf("metadata = %v", domainErr.Metadata)
	}
}

// TestNewBoardSowsExactMineCount ensures construction always sows the requested number of mines.
func TestNewBoardSowsExactMineCount(t *testing.T) {
	tcs := []struct {
		rows, cols, mines int
	}{
		{1, 1, 0},
		{1, 1, 1},
		{3, 3, 0},
		{3, 3, 8},
		{3, 3, 9},
		{6, 6, 6},
		{9, 9, 10},
		{16, 30, 99},
	}
	for _, tc := range tcs {
		for seed := int64(1); seed <= 5; seed++ {
			board, err := NewBoard(tc.rows, tc.cols, tc.mines, WithSeed(seed))
			if err != nil {
				t.Fatalf("new board %dx%d/%d: %v", tc.rows, tc.cols, tc.mines, err)
			}
			if got := countMined(board.cells); got != tc.mines {
				t.Fatalf("%dx%d seed %d: mined = %d, want %d", tc.rows, tc.cols, seed, got, tc.mines)
			}
			if len(board.Cells()) != tc.rows*tc.cols {
				t.Fatalf("cells = %d, want %d", len(board.Cells()), tc.rows*tc.cols)
			}
		}
	}
}

func TestNewBoardWithoutSeedPicksOne(t *testing.T) {
	board, err := NewBoard(4, 4, 3)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if board.Seed() == 0 {
		t.Fatal("expected a generated seed")
	}
	if got := countMined(board.cells); got != 3 {
		t.Fatalf("mined = %d, want 3", got)
	}
}

// TestSameSeedSameLayout ensures a seed fully determines the mine layout.
func TestSameSeedSameLayout(t *testing.T) {
	first, err := NewBoard(8, 8, 10, WithSeed(42))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	second, err := NewBoard(8, 8, 10, WithSeed(42))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	for i := range first.cells {
		if first.cells[i].mined != second.cells[i].mined {
			t.Fatalf("layouts differ at index %d", i)
		}
	}
}

func TestCellsAreRowMajor(t *testing.T) {
	board := newFixedBoard(t, 3, 4)
	for i, cell := range board.Cells() {
		if got := Index(4, cell.Row(), cell.Col()); got != i {
			t.Fatalf("cell (%d,%d) at index %d, want %d", cell.Row(), cell.Col(), i, got)
		}
	}
}

// TestNeighborGraphIsSymmetricAndIrreflexive ensures adjacency is mutual and never self-referential.
func TestNeighborGraphIsSymmetricAndIrreflexive(t *testing.T) {
	board := newFixedBoard(t, 4, 5)
	cells := board.Cells()
	for i, cell := range cells {
		for _, n := range cell.Neighbors() {
			if n == i {
				t.Fatalf("cell %d lists itself as neighbor", i)
			}
			if !slices.Contains(cells[n].Neighbors(), i) {
				t.Fatalf("cell %d -> %d is not symmetric", i, n)
			}
		}
	}
}

// TestNeighborCounts ensures corners, edges and interior cells get 3, 5 and 8 neighbors.
func TestNeighborCounts(t *testing.T) {
	board := newFixedBoard(t, 3, 3)
	tcs := []struct {
		row, col, want int
	}{
		{1, 1, 3},
		{1, 2, 5},
		{2, 2, 8},
		{3, 3, 3},
		{2, 3, 5},
	}
	for _, tc := range tcs {
		if got := len(board.Neighbors(tc.row, tc.col)); got != tc.want {
			t.Fatalf("neighbors(%d,%d) = %d, want %d", tc.row, tc.col, got, tc.want)
		}
	}
	if got := board.Neighbors(0, 1); got != nil {
		t.Fatalf("expected nil neighbors out of range, got %v", got)
	}
}

// TestOpenEmptyBoardCascadesEverything ensures one open on a mine-free board reveals every cell.
func TestOpenEmptyBoardCascadesEverything(t *testing.T) {
	board := newFixedBoard(t, 3, 3)

	outcome, err := board.Open(2, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if outcome != OutcomeOpened {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeOpened)
	}
	if got := countOpened(board); got != 9 {
		t.Fatalf("opened = %d, want 9", got)
	}
	if !board.GoalReached() {
		t.Fatal("expected goal reached")
	}
	if board.Status().Round != RoundWon {
		t.Fatalf("round = %v, want won", board.Status().Round)
	}
}

// TestOpenSingleMinedCellExplodes ensures a 1x1 mined board explodes and leaves the cell opened.
func TestOpenSingleMinedCellExplodes(t *testing.T) {
	board, err := NewBoard(1, 1, 1, WithSeed(7))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}

	outcome, err := board.Open(1, 1)
	if outcome != OutcomeExploded {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeExploded)
	}
	if !errors.Is(err, ErrExplosion) {
		t.Fatalf("err = %v, want %v", err, ErrExplosion)
	}
	cell, _ := board.Cell(1, 1)
	if !cell.Opened() {
		t.Fatal("expected mined cell to be revealed")
	}
	if board.Status().Round != RoundLost {
		t.Fatalf("round = %v, want lost", board.Status().Round)
	}
}

func TestOpenNumberedCellDoesNotCascade(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})

	outcome, err := board.Open(2, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if outcome != OutcomeOpened {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeOpened)
	}
	if got := countOpened(board); got != 1 {
		t.Fatalf("opened = %d, want 1", got)
	}
	if got := board.MinedNeighbors(2, 2); got != 1 {
		t.Fatalf("mined neighbors = %d, want 1", got)
	}
}

// TestCascadeStopsAtNumberedBoundary ensures the flood opens the zero region plus its numbered rim.
func TestCascadeStopsAtNumberedBoundary(t *testing.T) {
	board := newFixedBoard(t, 3, 5, [2]int{1, 5})

	if _, err := board.Open(3, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := countOpened(board); got != 14 {
		t.Fatalf("opened = %d, want 14", got)
	}
	mine, _ := board.Cell(1, 5)
	if mine.Opened() {
		t.Fatal("mine must stay hidden")
	}
	if board.GoalReached() {
		t.Fatal("goal requires the mine to be flagged")
	}
	if board.Mark(1, 5) != OutcomeFlagged {
		t.Fatal("expected mine to be flagged")
	}
	if !board.GoalReached() {
		t.Fatal("expected goal reached once the mine is flagged")
	}
}

// TestCascadeLeavesFlaggedCellsAlone ensures the flood never opens a flagged cell.
func TestCascadeLeavesFlaggedCellsAlone(t *testing.T) {
	board := newFixedBoard(t, 3, 5, [2]int{1, 5})
	board.Mark(2, 2)

	if _, err := board.Open(3, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	flagged, _ := board.Cell(2, 2)
	if flagged.Opened() || !flagged.Flagged() {
		t.Fatalf("flagged cell state = %v, want flagged", flagged.State())
	}
	if got := countOpened(board); got != 13 {
		t.Fatalf("opened = %d, want 13", got)
	}
}

func TestCascadeOnLargeBoardIsBounded(t *testing.T) {
	board, err := NewBoard(60, 60, 0, WithSeed(1))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if _, err := board.Open(30, 30); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := countOpened(board); got != 60*60 {
		t.Fatalf("opened = %d, want %d", got, 60*60)
	}
}

// TestOpenFlaggedCellIsNoOp ensures flags protect cells from being opened.
func TestOpenFlaggedCellIsNoOp(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	board.Mark(2, 2)

	outcome, err := board.Open(2, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeIgnored)
	}
	cell, _ := board.Cell(2, 2)
	if cell.State() != CellHiddenFlagged {
		t.Fatalf("state = %v, want %v", cell.State(), CellHiddenFlagged)
	}
}

func TestOpenFlaggedMineDoesNotExplode(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	board.Mark(1, 1)

	outcome, err := board.Open(1, 1)
	if err != nil || outcome != OutcomeIgnored {
		t.Fatalf("open = (%v, %v), want (%v, nil)", outcome, err, OutcomeIgnored)
	}
}

func TestMarkOpenedCellIsNoOp(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	if _, err := board.Open(2, 2); err != nil {
		t.Fatalf("open: %v", err)
	}

	if got := board.Mark(2, 2); got != OutcomeIgnored {
		t.Fatalf("mark = %v, want %v", got, OutcomeIgnored)
	}
	cell, _ := board.Cell(2, 2)
	if cell.Flagged() {
		t.Fatal("opened cell must not be flagged")
	}
}

func TestMarkToggles(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	if got := board.Mark(1, 2); got != OutcomeFlagged {
		t.Fatalf("first mark = %v, want %v", got, OutcomeFlagged)
	}
	if got := board.Mark(1, 2); got != OutcomeUnflagged {
		t.Fatalf("second mark = %v, want %v", got, OutcomeUnflagged)
	}
	cell, _ := board.Cell(1, 2)
	if cell.State() != CellHidden {
		t.Fatalf("state = %v, want %v", cell.State(), CellHidden)
	}
}

func TestOutOfRangeMovesAreIgnored(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	coords := [][2]int{{0, 1}, {1, 0}, {3, 1}, {1, 3}, {-1, -1}}
	for _, c := range coords {
		outcome, err := board.Open(c[0], c[1])
		if err != nil || outcome != OutcomeIgnored {
			t.Fatalf("open(%d,%d) = (%v, %v), want ignored", c[0], c[1], outcome, err)
		}
		if got := board.Mark(c[0], c[1]); got != OutcomeIgnored {
			t.Fatalf("mark(%d,%d) = %v, want ignored", c[0], c[1], got)
		}
		if _, ok := board.Cell(c[0], c[1]); ok {
			t.Fatalf("cell(%d,%d) should not exist", c[0], c[1])
		}
	}
	if got := countOpened(board); got != 0 {
		t.Fatalf("opened = %d, want 0", got)
	}
}

// TestExplosionRevealsWholeBoard ensures an explosion opens every cell and clears flags.
func TestExplosionRevealsWholeBoard(t *testing.T) {
	board := newFixedBoard(t, 3, 3, [2]int{2, 2}, [2]int{3, 3})
	board.Mark(1, 1)
	board.Mark(3, 3)

	outcome, err := board.Open(2, 2)
	if outcome != OutcomeExploded || !errors.Is(err, ErrExplosion) {
		t.Fatalf("open = (%v, %v), want exploded", outcome, err)
	}
	for _, cell := range board.Cells() {
		if !cell.Opened() {
			t.Fatalf("cell (%d,%d) not revealed", cell.Row(), cell.Col())
		}
		if cell.Flagged() {
			t.Fatalf("cell (%d,%d) opened and flagged", cell.Row(), cell.Col())
		}
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) || domainErr.Metadata["Row"] != "2" || domainErr.Metadata["Col"] != "2" {
		t.Fatalf("expected explosion coordinates in metadata, got %v", err)
	}
	if board.GoalReached() {
		t.Fatal("exploded board must not reach the goal")
	}
}

// TestGoalReachedMatchesPerCellPredicate ensures the goal holds only when every cell satisfies its own predicate.
func TestGoalReachedMatchesPerCellPredicate(t *testing.T) {
	board := newFixedBoard(t, 2, 3, [2]int{1, 3})
	moves := []struct {
		open bool
		row  int
		col  int
	}{
		{open: true, row: 2, col: 1},
		{open: false, row: 1, col: 3},
		{open: true, row: 2, col: 3},
	}
	for _, move := range moves {
		if move.open {
			if _, err := board.Open(move.row, move.col); err != nil {
				t.Fatalf("open: %v", err)
			}
		} else {
			board.Mark(move.row, move.col)
		}
		want := true
		for _, cell := range board.Cells() {
			if !((cell.Mined() && cell.Flagged()) || (!cell.Mined() && cell.Opened())) {
				want = false
			}
		}
		if got := board.GoalReached(); got != want {
			t.Fatalf("goal = %v, want %v", got, want)
		}
	}
	if !board.GoalReached() {
		t.Fatal("expected final goal reached")
	}
}

func TestWrongFlagBlocksGoal(t *testing.T) {
	board := newFixedBoard(t, 1, 3, [2]int{1, 1})
	board.Mark(1, 1)
	board.Mark(1, 3)
	if _, err := board.Open(1, 2); err != nil {
		t.Fatalf("open: %v", err)
	}
	if board.GoalReached() {
		t.Fatal("flagged safe cell must block the goal")
	}
}

// TestResetClearsAndResows ensures reset clears state, keeps topology and re-sows the mine count.
func TestResetClearsAndResows(t *testing.T) {
	board, err := NewBoard(6, 6, 6, WithSeed(3))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	before := board.Cells()
	for _, cell := range before {
		if !cell.Mined() {
			if _, err := board.Open(cell.Row(), cell.Col()); err != nil {
				t.Fatalf("open: %v", err)
			}
			break
		}
	}
	board.Mark(1, 1)

	board.Reset()

	after := board.Cells()
	for i, cell := range after {
		if cell.Opened() || cell.Flagged() {
			t.Fatalf("cell %d not cleared: %v", i, cell.State())
		}
		if !slices.Equal(cell.Neighbors(), before[i].Neighbors()) {
			t.Fatalf("cell %d neighbors changed", i)
		}
	}
	if got := countMined(board.cells); got != 6 {
		t.Fatalf("mined after reset = %d, want 6", got)
	}
	if board.Status().Round != RoundInProgress {
		t.Fatalf("round = %v, want in progress", board.Status().Round)
	}
}

func TestResetAfterExplosion(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	if _, err := board.Open(1, 1); !errors.Is(err, ErrExplosion) {
		t.Fatalf("err = %v, want explosion", err)
	}
	board.Reset()
	if board.Exploded() {
		t.Fatal("reset must clear the explosion")
	}
	if got := countOpened(board); got != 0 {
		t.Fatalf("opened = %d, want 0", got)
	}
	mine, _ := board.Cell(1, 1)
	if !mine.Mined() {
		t.Fatal("sequence source should re-sow the same layout")
	}
}

// TestResetDrawsReproducibleRoundSeed ensures every round seed rebuilds that round's layout.
func TestResetDrawsReproducibleRoundSeed(t *testing.T) {
	board, err := NewBoard(8, 8, 10, WithSeed(42))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	seen := map[int64]bool{board.Seed(): true}
	for round := 2; round <= 4; round++ {
		board.Reset()
		seed := board.Seed()
		if seed == 0 || seen[seed] {
			t.Fatalf("round %d seed = %d, want a fresh non-zero seed", round, seed)
		}
		seen[seed] = true

		replay, err := NewBoard(8, 8, 10, WithSeed(seed))
		if err != nil {
			t.Fatalf("replay board: %v", err)
		}
		if !slices.Equal(minedLayout(board), minedLayout(replay)) {
			t.Fatalf("round %d layout does not match WithSeed(%d)", round, seed)
		}
	}

	other, err := NewBoard(8, 8, 10, WithSeed(42))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	fresh, err := NewBoard(8, 8, 10, WithSeed(42))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	other.Reset()
	fresh.Reset()
	if other.Seed() != fresh.Seed() {
		t.Fatalf("round seeds diverged: %d vs %d", other.Seed(), fresh.Seed())
	}
}

// TestResetWithSourceKeepsZeroSeed ensures custom sources never report a seed.
func TestResetWithSourceKeepsZeroSeed(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{2, 2})
	board.Reset()
	if board.Seed() != 0 {
		t.Fatalf("seed = %d, want 0", board.Seed())
	}
}

func minedLayout(b *Board) []bool {
	cells := b.Cells()
	out := make([]bool, len(cells))
	for i, cell := range cells {
		out[i] = cell.Mined()
	}
	return out
}

func TestStatusCounts(t *testing.T) {
	board := newFixedBoard(t, 2, 2, [2]int{1, 1})
	board.Mark(1, 2)
	if _, err := board.Open(2, 2); err != nil {
		t.Fatalf("open: %v", err)
	}
	got := board.Status()
	want := Status{Round: RoundInProgress, Cells: 4, Mines: 1, Opened: 1, Flagged: 1}
	if got != want {
		t.Fatalf("status = %+v, want %+v", got, want)
	}
}
