package minefield

import "math/rand"

// Source picks mine positions. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// NewSeededSource returns a deterministic Source for seed.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// nextSeed returns a non-zero seed from r. Zero means "pick one" elsewhere.
func nextSeed(r *rand.Rand) int64 {
	for {
		if seed := r.Int63(); seed != 0 {
			return seed
		}
	}
}

// SequenceSource replays a fixed list of cell indices, cycling when it runs
// out. It must list at least as many distinct indices as the board has
// mines, otherwise placement never completes.
type SequenceSource struct {
	values []int
	next   int
}

// NewSequenceSource returns a Source that yields values in order.
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: append([]int(nil), values...)}
}

// Intn returns the next value reduced into [0, n).
func (s *SequenceSource) Intn(n int) int {
	if n <= 0 || len(s.values) == 0 {
		return 0
	}
	value := s.values[s.next%len(s.values)]
	s.next++
	return ((value % n) + n) % n
}

// Index returns the row-major index of the 1-based (row, col) on a grid with
// cols columns. Useful for building SequenceSource layouts.
func Index(cols, row, col int) int {
	return (row-1)*cols + (col - 1)
}

// sowMines mines uniformly random cells until exactly count are mined.
// Re-picking a mined cell is a no-op, so the loop slows down as count
// approaches len(cells); the distribution is kept as is.
func sowMines(cells []Cell, count int, src Source) {
	if count <= 0 {
		return
	}
	for {
		cells[src.Intn(len(cells))].mine()
		if countMined(cells) == count {
			return
		}
	}
}

func countMined(cells []Cell) int {
	mined := 0
	for i := range cells {
		if cells[i].mined {
			mined++
		}
	}
	return mined
}
