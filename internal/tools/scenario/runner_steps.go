package scenario

import (
	"errors"
	"fmt"

	"github.com/louisbranch/minefield/internal/minefield"
)

const (
	stepBoard                = "board"
	stepOpen                 = "open"
	stepMark                 = "mark"
	stepReset                = "reset"
	stepExpectOpened         = "expect_opened"
	stepExpectFlagged        = "expect_flagged"
	stepExpectMinedNeighbors = "expect_mined_neighbors"
	stepExpectOutcome        = "expect_outcome"
	stepExpectGoal           = "expect_goal"
	stepExpectExplosion      = "expect_explosion"
	stepExpectRender         = "expect_render"
)

func (r *Runner) runStep(state *scenarioState, step Step) error {
	if step.Kind == stepBoard {
		return r.runBoard(state, step)
	}
	if state.board == nil {
		return fmt.Errorf("board step is required before %s", step.Kind)
	}

	switch step.Kind {
	case stepOpen:
		return r.runOpen(state, step)
	case stepMark:
		row, col, err := coordinates(step)
		if err != nil {
			return err
		}
		state.lastOutcome = state.board.Mark(row, col)
		state.moves++
		return nil
	case stepReset:
		state.board.Reset()
		state.lastOutcome = minefield.OutcomeIgnored
		state.moves = 0
		return nil
	case stepExpectOpened, stepExpectFlagged:
		return r.expectCell(state, step)
	case stepExpectMinedNeighbors:
		row, col, err := coordinates(step)
		if err != nil {
			return err
		}
		want, err := intArg(step.Args, "want")
		if err != nil {
			return err
		}
		if got := state.board.MinedNeighbors(row, col); got != want {
			return r.assertions.Failf("mined neighbors at %d,%d = %d, want %d", row, col, got, want)
		}
		return nil
	case stepExpectOutcome:
		want, _ := step.Args["want"].(string)
		if got := state.lastOutcome.String(); got != want {
			return r.assertions.Failf("outcome = %s, want %s", got, want)
		}
		return nil
	case stepExpectGoal:
		want := boolArg(step.Args, "want", true)
		if got := state.board.GoalReached(); got != want {
			return r.assertions.Failf("goal reached = %v, want %v", got, want)
		}
		return nil
	case stepExpectExplosion:
		want := boolArg(step.Args, "want", true)
		if got := state.board.Exploded(); got != want {
			return r.assertions.Failf("exploded = %v, want %v", got, want)
		}
		return nil
	case stepExpectRender:
		want, _ := step.Args["want"].(string)
		if got := state.board.String(); got != want {
			return r.assertions.Failf("render = %q, want %q", got, want)
		}
		return nil
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

// runBoard builds the board. A list of {row, col} pairs places exactly those
// mines; an integer mine count places them from seed.
func (r *Runner) runBoard(state *scenarioState, step Step) error {
	rows, err := intArg(step.Args, "rows")
	if err != nil {
		return err
	}
	cols, err := intArg(step.Args, "cols")
	if err != nil {
		return err
	}

	var (
		mineCount int
		opts      []minefield.Option
	)
	switch mines := step.Args["mines"].(type) {
	case nil:
	case int:
		mineCount = mines
		seed, _ := step.Args["seed"].(int)
		opts = append(opts, minefield.WithSeed(int64(seed)))
	case []any:
		indices := make([]int, 0, len(mines))
		seen := make(map[int]struct{}, len(mines))
		for i, entry := range mines {
			pair, ok := entry.([]any)
			if !ok || len(pair) != 2 {
				return fmt.Errorf("mines[%d] must be a {row, col} pair", i+1)
			}
			row, rowOK := pair[0].(int)
			col, colOK := pair[1].(int)
			if !rowOK || !colOK || row < 1 || row > rows || col < 1 || col > cols {
				return fmt.Errorf("mines[%d] is outside the %dx%d board", i+1, rows, cols)
			}
			idx := minefield.Index(cols, row, col)
			if _, dup := seen[idx]; dup {
				return fmt.Errorf("mines[%d] repeats %d,%d", i+1, row, col)
			}
			seen[idx] = struct{}{}
			indices = append(indices, idx)
		}
		mineCount = len(indices)
		opts = append(opts, minefield.WithSource(minefield.NewSequenceSource(indices...)))
	case map[string]any:
		// An empty Lua table has no array part and decodes as a map.
		if len(mines) != 0 {
			return fmt.Errorf("mines must be a count or a list of {row, col} pairs")
		}
	default:
		return fmt.Errorf("mines must be a count or a list of {row, col} pairs")
	}
	if mineCount == 0 {
		opts = append(opts, minefield.WithSource(minefield.NewSequenceSource()))
	}

	board, err := minefield.NewBoard(rows, cols, mineCount, opts...)
	if err != nil {
		return err
	}
	state.board = board
	state.lastOutcome = minefield.OutcomeIgnored
	state.moves = 0
	r.logf("board %dx%d with %d mine(s)", rows, cols, mineCount)
	return nil
}

func (r *Runner) runOpen(state *scenarioState, step Step) error {
	row, col, err := coordinates(step)
	if err != nil {
		return err
	}
	outcome, err := state.board.Open(row, col)
	state.lastOutcome = outcome
	state.moves++
	if err != nil && !errors.Is(err, minefield.ErrExplosion) {
		return err
	}
	return nil
}

func (r *Runner) expectCell(state *scenarioState, step Step) error {
	row, col, err := coordinates(step)
	if err != nil {
		return err
	}
	want := boolArg(step.Args, "want", true)
	cell, ok := state.board.Cell(row, col)
	if !ok {
		return fmt.Errorf("cell %d,%d is outside the board", row, col)
	}
	got := cell.Opened()
	label := "opened"
	if step.Kind == stepExpectFlagged {
		got = cell.Flagged()
		label = "flagged"
	}
	if got != want {
		return r.assertions.Failf("cell %d,%d %s = %v, want %v", row, col, label, got, want)
	}
	return nil
}

func coordinates(step Step) (int, int, error) {
	row, err := intArg(step.Args, "row")
	if err != nil {
		return 0, 0, err
	}
	col, err := intArg(step.Args, "col")
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

func intArg(args map[string]any, key string) (int, error) {
	value, ok := args[key].(int)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return value, nil
}

func boolArg(args map[string]any, key string, def bool) bool {
	value, ok := args[key].(bool)
	if !ok {
		return def
	}
	return value
}
