// Package minefield implements the rules engine of a mine-sweeping game.
//
// A Board owns a flat, row-major collection of Cells. Coordinates are
// 1-based: the cell at (row, col) sits at index (row-1)*cols + (col-1).
//
// # Lifecycle
//
// NewBoard builds every cell, wires the 8-connected neighbor graph exactly
// once, then sows the mines. Reset clears every cell in place and sows again;
// the neighbor graph is never rebuilt.
//
// # Moves
//
// Open reveals a hidden, unflagged cell. A safe cell with no mined neighbors
// cascades through the neighbor graph, opening every reachable cell that is
// neither opened nor flagged and stopping at cells that touch a mine. Opening
// a mined cell reports OutcomeExploded together with ErrExplosion, after the
// board forces every cell open.
//
// Mark toggles the flag of a hidden cell. Coordinates outside the grid are
// ignored by both moves rather than reported as errors.
//
// # Determinism
//
// Mine placement draws from a Source. WithSeed and WithSource make a layout
// reproducible; SequenceSource replays fixed indices for hand-built layouts.
//
// A Board is not safe for concurrent use.
package minefield
