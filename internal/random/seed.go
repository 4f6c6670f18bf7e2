// Package random provides seed helpers for the board's mine placement.
//
// Mine placement is deterministic for a given seed; these helpers pick a
// high-entropy seed from crypto/rand when the caller did not ask for one.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns requested unless it is zero, in which case a fresh
// seed is generated. Zero means "random" in every minefield config surface.
func ResolveSeed(requested int64) (int64, error) {
	if requested != 0 {
		return requested, nil
	}
	for {
		seed, err := NewSeed()
		if err != nil {
			return 0, err
		}
		if seed != 0 {
			return seed, nil
		}
	}
}
