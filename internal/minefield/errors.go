package minefield

import (
	"strconv"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

var (
	// ErrInvalidDimensions indicates a board without rows or columns.
	ErrInvalidDimensions = apperrors.New(apperrors.CodeBoardInvalidDimensions, "board rows and cols must be positive")
	// ErrInvalidMineCount indicates a mine count the grid cannot hold.
	ErrInvalidMineCount = apperrors.New(apperrors.CodeBoardInvalidMineCount, "mine count is out of range")
	// ErrExplosion indicates a mined cell was opened. The round is over.
	ErrExplosion = apperrors.New(apperrors.CodeCellExploded, "mined cell opened")
)

func invalidDimensions(rows, cols int) error {
	return apperrors.WithMetadata(apperrors.CodeBoardInvalidDimensions, "board rows and cols must be positive", map[string]string{
		"Rows": strconv.Itoa(rows),
		"Cols": strconv.Itoa(cols),
	})
}

func invalidMineCount(mines, cells int) error {
	return apperrors.WithMetadata(apperrors.CodeBoardInvalidMineCount, "mine count is out of range", map[string]string{
		"Mines": strconv.Itoa(mines),
		"Cells": strconv.Itoa(cells),
	})
}

func explosionAt(row, col int) error {
	return apperrors.WithMetadata(apperrors.CodeCellExploded, "mined cell opened", map[string]string{
		"Row": strconv.Itoa(row),
		"Col": strconv.Itoa(col),
	})
}
