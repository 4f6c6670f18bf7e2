// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Board configuration errors
	CodeBoardInvalidDimensions Code = "BOARD_INVALID_DIMENSIONS"
	CodeBoardInvalidMineCount  Code = "BOARD_INVALID_MINE_COUNT"

	// Round errors
	CodeCellExploded Code = "CELL_EXPLODED"

	// Console input errors
	CodeInputInvalidCoordinates Code = "INPUT_INVALID_COORDINATES"
	CodeInputInvalidAction      Code = "INPUT_INVALID_ACTION"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Random/seed errors
	CodeSeedUnavailable Code = "SEED_UNAVAILABLE"
)

// Fatal reports whether the code ends the current round or command rather
// than asking the player to retry.
func (c Code) Fatal() bool {
	switch c {
	case CodeInputInvalidCoordinates,
		CodeInputInvalidAction:
		return false
	default:
		return true
	}
}
