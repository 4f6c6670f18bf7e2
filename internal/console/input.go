package console

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

// Action is the move chosen after a cell was picked.
type Action int

const (
	ActionOpen Action = iota + 1
	ActionMark
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionMark:
		return "mark"
	default:
		return "unknown"
	}
}

// ParseCoordinates reads a 1-based "row,col" pair. Commas, whitespace or
// both may separate the two numbers.
func ParseCoordinates(input string) (int, int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, invalidCoordinates(input)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, invalidCoordinates(input)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, invalidCoordinates(input)
	}
	return row, col, nil
}

// ParseAction maps "1" to ActionOpen and "2" to ActionMark.
func ParseAction(input string) (Action, error) {
	switch strings.TrimSpace(input) {
	case "1":
		return ActionOpen, nil
	case "2":
		return ActionMark, nil
	default:
		return 0, apperrors.WithMetadata(apperrors.CodeInputInvalidAction, "invalid action", map[string]string{
			"Input": strings.TrimSpace(input),
		})
	}
}

func invalidCoordinates(input string) error {
	return apperrors.WithMetadata(apperrors.CodeInputInvalidCoordinates, "invalid coordinates", map[string]string{
		"Input": strings.TrimSpace(input),
	})
}
