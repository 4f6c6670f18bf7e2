package minefield

// Outcome tags the effect of a single move.
type Outcome int

const (
	// OutcomeIgnored means the move changed nothing.
	OutcomeIgnored Outcome = iota
	// OutcomeOpened means at least the targeted cell was opened.
	OutcomeOpened
	// OutcomeExploded means the targeted cell was mined.
	OutcomeExploded
	// OutcomeFlagged means a flag was placed.
	OutcomeFlagged
	// OutcomeUnflagged means a flag was removed.
	OutcomeUnflagged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeOpened:
		return "opened"
	case OutcomeExploded:
		return "exploded"
	case OutcomeFlagged:
		return "flagged"
	case OutcomeUnflagged:
		return "unflagged"
	default:
		return "unknown"
	}
}

// RoundState describes where the current round stands.
type RoundState int

const (
	RoundInProgress RoundState = iota
	RoundWon
	RoundLost
)

func (s RoundState) String() string {
	switch s {
	case RoundInProgress:
		return "in progress"
	case RoundWon:
		return "won"
	case RoundLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Status summarizes a board for display.
type Status struct {
	Round   RoundState
	Cells   int
	Mines   int
	Opened  int
	Flagged int
}
