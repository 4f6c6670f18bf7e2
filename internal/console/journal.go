package console

import (
	"fmt"
	"io"

	"github.com/louisbranch/minefield/internal/platform/i18n/catalog"
	"github.com/louisbranch/minefield/internal/storage"
)

const journalTimeLayout = "2006-01-02 15:04"

// WriteRounds prints one localized line per journal round. The seed in
// each line replays that round with the -seed flag.
func WriteRounds(w io.Writer, locale string, rounds []storage.Round) error {
	printer := catalog.Default().Printer(locale)
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, printer.Sprintf("console.journal.empty"))
		return err
	}
	for _, round := range rounds {
		line := printer.Sprintf("console.journal.round",
			round.ID,
			round.Rows,
			round.Cols,
			round.Mines,
			round.Seed,
			printer.Sprintf("console.outcome."+string(round.Outcome)),
			round.Moves,
			round.FinishedAt.UTC().Format(journalTimeLayout),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
