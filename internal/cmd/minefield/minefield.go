// Package minefield parses console command flags and plays rounds on stdin.
package minefield

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/louisbranch/minefield/internal/console"
	"github.com/louisbranch/minefield/internal/minefield"
	entrypoint "github.com/louisbranch/minefield/internal/platform/cmd"
	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/storage"
	"github.com/louisbranch/minefield/internal/storage/sqlite"
)

// Config holds console command configuration.
type Config struct {
	Rows        int    `env:"ROWS"         envDefault:"6"`
	Cols        int    `env:"COLS"         envDefault:"6"`
	Mines       int    `env:"MINES"        envDefault:"6"`
	Seed        int64  `env:"SEED"`
	Locale      string `env:"LOCALE"       envDefault:"en-US"`
	HistoryPath string `env:"HISTORY_PATH"`
	List        int    `env:"LIST"`
	Round       string `env:"ROUND"`
}

// localizedError shows a translated message while keeping the cause
// reachable through errors.Is.
type localizedError struct {
	message string
	err     error
}

func (e *localizedError) Error() string { return e.message }

func (e *localizedError) Unwrap() error { return e.err }

func localize(err error, locale string) error {
	return &localizedError{message: apperrors.Localize(err, locale), err: err}
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Rows, "rows", cfg.Rows, "board rows")
	fs.IntVar(&cfg.Cols, "cols", cfg.Cols, "board columns")
	fs.IntVar(&cfg.Mines, "mines", cfg.Mines, "number of mines")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "mine placement seed (0 picks one at random)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "message locale (en-US, pt-BR)")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "path to the SQLite round journal (empty disables it)")
	fs.IntVar(&cfg.List, "list", cfg.List, "print the N most recent journal rounds and exit")
	fs.StringVar(&cfg.Round, "round", cfg.Round, "print one journal round by ID and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays console rounds until the player leaves. With -list or -round
// it prints the round journal instead.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(errOut, "", log.LstdFlags)

	if cfg.List > 0 || strings.TrimSpace(cfg.Round) != "" {
		return showJournal(ctx, cfg, out, logger)
	}

	board, err := minefield.NewBoard(cfg.Rows, cfg.Cols, cfg.Mines, minefield.WithSeed(cfg.Seed))
	if err != nil {
		return localize(err, cfg.Locale)
	}

	opts := []console.Option{
		console.WithLocale(cfg.Locale),
		console.WithLogger(logger),
	}
	if path := strings.TrimSpace(cfg.HistoryPath); path != "" {
		store, err := sqlite.Open(path)
		if err != nil {
			return fmt.Errorf("open round journal: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Printf("close round journal: %v", err)
			}
		}()
		opts = append(opts, console.WithJournal(store))
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConsole, func(ctx context.Context) error {
		return console.New(board, in, out, opts...).Run(ctx)
	})
}

// showJournal prints the rounds selected by -round or -list.
func showJournal(ctx context.Context, cfg Config, out io.Writer, logger *log.Logger) error {
	path := strings.TrimSpace(cfg.HistoryPath)
	if path == "" {
		return errors.New("-list and -round require -history")
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("open round journal: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("close round journal: %v", err)
		}
	}()

	var rounds []storage.Round
	if roundID := strings.TrimSpace(cfg.Round); roundID != "" {
		round, err := store.GetRound(ctx, roundID)
		if err != nil {
			return localize(err, cfg.Locale)
		}
		rounds = append(rounds, round)
	} else {
		rounds, err = store.ListRounds(ctx, cfg.List)
		if err != nil {
			return err
		}
	}
	return console.WriteRounds(out, cfg.Locale, rounds)
}
