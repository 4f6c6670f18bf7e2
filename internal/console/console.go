// Package console plays minefield rounds over a line-oriented terminal.
//
// The console prints the board, asks for a cell and an action, and repeats
// until the round is won or a mine explodes. Finished rounds can be written
// to a round journal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/minefield/internal/minefield"
	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/platform/i18n/catalog"
	"github.com/louisbranch/minefield/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
)

const tracerName = "github.com/louisbranch/minefield/internal/console"

// ErrQuit is returned by prompts when the player asks to leave.
var ErrQuit = errors.New("quit requested")

// Console drives rounds on one board.
type Console struct {
	board   *minefield.Board
	in      *bufio.Scanner
	out     io.Writer
	locale  string
	printer *message.Printer
	journal storage.RoundStore
	logger  *log.Logger
	tracer  trace.Tracer
	now     func() time.Time

	no   string
	quit string
}

// Option configures a Console.
type Option func(*Console)

// WithLocale selects the message locale. Unsupported locales fall back to
// the base locale.
func WithLocale(locale string) Option {
	return func(c *Console) {
		c.locale = locale
	}
}

// WithJournal records every finished round in store.
func WithJournal(store storage.RoundStore) Option {
	return func(c *Console) {
		c.journal = store
	}
}

// WithLogger overrides the logger used for journal failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a console that reads moves from in and writes to out.
func New(board *minefield.Board, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		board:  board,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: log.New(os.Stderr, "", log.LstdFlags),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	bundle := catalog.Default()
	c.locale = bundle.Match(c.locale)
	c.printer = bundle.Printer(c.locale)
	c.no = c.printer.Sprintf("console.answer.no")
	c.quit = c.printer.Sprintf("console.command.quit")
	return c
}

// Run plays rounds until the player declines another one or quits. Leaving
// is not an error; only I/O failures are returned.
func (c *Console) Run(ctx context.Context) error {
	if c.board == nil {
		return errors.New("board is required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		again, err := c.session(ctx)
		if errors.Is(err, ErrQuit) {
			c.println(c.printer.Sprintf("console.session.bye"))
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			c.printSummary(ctx)
			c.println(c.printer.Sprintf("console.session.bye"))
			return nil
		}
		c.reset(ctx)
	}
}

// session plays one round and asks whether to play again.
func (c *Console) session(ctx context.Context) (bool, error) {
	round := c.startRound()
	outcome, err := c.playRound(ctx, &round)
	if errors.Is(err, ErrQuit) {
		if round.Moves > 0 {
			c.record(ctx, round, storage.RoundAbandoned)
		}
		return false, err
	}
	if err != nil {
		return false, err
	}
	c.record(ctx, round, outcome)

	answer, err := c.ask(c.printer.Sprintf("console.prompt.again"))
	if err != nil {
		return false, err
	}
	return !strings.EqualFold(answer, c.no), nil
}

func (c *Console) startRound() storage.Round {
	return storage.Round{
		Rows:      c.board.Rows(),
		Cols:      c.board.Cols(),
		Mines:     c.board.MineCount(),
		Seed:      c.board.Seed(),
		StartedAt: c.now().UTC(),
	}
}

// playRound loops until the goal is reached or a mine explodes.
func (c *Console) playRound(ctx context.Context, round *storage.Round) (storage.RoundOutcome, error) {
	for !c.board.GoalReached() {
		c.printBoard()

		input, err := c.ask(c.printer.Sprintf("console.prompt.coordinates", c.quit))
		if err != nil {
			return "", err
		}
		row, col, err := ParseCoordinates(input)
		if err != nil {
			if err := c.retry(err); err != nil {
				return "", err
			}
			continue
		}

		input, err = c.ask(c.printer.Sprintf("console.prompt.action"))
		if err != nil {
			return "", err
		}
		action, err := ParseAction(input)
		if err != nil {
			if err := c.retry(err); err != nil {
				return "", err
			}
			continue
		}

		outcome, err := c.move(ctx, action, row, col)
		if outcome != minefield.OutcomeIgnored {
			round.Moves++
		}
		if errors.Is(err, minefield.ErrExplosion) {
			c.printBoard()
			c.println(c.printer.Sprintf("console.round.lost"))
			return storage.RoundLost, nil
		}
		if err != nil {
			if err := c.retry(err); err != nil {
				return "", err
			}
		}
	}
	c.printBoard()
	c.println(c.printer.Sprintf("console.round.won"))
	return storage.RoundWon, nil
}

// move applies one action inside a span.
func (c *Console) move(ctx context.Context, action Action, row, col int) (minefield.Outcome, error) {
	_, span := c.tracer.Start(ctx, "minefield."+action.String(), trace.WithAttributes(
		attribute.Int("minefield.row", row),
		attribute.Int("minefield.col", col),
	))
	defer span.End()

	var (
		outcome minefield.Outcome
		err     error
	)
	switch action {
	case ActionOpen:
		outcome, err = c.board.Open(row, col)
	case ActionMark:
		outcome = c.board.Mark(row, col)
	}
	span.SetAttributes(attribute.String("minefield.outcome", outcome.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
	}
	return outcome, err
}

func (c *Console) reset(ctx context.Context) {
	_, span := c.tracer.Start(ctx, "minefield.reset", trace.WithAttributes(
		attribute.Int("minefield.rows", c.board.Rows()),
		attribute.Int("minefield.cols", c.board.Cols()),
	))
	defer span.End()
	c.board.Reset()
}

// ask prints prompt and returns the trimmed reply. End of input and the
// quit word both yield ErrQuit.
func (c *Console) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		c.println("")
		return "", ErrQuit
	}
	answer := strings.TrimSpace(c.in.Text())
	if strings.EqualFold(answer, c.quit) || strings.EqualFold(answer, "quit") {
		return "", ErrQuit
	}
	return answer, nil
}

func (c *Console) record(ctx context.Context, round storage.Round, outcome storage.RoundOutcome) {
	if c.journal == nil {
		return
	}
	round.Outcome = outcome
	round.FinishedAt = c.now().UTC()
	if err := c.journal.PutRound(ctx, round); err != nil {
		c.logger.Printf("journal round: %v", err)
	}
}

func (c *Console) printSummary(ctx context.Context) {
	if c.journal == nil {
		return
	}
	summary, err := c.journal.Summary(ctx, c.board.Rows(), c.board.Cols(), c.board.MineCount())
	if err != nil {
		c.logger.Printf("journal summary: %v", err)
		return
	}
	c.println(c.printer.Sprintf("console.journal.summary", summary.Played, summary.Won, summary.Lost, summary.BestMoves))
}

func (c *Console) printBoard() {
	fmt.Fprint(c.out, c.board.String())
	status := c.board.Status()
	c.println(c.printer.Sprintf("console.round.status", status.Flagged, status.Mines, status.Opened, status.Cells-status.Mines))
}

// retry prints err when its code lets the player try again and returns
// nil; any other error is returned to end the round.
func (c *Console) retry(err error) error {
	if apperrors.GetCode(err).Fatal() {
		return err
	}
	c.printError(err)
	return nil
}

func (c *Console) printError(err error) {
	c.println(apperrors.Localize(err, c.locale))
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}
