package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/platform/id"
	sqlitemigrate "github.com/louisbranch/minefield/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/minefield/internal/storage"
	"github.com/louisbranch/minefield/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists rounds in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
	newID func() (string, error)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite round journal and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now, newID: id.NewID}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRound inserts one finished round. A missing ID is generated and a
// missing FinishedAt defaults to now. A taken ID yields an error matching
// storage.ErrAlreadyExists that carries the ID and the driver error.
func (s *Store) PutRound(ctx context.Context, round storage.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if round.Rows <= 0 || round.Cols <= 0 {
		return fmt.Errorf("round board dimensions must be positive")
	}
	if round.Mines < 0 || round.Mines > round.Rows*round.Cols {
		return fmt.Errorf("round mine count is out of range")
	}
	if !round.Outcome.Valid() {
		return fmt.Errorf("round outcome %q is invalid", round.Outcome)
	}
	if round.Moves < 0 {
		return fmt.Errorf("round moves must not be negative")
	}

	roundID := strings.TrimSpace(round.ID)
	if roundID == "" {
		generated, err := s.newID()
		if err != nil {
			return fmt.Errorf("generate round id: %w", err)
		}
		roundID = generated
	}
	finishedAt := round.FinishedAt.UTC()
	if finishedAt.IsZero() {
		finishedAt = s.now().UTC()
	}
	startedAt := round.StartedAt.UTC()
	if startedAt.IsZero() {
		startedAt = finishedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rounds (
		   id, row_count, col_count, mine_count, seed,
		   outcome, moves, started_at, finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		roundID,
		round.Rows,
		round.Cols,
		round.Mines,
		round.Seed,
		string(round.Outcome),
		round.Moves,
		toMillis(startedAt),
		toMillis(finishedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.WrapWithMetadata(apperrors.CodeAlreadyExists, "round already exists", map[string]string{
				"ID": roundID,
			}, err)
		}
		return fmt.Errorf("put round: %w", err)
	}
	return nil
}

// GetRound returns one round by ID.
func (s *Store) GetRound(ctx context.Context, roundID string) (storage.Round, error) {
	if err := ctx.Err(); err != nil {
		return storage.Round{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Round{}, fmt.Errorf("storage is not configured")
	}
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return storage.Round{}, fmt.Errorf("round id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, row_count, col_count, mine_count, seed,
		        outcome, moves, started_at, finished_at
		   FROM rounds
		  WHERE id = ?`,
		roundID,
	)
	round, err := scanRound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Round{}, storage.ErrNotFound
		}
		return storage.Round{}, fmt.Errorf("get round: %w", err)
	}
	return round, nil
}

// ListRounds returns up to limit rounds, most recently finished first.
func (s *Store) ListRounds(ctx context.Context, limit int) ([]storage.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, row_count, col_count, mine_count, seed,
		        outcome, moves, started_at, finished_at
		   FROM rounds
		  ORDER BY finished_at DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]storage.Round, 0, limit)
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("list rounds: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return rounds, nil
}

// Summary aggregates every stored round played on a rows x cols board with
// the given mine count.
func (s *Store) Summary(ctx context.Context, rows, cols, mines int) (storage.RoundSummary, error) {
	if err := ctx.Err(); err != nil {
		return storage.RoundSummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RoundSummary{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = 'abandoned' THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN outcome = 'won' THEN moves END), 0)
		   FROM rounds
		  WHERE row_count = ? AND col_count = ? AND mine_count = ?`,
		rows,
		cols,
		mines,
	)
	var summary storage.RoundSummary
	if err := row.Scan(
		&summary.Played,
		&summary.Won,
		&summary.Lost,
		&summary.Abandoned,
		&summary.BestMoves,
	); err != nil {
		return storage.RoundSummary{}, fmt.Errorf("summarize rounds: %w", err)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (storage.Round, error) {
	var (
		round      storage.Round
		outcome    string
		startedAt  int64
		finishedAt int64
	)
	if err := row.Scan(
		&round.ID,
		&round.Rows,
		&round.Cols,
		&round.Mines,
		&round.Seed,
		&outcome,
		&round.Moves,
		&startedAt,
		&finishedAt,
	); err != nil {
		return storage.Round{}, err
	}
	round.Outcome = storage.RoundOutcome(outcome)
	round.StartedAt = fromMillis(startedAt)
	round.FinishedAt = fromMillis(finishedAt)
	return round, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "rounds.id")
}

var _ storage.RoundStore = (*Store)(nil)
