// Package postgres persists the Gleam ledger in PostgreSQL. The
// ledger_entries table carries a primary key on session_id; a duplicate
// insert surfaces as sentinel.ErrConflict so services never double-credit.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ascent/internal/ledger/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
	txcontext "ascent/pkg/platform/tx"
)

const uniqueViolation = "23505"

// Store is the PostgreSQL-backed ledger store.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execer joins a transaction stored in context (the referral double
// credit) or falls back to the pool.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, entry models.Entry) error {
	query := `
		INSERT INTO ledger_entries (session_id, user_id, phase_id, gleams, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(entry.SessionID),
		uuid.UUID(entry.UserID),
		int(entry.PhaseID),
		entry.Gleams,
		string(entry.Kind),
		entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (s *Store) BySession(ctx context.Context, sessionID domain.SessionID) (*models.Entry, error) {
	query := `
		SELECT session_id, user_id, phase_id, gleams, kind, created_at
		FROM ledger_entries
		WHERE session_id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(sessionID))
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

func (s *Store) TotalGleams(ctx context.Context, userID domain.UserID) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(gleams), 0) FROM ledger_entries WHERE user_id = $1`
	if err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum gleams: %w", err)
	}
	return total, nil
}

func (s *Store) Totals(ctx context.Context) ([]models.UserTotal, error) {
	query := `
		SELECT user_id, SUM(gleams), MAX(created_at)
		FROM ledger_entries
		GROUP BY user_id
		ORDER BY user_id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ledger totals: %w", err)
	}
	defer rows.Close()

	var totals []models.UserTotal
	for rows.Next() {
		var (
			userID uuid.UUID
			t      models.UserTotal
		)
		if err := rows.Scan(&userID, &t.TotalGleams, &t.LastEarnedAt); err != nil {
			return nil, fmt.Errorf("scan ledger total: %w", err)
		}
		t.UserID = domain.UserID(userID)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (s *Store) Remove(ctx context.Context, sessionID domain.SessionID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM ledger_entries WHERE session_id = $1`, uuid.UUID(sessionID))
	if err != nil {
		return fmt.Errorf("remove ledger entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove ledger entry: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID domain.UserID) (int, error) {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM ledger_entries WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("delete user ledger entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user ledger entries: %w", err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		sessionID uuid.UUID
		userID    uuid.UUID
		phaseID   int
		entry     models.Entry
		kind      string
	)
	if err := row.Scan(&sessionID, &userID, &phaseID, &entry.Gleams, &kind, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.SessionID = domain.SessionID(sessionID)
	entry.UserID = domain.UserID(userID)
	entry.PhaseID = domain.PhaseID(phaseID)
	entry.Kind = models.EntryKind(kind)
	return &entry, nil
}
