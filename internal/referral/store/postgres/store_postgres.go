// Package postgres persists referral grants. referee_id is the primary
// key, so a second referral of the same user surfaces as
// sentinel.ErrConflict.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ascent/internal/referral/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
	txcontext "ascent/pkg/platform/tx"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Record(ctx context.Context, grant models.Grant) error {
	query := `
		INSERT INTO referral_grants (referee_id, referrer_id, referee_gleams, referrer_gleams, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(grant.RefereeID),
		uuid.UUID(grant.ReferrerID),
		grant.RefereeGleams,
		grant.ReferrerGleams,
		grant.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("record referral grant: %w", err)
	}
	return nil
}

func (s *Store) ByReferee(ctx context.Context, refereeID domain.UserID) (*models.Grant, error) {
	query := `
		SELECT referee_id, referrer_id, referee_gleams, referrer_gleams, created_at
		FROM referral_grants
		WHERE referee_id = $1
	`
	var (
		referee  uuid.UUID
		referrer uuid.UUID
		grant    models.Grant
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(refereeID)).Scan(
		&referee, &referrer, &grant.RefereeGleams, &grant.ReferrerGleams, &grant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get referral grant: %w", err)
	}
	grant.RefereeID = domain.UserID(referee)
	grant.ReferrerID = domain.UserID(referrer)
	return &grant, nil
}

func (s *Store) Delete(ctx context.Context, refereeID domain.UserID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM referral_grants WHERE referee_id = $1`, uuid.UUID(refereeID))
	if err != nil {
		return fmt.Errorf("delete referral grant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete referral grant: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID domain.UserID) (int, error) {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM referral_grants WHERE referee_id = $1 OR referrer_id = $1`, uuid.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("delete user referral grants: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user referral grants: %w", err)
	}
	return int(affected), nil
}
