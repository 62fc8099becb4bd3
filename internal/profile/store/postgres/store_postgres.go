// Package postgres persists user profiles.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ascent/internal/profile/models"
	"ascent/pkg/domain"
	"ascent/pkg/platform/sentinel"
	txcontext "ascent/pkg/platform/tx"
)

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

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Save(ctx context.Context, profile models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, country, sector, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			country = EXCLUDED.country,
			sector = EXCLUDED.sector,
			level = EXCLUDED.level
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(profile.UserID),
		profile.DisplayName,
		profile.Country,
		profile.Sector,
		int(profile.Level),
		profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID domain.UserID) (*models.Profile, error) {
	query := `
		SELECT user_id, display_name, country, sector, level, created_at
		FROM profiles
		WHERE user_id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID))
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *Store) All(ctx context.Context) ([]models.Profile, error) {
	query := `
		SELECT user_id, display_name, country, sector, level, created_at
		FROM profiles
		ORDER BY user_id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

func (s *Store) Delete(ctx context.Context, userID domain.UserID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM profiles WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		userID  uuid.UUID
		level   int
		profile models.Profile
	)
	if err := row.Scan(&userID, &profile.DisplayName, &profile.Country, &profile.Sector, &level, &profile.CreatedAt); err != nil {
		return nil, err
	}
	profile.UserID = domain.UserID(userID)
	profile.Level = domain.PhaseID(level)
	return &profile, nil
}
