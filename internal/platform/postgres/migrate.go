package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the engine's tables. Idempotent; runs at startup so a
// fresh database is usable without external tooling.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []struct {
		table string
		ddl   string
	}{
		{"ledger_entries", `
			CREATE TABLE IF NOT EXISTS ledger_entries (
				session_id UUID PRIMARY KEY,
				user_id    UUID NOT NULL,
				phase_id   INT NOT NULL DEFAULT 0,
				gleams     BIGINT NOT NULL,
				kind       TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)`},
		{"ledger_entries_user_idx", `
			CREATE INDEX IF NOT EXISTS ledger_entries_user_idx
				ON ledger_entries (user_id)`},
		{"assessment_results", `
			CREATE TABLE IF NOT EXISTS assessment_results (
				session_id         UUID PRIMARY KEY,
				user_id            UUID NOT NULL,
				phase_id           INT NOT NULL,
				dimension_ratio    DOUBLE PRECISION NOT NULL,
				eir_ratio          DOUBLE PRECISION NOT NULL,
				dimension_score    DOUBLE PRECISION NOT NULL,
				thrive_score       DOUBLE PRECISION NOT NULL,
				total_score        DOUBLE PRECISION NOT NULL,
				phase_max          BIGINT NOT NULL,
				overall_percentage DOUBLE PRECISION NOT NULL,
				summary            TEXT NOT NULL,
				gleam_yield        BIGINT NOT NULL,
				created_at         TIMESTAMPTZ NOT NULL
			)`},
		{"referral_grants", `
			CREATE TABLE IF NOT EXISTS referral_grants (
				referee_id      UUID PRIMARY KEY,
				referrer_id     UUID NOT NULL,
				referee_gleams  BIGINT NOT NULL,
				referrer_gleams BIGINT NOT NULL,
				created_at      TIMESTAMPTZ NOT NULL
			)`},
		{"referral_grants_referrer_idx", `
			CREATE INDEX IF NOT EXISTS referral_grants_referrer_idx
				ON referral_grants (referrer_id)`},
		{"profiles", `
			CREATE TABLE IF NOT EXISTS profiles (
				user_id      UUID PRIMARY KEY,
				display_name TEXT NOT NULL DEFAULT '',
				country      TEXT NOT NULL DEFAULT '',
				sector       TEXT NOT NULL DEFAULT '',
				level        INT NOT NULL DEFAULT 0,
				created_at   TIMESTAMPTZ NOT NULL
			)`},
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.ddl); err != nil {
			return fmt.Errorf("migrate %s: %w", stmt.table, err)
		}
	}
	return nil
}
