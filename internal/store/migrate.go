package store

import (
	"context"
	"fmt"
	"strings"

	"projecthub/internal/entity"
)

// Migrate creates missing tables, adds columns introduced after the first
// release, and seeds the singleton rows. It is idempotent and safe to run on
// every startup.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the initial schema. ADD COLUMN has no IF NOT
	// EXISTS on older SQLite, so duplicate-column errors are tolerated.
	added := []struct{ table, column, ddl string }{
		{"project", "owner", "owner TEXT NOT NULL DEFAULT ''"},
		{"project", "phase", "phase TEXT NOT NULL DEFAULT ''"},
		{"project", "target_release", "target_release TEXT NOT NULL DEFAULT ''"},
		{"development_progress", "phase", "phase TEXT NOT NULL DEFAULT ''"},
		{"development_progress", "status_text", "status_text TEXT NOT NULL DEFAULT ''"},
		{"bom", "link", "link TEXT NOT NULL DEFAULT ''"},
		{"documentation", "owner", "owner TEXT NOT NULL DEFAULT ''"},
		{"documentation", "last_updated", "last_updated TEXT NOT NULL DEFAULT ''"},
		{"tasks", "owner", "owner TEXT NOT NULL DEFAULT ''"},
		{"risks", "owner", "owner TEXT NOT NULL DEFAULT ''"},
	}
	for _, col := range added {
		if err := s.ensureColumn(ctx, col.table, col.ddl); err != nil {
			return fmt.Errorf("migrate %s.%s: %w", col.table, col.column, err)
		}
	}

	if err := s.seed(ctx); err != nil {
		return fmt.Errorf("migrate seed: %w", err)
	}
	return nil
}

// idColumn is the auto-incrementing primary key DDL for the active dialect.
func (s *Store) idColumn() string {
	if s.driver == driverPostgres {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (s *Store) schema() []string {
	id := s.idColumn()
	return []string{
		`CREATE TABLE IF NOT EXISTS project (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			phase TEXT NOT NULL DEFAULT '',
			target_release TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS development_progress (
			id BIGINT PRIMARY KEY,
			percent INTEGER,
			phase TEXT NOT NULL DEFAULT '',
			status_text TEXT NOT NULL DEFAULT ''
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bom (
			%s,
			item TEXT NOT NULL DEFAULT '',
			part_number TEXT NOT NULL DEFAULT '',
			qty INTEGER,
			unit_cost REAL,
			supplier TEXT NOT NULL DEFAULT '',
			lead_time_days INTEGER,
			status TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT ''
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documentation (
			%s,
			title TEXT NOT NULL DEFAULT '',
			doc_type TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL DEFAULT ''
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS system_status (
			%s,
			is_online INTEGER NOT NULL DEFAULT 1,
			reason TEXT NOT NULL DEFAULT '',
			estimated_downtime TEXT NOT NULL DEFAULT ''
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			%s,
			task TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT ''
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS risks (
			%s,
			risk TEXT NOT NULL DEFAULT '',
			impact TEXT NOT NULL DEFAULT '',
			solution TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT ''
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS development_log (
			%s,
			log_date TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT ''
		)`, id),
		`CREATE TABLE IF NOT EXISTS card_state (
			card_key TEXT PRIMARY KEY,
			position INTEGER NOT NULL DEFAULT 0,
			pinned INTEGER NOT NULL DEFAULT 0
		)`,
	}
}

func (s *Store) ensureColumn(ctx context.Context, table, ddl string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, ddl))
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists") {
		return nil
	}
	return err
}

func (s *Store) seed(ctx context.Context) error {
	seeds := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO project (id, name) VALUES (1, '') ON CONFLICT DO NOTHING", nil},
		{"INSERT INTO development_progress (id, percent) VALUES (1, NULL) ON CONFLICT DO NOTHING", nil},
	}
	for i, key := range entity.CardKeys {
		seeds = append(seeds, struct {
			query string
			args  []any
		}{
			"INSERT INTO card_state (card_key, position, pinned) VALUES (?, ?, 0) ON CONFLICT DO NOTHING",
			[]any{key, i},
		})
	}
	for _, seed := range seeds {
		if _, err := s.exec(ctx, seed.query, seed.args...); err != nil {
			return err
		}
	}
	return nil
}
