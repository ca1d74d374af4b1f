package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// Migrate creates the schema if it does not exist. Grades and attendance
// records use deterministic composite primary keys so concurrent saves for
// the same (student, assessment) or (session, student) pair collapse into
// idempotent upserts instead of duplicate rows.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid             TEXT PRIMARY KEY,
			username        TEXT UNIQUE,
			email           TEXT UNIQUE,
			password_hash   TEXT,
			name            TEXT NOT NULL,
			role            TEXT NOT NULL,
			is_official     BOOLEAN NOT NULL DEFAULT FALSE,
			avatar          TEXT NOT NULL DEFAULT '',
			banner          TEXT NOT NULL DEFAULT '',
			bio             TEXT NOT NULL DEFAULT '',
			signature_color TEXT NOT NULL DEFAULT '#64748b',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS announcements (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			content     TEXT NOT NULL,
			priority    TEXT NOT NULL DEFAULT 'normal',
			author_id   TEXT NOT NULL,
			author_name TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			professors  JSONB NOT NULL DEFAULT '[]',
			code        TEXT NOT NULL,
			assessments JSONB NOT NULL DEFAULT '[]',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS grades (
			id            TEXT PRIMARY KEY,
			student_id    TEXT NOT NULL,
			course_id     TEXT NOT NULL,
			assessment_id TEXT NOT NULL,
			score         DOUBLE PRECISION NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_sessions (
			id         TEXT PRIMARY KEY,
			course_id  TEXT NOT NULL,
			on_date    DATE NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_records (
			id         TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			status     TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS material_sections (
			id         TEXT PRIMARY KEY,
			course_id  TEXT NOT NULL,
			title      TEXT NOT NULL,
			icon       TEXT NOT NULL DEFAULT 'FOLDER',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS materials (
			id          TEXT PRIMARY KEY,
			course_id   TEXT NOT NULL,
			section_id  TEXT NOT NULL,
			title       TEXT NOT NULL,
			kind        TEXT NOT NULL,
			url         TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id            TEXT PRIMARY KEY,
			sender_id     TEXT NOT NULL,
			sender_name   TEXT NOT NULL,
			sender_role   TEXT NOT NULL,
			sender_avatar TEXT NOT NULL DEFAULT '',
			sender_color  TEXT NOT NULL DEFAULT '',
			content       TEXT NOT NULL,
			reply_to      JSONB,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			kind       TEXT NOT NULL,
			content    TEXT NOT NULL,
			link_to    TEXT NOT NULL DEFAULT '',
			is_read    BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_grades_course ON grades (course_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_session ON attendance_records (session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_section ON materials (section_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
