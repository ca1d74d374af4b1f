package attendance

import (
	"context"
	"database/sql"
)

// Repository persists attendance sessions and records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertSession writes a new session.
func (r *Repository) InsertSession(ctx context.Context, s Session) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_sessions (id, course_id, on_date, title)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, s.ID, s.CourseID, s.Date, s.Title)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Session{}, err
	}
	return s, nil
}

// ListSessions returns sessions, optionally filtered by course.
func (r *Repository) ListSessions(ctx context.Context, courseID string) ([]Session, error) {
	query := `SELECT id, course_id, on_date::text, title, created_at FROM attendance_sessions`
	args := []any{}
	if courseID != "" {
		query += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	query += ` ORDER BY on_date`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Date, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and its records in one transaction.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE session_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_sessions WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertRecord writes a record keyed by RecordKey; conflicts overwrite the
// status.
func (r *Repository) UpsertRecord(ctx context.Context, rec Record) (Record, error) {
	rec.ID = RecordKey(rec.SessionID, rec.StudentID)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, session_id, student_id, status)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`, rec.ID, rec.SessionID, rec.StudentID, rec.Status)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ListRecords returns records, optionally filtered by session.
func (r *Repository) ListRecords(ctx context.Context, sessionID string) ([]Record, error) {
	query := `SELECT id, session_id, student_id, status FROM attendance_records`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = $1`
		args = append(args, sessionID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.StudentID, &rec.Status); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
