package announce

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority values for an announcement.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Announcement is immutable once created, except for deletion.
type Announcement struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Priority   string    `json:"priority"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"timestamp"`
}

// Repository persists announcements in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create validates and inserts a new announcement.
func (r *Repository) Create(ctx context.Context, a Announcement) (Announcement, error) {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return Announcement{}, errors.New("title and content required")
	}
	if a.Priority != PriorityHigh {
		a.Priority = PriorityNormal
	}
	a.ID = uuid.NewString()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO announcements (id, title, content, priority, author_id, author_name)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, a.ID, a.Title, a.Content, a.Priority, a.AuthorID, a.AuthorName)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

// List returns announcements newest first.
func (r *Repository) List(ctx context.Context) ([]Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, priority, author_id, author_name, created_at
		FROM announcements ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.AuthorID, &a.AuthorName, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes one announcement.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	return err
}
