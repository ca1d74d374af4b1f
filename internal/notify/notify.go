package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindMention      = "MENTION"
	KindAnnouncement = "ANNOUNCEMENT"
)

// Notification is one per-recipient inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"type"`
	Content   string    `json:"content"`
	LinkTo    string    `json:"linkTo,omitempty"`
	Read      bool      `json:"isRead"`
	CreatedAt time.Time `json:"timestamp"`
}

// Repository persists notifications in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes one notification.
func (r *Repository) Insert(ctx context.Context, n Notification) (Notification, error) {
	n.ID = uuid.NewString()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, content, link_to)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, n.ID, n.UserID, n.Kind, n.Content, n.LinkTo)
	if err := row.Scan(&n.CreatedAt); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// InsertForAll fans one notification out to every listed recipient.
func (r *Repository) InsertForAll(ctx context.Context, userIDs []string, kind, content, linkTo string) error {
	for _, uid := range userIDs {
		if _, err := r.Insert(ctx, Notification{UserID: uid, Kind: kind, Content: content, LinkTo: linkTo}); err != nil {
			return err
		}
	}
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, content, link_to, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Content, &n.LinkTo, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one notification as read.
func (r *Repository) MarkRead(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}
