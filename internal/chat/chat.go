package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one group-chat entry. Sender fields are snapshots taken at
// send time; they intentionally stay stale if the sender later edits their
// profile, which saves a join at render time.
type Message struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	SenderRole   string    `json:"senderRole"`
	SenderAvatar string    `json:"senderAvatar,omitempty"`
	SenderColor  string    `json:"senderColor,omitempty"`
	Content      string    `json:"content"`
	ReplyTo      *ReplyRef `json:"replyTo,omitempty"`
	CreatedAt    time.Time `json:"timestamp"`
}

// ReplyRef quotes an earlier message. Copied at send time, never
// re-linked: deleting or editing the original leaves the quote as it was.
type ReplyRef struct {
	ID         string `json:"id"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

// Sender is the profile snapshot attached to outgoing messages.
type Sender struct {
	ID     string
	Name   string
	Role   string
	Avatar string
	Color  string
}

var mentionRe = regexp.MustCompile(`@(\w+)`)

// Mentions extracts the usernames referenced with @name in a message body.
func Mentions(content string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Repository persists chat messages in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Send validates and inserts a message from the given sender.
func (r *Repository) Send(ctx context.Context, from Sender, content string, replyTo *ReplyRef) (Message, error) {
	content = strings.TrimRight(content, " \t\n")
	if strings.TrimSpace(content) == "" {
		return Message{}, errors.New("empty message")
	}
	m := Message{
		ID:           uuid.NewString(),
		SenderID:     from.ID,
		SenderName:   from.Name,
		SenderRole:   from.Role,
		SenderAvatar: from.Avatar,
		SenderColor:  from.Color,
		Content:      content,
		ReplyTo:      replyTo,
	}
	var reply any
	if replyTo != nil {
		b, err := json.Marshal(replyTo)
		if err != nil {
			return Message{}, err
		}
		reply = b
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (id, sender_id, sender_name, sender_role, sender_avatar, sender_color, content, reply_to)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, m.ID, m.SenderID, m.SenderName, m.SenderRole, m.SenderAvatar, m.SenderColor, m.Content, reply)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return Message{}, err
	}
	return m, nil
}

// List returns the full message stream, ascending by timestamp.
func (r *Repository) List(ctx context.Context) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender_id, sender_name, sender_role, sender_avatar, sender_color, content, reply_to, created_at
		FROM chat_messages ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var (
			m     Message
			reply []byte
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.SenderAvatar, &m.SenderColor, &m.Content, &reply, &m.CreatedAt); err != nil {
			return nil, err
		}
		if len(reply) > 0 {
			var ref ReplyRef
			if err := json.Unmarshal(reply, &ref); err == nil {
				m.ReplyTo = &ref
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get returns one message, used to build reply snapshots server side.
func (r *Repository) Get(ctx context.Context, id string) (Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, sender_id, sender_name, sender_role, sender_avatar, sender_color, content, reply_to, created_at
		FROM chat_messages WHERE id = $1
	`, id)
	var (
		m     Message
		reply []byte
	)
	if err := row.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.SenderAvatar, &m.SenderColor, &m.Content, &reply, &m.CreatedAt); err != nil {
		return Message{}, err
	}
	if len(reply) > 0 {
		var ref ReplyRef
		if err := json.Unmarshal(reply, &ref); err == nil {
			m.ReplyTo = &ref
		}
	}
	return m, nil
}

// Delete removes one message. Quotes of it elsewhere keep their snapshot.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	return err
}
