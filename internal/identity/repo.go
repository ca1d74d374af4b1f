package identity

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists identities in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `uid, username, email, password_hash, name, role, is_official, avatar, banner, bio, signature_color, created_at`

func scanUser(scan func(dest ...any) error) (User, error) {
	var (
		u        User
		username sql.NullString
		email    sql.NullString
		hash     sql.NullString
	)
	err := scan(&u.UID, &username, &email, &hash, &u.Name, &u.Role, &u.Official,
		&u.Profile.Avatar, &u.Profile.Banner, &u.Profile.Bio, &u.Profile.SignatureColor, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	if username.Valid {
		u.Login = &Login{Username: username.String, Email: email.String, PasswordHash: hash.String}
	}
	return u, nil
}

// Insert writes a new identity.
func (r *Repository) Insert(ctx context.Context, u User) error {
	var username, email, hash any
	if u.Login != nil {
		username, email, hash = u.Login.Username, u.Login.Email, u.Login.PasswordHash
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (uid, username, email, password_hash, name, role, is_official, avatar, banner, bio, signature_color)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, u.UID, username, email, hash, u.Name, u.Role, u.Official,
		u.Profile.Avatar, u.Profile.Banner, u.Profile.Bio, u.Profile.SignatureColor)
	return err
}

// Get returns one identity by uid.
func (r *Repository) Get(ctx context.Context, uid string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// GetByUsername returns one identity by its login username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns every identity, official records included.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UsernameExists reports whether a username is taken.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE username = $1`, username).Scan(&n)
	return n > 0, err
}

// UpdateProfile overwrites the editable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, uid string, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET avatar = $2, banner = $3, bio = $4, signature_color = $5
		WHERE uid = $1
	`, uid, p.Avatar, p.Banner, p.Bio, p.SignatureColor)
	return err
}

// Promote grants admin role to a user.
func (r *Repository) Promote(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = $2, is_official = TRUE WHERE uid = $1
	`, uid, "ADMIN")
	return err
}

// Delete removes the identity together with its dependent documents, in
// one transaction, so no orphaned grades or records survive.
func (r *Repository) Delete(ctx context.Context, uid string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		`DELETE FROM grades WHERE student_id = $1`,
		`DELETE FROM attendance_records WHERE student_id = $1`,
		`DELETE FROM notifications WHERE user_id = $1`,
		`DELETE FROM users WHERE uid = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, uid); err != nil {
			return err
		}
	}
	return tx.Commit()
}
