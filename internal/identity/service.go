package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence surface the service needs. *Repository
// implements it; tests use an in-memory fake.
type Store interface {
	Insert(ctx context.Context, u User) error
	Get(ctx context.Context, uid string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, uid string, p Profile) error
	Promote(ctx context.Context, uid string) error
	Delete(ctx context.Context, uid string) error
}

// Service implements sign-up/sign-in and user administration.
type Service struct {
	store       Store
	authDomain  string
	minPassword int
}

// NewService creates a service. authDomain is appended to usernames to
// synthesize the stored email address.
func NewService(store Store, authDomain string, minPassword int) *Service {
	if minPassword <= 0 {
		minPassword = 6
	}
	return &Service{store: store, authDomain: authDomain, minPassword: minPassword}
}

// SyntheticEmail builds the email stand-in for a username.
func (s *Service) SyntheticEmail(username string) string {
	return fmt.Sprintf("%s@%s", username, s.authDomain)
}

// SignUp registers a new student account.
func (s *Service) SignUp(ctx context.Context, username, password, name string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || strings.TrimSpace(name) == "" {
		return User{}, ErrBadCredentials
	}
	if len(password) < s.minPassword {
		return User{}, ErrWeakPassword
	}
	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return User{}, internal(err)
	}
	if taken {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, internal(err)
	}

	u := User{
		UID:      uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Role:     "STUDENT",
		Official: false,
		Login: &Login{
			Username:     username,
			Email:        s.SyntheticEmail(username),
			PasswordHash: string(hash),
		},
		Profile: Profile{
			Avatar:         DefaultAvatar(name),
			Bio:            "New batch student",
			SignatureColor: "#64748b",
		},
	}
	if err := s.store.Insert(ctx, u); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return User{}, ErrUsernameTaken
		}
		return User{}, internal(err)
	}
	return u, nil
}

// SignIn checks credentials and returns the matching identity.
func (s *Service) SignIn(ctx context.Context, username, password string) (User, error) {
	u, err := s.store.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, internal(err)
	}
	if !u.CanSignIn() {
		return User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Login.PasswordHash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

// Get fetches one identity.
func (s *Service) Get(ctx context.Context, uid string) (User, error) {
	return s.store.Get(ctx, uid)
}

// List returns all identities for the roster.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// AddOfficialStudent creates a login-less gradebook record.
func (s *Service) AddOfficialStudent(ctx context.Context, name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, errors.New("name required")
	}
	u := User{
		UID:      "u_" + uuid.NewString(),
		Name:     name,
		Role:     "STUDENT",
		Official: true,
		Profile: Profile{
			Avatar:         DefaultAvatar(name),
			Bio:            "University student",
			SignatureColor: "#94a3b8",
		},
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return User{}, internal(err)
	}
	return u, nil
}

// AddAdmin creates a full admin account with credentials.
func (s *Service) AddAdmin(ctx context.Context, username, password, name string) (User, error) {
	u, err := s.SignUp(ctx, username, password, name)
	if err != nil {
		return User{}, err
	}
	u.Role = "ADMIN"
	u.Official = true
	u.Profile.Bio = "System admin"
	u.Profile.SignatureColor = "#0ea5e9"
	if err := s.store.Promote(ctx, u.UID); err != nil {
		return User{}, internal(err)
	}
	return u, nil
}

// Promote grants admin role to an existing user, looked up by username.
func (s *Service) Promote(ctx context.Context, username string) (User, error) {
	u, err := s.store.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return User{}, err
	}
	if u.Role == "ADMIN" {
		return u, errors.New("already an admin")
	}
	if err := s.store.Promote(ctx, u.UID); err != nil {
		return User{}, internal(err)
	}
	u.Role = "ADMIN"
	u.Official = true
	return u, nil
}

// UpdateProfile saves the editable presentation fields.
func (s *Service) UpdateProfile(ctx context.Context, uid string, p Profile) error {
	return s.store.UpdateProfile(ctx, uid, p)
}

// Delete removes a user and their dependent documents.
func (s *Service) Delete(ctx context.Context, uid string) error {
	return s.store.Delete(ctx, uid)
}

func internal(err error) error {
	log.Printf("identity: %v", err)
	return ErrInternal
}
