package mirror

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/leostarkx/MyBatch/internal/identity"
)

// State is the session lifecycle. Everything else in the client gates on
// StateReady.
type State int

const (
	// StateLoading means authentication resolved but the profile document
	// is still being fetched.
	StateLoading State = iota
	// StateReady means the session is usable. User may still be nil when
	// the profile never materialized.
	StateReady
	// StateAnonymous means nobody is signed in.
	StateAnonymous
)

// ProfileFetcher loads the signed-in user's own profile document.
type ProfileFetcher interface {
	Profile(ctx context.Context, uid string) (identity.User, error)
}

// SessionHolder tracks the signed-in identity and its profile document.
// Right after signup the profile row can lag behind the issued token, so
// Establish retries the fetch a bounded number of times before giving up
// and marking the session ready without a profile.
type SessionHolder struct {
	fetcher ProfileFetcher
	retries int
	delay   time.Duration

	mu            sync.Mutex
	state         State
	user          *identity.User
	viewedProfile string
}

// NewSessionHolder builds an anonymous session. retries and delay control
// the profile-fetch retry loop; zero values fall back to 5 tries at 500ms.
func NewSessionHolder(fetcher ProfileFetcher, retries int, delay time.Duration) *SessionHolder {
	if retries <= 0 {
		retries = 5
	}
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &SessionHolder{
		fetcher: fetcher,
		retries: retries,
		delay:   delay,
		state:   StateAnonymous,
	}
}

// Establish transitions to loading and fetches the profile for uid,
// retrying through not-found and permission errors. When the retries are
// exhausted the session still becomes ready, just without a user; any
// other error aborts back to anonymous.
func (s *SessionHolder) Establish(ctx context.Context, uid string) error {
	s.mu.Lock()
	s.state = StateLoading
	s.user = nil
	s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				s.setAnonymous()
				return ctx.Err()
			}
		}
		u, err := s.fetcher.Profile(ctx, uid)
		if err == nil {
			s.mu.Lock()
			s.state = StateReady
			s.user = &u
			s.mu.Unlock()
			return nil
		}
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrPermission) {
			s.setAnonymous()
			return err
		}
		lastErr = err
	}

	// Profile never appeared. The session is still usable for signed-in
	// actions that do not need profile data.
	s.mu.Lock()
	s.state = StateReady
	s.user = nil
	s.mu.Unlock()
	return lastErr
}

// SignOut drops the session and clears the viewed-profile selection so a
// later sign-in does not land on another user's profile screen.
func (s *SessionHolder) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.user = nil
	s.viewedProfile = ""
}

func (s *SessionHolder) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.user = nil
}

// State returns the current lifecycle state.
func (s *SessionHolder) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready reports whether the session may drive subscriptions and writes.
func (s *SessionHolder) Ready() bool {
	return s.State() == StateReady
}

// User returns the current profile, or nil for an anonymous or
// profile-less session.
func (s *SessionHolder) User() *identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ViewProfile records which user's profile screen is open.
func (s *SessionHolder) ViewProfile(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewedProfile = uid
}

// ViewedProfile returns the uid whose profile screen is open, if any.
func (s *SessionHolder) ViewedProfile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewedProfile
}
