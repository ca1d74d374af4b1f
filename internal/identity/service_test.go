package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users map[string]User // by uid
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]User{}}
}

func (f *fakeStore) Insert(_ context.Context, u User) error {
	f.users[u.UID] = u
	return nil
}

func (f *fakeStore) Get(_ context.Context, uid string) (User, error) {
	u, ok := f.users[uid]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (User, error) {
	for _, u := range f.users {
		if u.Login != nil && u.Login.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, uid string, p Profile) error {
	u, ok := f.users[uid]
	if !ok {
		return ErrNotFound
	}
	u.Profile = p
	f.users[uid] = u
	return nil
}

func (f *fakeStore) Promote(_ context.Context, uid string) error {
	u, ok := f.users[uid]
	if !ok {
		return ErrNotFound
	}
	u.Role = "ADMIN"
	u.Official = true
	f.users[uid] = u
	return nil
}

func (f *fakeStore) Delete(_ context.Context, uid string) error {
	delete(f.users, uid)
	return nil
}

func TestSignUp(t *testing.T) {
	svc := NewService(newFakeStore(), "batch.app", 6)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "huda", "secret99", "Huda A.")
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", u.Role)
	assert.False(t, u.Official)
	require.NotNil(t, u.Login)
	assert.Equal(t, "huda@batch.app", u.Login.Email)
	assert.NotEqual(t, "secret99", u.Login.PasswordHash, "password must be hashed")
	assert.Contains(t, u.Profile.Avatar, "ui-avatars.com")
	assert.True(t, u.CanSignIn())
}

func TestSignUpFailures(t *testing.T) {
	svc := NewService(newFakeStore(), "batch.app", 6)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "", "secret99", "X")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.SignUp(ctx, "huda", "short", "X")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.SignUp(ctx, "huda", "secret99", "Huda")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "huda", "secret99", "Other Huda")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignIn(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "batch.app", 6)
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "huda", "secret99", "Huda")
	require.NoError(t, err)

	u, err := svc.SignIn(ctx, "huda", "secret99")
	require.NoError(t, err)
	assert.Equal(t, created.UID, u.UID)

	_, err = svc.SignIn(ctx, "huda", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.SignIn(ctx, "nobody", "secret99")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestOfficialStudentCannotSignIn(t *testing.T) {
	svc := NewService(newFakeStore(), "batch.app", 6)
	ctx := context.Background()

	u, err := svc.AddOfficialStudent(ctx, "Omar K.")
	require.NoError(t, err)
	assert.True(t, u.Official)
	assert.Nil(t, u.Login, "official records carry no credentials")
	assert.False(t, u.CanSignIn())
	assert.True(t, strings.HasPrefix(u.UID, "u_"))
}

func TestPromote(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "batch.app", 6)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "huda", "secret99", "Huda")
	require.NoError(t, err)

	u, err := svc.Promote(ctx, "huda")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)
	assert.True(t, u.Official)

	_, err = svc.Promote(ctx, "huda")
	assert.Error(t, err, "promoting an admin again")

	_, err = svc.Promote(ctx, "nobody")
	assert.Error(t, err)
}

func TestAddAdmin(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "batch.app", 6)

	u, err := svc.AddAdmin(context.Background(), "boss", "secret99", "The Boss")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)

	stored, err := store.Get(context.Background(), u.UID)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", stored.Role)
}
