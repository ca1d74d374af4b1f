package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leostarkx/MyBatch/internal/identity"
)

type fakeFetcher struct {
	calls   int
	results []error // error per attempt; nil means success
	user    identity.User
}

func (f *fakeFetcher) Profile(_ context.Context, uid string) (identity.User, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.results) && f.results[idx] != nil {
		return identity.User{}, f.results[idx]
	}
	u := f.user
	u.UID = uid
	return u, nil
}

func TestEstablishRetriesThroughNotFound(t *testing.T) {
	// right after signup the profile row lags the token; the first two
	// fetches miss, the third lands
	f := &fakeFetcher{
		results: []error{ErrNotFound, ErrPermission, nil},
		user:    identity.User{Name: "Huda"},
	}
	s := NewSessionHolder(f, 5, time.Millisecond)

	require.NoError(t, s.Establish(context.Background(), "u1"))
	assert.Equal(t, 3, f.calls)
	assert.True(t, s.Ready())
	require.NotNil(t, s.User())
	assert.Equal(t, "u1", s.User().UID)
}

func TestEstablishExhaustedIsReadyButAnonymous(t *testing.T) {
	f := &fakeFetcher{
		results: []error{ErrNotFound, ErrNotFound, ErrNotFound, ErrNotFound, ErrNotFound},
	}
	s := NewSessionHolder(f, 5, time.Millisecond)

	err := s.Establish(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 5, f.calls, "bounded retries")
	assert.Equal(t, StateReady, s.State(), "session stays usable")
	assert.Nil(t, s.User())
}

func TestEstablishHardErrorAbortsToAnonymous(t *testing.T) {
	boom := errors.New("connection refused")
	f := &fakeFetcher{results: []error{boom}}
	s := NewSessionHolder(f, 5, time.Millisecond)

	err := s.Establish(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.calls, "no retry on non-transient errors")
	assert.Equal(t, StateAnonymous, s.State())
}

func TestEstablishCanceled(t *testing.T) {
	f := &fakeFetcher{results: []error{ErrNotFound, ErrNotFound}}
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSessionHolder(f, 5, 50*time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := s.Establish(ctx, "u1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAnonymous, s.State())
}

func TestSignOutClearsViewedProfile(t *testing.T) {
	f := &fakeFetcher{user: identity.User{Name: "Huda"}}
	s := NewSessionHolder(f, 1, time.Millisecond)
	require.NoError(t, s.Establish(context.Background(), "u1"))

	s.ViewProfile("u2")
	assert.Equal(t, "u2", s.ViewedProfile())

	s.SignOut()
	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, s.ViewedProfile(), "next sign-in must not land on the old profile screen")
}

func TestAuthMessages(t *testing.T) {
	assert.Equal(t, "اسم المستخدم أو كلمة المرور غير صحيحة", AuthMessage(CodeBadCredentials))
	assert.Equal(t, "اسم المستخدم مستخدم بالفعل", AuthMessage(CodeUsernameTaken))
	assert.Equal(t, "كلمة المرور ضعيفة (يجب أن تكون 6 أحرف على الأقل)", AuthMessage(CodeWeakPassword))
	generic := AuthMessage(CodeInternal)
	assert.Equal(t, "حدث خطأ، يرجى المحاولة لاحقاً", generic)
	assert.Equal(t, generic, AuthMessage("something-new"), "unknown codes collapse to the generic text")
}
