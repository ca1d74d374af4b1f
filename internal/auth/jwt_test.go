package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundtrip(t *testing.T) {
	pair, err := Issue("u1", RoleStudent, "mybatch", "secret", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := Parse(pair.AccessToken, "secret", "mybatch")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, RoleStudent, claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, err := Issue("u1", RoleAdmin, "mybatch", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-secret", "mybatch")
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	pair, err := Issue("u1", RoleAdmin, "someone-else", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "mybatch")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	pair, err := Issue("u1", RoleStudent, "mybatch", "secret", -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "mybatch")
	assert.Error(t, err)
}

func TestFromRequest(t *testing.T) {
	pair, err := Issue("u1", RoleStudent, "mybatch", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := FromRequest("Bearer "+pair.AccessToken, "secret", "mybatch")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)

	_, err = FromRequest("", "secret", "mybatch")
	assert.Error(t, err)
	_, err = FromRequest(pair.AccessToken, "secret", "mybatch")
	assert.Error(t, err, "missing Bearer prefix")
}
