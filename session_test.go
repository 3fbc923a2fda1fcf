package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	auth "github.com/goliatone/go-login"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionObject_Getters(t *testing.T) {
	issued := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := issued.Add(time.Hour)

	session := &auth.SessionObject{
		UserID:         "alice",
		TokenID:        "jti-1",
		Audience:       []string{"web"},
		Issuer:         "authd",
		IssuedAt:       &issued,
		ExpirationDate: &expires,
	}

	assert.Equal(t, "alice", session.GetUserID())
	assert.Equal(t, "jti-1", session.GetTokenID())
	assert.Equal(t, []string{"web"}, session.GetAudience())
	assert.Equal(t, "authd", session.GetIssuer())
	assert.Equal(t, &issued, session.GetIssuedAt())
	assert.Equal(t, &expires, session.GetExpiresAt())
	assert.Contains(t, session.String(), "user=alice")
}

func TestSessionObject_JSON(t *testing.T) {
	session := &auth.SessionObject{UserID: "alice"}

	raw, err := json.Marshal(session)
	require.NoError(t, err)

	assert.JSONEq(t, `{"username":"alice"}`, string(raw))
	assert.Contains(t, (auth.SessionObject{}).String(), "exp=<nil>")
}

func TestResolvedSessionCarriesTokenClaims(t *testing.T) {
	auther, _ := newTestAuther(auth.NewMemoryCredentialStore())
	ts := auth.NewTokenService([]byte(testOptions().SigningKey), time.Minute, "", nil, nil)

	token, expiresAt, err := ts.Issue("alice", time.Minute)
	require.NoError(t, err)

	session, err := auther.Resolve(ctxBackground(), token)
	require.NoError(t, err)

	assert.Equal(t, "alice", session.GetUserID())
	assert.NotEmpty(t, session.GetTokenID())
	require.NotNil(t, session.GetExpiresAt())
	assert.Equal(t, expiresAt.Unix(), session.GetExpiresAt().Unix())
	require.NotNil(t, session.GetIssuedAt())
}
