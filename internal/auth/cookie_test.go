package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeToken(t *testing.T, token UserToken) string {
	t.Helper()
	data, err := json.Marshal(token)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(data)
}

func TestDecodeUserToken(t *testing.T) {
	raw := encodeToken(t, UserToken{
		AccessToken: "ya29.token",
		ObtainedAt:  1700000000000,
		ExpiresIn:   3600,
	})

	token, err := DecodeUserToken(raw)
	require.NoError(t, err)

	assert.Equal(t, "ya29.token", token.AccessToken)
	assert.Equal(t, int64(1700000000000), token.ObtainedAt)
	assert.Equal(t, int64(3600), token.ExpiresIn)
}

func TestDecodeUserTokenInvalid(t *testing.T) {
	_, err := DecodeUserToken("not base64 !!!")
	assert.Error(t, err)

	_, err = DecodeUserToken(base64.StdEncoding.EncodeToString([]byte("not json")))
	assert.Error(t, err)
}

func TestUserTokenValid(t *testing.T) {
	now := time.Now()

	fresh := &UserToken{
		AccessToken: "tok",
		ObtainedAt:  now.UnixMilli(),
		ExpiresIn:   3600,
	}
	assert.True(t, fresh.Valid(now))

	expired := &UserToken{
		AccessToken: "tok",
		ObtainedAt:  now.Add(-2 * time.Hour).UnixMilli(),
		ExpiresIn:   3600,
	}
	assert.False(t, expired.Valid(now))

	var nilToken *UserToken
	assert.False(t, nilToken.Valid(now))
	assert.False(t, (&UserToken{ObtainedAt: now.UnixMilli(), ExpiresIn: 3600}).Valid(now), "empty access token is never valid")
}

func TestUserTokenFromRequest(t *testing.T) {
	raw := encodeToken(t, UserToken{AccessToken: "tok", ObtainedAt: 1, ExpiresIn: 1})

	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	r.AddCookie(&http.Cookie{Name: "wm_google_oauth", Value: raw})

	token := UserTokenFromRequest(r, "wm_google_oauth")
	require.NotNil(t, token)
	assert.Equal(t, "tok", token.AccessToken)
}

func TestUserTokenFromRequestMissingOrMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	assert.Nil(t, UserTokenFromRequest(r, "wm_google_oauth"))

	r = httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	r.AddCookie(&http.Cookie{Name: "wm_google_oauth", Value: "garbage"})
	assert.Nil(t, UserTokenFromRequest(r, "wm_google_oauth"))
}
