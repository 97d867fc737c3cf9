package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UserToken is the end-user access credential carried in the OAuth cookie,
// as issued by the identity layer: a base64-encoded JSON object.
type UserToken struct {
	AccessToken string `json:"access_token"`
	ObtainedAt  int64  `json:"obtained_at"` // unix milliseconds
	ExpiresIn   int64  `json:"expires_in"`  // seconds
}

// DecodeUserToken decodes the cookie payload. It does not check expiry.
func DecodeUserToken(raw string) (*UserToken, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode token cookie: %w", err)
	}

	var token UserToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token cookie: %w", err)
	}

	return &token, nil
}

// Valid reports whether the token can still authorize downstream calls.
func (t *UserToken) Valid(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	expiresAt := t.ObtainedAt + t.ExpiresIn*1000
	return now.UnixMilli() < expiresAt
}

// UserTokenFromRequest extracts the end-user token from the request cookie.
// A missing or malformed cookie yields nil: the resolver then falls back to
// the service principal.
func UserTokenFromRequest(r *http.Request, cookieName string) *UserToken {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	token, err := DecodeUserToken(cookie.Value)
	if err != nil {
		return nil
	}

	return token
}
