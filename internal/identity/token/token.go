// Package token verifies and decodes the platform's HS256 compact
// tokens. This is the local fallback path for identity resolution when
// the identity backend is unreachable.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrMalformed        = errors.New("malformed_token")
	ErrSignatureInvalid = errors.New("invalid_signature")
	ErrExpired          = errors.New("token_expired")
)

// Claims are the fields the gating core needs from a token.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Demo    bool   `json:"demo"`
	Expiry  int64  `json:"exp"`
}

type header struct {
	Alg string `json:"alg"`
}

// Decode verifies the HMAC-SHA256 signature of a compact token and
// returns its claims. Tokens without an expiry never expire.
func Decode(raw string, secret string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformed
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return Claims{}, ErrMalformed
	}
	if !strings.EqualFold(strings.TrimSpace(h.Alg), "HS256") {
		return Claims{}, ErrMalformed
	}

	signed := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signed))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return Claims{}, ErrSignatureInvalid
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, ErrMalformed
	}

	if claims.Expiry > 0 && time.Now().UTC().Unix() >= claims.Expiry {
		return Claims{}, ErrExpired
	}
	return claims, nil
}

// Encode signs claims into a compact HS256 token. Used by tests and the
// demo-mode session path.
func Encode(claims Claims, secret string) (string, error) {
	headerJSON, err := json.Marshal(header{Alg: "HS256"})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signed := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(claimsJSON)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signed))
	return signed + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
