package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// UserInfo is the normalized identity a provider hands back after the
// code exchange. ID is the provider-scoped account id, not ours.
type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

// Provider is one OAuth sign-in backend. Name() keys the provider lookup
// in the auth handler.
type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

// GenerateState returns a fresh CSRF state nonce for the consent redirect.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
