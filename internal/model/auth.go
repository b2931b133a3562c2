package model

import "time"

// TokenRequest exchanges the owner passphrase for a bearer token.
type TokenRequest struct {
	Passphrase string `json:"passphrase"`
}

// TokenResponse carries a signed owner token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
