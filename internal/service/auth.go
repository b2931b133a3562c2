package service

import (
	"context"
	"errors"
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid passphrase")
	ErrPassphraseRequired = errors.New("passphrase is required")
	ErrAuthDisabled       = errors.New("owner authentication is not configured")
)

// AuthService exchanges the owner passphrase for a history token.
type AuthService struct {
	passphraseHash string
	jwtSecret      string
	jwtExpiry      time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(passphraseHash, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		passphraseHash: passphraseHash,
		jwtSecret:      secret,
		jwtExpiry:      expiry,
	}
}

// Enabled reports whether a passphrase hash is configured.
func (s *AuthService) Enabled() bool {
	return s.passphraseHash != ""
}

// IssueToken verifies the passphrase and returns a signed token.
func (s *AuthService) IssueToken(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error) {
	if !s.Enabled() {
		return model.TokenResponse{}, ErrAuthDisabled
	}
	if req.Passphrase == "" {
		return model.TokenResponse{}, ErrPassphraseRequired
	}

	match, err := crypto.VerifyPassphrase(req.Passphrase, s.passphraseHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.jwtExpiry).UTC()
	token, err := crypto.GenerateToken(s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}
