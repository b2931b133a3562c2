package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/model"
)

var (
	ErrLengthTooLong    = errors.New("password length exceeds the allowed maximum")
	ErrPasswordRequired = errors.New("password is required")
)

// GeneratorService generates passwords and records them in the history.
type GeneratorService struct {
	history       *HistoryService
	defaultLength int
	maxLength     int
}

// NewGeneratorService creates a new GeneratorService. A maxLength of zero
// disables the upper bound.
func NewGeneratorService(history *HistoryService, defaultLength, maxLength int) *GeneratorService {
	if defaultLength < 0 {
		defaultLength = crypto.DefaultLength
	}
	return &GeneratorService{
		history:       history,
		defaultLength: defaultLength,
		maxLength:     maxLength,
	}
}

// Generate produces a password from the request and, on success, records it.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	resp, err := s.GenerateOnly(ctx, req)
	if err != nil {
		return model.GenerateResponse{}, err
	}
	s.history.Record(ctx, resp.Password)
	return resp, nil
}

// GenerateOnly produces a password from the request without touching the
// history.
func (s *GeneratorService) GenerateOnly(_ context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := crypto.GeneratorOptions{
		Numbers: boolOrDefault(req.Numbers, true),
		Letters: boolOrDefault(req.Letters, true),
		Symbols: boolOrDefault(req.Symbols, true),
	}
	if opts.Charset() == "" {
		metrics.GenerateErrors.WithLabelValues("no_character_class").Inc()
		return model.GenerateResponse{}, crypto.ErrNoCharacterClassSelected
	}

	length, err := parseLength(req.Length, s.defaultLength)
	if err != nil {
		metrics.GenerateErrors.WithLabelValues("invalid_length").Inc()
		return model.GenerateResponse{}, err
	}
	if s.maxLength > 0 && length > s.maxLength {
		metrics.GenerateErrors.WithLabelValues("length_too_long").Inc()
		return model.GenerateResponse{}, ErrLengthTooLong
	}
	opts.Length = length

	password, err := crypto.Generate(opts)
	if err != nil {
		metrics.GenerateErrors.WithLabelValues(errorReason(err)).Inc()
		return model.GenerateResponse{}, err
	}
	metrics.PasswordsGenerated.Inc()

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
	}, nil
}

// Record stores a password produced elsewhere.
func (s *GeneratorService) Record(ctx context.Context, req model.RecordRequest) (model.HistoryResponse, error) {
	if req.Password == "" {
		return model.HistoryResponse{}, ErrPasswordRequired
	}
	return model.HistoryResponse{
		History: s.history.Record(ctx, req.Password),
		Limit:   s.history.Limit(),
	}, nil
}

// History returns the retained passwords, newest first.
func (s *GeneratorService) History(ctx context.Context) model.HistoryResponse {
	return model.HistoryResponse{
		History: s.history.Entries(ctx),
		Limit:   s.history.Limit(),
	}
}

// IsValidationError reports whether err stems from a bad request rather than
// a failure on our side.
func IsValidationError(err error) bool {
	return errors.Is(err, crypto.ErrInvalidLength) ||
		errors.Is(err, crypto.ErrNoCharacterClassSelected) ||
		errors.Is(err, ErrLengthTooLong) ||
		errors.Is(err, ErrPasswordRequired)
}

// parseLength accepts a JSON number or numeric string. An absent value
// yields fallback.
func parseLength(raw json.RawMessage, fallback int) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fallback, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, crypto.ErrInvalidLength
		}
		return crypto.ParseLength(s)
	}
	return crypto.ParseLength(string(raw))
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, crypto.ErrNoCharacterClassSelected):
		return "no_character_class"
	case errors.Is(err, crypto.ErrInvalidLength):
		return "invalid_length"
	default:
		return "other"
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
