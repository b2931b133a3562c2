package model

import "encoding/json"

// GenerateRequest represents a password generation request.
// Length is kept raw so both 12 and "12" are accepted and anything else can
// be reported as an invalid length. Pointer bools distinguish missing
// (nil -> default true) from explicit false.
type GenerateRequest struct {
	Length  json.RawMessage `json:"length,omitempty"`
	Numbers *bool           `json:"numbers"`
	Letters *bool           `json:"letters"`
	Symbols *bool           `json:"symbols"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}

// RecordRequest adds an externally produced password to the history.
type RecordRequest struct {
	Password string `json:"password"`
}

// HistoryResponse lists past passwords, newest first.
type HistoryResponse struct {
	History []string `json:"history"`
	Limit   int      `json:"limit"`
}
