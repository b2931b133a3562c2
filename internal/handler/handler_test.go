package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, passphrase string) http.Handler {
	t.Helper()

	var hash string
	if passphrase != "" {
		var err error
		hash, err = crypto.HashPassphrase(passphrase)
		require.NoError(t, err)
	}

	history := service.NewHistoryService(repository.NewMemoryStore(), service.DefaultHistoryLimit)
	gen := NewGeneratorHandler(service.NewGeneratorService(history, crypto.DefaultLength, 128))
	auth := NewAuthHandler(service.NewAuthService(hash, testSecret, time.Hour))

	return NewRouter(RouterOptions{
		JWTSecret:      testSecret,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		Metrics:        true,
	}, gen, auth)
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLen    int
		wantError  string
	}{
		{name: "no body uses defaults", body: "", wantStatus: http.StatusOK, wantLen: 8},
		{name: "empty object", body: `{}`, wantStatus: http.StatusOK, wantLen: 8},
		{name: "numbers only", body: `{"length":10,"numbers":true,"letters":false,"symbols":false}`, wantStatus: http.StatusOK, wantLen: 10},
		{name: "string length", body: `{"length":"6"}`, wantStatus: http.StatusOK, wantLen: 6},
		{name: "no classes", body: `{"length":5,"numbers":false,"letters":false,"symbols":false}`, wantStatus: http.StatusBadRequest, wantError: crypto.ErrNoCharacterClassSelected.Error()},
		{name: "negative length", body: `{"length":-1}`, wantStatus: http.StatusBadRequest, wantError: crypto.ErrInvalidLength.Error()},
		{name: "word length", body: `{"length":"ten"}`, wantStatus: http.StatusBadRequest, wantError: crypto.ErrInvalidLength.Error()},
		{name: "too long", body: `{"length":1000}`, wantStatus: http.StatusBadRequest, wantError: service.ErrLengthTooLong.Error()},
		{name: "malformed json", body: `{"length":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, "")
			rec := do(t, h, http.MethodPost, "/api/v1/generate", tt.body, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			var resp model.GenerateResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantLen, resp.Length)
			assert.Len(t, resp.Password, tt.wantLen)
		})
	}
}

func TestHistoryFlow(t *testing.T) {
	h := newTestRouter(t, "")

	var generated []string
	for i := 0; i < 7; i++ {
		rec := do(t, h, http.MethodPost, "/api/v1/generate", `{"length":12}`, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp model.GenerateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		generated = append(generated, resp.Password)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var hist model.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hist))
	assert.Equal(t, 5, hist.Limit)
	assert.Equal(t, []string{generated[6], generated[5], generated[4], generated[3], generated[2]}, hist.History)
}

func TestHandleRecord(t *testing.T) {
	h := newTestRouter(t, "")

	rec := do(t, h, http.MethodPost, "/api/v1/history", `{"password":"from-elsewhere"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var hist model.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hist))
	assert.Equal(t, []string{"from-elsewhere"}, hist.History)

	rec = do(t, h, http.MethodPost, "/api/v1/history", `{"password":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/history", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryRequiresTokenWhenAuthEnabled(t *testing.T) {
	h := newTestRouter(t, "owner-pass")

	rec := do(t, h, http.MethodGet, "/api/v1/history", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/token", `{"passphrase":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/token", `{"passphrase":"owner-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok model.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tok))
	require.NotEmpty(t, tok.Token)

	rec = do(t, h, http.MethodGet, "/api/v1/history", "", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Generation itself stays open.
	rec = do(t, h, http.MethodPost, "/api/v1/generate", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnonymousGenerateSkipsOwnerHistory(t *testing.T) {
	h := newTestRouter(t, "owner-pass")

	rec := do(t, h, http.MethodPost, "/api/v1/auth/token", `{"passphrase":"owner-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok model.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tok))

	rec = do(t, h, http.MethodPost, "/api/v1/generate", `{"length":12}`, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var owned model.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&owned))

	for i := 0; i < 6; i++ {
		rec = do(t, h, http.MethodPost, "/api/v1/generate", `{"length":12}`, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/generate", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/history", "", tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist model.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hist))
	assert.Equal(t, []string{owned.Password}, hist.History)
}

func TestTokenRouteAbsentWhenAuthDisabled(t *testing.T) {
	h := newTestRouter(t, "")
	rec := do(t, h, http.MethodPost, "/api/v1/auth/token", `{"passphrase":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, "")

	rec := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	do(t, h, http.MethodPost, "/api/v1/generate", "", "")
	rec = do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "passgen_passwords_generated_total")
}
