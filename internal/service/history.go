package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/repository"
)

const (
	// HistoryKey names the blob holding the serialized history.
	HistoryKey = "passwordHistory"

	DefaultHistoryLimit = 5
)

// HistoryService keeps the most recent passwords, newest first, and writes
// the full list back to the blob store after every change.
type HistoryService struct {
	mu      sync.Mutex
	store   repository.BlobStore
	limit   int
	entries []string
	loaded  bool
}

// NewHistoryService creates an unloaded history bounded to limit entries.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistoryService(store repository.BlobStore, limit int) *HistoryService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryService{
		store:   store,
		limit:   limit,
		entries: []string{},
	}
}

// Limit returns the maximum number of retained entries.
func (s *HistoryService) Limit() int {
	return s.limit
}

// Load restores the history from the store. It runs once; later calls are
// no-ops. A missing or unreadable blob leaves the history empty.
func (s *HistoryService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
}

func (s *HistoryService) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.entries = []string{}

	data, err := s.store.Get(ctx, HistoryKey)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			slog.Warn("history read failed, starting empty", "error", err)
			metrics.HistoryStorageErrors.WithLabelValues("read").Inc()
		}
		metrics.HistorySize.Set(0)
		return
	}

	var stored []string
	if err := json.Unmarshal(data, &stored); err != nil {
		slog.Warn("history blob malformed, starting empty", "error", err)
		metrics.HistoryStorageErrors.WithLabelValues("decode").Inc()
		metrics.HistorySize.Set(0)
		return
	}

	if len(stored) > s.limit {
		stored = stored[:s.limit]
	}
	if stored != nil {
		s.entries = stored
	}
	metrics.HistorySize.Set(float64(len(s.entries)))
}

// Record puts password at the front of the history, drops anything past the
// limit, and persists. A failed write is logged and does not undo the change.
func (s *HistoryService) Record(ctx context.Context, password string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	n := min(len(s.entries)+1, s.limit)
	next := make([]string, 0, n)
	next = append(next, password)
	next = append(next, s.entries[:n-1]...)
	s.entries = next
	metrics.HistorySize.Set(float64(len(s.entries)))

	if err := s.persistLocked(ctx); err != nil {
		slog.Warn("history persist skipped", "error", err)
		metrics.HistoryStorageErrors.WithLabelValues("write").Inc()
	}

	return s.snapshotLocked()
}

// Entries returns a copy of the history, newest first.
func (s *HistoryService) Entries(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.snapshotLocked()
}

// Persist writes the current history to the store.
func (s *HistoryService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.persistLocked(ctx)
}

func (s *HistoryService) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, HistoryKey, data)
}

func (s *HistoryService) snapshotLocked() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}
