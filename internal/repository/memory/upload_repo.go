package memory

import (
	"context"
	"sync"

	"linecrm-service/internal/domain/upload"
	xerrors "linecrm-service/internal/pkg/errors"
)

type UploadRepository struct {
	mu       sync.RWMutex
	sessions map[string]upload.Session
}

func NewUploadRepository() *UploadRepository {
	return &UploadRepository{
		sessions: make(map[string]upload.Session),
	}
}

func (r *UploadRepository) Find(ctx context.Context, id string) (*upload.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	// Copy the error slice so callers cannot mutate stored state.
	s.Errors = append([]upload.RowError(nil), s.Errors...)
	return &s, nil
}

func (r *UploadRepository) Create(ctx context.Context, s *upload.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = *s
	return nil
}

func (r *UploadRepository) Update(ctx context.Context, id string, s *upload.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return xerrors.ErrNotFound
	}
	r.sessions[id] = *s
	return nil
}
