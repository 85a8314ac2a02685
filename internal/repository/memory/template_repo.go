package memory

import (
	"context"
	"sync"

	"linecrm-service/internal/domain/template"
	xerrors "linecrm-service/internal/pkg/errors"
)

type TemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]template.Template
	order     []string // creation order for stable listing
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{
		templates: make(map[string]template.Template),
	}
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &t, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]template.Template, 0, len(r.templates))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[t.ID]; exists {
		return xerrors.ErrConflict
	}
	r.templates[t.ID] = *t
	r.order = append(r.order, t.ID)
	return nil
}
