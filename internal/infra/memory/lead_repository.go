package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// LeadRepository guarda leads em memória, na ordem de inserção. Serve para o
// modo demonstração e para testes.
type LeadRepository struct {
	mu    sync.Mutex
	leads []entity.Lead
	now   func() time.Time
}

func NewLeadRepository(seed ...entity.Lead) *LeadRepository {
	r := &LeadRepository{now: time.Now}
	for _, l := range seed {
		r.leads = append(r.leads, l.Clone())
	}
	return r
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Lead, len(r.leads))
	for i, l := range r.leads {
		out[i] = l.Clone()
	}
	return out, nil
}

func (r *LeadRepository) Insert(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return entity.Lead{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := lead.Clone()
	stored.ID = uuid.New().String()
	createdAt := r.now().UTC()
	stored.CreatedAt = &createdAt

	r.leads = append(r.leads, stored)
	return stored.Clone(), nil
}

// Update preserva id e created_at do registro guardado.
func (r *LeadRepository) Update(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return entity.Lead{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.leads {
		if existing.ID != lead.ID {
			continue
		}
		updated := lead.Clone()
		updated.CreatedAt = existing.Clone().CreatedAt
		r.leads[i] = updated
		return updated.Clone(), nil
	}
	return entity.Lead{}, entity.ErrLeadNotFound
}
