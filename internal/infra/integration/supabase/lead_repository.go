package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// LeadRepository acessa a tabela leads pelo PostgREST, autenticado com o token
// da sessão corrente.
type LeadRepository struct {
	client *Client
	token  func() string
}

func NewLeadRepository(client *Client, token func() string) *LeadRepository {
	return &LeadRepository{client: client, token: token}
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	var records []leadRecord
	if err := r.client.do(ctx, http.MethodGet, "/rest/v1/leads?select=*", r.token(), nil, nil, &records); err != nil {
		return nil, err
	}

	leads := make([]entity.Lead, 0, len(records))
	for _, rec := range records {
		leads = append(leads, rec.toEntity())
	}
	return leads, nil
}

func (r *LeadRepository) Insert(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	rec := toRecord(lead)
	rec.ID = ""

	var created []leadRecord
	err := r.client.do(ctx, http.MethodPost, "/rest/v1/leads", r.token(),
		map[string]string{"Prefer": "return=representation"}, []leadRecord{rec}, &created)
	if err != nil {
		return entity.Lead{}, err
	}
	if len(created) == 0 {
		return entity.Lead{}, fmt.Errorf("supabase não devolveu o lead criado")
	}
	return created[0].toEntity(), nil
}

// Update envia o registro inteiro; id e created_at não são alterados.
func (r *LeadRepository) Update(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	rec := toRecord(lead)
	rec.ID = ""
	rec.CreatedAt = nil

	path := "/rest/v1/leads?id=eq." + url.QueryEscape(lead.ID)

	var updated []leadRecord
	err := r.client.do(ctx, http.MethodPatch, path, r.token(),
		map[string]string{"Prefer": "return=representation"}, rec, &updated)
	if err != nil {
		return entity.Lead{}, err
	}
	if len(updated) == 0 {
		return entity.Lead{}, entity.ErrLeadNotFound
	}
	return updated[0].toEntity(), nil
}
