package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLeadNotFound  = errors.New("lead não encontrado")
	ErrDuplicateLead = errors.New("lead já existe")
)

// LeadStatus é o estágio do lead no funil. Um lead sem status usa Status == nil,
// nunca um valor vazio.
type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusInContact LeadStatus = "InContact"
	StatusConverted LeadStatus = "Converted"
	StatusLost      LeadStatus = "Lost"
)

// LeadStatuses lista os estágios na ordem do funil.
var LeadStatuses = []LeadStatus{StatusNew, StatusInContact, StatusConverted, StatusLost}

// Rótulos gravados na tabela leads do Supabase.
var statusLabels = map[LeadStatus]string{
	StatusNew:       "Novo",
	StatusInContact: "Em Contato",
	StatusConverted: "Convertido",
	StatusLost:      "Perdido",
}

func ParseLeadStatus(s string) (LeadStatus, bool) {
	st := LeadStatus(s)
	_, ok := statusLabels[st]
	return st, ok
}

func (s LeadStatus) Label() string {
	return statusLabels[s]
}

// StatusFromLabel converte o rótulo do banco. Rótulos desconhecidos voltam nil (status não definido).
func StatusFromLabel(label string) *LeadStatus {
	for st, l := range statusLabels {
		if l == label {
			st := st
			return &st
		}
	}
	return nil
}

type Lead struct {
	ID        string      `json:"id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone,omitempty"`
	Status    *LeadStatus `json:"status,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
	NextStep  *string     `json:"next_step,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

// Clone devolve uma cópia profunda: nenhum ponteiro é compartilhado com o original.
func (l Lead) Clone() Lead {
	c := l
	c.Phone = cloneString(l.Phone)
	c.Notes = cloneString(l.Notes)
	c.NextStep = cloneString(l.NextStep)
	if l.Status != nil {
		st := *l.Status
		c.Status = &st
	}
	if l.CreatedAt != nil {
		t := *l.CreatedAt
		c.CreatedAt = &t
	}
	return c
}

func (l Lead) HasStatus(st LeadStatus) bool {
	return l.Status != nil && *l.Status == st
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

type LeadRepositoryInterface interface {
	List(ctx context.Context) ([]Lead, error)
	Insert(ctx context.Context, lead Lead) (Lead, error)
	Update(ctx context.Context, lead Lead) (Lead, error)
}
