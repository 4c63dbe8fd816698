package usecase

import (
	"context"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

const (
	LeadEventCreated = "lead.created"
	LeadEventUpdated = "lead.updated"
)

// LeadEventPublisher é opcional: sem fila configurada os use cases recebem nil.
type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, kind string, lead entity.Lead) error
}

type LeadNotifier interface {
	SendLeadCreated(to string, lead entity.Lead) error
}
