package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

type CreateLeadUseCase struct {
	Publisher LeadEventPublisher
	Notifier  LeadNotifier
	Timeout   time.Duration
}

func NewCreateLeadUseCase(publisher LeadEventPublisher, notifier LeadNotifier, timeout time.Duration) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Publisher: publisher,
		Notifier:  notifier,
		Timeout:   timeout,
	}
}

// Execute grava o lead no backend e, com o id atribuído, o insere no store da sessão.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, ws *Workspace, input CreateLeadInput) (entity.Lead, error) {
	if ws == nil {
		return entity.Lead{}, ErrNotAuthenticated
	}

	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return entity.Lead{}, ValidationErrors(errs)
	}

	lead := entity.Lead{
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.TrimSpace(input.Email),
		Phone:    optional(input.Phone),
		Notes:    optional(input.Notes),
		NextStep: optional(input.NextStep),
	}

	// O formulário começa em "Novo".
	status := entity.StatusNew
	if input.Status != nil {
		if st, ok := entity.ParseLeadStatus(*input.Status); ok {
			status = st
		}
	}
	lead.Status = &status

	if uc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.Timeout)
		defer cancel()
	}

	created, err := ws.Repo.Insert(ctx, lead)
	if err != nil {
		log.Printf("❌ Erro ao criar lead %s: %v", lead.Email, err)
		return entity.Lead{}, &PersistenceError{Op: "criar o lead", Err: err}
	}

	if err := ws.Store.Insert(created); err != nil {
		if errors.Is(err, ErrStoreClosed) {
			return entity.Lead{}, ErrSessionEnded
		}
		return entity.Lead{}, err
	}

	if uc.Publisher != nil {
		if err := uc.Publisher.PublishLeadEvent(ctx, LeadEventCreated, created); err != nil {
			log.Printf("⚠️ Falha ao publicar evento de criação do lead %s: %v", created.ID, err)
		}
	}

	if uc.Notifier != nil && ws.Session.Email != "" {
		go func(to string, lead entity.Lead) {
			if err := uc.Notifier.SendLeadCreated(to, lead); err != nil {
				log.Printf("⚠️ Falha ao enviar email de novo lead: %v", err)
			}
		}(ws.Session.Email, created.Clone())
	}

	log.Printf("✅ Lead criado: %s (%s)", created.FullName, created.ID)
	return created.Clone(), nil
}
