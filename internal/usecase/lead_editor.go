package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// Campos editáveis da cópia de trabalho.
const (
	FieldFullName = "full_name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldStatus   = "status"
	FieldNotes    = "notes"
	FieldNextStep = "next_step"
)

var EditableFields = []string{FieldFullName, FieldEmail, FieldPhone, FieldStatus, FieldNotes, FieldNextStep}

// LeadEditor mantém uma cópia de trabalho de um lead. Edições não tocam o
// LeadStore até que Save conclua com sucesso.
type LeadEditor struct {
	repo      entity.LeadRepositoryInterface
	store     *LeadStore
	links     ContactLinks
	publisher LeadEventPublisher
	timeout   time.Duration

	mu      sync.Mutex
	working *entity.Lead
	saving  bool
}

func NewLeadEditor(
	repo entity.LeadRepositoryInterface,
	store *LeadStore,
	links ContactLinks,
	publisher LeadEventPublisher,
	timeout time.Duration,
) *LeadEditor {
	return &LeadEditor{
		repo:      repo,
		store:     store,
		links:     links,
		publisher: publisher,
		timeout:   timeout,
	}
}

func (e *LeadEditor) Begin(lead entity.Lead) entity.Lead {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := lead.Clone()
	e.working = &c
	return c.Clone()
}

// BeginByID abre para edição o lead guardado no store.
func (e *LeadEditor) BeginByID(id string) (entity.Lead, error) {
	lead, err := e.store.Get(id)
	if err != nil {
		return entity.Lead{}, err
	}
	return e.Begin(lead), nil
}

func (e *LeadEditor) Working() (entity.Lead, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.working == nil {
		return entity.Lead{}, ErrNoLeadSelected
	}
	return e.working.Clone(), nil
}

func (e *LeadEditor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// SetField altera exatamente um campo da cópia de trabalho. value nil limpa um
// campo opcional.
func (e *LeadEditor) SetField(name string, value *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.working == nil {
		return ErrNoLeadSelected
	}
	return applyField(e.working, name, value)
}

// SetFields aplica vários campos de uma vez, em ordem alfabética. Se qualquer um
// falhar a cópia de trabalho fica como estava.
func (e *LeadEditor) SetFields(fields map[string]*string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.working == nil {
		return ErrNoLeadSelected
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	draft := e.working.Clone()
	for _, name := range names {
		if err := applyField(&draft, name, fields[name]); err != nil {
			return err
		}
	}
	*e.working = draft
	return nil
}

func applyField(w *entity.Lead, name string, value *string) error {
	switch name {
	case FieldFullName:
		if value == nil {
			return ValidationError{name, "is required"}
		}
		w.FullName = *value
	case FieldEmail:
		if value == nil {
			return ValidationError{name, "is required"}
		}
		w.Email = *value
	case FieldPhone:
		w.Phone = optional(value)
	case FieldNotes:
		w.Notes = optional(value)
	case FieldNextStep:
		w.NextStep = optional(value)
	case FieldStatus:
		if value == nil {
			w.Status = nil
			return nil
		}
		st, ok := entity.ParseLeadStatus(*value)
		if !ok {
			return ValidationError{name, "must be one of New, InContact, Converted, Lost"}
		}
		w.Status = &st
	case "id", "created_at":
		return ValidationError{name, "is read-only"}
	default:
		return ValidationError{name, "unknown field"}
	}
	return nil
}

// Save envia a cópia de trabalho inteira ao backend. Em caso de falha a cópia é
// mantida para o usuário tentar de novo; não há retentativa automática.
func (e *LeadEditor) Save(ctx context.Context) (entity.Lead, error) {
	e.mu.Lock()
	if e.working == nil {
		e.mu.Unlock()
		return entity.Lead{}, ErrNoLeadSelected
	}
	if e.saving {
		e.mu.Unlock()
		return entity.Lead{}, ErrSaveInProgress
	}
	e.saving = true
	snapshot := e.working.Clone()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.saving = false
		e.mu.Unlock()
	}()

	if errs := ValidateLead(snapshot); len(errs) > 0 {
		return entity.Lead{}, ValidationErrors(errs)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	saved, err := e.repo.Update(ctx, snapshot)
	if err != nil {
		log.Printf("❌ Erro ao salvar lead %s: %v", snapshot.ID, err)
		return entity.Lead{}, &PersistenceError{Op: "salvar o lead", Err: err}
	}
	if saved.ID == "" {
		saved = snapshot
	}

	if err := e.store.Update(saved); err != nil {
		if errors.Is(err, ErrStoreClosed) {
			log.Printf("⚠️ Sessão encerrada durante o salvamento do lead %s; resultado descartado", snapshot.ID)
			return entity.Lead{}, ErrSessionEnded
		}
		return entity.Lead{}, err
	}

	if e.publisher != nil {
		if err := e.publisher.PublishLeadEvent(ctx, LeadEventUpdated, saved); err != nil {
			log.Printf("⚠️ Falha ao publicar evento de atualização do lead %s: %v", saved.ID, err)
		}
	}

	log.Printf("✅ Lead %s atualizado", saved.ID)
	return saved.Clone(), nil
}

// Cancel descarta a cópia de trabalho sem tocar o store.
func (e *LeadEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.working = nil
}

func (e *LeadEditor) WhatsAppLink() (string, error) {
	lead, err := e.Working()
	if err != nil {
		return "", err
	}
	return e.links.WhatsApp(lead)
}

func (e *LeadEditor) EmailLink() (string, error) {
	lead, err := e.Working()
	if err != nil {
		return "", err
	}
	return e.links.Mailto(lead)
}

func optional(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	v := *value
	return &v
}
