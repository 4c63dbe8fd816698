package supabase

import (
	"time"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

type leadRecord struct {
	ID           string     `json:"id,omitempty"`
	NomeCompleto string     `json:"nome_completo"`
	Email        string     `json:"email"`
	Telefone     *string    `json:"telefone"`
	Status       *string    `json:"status"`
	Observacoes  *string    `json:"observacoes"`
	ProximoPasso *string    `json:"proximo_passo"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

func toRecord(l entity.Lead) leadRecord {
	rec := leadRecord{
		ID:           l.ID,
		NomeCompleto: l.FullName,
		Email:        l.Email,
		Telefone:     l.Phone,
		Observacoes:  l.Notes,
		ProximoPasso: l.NextStep,
	}
	if l.Status != nil {
		label := l.Status.Label()
		rec.Status = &label
	}
	return rec
}

func (r leadRecord) toEntity() entity.Lead {
	l := entity.Lead{
		ID:        r.ID,
		FullName:  r.NomeCompleto,
		Email:     r.Email,
		Phone:     r.Telefone,
		Notes:     r.Observacoes,
		NextStep:  r.ProximoPasso,
		CreatedAt: r.CreatedAt,
	}
	if r.Status != nil {
		l.Status = entity.StatusFromLabel(*r.Status)
	}
	return l.Clone()
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *authUser `json:"user"`
}

// signupResponse cobre as duas formas da resposta: com sessão (autoconfirm)
// ou apenas o usuário criado, aguardando confirmação.
type signupResponse struct {
	tokenResponse
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Code             any    `json:"code"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}
