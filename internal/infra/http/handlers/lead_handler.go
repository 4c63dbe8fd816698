package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/http/middleware"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

type LeadHandler struct {
	CreateLeadUC *usecase.CreateLeadUseCase
}

func NewLeadHandler(uc *usecase.CreateLeadUseCase) *LeadHandler {
	return &LeadHandler{CreateLeadUC: uc}
}

type LeadListResponse struct {
	Leads   []entity.Lead       `json:"leads"`
	Total   int                 `json:"total"`
	Search  string              `json:"search,omitempty"`
	Summary usecase.LeadSummary `json:"summary"`
}

// HandleList (GET /leads?search=) carrega o store no primeiro acesso.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if !ws.Store.Loaded() {
		if err := ws.Store.Load(r.Context()); err != nil {
			if errors.As(err, new(*usecase.LoadError)) {
				middleware.RecordIntegrationError("leads")
			}
			writeUseCaseError(w, err)
			return
		}
	}

	h.writeList(w, ws, r.URL.Query().Get("search"))
}

func (h *LeadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if err := ws.Store.Load(r.Context()); err != nil {
		middleware.RecordIntegrationError("leads")
		writeUseCaseError(w, err)
		return
	}

	h.writeList(w, ws, r.URL.Query().Get("search"))
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	lead, err := h.CreateLeadUC.Execute(r.Context(), ws, input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	lead, err := ws.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) writeList(w http.ResponseWriter, ws *usecase.Workspace, search string) {
	all := ws.Store.Leads()
	writeJSON(w, http.StatusOK, LeadListResponse{
		Leads:   usecase.FilterLeads(all, search),
		Total:   len(all),
		Search:  search,
		Summary: usecase.SummarizeLeads(all),
	})
}
