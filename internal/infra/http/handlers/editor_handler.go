package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GabrielASF2/blue-lead-manager/internal/infra/http/middleware"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

type EditorHandler struct{}

func NewEditorHandler() *EditorHandler {
	return &EditorHandler{}
}

type UpdateFieldsRequest struct {
	Fields map[string]*string `json:"fields"`
}

type LinkResponse struct {
	URL string `json:"url"`
}

// HandleBegin (POST /leads/{id}/edit) abre a cópia de trabalho.
func (h *EditorHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	lead, err := ws.Editor.BeginByID(chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *EditorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	lead, err := ws.Editor.Working()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// HandleUpdate aplica os campos de uma vez: ou todos entram na cópia de trabalho
// ou nenhum.
func (h *EditorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	var req UpdateFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if err := ws.Editor.SetFields(req.Fields); err != nil {
		writeUseCaseError(w, err)
		return
	}

	lead, err := ws.Editor.Working()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *EditorHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	lead, err := ws.Editor.Save(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSaveInProgress):
			middleware.RecordLeadSave("in_progress")
		case errors.As(err, new(*usecase.PersistenceError)):
			middleware.RecordLeadSave("failed")
			middleware.RecordIntegrationError("leads")
		default:
			middleware.RecordLeadSave("rejected")
		}
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadSave("ok")
	writeJSON(w, http.StatusOK, lead)
}

func (h *EditorHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	ws.Editor.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

func (h *EditorHandler) HandleWhatsApp(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	url, err := ws.Editor.WhatsAppLink()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkResponse{URL: url})
}

func (h *EditorHandler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	ws, err := workspaceFrom(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	url, err := ws.Editor.EmailLink()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkResponse{URL: url})
}
