package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

type ErrorResponse struct {
	Success bool                      `json:"success"`
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Errors  []usecase.ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Code: code, Message: message})
}

// writeUseCaseError converte os erros dos use cases em status HTTP. Detalhes do
// backend nunca vão para a resposta.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var (
		verrs   usecase.ValidationErrors
		verr    usecase.ValidationError
		missing *usecase.MissingFieldError
		authErr *usecase.AuthError
		persErr *usecase.PersistenceError
		loadErr *usecase.LoadError
	)

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code: "VALIDATION_ERROR", Message: "dados inválidos", Errors: verrs,
		})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code: "VALIDATION_ERROR", Message: "dados inválidos", Errors: []usecase.ValidationError{verr},
		})
	case errors.As(err, &missing):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "MISSING_FIELD", missingFieldMessage(missing.Field))
	case errors.As(err, &authErr):
		writeErrorResponse(w, http.StatusUnauthorized, "AUTH_ERROR", authErr.Error())
	case errors.Is(err, usecase.ErrNotAuthenticated):
		writeErrorResponse(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
	case errors.Is(err, usecase.ErrAuthInProgress):
		writeErrorResponse(w, http.StatusConflict, "AUTH_IN_PROGRESS", err.Error())
	case errors.Is(err, usecase.ErrSaveInProgress):
		writeErrorResponse(w, http.StatusConflict, "SAVE_IN_PROGRESS", err.Error())
	case errors.Is(err, usecase.ErrNoLeadSelected):
		writeErrorResponse(w, http.StatusConflict, "NO_LEAD_SELECTED", err.Error())
	case errors.Is(err, usecase.ErrSessionEnded), errors.Is(err, usecase.ErrStoreClosed):
		writeErrorResponse(w, http.StatusConflict, "SESSION_ENDED", usecase.ErrSessionEnded.Error())
	case errors.As(err, &persErr):
		writeErrorResponse(w, http.StatusBadGateway, "PERSISTENCE_ERROR", persErr.Error())
	case errors.As(err, &loadErr):
		writeErrorResponse(w, http.StatusBadGateway, "LOAD_ERROR", loadErr.Error())
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", err.Error())
	case errors.Is(err, entity.ErrDuplicateLead):
		writeErrorResponse(w, http.StatusConflict, "DUPLICATE_LEAD", err.Error())
	default:
		log.Printf("❌ Erro inesperado: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
	}
}

func missingFieldMessage(field string) string {
	switch field {
	case "phone":
		return "Este lead não possui um número de telefone cadastrado."
	case "email":
		return "Este lead não possui um email cadastrado."
	default:
		return "Campo obrigatório não informado: " + field
	}
}
