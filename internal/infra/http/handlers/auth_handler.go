package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/http/middleware"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

const (
	ScreenLogin     = "login"
	ScreenDashboard = "dashboard"
	ScreenDetail    = "detail"
)

type AuthHandler struct {
	Sessions SessionController
}

func NewAuthHandler(sc SessionController) *AuthHandler {
	return &AuthHandler{Sessions: sc}
}

type SessionResponse struct {
	State   usecase.AuthState `json:"state"`
	Screen  string            `json:"screen"`
	Session *entity.Session   `json:"session,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if _, err := h.Sessions.Login(r.Context(), input); err != nil {
		middleware.RecordAuthEvent("login_failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordAuthEvent("login")
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var input usecase.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.Sessions.Signup(r.Context(), input)
	if err != nil {
		middleware.RecordAuthEvent("signup_failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordAuthEvent("signup")
	writeJSON(w, http.StatusCreated, out)
}

// HandleLogout sempre responde 200: a sessão local é encerrada mesmo quando o
// provedor não confirma.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	resp := MessageResponse{Success: true, Message: "Você foi desconectado com sucesso."}
	if err := h.Sessions.Logout(r.Context()); err != nil {
		middleware.RecordIntegrationError("auth")
		resp.Message = "Você foi desconectado, mas o servidor de autenticação não confirmou o logout."
	}

	middleware.RecordAuthEvent("logout")
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) sessionResponse() SessionResponse {
	resp := SessionResponse{State: h.Sessions.State(), Screen: ScreenLogin}

	if sess, ok := h.Sessions.Session(); ok {
		resp.Session = &sess
	}

	ws, err := h.Sessions.Workspace()
	if err != nil {
		return resp
	}
	resp.Screen = ScreenDashboard
	if _, err := ws.Editor.Working(); err == nil {
		resp.Screen = ScreenDetail
	}
	return resp
}
