package handlers

import (
	"context"
	"net/http"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

type SessionController interface {
	Login(ctx context.Context, input usecase.LoginInput) (entity.Session, error)
	Signup(ctx context.Context, input usecase.SignupInput) (usecase.SignupOutput, error)
	Logout(ctx context.Context) error
	State() usecase.AuthState
	Session() (entity.Session, bool)
	Workspace() (*usecase.Workspace, error)
}

type workspaceKey struct{}

// RequireSession bloqueia as rotas de leads quando não há sessão.
func RequireSession(sc SessionController) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := sc.Workspace()
			if err != nil {
				writeUseCaseError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func workspaceFrom(ctx context.Context) (*usecase.Workspace, error) {
	ws, ok := ctx.Value(workspaceKey{}).(*usecase.Workspace)
	if !ok || ws == nil {
		return nil, usecase.ErrNotAuthenticated
	}
	return ws, nil
}
