package entity

import (
	"context"
	"time"
)

type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "SIGNED_IN"
	SessionSignedOut SessionEventKind = "SIGNED_OUT"
	SessionExpired   SessionEventKind = "EXPIRED"
	SessionRefreshed SessionEventKind = "TOKEN_REFRESHED"
)

// SessionEvent é uma notificação assíncrona do provedor de autenticação.
// Seq é monotônico por provedor; At marca quando o evento foi emitido.
type SessionEvent struct {
	Seq     uint64           `json:"seq"`
	Kind    SessionEventKind `json:"kind"`
	Session *Session         `json:"session,omitempty"`
	At      time.Time        `json:"at"`
}

type SessionProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignUp devolve nil quando a conta ainda depende de confirmação externa.
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignOut(ctx context.Context, session Session) error
	Subscribe(fn func(SessionEvent)) (unsubscribe func())
}
