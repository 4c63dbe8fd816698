package supabase

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

var ErrNoSession = errors.New("resposta do supabase sem sessão")

// AuthClient implementa entity.SessionProvider sobre o GoTrue do Supabase.
type AuthClient struct {
	client *Client

	mu          sync.Mutex
	seq         uint64
	subscribers map[int]func(entity.SessionEvent)
	nextSub     int
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{
		client:      client,
		subscribers: make(map[int]func(entity.SessionEvent)),
	}
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	var resp tokenResponse
	err := a.client.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}

	sess, err := a.sessionFrom(resp)
	if err != nil {
		return nil, err
	}

	a.emit(entity.SessionSignedIn, sess)
	return sess, nil
}

func (a *AuthClient) SignUp(ctx context.Context, email, password, fullName string) (*entity.Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}

	var resp signupResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/v1/signup", "", nil, payload, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		log.Printf("📧 Supabase: cadastro de %s aguardando confirmação", email)
		return nil, nil
	}

	sess, err := a.sessionFrom(resp.tokenResponse)
	if err != nil {
		return nil, err
	}

	a.emit(entity.SessionSignedIn, sess)
	return sess, nil
}

func (a *AuthClient) SignOut(ctx context.Context, session entity.Session) error {
	err := a.client.do(ctx, http.MethodPost, "/auth/v1/logout", session.AccessToken, nil, nil, nil)
	if err != nil {
		return err
	}
	a.emit(entity.SessionSignedOut, nil)
	return nil
}

func (a *AuthClient) Subscribe(fn func(entity.SessionEvent)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subscribers, id)
	}
}

// Publish repassa aos inscritos um evento vindo de fora (fila, webhook),
// renumerando-o na sequência deste cliente.
func (a *AuthClient) Publish(ev entity.SessionEvent) {
	a.emitAt(ev.Kind, ev.Session, ev.At)
}

func (a *AuthClient) sessionFrom(resp tokenResponse) (*entity.Session, error) {
	if resp.AccessToken == "" {
		return nil, ErrNoSession
	}

	sess := &entity.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		sess.UserID = resp.User.ID
		sess.Email = resp.User.Email
	}
	if resp.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	} else if resp.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	claims, err := parseAccessToken(resp.AccessToken, a.client.jwtSecret)
	if err != nil {
		if a.client.jwtSecret != "" {
			return nil, err
		}
		log.Printf("⚠️ Supabase: não foi possível ler os claims do token: %v", err)
		return sess, nil
	}

	if sess.UserID == "" {
		sess.UserID = claims.Subject
	}
	if sess.Email == "" {
		sess.Email = claims.Email
	}
	if exp := claims.expiresAt(); !exp.IsZero() {
		sess.ExpiresAt = exp
	}
	return sess, nil
}

func (a *AuthClient) emit(kind entity.SessionEventKind, sess *entity.Session) {
	a.emitAt(kind, sess, time.Now())
}

func (a *AuthClient) emitAt(kind entity.SessionEventKind, sess *entity.Session, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}

	a.mu.Lock()
	a.seq++
	ev := entity.SessionEvent{Seq: a.seq, Kind: kind, Session: sess, At: at}
	subs := make([]func(entity.SessionEvent), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
