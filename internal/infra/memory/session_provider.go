package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

var ErrInvalidCredentials = errors.New("credenciais inválidas")

// SessionProvider aceita qualquer email e senha não vazios, como o login de
// demonstração. Cadastros ficam pendentes de confirmação.
type SessionProvider struct {
	TTL time.Duration

	mu          sync.Mutex
	seq         uint64
	subscribers map[int]func(entity.SessionEvent)
	nextSub     int
	now         func() time.Time
}

func NewSessionProvider(ttl time.Duration) *SessionProvider {
	return &SessionProvider{
		TTL:         ttl,
		subscribers: make(map[int]func(entity.SessionEvent)),
		now:         time.Now,
	}
}

func (p *SessionProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	sess := &entity.Session{
		UserID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:        email,
		AccessToken:  uuid.New().String(),
		RefreshToken: uuid.New().String(),
	}
	if p.TTL > 0 {
		sess.ExpiresAt = p.now().Add(p.TTL)
	}

	p.Emit(entity.SessionSignedIn, sess)
	return sess, nil
}

func (p *SessionProvider) SignUp(ctx context.Context, email, password, fullName string) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if email == "" || password == "" || fullName == "" {
		return nil, ErrInvalidCredentials
	}
	return nil, nil
}

func (p *SessionProvider) SignOut(ctx context.Context, session entity.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Emit(entity.SessionSignedOut, nil)
	return nil
}

func (p *SessionProvider) Subscribe(fn func(entity.SessionEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}

// Publish repassa um evento externo mantendo o horário original.
func (p *SessionProvider) Publish(ev entity.SessionEvent) {
	p.emitAt(ev.Kind, ev.Session, ev.At)
}

// Emit publica um evento para os inscritos, como faria uma expiração de token
// ou um logout feito em outra aba.
func (p *SessionProvider) Emit(kind entity.SessionEventKind, sess *entity.Session) entity.SessionEvent {
	return p.emitAt(kind, sess, time.Time{})
}

func (p *SessionProvider) emitAt(kind entity.SessionEventKind, sess *entity.Session, at time.Time) entity.SessionEvent {
	p.mu.Lock()
	if at.IsZero() {
		at = p.now()
	}
	p.seq++
	ev := entity.SessionEvent{Seq: p.seq, Kind: kind, Session: sess, At: at}
	subs := make([]func(entity.SessionEvent), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
	return ev
}

func (p *SessionProvider) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers)
}
