package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

type AuthState string

const (
	StateUnauthenticated AuthState = "unauthenticated"
	StateAuthenticating  AuthState = "authenticating"
	StateAuthenticated   AuthState = "authenticated"
)

// Workspace agrupa o que só existe enquanto há sessão: o repositório autenticado,
// o store de leads e o editor.
type Workspace struct {
	Session entity.Session
	Repo    entity.LeadRepositoryInterface
	Store   *LeadStore
	Editor  *LeadEditor
}

// LeadRepositoryFactory cria o repositório de leads para uma sessão (o token
// de acesso costuma ir junto de cada chamada).
type LeadRepositoryFactory func(session entity.Session) entity.LeadRepositoryInterface

type AuthSessionDeps struct {
	Provider  entity.SessionProvider
	Repos     LeadRepositoryFactory
	Links     ContactLinks
	Publisher LeadEventPublisher
	Timeout   time.Duration
	Now       func() time.Time
}

// AuthSessionController é o dono da sessão do processo. Aplica as transições
// locais (login, signup, logout) e as notificações assíncronas do provedor.
type AuthSessionController struct {
	deps AuthSessionDeps
	now  func() time.Time

	mu        sync.Mutex
	state     AuthState
	session   *entity.Session
	workspace *Workspace
	lastSeq   uint64
	lastLocal time.Time
	version   uint64

	notifyMu     sync.Mutex
	notified     uint64
	listeners    map[int]func(AuthState)
	nextListener int

	unsubscribe func()
}

func NewAuthSessionController(deps AuthSessionDeps) *AuthSessionController {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	c := &AuthSessionController{
		deps:      deps,
		now:       now,
		state:     StateUnauthenticated,
		listeners: make(map[int]func(AuthState)),
	}
	c.unsubscribe = deps.Provider.Subscribe(c.HandleSessionEvent)
	return c
}

func (c *AuthSessionController) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *AuthSessionController) Session() (entity.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return entity.Session{}, false
	}
	return *c.session, true
}

// Workspace devolve o espaço de trabalho da sessão atual. Sem sessão nenhum lead
// pode ser exibido.
func (c *AuthSessionController) Workspace() (*Workspace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.workspace == nil {
		return nil, ErrNotAuthenticated
	}
	return c.workspace, nil
}

// Subscribe registra fn para cada mudança de estado. Chame o retorno para cancelar.
func (c *AuthSessionController) Subscribe(fn func(AuthState)) func() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn

	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *AuthSessionController) Login(ctx context.Context, input LoginInput) (entity.Session, error) {
	if errs := ValidateLoginInput(input); len(errs) > 0 {
		return entity.Session{}, ValidationErrors(errs)
	}

	if err := c.beginAuthentication(); err != nil {
		return entity.Session{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	sess, err := c.deps.Provider.SignIn(ctx, input.Email, input.Password)
	if err != nil || sess == nil {
		log.Printf("❌ Login recusado para %s: %v", input.Email, err)
		c.abortAuthentication()
		return entity.Session{}, &AuthError{Op: "login", Err: err}
	}

	c.establish(*sess)
	log.Printf("✅ Login realizado: %s", sess.Email)
	return *sess, nil
}

// Signup valida localmente antes de qualquer chamada ao provedor. Sucesso no
// cadastro não implica sessão: o provedor pode exigir confirmação por email.
func (c *AuthSessionController) Signup(ctx context.Context, input SignupInput) (SignupOutput, error) {
	if errs := ValidateSignupInput(input); len(errs) > 0 {
		return SignupOutput{}, ValidationErrors(errs)
	}

	if err := c.beginAuthentication(); err != nil {
		return SignupOutput{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	sess, err := c.deps.Provider.SignUp(ctx, input.Email, input.Password, input.FullName)
	if err != nil {
		log.Printf("❌ Cadastro recusado para %s: %v", input.Email, err)
		c.abortAuthentication()
		return SignupOutput{}, &AuthError{Op: "signup", Err: err}
	}

	if sess == nil {
		c.abortAuthentication()
		log.Printf("📧 Cadastro de %s aguardando confirmação", input.Email)
		return SignupOutput{ConfirmationRequired: true}, nil
	}

	c.establish(*sess)
	log.Printf("✅ Cadastro realizado com sessão: %s", sess.Email)
	return SignupOutput{Session: sess}, nil
}

// Logout sempre termina em StateUnauthenticated. Um erro do provedor é devolvido
// apenas para registro: o estado local já foi limpo.
func (c *AuthSessionController) Logout(ctx context.Context) error {
	c.mu.Lock()
	var sess *entity.Session
	if c.session != nil {
		s := *c.session
		sess = &s
	}
	c.mu.Unlock()

	var providerErr error
	if sess != nil {
		ctx, cancel := c.withTimeout(ctx)
		defer cancel()
		if err := c.deps.Provider.SignOut(ctx, *sess); err != nil {
			log.Printf("⚠️ Provedor não confirmou o logout: %v", err)
			providerErr = &AuthError{Op: "logout", Err: err}
		}
	}

	c.mu.Lock()
	if sess == nil || (c.session != nil && c.session.AccessToken == sess.AccessToken) {
		c.teardownLocked()
	}
	c.lastLocal = c.now()
	v, st := c.bumpLocked()
	c.mu.Unlock()

	c.notify(v, st)
	log.Println("👋 Logout realizado")
	return providerErr
}

// HandleSessionEvent aplica uma notificação do provedor. Eventos fora de ordem
// (Seq repetido ou menor) e eventos anteriores à última transição local são descartados.
func (c *AuthSessionController) HandleSessionEvent(ev entity.SessionEvent) {
	c.mu.Lock()

	if ev.Seq != 0 && ev.Seq <= c.lastSeq {
		c.mu.Unlock()
		log.Printf("⚠️ Evento de sessão obsoleto ignorado: %s seq=%d (último=%d)", ev.Kind, ev.Seq, c.lastSeq)
		return
	}
	if ev.Seq != 0 {
		c.lastSeq = ev.Seq
	}
	if !ev.At.IsZero() && ev.At.Before(c.lastLocal) {
		c.mu.Unlock()
		log.Printf("⚠️ Evento de sessão anterior à última transição local ignorado: %s", ev.Kind)
		return
	}

	switch ev.Kind {
	case entity.SessionSignedIn:
		if ev.Session == nil {
			c.mu.Unlock()
			return
		}
		c.establishLocked(*ev.Session)
	case entity.SessionRefreshed:
		if ev.Session == nil || c.session == nil || c.session.UserID != ev.Session.UserID {
			c.mu.Unlock()
			return
		}
		s := *ev.Session
		c.session = &s
	case entity.SessionSignedOut, entity.SessionExpired:
		if c.session == nil && c.state != StateAuthenticating {
			c.mu.Unlock()
			return
		}
		if ev.Session != nil && ev.Session.UserID != "" && c.session != nil && ev.Session.UserID != c.session.UserID {
			c.mu.Unlock()
			return
		}
		log.Printf("🔒 Sessão encerrada pelo provedor: %s", ev.Kind)
		c.teardownLocked()
	default:
		c.mu.Unlock()
		log.Printf("⚠️ Evento de sessão desconhecido: %s", ev.Kind)
		return
	}

	v, st := c.bumpLocked()
	c.mu.Unlock()
	c.notify(v, st)
}

// CheckExpiry encerra a sessão se ela já expirou. Retorna true quando encerrou.
func (c *AuthSessionController) CheckExpiry(now time.Time) bool {
	c.mu.Lock()
	if c.session == nil || !c.session.Expired(now) {
		c.mu.Unlock()
		return false
	}

	log.Printf("⏱️ Sessão de %s expirou", c.session.Email)
	c.teardownLocked()
	c.lastLocal = now
	v, st := c.bumpLocked()
	c.mu.Unlock()

	c.notify(v, st)
	return true
}

// Close cancela a inscrição no provedor e descarta a sessão local.
func (c *AuthSessionController) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	c.mu.Lock()
	c.teardownLocked()
	c.mu.Unlock()

	c.notifyMu.Lock()
	c.listeners = make(map[int]func(AuthState))
	c.notifyMu.Unlock()
}

func (c *AuthSessionController) beginAuthentication() error {
	c.mu.Lock()
	if c.state == StateAuthenticating {
		c.mu.Unlock()
		return ErrAuthInProgress
	}
	c.state = StateAuthenticating
	v, st := c.bumpLocked()
	c.mu.Unlock()

	c.notify(v, st)
	return nil
}

func (c *AuthSessionController) abortAuthentication() {
	c.mu.Lock()
	if c.state != StateAuthenticating {
		c.mu.Unlock()
		return
	}
	if c.session != nil {
		c.state = StateAuthenticated
	} else {
		c.state = StateUnauthenticated
	}
	v, st := c.bumpLocked()
	c.mu.Unlock()

	c.notify(v, st)
}

func (c *AuthSessionController) establish(sess entity.Session) {
	c.mu.Lock()
	c.establishLocked(sess)
	c.lastLocal = c.now()
	v, st := c.bumpLocked()
	c.mu.Unlock()

	c.notify(v, st)
}

// establishLocked reaproveita o workspace quando a sessão é a mesma (o provedor
// também notifica o login que acabamos de fazer).
func (c *AuthSessionController) establishLocked(sess entity.Session) {
	c.state = StateAuthenticated
	if c.session != nil && c.session.AccessToken == sess.AccessToken && c.workspace != nil {
		return
	}

	c.teardownWorkspaceLocked()

	s := sess
	c.session = &s
	repo := c.deps.Repos(s)
	store := NewLeadStore(repo, c.deps.Timeout)
	c.workspace = &Workspace{
		Session: s,
		Repo:    repo,
		Store:   store,
		Editor:  NewLeadEditor(repo, store, c.deps.Links, c.deps.Publisher, c.deps.Timeout),
	}
}

func (c *AuthSessionController) teardownLocked() {
	c.teardownWorkspaceLocked()
	c.session = nil
	c.state = StateUnauthenticated
}

func (c *AuthSessionController) teardownWorkspaceLocked() {
	if c.workspace == nil {
		return
	}
	c.workspace.Editor.Cancel()
	c.workspace.Store.Close()
	c.workspace = nil
}

func (c *AuthSessionController) bumpLocked() (uint64, AuthState) {
	c.version++
	return c.version, c.state
}

// notify entrega o estado aos ouvintes. Uma versão mais antiga que a última
// entregue é descartada, então nenhum ouvinte vê um estado regredir.
func (c *AuthSessionController) notify(version uint64, state AuthState) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if version <= c.notified {
		return
	}
	c.notified = version
	for _, fn := range c.listeners {
		fn(state)
	}
}

func (c *AuthSessionController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.deps.Timeout > 0 {
		return context.WithTimeout(ctx, c.deps.Timeout)
	}
	return context.WithCancel(ctx)
}
