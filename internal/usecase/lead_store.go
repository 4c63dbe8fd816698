package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// LeadStore guarda os leads visíveis para a sessão atual.
// Existe um por sessão; Close é chamado no logout.
type LeadStore struct {
	repo    entity.LeadRepositoryInterface
	timeout time.Duration

	mu      sync.RWMutex
	leads   []entity.Lead
	index   map[string]int
	loaded  bool
	loadErr error
	closed  bool

	// Mutações feitas enquanto um List está em andamento; reaplicadas sobre o
	// resultado antes da troca.
	loading bool
	pending []entity.Lead

	loads singleflight.Group
}

func NewLeadStore(repo entity.LeadRepositoryInterface, timeout time.Duration) *LeadStore {
	return &LeadStore{
		repo:    repo,
		timeout: timeout,
		index:   make(map[string]int),
	}
}

// Load busca todos os leads e substitui o conjunto atual. Chamadas concorrentes
// compartilham a mesma requisição.
func (s *LeadStore) Load(ctx context.Context) error {
	_, err, _ := s.loads.Do("load", func() (interface{}, error) {
		return nil, s.load(ctx)
	})
	return err
}

func (s *LeadStore) load(ctx context.Context) error {
	if err := s.beginLoad(); err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	leads, err := s.repo.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending
	s.loading = false
	s.pending = nil

	if s.closed {
		return ErrStoreClosed
	}

	if err != nil {
		log.Printf("❌ Erro ao carregar leads: %v", err)
		s.leads = nil
		s.index = make(map[string]int)
		s.loaded = false
		s.loadErr = &LoadError{Err: err}
		return s.loadErr
	}

	held := make([]entity.Lead, 0, len(leads))
	index := make(map[string]int, len(leads))
	for _, lead := range leads {
		if _, dup := index[lead.ID]; dup {
			log.Printf("⚠️ Lead duplicado ignorado no carregamento: %s", lead.ID)
			continue
		}
		index[lead.ID] = len(held)
		held = append(held, lead.Clone())
	}

	for _, lead := range pending {
		if i, ok := index[lead.ID]; ok {
			held[i] = lead
			continue
		}
		index[lead.ID] = len(held)
		held = append(held, lead)
	}
	if len(pending) > 0 {
		log.Printf("🔁 %d alteração(ões) feitas durante o carregamento reaplicadas", len(pending))
	}

	s.leads = held
	s.index = index
	s.loaded = true
	s.loadErr = nil
	log.Printf("✅ %d lead(s) carregados", len(held))
	return nil
}

// Insert adiciona um lead recém-criado (já com id do backend) ao fim da lista.
func (s *LeadStore) Insert(lead entity.Lead) error {
	if lead.ID == "" {
		return ValidationError{"id", "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, exists := s.index[lead.ID]; exists {
		return fmt.Errorf("insert %s: %w", lead.ID, entity.ErrDuplicateLead)
	}

	s.index[lead.ID] = len(s.leads)
	s.leads = append(s.leads, lead.Clone())
	s.track(lead)
	return nil
}

// Update substitui a entrada com o mesmo id. Não altera a quantidade nem os ids.
// Um id desconhecido indica defeito em quem chamou e retorna ErrLeadNotFound.
func (s *LeadStore) Update(lead entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	i, ok := s.index[lead.ID]
	if !ok {
		return fmt.Errorf("update %s: %w", lead.ID, entity.ErrLeadNotFound)
	}

	s.leads[i] = lead.Clone()
	s.track(lead)
	return nil
}

// Leads devolve uma cópia do conjunto, na ordem de inserção.
func (s *LeadStore) Leads() []entity.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Lead, len(s.leads))
	for i, lead := range s.leads {
		out[i] = lead.Clone()
	}
	return out
}

func (s *LeadStore) Get(id string) (entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return entity.Lead{}, entity.ErrLeadNotFound
	}
	return s.leads[i].Clone(), nil
}

func (s *LeadStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *LeadStore) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *LeadStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

// Close descarta os leads. Depois disso toda mutação retorna ErrStoreClosed.
func (s *LeadStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = nil
	s.leads = nil
	s.index = make(map[string]int)
	s.loaded = false
}

func (s *LeadStore) beginLoad() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.loading = true
	s.pending = nil
	return nil
}

// track guarda a mutação para o carregamento em andamento. Chamar com mu travado.
func (s *LeadStore) track(lead entity.Lead) {
	if !s.loading {
		return
	}
	for i, p := range s.pending {
		if p.ID == lead.ID {
			s.pending[i] = lead.Clone()
			return
		}
	}
	s.pending = append(s.pending, lead.Clone())
}
