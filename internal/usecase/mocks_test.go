package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(entity.Lead), args.Error(1)
}

// MockSessionProvider guarda os inscritos para os testes emitirem eventos.
type MockSessionProvider struct {
	mock.Mock

	subMu  sync.Mutex
	subs   map[int]func(entity.SessionEvent)
	nextID int
}

func NewMockSessionProvider() *MockSessionProvider {
	return &MockSessionProvider{subs: make(map[int]func(entity.SessionEvent))}
}

func (m *MockSessionProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionProvider) SignUp(ctx context.Context, email, password, fullName string) (*entity.Session, error) {
	args := m.Called(ctx, email, password, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionProvider) SignOut(ctx context.Context, session entity.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionProvider) Subscribe(fn func(entity.SessionEvent)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *MockSessionProvider) Emit(ev entity.SessionEvent) {
	m.subMu.Lock()
	subs := make([]func(entity.SessionEvent), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (m *MockSessionProvider) Subscribers() int {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	return len(m.subs)
}

// MockLeadEventPublisher
type MockLeadEventPublisher struct {
	mock.Mock
}

func (m *MockLeadEventPublisher) PublishLeadEvent(ctx context.Context, kind string, lead entity.Lead) error {
	args := m.Called(ctx, kind, lead)
	return args.Error(0)
}

// MockLeadNotifier
type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) SendLeadCreated(to string, lead entity.Lead) error {
	args := m.Called(to, lead)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func statusPtr(s entity.LeadStatus) *entity.LeadStatus { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func sampleLeads() []entity.Lead {
	return []entity.Lead{
		{
			ID:        "1",
			FullName:  "João Silva",
			Email:     "joao@x.com",
			Phone:     strPtr("(11) 99988-7766"),
			Status:    statusPtr(entity.StatusNew),
			CreatedAt: timePtr(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:       "2",
			FullName: "Maria Costa",
			Email:    "maria@x.com",
			Status:   statusPtr(entity.StatusInContact),
			Notes:    strPtr("Interessada em nossos serviços premium"),
		},
	}
}
