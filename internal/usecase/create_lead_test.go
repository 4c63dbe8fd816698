package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

func newWorkspace(t *testing.T) (*usecase.Workspace, *MockLeadRepository) {
	t.Helper()
	store, repo := loadedStore(t, sampleLeads())
	return &usecase.Workspace{
		Session: *demoSession(),
		Repo:    repo,
		Store:   store,
		Editor:  usecase.NewLeadEditor(repo, store, usecase.NewContactLinks("", ""), nil, time.Second),
	}, repo
}

func TestCreateLeadWithoutSession(t *testing.T) {
	uc := usecase.NewCreateLeadUseCase(nil, nil, time.Second)

	_, err := uc.Execute(context.Background(), nil, usecase.CreateLeadInput{FullName: "Ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, usecase.ErrNotAuthenticated)
}

func TestCreateLeadAppendsToStore(t *testing.T) {
	ws, repo := newWorkspace(t)
	publisher := new(MockLeadEventPublisher)
	notifier := new(MockLeadNotifier)
	uc := usecase.NewCreateLeadUseCase(publisher, notifier, time.Second)

	created := entity.Lead{
		ID:        "3",
		FullName:  "Pedro Lima",
		Email:     "pedro@x.com",
		Status:    statusPtr(entity.StatusNew),
		CreatedAt: timePtr(t0),
	}
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(l entity.Lead) bool {
		return l.ID == "" && l.FullName == "Pedro Lima" && l.Email == "pedro@x.com" &&
			l.HasStatus(entity.StatusNew) && l.Phone == nil
	})).Return(created, nil).Once()
	publisher.On("PublishLeadEvent", mock.Anything, usecase.LeadEventCreated, created).Return(nil).Once()

	sent := make(chan struct{})
	notifier.On("SendLeadCreated", "ana@x.com", created).Return(nil).Once().Run(func(mock.Arguments) {
		close(sent)
	})

	lead, err := uc.Execute(context.Background(), ws, usecase.CreateLeadInput{
		FullName: "  Pedro Lima ",
		Email:    "pedro@x.com",
		Phone:    strPtr("  "),
	})

	require.NoError(t, err)
	assert.Equal(t, created, lead)
	assert.Equal(t, []string{"1", "2", "3"}, ids(ws.Store.Leads()))

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("email de novo lead não enviado")
	}
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateLeadKeepsRequestedStatus(t *testing.T) {
	ws, repo := newWorkspace(t)
	uc := usecase.NewCreateLeadUseCase(nil, nil, time.Second)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(l entity.Lead) bool {
		return l.HasStatus(entity.StatusInContact)
	})).Return(entity.Lead{ID: "3", FullName: "Pedro", Email: "pedro@x.com", Status: statusPtr(entity.StatusInContact)}, nil).Once()

	lead, err := uc.Execute(context.Background(), ws, usecase.CreateLeadInput{
		FullName: "Pedro", Email: "pedro@x.com", Status: strPtr("InContact"),
	})

	require.NoError(t, err)
	assert.True(t, lead.HasStatus(entity.StatusInContact))
}

func TestCreateLeadValidationSkipsBackend(t *testing.T) {
	ws, repo := newWorkspace(t)
	uc := usecase.NewCreateLeadUseCase(nil, nil, time.Second)

	_, err := uc.Execute(context.Background(), ws, usecase.CreateLeadInput{FullName: "Pedro"})

	assert.True(t, usecase.IsValidationError(err))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Equal(t, 2, ws.Store.Len())
}

func TestCreateLeadBackendFailure(t *testing.T) {
	ws, repo := newWorkspace(t)
	uc := usecase.NewCreateLeadUseCase(nil, nil, time.Second)
	repo.On("Insert", mock.Anything, mock.Anything).Return(entity.Lead{}, errors.New("503")).Once()

	_, err := uc.Execute(context.Background(), ws, usecase.CreateLeadInput{FullName: "Pedro", Email: "pedro@x.com"})

	var persErr *usecase.PersistenceError
	require.ErrorAs(t, err, &persErr)
	assert.Equal(t, "criar o lead", persErr.Op)
	assert.Equal(t, 2, ws.Store.Len())
}

func TestCreateLeadAfterSessionEnded(t *testing.T) {
	ws, repo := newWorkspace(t)
	uc := usecase.NewCreateLeadUseCase(nil, nil, time.Second)
	repo.On("Insert", mock.Anything, mock.Anything).Return(entity.Lead{ID: "3", FullName: "Pedro", Email: "pedro@x.com"}, nil).Once()
	ws.Store.Close()

	_, err := uc.Execute(context.Background(), ws, usecase.CreateLeadInput{FullName: "Pedro", Email: "pedro@x.com"})
	assert.ErrorIs(t, err, usecase.ErrSessionEnded)
}
