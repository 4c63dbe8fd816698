package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

func TestLeadRepositoryListReturnsSeedInOrder(t *testing.T) {
	repo := NewLeadRepository(DemoLeads()...)

	leads, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, leads, 5)
	assert.Equal(t, "João Silva Santos", leads[0].FullName)
	assert.True(t, leads[2].HasStatus(entity.StatusConverted))
	assert.Equal(t, "Agendar reunião de onboarding", *leads[2].NextStep)
	assert.Nil(t, leads[0].Notes)
}

func TestLeadRepositoryInsertAssignsIDAndCreatedAt(t *testing.T) {
	repo := NewLeadRepository()
	fixed := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	created, err := repo.Insert(context.Background(), entity.Lead{FullName: "Ana", Email: "ana@x.com"})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.NotNil(t, created.CreatedAt)
	assert.Equal(t, fixed, *created.CreatedAt)

	leads, _ := repo.List(context.Background())
	assert.Equal(t, []entity.Lead{created}, leads)
}

func TestLeadRepositoryUpdateKeepsCreatedAt(t *testing.T) {
	repo := NewLeadRepository(DemoLeads()...)
	lead := DemoLeads()[1]
	originalCreated := *lead.CreatedAt

	lead.FullName = "Maria O. Costa"
	lead.CreatedAt = nil
	updated, err := repo.Update(context.Background(), lead)

	require.NoError(t, err)
	assert.Equal(t, "Maria O. Costa", updated.FullName)
	require.NotNil(t, updated.CreatedAt)
	assert.Equal(t, originalCreated, *updated.CreatedAt)
}

func TestLeadRepositoryUpdateUnknownID(t *testing.T) {
	repo := NewLeadRepository(DemoLeads()...)

	_, err := repo.Update(context.Background(), entity.Lead{ID: "99", FullName: "X", Email: "x@x.com"})
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryHonorsCanceledContext(t *testing.T) {
	repo := NewLeadRepository(DemoLeads()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.Insert(ctx, entity.Lead{FullName: "Ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
