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

func newEditor(t *testing.T) (*usecase.LeadEditor, *usecase.LeadStore, *MockLeadRepository) {
	t.Helper()
	store, repo := loadedStore(t, sampleLeads())
	editor := usecase.NewLeadEditor(repo, store, usecase.NewContactLinks("55", ""), nil, time.Second)
	return editor, store, repo
}

func TestLeadEditorRoundTripWithoutEdits(t *testing.T) {
	editor, store, repo := newEditor(t)
	original := sampleLeads()[0]
	repo.On("Update", mock.Anything, original).Return(original, nil).Once()

	editor.Begin(original)
	saved, err := editor.Save(context.Background())

	require.NoError(t, err)
	assert.Equal(t, original, saved)
	got, err := store.Get(original.ID)
	require.NoError(t, err)
	assert.Equal(t, original, got)
	repo.AssertExpectations(t)
}

func TestLeadEditorSaveUpdatesOnlyEditedLead(t *testing.T) {
	editor, store, repo := newEditor(t)
	untouched, err := store.Get("1")
	require.NoError(t, err)

	_, err = editor.BeginByID("2")
	require.NoError(t, err)
	require.NoError(t, editor.SetField(usecase.FieldStatus, strPtr("Converted")))

	expected := sampleLeads()[1]
	expected.Status = statusPtr(entity.StatusConverted)
	repo.On("Update", mock.Anything, expected).Return(expected, nil).Once()

	_, err = editor.Save(context.Background())
	require.NoError(t, err)

	got, err := store.Get("2")
	require.NoError(t, err)
	assert.True(t, got.HasStatus(entity.StatusConverted))

	stillSame, err := store.Get("1")
	require.NoError(t, err)
	assert.Equal(t, untouched, stillSame)
}

func TestLeadEditorEditsDoNotTouchStoreBeforeSave(t *testing.T) {
	editor, store, repo := newEditor(t)

	_, err := editor.BeginByID("1")
	require.NoError(t, err)
	require.NoError(t, editor.SetField(usecase.FieldFullName, strPtr("João S. Santos")))
	require.NoError(t, editor.SetField(usecase.FieldNotes, strPtr("ligar amanhã")))

	got, err := store.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "João Silva", got.FullName)
	assert.Nil(t, got.Notes)

	working, err := editor.Working()
	require.NoError(t, err)
	assert.Equal(t, "João S. Santos", working.FullName)
	assert.Equal(t, "ligar amanhã", *working.Notes)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadEditorSaveFailureKeepsWorkingCopy(t *testing.T) {
	editor, store, repo := newEditor(t)
	repo.On("Update", mock.Anything, mock.Anything).Return(entity.Lead{}, errors.New("timeout")).Once()

	_, err := editor.BeginByID("2")
	require.NoError(t, err)
	require.NoError(t, editor.SetField(usecase.FieldNextStep, strPtr("Enviar proposta")))

	_, err = editor.Save(context.Background())

	var persErr *usecase.PersistenceError
	require.ErrorAs(t, err, &persErr)
	assert.EqualError(t, persErr.Err, "timeout")

	working, werr := editor.Working()
	require.NoError(t, werr)
	assert.Equal(t, "Enviar proposta", *working.NextStep)

	got, _ := store.Get("2")
	assert.Nil(t, got.NextStep)
	assert.False(t, editor.Saving())
}

func TestLeadEditorRejectsConcurrentSave(t *testing.T) {
	editor, _, repo := newEditor(t)
	started := make(chan struct{})
	release := make(chan struct{})
	lead := sampleLeads()[0]
	repo.On("Update", mock.Anything, lead).Return(lead, nil).Once().Run(func(mock.Arguments) {
		close(started)
		<-release
	})

	editor.Begin(lead)

	done := make(chan error, 1)
	go func() {
		_, err := editor.Save(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, editor.Saving())
	_, err := editor.Save(context.Background())
	assert.ErrorIs(t, err, usecase.ErrSaveInProgress)

	close(release)
	assert.NoError(t, <-done)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestLeadEditorSaveValidatesLocally(t *testing.T) {
	editor, _, repo := newEditor(t)

	_, err := editor.BeginByID("1")
	require.NoError(t, err)
	require.NoError(t, editor.SetField(usecase.FieldFullName, strPtr("   ")))

	_, err = editor.Save(context.Background())
	assert.True(t, usecase.IsValidationError(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadEditorSetField(t *testing.T) {
	editor, _, _ := newEditor(t)

	err := editor.SetField(usecase.FieldNotes, strPtr("x"))
	assert.ErrorIs(t, err, usecase.ErrNoLeadSelected)

	_, err = editor.BeginByID("2")
	require.NoError(t, err)

	assert.True(t, usecase.IsValidationError(editor.SetField("id", strPtr("99"))))
	assert.True(t, usecase.IsValidationError(editor.SetField("created_at", strPtr("2024-01-01"))))
	assert.True(t, usecase.IsValidationError(editor.SetField("telefone", strPtr("1"))))
	assert.True(t, usecase.IsValidationError(editor.SetField(usecase.FieldStatus, strPtr("Em Contato"))))
	assert.True(t, usecase.IsValidationError(editor.SetField(usecase.FieldEmail, nil)))

	require.NoError(t, editor.SetField(usecase.FieldStatus, nil))
	require.NoError(t, editor.SetField(usecase.FieldNotes, nil))
	require.NoError(t, editor.SetField(usecase.FieldPhone, strPtr("11 5555-4444")))

	working, err := editor.Working()
	require.NoError(t, err)
	assert.Equal(t, "2", working.ID)
	assert.Nil(t, working.Status)
	assert.Nil(t, working.Notes)
	assert.Equal(t, "11 5555-4444", *working.Phone)
}

func TestLeadEditorSetFieldsIsAllOrNothing(t *testing.T) {
	editor, _, _ := newEditor(t)
	original := sampleLeads()[0]
	editor.Begin(original)

	err := editor.SetFields(map[string]*string{
		usecase.FieldNotes:  strPtr("ligar amanhã"),
		usecase.FieldStatus: strPtr("Novo"),
	})

	var verr usecase.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, usecase.FieldStatus, verr.Field)
	working, err := editor.Working()
	require.NoError(t, err)
	assert.Equal(t, original, working)

	require.NoError(t, editor.SetFields(map[string]*string{
		usecase.FieldNotes:  strPtr("ligar amanhã"),
		usecase.FieldStatus: strPtr("Lost"),
	}))
	working, err = editor.Working()
	require.NoError(t, err)
	assert.Equal(t, "ligar amanhã", *working.Notes)
	assert.True(t, working.HasStatus(entity.StatusLost))
}

func TestLeadEditorSetFieldsWithoutSelection(t *testing.T) {
	editor, _, _ := newEditor(t)

	err := editor.SetFields(map[string]*string{usecase.FieldNotes: strPtr("x")})

	assert.ErrorIs(t, err, usecase.ErrNoLeadSelected)
}

func TestLeadEditorCancelDiscardsWorkingCopy(t *testing.T) {
	editor, store, _ := newEditor(t)

	_, err := editor.BeginByID("1")
	require.NoError(t, err)
	require.NoError(t, editor.SetField(usecase.FieldFullName, strPtr("Outro Nome")))
	editor.Cancel()

	_, err = editor.Working()
	assert.ErrorIs(t, err, usecase.ErrNoLeadSelected)

	got, _ := store.Get("1")
	assert.Equal(t, "João Silva", got.FullName)
}

func TestLeadEditorBeginByUnknownID(t *testing.T) {
	editor, _, _ := newEditor(t)

	_, err := editor.BeginByID("404")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadEditorWhatsAppWithoutPhone(t *testing.T) {
	editor, _, repo := newEditor(t)

	_, err := editor.BeginByID("2")
	require.NoError(t, err)

	url, err := editor.WhatsAppLink()
	var missing *usecase.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "phone", missing.Field)
	assert.Empty(t, url)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadEditorLinksUseWorkingCopy(t *testing.T) {
	editor, _, _ := newEditor(t)

	_, err := editor.BeginByID("1")
	require.NoError(t, err)
	require.NoError(t, editor.SetField(usecase.FieldPhone, strPtr("(21) 3333-2222")))

	url, err := editor.WhatsAppLink()
	require.NoError(t, err)
	assert.Contains(t, url, "phone=552133332222")

	mailto, err := editor.EmailLink()
	require.NoError(t, err)
	assert.Contains(t, mailto, "mailto:joao@x.com?")
}

func TestLeadEditorSaveAfterStoreClosed(t *testing.T) {
	editor, store, repo := newEditor(t)
	started := make(chan struct{})
	release := make(chan struct{})
	lead := sampleLeads()[0]
	repo.On("Update", mock.Anything, lead).Return(lead, nil).Once().Run(func(mock.Arguments) {
		close(started)
		<-release
	})

	editor.Begin(lead)

	done := make(chan error, 1)
	go func() {
		_, err := editor.Save(context.Background())
		done <- err
	}()
	<-started
	store.Close()
	close(release)

	assert.ErrorIs(t, <-done, usecase.ErrSessionEnded)
	assert.Empty(t, store.Leads())
}

func TestLeadEditorPublishesUpdate(t *testing.T) {
	store, repo := loadedStore(t, sampleLeads())
	publisher := new(MockLeadEventPublisher)
	editor := usecase.NewLeadEditor(repo, store, usecase.NewContactLinks("", ""), publisher, time.Second)

	lead := sampleLeads()[0]
	repo.On("Update", mock.Anything, lead).Return(lead, nil).Once()
	publisher.On("PublishLeadEvent", mock.Anything, usecase.LeadEventUpdated, lead).Return(errors.New("broker down")).Once()

	editor.Begin(lead)
	_, err := editor.Save(context.Background())

	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}
