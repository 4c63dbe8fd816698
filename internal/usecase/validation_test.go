package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

func TestValidateSignupInput(t *testing.T) {
	valid := usecase.SignupInput{FullName: "Ana", Email: "ana@x.com", Password: "123456", ConfirmPassword: "123456"}

	tests := []struct {
		name    string
		mutate  func(in *usecase.SignupInput)
		field   string
		message string
	}{
		{"válido", func(*usecase.SignupInput) {}, "", ""},
		{"email vazio", func(in *usecase.SignupInput) { in.Email = "" }, "email", "is required"},
		{"senhas diferentes", func(in *usecase.SignupInput) { in.ConfirmPassword = "1234567" }, "confirm_password", "does not match password"},
		{"senha curta", func(in *usecase.SignupInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, "password", "must have at least 6 characters"},
		{"email inválido", func(in *usecase.SignupInput) { in.Email = "ana-sem-arroba" }, "email", "is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			errs := usecase.ValidateSignupInput(in)
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestValidateSignupInputMismatchBeforeLength(t *testing.T) {
	errs := usecase.ValidateSignupInput(usecase.SignupInput{
		FullName: "Ana", Email: "ana@x.com", Password: "abc", ConfirmPassword: "xyz",
	})

	require.Len(t, errs, 1)
	assert.Equal(t, "confirm_password", errs[0].Field)
}

func TestValidateSignupInputReportsEveryEmptyField(t *testing.T) {
	errs := usecase.ValidateSignupInput(usecase.SignupInput{})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"full_name", "email", "password", "confirm_password"}, fields)
}

func TestValidateCreateLeadInput(t *testing.T) {
	errs := usecase.ValidateCreateLeadInput(usecase.CreateLeadInput{FullName: "Ana", Email: "ana@x.com"})
	assert.Empty(t, errs)

	errs = usecase.ValidateCreateLeadInput(usecase.CreateLeadInput{FullName: "  ", Email: "nao-e-email"})
	require.Len(t, errs, 2)
	assert.Equal(t, usecase.ValidationError{Field: "full_name", Message: "is required"}, errs[0])
	assert.Equal(t, usecase.ValidationError{Field: "email", Message: "is invalid"}, errs[1])

	errs = usecase.ValidateCreateLeadInput(usecase.CreateLeadInput{FullName: "Ana", Email: "ana@x.com", Status: strPtr("Novo")})
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
	assert.Equal(t, "must be one of New, InContact, Converted, Lost", errs[0].Message)
}

func TestValidateLead(t *testing.T) {
	assert.Empty(t, usecase.ValidateLead(sampleLeads()[0]))

	unknown := entity.LeadStatus("Arquivado")
	errs := usecase.ValidateLead(entity.Lead{ID: "1", Status: &unknown})
	require.Len(t, errs, 3)
	assert.Equal(t, "full_name", errs[0].Field)
	assert.Equal(t, "email", errs[1].Field)
	assert.Equal(t, "status", errs[2].Field)
}

func TestValidationErrorsMessage(t *testing.T) {
	err := usecase.ValidationErrors{
		{Field: "email", Message: "is required"},
		{Field: "password", Message: "is required"},
	}

	assert.EqualError(t, err, "email: is required; password: is required")
	assert.True(t, usecase.IsValidationError(err))
	assert.False(t, usecase.IsValidationError(usecase.ErrNotAuthenticated))
}
