package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

const MinPasswordLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateLoginInput só confere presença; credenciais erradas são problema do provedor.
func ValidateLoginInput(input LoginInput) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	}
	if input.Password == "" {
		errs = append(errs, ValidationError{"password", "is required"})
	}
	return errs
}

// ValidateSignupInput segue a ordem do formulário: campos vazios, senhas diferentes, senha curta.
// A primeira etapa que falhar encerra a validação.
func ValidateSignupInput(input SignupInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.FullName) == "" {
		errs = append(errs, ValidationError{"full_name", "is required"})
	}
	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	}
	if input.Password == "" {
		errs = append(errs, ValidationError{"password", "is required"})
	}
	if input.ConfirmPassword == "" {
		errs = append(errs, ValidationError{"confirm_password", "is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	if input.Password != input.ConfirmPassword {
		return []ValidationError{{"confirm_password", "does not match password"}}
	}

	if len(input.Password) < MinPasswordLength {
		return []ValidationError{{"password", "must have at least 6 characters"}}
	}

	if err := validate.Var(input.Email, "email"); err != nil {
		return []ValidationError{{"email", "is invalid"}}
	}

	return nil
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	return translate(validate.Struct(input))
}

// ValidateLead confere a cópia de trabalho antes de enviá-la ao backend.
func ValidateLead(lead entity.Lead) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(lead.FullName) == "" {
		errs = append(errs, ValidationError{"full_name", "is required"})
	}
	if strings.TrimSpace(lead.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	}
	if lead.Status != nil {
		if _, ok := entity.ParseLeadStatus(string(*lead.Status)); !ok {
			errs = append(errs, ValidationError{"status", "must be one of New, InContact, Converted, Lost"})
		}
	}
	return errs
}

func translate(err error) []ValidationError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{"input", err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
