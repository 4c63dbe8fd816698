package usecase

import "github.com/GabrielASF2/blue-lead-manager/internal/entity"

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

type SignupOutput struct {
	ConfirmationRequired bool            `json:"confirmation_required"`
	Session              *entity.Session `json:"session,omitempty"`
}

type CreateLeadInput struct {
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=New InContact Converted Lost"`
	Notes    *string `json:"notes,omitempty"`
	NextStep *string `json:"next_step,omitempty"`
}
