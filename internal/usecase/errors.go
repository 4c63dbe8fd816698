package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("nenhuma sessão ativa")
	ErrNoLeadSelected   = errors.New("nenhum lead em edição")
	ErrSaveInProgress   = errors.New("já existe um salvamento em andamento")
	ErrStoreClosed      = errors.New("lista de leads encerrada")
	ErrSessionEnded     = errors.New("sessão encerrada durante a operação")
	ErrAuthInProgress   = errors.New("autenticação em andamento")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// AuthError encapsula a recusa do provedor. Error() é genérico; o detalhe fica em Err.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return "não foi possível autenticar: verifique seus dados e tente novamente"
}

func (e *AuthError) Unwrap() error { return e.Err }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("erro ao %s: tente novamente", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "não foi possível carregar os leads"
}

func (e *LoadError) Unwrap() error { return e.Err }

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("campo %s não informado", e.Field)
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	var single ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}
