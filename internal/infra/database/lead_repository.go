package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

const uniqueViolation = "23505"

const leadColumns = `id, nome_completo, email, telefone, status, observacoes, proximo_passo, created_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Insert(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	query := `
		INSERT INTO leads (nome_completo, email, telefone, status, observacoes, proximo_passo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + leadColumns

	row := r.DB.QueryRowContext(ctx, query,
		lead.FullName,
		lead.Email,
		lead.Phone,
		statusLabel(lead.Status),
		lead.Notes,
		lead.NextStep,
	)

	created, err := scanLead(row)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.Lead{}, fmt.Errorf("%w: %v", entity.ErrDuplicateLead, err)
		}
		return entity.Lead{}, fmt.Errorf("erro ao inserir lead: %w", err)
	}
	return created, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	query := `
		UPDATE leads SET
			nome_completo = $2,
			email = $3,
			telefone = $4,
			status = $5,
			observacoes = $6,
			proximo_passo = $7
		WHERE id = $1
		RETURNING ` + leadColumns

	row := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.FullName,
		lead.Email,
		lead.Phone,
		statusLabel(lead.Status),
		lead.Notes,
		lead.NextStep,
	)

	updated, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Lead{}, entity.ErrLeadNotFound
	}
	if err != nil {
		return entity.Lead{}, fmt.Errorf("erro ao atualizar lead: %w", err)
	}
	return updated, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (entity.Lead, error) {
	var (
		lead      entity.Lead
		phone     sql.NullString
		status    sql.NullString
		notes     sql.NullString
		nextStep  sql.NullString
		createdAt sql.NullTime
	)

	err := s.Scan(&lead.ID, &lead.FullName, &lead.Email, &phone, &status, &notes, &nextStep, &createdAt)
	if err != nil {
		return entity.Lead{}, err
	}

	lead.Phone = fromNull(phone)
	lead.Notes = fromNull(notes)
	lead.NextStep = fromNull(nextStep)
	if status.Valid {
		lead.Status = entity.StatusFromLabel(status.String)
	}
	if createdAt.Valid {
		t := createdAt.Time
		lead.CreatedAt = &t
	}
	return lead, nil
}

func statusLabel(st *entity.LeadStatus) *string {
	if st == nil {
		return nil
	}
	label := st.Label()
	return &label
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isUniqueViolation reconhece o erro nos dois drivers suportados.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
