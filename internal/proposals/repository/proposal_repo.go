package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

// ProposalStore is the persistence surface the proposal service depends on.
// ProposalRepository implements it against Postgres; CachedProposalRepository
// decorates any implementation with a cache-aside layer.
type ProposalStore interface {
	Add(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	GetAll(ctx context.Context) ([]domain.Proposal, error)
	GetByStatus(ctx context.Context, status domain.Status) ([]domain.Proposal, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProposalRepository provides persistence operations for proposals.
type ProposalRepository struct {
	db *pgxpool.Pool
}

func NewProposalRepository(db *pgxpool.Pool) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Add(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	const q = `
insert into proposals (id, customer_name, customer_email, insurance_type, coverage_amount, premium_amount, status, rejection_reason, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, nullif($8, ''), $9, $10);
`
	_, err := r.db.Exec(ctx, q,
		p.ID, p.CustomerName, p.CustomerEmail, p.InsuranceType,
		p.CoverageAmount, p.PremiumAmount, p.Status.String(), p.RejectionReason,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "proposals.add", Err: err}
	}

	return p, nil
}

func (r *ProposalRepository) Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	const q = `
update proposals
set customer_name = $2, customer_email = $3, insurance_type = $4,
    coverage_amount = $5, premium_amount = $6, status = $7,
    rejection_reason = nullif($8, ''), updated_at = $9
where id = $1;
`
	tag, err := r.db.Exec(ctx, q,
		p.ID, p.CustomerName, p.CustomerEmail, p.InsuranceType,
		p.CoverageAmount, p.PremiumAmount, p.Status.String(), p.RejectionReason,
		p.UpdatedAt)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "proposals.update", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return nil, &apperr.NotFoundError{Resource: "proposal", ID: p.ID.String()}
	}

	return p, nil
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	const q = `
select id, customer_name, customer_email, insurance_type, coverage_amount, premium_amount, status, coalesce(rejection_reason, ''), created_at, updated_at
from proposals
where id = $1;
`
	p, err := scanProposal(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "proposal", ID: id.String()}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "proposals.get_by_id", Err: err}
	}

	return p, nil
}

func (r *ProposalRepository) GetAll(ctx context.Context) ([]domain.Proposal, error) {
	const q = `
select id, customer_name, customer_email, insurance_type, coverage_amount, premium_amount, status, coalesce(rejection_reason, ''), created_at, updated_at
from proposals
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "proposals.get_all", Err: err}
	}
	defer rows.Close()

	return collectProposals(rows)
}

func (r *ProposalRepository) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Proposal, error) {
	const q = `
select id, customer_name, customer_email, insurance_type, coverage_amount, premium_amount, status, coalesce(rejection_reason, ''), created_at, updated_at
from proposals
where status = $1
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, status.String())
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "proposals.get_by_status", Err: err}
	}
	defer rows.Close()

	return collectProposals(rows)
}

func (r *ProposalRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `select exists (select 1 from proposals where id = $1);`

	var exists bool
	if err := r.db.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, &apperr.PersistenceError{Op: "proposals.exists", Err: err}
	}

	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*domain.Proposal, error) {
	var (
		p      domain.Proposal
		status string
	)
	err := row.Scan(&p.ID, &p.CustomerName, &p.CustomerEmail, &p.InsuranceType,
		&p.CoverageAmount, &p.PremiumAmount, &status, &p.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Status = domain.ParseStatus(status)
	return &p, nil
}

func collectProposals(rows pgx.Rows) ([]domain.Proposal, error) {
	proposals := []domain.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, &apperr.PersistenceError{Op: "proposals.scan", Err: err}
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.PersistenceError{Op: "proposals.rows", Err: err}
	}

	return proposals, nil
}
