package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/insurance-system/insurance-backend/internal/contracts/domain"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

// Constraint names from migrations/contracts/001_create_contracts.sql.
const (
	proposalUniqueConstraint = "contracts_proposal_id_key"
	numberUniqueConstraint   = "contracts_contract_number_key"
)

// ErrNumberTaken reports a collision on the generated contract number. The
// caller regenerates and retries; it is not a duplicate-proposal conflict.
var ErrNumberTaken = errors.New("contract number already taken")

// ContractStore is the persistence surface the contract service depends on.
type ContractStore interface {
	Add(ctx context.Context, c *domain.Contract) (*domain.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	GetByProposalID(ctx context.Context, proposalID uuid.UUID) (*domain.Contract, error)
	GetAll(ctx context.Context) ([]domain.Contract, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ContractRepository provides persistence operations for contracts. The
// unique index on proposal_id is what actually enforces the one-contract-
// per-proposal invariant under concurrency.
type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Add(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	const q = `
INSERT INTO contracts (id, proposal_id, contract_number, premium_amount, contract_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.ProposalID, c.ContractNumber, c.PremiumAmount, c.ContractDate, c.CreatedAt)
	if err == nil {
		return c, nil
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.Constraint {
		case proposalUniqueConstraint:
			return nil, &apperr.ConflictError{Msg: "contract already exists for this proposal"}
		case numberUniqueConstraint:
			return nil, ErrNumberTaken
		}
		// Unknown unique index; treat as a duplicate to stay safe.
		return nil, &apperr.ConflictError{Msg: "contract already exists for this proposal"}
	}

	return nil, &apperr.PersistenceError{Op: "contracts.add", Err: err}
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	const q = `
SELECT id, proposal_id, contract_number, premium_amount, contract_date, created_at
FROM contracts
WHERE id = $1;
`
	c, err := scanContract(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "contract", ID: id.String()}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "contracts.get_by_id", Err: err}
	}

	return c, nil
}

func (r *ContractRepository) GetByProposalID(ctx context.Context, proposalID uuid.UUID) (*domain.Contract, error) {
	const q = `
SELECT id, proposal_id, contract_number, premium_amount, contract_date, created_at
FROM contracts
WHERE proposal_id = $1;
`
	c, err := scanContract(r.db.QueryRowContext(ctx, q, proposalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "contract", ID: proposalID.String()}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "contracts.get_by_proposal_id", Err: err}
	}

	return c, nil
}

func (r *ContractRepository) GetAll(ctx context.Context) ([]domain.Contract, error) {
	const q = `
SELECT id, proposal_id, contract_number, premium_amount, contract_date, created_at
FROM contracts
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "contracts.get_all", Err: err}
	}
	defer rows.Close()

	contracts := []domain.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, &apperr.PersistenceError{Op: "contracts.scan", Err: err}
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.PersistenceError{Op: "contracts.rows", Err: err}
	}

	return contracts, nil
}

func (r *ContractRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM contracts WHERE id = $1);`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, &apperr.PersistenceError{Op: "contracts.exists", Err: err}
	}

	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*domain.Contract, error) {
	var c domain.Contract
	err := row.Scan(&c.ID, &c.ProposalID, &c.ContractNumber, &c.PremiumAmount, &c.ContractDate, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
