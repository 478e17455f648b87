// Package service implements contract issuance: the single write path that
// turns an approved proposal into a contract, plus the read surface.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/contracts/domain"
	"github.com/insurance-system/insurance-backend/internal/contracts/repository"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
	"github.com/insurance-system/insurance-backend/internal/shared/events"
)

// numberRetries bounds regeneration when a generated contract number
// collides with an existing one.
const numberRetries = 5

type ContractService struct {
	contracts repository.ContractStore
	proposals ProposalAPI
	numbers   *domain.NumberGenerator
	publisher events.Publisher
}

func NewContractService(contracts repository.ContractStore, proposals ProposalAPI, numbers *domain.NumberGenerator, publisher events.Publisher) *ContractService {
	return &ContractService{
		contracts: contracts,
		proposals: proposals,
		numbers:   numbers,
		publisher: publisher,
	}
}

// IssueContract turns an approved proposal into exactly one contract.
//
// The existing-contract lookup is an optimization; the unique index on
// proposal_id is what actually decides races. Two concurrent calls for the
// same proposal produce one contract and one ConflictError.
func (s *ContractService) IssueContract(ctx context.Context, proposalID uuid.UUID) (*domain.Contract, error) {
	proposal, err := s.proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if proposal.Status != "Approved" {
		return nil, &apperr.InvalidStateError{
			Msg: "cannot contract proposal, current status: " + proposal.Status,
		}
	}

	_, err = s.contracts.GetByProposalID(ctx, proposalID)
	if err == nil {
		return nil, &apperr.ConflictError{Msg: "contract already exists for this proposal"}
	}
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	created, err := s.insertWithFreshNumber(ctx, proposalID, proposal.PremiumAmount)
	if err != nil {
		return nil, err
	}

	err = s.publisher.Publish(ctx, events.ContractCreated{
		ContractID:     created.ID,
		ProposalID:     created.ProposalID,
		ContractNumber: created.ContractNumber,
		PremiumAmount:  created.PremiumAmount,
		ContractDate:   created.ContractDate,
		CreatedAt:      created.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[info] operation=issue_contract contract_id=%s proposal_id=%s number=%s",
		created.ID, created.ProposalID, created.ContractNumber)
	return created, nil
}

// insertWithFreshNumber retries only on a contract-number collision. A
// duplicate proposal id surfaces immediately as ConflictError.
func (s *ContractService) insertWithFreshNumber(ctx context.Context, proposalID uuid.UUID, premium float64) (*domain.Contract, error) {
	for i := 0; i < numberRetries; i++ {
		number := s.numbers.Generate(time.Now().UTC())

		contract, err := domain.NewContract(proposalID, number, premium)
		if err != nil {
			return nil, err
		}

		created, err := s.contracts.Add(ctx, contract)
		if err == nil {
			return created, nil
		}
		if errors.Is(err, repository.ErrNumberTaken) {
			log.Printf("[warn] operation=issue_contract proposal_id=%s number=%s err=number taken, regenerating", proposalID, number)
			continue
		}
		return nil, err
	}

	return nil, &apperr.PersistenceError{
		Op:  "contracts.add",
		Err: errors.New("exhausted contract number attempts"),
	}
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return s.contracts.GetByID(ctx, id)
}

func (s *ContractService) GetByProposalID(ctx context.Context, proposalID uuid.UUID) (*domain.Contract, error) {
	return s.contracts.GetByProposalID(ctx, proposalID)
}

func (s *ContractService) GetAll(ctx context.Context) ([]domain.Contract, error) {
	return s.contracts.GetAll(ctx)
}
