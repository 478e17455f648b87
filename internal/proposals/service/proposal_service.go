// Package service implements the proposal use cases: create, decide
// (approve/reject) and the read surface. Every state change is announced on
// the event channel before the use case reports success.
package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
	"github.com/insurance-system/insurance-backend/internal/proposals/repository"
	"github.com/insurance-system/insurance-backend/internal/shared/events"
)

type ProposalService struct {
	repo      repository.ProposalStore
	publisher events.Publisher
}

func NewProposalService(repo repository.ProposalStore, publisher events.Publisher) *ProposalService {
	return &ProposalService{repo: repo, publisher: publisher}
}

type CreateProposalInput struct {
	CustomerName   string
	CustomerEmail  string
	InsuranceType  string
	CoverageAmount float64
	PremiumAmount  float64
}

func (s *ProposalService) Create(ctx context.Context, in CreateProposalInput) (*domain.Proposal, error) {
	p, err := domain.NewProposal(in.CustomerName, in.CustomerEmail, in.InsuranceType, in.CoverageAmount, in.PremiumAmount)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Add(ctx, p)
	if err != nil {
		return nil, err
	}

	err = s.publisher.Publish(ctx, events.ProposalCreated{
		ProposalID:     created.ID,
		CustomerName:   created.CustomerName,
		CustomerEmail:  created.CustomerEmail,
		InsuranceType:  created.InsuranceType,
		CoverageAmount: created.CoverageAmount,
		PremiumAmount:  created.PremiumAmount,
		Status:         created.Status.String(),
		CreatedAt:      created.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[info] operation=create_proposal proposal_id=%s status=%s", created.ID, created.Status)
	return created, nil
}

// UpdateStatus applies an approve or reject decision and announces it.
func (s *ProposalService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, rejectionReason string) (*domain.Proposal, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateStatus(status, rejectionReason); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	err = s.publisher.Publish(ctx, events.ProposalStatusUpdated{
		ProposalID:      updated.ID,
		Status:          updated.Status.String(),
		RejectionReason: updated.RejectionReason,
		UpdatedAt:       updated.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[info] operation=update_proposal_status proposal_id=%s status=%s", updated.ID, updated.Status)
	return updated, nil
}

func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProposalService) GetAll(ctx context.Context) ([]domain.Proposal, error) {
	return s.repo.GetAll(ctx)
}

func (s *ProposalService) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Proposal, error) {
	return s.repo.GetByStatus(ctx, status)
}
