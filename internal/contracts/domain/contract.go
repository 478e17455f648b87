// Package domain holds the Contract aggregate. A contract is created exactly
// once from an approved proposal and never mutated afterwards.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

type Contract struct {
	ID             uuid.UUID `json:"id"`
	ProposalID     uuid.UUID `json:"proposalId"`
	ContractNumber string    `json:"contractNumber"`
	PremiumAmount  float64   `json:"premiumAmount"`
	ContractDate   time.Time `json:"contractDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewContract builds a contract for the given proposal. The premium is the
// snapshot value read from the proposal at issuance time.
func NewContract(proposalID uuid.UUID, contractNumber string, premiumAmount float64) (*Contract, error) {
	if proposalID == uuid.Nil {
		return nil, &apperr.ValidationError{Field: "proposalId", Reason: "must not be empty"}
	}
	if strings.TrimSpace(contractNumber) == "" {
		return nil, &apperr.ValidationError{Field: "contractNumber", Reason: "must not be empty"}
	}
	if premiumAmount <= 0 {
		return nil, &apperr.ValidationError{Field: "premiumAmount", Reason: "must be greater than zero"}
	}

	now := time.Now().UTC()
	return &Contract{
		ID:             uuid.New(),
		ProposalID:     proposalID,
		ContractNumber: contractNumber,
		PremiumAmount:  premiumAmount,
		ContractDate:   now,
		CreatedAt:      now,
	}, nil
}
