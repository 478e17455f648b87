// Package events carries the integration events exchanged between the
// proposal and contract services and their downstream consumers. Delivery is
// at-least-once; consumers handle duplicates idempotently.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is one of the integration event kinds below.
type Event interface {
	Kind() string
}

// Publisher hands an event to the transport. Publishing is part of the
// triggering use case's success path: an error here fails the use case.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// ProposalCreated announces a new proposal entering review.
type ProposalCreated struct {
	ProposalID     uuid.UUID `json:"proposalId"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	InsuranceType  string    `json:"insuranceType"`
	CoverageAmount float64   `json:"coverageAmount"`
	PremiumAmount  float64   `json:"premiumAmount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (ProposalCreated) Kind() string { return "proposal.created" }

// ProposalStatusUpdated announces an approve or reject decision.
type ProposalStatusUpdated struct {
	ProposalID      uuid.UUID `json:"proposalId"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (ProposalStatusUpdated) Kind() string { return "proposal.status-updated" }

// ContractCreated announces a freshly issued contract.
type ContractCreated struct {
	ContractID     uuid.UUID `json:"contractId"`
	ProposalID     uuid.UUID `json:"proposalId"`
	ContractNumber string    `json:"contractNumber"`
	PremiumAmount  float64   `json:"premiumAmount"`
	ContractDate   time.Time `json:"contractDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (ContractCreated) Kind() string { return "contract.created" }
