// Package domain holds the Proposal aggregate. All state transitions go
// through the methods here; repositories only move validated entities in and
// out of storage.
package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

type Proposal struct {
	ID              uuid.UUID `json:"id"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	InsuranceType   string    `json:"insuranceType"`
	CoverageAmount  float64   `json:"coverageAmount"`
	PremiumAmount   float64   `json:"premiumAmount"`
	Status          Status    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewProposal validates all five fields and returns a proposal in
// UnderReview. The returned error names the first failing field.
func NewProposal(customerName, customerEmail, insuranceType string, coverageAmount, premiumAmount float64) (*Proposal, error) {
	if err := validateDetails(customerName, customerEmail, insuranceType, coverageAmount, premiumAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Proposal{
		ID:             uuid.New(),
		CustomerName:   strings.TrimSpace(customerName),
		CustomerEmail:  strings.TrimSpace(customerEmail),
		InsuranceType:  strings.TrimSpace(insuranceType),
		CoverageAmount: coverageAmount,
		PremiumAmount:  premiumAmount,
		Status:         StatusUnderReview,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func validateDetails(customerName, customerEmail, insuranceType string, coverageAmount, premiumAmount float64) error {
	if strings.TrimSpace(customerName) == "" {
		return &apperr.ValidationError{Field: "customerName", Reason: "must not be empty"}
	}
	if strings.TrimSpace(customerEmail) == "" {
		return &apperr.ValidationError{Field: "customerEmail", Reason: "must not be empty"}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(customerEmail)); err != nil {
		return &apperr.ValidationError{Field: "customerEmail", Reason: "must be a valid email address"}
	}
	if strings.TrimSpace(insuranceType) == "" {
		return &apperr.ValidationError{Field: "insuranceType", Reason: "must not be empty"}
	}
	if coverageAmount <= 0 {
		return &apperr.ValidationError{Field: "coverageAmount", Reason: "must be greater than zero"}
	}
	if premiumAmount <= 0 {
		return &apperr.ValidationError{Field: "premiumAmount", Reason: "must be greater than zero"}
	}
	return nil
}

// Approve transitions UnderReview -> Approved. Approved and Rejected are
// terminal: a second decision fails, it never silently succeeds.
func (p *Proposal) Approve() error {
	if p.Status != StatusUnderReview {
		return &apperr.InvalidStateError{
			Msg: "cannot approve proposal, current status: " + p.Status.String(),
		}
	}

	p.Status = StatusApproved
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject transitions UnderReview -> Rejected and records the reason.
func (p *Proposal) Reject(reason string) error {
	if p.Status != StatusUnderReview {
		return &apperr.InvalidStateError{
			Msg: "cannot reject proposal, current status: " + p.Status.String(),
		}
	}
	if strings.TrimSpace(reason) == "" {
		return &apperr.ValidationError{Field: "rejectionReason", Reason: "must not be empty"}
	}

	p.Status = StatusRejected
	p.RejectionReason = strings.TrimSpace(reason)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus dispatches a decision coming off the wire.
func (p *Proposal) UpdateStatus(status Status, rejectionReason string) error {
	switch status {
	case StatusApproved:
		return p.Approve()
	case StatusRejected:
		return p.Reject(rejectionReason)
	default:
		return &apperr.ValidationError{Field: "status", Reason: "must be Approved or Rejected"}
	}
}

// UpdateDetails revalidates and replaces the customer-facing fields.
func (p *Proposal) UpdateDetails(customerName, customerEmail, insuranceType string, coverageAmount, premiumAmount float64) error {
	if err := validateDetails(customerName, customerEmail, insuranceType, coverageAmount, premiumAmount); err != nil {
		return err
	}

	p.CustomerName = strings.TrimSpace(customerName)
	p.CustomerEmail = strings.TrimSpace(customerEmail)
	p.InsuranceType = strings.TrimSpace(insuranceType)
	p.CoverageAmount = coverageAmount
	p.PremiumAmount = premiumAmount
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// CanBeContracted reports whether a contract may be issued from this
// proposal.
func (p *Proposal) CanBeContracted() bool {
	return p.Status == StatusApproved
}
