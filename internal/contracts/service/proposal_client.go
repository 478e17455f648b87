package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
	"github.com/insurance-system/insurance-backend/internal/shared/httpclient"
)

// ProposalSnapshot is the read-only view of a proposal fetched from the
// owning service at issuance time. It carries identity plus a point-in-time
// copy of the fields the orchestrator needs; it is never cached as a live
// reference.
type ProposalSnapshot struct {
	ID             uuid.UUID
	CustomerName   string
	CustomerEmail  string
	InsuranceType  string
	CoverageAmount float64
	PremiumAmount  float64
	Status         string
}

// ProposalAPI is the contract service's view of the proposal service.
type ProposalAPI interface {
	GetProposal(ctx context.Context, id uuid.UUID) (*ProposalSnapshot, error)
}

// ProposalClient fetches proposals across the service boundary through the
// resilient HTTP client.
type ProposalClient struct {
	client  *httpclient.Client
	baseURL string
}

func NewProposalClient(client *httpclient.Client, baseURL string) *ProposalClient {
	return &ProposalClient{client: client, baseURL: baseURL}
}

// proposalPayload mirrors the peer wire format; status stays raw so both the
// string and the legacy integer encodings decode.
type proposalPayload struct {
	ID             uuid.UUID       `json:"id"`
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail"`
	InsuranceType  string          `json:"insuranceType"`
	CoverageAmount float64         `json:"coverageAmount"`
	PremiumAmount  float64         `json:"premiumAmount"`
	Status         json.RawMessage `json:"status"`
}

func (c *ProposalClient) GetProposal(ctx context.Context, id uuid.UUID) (*ProposalSnapshot, error) {
	url := fmt.Sprintf("%s/api/proposals/%s", c.baseURL, id)

	resp, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &apperr.NotFoundError{Resource: "proposal", ID: id.String()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proposal service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read proposal response: %w", err)
	}

	var payload proposalPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode proposal response: %w", err)
	}

	return &ProposalSnapshot{
		ID:             payload.ID,
		CustomerName:   payload.CustomerName,
		CustomerEmail:  payload.CustomerEmail,
		InsuranceType:  payload.InsuranceType,
		CoverageAmount: payload.CoverageAmount,
		PremiumAmount:  payload.PremiumAmount,
		Status:         decodeStatus(payload.Status),
	}, nil
}

// decodeStatus accepts the status as a string name or as the legacy numeric
// encoding (0/1/2). Anything else maps to "Unknown" rather than inventing a
// meaning.
func decodeStatus(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}

	var legacy int
	if err := json.Unmarshal(raw, &legacy); err == nil {
		switch legacy {
		case 0:
			return "UnderReview"
		case 1:
			return "Approved"
		case 2:
			return "Rejected"
		}
	}

	return "Unknown"
}
