package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
	"github.com/insurance-system/insurance-backend/internal/shared/events"
)

type memStore struct {
	proposals map[uuid.UUID]*domain.Proposal
}

func newMemStore() *memStore {
	return &memStore{proposals: map[uuid.UUID]*domain.Proposal{}}
}

func (m *memStore) Add(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	cp := *p
	m.proposals[p.ID] = &cp
	return p, nil
}

func (m *memStore) Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	if _, ok := m.proposals[p.ID]; !ok {
		return nil, &apperr.NotFoundError{Resource: "proposal", ID: p.ID.String()}
	}
	cp := *p
	m.proposals[p.ID] = &cp
	return p, nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "proposal", ID: id.String()}
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetAll(ctx context.Context) ([]domain.Proposal, error) {
	list := []domain.Proposal{}
	for _, p := range m.proposals {
		list = append(list, *p)
	}
	return list, nil
}

func (m *memStore) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Proposal, error) {
	list := []domain.Proposal{}
	for _, p := range m.proposals {
		if p.Status == status {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (m *memStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.proposals[id]
	return ok, nil
}

type capturingPublisher struct {
	published []events.Event
	err       error
}

func (c *capturingPublisher) Publish(ctx context.Context, e events.Event) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, e)
	return nil
}

func validInput() CreateProposalInput {
	return CreateProposalInput{
		CustomerName:   "Ana",
		CustomerEmail:  "ana@x.com",
		InsuranceType:  "Auto Insurance",
		CoverageAmount: 50000,
		PremiumAmount:  1200,
	}
}

func TestProposalService_CreatePublishesEvent(t *testing.T) {
	store := newMemStore()
	pub := &capturingPublisher{}
	svc := NewProposalService(store, pub)

	p, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, p.Status)

	require.Len(t, pub.published, 1)
	created, ok := pub.published[0].(events.ProposalCreated)
	require.True(t, ok)
	assert.Equal(t, p.ID, created.ProposalID)
	assert.Equal(t, "UnderReview", created.Status)
	assert.Equal(t, 1200.0, created.PremiumAmount)
}

func TestProposalService_CreateRejectsBadInput(t *testing.T) {
	store := newMemStore()
	pub := &capturingPublisher{}
	svc := NewProposalService(store, pub)

	in := validInput()
	in.CustomerEmail = "nope"
	_, err := svc.Create(context.Background(), in)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, pub.published)
	assert.Empty(t, store.proposals)
}

func TestProposalService_CreatePublishFailurePropagates(t *testing.T) {
	store := newMemStore()
	pub := &capturingPublisher{err: errors.New("transport down")}
	svc := NewProposalService(store, pub)

	_, err := svc.Create(context.Background(), validInput())
	assert.ErrorContains(t, err, "transport down")
}

func TestProposalService_ApprovePublishesStatusUpdate(t *testing.T) {
	store := newMemStore()
	pub := &capturingPublisher{}
	svc := NewProposalService(store, pub)

	p, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), p.ID, domain.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)

	require.Len(t, pub.published, 2)
	statusEvent, ok := pub.published[1].(events.ProposalStatusUpdated)
	require.True(t, ok)
	assert.Equal(t, "Approved", statusEvent.Status)
	assert.Empty(t, statusEvent.RejectionReason)
}

func TestProposalService_RejectCarriesReason(t *testing.T) {
	store := newMemStore()
	pub := &capturingPublisher{}
	svc := NewProposalService(store, pub)

	p, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), p.ID, domain.StatusRejected, "too risky")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)

	statusEvent := pub.published[1].(events.ProposalStatusUpdated)
	assert.Equal(t, "too risky", statusEvent.RejectionReason)
}

func TestProposalService_SecondDecisionFails(t *testing.T) {
	store := newMemStore()
	pub := &capturingPublisher{}
	svc := NewProposalService(store, pub)

	p, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), p.ID, domain.StatusApproved, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), p.ID, domain.StatusRejected, "changed my mind")
	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)

	// No event for the failed decision.
	assert.Len(t, pub.published, 2)
}

func TestProposalService_UpdateStatusUnknownProposal(t *testing.T) {
	svc := NewProposalService(newMemStore(), &capturingPublisher{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.StatusApproved, "")
	var nferr *apperr.NotFoundError
	assert.ErrorAs(t, err, &nferr)
}
