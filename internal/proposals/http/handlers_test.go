package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
	"github.com/insurance-system/insurance-backend/internal/proposals/service"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
	"github.com/insurance-system/insurance-backend/internal/shared/events"
)

type stubStore struct {
	proposals map[uuid.UUID]*domain.Proposal
}

func (s *stubStore) Add(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	s.proposals[p.ID] = p
	return p, nil
}

func (s *stubStore) Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	s.proposals[p.ID] = p
	return p, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	p, ok := s.proposals[id]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "proposal", ID: id.String()}
	}
	return p, nil
}

func (s *stubStore) GetAll(ctx context.Context) ([]domain.Proposal, error) {
	list := []domain.Proposal{}
	for _, p := range s.proposals {
		list = append(list, *p)
	}
	return list, nil
}

func (s *stubStore) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Proposal, error) {
	return nil, nil
}

func (s *stubStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.proposals[id]
	return ok, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, e events.Event) error { return nil }

func setupRouter() (*gin.Engine, *stubStore) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{proposals: map[uuid.UUID]*domain.Proposal{}}
	svc := service.NewProposalService(store, noopPublisher{})
	handler := NewHandler(svc)

	router := gin.New()
	handler.Register(router.Group("/api/proposals"))
	return router, store
}

func TestCreateProposalEndpoint(t *testing.T) {
	router, _ := setupRouter()

	body := `{"customerName":"Ana","customerEmail":"ana@x.com","insuranceType":"Auto Insurance","coverageAmount":50000,"premiumAmount":1200}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/proposals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var p domain.Proposal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, domain.StatusUnderReview, p.Status)
	assert.Equal(t, "Ana", p.CustomerName)
}

func TestCreateProposalEndpoint_ValidationFailure(t *testing.T) {
	router, _ := setupRouter()

	body := `{"customerName":"Ana","customerEmail":"nope","insuranceType":"Auto Insurance","coverageAmount":50000,"premiumAmount":1200}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/proposals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "customerEmail")
}

func TestUpdateStatusEndpoint_InvalidTransition(t *testing.T) {
	router, store := setupRouter()

	p, err := domain.NewProposal("Ana", "ana@x.com", "Auto Insurance", 50000, 1200)
	require.NoError(t, err)
	require.NoError(t, p.Approve())
	store.proposals[p.ID] = p

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/proposals/"+p.ID.String()+"/status",
		strings.NewReader(`{"status":"Rejected","rejectionReason":"late"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Approved")
}

func TestGetProposalEndpoint_NotFound(t *testing.T) {
	router, _ := setupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/proposals/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
