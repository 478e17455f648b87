package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

func validProposal(t *testing.T) *Proposal {
	t.Helper()
	p, err := NewProposal("Ana", "ana@x.com", "Auto Insurance", 50000, 1200)
	require.NoError(t, err)
	return p
}

func TestNewProposal_StartsUnderReview(t *testing.T) {
	p := validProposal(t)

	assert.Equal(t, StatusUnderReview, p.Status)
	assert.NotZero(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.False(t, p.CanBeContracted())
}

func TestNewProposal_NamesFirstFailingField(t *testing.T) {
	cases := []struct {
		name     string
		customer string
		email    string
		insType  string
		coverage float64
		premium  float64
		field    string
	}{
		{"empty name", "", "ana@x.com", "Auto Insurance", 50000, 1200, "customerName"},
		{"empty email", "Ana", "  ", "Auto Insurance", 50000, 1200, "customerEmail"},
		{"malformed email", "Ana", "not-an-email", "Auto Insurance", 50000, 1200, "customerEmail"},
		{"empty type", "Ana", "ana@x.com", "", 50000, 1200, "insuranceType"},
		{"zero coverage", "Ana", "ana@x.com", "Auto Insurance", 0, 1200, "coverageAmount"},
		{"negative premium", "Ana", "ana@x.com", "Auto Insurance", 50000, -1, "premiumAmount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProposal(tc.customer, tc.email, tc.insType, tc.coverage, tc.premium)
			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestProposal_Approve(t *testing.T) {
	p := validProposal(t)

	require.NoError(t, p.Approve())
	assert.Equal(t, StatusApproved, p.Status)
	assert.True(t, p.CanBeContracted())
	assert.True(t, p.UpdatedAt.After(p.CreatedAt) || p.UpdatedAt.Equal(p.CreatedAt))

	// Approved is terminal.
	err := p.Approve()
	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Msg, "Approved")
}

func TestProposal_Reject(t *testing.T) {
	p := validProposal(t)

	require.NoError(t, p.Reject("insufficient documentation"))
	assert.Equal(t, StatusRejected, p.Status)
	assert.Equal(t, "insufficient documentation", p.RejectionReason)
	assert.False(t, p.CanBeContracted())

	// Rejected is terminal for both decisions.
	var serr *apperr.InvalidStateError
	assert.ErrorAs(t, p.Reject("again"), &serr)
	assert.ErrorAs(t, p.Approve(), &serr)
}

func TestProposal_RejectRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		p := validProposal(t)
		err := p.Reject(reason)

		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "rejectionReason", verr.Field)
		assert.Equal(t, StatusUnderReview, p.Status)
	}
}

func TestProposal_UpdateStatusDispatch(t *testing.T) {
	p := validProposal(t)
	require.NoError(t, p.UpdateStatus(StatusApproved, ""))
	assert.Equal(t, StatusApproved, p.Status)

	p = validProposal(t)
	require.NoError(t, p.UpdateStatus(StatusRejected, "too risky"))
	assert.Equal(t, StatusRejected, p.Status)

	p = validProposal(t)
	var verr *apperr.ValidationError
	assert.ErrorAs(t, p.UpdateStatus(StatusUnknown, ""), &verr)
}

func TestStatus_UnmarshalAcceptsStringAndLegacyInt(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{`"UnderReview"`, StatusUnderReview},
		{`"Approved"`, StatusApproved},
		{`"Rejected"`, StatusRejected},
		{`"SomethingElse"`, StatusUnknown},
		{`0`, StatusUnderReview},
		{`1`, StatusApproved},
		{`2`, StatusRejected},
		{`7`, StatusUnknown},
	}

	for _, tc := range cases {
		var got Status
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &got), tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
