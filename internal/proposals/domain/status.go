package domain

import (
	"encoding/json"
	"fmt"
)

// Status tracks a proposal through its three lifecycle states. Approved and
// Rejected are terminal.
type Status string

const (
	StatusUnderReview Status = "UnderReview"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
	// StatusUnknown is the sentinel for values outside the wire contract.
	StatusUnknown Status = "Unknown"
)

// ParseStatus maps a wire string onto a known status, or Unknown.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusUnderReview, StatusApproved, StatusRejected:
		return Status(s)
	default:
		return StatusUnknown
	}
}

// statusFromLegacy maps the legacy numeric wire format.
func statusFromLegacy(n int) Status {
	switch n {
	case 0:
		return StatusUnderReview
	case 1:
		return StatusApproved
	case 2:
		return StatusRejected
	default:
		return StatusUnknown
	}
}

// UnmarshalJSON accepts the status either as its string name or as the
// legacy integer encoding (0/1/2).
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = ParseStatus(name)
		return nil
	}

	var legacy int
	if err := json.Unmarshal(data, &legacy); err == nil {
		*s = statusFromLegacy(legacy)
		return nil
	}

	return fmt.Errorf("invalid proposal status: %s", data)
}

func (s Status) String() string { return string(s) }
