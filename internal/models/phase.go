package models

import (
	"time"
)

type Phase struct {
	ID           string    `json:"id" db:"id"`
	ProjectID    string    `json:"project_id" db:"project_id"`
	PhaseNumber  int       `json:"phase_number" db:"phase_number"`
	Title        string    `json:"title" db:"title"`
	Requirements string    `json:"requirements" db:"requirements"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PhaseStatus is never stored; it is derived from the newest submission of
// the phase, or "not_started" when the phase has none.
type PhaseStatus string

const (
	PhaseStatusNotStarted  PhaseStatus = "not_started"
	PhaseStatusUnderReview PhaseStatus = "under_review"
	PhaseStatusApproved    PhaseStatus = "approved"
	PhaseStatusRejected    PhaseStatus = "rejected"
)

func (ps PhaseStatus) String() string {
	return string(ps)
}
