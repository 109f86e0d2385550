package models

import (
	"time"
)

type Submission struct {
	ID          string     `json:"id" db:"id"`
	PhaseID     string     `json:"phase_id" db:"phase_id"`
	ContentRef  string     `json:"content_ref" db:"content_ref"`
	Status      string     `json:"status" db:"status"` // under_review, approved, rejected
	Remark      *string    `json:"remark,omitempty" db:"remark"`
	SubmittedAt time.Time  `json:"submitted_at" db:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

type SubmissionStatus string

const (
	SubmissionStatusUnderReview SubmissionStatus = "under_review"
	SubmissionStatusApproved    SubmissionStatus = "approved"
	SubmissionStatusRejected    SubmissionStatus = "rejected"
)

func (ss SubmissionStatus) String() string {
	return string(ss)
}

type ReviewOutcome string

const (
	ReviewOutcomeApprove ReviewOutcome = "approve"
	ReviewOutcomeReject  ReviewOutcome = "reject"
)
