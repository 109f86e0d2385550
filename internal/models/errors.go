package models

import "errors"

// Domain errors. Every one of them is an expected outcome that the handler
// layer maps to a specific HTTP status and message; none of them is retried
// by the service itself.
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrPhaseNotFound      = errors.New("phase not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrSequenceBlocked: an earlier phase is not approved yet.
	ErrSequenceBlocked = errors.New("previous phases must be approved first")

	// ErrReviewInProgress: the phase already has a submission under review.
	// Retrying without a reviewer decision will fail identically.
	ErrReviewInProgress = errors.New("a submission for this phase is already under review")

	// ErrPhaseApproved: the phase is already approved, nothing left to submit.
	ErrPhaseApproved = errors.New("phase is already approved")

	// ErrAlreadyDecided: the submission left under_review; decisions are one-shot.
	ErrAlreadyDecided = errors.New("submission has already been decided")

	// ErrRemarkRequired: rejections must carry actionable feedback.
	ErrRemarkRequired = errors.New("a remark is required when rejecting a submission")
)
