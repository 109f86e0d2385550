package progression

import (
	"math"
	"sort"

	"github.com/skillforge/certification-service/internal/models"
)

// Reason explains why a phase does or does not accept a new submission.
// The values are part of the public API contract and are surfaced verbatim
// to clients.
type Reason string

const (
	ReasonNone                Reason = "NONE"
	ReasonPreviousNotApproved Reason = "PREVIOUS_NOT_APPROVED"
	ReasonUnderReview         Reason = "UNDER_REVIEW"
	ReasonAlreadyApproved     Reason = "ALREADY_APPROVED"
)

type Eligibility struct {
	CanSubmit bool
	Reason    Reason
}

// Snapshot is an immutable view of one project's phases and submission
// history. All derivation is done against the snapshot; it holds no state of
// its own and never touches storage, so the same snapshot always yields the
// same answers.
type Snapshot struct {
	phases             []models.Phase
	submissionsByPhase map[string][]models.Submission
}

// NewSnapshot sorts defensively: phases by phase_number ascending,
// submissions by submitted_at descending. The newest submission of a phase is
// authoritative for its status, so the ordering must hold even if a caller
// hands us an unsorted ledger.
func NewSnapshot(phases []models.Phase, submissionsByPhase map[string][]models.Submission) Snapshot {
	sorted := make([]models.Phase, len(phases))
	copy(sorted, phases)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PhaseNumber < sorted[j].PhaseNumber
	})

	subs := make(map[string][]models.Submission, len(submissionsByPhase))
	for phaseID, history := range submissionsByPhase {
		h := make([]models.Submission, len(history))
		copy(h, history)
		sort.Slice(h, func(i, j int) bool {
			return h[i].SubmittedAt.After(h[j].SubmittedAt)
		})
		subs[phaseID] = h
	}

	return Snapshot{phases: sorted, submissionsByPhase: subs}
}

func (s Snapshot) Phases() []models.Phase {
	return s.phases
}

func (s Snapshot) Submissions(phaseID string) []models.Submission {
	return s.submissionsByPhase[phaseID]
}

// StatusOf derives the phase status from the newest submission, or
// not_started when the phase has no submissions.
func (s Snapshot) StatusOf(phaseID string) models.PhaseStatus {
	history := s.submissionsByPhase[phaseID]
	if len(history) == 0 {
		return models.PhaseStatusNotStarted
	}

	switch history[0].Status {
	case models.SubmissionStatusApproved.String():
		return models.PhaseStatusApproved
	case models.SubmissionStatusRejected.String():
		return models.PhaseStatusRejected
	default:
		return models.PhaseStatusUnderReview
	}
}

func (s Snapshot) IsApproved(phaseID string) bool {
	return s.StatusOf(phaseID) == models.PhaseStatusApproved
}

// PreviousPhasesApproved reports whether every phase with a smaller
// phase_number is approved. Phase 1 satisfies this vacuously.
func (s Snapshot) PreviousPhasesApproved(phase models.Phase) bool {
	for _, p := range s.phases {
		if p.PhaseNumber >= phase.PhaseNumber {
			break
		}
		if !s.IsApproved(p.ID) {
			return false
		}
	}
	return true
}

// CanSubmit decides whether the phase accepts a new submission right now.
// The sequence gate is checked before the phase's own status: a phase blocked
// by an unapproved predecessor reports PREVIOUS_NOT_APPROVED whatever its own
// status is, because that is the reason shown to the student.
func (s Snapshot) CanSubmit(phase models.Phase) Eligibility {
	if !s.PreviousPhasesApproved(phase) {
		return Eligibility{CanSubmit: false, Reason: ReasonPreviousNotApproved}
	}

	switch s.StatusOf(phase.ID) {
	case models.PhaseStatusUnderReview:
		return Eligibility{CanSubmit: false, Reason: ReasonUnderReview}
	case models.PhaseStatusApproved:
		return Eligibility{CanSubmit: false, Reason: ReasonAlreadyApproved}
	default:
		// not_started or rejected, predecessors approved
		return Eligibility{CanSubmit: true, Reason: ReasonNone}
	}
}

// NextActionable returns the phase the student should act on next: the first
// rejected phase in phase order, else the first not-started phase, else nil.
// Rejected work is surfaced before any new work regardless of phase number,
// so the rejected pass runs over all phases before the not-started pass
// begins.
func (s Snapshot) NextActionable() *models.Phase {
	for i := range s.phases {
		if s.StatusOf(s.phases[i].ID) == models.PhaseStatusRejected {
			return &s.phases[i]
		}
	}
	for i := range s.phases {
		if s.StatusOf(s.phases[i].ID) == models.PhaseStatusNotStarted {
			return &s.phases[i]
		}
	}
	return nil
}

// Progress counts approved phases. Percentage rounds half away from zero and
// is 0 for a project with no phases.
func (s Snapshot) Progress() models.ProjectProgress {
	total := len(s.phases)
	approved := 0
	for _, p := range s.phases {
		if s.IsApproved(p.ID) {
			approved++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(approved) / float64(total)))
	}

	return models.ProjectProgress{
		ApprovedCount: approved,
		Total:         total,
		Percentage:    percentage,
	}
}

func (s Snapshot) IsCompleted() bool {
	progress := s.Progress()
	return progress.Total > 0 && progress.ApprovedCount == progress.Total
}

// StatsByStatus builds a histogram of derived phase statuses. Statuses with
// no phases are present with a zero count so clients render a stable set of
// buckets.
func (s Snapshot) StatsByStatus() map[models.PhaseStatus]int {
	stats := map[models.PhaseStatus]int{
		models.PhaseStatusNotStarted:  0,
		models.PhaseStatusUnderReview: 0,
		models.PhaseStatusApproved:    0,
		models.PhaseStatusRejected:    0,
	}
	for _, p := range s.phases {
		stats[s.StatusOf(p.ID)]++
	}
	return stats
}
