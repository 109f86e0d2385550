package progression

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillforge/certification-service/internal/models"
)

var testBase = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func makePhases(n int) []models.Phase {
	phases := make([]models.Phase, 0, n)
	for i := 1; i <= n; i++ {
		phases = append(phases, models.Phase{
			ID:          fmt.Sprintf("phase-%d", i),
			ProjectID:   "project-1",
			PhaseNumber: i,
			Title:       fmt.Sprintf("Phase %d", i),
		})
	}
	return phases
}

func makeSubmission(phaseID string, status models.SubmissionStatus, age time.Duration) models.Submission {
	return models.Submission{
		ID:          fmt.Sprintf("%s-sub-%s-%d", phaseID, status, age),
		PhaseID:     phaseID,
		Status:      status.String(),
		SubmittedAt: testBase.Add(-age),
	}
}

func TestStatusOf(t *testing.T) {
	phases := makePhases(1)

	tests := []struct {
		name        string
		submissions []models.Submission
		want        models.PhaseStatus
	}{
		{"no submissions", nil, models.PhaseStatusNotStarted},
		{
			"single under review",
			[]models.Submission{makeSubmission("phase-1", models.SubmissionStatusUnderReview, 0)},
			models.PhaseStatusUnderReview,
		},
		{
			"newest wins over older rejection",
			[]models.Submission{
				makeSubmission("phase-1", models.SubmissionStatusApproved, 0),
				makeSubmission("phase-1", models.SubmissionStatusRejected, time.Hour),
			},
			models.PhaseStatusApproved,
		},
		{
			"unsorted ledger is sorted defensively",
			[]models.Submission{
				makeSubmission("phase-1", models.SubmissionStatusRejected, time.Hour),
				makeSubmission("phase-1", models.SubmissionStatusUnderReview, 0),
			},
			models.PhaseStatusUnderReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(phases, map[string][]models.Submission{"phase-1": tt.submissions})
			assert.Equal(t, tt.want, snap.StatusOf("phase-1"))
		})
	}
}

func TestCanSubmit(t *testing.T) {
	phases := makePhases(3)

	tests := []struct {
		name       string
		ledger     map[string][]models.Submission
		phase      int
		wantOK     bool
		wantReason Reason
	}{
		{
			"phase 1 with empty ledger",
			nil, 1, true, ReasonNone,
		},
		{
			"phase 2 blocked by unapproved phase 1",
			nil, 2, false, ReasonPreviousNotApproved,
		},
		{
			"phase under review",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusUnderReview, 0)},
			},
			1, false, ReasonUnderReview,
		},
		{
			"approved phase",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
			},
			1, false, ReasonAlreadyApproved,
		},
		{
			"rejected phase is resubmittable",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusRejected, 0)},
			},
			1, true, ReasonNone,
		},
		{
			"phase 2 unlocked once phase 1 approved",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
			},
			2, true, ReasonNone,
		},
		{
			"sequence gate wins over own approved status",
			map[string][]models.Submission{
				"phase-2": {makeSubmission("phase-2", models.SubmissionStatusApproved, 0)},
			},
			2, false, ReasonPreviousNotApproved,
		},
		{
			"sequence gate wins over own review status",
			map[string][]models.Submission{
				"phase-3": {makeSubmission("phase-3", models.SubmissionStatusUnderReview, 0)},
			},
			3, false, ReasonPreviousNotApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(phases, tt.ledger)
			eligibility := snap.CanSubmit(phases[tt.phase-1])
			assert.Equal(t, tt.wantOK, eligibility.CanSubmit)
			assert.Equal(t, tt.wantReason, eligibility.Reason)
		})
	}
}

func TestNextActionable(t *testing.T) {
	phases := makePhases(3)

	tests := []struct {
		name   string
		ledger map[string][]models.Submission
		want   string // phase id, "" for nil
	}{
		{
			"fresh project starts at phase 1",
			nil, "phase-1",
		},
		{
			"nothing actionable while phase 1 under review",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusUnderReview, 0)},
			},
			"",
		},
		{
			"rejected phase comes back first",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusRejected, 0)},
			},
			"phase-1",
		},
		{
			"rejection beats earlier not-started phase",
			map[string][]models.Submission{
				"phase-2": {makeSubmission("phase-2", models.SubmissionStatusRejected, 0)},
			},
			"phase-2",
		},
		{
			"approved phase advances to the next",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
			},
			"phase-2",
		},
		{
			"fully approved project has nothing left",
			map[string][]models.Submission{
				"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
				"phase-2": {makeSubmission("phase-2", models.SubmissionStatusApproved, 0)},
				"phase-3": {makeSubmission("phase-3", models.SubmissionStatusApproved, 0)},
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(phases, tt.ledger)
			next := snap.NextActionable()
			if tt.want == "" {
				assert.Nil(t, next)
				return
			}
			if assert.NotNil(t, next) {
				assert.Equal(t, tt.want, next.ID)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		approved int
		wantPct  int
	}{
		{"empty project", 0, 0, 0},
		{"nothing approved", 3, 0, 0},
		{"one of three", 3, 1, 33},
		{"two of three", 3, 2, 67},
		{"half rounds away from zero", 8, 1, 13},
		{"all approved", 3, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := makePhases(tt.total)
			ledger := map[string][]models.Submission{}
			for i := 1; i <= tt.approved; i++ {
				id := fmt.Sprintf("phase-%d", i)
				ledger[id] = []models.Submission{makeSubmission(id, models.SubmissionStatusApproved, 0)}
			}

			snap := NewSnapshot(phases, ledger)
			progress := snap.Progress()
			assert.Equal(t, tt.approved, progress.ApprovedCount)
			assert.Equal(t, tt.total, progress.Total)
			assert.Equal(t, tt.wantPct, progress.Percentage)
		})
	}
}

func TestProgressMonotonicUnderApprovals(t *testing.T) {
	phases := makePhases(5)
	ledger := map[string][]models.Submission{}

	previous := 0
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("phase-%d", i)
		ledger[id] = []models.Submission{makeSubmission(id, models.SubmissionStatusApproved, 0)}

		snap := NewSnapshot(phases, ledger)
		pct := snap.Progress().Percentage
		assert.GreaterOrEqual(t, pct, previous)
		previous = pct
	}
	assert.Equal(t, 100, previous)
}

func TestIsCompleted(t *testing.T) {
	phases := makePhases(2)

	snap := NewSnapshot(phases, map[string][]models.Submission{
		"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
	})
	assert.False(t, snap.IsCompleted())

	snap = NewSnapshot(phases, map[string][]models.Submission{
		"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
		"phase-2": {makeSubmission("phase-2", models.SubmissionStatusApproved, 0)},
	})
	assert.True(t, snap.IsCompleted())

	// a project with no phases is never completed
	assert.False(t, NewSnapshot(nil, nil).IsCompleted())
}

func TestStatsByStatus(t *testing.T) {
	phases := makePhases(4)
	snap := NewSnapshot(phases, map[string][]models.Submission{
		"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
		"phase-2": {makeSubmission("phase-2", models.SubmissionStatusRejected, 0)},
		"phase-3": {makeSubmission("phase-3", models.SubmissionStatusUnderReview, 0)},
	})

	stats := snap.StatsByStatus()
	assert.Equal(t, 1, stats[models.PhaseStatusApproved])
	assert.Equal(t, 1, stats[models.PhaseStatusRejected])
	assert.Equal(t, 1, stats[models.PhaseStatusUnderReview])
	assert.Equal(t, 1, stats[models.PhaseStatusNotStarted])
}

// Same snapshot, same answers: derivation has no hidden state.
func TestDerivationIsPure(t *testing.T) {
	phases := makePhases(3)
	ledger := map[string][]models.Submission{
		"phase-1": {makeSubmission("phase-1", models.SubmissionStatusApproved, 0)},
		"phase-2": {makeSubmission("phase-2", models.SubmissionStatusRejected, 0)},
	}

	snap := NewSnapshot(phases, ledger)
	for i := 0; i < 3; i++ {
		assert.Equal(t, models.PhaseStatusApproved, snap.StatusOf("phase-1"))
		assert.Equal(t, Eligibility{CanSubmit: true, Reason: ReasonNone}, snap.CanSubmit(phases[1]))
		assert.Equal(t, "phase-2", snap.NextActionable().ID)
		assert.Equal(t, 33, snap.Progress().Percentage)
	}
}

// Phases handed over out of order must not change any derived answer.
func TestSnapshotSortsPhases(t *testing.T) {
	phases := makePhases(3)
	shuffled := []models.Phase{phases[2], phases[0], phases[1]}

	snap := NewSnapshot(shuffled, nil)
	assert.Equal(t, "phase-1", snap.NextActionable().ID)

	eligibility := snap.CanSubmit(phases[2])
	assert.False(t, eligibility.CanSubmit)
	assert.Equal(t, ReasonPreviousNotApproved, eligibility.Reason)
}
