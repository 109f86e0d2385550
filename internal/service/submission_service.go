package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
	"github.com/skillforge/certification-service/internal/repository"
	"github.com/skillforge/certification-service/internal/service/integration"
	"github.com/skillforge/certification-service/internal/service/progression"
)

type SubmissionService interface {
	RequestSubmission(ctx context.Context, phaseID string, req *models.CreateSubmissionRequest) (*models.Submission, error)
	GetSubmissionsByPhase(ctx context.Context, phaseID string) (*models.SubmissionsResponse, error)
	GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error)
}

type submissionService struct {
	snapshotLoader
	publisher integration.EventPublisher
	locks     phaseLocks
	logger    zerolog.Logger
}

func NewSubmissionService(
	projectRepo repository.ProjectRepository,
	phaseRepo repository.PhaseRepository,
	submissionRepo repository.SubmissionRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		snapshotLoader: snapshotLoader{
			projectRepo:    projectRepo,
			phaseRepo:      phaseRepo,
			submissionRepo: submissionRepo,
		},
		publisher: publisher,
		logger:    logger,
	}
}

// RequestSubmission is the admission gate. Eligibility is re-derived from a
// fresh snapshot at the moment of the call, never taken from whatever the
// client last rendered, and the insert itself is conditional on no pending
// submission existing for the phase. The per-phase lock serializes attempts
// within this instance; the conditional insert holds across instances.
func (s *submissionService) RequestSubmission(ctx context.Context, phaseID string, req *models.CreateSubmissionRequest) (*models.Submission, error) {
	phase, err := s.phaseRepo.GetByID(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase: %w", err)
	}
	if phase == nil {
		return nil, models.ErrPhaseNotFound
	}

	unlock := s.locks.lock(phaseID)
	defer unlock()

	project, snapshot, err := s.Load(ctx, phase.ProjectID)
	if err != nil {
		return nil, err
	}

	eligibility := snapshot.CanSubmit(*phase)
	if !eligibility.CanSubmit {
		switch eligibility.Reason {
		case progression.ReasonPreviousNotApproved:
			return nil, models.ErrSequenceBlocked
		case progression.ReasonUnderReview:
			return nil, models.ErrReviewInProgress
		default:
			return nil, models.ErrPhaseApproved
		}
	}

	submission := &models.Submission{
		ID:          uuid.New().String(),
		PhaseID:     phaseID,
		ContentRef:  req.ContentRef,
		Status:      models.SubmissionStatusUnderReview.String(),
		SubmittedAt: time.Now(),
	}

	inserted, err := s.submissionRepo.CreateIfNoPending(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	if !inserted {
		// lost a race against another instance
		return nil, models.ErrReviewInProgress
	}

	if project.Status == models.ProjectStatusPending.String() {
		if err := s.projectRepo.UpdateStatus(ctx, project.ID, models.ProjectStatusActive.String()); err != nil {
			s.logger.Error().Err(err).Str("project_id", project.ID).Msg("Failed to activate project")
		}
	}

	event := &models.SubmissionReceivedEvent{
		SubmissionID: submission.ID,
		PhaseID:      phaseID,
		ProjectID:    project.ID,
		StudentID:    project.StudentID,
		PhaseNumber:  phase.PhaseNumber,
		Timestamp:    time.Now().Unix(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSubmissionReceived(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish submission received event")
		}
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("phase_id", phaseID).
		Int("phase_number", phase.PhaseNumber).
		Msg("Submission admitted for review")

	return submission, nil
}

func (s *submissionService) GetSubmissionsByPhase(ctx context.Context, phaseID string) (*models.SubmissionsResponse, error) {
	phase, err := s.phaseRepo.GetByID(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase: %w", err)
	}
	if phase == nil {
		return nil, models.ErrPhaseNotFound
	}

	submissions, err := s.submissionRepo.GetByPhaseID(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	return &models.SubmissionsResponse{
		Submissions: submissions,
		Total:       len(submissions),
	}, nil
}

func (s *submissionService) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, models.ErrSubmissionNotFound
	}

	return submission, nil
}

// phaseLocks hands out one mutex per phase id so admission checks and their
// inserts do not interleave for the same phase.
type phaseLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *phaseLocks) lock(phaseID string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := p.locks[phaseID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[phaseID] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
