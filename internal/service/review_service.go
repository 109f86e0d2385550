package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
	"github.com/skillforge/certification-service/internal/repository"
	"github.com/skillforge/certification-service/internal/service/integration"
)

type ReviewService interface {
	Decide(ctx context.Context, submissionID string, req *models.DecisionRequest) (*models.Submission, error)
}

type reviewService struct {
	snapshotLoader
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func NewReviewService(
	projectRepo repository.ProjectRepository,
	phaseRepo repository.PhaseRepository,
	submissionRepo repository.SubmissionRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		snapshotLoader: snapshotLoader{
			projectRepo:    projectRepo,
			phaseRepo:      phaseRepo,
			submissionRepo: submissionRepo,
		},
		publisher: publisher,
		logger:    logger,
	}
}

// Decide resolves an under-review submission to approved or rejected. The
// transition is one-shot: a decided submission never changes again, and the
// status guard in the repository makes a second decision fail instead of
// overwriting the first. Rejections must carry a remark; the remark is what
// the student acts on before resubmitting.
func (s *reviewService) Decide(ctx context.Context, submissionID string, req *models.DecisionRequest) (*models.Submission, error) {
	remark := strings.TrimSpace(req.Remark)
	if req.Outcome == string(models.ReviewOutcomeReject) && remark == "" {
		return nil, models.ErrRemarkRequired
	}

	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, models.ErrSubmissionNotFound
	}

	status := models.SubmissionStatusRejected.String()
	if req.Outcome == string(models.ReviewOutcomeApprove) {
		status = models.SubmissionStatusApproved.String()
	}

	var remarkPtr *string
	if remark != "" {
		remarkPtr = &remark
	}

	now := time.Now()
	updated, err := s.submissionRepo.Decide(ctx, submissionID, status, remarkPtr, sql.NullTime{Time: now, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("failed to decide submission: %w", err)
	}
	if !updated {
		return nil, models.ErrAlreadyDecided
	}

	submission.Status = status
	submission.Remark = remarkPtr
	submission.ReviewedAt = &now

	phase, err := s.phaseRepo.GetByID(ctx, submission.PhaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase: %w", err)
	}
	if phase == nil {
		return nil, models.ErrPhaseNotFound
	}

	project, snapshot, err := s.Load(ctx, phase.ProjectID)
	if err != nil {
		return nil, err
	}

	completed := snapshot.IsCompleted()
	if completed && project.Status != models.ProjectStatusCompleted.String() {
		if err := s.projectRepo.UpdateStatus(ctx, project.ID, models.ProjectStatusCompleted.String()); err != nil {
			s.logger.Error().Err(err).Str("project_id", project.ID).Msg("Failed to mark project completed")
		}
	}

	event := &models.SubmissionReviewedEvent{
		SubmissionID:     submission.ID,
		PhaseID:          submission.PhaseID,
		ProjectID:        project.ID,
		StudentID:        project.StudentID,
		Status:           status,
		Remark:           remarkPtr,
		ProjectCompleted: completed,
		Timestamp:        now.Unix(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSubmissionReviewed(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish submission reviewed event")
		}
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("phase_id", submission.PhaseID).
		Str("status", status).
		Bool("project_completed", completed).
		Msg("Submission decided")

	return submission, nil
}
