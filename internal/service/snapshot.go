package service

import (
	"context"
	"fmt"

	"github.com/skillforge/certification-service/internal/models"
	"github.com/skillforge/certification-service/internal/repository"
	"github.com/skillforge/certification-service/internal/service/progression"
)

// snapshotLoader assembles the progression snapshot for one project: the
// phase catalog plus the full submission ledger. Every derivation and every
// admission check runs against a snapshot loaded at the moment of the call,
// never against a cached one.
type snapshotLoader struct {
	projectRepo    repository.ProjectRepository
	phaseRepo      repository.PhaseRepository
	submissionRepo repository.SubmissionRepository
}

func (l *snapshotLoader) Load(ctx context.Context, projectID string) (*models.Project, progression.Snapshot, error) {
	project, err := l.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, progression.Snapshot{}, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, progression.Snapshot{}, models.ErrProjectNotFound
	}

	phases, err := l.phaseRepo.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, progression.Snapshot{}, fmt.Errorf("failed to get phases: %w", err)
	}

	submissions, err := l.submissionRepo.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, progression.Snapshot{}, fmt.Errorf("failed to get submissions: %w", err)
	}

	return project, progression.NewSnapshot(phases, submissions), nil
}
