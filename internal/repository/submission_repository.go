package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
)

type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByPhaseID(ctx context.Context, phaseID string) ([]models.Submission, error)
	GetByProjectID(ctx context.Context, projectID string) (map[string][]models.Submission, error)
	CreateIfNoPending(ctx context.Context, submission *models.Submission) (bool, error)
	Decide(ctx context.Context, id, status string, remark *string, reviewedAt sql.NullTime) (bool, error)
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT id, phase_id, content_ref, status, remark, submitted_at, reviewed_at
		FROM submissions
		WHERE id = $1
	`

	submission := &models.Submission{}
	var remark sql.NullString
	var reviewedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.PhaseID,
		&submission.ContentRef,
		&submission.Status,
		&remark,
		&submission.SubmittedAt,
		&reviewedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if remark.Valid {
		submission.Remark = &remark.String
	}
	if reviewedAt.Valid {
		submission.ReviewedAt = &reviewedAt.Time
	}

	return submission, nil
}

// GetByPhaseID returns the phase's full attempt history, newest first. The
// first row is the phase's current status.
func (r *submissionRepository) GetByPhaseID(ctx context.Context, phaseID string) ([]models.Submission, error) {
	query := `
		SELECT id, phase_id, content_ref, status, remark, submitted_at, reviewed_at
		FROM submissions
		WHERE phase_id = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// GetByProjectID loads the ledgers of all phases of a project in one query,
// keyed by phase id, newest first within each phase.
func (r *submissionRepository) GetByProjectID(ctx context.Context, projectID string) (map[string][]models.Submission, error) {
	query := `
		SELECT s.id, s.phase_id, s.content_ref, s.status, s.remark, s.submitted_at, s.reviewed_at
		FROM submissions s
		JOIN phases p ON s.phase_id = p.id
		WHERE p.project_id = $1
		ORDER BY s.submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions, err := scanSubmissions(rows)
	if err != nil {
		return nil, err
	}

	byPhase := make(map[string][]models.Submission)
	for _, submission := range submissions {
		byPhase[submission.PhaseID] = append(byPhase[submission.PhaseID], submission)
	}

	return byPhase, nil
}

// CreateIfNoPending appends the submission only when the phase has no
// submission under review. The conditional insert is the authoritative guard
// against two near-simultaneous attempts on the same phase; false means a
// pending submission already exists.
func (r *submissionRepository) CreateIfNoPending(ctx context.Context, submission *models.Submission) (bool, error) {
	query := `
		INSERT INTO submissions (id, phase_id, content_ref, status, submitted_at)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM submissions
			WHERE phase_id = $2 AND status = $6
		)
	`

	result, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.PhaseID,
		submission.ContentRef,
		submission.Status,
		submission.SubmittedAt,
		models.SubmissionStatusUnderReview.String(),
	)
	if err != nil {
		return false, err
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return inserted == 1, nil
}

// Decide resolves an under-review submission exactly once. The status guard
// in the WHERE clause makes the transition one-shot; false means the
// submission was already decided.
func (r *submissionRepository) Decide(ctx context.Context, id, status string, remark *string, reviewedAt sql.NullTime) (bool, error) {
	query := `
		UPDATE submissions
		SET status = $1, remark = $2, reviewed_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		status,
		remark,
		reviewedAt,
		id,
		models.SubmissionStatusUnderReview.String(),
	)
	if err != nil {
		return false, err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return updated == 1, nil
}

func scanSubmissions(rows *sql.Rows) ([]models.Submission, error) {
	var submissions []models.Submission
	for rows.Next() {
		var submission models.Submission
		var remark sql.NullString
		var reviewedAt sql.NullTime

		err := rows.Scan(
			&submission.ID,
			&submission.PhaseID,
			&submission.ContentRef,
			&submission.Status,
			&remark,
			&submission.SubmittedAt,
			&reviewedAt,
		)
		if err != nil {
			return nil, err
		}

		if remark.Valid {
			submission.Remark = &remark.String
		}
		if reviewedAt.Valid {
			submission.ReviewedAt = &reviewedAt.Time
		}

		submissions = append(submissions, submission)
	}

	return submissions, rows.Err()
}
