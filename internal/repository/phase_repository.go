package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
)

type PhaseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Phase, error)
	GetByProjectID(ctx context.Context, projectID string) ([]models.Phase, error)
}

type phaseRepository struct {
	*PostgresRepository
}

func NewPhaseRepository(db *sql.DB, logger zerolog.Logger) PhaseRepository {
	return &phaseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *phaseRepository) GetByID(ctx context.Context, id string) (*models.Phase, error) {
	query := `
		SELECT id, project_id, phase_number, title, requirements, created_at
		FROM phases
		WHERE id = $1
	`

	phase := &models.Phase{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&phase.ID,
		&phase.ProjectID,
		&phase.PhaseNumber,
		&phase.Title,
		&phase.Requirements,
		&phase.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return phase, err
}

// GetByProjectID returns the project's full phase set ordered by
// phase_number ascending.
func (r *phaseRepository) GetByProjectID(ctx context.Context, projectID string) ([]models.Phase, error) {
	query := `
		SELECT id, project_id, phase_number, title, requirements, created_at
		FROM phases
		WHERE project_id = $1
		ORDER BY phase_number
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []models.Phase
	for rows.Next() {
		var phase models.Phase
		err := rows.Scan(
			&phase.ID,
			&phase.ProjectID,
			&phase.PhaseNumber,
			&phase.Title,
			&phase.Requirements,
			&phase.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		phases = append(phases, phase)
	}

	return phases, rows.Err()
}
