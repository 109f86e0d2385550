package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
)

type ProjectRepository interface {
	CreateWithPhases(ctx context.Context, project *models.Project, phases []models.Phase) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Project, int, error)
	GetByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.Project, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type projectRepository struct {
	*PostgresRepository
}

func NewProjectRepository(db *sql.DB, logger zerolog.Logger) ProjectRepository {
	return &projectRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

// CreateWithPhases inserts the project and its full phase set in one
// transaction. The phase set is fixed at creation and never grows afterward.
func (r *projectRepository) CreateWithPhases(ctx context.Context, project *models.Project, phases []models.Phase) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	projectQuery := `
		INSERT INTO projects (id, student_id, course_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, projectQuery,
		project.ID,
		project.StudentID,
		project.CourseID,
		project.Title,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return err
	}

	phaseQuery := `
		INSERT INTO phases (id, project_id, phase_number, title, requirements, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, phase := range phases {
		_, err = tx.ExecContext(ctx, phaseQuery,
			phase.ID,
			phase.ProjectID,
			phase.PhaseNumber,
			phase.Title,
			phase.Requirements,
			phase.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, student_id, course_id, title, status, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.StudentID,
		&project.CourseID,
		&project.Title,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return project, err
}

func (r *projectRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Project, int, error) {
	countQuery := `SELECT COUNT(*) FROM projects`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, student_id, course_id, title, status, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) GetByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.Project, int, error) {
	countQuery := `SELECT COUNT(*) FROM projects WHERE student_id = $1`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, studentID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, student_id, course_id, title, status, created_at, updated_at
		FROM projects
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE projects
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *projectRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func scanProjects(rows *sql.Rows) ([]models.Project, error) {
	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID,
			&project.StudentID,
			&project.CourseID,
			&project.Title,
			&project.Status,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
