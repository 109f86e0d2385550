package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
	"github.com/skillforge/certification-service/internal/repository"
)

type ProjectService interface {
	CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.CreateProjectResponse, error)
	GetProject(ctx context.Context, id string) (*models.ProjectDetailResponse, error)
	GetProgress(ctx context.Context, id string) (*models.ProjectProgressResponse, error)
	GetAllProjects(ctx context.Context, page, limit int) (*models.ProjectsResponse, error)
	GetProjectsByStudent(ctx context.Context, studentID string, page, limit int) (*models.ProjectsResponse, error)
}

type projectService struct {
	snapshotLoader
	logger zerolog.Logger
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	phaseRepo repository.PhaseRepository,
	submissionRepo repository.SubmissionRepository,
	logger zerolog.Logger,
) ProjectService {
	return &projectService{
		snapshotLoader: snapshotLoader{
			projectRepo:    projectRepo,
			phaseRepo:      phaseRepo,
			submissionRepo: submissionRepo,
		},
		logger: logger,
	}
}

// CreateProject enrolls a student into a certification track. The phase set
// comes from the course template and is fixed here; phases are numbered 1..N
// in the order they were given.
func (s *projectService) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.CreateProjectResponse, error) {
	now := time.Now()
	project := &models.Project{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Title:     req.Title,
		Status:    models.ProjectStatusPending.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	phases := make([]models.Phase, 0, len(req.Phases))
	for i, tpl := range req.Phases {
		phases = append(phases, models.Phase{
			ID:           uuid.New().String(),
			ProjectID:    project.ID,
			PhaseNumber:  i + 1,
			Title:        tpl.Title,
			Requirements: tpl.Requirements,
			CreatedAt:    now,
		})
	}

	if err := s.projectRepo.CreateWithPhases(ctx, project, phases); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("student_id", project.StudentID).
		Int("phases", len(phases)).
		Msg("Project created")

	return &models.CreateProjectResponse{
		ID:        project.ID,
		Status:    project.Status,
		Phases:    len(phases),
		CreatedAt: project.CreatedAt,
	}, nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (*models.ProjectDetailResponse, error) {
	project, snapshot, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]models.PhaseView, 0, len(snapshot.Phases()))
	for _, phase := range snapshot.Phases() {
		eligibility := snapshot.CanSubmit(phase)
		views = append(views, models.PhaseView{
			Phase:       phase,
			Status:      snapshot.StatusOf(phase.ID),
			Submissions: len(snapshot.Submissions(phase.ID)),
			CanSubmit:   eligibility.CanSubmit,
			Reason:      string(eligibility.Reason),
		})
	}

	var nextView *models.PhaseView
	if next := snapshot.NextActionable(); next != nil {
		for i := range views {
			if views[i].ID == next.ID {
				nextView = &views[i]
				break
			}
		}
	}

	return &models.ProjectDetailResponse{
		Project:   *project,
		Phases:    views,
		Progress:  snapshot.Progress(),
		NextPhase: nextView,
		Completed: snapshot.IsCompleted(),
	}, nil
}

func (s *projectService) GetProgress(ctx context.Context, id string) (*models.ProjectProgressResponse, error) {
	_, snapshot, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	var nextPhaseID *string
	if next := snapshot.NextActionable(); next != nil {
		nextPhaseID = &next.ID
	}

	return &models.ProjectProgressResponse{
		Progress:      snapshot.Progress(),
		Completed:     snapshot.IsCompleted(),
		NextPhaseID:   nextPhaseID,
		StatsByStatus: snapshot.StatsByStatus(),
	}, nil
}

func (s *projectService) GetAllProjects(ctx context.Context, page, limit int) (*models.ProjectsResponse, error) {
	page, limit = normalizePaging(page, limit)
	offset := (page - 1) * limit

	projects, total, err := s.projectRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	return &models.ProjectsResponse{
		Projects: projects,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *projectService) GetProjectsByStudent(ctx context.Context, studentID string, page, limit int) (*models.ProjectsResponse, error) {
	page, limit = normalizePaging(page, limit)
	offset := (page - 1) * limit

	projects, total, err := s.projectRepo.GetByStudentID(ctx, studentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects by student: %w", err)
	}

	return &models.ProjectsResponse{
		Projects: projects,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
