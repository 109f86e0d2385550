package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/skillforge/certification-service/internal/models"
)

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	phases   map[string][]models.Phase
	statuses []string // recorded UpdateStatus calls
	err      error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[string]*models.Project),
		phases:   make(map[string][]models.Phase),
	}
}

func (f *fakeProjectRepo) CreateWithPhases(ctx context.Context, project *models.Project, phases []models.Phase) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := *project
	f.projects[project.ID] = &p
	f.phases[project.ID] = phases
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	p := *project
	return &p, nil
}

func (f *fakeProjectRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Project, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var projects []models.Project
	for _, p := range f.projects {
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, len(projects), nil
}

func (f *fakeProjectRepo) GetByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.Project, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var projects []models.Project
	for _, p := range f.projects {
		if p.StudentID == studentID {
			projects = append(projects, *p)
		}
	}
	return projects, len(projects), nil
}

func (f *fakeProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.projects[id]; ok {
		p.Status = status
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeProjectRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.projects[id]
	return ok, nil
}

type fakePhaseRepo struct {
	mu     sync.Mutex
	phases map[string]*models.Phase
	err    error
}

func newFakePhaseRepo() *fakePhaseRepo {
	return &fakePhaseRepo{phases: make(map[string]*models.Phase)}
}

func (f *fakePhaseRepo) add(phases ...models.Phase) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range phases {
		p := phases[i]
		f.phases[p.ID] = &p
	}
}

func (f *fakePhaseRepo) GetByID(ctx context.Context, id string) (*models.Phase, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	phase, ok := f.phases[id]
	if !ok {
		return nil, nil
	}
	p := *phase
	return &p, nil
}

func (f *fakePhaseRepo) GetByProjectID(ctx context.Context, projectID string) ([]models.Phase, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var phases []models.Phase
	for _, p := range f.phases {
		if p.ProjectID == projectID {
			phases = append(phases, *p)
		}
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].PhaseNumber < phases[j].PhaseNumber })
	return phases, nil
}

type fakeSubmissionRepo struct {
	mu      sync.Mutex
	byPhase map[string][]models.Submission
	byID    map[string]*models.Submission
	err     error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		byPhase: make(map[string][]models.Submission),
		byID:    make(map[string]*models.Submission),
	}
}

func (f *fakeSubmissionRepo) add(submission models.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insert(submission)
}

func (f *fakeSubmissionRepo) insert(submission models.Submission) {
	// newest first, like the real repo's ORDER BY submitted_at DESC
	f.byPhase[submission.PhaseID] = append([]models.Submission{submission}, f.byPhase[submission.PhaseID]...)
	s := submission
	f.byID[submission.ID] = &s
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	submission, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	s := *submission
	return &s, nil
}

func (f *fakeSubmissionRepo) GetByPhaseID(ctx context.Context, phaseID string) ([]models.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Submission(nil), f.byPhase[phaseID]...), nil
}

func (f *fakeSubmissionRepo) GetByProjectID(ctx context.Context, projectID string) (map[string][]models.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]models.Submission, len(f.byPhase))
	for phaseID, history := range f.byPhase {
		out[phaseID] = append([]models.Submission(nil), history...)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) CreateIfNoPending(ctx context.Context, submission *models.Submission) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byPhase[submission.PhaseID] {
		if s.Status == models.SubmissionStatusUnderReview.String() {
			return false, nil
		}
	}
	f.insert(*submission)
	return true, nil
}

func (f *fakeSubmissionRepo) Decide(ctx context.Context, id, status string, remark *string, reviewedAt sql.NullTime) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	submission, ok := f.byID[id]
	if !ok || submission.Status != models.SubmissionStatusUnderReview.String() {
		return false, nil
	}
	submission.Status = status
	submission.Remark = remark
	if reviewedAt.Valid {
		t := reviewedAt.Time
		submission.ReviewedAt = &t
	}
	history := f.byPhase[submission.PhaseID]
	for i := range history {
		if history[i].ID == id {
			history[i] = *submission
		}
	}
	return true, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	received []*models.SubmissionReceivedEvent
	reviewed []*models.SubmissionReviewedEvent
	err      error
}

func (f *fakePublisher) PublishSubmissionReceived(ctx context.Context, event *models.SubmissionReceivedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, event)
	return f.err
}

func (f *fakePublisher) PublishSubmissionReviewed(ctx context.Context, event *models.SubmissionReviewedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewed = append(f.reviewed, event)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }
