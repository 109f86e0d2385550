package models

import "time"

// Data Transfer Objects

type PhaseTemplate struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Requirements string `json:"requirements" validate:"max=2000"`
}

type CreateProjectRequest struct {
	StudentID string          `json:"student_id" validate:"required,uuid"`
	CourseID  string          `json:"course_id" validate:"required,uuid"`
	Title     string          `json:"title" validate:"required,min=3,max=255"`
	Phases    []PhaseTemplate `json:"phases" validate:"required,min=1,max=20,dive"`
}

type CreateProjectResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Phases    int       `json:"phases"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSubmissionRequest struct {
	ContentRef string `json:"content_ref" validate:"required,max=1024"`
}

type DecisionRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=approve reject"`
	Remark  string `json:"remark" validate:"max=2000"`
}

// PhaseView is a phase with its derived status and submission eligibility,
// as rendered by the console.
type PhaseView struct {
	Phase
	Status      PhaseStatus `json:"status"`
	Submissions int         `json:"submissions"`
	CanSubmit   bool        `json:"can_submit"`
	Reason      string      `json:"reason"`
}

type ProjectProgress struct {
	ApprovedCount int `json:"approved_count"`
	Total         int `json:"total"`
	Percentage    int `json:"percentage"`
}

type ProjectDetailResponse struct {
	Project   Project         `json:"project"`
	Phases    []PhaseView     `json:"phases"`
	Progress  ProjectProgress `json:"progress"`
	NextPhase *PhaseView      `json:"next_phase,omitempty"`
	Completed bool            `json:"completed"`
}

type ProjectProgressResponse struct {
	Progress      ProjectProgress     `json:"progress"`
	Completed     bool                `json:"completed"`
	NextPhaseID   *string             `json:"next_phase_id,omitempty"`
	StatsByStatus map[PhaseStatus]int `json:"stats_by_status"`
}

type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

type SubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
}
