package models

type SubmissionReceivedEvent struct {
	SubmissionID string `json:"submission_id"`
	PhaseID      string `json:"phase_id"`
	ProjectID    string `json:"project_id"`
	StudentID    string `json:"student_id"`
	PhaseNumber  int    `json:"phase_number"`
	Timestamp    int64  `json:"timestamp"`
}

type SubmissionReviewedEvent struct {
	SubmissionID     string  `json:"submission_id"`
	PhaseID          string  `json:"phase_id"`
	ProjectID        string  `json:"project_id"`
	StudentID        string  `json:"student_id"`
	Status           string  `json:"status"`
	Remark           *string `json:"remark,omitempty"`
	ProjectCompleted bool    `json:"project_completed"`
	Timestamp        int64   `json:"timestamp"`
}
