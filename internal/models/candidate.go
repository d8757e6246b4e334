package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Candidate struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	Name  string `gorm:"column:name;type:text" json:"name"`
	Email string `gorm:"column:email;type:text" json:"email"`
	Phone string `gorm:"column:phone;type:text" json:"phone"`

	ResumePath string `gorm:"column:resume_path;type:text" json:"resume_path"`
	ResumeText string `gorm:"column:resume_text;type:text" json:"resume_text"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	// Extraction provenance per field (value, confidence, source).
	Extraction datatypes.JSON `gorm:"column:extraction;type:jsonb" json:"extraction"`

	InterviewStatus string `gorm:"column:interview_status;type:text" json:"interview_status"` // pending|in_progress|completed
	Score           int    `gorm:"column:score;type:integer" json:"score"`
	Summary         string `gorm:"column:summary;type:text" json:"summary"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Candidate) TableName() string { return "candidates" }

// CandidateStats is the recruiter dashboard rollup: pipeline counts by
// interview status plus the mean final score of completed interviews.
type CandidateStats struct {
	TotalCandidates      int64 `json:"total_candidates"`
	CompletedCandidates  int64 `json:"completed_candidates"`
	InProgressCandidates int64 `json:"in_progress_candidates"`
	NotStartedCandidates int64 `json:"not_started_candidates"`
	AverageScore         int   `json:"average_score"`
}
