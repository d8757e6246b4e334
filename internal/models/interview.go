package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InterviewPending    = "pending"
	InterviewInProgress = "in_progress"
	InterviewCompleted  = "completed"
)

// ScoreBreakdown is the fixed four-dimension scoring record. All values
// are 0-100.
type ScoreBreakdown struct {
	TechnicalAccuracy int `bson:"technical_accuracy" json:"technical_accuracy"`
	Clarity           int `bson:"clarity" json:"clarity"`
	Completeness      int `bson:"completeness" json:"completeness"`
	Depth             int `bson:"depth" json:"depth"`
}

// QuestionSlot holds one question/answer/score at a fixed position.
// A slot is created empty, filled once with a question and once with an
// answer plus its score; slots are never reordered or removed.
type QuestionSlot struct {
	Question  string         `bson:"question" json:"question"`
	Answer    string         `bson:"answer" json:"answer"`
	Level     Tier           `bson:"level" json:"level"`
	Score     int            `bson:"score" json:"score"`
	Reasoning string         `bson:"reasoning" json:"reasoning"`
	Breakdown ScoreBreakdown `bson:"breakdown" json:"breakdown"`
}

// Answered reports whether the slot has a submitted answer.
func (q QuestionSlot) Answered() bool { return q.Answer != "" }

type InterviewMetadata struct {
	JobPosition     string   `bson:"job_position,omitempty" json:"job_position,omitempty"`
	ExperienceLevel string   `bson:"experience_level,omitempty" json:"experience_level,omitempty"`
	TechStack       []string `bson:"tech_stack,omitempty" json:"tech_stack,omitempty"`
}

// InterviewSession is the full record of one candidate's six-question
// interview attempt. One candidate owns at most one session; the session
// exclusively owns its ordered question slots.
type InterviewSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"session_id"` // uuid v4
	CandidateID string             `bson:"candidate_id" json:"candidate_id"`

	Status    string            `bson:"status" json:"status"` // pending|in_progress|completed
	Metadata  InterviewMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Questions []QuestionSlot    `bson:"questions" json:"questions"` // fixed length TotalQuestions

	FinalScore int    `bson:"final_score" json:"final_score"` // set only at completed
	Summary    string `bson:"summary" json:"summary"`         // set only at completed

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	StartedAt   *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// NewQuestionSlots returns the fixed-length empty slot sequence with tiers
// pre-derived from position.
func NewQuestionSlots() []QuestionSlot {
	slots := make([]QuestionSlot, TotalQuestions)
	for i := range slots {
		slots[i].Level = TierForOrdinal(i)
	}
	return slots
}

// FirstUnanswered returns the index of the first slot without an answer,
// or -1 when every slot is answered.
func (s *InterviewSession) FirstUnanswered() int {
	for i := range s.Questions {
		if !s.Questions[i].Answered() {
			return i
		}
	}
	return -1
}

// AnsweredCount returns how many slots hold a submitted answer.
func (s *InterviewSession) AnsweredCount() int {
	n := 0
	for i := range s.Questions {
		if s.Questions[i].Answered() {
			n++
		}
	}
	return n
}
