package models

import (
	"time"

	"gorm.io/datatypes"
)

// TranscriptEntry is one line of the interview transcript: a question
// issued by the engine or an answer submitted by the candidate.
type TranscriptEntry struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string         `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	Sender    string         `gorm:"column:sender;type:text" json:"sender"` // "interviewer" | "candidate"
	Content   string         `gorm:"column:content;type:text" json:"content"`
	Ordinal   int            `gorm:"column:ordinal;type:integer" json:"ordinal"`
	Timestamp time.Time      `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
}

func (TranscriptEntry) TableName() string { return "transcript_entries" }
