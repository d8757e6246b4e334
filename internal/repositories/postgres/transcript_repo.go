package postgres

import (
	"context"

	"github.com/hireloop/hireloop/internal/models"
	"gorm.io/gorm"
)

type TranscriptRepository interface {
	Insert(ctx context.Context, entry *models.TranscriptEntry) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error)
}

type transcriptRepo struct {
	db *gorm.DB
}

func NewTranscriptRepo(db *gorm.DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Insert(ctx context.Context, entry *models.TranscriptEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *transcriptRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.TranscriptEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
