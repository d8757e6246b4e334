package postgres

import (
	"context"
	"errors"
	"math"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/utils"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Insert(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	List(ctx context.Context, search, sortBy, order string, offset, limit int) ([]models.Candidate, int64, error)
	UpdateInterviewResult(ctx context.Context, id, status string, score int, summary string) error
	Stats(ctx context.Context) (*models.CandidateStats, error)
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Insert(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var row models.Candidate
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *candidateRepo) List(ctx context.Context, search, sortBy, order string, offset, limit int) ([]models.Candidate, int64, error) {
	if limit <= 0 {
		limit = 10
	}

	switch sortBy {
	case "name", "email", "score", "created_at", "interview_status":
	default:
		sortBy = "created_at"
	}
	if order != "asc" {
		order = "desc"
	}

	q := r.db.WithContext(ctx).Model(&models.Candidate{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Candidate
	err := q.Order(sortBy + " " + order).Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *candidateRepo) Stats(ctx context.Context) (*models.CandidateStats, error) {
	var out models.CandidateStats

	if err := r.db.WithContext(ctx).Model(&models.Candidate{}).
		Count(&out.TotalCandidates).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("interview_status = ?", models.InterviewCompleted).
		Count(&out.CompletedCandidates).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("interview_status = ?", models.InterviewInProgress).
		Count(&out.InProgressCandidates).Error; err != nil {
		return nil, err
	}
	out.NotStartedCandidates = out.TotalCandidates - out.CompletedCandidates - out.InProgressCandidates

	var avg float64
	if err := r.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("interview_status = ?", models.InterviewCompleted).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	out.AverageScore = int(math.Round(avg))

	return &out, nil
}

func (r *candidateRepo) UpdateInterviewResult(ctx context.Context, id, status string, score int, summary string) error {
	res := r.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"interview_status": status,
			"score":            score,
			"summary":          summary,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
