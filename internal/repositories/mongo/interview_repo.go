package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InterviewRepository is the durable store for interview sessions, keyed
// by session id and candidate id. Mutations are full-record overwrites;
// no cross-record transactions are needed.
type InterviewRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	GetByCandidateID(ctx context.Context, candidateID string) (*models.InterviewSession, error)
	Replace(ctx context.Context, s *models.InterviewSession) error
	Delete(ctx context.Context, sessionID string) error
}

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepository {
	return &interviewRepo{col: db.Collection("interviews")}
}

// Create inserts a new session. The unique index on candidate_id makes
// this create-if-absent per candidate; a duplicate surfaces as
// utils.ErrDuplicate.
func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	return err
}

func (r *interviewRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *interviewRepo) GetByCandidateID(ctx context.Context, candidateID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"candidate_id": candidateID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *interviewRepo) Replace(ctx context.Context, s *models.InterviewSession) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"session_id": s.SessionID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) Delete(ctx context.Context, sessionID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
