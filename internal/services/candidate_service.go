package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/hireloop/hireloop/internal/models"
	pgrepo "github.com/hireloop/hireloop/internal/repositories/postgres"
	"github.com/hireloop/hireloop/internal/storage"
	"github.com/hireloop/hireloop/internal/utils"
)

// CandidateNotStarted is the status before any interview exists.
const CandidateNotStarted = "not_started"

// CreateCandidateInput carries the already-extracted resume text plus
// optional manual overrides and the raw file for archival. Turning a
// document into text is the uploader's problem, not ours.
type CreateCandidateInput struct {
	Name   string
	Email  string
	Phone  string
	Skills []string

	ResumeText string

	ResumeFileName string
	ResumeMimeType string
	Resume         io.Reader
}

type CandidateListQuery struct {
	Search string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

// Clamped normalizes page and limit so callers can compute pagination
// metadata from the values actually used for the query.
func (q CandidateListQuery) Clamped() CandidateListQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}
	return q
}

type CandidateService interface {
	// Create returns the stored candidate and the list of fields that
	// could not be filled from the resume or the request.
	Create(ctx context.Context, userID string, in CreateCandidateInput) (*models.Candidate, []string, error)
	Get(ctx context.Context, id string) (*models.Candidate, error)
	List(ctx context.Context, q CandidateListQuery) ([]models.Candidate, int64, error)
	Stats(ctx context.Context) (*models.CandidateStats, error)
}

type candidateService struct {
	candidates pgrepo.CandidateRepository
	extractor  ExtractionService
	uploader   storage.Uploader
	log        *logrus.Logger
}

func NewCandidateService(candidates pgrepo.CandidateRepository, extractor ExtractionService, uploader storage.Uploader, log *logrus.Logger) CandidateService {
	if log == nil {
		log = logrus.New()
	}
	return &candidateService{candidates: candidates, extractor: extractor, uploader: uploader, log: log}
}

func (s *candidateService) Create(ctx context.Context, userID string, in CreateCandidateInput) (*models.Candidate, []string, error) {
	const op = "CandidateService.Create"

	if userID == "" {
		return nil, nil, utils.E(utils.CodeUnauthorized, op, "user_id is required", nil)
	}
	if in.ResumeText == "" && in.Name == "" && in.Email == "" {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "resume_text or manual fields are required", nil)
	}

	id := uuid.NewString()

	resumePath := ""
	if in.Resume != nil && s.uploader != nil {
		object := path.Join("resumes", id, in.ResumeFileName)
		stored, err := s.uploader.Upload(ctx, object, in.ResumeMimeType, in.Resume)
		if err != nil {
			return nil, nil, utils.E(utils.CodeUnavailable, op, "failed to store resume file", err)
		}
		resumePath = stored
	}

	fields := s.extractor.Extract(ctx, in.ResumeText)

	// Manual values win over extraction; every field carries its
	// provenance in the stored extraction record.
	name := pick(in.Name, &fields.Name)
	email := pick(in.Email, &fields.Email)
	phone := pick(in.Phone, &fields.Phone)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}

	extraction, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to encode extraction record", err)
	}

	now := time.Now().UTC()
	row := &models.Candidate{
		ID:              id,
		UserID:          userID,
		Name:            name,
		Email:           email,
		Phone:           phone,
		ResumePath:      resumePath,
		ResumeText:      in.ResumeText,
		Skills:          in.Skills,
		Extraction:      datatypes.JSON(extraction),
		InterviewStatus: CandidateNotStarted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.candidates.Insert(ctx, row); err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to persist candidate", err)
	}
	return row, missing, nil
}

func pick(manual string, extracted *ExtractedField) string {
	if manual != "" {
		extracted.Value = manual
		extracted.Confidence = 1
		extracted.Source = "manual"
		return manual
	}
	return extracted.Value
}

func (s *candidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	const op = "CandidateService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	row, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}
	return row, nil
}

func (s *candidateService) List(ctx context.Context, q CandidateListQuery) ([]models.Candidate, int64, error) {
	const op = "CandidateService.List"

	q = q.Clamped()

	rows, total, err := s.candidates.List(ctx, q.Search, q.SortBy, q.Order, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}
	return rows, total, nil
}

func (s *candidateService) Stats(ctx context.Context) (*models.CandidateStats, error) {
	const op = "CandidateService.Stats"

	stats, err := s.candidates.Stats(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute candidate stats", err)
	}
	return stats, nil
}
