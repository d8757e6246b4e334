package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/utils"
)

type memCandidateRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Candidate
}

func newMemCandidateRepo() *memCandidateRepo {
	return &memCandidateRepo{rows: make(map[string]*models.Candidate)}
}

func (r *memCandidateRepo) Insert(_ context.Context, c *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *memCandidateRepo) GetByID(_ context.Context, id string) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCandidateRepo) List(_ context.Context, _, _, _ string, _, limit int) ([]models.Candidate, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Candidate
	for _, c := range r.rows {
		if len(out) < limit {
			out = append(out, *c)
		}
	}
	return out, int64(len(r.rows)), nil
}

func (r *memCandidateRepo) UpdateInterviewResult(_ context.Context, id, status string, score int, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.InterviewStatus = status
	c.Score = score
	c.Summary = summary
	return nil
}

func (r *memCandidateRepo) Stats(_ context.Context) (*models.CandidateStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out models.CandidateStats
	sum, scored := 0, int64(0)
	for _, c := range r.rows {
		out.TotalCandidates++
		switch c.InterviewStatus {
		case models.InterviewCompleted:
			out.CompletedCandidates++
			sum += c.Score
			scored++
		case models.InterviewInProgress:
			out.InProgressCandidates++
		}
	}
	out.NotStartedCandidates = out.TotalCandidates - out.CompletedCandidates - out.InProgressCandidates
	if scored > 0 {
		out.AverageScore = sum / int(scored)
	}
	return &out, nil
}

type memUploader struct {
	objects map[string][]byte
}

func (u *memUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[objectName] = b
	return objectName, nil
}

func TestCreateCandidateFromResumeText(t *testing.T) {
	repo := newMemCandidateRepo()
	svc := NewCandidateService(repo, NewExtractionService(nil, nil), nil, nil)

	row, missing, err := svc.Create(context.Background(), "user-1", CreateCandidateInput{
		ResumeText: sampleResume,
		Skills:     []string{"react", "node"},
	})
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "Jane Smith", row.Name)
	assert.Equal(t, "jane.smith@example.com", row.Email)
	assert.Equal(t, "555-123-4567", row.Phone)
	assert.Equal(t, CandidateNotStarted, row.InterviewStatus)

	var fields ExtractedFields
	require.NoError(t, json.Unmarshal(row.Extraction, &fields))
	assert.Equal(t, "regex", fields.Email.Source)

	stored, err := repo.GetByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.Email, stored.Email)
}

func TestCreateCandidateManualOverrideWins(t *testing.T) {
	repo := newMemCandidateRepo()
	svc := NewCandidateService(repo, NewExtractionService(nil, nil), nil, nil)

	row, missing, err := svc.Create(context.Background(), "user-1", CreateCandidateInput{
		Name:       "J. Smith",
		ResumeText: sampleResume,
	})
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "J. Smith", row.Name)

	var fields ExtractedFields
	require.NoError(t, json.Unmarshal(row.Extraction, &fields))
	assert.Equal(t, "manual", fields.Name.Source)
	assert.Equal(t, float64(1), fields.Name.Confidence)
}

func TestCreateCandidateReportsMissingFields(t *testing.T) {
	repo := newMemCandidateRepo()
	svc := NewCandidateService(repo, NewExtractionService(nil, nil), nil, nil)

	_, missing, err := svc.Create(context.Background(), "user-1", CreateCandidateInput{
		ResumeText: "an anonymous resume with no contact details",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"name", "email", "phone"}, missing)
}

func TestCreateCandidateArchivesResumeFile(t *testing.T) {
	repo := newMemCandidateRepo()
	up := &memUploader{}
	svc := NewCandidateService(repo, NewExtractionService(nil, nil), up, nil)

	row, _, err := svc.Create(context.Background(), "user-1", CreateCandidateInput{
		ResumeText:     sampleResume,
		Resume:         strings.NewReader("%PDF-1.4 fake"),
		ResumeFileName: "resume.pdf",
		ResumeMimeType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "resumes/"+row.ID+"/resume.pdf", row.ResumePath)
	assert.Equal(t, []byte("%PDF-1.4 fake"), up.objects[row.ResumePath])
}

func TestCreateCandidateValidation(t *testing.T) {
	svc := NewCandidateService(newMemCandidateRepo(), NewExtractionService(nil, nil), nil, nil)

	_, _, err := svc.Create(context.Background(), "", CreateCandidateInput{ResumeText: "x"})
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, _, err = svc.Create(context.Background(), "user-1", CreateCandidateInput{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestGetCandidateNotFound(t *testing.T) {
	svc := NewCandidateService(newMemCandidateRepo(), NewExtractionService(nil, nil), nil, nil)

	_, err := svc.Get(context.Background(), "nope")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestCandidateStats(t *testing.T) {
	repo := newMemCandidateRepo()
	svc := NewCandidateService(repo, NewExtractionService(nil, nil), nil, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		row, _, err := svc.Create(ctx, "user-1", CreateCandidateInput{ResumeText: sampleResume})
		require.NoError(t, err)
		ids = append(ids, row.ID)
	}
	require.NoError(t, repo.UpdateInterviewResult(ctx, ids[0], models.InterviewCompleted, 80, "s"))
	require.NoError(t, repo.UpdateInterviewResult(ctx, ids[1], models.InterviewCompleted, 60, "s"))
	require.NoError(t, repo.UpdateInterviewResult(ctx, ids[2], models.InterviewInProgress, 0, ""))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalCandidates)
	assert.Equal(t, int64(2), stats.CompletedCandidates)
	assert.Equal(t, int64(1), stats.InProgressCandidates)
	assert.Equal(t, int64(1), stats.NotStartedCandidates)
	assert.Equal(t, 70, stats.AverageScore)
}

func TestListCandidatesPaginationDefaults(t *testing.T) {
	repo := newMemCandidateRepo()
	svc := NewCandidateService(repo, NewExtractionService(nil, nil), nil, nil)

	for i := 0; i < 12; i++ {
		_, _, err := svc.Create(context.Background(), "user-1", CreateCandidateInput{ResumeText: sampleResume})
		require.NoError(t, err)
	}

	rows, total, err := svc.List(context.Background(), CandidateListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, rows, 10)
}
