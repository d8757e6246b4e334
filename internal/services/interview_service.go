package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hireloop/hireloop/internal/cache"
	"github.com/hireloop/hireloop/internal/events"
	"github.com/hireloop/hireloop/internal/models"
	mongorepo "github.com/hireloop/hireloop/internal/repositories/mongo"
	pgrepo "github.com/hireloop/hireloop/internal/repositories/postgres"
	"github.com/hireloop/hireloop/internal/utils"
)

// StartResult is the reply to a start request: the first unanswered
// question and its 1-based position.
type StartResult struct {
	SessionID      string   `json:"session_id"`
	Question       Question `json:"question"`
	QuestionNumber int      `json:"question_number"`
	TotalQuestions int      `json:"total_questions"`
}

// SubmitResult is the reply to an answer submission.
type SubmitResult struct {
	Ordinal      int                   `json:"ordinal"`
	Score        int                   `json:"score"`
	Reasoning    string                `json:"reasoning"`
	Breakdown    models.ScoreBreakdown `json:"breakdown"`
	NextQuestion *Question             `json:"next_question,omitempty"`
	IsComplete   bool                  `json:"is_complete"`
}

// InterviewService owns the session lifecycle: pending on creation,
// in progress once the first question is issued, completed when all six
// slots are answered and scored. Slot mutations for one session are
// serialized behind a per-session lock; different sessions run in
// parallel.
type InterviewService interface {
	Create(ctx context.Context, candidateID string, md models.InterviewMetadata) (*models.InterviewSession, error)
	Start(ctx context.Context, sessionID string) (*StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, ordinal int, answer string) (*SubmitResult, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	GetByCandidate(ctx context.Context, candidateID string) (*models.InterviewSession, error)
	Transcript(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error)
}

// InterviewDeps wires the state machine to its collaborators. Candidates,
// Transcripts, Cache, and Events are optional; a nil value disables that
// concern.
type InterviewDeps struct {
	Interviews  mongorepo.InterviewRepository
	Candidates  pgrepo.CandidateRepository
	Transcripts pgrepo.TranscriptRepository
	Questions   QuestionService
	Scorer      ScoringService
	Aggregator  SummaryService
	Cache       cache.Cache
	Events      events.Publisher
	Logger      *logrus.Logger
}

type interviewService struct {
	InterviewDeps
	locks keyedLocks
}

func NewInterviewService(d InterviewDeps) InterviewService {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &interviewService{InterviewDeps: d}
}

// keyedLocks serializes work per session id. Entries live for the
// service lifetime; the map is bounded by the number of sessions touched
// by this process.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

const interviewCacheTTL = 30 * time.Second

func interviewCacheKey(sessionID string) string { return "interview:" + sessionID }

func (s *interviewService) Create(ctx context.Context, candidateID string, md models.InterviewMetadata) (*models.InterviewSession, error) {
	const op = "InterviewService.Create"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	if s.Candidates != nil {
		if _, err := s.Candidates.GetByID(ctx, candidateID); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to look up candidate", err)
		}
	}

	session := &models.InterviewSession{
		SessionID:   uuid.NewString(),
		CandidateID: candidateID,
		Status:      models.InterviewPending,
		Metadata:    md,
		Questions:   models.NewQuestionSlots(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Interviews.Create(ctx, session); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "interview already exists for this candidate", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}

	s.updateCandidate(ctx, candidateID, models.InterviewPending, 0, "")
	return session, nil
}

func (s *interviewService) Start(ctx context.Context, sessionID string) (*StartResult, error) {
	const op = "InterviewService.Start"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	unlock := s.locks.acquire(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID, op)
	if err != nil {
		return nil, err
	}

	dirty := false
	if session.Status == models.InterviewPending {
		session.Status = models.InterviewInProgress
		if session.StartedAt == nil {
			now := time.Now().UTC()
			session.StartedAt = &now
		}
		dirty = true
	}

	// Resume at the first unanswered slot. Starting an already running
	// session is a no-op that re-reports the current question.
	idx := session.FirstUnanswered()
	if idx < 0 {
		if dirty {
			if err := s.save(ctx, session); err != nil {
				return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
			}
		}
		// Every slot already holds an answer; synthesize a fresh
		// question rather than re-serving an answered one or failing.
		q := s.Questions.Question(ctx, models.TierForOrdinal(models.TotalQuestions), models.TotalQuestions)
		return &StartResult{
			SessionID:      sessionID,
			Question:       q,
			QuestionNumber: models.TotalQuestions + 1,
			TotalQuestions: models.TotalQuestions,
		}, nil
	}

	if session.Questions[idx].Question == "" {
		q := s.Questions.Question(ctx, models.TierForOrdinal(idx), idx)
		session.Questions[idx].Question = q.Text
		s.recordTranscript(ctx, sessionID, "interviewer", q.Text, idx)
		dirty = true
	}

	if dirty {
		if err := s.save(ctx, session); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
		}
		s.publish(ctx, sessionID, map[string]any{
			"type":    "question_issued",
			"ordinal": idx,
			"level":   models.TierForOrdinal(idx),
		})
	}

	tier := models.TierForOrdinal(idx)
	return &StartResult{
		SessionID: sessionID,
		Question: Question{
			Text:             session.Questions[idx].Question,
			Level:            tier,
			TimeLimitSeconds: tier.TimeLimitSeconds(),
		},
		QuestionNumber: idx + 1,
		TotalQuestions: models.TotalQuestions,
	}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID string, ordinal int, answer string) (*SubmitResult, error) {
	const op = "InterviewService.SubmitAnswer"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if ordinal < 0 || ordinal >= models.TotalQuestions {
		return nil, utils.E(utils.CodeInvalidArgument, op, "ordinal must be within [0,5]", nil)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "answer text is required", nil)
	}

	unlock := s.locks.acquire(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID, op)
	if err != nil {
		return nil, err
	}

	if session.Status == models.InterviewPending {
		session.Status = models.InterviewInProgress
		if session.StartedAt == nil {
			now := time.Now().UTC()
			session.StartedAt = &now
		}
	}

	tier := models.TierForOrdinal(ordinal)
	slot := &session.Questions[ordinal]

	// Answers may arrive for a slot whose question was never issued
	// (client drift); fetch one so scoring has context.
	if slot.Question == "" {
		q := s.Questions.Question(ctx, tier, ordinal)
		slot.Question = q.Text
		s.recordTranscript(ctx, sessionID, "interviewer", q.Text, ordinal)
	}

	// Scoring never fails; backend trouble degrades to the heuristic.
	res := s.Scorer.Score(ctx, slot.Question, answer)

	// Last write wins: resubmission overwrites the slot.
	slot.Answer = answer
	slot.Level = tier
	slot.Score = res.Score
	slot.Reasoning = res.Reasoning
	slot.Breakdown = res.Breakdown

	s.recordTranscript(ctx, sessionID, "candidate", answer, ordinal)

	out := &SubmitResult{
		Ordinal:   ordinal,
		Score:     res.Score,
		Reasoning: res.Reasoning,
		Breakdown: res.Breakdown,
	}

	if next := session.FirstUnanswered(); next < 0 {
		agg := s.Aggregator.Aggregate(ctx, session.Questions)
		session.FinalScore = agg.FinalScore
		session.Summary = agg.Summary
		session.Status = models.InterviewCompleted
		if session.CompletedAt == nil {
			now := time.Now().UTC()
			session.CompletedAt = &now
		}
		out.IsComplete = true
	} else {
		if session.Questions[next].Question == "" {
			q := s.Questions.Question(ctx, models.TierForOrdinal(next), next)
			session.Questions[next].Question = q.Text
			s.recordTranscript(ctx, sessionID, "interviewer", q.Text, next)
		}
		nextTier := models.TierForOrdinal(next)
		out.NextQuestion = &Question{
			Text:             session.Questions[next].Question,
			Level:            nextTier,
			TimeLimitSeconds: nextTier.TimeLimitSeconds(),
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}

	if out.IsComplete {
		s.updateCandidate(ctx, session.CandidateID, models.InterviewCompleted, session.FinalScore, session.Summary)
		s.publish(ctx, sessionID, map[string]any{
			"type":        "completed",
			"final_score": session.FinalScore,
		})
	} else {
		s.publish(ctx, sessionID, map[string]any{
			"type":    "answer_scored",
			"ordinal": ordinal,
			"score":   res.Score,
		})
	}

	return out, nil
}

func (s *interviewService) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	if s.Cache != nil {
		var cached models.InterviewSession
		if hit, err := s.Cache.GetJSON(ctx, interviewCacheKey(sessionID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	session, err := s.load(ctx, sessionID, op)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		_ = s.Cache.SetJSON(ctx, interviewCacheKey(sessionID), session, interviewCacheTTL)
	}
	return session, nil
}

func (s *interviewService) GetByCandidate(ctx context.Context, candidateID string) (*models.InterviewSession, error) {
	const op = "InterviewService.GetByCandidate"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	session, err := s.Interviews.GetByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	return session, nil
}

func (s *interviewService) Transcript(ctx context.Context, sessionID string, limit int) ([]models.TranscriptEntry, error) {
	const op = "InterviewService.Transcript"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if s.Transcripts == nil {
		return nil, nil
	}

	if _, err := s.load(ctx, sessionID, op); err != nil {
		return nil, err
	}

	rows, err := s.Transcripts.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list transcript", err)
	}
	return rows, nil
}

func (s *interviewService) load(ctx context.Context, sessionID, op string) (*models.InterviewSession, error) {
	session, err := s.Interviews.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	return session, nil
}

func (s *interviewService) save(ctx context.Context, session *models.InterviewSession) error {
	if err := s.Interviews.Replace(ctx, session); err != nil {
		return err
	}
	if s.Cache != nil {
		_ = s.Cache.Del(ctx, interviewCacheKey(session.SessionID))
	}
	return nil
}

func (s *interviewService) recordTranscript(ctx context.Context, sessionID, sender, content string, ordinal int) {
	if s.Transcripts == nil {
		return
	}
	entry := &models.TranscriptEntry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		Ordinal:   ordinal,
		Timestamp: time.Now().UTC(),
	}
	if err := s.Transcripts.Insert(ctx, entry); err != nil {
		s.Logger.WithError(err).WithField("session_id", sessionID).Warn("failed to record transcript entry")
	}
}

func (s *interviewService) updateCandidate(ctx context.Context, candidateID, status string, score int, summary string) {
	if s.Candidates == nil {
		return
	}
	if err := s.Candidates.UpdateInterviewResult(ctx, candidateID, status, score, summary); err != nil {
		s.Logger.WithError(err).WithField("candidate_id", candidateID).Warn("failed to update candidate interview result")
	}
}

func (s *interviewService) publish(ctx context.Context, sessionID string, event any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, sessionID, event); err != nil {
		s.Logger.WithError(err).WithField("session_id", sessionID).Debug("failed to publish session event")
	}
}
