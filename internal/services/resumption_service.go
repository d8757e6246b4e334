package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/hireloop/hireloop/internal/cache"
	"github.com/hireloop/hireloop/internal/models"
	mongorepo "github.com/hireloop/hireloop/internal/repositories/mongo"
	"github.com/hireloop/hireloop/internal/utils"
)

// Checkpoint is the client-held progress snapshot presented after a
// reconnect. It is a hint only; the stored session always wins.
type Checkpoint struct {
	Ordinal        int         `json:"ordinal"`
	Level          models.Tier `json:"level"`
	ElapsedSeconds int         `json:"elapsed_seconds"`
}

const (
	ResumeCompleted = "completed"
	ResumeContinue  = "continue"
)

// ResumeDecision tells a reconnecting client where it stands. When the
// session still has unanswered slots the client chooses between
// continuing at ResumeOrdinal and restarting; the engine never discards
// progress on its own. The resumed timer always restarts at the slot's
// full time limit regardless of the checkpoint's elapsed time.
type ResumeDecision struct {
	Status             string `json:"status"` // completed|continue
	SessionID          string `json:"session_id"`
	ResumeOrdinal      int    `json:"resume_ordinal"`
	QuestionsCompleted int    `json:"questions_completed"`
	TotalQuestions     int    `json:"total_questions"`
	TimeLimitSeconds   int    `json:"time_limit_seconds,omitempty"`
	FinalScore         int    `json:"final_score,omitempty"`
	Summary            string `json:"summary,omitempty"`
	CanRestart         bool   `json:"can_restart"`
}

// ResumptionService reconciles client-held progress with the
// authoritative session. Reconcile is read-only; Restart discards the
// session so the caller can create a fresh one, and is only ever invoked
// as an explicit client choice.
type ResumptionService interface {
	Reconcile(ctx context.Context, sessionID string, cp *Checkpoint) (*ResumeDecision, error)
	Restart(ctx context.Context, sessionID string) error
}

type resumptionService struct {
	interviews mongorepo.InterviewRepository
	cache      cache.Cache
	log        *logrus.Logger
}

func NewResumptionService(interviews mongorepo.InterviewRepository, c cache.Cache, log *logrus.Logger) ResumptionService {
	if log == nil {
		log = logrus.New()
	}
	return &resumptionService{interviews: interviews, cache: c, log: log}
}

func (s *resumptionService) Reconcile(ctx context.Context, sessionID string, cp *Checkpoint) (*ResumeDecision, error) {
	const op = "ResumptionService.Reconcile"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	session, err := s.interviews.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}

	if session.Status == models.InterviewCompleted {
		return &ResumeDecision{
			Status:             ResumeCompleted,
			SessionID:          sessionID,
			QuestionsCompleted: session.AnsweredCount(),
			TotalQuestions:     models.TotalQuestions,
			FinalScore:         session.FinalScore,
			Summary:            session.Summary,
		}, nil
	}

	idx := session.FirstUnanswered()
	if idx < 0 {
		idx = 0
	}

	if cp != nil && cp.Ordinal != idx {
		s.log.WithFields(logrus.Fields{
			"session_id":       sessionID,
			"client_ordinal":   cp.Ordinal,
			"server_ordinal":   idx,
			"elapsed_reported": cp.ElapsedSeconds,
		}).Info("client checkpoint diverged from stored session, server wins")
	}

	tier := models.TierForOrdinal(idx)
	return &ResumeDecision{
		Status:             ResumeContinue,
		SessionID:          sessionID,
		ResumeOrdinal:      idx,
		QuestionsCompleted: session.AnsweredCount(),
		TotalQuestions:     models.TotalQuestions,
		TimeLimitSeconds:   tier.TimeLimitSeconds(),
		CanRestart:         true,
	}, nil
}

func (s *resumptionService) Restart(ctx context.Context, sessionID string) error {
	const op = "ResumptionService.Restart"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	if err := s.interviews.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to discard interview", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, interviewCacheKey(sessionID))
	}
	return nil
}
