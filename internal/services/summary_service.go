package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/providers/llm"
)

// AggregateResult is the final outcome of a completed interview.
type AggregateResult struct {
	FinalScore int    `json:"final_score"`
	Summary    string `json:"summary"`
}

// SummaryService reduces all scored slots into one final score and a
// narrative summary. It has no side effects; persistence belongs to the
// state machine. The call never fails: summary generation degrades to a
// template.
type SummaryService interface {
	Aggregate(ctx context.Context, slots []models.QuestionSlot) AggregateResult
}

type summaryService struct {
	provider llm.Provider
	log      *logrus.Logger
	timeout  time.Duration
}

func NewSummaryService(provider llm.Provider, log *logrus.Logger) SummaryService {
	if log == nil {
		log = logrus.New()
	}
	return &summaryService{provider: provider, log: log, timeout: 20 * time.Second}
}

func (s *summaryService) Aggregate(ctx context.Context, slots []models.QuestionSlot) AggregateResult {
	final := finalScore(slots)

	if s.provider == nil {
		return AggregateResult{FinalScore: final, Summary: templateSummary(slots, final)}
	}

	var qa strings.Builder
	for i, slot := range slots {
		fmt.Fprintf(&qa, "Q%d (%s): %s\nA: %s\nScore: %d/100\n\n", i+1, slot.Level, slot.Question, slot.Answer, slot.Score)
	}

	prompt := fmt.Sprintf(`Create a concise interview summary for this candidate based on their responses:

%s
Provide:
- Overall technical competency
- Strengths observed
- Areas for improvement
- Recommendation (hire/consider/pass)

Keep it professional and under 150 words.`, qa.String())

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Complete(cctx, prompt)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		s.log.WithError(err).Warn("summary backend degraded, using template")
		return AggregateResult{FinalScore: final, Summary: templateSummary(slots, final)}
	}

	return AggregateResult{FinalScore: final, Summary: text}
}

// finalScore is the rounded mean of the per-question scores.
func finalScore(slots []models.QuestionSlot) int {
	if len(slots) == 0 {
		return 0
	}
	sum := 0
	for _, slot := range slots {
		sum += slot.Score
	}
	return clampScore(int(math.Round(float64(sum) / float64(len(slots)))))
}

// Recommendation bands for the templated summary.
func recommendation(score int) string {
	switch {
	case score >= 80:
		return "Hire"
	case score < 60:
		return "Pass"
	default:
		return "Consider"
	}
}

func templateSummary(slots []models.QuestionSlot, final int) string {
	completed := 0
	for _, slot := range slots {
		if slot.Answered() {
			completed++
		}
	}

	competency := "limited"
	switch {
	case final >= 70:
		competency = "good"
	case final >= 50:
		competency = "adequate"
	}

	return fmt.Sprintf(`Interview Summary:
Completed %d of %d questions with an average score of %d/100.

The candidate demonstrated %s technical knowledge across the topics covered. Areas of strength include their responses to the questions they answered completely.

Recommendation: %s`, completed, len(slots), final, competency, recommendation(final))
}
