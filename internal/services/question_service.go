package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/providers/llm"
)

// Question is the payload handed to a candidate: the text, its tier, and
// the full answer window for that tier.
type Question struct {
	Text             string      `json:"text"`
	Level            models.Tier `json:"level"`
	TimeLimitSeconds int         `json:"time_limit_seconds"`
}

// QuestionService supplies one interview question for a (tier, ordinal)
// pair. Two calls for the same pair may return different text when the
// generative backend is up; callers must not re-ask for an already
// filled slot. The call never fails: backend trouble degrades silently
// to a fixed per-tier list.
type QuestionService interface {
	Question(ctx context.Context, tier models.Tier, ordinal int) Question
}

// Static fallback lists, indexed by ordinal mod list length.
var fallbackQuestions = map[models.Tier][]string{
	models.TierEasy: {
		"What is React and what are its main benefits?",
		"Explain the difference between let, const, and var in JavaScript.",
		"What is the purpose of the useState hook in React?",
		"What is the difference between == and === in JavaScript?",
		"What is a component in React?",
		"Explain what props are in React.",
	},
	models.TierMedium: {
		"Explain the concept of lifting state up in React.",
		"What is the difference between controlled and uncontrolled components?",
		"How does the useEffect hook work and when would you use it?",
		"What is the difference between synchronous and asynchronous JavaScript?",
		"Explain how promises work in JavaScript.",
		"What is the virtual DOM and how does it improve performance?",
	},
	models.TierHard: {
		"Explain how React's reconciliation algorithm works.",
		"What are some common performance optimization techniques in React?",
		"How would you implement authentication in a full-stack application?",
		"Explain the concept of closures in JavaScript with an example.",
		"What is the difference between useMemo and useCallback hooks?",
		"How would you handle state management in a large React application?",
	},
}

type questionService struct {
	provider llm.Provider
	log      *logrus.Logger
	timeout  time.Duration
}

func NewQuestionService(provider llm.Provider, log *logrus.Logger) QuestionService {
	if log == nil {
		log = logrus.New()
	}
	return &questionService{provider: provider, log: log, timeout: 15 * time.Second}
}

func (s *questionService) Question(ctx context.Context, tier models.Tier, ordinal int) Question {
	q := Question{Level: tier, TimeLimitSeconds: tier.TimeLimitSeconds()}

	if s.provider == nil {
		q.Text = s.fallback(tier, ordinal)
		return q
	}

	prompt := fmt.Sprintf(`Generate a %s level full-stack (React/Node.js) interview question.
This is question %d of %d.

Requirements:
- Should test practical knowledge
- Be specific and clear
- Appropriate for %s level

Return only the question text, no explanations.`, tier, ordinal+1, models.TotalQuestions, tier)

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Complete(cctx, prompt)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		s.log.WithError(err).WithFields(logrus.Fields{
			"tier":    tier,
			"ordinal": ordinal,
		}).Warn("question backend degraded, using fallback list")
		q.Text = s.fallback(tier, ordinal)
		return q
	}

	q.Text = text
	return q
}

func (s *questionService) fallback(tier models.Tier, ordinal int) string {
	list := fallbackQuestions[tier]
	if len(list) == 0 {
		list = fallbackQuestions[models.TierEasy]
	}
	if ordinal < 0 {
		ordinal = 0
	}
	return list[ordinal%len(list)]
}
