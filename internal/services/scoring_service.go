package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/providers/llm"
)

// ScoreResult is one scored answer: a 0-100 composite plus the
// four-dimension breakdown.
type ScoreResult struct {
	Score     int                   `json:"score"`
	Reasoning string                `json:"reasoning"`
	Breakdown models.ScoreBreakdown `json:"breakdown"`
}

// ScoringService scores a (question, answer) pair. It never returns an
// error: when the generative backend is unavailable or its output is
// unparsable, a deterministic heuristic takes over.
type ScoringService interface {
	Score(ctx context.Context, question, answer string) ScoreResult
}

type scoringService struct {
	provider llm.Provider
	log      *logrus.Logger
	timeout  time.Duration
}

func NewScoringService(provider llm.Provider, log *logrus.Logger) ScoringService {
	if log == nil {
		log = logrus.New()
	}
	return &scoringService{provider: provider, log: log, timeout: 20 * time.Second}
}

func (s *scoringService) Score(ctx context.Context, question, answer string) ScoreResult {
	if s.provider == nil {
		return heuristicScore(answer)
	}

	prompt := fmt.Sprintf(`You are an expert technical interviewer. Score this answer comprehensively.

Question: %s
Answer: %s

Provide scoring breakdown and return JSON in this exact format:
{
  "score": 85,
  "reasoning": "Strong technical understanding with good examples, but could explain edge cases better.",
  "breakdown": {
    "technical_accuracy": 90,
    "clarity": 85,
    "completeness": 80,
    "depth": 85
  }
}

Scoring criteria:
- technical_accuracy (0-100): Correctness of information
- clarity (0-100): How well explained and understandable
- completeness (0-100): Covers all aspects of the question
- depth (0-100): Shows deeper understanding and insights
- score: Average of all four criteria
- reasoning: 1-2 sentences explaining the score`, question, answer)

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Complete(cctx, prompt)
	if err != nil {
		s.log.WithError(err).Warn("scoring backend degraded, using heuristic")
		return heuristicScore(answer)
	}

	result, ok := parseScoreJSON(raw)
	if !ok {
		s.log.WithField("raw_len", len(raw)).Warn("scoring backend returned unparsable output, using heuristic")
		return heuristicScore(answer)
	}
	return result
}

func parseScoreJSON(raw string) (ScoreResult, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ScoreResult{}, false
	}

	var parsed struct {
		Score     *int   `json:"score"`
		Reasoning string `json:"reasoning"`
		Breakdown *struct {
			TechnicalAccuracy *int `json:"technical_accuracy"`
			Clarity           *int `json:"clarity"`
			Completeness      *int `json:"completeness"`
			Depth             *int `json:"depth"`
		} `json:"breakdown"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return ScoreResult{}, false
	}

	// Missing breakdown dimensions default to 50.
	breakdown := models.ScoreBreakdown{
		TechnicalAccuracy: 50,
		Clarity:           50,
		Completeness:      50,
		Depth:             50,
	}
	if b := parsed.Breakdown; b != nil {
		if b.TechnicalAccuracy != nil {
			breakdown.TechnicalAccuracy = clampScore(*b.TechnicalAccuracy)
		}
		if b.Clarity != nil {
			breakdown.Clarity = clampScore(*b.Clarity)
		}
		if b.Completeness != nil {
			breakdown.Completeness = clampScore(*b.Completeness)
		}
		if b.Depth != nil {
			breakdown.Depth = clampScore(*b.Depth)
		}
	}

	// Composite is the backend's reported score when present and in
	// range, otherwise the rounded mean of the breakdown.
	composite := roundMean4(breakdown)
	if parsed.Score != nil && *parsed.Score >= 0 && *parsed.Score <= 100 {
		composite = *parsed.Score
	}

	reasoning := strings.TrimSpace(parsed.Reasoning)
	if reasoning == "" {
		reasoning = "Standard response provided."
	}

	return ScoreResult{
		Score:     clampScore(composite),
		Reasoning: reasoning,
		Breakdown: breakdown,
	}, true
}

var codeMarkerRe = regexp.MustCompile("```|function|const|let|=>")

// heuristicScore is the deterministic fallback: base 60, +15 for a
// recognizable code fragment, +15 for answers over 50 characters, +10
// over 100, capped at 95.
func heuristicScore(answer string) ScoreResult {
	trimmed := strings.TrimSpace(answer)

	base := 60
	if codeMarkerRe.MatchString(trimmed) {
		base += 15
	}
	if len(trimmed) > 50 {
		base += 15
	}
	if len(trimmed) > 100 {
		base += 10
	}
	if base > 95 {
		base = 95
	}

	return ScoreResult{
		Score:     clampScore(base),
		Reasoning: "Automated scoring based on response structure and content analysis.",
		Breakdown: models.ScoreBreakdown{
			TechnicalAccuracy: clampScore(base),
			Clarity:           clampScore(base - 5),
			Completeness:      clampScore(base - 10),
			Depth:             clampScore(base - 5),
		},
	}
}

func roundMean4(b models.ScoreBreakdown) int {
	sum := b.TechnicalAccuracy + b.Clarity + b.Completeness + b.Depth
	return int(math.Round(float64(sum) / 4))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
