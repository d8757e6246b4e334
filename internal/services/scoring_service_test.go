package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/providers/llm"
)

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{"short plain answer", "ok", 60},
		{"over fifty chars", strings.Repeat("react manages component state with hooks ", 2)[:60], 75},
		{"over one hundred chars", strings.Repeat("react manages component state with hooks and props ", 3), 85},
		{"code fragment capped", "```js\nconst x = () => 1;\n```" + strings.Repeat(" and this explains the snippet in much more depth", 3), 95},
		{"code marker only", "function add(a, b) { return a + b }", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristicScore(tt.answer)
			assert.Equal(t, tt.want, got.Score)
			assert.Equal(t, tt.want, got.Breakdown.TechnicalAccuracy)
			assert.Equal(t, tt.want-5, got.Breakdown.Clarity)
			assert.Equal(t, tt.want-10, got.Breakdown.Completeness)
			assert.Equal(t, tt.want-5, got.Breakdown.Depth)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestParseScoreJSON(t *testing.T) {
	raw := `Here is my evaluation:
{"score": 88, "reasoning": "Solid grasp of the topic.", "breakdown": {"technical_accuracy": 90, "clarity": 88, "completeness": 85, "depth": 89}}
Hope that helps.`

	got, ok := parseScoreJSON(raw)
	require.True(t, ok)
	assert.Equal(t, 88, got.Score)
	assert.Equal(t, "Solid grasp of the topic.", got.Reasoning)
	assert.Equal(t, models.ScoreBreakdown{
		TechnicalAccuracy: 90,
		Clarity:           88,
		Completeness:      85,
		Depth:             89,
	}, got.Breakdown)
}

func TestParseScoreJSONMissingBreakdownDefaults(t *testing.T) {
	got, ok := parseScoreJSON(`{"score": 70, "reasoning": "Fine."}`)
	require.True(t, ok)
	assert.Equal(t, 70, got.Score)
	assert.Equal(t, models.ScoreBreakdown{
		TechnicalAccuracy: 50,
		Clarity:           50,
		Completeness:      50,
		Depth:             50,
	}, got.Breakdown)
}

func TestParseScoreJSONOutOfRangeScoreUsesBreakdownMean(t *testing.T) {
	got, ok := parseScoreJSON(`{"score": 250, "breakdown": {"technical_accuracy": 80, "clarity": 70, "completeness": 60, "depth": 70}}`)
	require.True(t, ok)
	assert.Equal(t, 70, got.Score)
	assert.Equal(t, "Standard response provided.", got.Reasoning)
}

func TestParseScoreJSONRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "no json here", "{broken", "{]"} {
		if _, ok := parseScoreJSON(raw); ok {
			t.Errorf("parseScoreJSON(%q) accepted garbage", raw)
		}
	}
}

func TestScoreFallsBackOnProviderError(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Err: errors.New("backend down")})
	svc := NewScoringService(provider, nil)

	got := svc.Score(context.Background(), "What is a closure?", "A short one.")
	assert.Equal(t, 60, got.Score)
}

func TestScoreFallsBackOnUnparsableOutput(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Text: "I refuse to emit JSON."})
	svc := NewScoringService(provider, nil)

	got := svc.Score(context.Background(), "What is a closure?", "A short one.")
	assert.Equal(t, 60, got.Score)
}

func TestScoreUsesProviderResult(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{
		Text: `{"score": 92, "reasoning": "Excellent.", "breakdown": {"technical_accuracy": 95, "clarity": 90, "completeness": 90, "depth": 93}}`,
	})
	svc := NewScoringService(provider, nil)

	got := svc.Score(context.Background(), "What is a closure?", "A thorough answer.")
	require.Equal(t, 92, got.Score)
	assert.Equal(t, "Excellent.", got.Reasoning)
	require.Len(t, provider.Prompts, 1)
	assert.Contains(t, provider.Prompts[0], "What is a closure?")
}
