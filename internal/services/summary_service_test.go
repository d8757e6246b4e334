package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/providers/llm"
)

func scoredSlots(scores ...int) []models.QuestionSlot {
	slots := models.NewQuestionSlots()
	for i, sc := range scores {
		slots[i].Question = "q"
		slots[i].Answer = "a"
		slots[i].Score = sc
	}
	return slots
}

func TestFinalScoreRoundedMean(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{"all equal", []int{80, 80, 80, 80, 80, 80}, 80},
		{"rounds half up", []int{70, 70, 70, 70, 70, 73}, 71},
		{"rounds down", []int{70, 70, 70, 70, 70, 71}, 70},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slots []models.QuestionSlot
			if tt.scores != nil {
				slots = scoredSlots(tt.scores...)
			}
			assert.Equal(t, tt.want, finalScore(slots))
		})
	}
}

func TestRecommendationBands(t *testing.T) {
	assert.Equal(t, "Hire", recommendation(80))
	assert.Equal(t, "Hire", recommendation(95))
	assert.Equal(t, "Consider", recommendation(79))
	assert.Equal(t, "Consider", recommendation(60))
	assert.Equal(t, "Pass", recommendation(59))
	assert.Equal(t, "Pass", recommendation(0))
}

func TestTemplateSummary(t *testing.T) {
	slots := scoredSlots(85, 85, 85, 85, 85, 85)
	out := templateSummary(slots, 85)
	assert.Contains(t, out, "Completed 6 of 6 questions")
	assert.Contains(t, out, "85/100")
	assert.Contains(t, out, "good technical knowledge")
	assert.Contains(t, out, "Recommendation: Hire")

	out = templateSummary(scoredSlots(55, 55, 55), 55)
	assert.Contains(t, out, "Completed 3 of 6 questions")
	assert.Contains(t, out, "adequate technical knowledge")
	assert.Contains(t, out, "Recommendation: Pass")

	out = templateSummary(scoredSlots(30), 30)
	assert.Contains(t, out, "limited technical knowledge")
}

func TestAggregateWithoutProvider(t *testing.T) {
	svc := NewSummaryService(nil, nil)

	got := svc.Aggregate(context.Background(), scoredSlots(80, 80, 80, 80, 80, 80))
	assert.Equal(t, 80, got.FinalScore)
	assert.Contains(t, got.Summary, "Recommendation: Hire")
}

func TestAggregateFallsBackOnProviderError(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Err: errors.New("backend down")})
	svc := NewSummaryService(provider, nil)

	got := svc.Aggregate(context.Background(), scoredSlots(50, 50, 50, 50, 50, 50))
	assert.Equal(t, 50, got.FinalScore)
	assert.Contains(t, got.Summary, "Recommendation: Pass")
}

func TestAggregateUsesProviderSummary(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Text: "Strong candidate overall. Recommendation: hire."})
	svc := NewSummaryService(provider, nil)

	got := svc.Aggregate(context.Background(), scoredSlots(90, 90, 90, 90, 90, 90))
	require.Equal(t, 90, got.FinalScore)
	assert.Equal(t, "Strong candidate overall. Recommendation: hire.", got.Summary)
	require.Len(t, provider.Prompts, 1)
	assert.Contains(t, provider.Prompts[0], "Score: 90/100")
}
