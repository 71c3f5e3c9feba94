package analysis

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/finospark/finospark/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validCandidate returns a candidate object that passes every check, as a map
// so individual tests can break one field at a time.
func validCandidate() map[string]any {
	return map[string]any{
		"emotion":           "calm",
		"financial_profile": "saver",
		"confidence":        0.8,
		"top_insights":      []any{"x"},
		"recommendations": []any{
			map[string]any{"title": "a", "desc": "b", "priority": 1},
			map[string]any{"title": "c", "desc": "d", "priority": 2},
		},
		"savings_plan": map[string]any{
			"target_amount": 100.0,
			"period_days":   30,
			"steps":         []any{"s"},
		},
	}
}

func marshalCandidate(t *testing.T, c map[string]any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	return data
}

func TestValidateResultAcceptsValidObject(t *testing.T) {
	analysis, err := ValidateResult(marshalCandidate(t, validCandidate()))
	require.NoError(t, err)

	assert.Equal(t, model.EmotionCalm, analysis.Emotion)
	assert.Equal(t, model.ProfileSaver, analysis.FinancialProfile)
	assert.Equal(t, 0.8, analysis.Confidence)
	assert.Equal(t, []string{"x"}, analysis.TopInsights)
	require.Len(t, analysis.Recommendations, 2)
	assert.Equal(t, model.Recommendation{Title: "a", Description: "b", Priority: 1}, analysis.Recommendations[0])
	assert.Equal(t, model.SavingsPlan{TargetAmount: 100, PeriodDays: 30, Steps: []string{"s"}}, analysis.SavingsPlan)
}

func TestValidateResultRejections(t *testing.T) {
	tests := []struct {
		mutate    func(map[string]any)
		name      string
		wantField string
	}{
		{
			name:      "confidence above bound",
			mutate:    func(c map[string]any) { c["confidence"] = 1.5 },
			wantField: "confidence",
		},
		{
			name:      "confidence below bound",
			mutate:    func(c map[string]any) { c["confidence"] = -0.1 },
			wantField: "confidence",
		},
		{
			name:      "emotion outside enum",
			mutate:    func(c map[string]any) { c["emotion"] = "furious" },
			wantField: "emotion",
		},
		{
			name:      "profile outside enum",
			mutate:    func(c map[string]any) { c["financial_profile"] = "gambler" },
			wantField: "financial_profile",
		},
		{
			name:      "missing emotion",
			mutate:    func(c map[string]any) { delete(c, "emotion") },
			wantField: "emotion",
		},
		{
			name:      "missing confidence",
			mutate:    func(c map[string]any) { delete(c, "confidence") },
			wantField: "confidence",
		},
		{
			name:      "missing insights",
			mutate:    func(c map[string]any) { delete(c, "top_insights") },
			wantField: "top_insights",
		},
		{
			name:      "missing recommendations",
			mutate:    func(c map[string]any) { delete(c, "recommendations") },
			wantField: "recommendations",
		},
		{
			name:      "missing savings plan",
			mutate:    func(c map[string]any) { delete(c, "savings_plan") },
			wantField: "savings_plan",
		},
		{
			name: "priorities not ascending from 1",
			mutate: func(c map[string]any) {
				c["recommendations"] = []any{
					map[string]any{"title": "a", "desc": "b", "priority": 2},
					map[string]any{"title": "c", "desc": "d", "priority": 1},
					map[string]any{"title": "e", "desc": "f", "priority": 3},
				}
			},
			wantField: "recommendations[0].priority",
		},
		{
			name: "duplicate priorities",
			mutate: func(c map[string]any) {
				c["recommendations"] = []any{
					map[string]any{"title": "a", "desc": "b", "priority": 1},
					map[string]any{"title": "c", "desc": "d", "priority": 1},
				}
			},
			wantField: "recommendations[1].priority",
		},
		{
			name: "recommendation missing desc",
			mutate: func(c map[string]any) {
				c["recommendations"] = []any{
					map[string]any{"title": "a", "priority": 1},
				}
			},
			wantField: "recommendations[0].desc",
		},
		{
			name: "period days zero",
			mutate: func(c map[string]any) {
				c["savings_plan"].(map[string]any)["period_days"] = 0
			},
			wantField: "savings_plan.period_days",
		},
		{
			name: "negative target amount",
			mutate: func(c map[string]any) {
				c["savings_plan"].(map[string]any)["target_amount"] = -10.0
			},
			wantField: "savings_plan.target_amount",
		},
		{
			name:      "wrong type for confidence",
			mutate:    func(c map[string]any) { c["confidence"] = "high" },
			wantField: "confidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()
			tt.mutate(candidate)

			_, err := ValidateResult(marshalCandidate(t, candidate))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.wantField, schemaErr.Field)
		})
	}
}

func TestValidateResultFailsFast(t *testing.T) {
	candidate := validCandidate()
	candidate["emotion"] = "furious"
	candidate["confidence"] = 9.0

	_, err := ValidateResult(marshalCandidate(t, candidate))
	require.Error(t, err)

	// Only the first violation in field order is reported.
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "emotion", schemaErr.Field)
}

func TestValidateResultStrictlyIncreasingNonContiguous(t *testing.T) {
	// Strictly increasing from 1 is acceptable even with gaps.
	candidate := validCandidate()
	candidate["recommendations"] = []any{
		map[string]any{"title": "a", "desc": "b", "priority": 1},
		map[string]any{"title": "c", "desc": "d", "priority": 3},
		map[string]any{"title": "e", "desc": "f", "priority": 7},
	}

	analysis, err := ValidateResult(marshalCandidate(t, candidate))
	require.NoError(t, err)
	require.Len(t, analysis.Recommendations, 3)
}

func TestValidateResultIgnoresUnknownFields(t *testing.T) {
	candidate := validCandidate()
	candidate["mood_ring_color"] = "purple"

	_, err := ValidateResult(marshalCandidate(t, candidate))
	require.NoError(t, err)
}

func TestValidateResultNotJSONObject(t *testing.T) {
	_, err := ValidateResult(json.RawMessage(`[1,2,3]`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestValidateResultBoundaryConfidence(t *testing.T) {
	for _, conf := range []float64{0, 1} {
		candidate := validCandidate()
		candidate["confidence"] = conf

		_, err := ValidateResult(marshalCandidate(t, candidate))
		require.NoError(t, err, fmt.Sprintf("confidence %v is within bounds", conf))
	}
}
