package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionValid(t *testing.T) {
	for _, e := range []Emotion{EmotionCalm, EmotionStressed, EmotionAnxious, EmotionExcited, EmotionNeutral} {
		assert.True(t, e.Valid(), "expected %q to be valid", e)
	}
	assert.False(t, Emotion("furious").Valid())
	assert.False(t, Emotion("").Valid())
}

func TestProfileValid(t *testing.T) {
	for _, p := range []Profile{ProfileSpender, ProfileSaver, ProfileBalanced, ProfileInvestor} {
		assert.True(t, p.Valid(), "expected %q to be valid", p)
	}
	assert.False(t, Profile("gambler").Valid())
}

func TestResultMarshalSuccess(t *testing.T) {
	result := SuccessResult(&Analysis{
		Emotion:          EmotionCalm,
		FinancialProfile: ProfileSaver,
		Confidence:       0.8,
		TopInsights:      []string{"x"},
		Recommendations:  []Recommendation{{Title: "a", Description: "b", Priority: 1}},
		SavingsPlan:      SavingsPlan{TargetAmount: 100, PeriodDays: 30, Steps: []string{"s"}},
	})

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "calm", decoded["emotion"])
	assert.Equal(t, "saver", decoded["financial_profile"])
	assert.NotContains(t, decoded, "error")

	// Recommendations keep the short "desc" key on the wire.
	recs, ok := decoded["recommendations"].([]any)
	require.True(t, ok)
	require.Len(t, recs, 1)
	rec := recs[0].(map[string]any)
	assert.Equal(t, "b", rec["desc"])
}

func TestResultMarshalFailure(t *testing.T) {
	result := FailureResult("model did not return valid JSON", "no balanced object found", "Sure, here you go!")

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "model did not return valid JSON", decoded["error"])
	assert.Equal(t, "Sure, here you go!", decoded["raw_response"])
	assert.NotContains(t, decoded, "emotion")
}

func TestResultMarshalRejectsBothVariants(t *testing.T) {
	result := Result{Analysis: &Analysis{}, Failure: &Failure{Error: "x"}}
	_, err := json.Marshal(result)
	require.Error(t, err)
}

func TestResultMarshalRejectsEmpty(t *testing.T) {
	_, err := json.Marshal(Result{})
	require.Error(t, err)
}
