package analysis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finospark/finospark/internal/model"
)

// SchemaError names the first constraint of the output contract violated by
// an extracted candidate object.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// candidateAnalysis mirrors model.Analysis with presence-aware fields, since
// the model output may be missing any of them.
type candidateAnalysis struct {
	Emotion          *string                    `json:"emotion"`
	FinancialProfile *string                    `json:"financial_profile"`
	Confidence       *float64                   `json:"confidence"`
	TopInsights      *[]string                  `json:"top_insights"`
	Recommendations  *[]candidateRecommendation `json:"recommendations"`
	SavingsPlan      *candidateSavingsPlan      `json:"savings_plan"`
}

type candidateRecommendation struct {
	Title       *string `json:"title"`
	Description *string `json:"desc"`
	Priority    *int    `json:"priority"`
}

type candidateSavingsPlan struct {
	TargetAmount *float64  `json:"target_amount"`
	PeriodDays   *int      `json:"period_days"`
	Steps        *[]string `json:"steps"`
}

// ValidateResult checks an extracted candidate object against the output
// contract and converts it into a model.Analysis. It fails fast: the returned
// SchemaError names the first violated constraint, not an aggregate. There is
// no best-effort acceptance; the candidate is either wholly valid or rejected.
func ValidateResult(candidate json.RawMessage) (*model.Analysis, error) {
	var c candidateAnalysis
	if err := json.Unmarshal(candidate, &c); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &SchemaError{Field: typeErr.Field, Reason: fmt.Sprintf("expected %s", typeErr.Type)}
		}
		return nil, &SchemaError{Field: "response", Reason: err.Error()}
	}

	if c.Emotion == nil {
		return nil, &SchemaError{Field: "emotion", Reason: "required field is missing"}
	}
	emotion := model.Emotion(*c.Emotion)
	if !emotion.Valid() {
		return nil, &SchemaError{Field: "emotion", Reason: fmt.Sprintf("%q is not one of calm, stressed, anxious, excited, neutral", *c.Emotion)}
	}

	if c.FinancialProfile == nil {
		return nil, &SchemaError{Field: "financial_profile", Reason: "required field is missing"}
	}
	profile := model.Profile(*c.FinancialProfile)
	if !profile.Valid() {
		return nil, &SchemaError{Field: "financial_profile", Reason: fmt.Sprintf("%q is not one of spender, saver, balanced, investor", *c.FinancialProfile)}
	}

	if c.Confidence == nil {
		return nil, &SchemaError{Field: "confidence", Reason: "required field is missing"}
	}
	if *c.Confidence < 0 || *c.Confidence > 1 {
		return nil, &SchemaError{Field: "confidence", Reason: fmt.Sprintf("%v is not between 0 and 1", *c.Confidence)}
	}

	if c.TopInsights == nil {
		return nil, &SchemaError{Field: "top_insights", Reason: "required field is missing"}
	}

	if c.Recommendations == nil {
		return nil, &SchemaError{Field: "recommendations", Reason: "required field is missing"}
	}
	recommendations := make([]model.Recommendation, 0, len(*c.Recommendations))
	prev := 0
	for i, rec := range *c.Recommendations {
		field := fmt.Sprintf("recommendations[%d]", i)
		if rec.Title == nil {
			return nil, &SchemaError{Field: field + ".title", Reason: "required field is missing"}
		}
		if rec.Description == nil {
			return nil, &SchemaError{Field: field + ".desc", Reason: "required field is missing"}
		}
		if rec.Priority == nil {
			return nil, &SchemaError{Field: field + ".priority", Reason: "required field is missing"}
		}
		// Priorities must ascend strictly from 1. The model is told to do
		// this but cannot be trusted to; re-check rather than renumber.
		want := "strictly higher than the previous priority"
		if i == 0 {
			want = "1"
		}
		if (i == 0 && *rec.Priority != 1) || *rec.Priority <= prev {
			return nil, &SchemaError{Field: field + ".priority", Reason: fmt.Sprintf("got %d, want %s", *rec.Priority, want)}
		}
		prev = *rec.Priority
		recommendations = append(recommendations, model.Recommendation{
			Title:       *rec.Title,
			Description: *rec.Description,
			Priority:    *rec.Priority,
		})
	}

	if c.SavingsPlan == nil {
		return nil, &SchemaError{Field: "savings_plan", Reason: "required field is missing"}
	}
	if c.SavingsPlan.TargetAmount == nil {
		return nil, &SchemaError{Field: "savings_plan.target_amount", Reason: "required field is missing"}
	}
	if *c.SavingsPlan.TargetAmount < 0 {
		return nil, &SchemaError{Field: "savings_plan.target_amount", Reason: "must be non-negative"}
	}
	if c.SavingsPlan.PeriodDays == nil {
		return nil, &SchemaError{Field: "savings_plan.period_days", Reason: "required field is missing"}
	}
	if *c.SavingsPlan.PeriodDays <= 0 {
		return nil, &SchemaError{Field: "savings_plan.period_days", Reason: "must be positive"}
	}
	if c.SavingsPlan.Steps == nil {
		return nil, &SchemaError{Field: "savings_plan.steps", Reason: "required field is missing"}
	}

	return &model.Analysis{
		Emotion:          emotion,
		FinancialProfile: profile,
		Confidence:       *c.Confidence,
		TopInsights:      *c.TopInsights,
		Recommendations:  recommendations,
		SavingsPlan: model.SavingsPlan{
			TargetAmount: *c.SavingsPlan.TargetAmount,
			PeriodDays:   *c.SavingsPlan.PeriodDays,
			Steps:        *c.SavingsPlan.Steps,
		},
	}, nil
}
