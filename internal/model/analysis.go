package model

import (
	"encoding/json"
	"fmt"
)

// Emotion is the emotional tone the model detected in the spending data.
type Emotion string

const (
	// EmotionCalm indicates relaxed, unremarkable spending behavior.
	EmotionCalm Emotion = "calm"
	// EmotionStressed indicates spending driven by pressure or urgency.
	EmotionStressed Emotion = "stressed"
	// EmotionAnxious indicates worry reflected in the transactions or notes.
	EmotionAnxious Emotion = "anxious"
	// EmotionExcited indicates impulsive or enthusiastic spending.
	EmotionExcited Emotion = "excited"
	// EmotionNeutral indicates no detectable emotional signal.
	EmotionNeutral Emotion = "neutral"
)

// Valid reports whether the emotion is one of the recognized values.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionCalm, EmotionStressed, EmotionAnxious, EmotionExcited, EmotionNeutral:
		return true
	}
	return false
}

// Profile classifies the user's overall financial behavior.
type Profile string

const (
	// ProfileSpender indicates consumption-heavy behavior.
	ProfileSpender Profile = "spender"
	// ProfileSaver indicates savings-oriented behavior.
	ProfileSaver Profile = "saver"
	// ProfileBalanced indicates a mix of spending and saving.
	ProfileBalanced Profile = "balanced"
	// ProfileInvestor indicates asset-building behavior.
	ProfileInvestor Profile = "investor"
)

// Valid reports whether the profile is one of the recognized values.
func (p Profile) Valid() bool {
	switch p {
	case ProfileSpender, ProfileSaver, ProfileBalanced, ProfileInvestor:
		return true
	}
	return false
}

// Recommendation is a single prioritized suggestion from the analysis.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Priority    int    `json:"priority"`
}

// SavingsPlan is a short savings micro-plan covering a fixed period.
type SavingsPlan struct {
	TargetAmount float64  `json:"target_amount"`
	PeriodDays   int      `json:"period_days"`
	Steps        []string `json:"steps"`
}

// Analysis is the success variant of an analysis result.
type Analysis struct {
	Emotion          Emotion          `json:"emotion"`
	FinancialProfile Profile          `json:"financial_profile"`
	Confidence       float64          `json:"confidence"`
	TopInsights      []string         `json:"top_insights"`
	Recommendations  []Recommendation `json:"recommendations"`
	SavingsPlan      SavingsPlan      `json:"savings_plan"`
}

// Failure is the failure variant of an analysis result. It carries the raw
// model output so a bad completion can be diagnosed after the fact.
type Failure struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// Result is a tagged union of the two analysis outcomes. Exactly one of
// Analysis or Failure is populated, and it marshals as that single object.
type Result struct {
	Analysis *Analysis
	Failure  *Failure
}

// Succeeded reports whether the result holds the success variant.
func (r Result) Succeeded() bool {
	return r.Analysis != nil
}

// MarshalJSON emits whichever variant is populated as one JSON object.
func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case r.Analysis != nil && r.Failure != nil:
		return nil, fmt.Errorf("result has both success and failure variants populated")
	case r.Analysis != nil:
		return json.Marshal(r.Analysis)
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	default:
		return nil, fmt.Errorf("result has no variant populated")
	}
}

// FailureResult builds a failure-variant result.
func FailureResult(msg, details, raw string) Result {
	return Result{Failure: &Failure{Error: msg, Details: details, RawResponse: raw}}
}

// SuccessResult builds a success-variant result.
func SuccessResult(a *Analysis) Result {
	return Result{Analysis: a}
}
