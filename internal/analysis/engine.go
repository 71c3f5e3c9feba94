package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finospark/finospark/internal/llm"
	"github.com/finospark/finospark/internal/model"
)

// ErrRateLimited is returned when the identity has exhausted its admission
// quota. The HTTP boundary maps it to a 429.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limiter gates admission to the upstream call per identity.
type Limiter interface {
	Allow(identity string) bool
}

// Pipeline runs one analysis request through its stages:
//
//	Received → Validated → Admitted → Prompted → Inferred → Extracted → Result
//
// Validation and admission failures return as errors for the boundary to map
// to 400/429. Every anticipated failure of the external dependency (upstream
// call, extraction, schema) is modeled as an in-band failure Result, so the
// caller always gets diagnosable context instead of a bare server error. The
// pipeline never retries; the upstream call is costly and admission accounting
// has already happened, so retrying is left to the composition root.
type Pipeline struct {
	client  llm.Client
	limiter Limiter
	prompts *PromptBuilder
	logger  *slog.Logger
}

// NewPipeline assembles a pipeline from its injected stages.
func NewPipeline(client llm.Client, limiter Limiter, prompts *PromptBuilder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client:  client,
		limiter: limiter,
		prompts: prompts,
		logger:  logger,
	}
}

// Analyze runs the full pipeline for one request.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalysisRequest) (model.Result, error) {
	if err := req.Validate(); err != nil {
		return model.Result{}, err
	}

	if !p.limiter.Allow(req.UserID) {
		p.logger.Warn("admission denied",
			"user_id", req.UserID)
		return model.Result{}, ErrRateLimited
	}

	systemPrompt, userPrompt, err := p.prompts.Build(req)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to build prompts: %w", err)
	}

	p.logger.Debug("calling inference endpoint",
		"user_id", req.UserID,
		"transactions", len(req.Transactions))

	raw, err := p.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return p.upstreamFailure(req.UserID, err), nil
	}

	candidate, err := ExtractObject(raw)
	if err != nil {
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) {
			p.logger.Warn("no JSON object in completion",
				"user_id", req.UserID,
				"response_bytes", len(extractErr.Raw))
			return model.FailureResult(
				"failed to extract JSON from model response",
				"the model did not return valid JSON",
				extractErr.Raw,
			), nil
		}
		return model.Result{}, err
	}

	result, err := ValidateResult(candidate)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			p.logger.Warn("completion failed schema validation",
				"user_id", req.UserID,
				"field", schemaErr.Field)
			return model.FailureResult("validation failed", schemaErr.Error(), raw), nil
		}
		return model.Result{}, err
	}

	p.logger.Info("analysis completed",
		"user_id", req.UserID,
		"emotion", result.Emotion,
		"financial_profile", result.FinancialProfile,
		"confidence", result.Confidence)

	return model.SuccessResult(result), nil
}

// upstreamFailure converts a gateway error into the in-band failure variant.
func (p *Pipeline) upstreamFailure(userID string, err error) model.Result {
	var upstreamErr *llm.UpstreamError
	if errors.As(err, &upstreamErr) {
		p.logger.Warn("upstream call failed",
			"user_id", userID,
			"kind", string(upstreamErr.Kind),
			"status", upstreamErr.Status)

		switch upstreamErr.Kind {
		case llm.KindHTTPError:
			return model.FailureResult(
				fmt.Sprintf("API request failed with status %d", upstreamErr.Status),
				upstreamErr.Error(),
				upstreamErr.Body,
			)
		case llm.KindTimeout:
			return model.FailureResult("API request timed out", upstreamErr.Error(), "")
		default:
			return model.FailureResult("API request failed", upstreamErr.Error(), "")
		}
	}

	p.logger.Warn("unexpected upstream response",
		"user_id", userID,
		"error", err)
	return model.FailureResult("unexpected error during API call", err.Error(), "")
}
