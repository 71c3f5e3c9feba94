// Package analysis implements the analysis request pipeline: prompt rendering,
// response extraction, result validation, and the engine tying them together.
package analysis

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/finospark/finospark/internal/common"
	"github.com/finospark/finospark/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PromptBuilder renders the system instruction and user-data prompt for one
// analysis request. Build is a pure function of its input: identical requests
// produce byte-identical prompts, which keeps the pipeline testable without
// ever calling the external service.
type PromptBuilder struct {
	templates map[string]*template.Template
}

// NewPromptBuilder creates a PromptBuilder with its templates loaded.
func NewPromptBuilder() (*PromptBuilder, error) {
	pb := &PromptBuilder{
		templates: make(map[string]*template.Template),
	}

	funcMap := template.FuncMap{
		"formatAmount": formatAmount,
		"orDefault":    orDefault,
	}

	for _, name := range []string{"system_prompt", "user_prompt"} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)
		tmpl, err := template.New(fmt.Sprintf("%s.tmpl", name)).Funcs(funcMap).ParseFS(templateFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pb.templates[name] = tmpl
	}

	return pb, nil
}

// userPromptData is the view rendered into the user prompt template.
type userPromptData struct {
	UserID       string
	Currency     string
	Notes        string
	Transactions []model.Transaction
	Total        float64
	Average      float64
}

// Build renders the (systemPrompt, userPrompt) pair for a validated request.
func (pb *PromptBuilder) Build(req model.AnalysisRequest) (string, string, error) {
	// Request validation rejects empty batches before the pipeline gets here,
	// but the summary math needs at least one transaction regardless of caller.
	if len(req.Transactions) == 0 {
		return "", "", common.ErrNoTransactions
	}

	var systemBuf bytes.Buffer
	if err := pb.templates["system_prompt"].ExecuteTemplate(&systemBuf, "system_prompt.tmpl", nil); err != nil {
		return "", "", fmt.Errorf("failed to execute system_prompt template: %w", err)
	}

	var total float64
	for _, txn := range req.Transactions {
		total += txn.Amount
	}

	data := userPromptData{
		UserID:       req.UserID,
		Transactions: req.Transactions,
		Total:        total,
		Average:      total / float64(len(req.Transactions)),
		Currency:     req.Transactions[0].Currency,
		Notes:        req.Notes,
	}
	if data.Notes == "" {
		data.Notes = "None provided"
	}

	var userBuf bytes.Buffer
	if err := pb.templates["user_prompt"].ExecuteTemplate(&userBuf, "user_prompt.tmpl", data); err != nil {
		return "", "", fmt.Errorf("failed to execute user_prompt template: %w", err)
	}

	return systemBuf.String(), userBuf.String(), nil
}

// Template helper functions

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
