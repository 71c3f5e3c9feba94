package analysis

import (
	"strings"
	"testing"

	"github.com/finospark/finospark/internal/common"
	"github.com/finospark/finospark/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() model.AnalysisRequest {
	return model.AnalysisRequest{
		UserID: "user123",
		Transactions: []model.Transaction{
			{Date: "2025-10-20", Amount: 1500, Currency: "INR", Merchant: "Grocery Store", Category: "Food"},
		},
		Notes: "saving money",
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	req := testRequest()
	system1, user1, err := pb.Build(req)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		system2, user2, err := pb.Build(req)
		require.NoError(t, err)
		assert.Equal(t, system1, system2, "system prompt must be byte-identical across calls")
		assert.Equal(t, user1, user2, "user prompt must be byte-identical across calls")
	}
}

func TestBuildRejectsEmptyBatch(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	_, _, err = pb.Build(model.AnalysisRequest{UserID: "user123"})
	require.ErrorIs(t, err, common.ErrNoTransactions)
}

func TestBuildSystemPromptFixesContract(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	system, _, err := pb.Build(testRequest())
	require.NoError(t, err)

	// The contract enumerates every field and every enum value.
	for _, want := range []string{
		"emotion", "financial_profile", "confidence", "top_insights",
		"recommendations", "savings_plan", "target_amount", "period_days", "steps",
		"calm", "stressed", "anxious", "excited", "neutral",
		"spender", "saver", "balanced", "investor",
		"ONLY valid JSON",
	} {
		assert.Contains(t, system, want)
	}
}

func TestBuildUserPromptRendersTransactions(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	_, user, err := pb.Build(testRequest())
	require.NoError(t, err)

	assert.Contains(t, user, "user123")
	assert.Contains(t, user, "1 total")
	assert.Contains(t, user, "- 2025-10-20: INR 1500.00 at Grocery Store (Food)")
	assert.Contains(t, user, "saving money")
}

func TestBuildUserPromptSummary(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	req := model.AnalysisRequest{
		UserID: "u",
		Transactions: []model.Transaction{
			{Date: "2025-10-20", Amount: 1500, Currency: "INR", Merchant: "A", Category: "Food", Note: "weekly"},
			{Date: "2025-10-21", Amount: 500, Currency: "INR", Merchant: "B", Category: "Coffee"},
		},
	}

	_, user, err := pb.Build(req)
	require.NoError(t, err)

	assert.Contains(t, user, "2 total")
	assert.Contains(t, user, "Total spent: INR 2000.00")
	assert.Contains(t, user, "Average transaction: INR 1000.00")
	assert.Contains(t, user, " - weekly")
	assert.Contains(t, user, "None provided")
}

func TestBuildUserPromptFallbacks(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	req := model.AnalysisRequest{
		UserID: "u",
		Transactions: []model.Transaction{
			{Date: "2025-10-20", Amount: 10, Currency: "USD"},
		},
	}

	_, user, err := pb.Build(req)
	require.NoError(t, err)

	assert.Contains(t, user, "at Unknown (Uncategorized)")
}

func TestBuildPreservesInputOrder(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	req := model.AnalysisRequest{
		UserID: "u",
		Transactions: []model.Transaction{
			{Date: "2025-10-22", Amount: 3, Currency: "USD", Merchant: "Third", Category: "c"},
			{Date: "2025-10-20", Amount: 1, Currency: "USD", Merchant: "First", Category: "a"},
			{Date: "2025-10-21", Amount: 2, Currency: "USD", Merchant: "Second", Category: "b"},
		},
	}

	_, user, err := pb.Build(req)
	require.NoError(t, err)

	third := indexOf(t, user, "Third")
	first := indexOf(t, user, "First")
	second := indexOf(t, user, "Second")
	assert.Less(t, third, first, "transactions must render in input order, not date order")
	assert.Less(t, first, second)
}

func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	idx := strings.Index(s, substr)
	require.GreaterOrEqual(t, idx, 0, "expected %q in prompt", substr)
	return idx
}
