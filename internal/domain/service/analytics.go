package service

import (
	"context"

	"StockMetrics/internal/domain/models"
)

// AIProvider produces the analytical views of a bundle. Every implementation must
// return a usable value for any input; remote providers fall back to the heuristic engine.
type AIProvider interface {
	ID() string
	Name() string
	GenerateInsights(ctx context.Context, in models.AnalysisInput) models.AiInsights
	BeginnerAssessment(ctx context.Context, in models.AnalysisInput) models.BeginnerAssessment
	SummarizeStatement(ctx context.Context, table models.FinancialStatementTable) models.StatementSummary
	SuggestPeers(ctx context.Context, in models.AnalysisInput) models.PeerSuggestion
	ParseScreenerQuery(ctx context.Context, query string) models.ScreenerResult
	AnswerLearningQuestion(ctx context.Context, question string) models.LearningAnswer
}
