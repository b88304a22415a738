package usecase

import (
	"context"
	"time"

	"StockMetrics/internal/domain/models"
	domsvc "StockMetrics/internal/domain/service"
	"StockMetrics/internal/service/metrics"
)

// InsightsService runs the analytics provider over detail bundles. Results are
// computed per request and never cached.
type InsightsService struct {
	detail  *DetailService
	ai      domsvc.AIProvider
	metrics *metrics.Analytics
}

func NewInsightsService(detail *DetailService, ai domsvc.AIProvider, m *metrics.Analytics) *InsightsService {
	return &InsightsService{detail: detail, ai: ai, metrics: m}
}

// Provider reports which analytics backend is answering.
func (s *InsightsService) Provider() (id, name string) { return s.ai.ID(), s.ai.Name() }

func (s *InsightsService) input(ctx context.Context, symbol string) (models.AnalysisInput, error) {
	bundle, err := s.detail.GetDetail(ctx, symbol)
	if err != nil {
		return models.AnalysisInput{}, err
	}
	return models.NewAnalysisInput(bundle), nil
}

func (s *InsightsService) Insights(ctx context.Context, symbol string) (models.AiInsights, error) {
	in, err := s.input(ctx, symbol)
	if err != nil {
		return models.AiInsights{}, err
	}
	defer s.metrics.Observe("insights", s.ai.ID(), time.Now())
	return s.ai.GenerateInsights(ctx, in), nil
}

func (s *InsightsService) Beginner(ctx context.Context, symbol string) (models.BeginnerAssessment, error) {
	in, err := s.input(ctx, symbol)
	if err != nil {
		return models.BeginnerAssessment{}, err
	}
	defer s.metrics.Observe("beginner", s.ai.ID(), time.Now())
	return s.ai.BeginnerAssessment(ctx, in), nil
}

func (s *InsightsService) Peers(ctx context.Context, symbol string) (models.PeerSuggestion, error) {
	in, err := s.input(ctx, symbol)
	if err != nil {
		return models.PeerSuggestion{}, err
	}
	defer s.metrics.Observe("peers", s.ai.ID(), time.Now())
	return s.ai.SuggestPeers(ctx, in), nil
}

func (s *InsightsService) Screener(ctx context.Context, query string) models.ScreenerResult {
	defer s.metrics.Observe("screener", s.ai.ID(), time.Now())
	return s.ai.ParseScreenerQuery(ctx, query)
}

func (s *InsightsService) StatementSummary(ctx context.Context, table models.FinancialStatementTable) models.StatementSummary {
	defer s.metrics.Observe("statement_summary", s.ai.ID(), time.Now())
	return s.ai.SummarizeStatement(ctx, table)
}

func (s *InsightsService) Ask(ctx context.Context, question string) models.LearningAnswer {
	defer s.metrics.Observe("learning", s.ai.ID(), time.Now())
	return s.ai.AnswerLearningQuestion(ctx, question)
}
