package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockMetrics/internal/domain/models"
	domsvc "StockMetrics/internal/domain/service"
	"StockMetrics/internal/service/metrics"
	"StockMetrics/pkg/config"
	"StockMetrics/pkg/logger"
)

// Heuristic answers every operation with the rule engine.
type Heuristic struct {
	notes *Notes
}

func NewHeuristic(notes *Notes) *Heuristic { return &Heuristic{notes: notes} }

func (h *Heuristic) ID() string   { return config.AIProviderHeuristic }
func (h *Heuristic) Name() string { return "Rules-Based Analysis" }

func (h *Heuristic) GenerateInsights(_ context.Context, in models.AnalysisInput) models.AiInsights {
	return GenerateInsights(in)
}

func (h *Heuristic) BeginnerAssessment(_ context.Context, in models.AnalysisInput) models.BeginnerAssessment {
	return BeginnerAssessment(in)
}

func (h *Heuristic) SummarizeStatement(_ context.Context, table models.FinancialStatementTable) models.StatementSummary {
	return SummarizeStatement(table)
}

func (h *Heuristic) SuggestPeers(_ context.Context, in models.AnalysisInput) models.PeerSuggestion {
	return SuggestPeers(in.Symbol)
}

func (h *Heuristic) ParseScreenerQuery(_ context.Context, query string) models.ScreenerResult {
	return ParseScreenerQuery(query)
}

func (h *Heuristic) AnswerLearningQuestion(_ context.Context, question string) models.LearningAnswer {
	return AnswerLearningQuestion(question, h.notes.Bodies())
}

// promptNotes bounds the notes sent to a remote model.
const promptNotes = 3

// Ollama answers learning questions with a local model and inherits the rest.
type Ollama struct {
	*Heuristic
	base    *remoteModel
	model   string
	metrics *metrics.Analytics
	logger  *logger.Logger
}

func NewOllama(h *Heuristic, baseURL, model string, timeout time.Duration, m *metrics.Analytics, l *logger.Logger) *Ollama {
	o := &Ollama{Heuristic: h, model: model, metrics: m, logger: l}
	if baseURL != "" {
		o.base = newRemoteModel(baseURL, timeout, nil)
	}
	return o
}

func (o *Ollama) ID() string { return config.AIProviderOllama }

func (o *Ollama) Name() string {
	model := o.model
	if model == "" {
		model = "model"
	}
	return fmt.Sprintf("Ollama (%s)", model)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) AnswerLearningQuestion(ctx context.Context, question string) models.LearningAnswer {
	if o.base == nil || o.model == "" {
		return o.Heuristic.AnswerLearningQuestion(ctx, question)
	}
	start := time.Now()
	defer o.metrics.Observe("learning", o.ID(), start)

	notes := strings.Join(o.notes.Relevant(question, promptNotes), "\n\n")
	prompt := "Answer using the notes below. If unsure say so.\n\nNotes:\n" + notes + "\n\nQuestion: " + question

	var resp generateResponse
	err := o.base.post(ctx, "/api/generate", generateRequest{Model: o.model, Prompt: prompt}, &resp)
	if err != nil || strings.TrimSpace(resp.Response) == "" {
		o.fail(err)
		return o.Heuristic.AnswerLearningQuestion(ctx, question)
	}
	return models.LearningAnswer{Answer: resp.Response, Sources: []string{"Ollama local"}}
}

func (o *Ollama) fail(err error) {
	o.metrics.Fail("learning", o.ID())
	o.logger.Warn("analytics: ollama failed, answering with heuristic", logger.String("model", o.model), logger.Error(err))
}

// OpenAICompatible answers learning questions through a /chat/completions endpoint.
type OpenAICompatible struct {
	*Heuristic
	base    *remoteModel
	model   string
	metrics *metrics.Analytics
	logger  *logger.Logger
}

func NewOpenAICompatible(h *Heuristic, baseURL, apiKey, model string, timeout time.Duration, m *metrics.Analytics, l *logger.Logger) *OpenAICompatible {
	p := &OpenAICompatible{Heuristic: h, model: model, metrics: m, logger: l}
	if baseURL != "" && apiKey != "" {
		p.base = newRemoteModel(baseURL, timeout, map[string]string{"Authorization": "Bearer " + apiKey})
	}
	return p
}

func (p *OpenAICompatible) ID() string   { return config.AIProviderOpenAICompatible }
func (p *OpenAICompatible) Name() string { return "OpenAI-compatible" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a finance learning assistant. Answer conservatively and cite only from provided notes when possible."

func (p *OpenAICompatible) AnswerLearningQuestion(ctx context.Context, question string) models.LearningAnswer {
	if p.base == nil || p.model == "" {
		return p.Heuristic.AnswerLearningQuestion(ctx, question)
	}
	start := time.Now()
	defer p.metrics.Observe("learning", p.ID(), start)

	notes := strings.Join(p.notes.Relevant(question, promptNotes), "\n\n")
	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Notes:\n" + notes + "\n\nQuestion: " + question},
		},
		Temperature: 0.2,
	}
	var resp chatResponse
	err := p.base.postWithRetry(ctx, "/chat/completions", req, &resp, 2)
	if err != nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		p.metrics.Fail("learning", p.ID())
		p.logger.Warn("analytics: openai-compatible failed, answering with heuristic", logger.String("model", p.model), logger.Error(err))
		return p.Heuristic.AnswerLearningQuestion(ctx, question)
	}
	return models.LearningAnswer{Answer: resp.Choices[0].Message.Content, Sources: []string{"OpenAI-compatible endpoint"}}
}

// NewProvider selects the configured provider. Unknown names get the heuristic.
func NewProvider(cfg config.AIConfig, notes *Notes, m *metrics.Analytics, l *logger.Logger) domsvc.AIProvider {
	h := NewHeuristic(notes)
	switch cfg.Provider {
	case config.AIProviderOllama:
		return NewOllama(h, cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout, m, l)
	case config.AIProviderOpenAICompatible:
		c := cfg.OpenAICompatible
		return NewOpenAICompatible(h, c.BaseURL, c.APIKey, c.Model, c.Timeout, m, l)
	}
	return h
}

var (
	_ domsvc.AIProvider = (*Heuristic)(nil)
	_ domsvc.AIProvider = (*Ollama)(nil)
	_ domsvc.AIProvider = (*OpenAICompatible)(nil)
)
