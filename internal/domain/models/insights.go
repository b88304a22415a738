package models

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Check statuses and verdicts for the beginner assessment.
const (
	CheckGood  = "good"
	CheckWatch = "watch"
	CheckBad   = "bad"

	VerdictGreen  = "Green"
	VerdictYellow = "Yellow"
	VerdictRed    = "Red"
)

type TrendPeriod struct {
	Start     string  `json:"start"`
	End       string  `json:"end"`
	ReturnPct float64 `json:"returnPct"`
	Type      string  `json:"type"` // bull | bear
}

type RiskAnalysis struct {
	Volatility  *float64 `json:"volatility,omitempty"`
	MaxDrawdown *float64 `json:"maxDrawdown,omitempty"`
	Beta        *float64 `json:"beta,omitempty"`
	RiskLevel   string   `json:"riskLevel"`
	Notes       []string `json:"notes"`
}

type FraudFlag struct {
	ID       string `json:"id"`
	Severity string `json:"severity"` // low | medium | high
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

type SentimentSummary struct {
	Score           float64  `json:"score"`
	Label           string   `json:"label"` // Bullish | Neutral | Bearish
	BuyProbability  int      `json:"buyProbability"`
	HoldProbability int      `json:"holdProbability"`
	SellProbability int      `json:"sellProbability"`
	Rationale       []string `json:"rationale"`
}

type ForecastPoint struct {
	Period string   `json:"period"`
	Sales  *float64 `json:"sales,omitempty"`
	Profit *float64 `json:"profit,omitempty"`
}

type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// AiInsights is recomputed per request and never cached.
type AiInsights struct {
	TrendPeriods []TrendPeriod    `json:"trendPeriods"`
	Risk         RiskAnalysis     `json:"risk"`
	FraudFlags   []FraudFlag      `json:"fraudFlags"`
	Sentiment    SentimentSummary `json:"sentiment"`
	Forecast     []ForecastPoint  `json:"forecast"`
	ProsCons     ProsCons         `json:"prosCons"`
}

type SimpleCheck struct {
	Label       string `json:"label"`
	Status      string `json:"status"`
	Explanation string `json:"explanation"`
}

type BeginnerAssessment struct {
	Verdict      string        `json:"verdict"`
	Reasons      []string      `json:"reasons"`
	SimpleChecks []SimpleCheck `json:"simpleChecks"`
	Disclaimer   string        `json:"disclaimer"`
}

type StatementSummary struct {
	Title      string   `json:"title"`
	Bullets    []string `json:"bullets"`
	Confidence string   `json:"confidence"` // low | medium | high
}

type PeerSuggestion struct {
	Peers  []string `json:"peers"`
	Reason string   `json:"reason"`
}

type ScreenFilter struct {
	Field string  `json:"field"`
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

type ScreenerResult struct {
	Filters     []ScreenFilter `json:"filters"`
	Explanation string         `json:"explanation"`
}

type LearningAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// AnalysisInput is the subset of a bundle the analytics engine reads.
type AnalysisInput struct {
	CompanyName  string                    `json:"companyName"`
	Symbol       string                    `json:"symbol"`
	Market       MarketKind                `json:"market"`
	History      *HistorySeries            `json:"history,omitempty"`
	Statements   []FinancialStatementTable `json:"statements,omitempty"`
	Shareholding *ShareholdingBreakdown    `json:"shareholding,omitempty"`
	News         []NewsItem                `json:"news,omitempty"`
	Metrics      []MetricValue             `json:"metrics,omitempty"`
}

// Metric returns the first metric with key.
func (in AnalysisInput) Metric(key string) (float64, bool) {
	for _, m := range in.Metrics {
		if m.Key == key {
			return m.Value, true
		}
	}
	return 0, false
}

// NewAnalysisInput builds the analytics input from a detail bundle.
func NewAnalysisInput(b *StockDetailBundle) AnalysisInput {
	history := b.History
	return AnalysisInput{
		CompanyName:  b.Entity.Name,
		Symbol:       b.Entity.Symbol,
		Market:       b.Entity.Market,
		History:      &history,
		Statements:   b.Fundamentals.Statements,
		Shareholding: b.Fundamentals.Shareholding,
		News:         b.News,
		Metrics:      b.Fundamentals.KeyMetrics,
	}
}
