// Package analytics turns a stock bundle into rule-based indicators and hosts
// the learning assistant providers.
package analytics

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/services/features"
)

// Tuning constants for the rule set.
const (
	TrendBreakPct   = 15.0
	TrendMinPoints  = 20
	TrendMaxPeriods = 8

	RiskMinPoints      = 5
	RiskHighVol        = 40.0
	RiskHighDrawdown   = -45.0
	RiskMediumVol      = 25.0
	RiskMediumDrawdown = -25.0

	ForecastSteps = 2

	Disclaimer = "Educational only. This is not financial advice. Always do your own research."
)

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// TrendPeriods walks the closes and closes a segment whenever the return from
// its start reaches TrendBreakPct in either direction.
func TrendPeriods(points []models.PricePoint) []models.TrendPeriod {
	if len(points) < TrendMinPoints {
		return []models.TrendPeriod{}
	}
	out := []models.TrendPeriod{}
	start := 0
	for i := 1; i < len(points); i++ {
		ret, ok := features.PeriodReturn([]float64{points[start].Close, points[i].Close})
		if !ok {
			start = i
			continue
		}
		if math.Abs(ret) < TrendBreakPct {
			continue
		}
		kind := "bull"
		if ret < 0 {
			kind = "bear"
		}
		out = append(out, models.TrendPeriod{
			Start:     points[start].TS,
			End:       points[i].TS,
			ReturnPct: round2(ret),
			Type:      kind,
		})
		start = i
	}
	if len(out) > TrendMaxPeriods {
		out = out[len(out)-TrendMaxPeriods:]
	}
	return out
}

func Risk(h *models.HistorySeries) models.RiskAnalysis {
	if h == nil || len(h.Points) < RiskMinPoints {
		return models.RiskAnalysis{
			RiskLevel: models.RiskMedium,
			Notes:     []string{"Not enough price history for risk analysis."},
		}
	}
	closes := h.Closes()
	vol := features.AnnualizedVolatility(features.SimpleReturns(closes))
	dd := features.MaxDrawdown(closes)

	level := models.RiskLow
	switch {
	case vol > RiskHighVol || dd < RiskHighDrawdown:
		level = models.RiskHigh
	case vol > RiskMediumVol || dd < RiskMediumDrawdown:
		level = models.RiskMedium
	}
	return models.RiskAnalysis{
		Volatility:  models.Float(vol),
		MaxDrawdown: models.Float(dd),
		RiskLevel:   level,
		Notes: []string{
			fmt.Sprintf("Annualized volatility is approximately %.1f%%.", vol),
			fmt.Sprintf("Maximum drawdown in available history is %.1f%%.", dd),
		},
	}
}

// metricOr returns the metric or def when absent.
func metricOr(in models.AnalysisInput, key string, def float64) float64 {
	if v, ok := in.Metric(key); ok {
		return v
	}
	return def
}

// FraudFlags applies independent governance rules; every matching rule fires.
func FraudFlags(in models.AnalysisInput) []models.FraudFlag {
	flags := []models.FraudFlag{}
	pledge := metricOr(in, "pledgedPercentage", 0)
	opm := metricOr(in, "opm", 0)
	debtToEquity := metricOr(in, "debtToEquity", 0)
	salesGrowth := metricOr(in, "salesGrowth", 0)
	profitGrowth := metricOr(in, "profitGrowth", 0)

	if pledge > 20 {
		flags = append(flags, models.FraudFlag{
			ID:       "pledge-high",
			Severity: "high",
			Title:    "High promoter pledge",
			Detail:   "Promoter pledged shares are elevated. This can increase financial and governance risk.",
		})
	}
	if salesGrowth > 12 && profitGrowth < 0 {
		flags = append(flags, models.FraudFlag{
			ID:       "growth-profit-mismatch",
			Severity: "medium",
			Title:    "Sales up but profit not keeping pace",
			Detail:   "Revenue growth without profit growth may indicate margin pressure or aggressive accounting assumptions.",
		})
	}
	if opm < 5 && salesGrowth > 10 {
		flags = append(flags, models.FraudFlag{
			ID:       "margin-collapse",
			Severity: "medium",
			Title:    "Low operating margin",
			Detail:   "Low or falling operating margin can be a sign of poor pricing power or rising costs.",
		})
	}
	if debtToEquity > 2.5 {
		flags = append(flags, models.FraudFlag{
			ID:       "leverage-high",
			Severity: "medium",
			Title:    "High leverage",
			Detail:   "Debt-to-equity appears high. Verify business model and debt servicing ability before relying on growth assumptions.",
		})
	}
	return flags
}

func clamp(v, lo, hi int) int { return max(lo, min(hi, v)) }

// Sentiment scores headlines against the lexicon, +1/-1 per contained word.
func Sentiment(news []models.NewsItem) models.SentimentSummary {
	if len(news) == 0 {
		return models.SentimentSummary{
			Label:           "Neutral",
			BuyProbability:  33,
			HoldProbability: 34,
			SellProbability: 33,
			Rationale:       []string{"No recent relevant news found. Sentiment score is neutral by default."},
		}
	}
	score := 0
	for _, item := range news {
		text := strings.ToLower(item.Title + " " + item.Snippet)
		for _, w := range positiveWords {
			if strings.Contains(text, w) {
				score++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(text, w) {
				score--
			}
		}
	}
	label := "Neutral"
	if score > 1 {
		label = "Bullish"
	} else if score < -1 {
		label = "Bearish"
	}
	buy := clamp(int(math.Round(40+float64(score)*8)), 5, 90)
	sell := clamp(int(math.Round(30-float64(score)*8)), 5, 90)
	hold := max(5, 100-buy-sell)
	return models.SentimentSummary{
		Score:           float64(score),
		Label:           label,
		BuyProbability:  buy,
		HoldProbability: hold,
		SellProbability: sell,
		Rationale: []string{
			fmt.Sprintf("Lexicon-based sentiment over %d news items.", len(news)),
			"Use alongside fundamentals and price action.",
		},
	}
}

type projection struct {
	period string
	value  float64
}

// linearForecast fits least squares over x = 1..n and projects ForecastSteps periods, floored at 0.
func linearForecast(values []float64, labels []string) []projection {
	n := len(values)
	if n < 2 || len(labels) == 0 {
		return nil
	}
	xMean := float64(n+1) / 2
	yMean := 0.0
	for _, v := range values {
		yMean += v
	}
	yMean /= float64(n)

	num, den := 0.0, 0.0
	for i, v := range values {
		dx := float64(i+1) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		den = 1
	}
	slope := num / den
	intercept := yMean - slope*xMean

	last := labels[len(labels)-1]
	out := make([]projection, 0, ForecastSteps)
	for step := 1; step <= ForecastSteps; step++ {
		y := math.Max(0, intercept+slope*float64(n+step))
		out = append(out, projection{period: fmt.Sprintf("%s+%d", last, step), value: round2(y)})
	}
	return out
}

var (
	salesRow  = regexp.MustCompile(`(?i)revenue|sales`)
	profitRow = regexp.MustCompile(`(?i)net profit|profit`)
)

// statementSeries takes the first row matching pattern in the first table that
// has one with at least one value. Labels are the table's full year list.
func statementSeries(tables []models.FinancialStatementTable, pattern *regexp.Regexp) ([]float64, []string) {
	for _, t := range tables {
		if len(t.Years) == 0 {
			continue
		}
		for _, row := range t.Rows {
			if !pattern.MatchString(row.Label) {
				continue
			}
			var values []float64
			for _, y := range t.Years {
				if v := row.ValuesByYear[y]; v != nil {
					values = append(values, *v)
				}
			}
			if len(values) > 0 {
				return values, t.Years
			}
			break
		}
	}
	return nil, nil
}

func Forecast(tables []models.FinancialStatementTable) []models.ForecastPoint {
	sales := linearForecast(statementSeries(tables, salesRow))
	profit := linearForecast(statementSeries(tables, profitRow))

	out := make([]models.ForecastPoint, ForecastSteps)
	for i := range out {
		p := models.ForecastPoint{Period: fmt.Sprintf("F+%d", i+1)}
		if i < len(profit) {
			p.Period = profit[i].period
			p.Profit = models.Float(profit[i].value)
		}
		if i < len(sales) {
			p.Period = sales[i].period
			p.Sales = models.Float(sales[i].value)
		}
		out[i] = p
	}
	return out
}

func ProsAndCons(in models.AnalysisInput, riskLevel string) models.ProsCons {
	pros, cons := []string{}, []string{}
	if metricOr(in, "salesGrowth", 0) > 10 {
		pros = append(pros, "Revenue growth trend looks healthy based on available data.")
	}
	if metricOr(in, "roe", 0) > 15 {
		pros = append(pros, "Return on equity is strong, indicating efficient use of capital.")
	}
	if metricOr(in, "debtToEquity", 9) < 0.8 {
		pros = append(pros, "Balance sheet leverage appears manageable.")
	}
	if metricOr(in, "dividendYield", 0) > 1 {
		pros = append(pros, "Company offers a measurable dividend yield.")
	}

	if metricOr(in, "pe", 0) > metricOr(in, "industryPe", math.Inf(1))*1.2 {
		cons = append(cons, "Valuation appears richer than industry average P/E.")
	}
	if metricOr(in, "debtToEquity", 0) > 2 {
		cons = append(cons, "High debt load can amplify downside risk in weak cycles.")
	}
	if riskLevel == models.RiskHigh {
		cons = append(cons, "Price volatility/drawdown profile is high in available history.")
	}

	if len(pros) == 0 {
		pros = append(pros, "No strong metric-based positives were detected from the available dataset.")
	}
	if len(cons) == 0 {
		cons = append(cons, "No major metric-based concerns were flagged by the current analytical checks.")
	}
	return models.ProsCons{Pros: pros, Cons: cons}
}

func GenerateInsights(in models.AnalysisInput) models.AiInsights {
	var points []models.PricePoint
	if in.History != nil {
		points = in.History.Points
	}
	risk := Risk(in.History)
	return models.AiInsights{
		TrendPeriods: TrendPeriods(points),
		Risk:         risk,
		FraudFlags:   FraudFlags(in),
		Sentiment:    Sentiment(in.News),
		Forecast:     Forecast(in.Statements),
		ProsCons:     ProsAndCons(in, risk.RiskLevel),
	}
}

func growthCheck(in models.AnalysisInput) models.SimpleCheck {
	sales := metricOr(in, "salesGrowth", 0)
	profit := metricOr(in, "profitGrowth", 0)
	c := models.SimpleCheck{Label: "Is the company growing?"}
	switch {
	case sales > 10 && profit > 10:
		c.Status, c.Explanation = models.CheckGood, "Sales and profits are growing at a healthy pace."
	case sales > 0 && profit > 0:
		c.Status, c.Explanation = models.CheckWatch, "Sales/profit are growing, but not very strongly."
	default:
		c.Status, c.Explanation = models.CheckBad, "Growth looks weak or inconsistent from available data."
	}
	return c
}

func debtCheck(in models.AnalysisInput) models.SimpleCheck {
	c := models.SimpleCheck{Label: "Is debt high?"}
	dte, ok := in.Metric("debtToEquity")
	switch {
	case !ok:
		c.Status, c.Explanation = models.CheckBad, "Debt data is not currently available for this stock."
	case dte < 0.8:
		c.Status, c.Explanation = models.CheckGood, "Debt appears manageable."
	case dte < 2:
		c.Status, c.Explanation = models.CheckWatch, "Debt is moderate. Check if profits are stable."
	default:
		c.Status, c.Explanation = models.CheckBad, "Debt looks high and needs extra caution."
	}
	return c
}

func valuationCheck(in models.AnalysisInput) models.SimpleCheck {
	c := models.SimpleCheck{Label: "Is the price expensive?"}
	pe, okPE := in.Metric("pe")
	industry, okInd := in.Metric("industryPe")
	switch {
	case !okPE || !okInd:
		c.Status, c.Explanation = models.CheckWatch, "Not enough valuation data to compare with peers."
	case pe <= industry:
		c.Status, c.Explanation = models.CheckGood, "Price is not more expensive than the industry average P/E."
	case pe <= industry*1.25:
		c.Status, c.Explanation = models.CheckWatch, "Valuation is somewhat expensive versus peers."
	default:
		c.Status, c.Explanation = models.CheckBad, "Valuation looks expensive versus industry average."
	}
	return c
}

// BeginnerAssessment is Red with two bad checks, Green with two good ones, else Yellow.
func BeginnerAssessment(in models.AnalysisInput) models.BeginnerAssessment {
	checks := []models.SimpleCheck{growthCheck(in), debtCheck(in), valuationCheck(in)}
	good, bad := 0, 0
	reasons := make([]string, 0, len(checks))
	for _, c := range checks {
		switch c.Status {
		case models.CheckGood:
			good++
		case models.CheckBad:
			bad++
		}
		reasons = append(reasons, c.Label+": "+c.Explanation)
	}
	verdict := models.VerdictYellow
	if bad >= 2 {
		verdict = models.VerdictRed
	} else if good >= 2 {
		verdict = models.VerdictGreen
	}
	return models.BeginnerAssessment{
		Verdict:      verdict,
		Reasons:      reasons,
		SimpleChecks: checks,
		Disclaimer:   Disclaimer,
	}
}

func SummarizeStatement(table models.FinancialStatementTable) models.StatementSummary {
	title := table.Title + " summary"
	if len(table.Years) == 0 || len(table.Rows) == 0 {
		return models.StatementSummary{
			Title:      title,
			Bullets:    []string{"No rows are currently available for this statement."},
			Confidence: "low",
		}
	}

	bullets := []string{}
	for _, row := range table.Rows[:min(4, len(table.Rows))] {
		var values []float64
		for _, y := range table.Years {
			if v := row.ValuesByYear[y]; v != nil {
				values = append(values, *v)
			}
		}
		if len(values) < 2 {
			continue
		}
		first, last := values[0], values[len(values)-1]
		denom := math.Abs(first)
		if denom == 0 {
			denom = 1
		}
		change := (last - first) / denom * 100
		dir := "up"
		if change < 0 {
			dir = "down"
		}
		bullets = append(bullets, fmt.Sprintf("%s: %s %.1f%% across available periods.", row.Label, dir, math.Abs(change)))
	}
	bullets = append(bullets, "Years: "+strings.Join(table.Years, ", "))

	confidence := "low"
	if len(bullets) >= 3 {
		confidence = "medium"
	}
	return models.StatementSummary{Title: title, Bullets: bullets, Confidence: confidence}
}

var peerGroups = []struct {
	pattern *regexp.Regexp
	peers   []string
	reason  string
}{
	{
		regexp.MustCompile(`HDFC|ICICI|AXIS|KOTAK|IDBI`),
		[]string{"HDFCBANK.NS", "ICICIBANK.NS", "AXISBANK.NS", "KOTAKBANK.NS", "IDBI.NS"},
		"Detected Indian private/public bank peer group from symbol/industry patterns.",
	},
	{
		regexp.MustCompile(`TCS|INFY`),
		[]string{"TCS.NS", "INFY.NS"},
		"Detected Indian IT services peer group.",
	},
	{
		regexp.MustCompile(`AAPL|MSFT|GOOGL`),
		[]string{"AAPL", "MSFT", "GOOGL"},
		"Detected large-cap US tech peer cluster.",
	},
}

func SuggestPeers(symbol string) models.PeerSuggestion {
	base := strings.ToUpper(symbol)
	for _, g := range peerGroups {
		if !g.pattern.MatchString(base) {
			continue
		}
		peers := make([]string, 0, len(g.peers))
		for _, p := range g.peers {
			if p != base {
				peers = append(peers, p)
			}
		}
		return models.PeerSuggestion{Peers: peers, Reason: g.reason}
	}
	return models.PeerSuggestion{Peers: []string{}, Reason: "No peer mapping is currently available for this security."}
}

var screenerPhrases = []struct {
	phrases []string
	filter  models.ScreenFilter
}{
	{[]string{"profitable", "profit"}, models.ScreenFilter{Field: "pat", Op: ">", Value: 0}},
	{[]string{"low debt"}, models.ScreenFilter{Field: "debtToEquity", Op: "<", Value: 1}},
	{[]string{"rising sales", "sales growth"}, models.ScreenFilter{Field: "salesGrowth", Op: ">", Value: 10}},
	{[]string{"high roe"}, models.ScreenFilter{Field: "roe", Op: ">", Value: 15}},
	{[]string{"cheap", "low pe"}, models.ScreenFilter{Field: "pe", Op: "<", Value: 20}},
	{[]string{"dividend"}, models.ScreenFilter{Field: "dividendYield", Op: ">", Value: 1}},
	{[]string{"momentum"}, models.ScreenFilter{Field: "return6m", Op: ">", Value: 10}},
	{[]string{"large cap"}, models.ScreenFilter{Field: "marketCap", Op: ">", Value: 100000}},
}

func ParseScreenerQuery(query string) models.ScreenerResult {
	q := strings.ToLower(query)
	filters := []models.ScreenFilter{}
	for _, p := range screenerPhrases {
		for _, phrase := range p.phrases {
			if strings.Contains(q, phrase) {
				filters = append(filters, p.filter)
				break
			}
		}
	}
	explanation := "Could not parse specific filters. Try phrases like “low debt”, “high ROE”, or “rising sales”."
	if len(filters) > 0 {
		explanation = fmt.Sprintf("Parsed %d rule-based filter(s) from natural language.", len(filters))
	}
	return models.ScreenerResult{Filters: filters, Explanation: explanation}
}

var nonWord = regexp.MustCompile(`\W+`)

func scoreDoc(doc string, terms []string) int {
	score := 0
	for _, t := range terms {
		if strings.Contains(doc, t) {
			score++
		}
	}
	return score
}

// AnswerLearningQuestion picks the two notes containing the most question
// terms and answers with their first four lines.
func AnswerLearningQuestion(question string, docs []string) models.LearningAnswer {
	var terms []string
	for _, t := range nonWord.Split(strings.ToLower(question), -1) {
		if t != "" {
			terms = append(terms, t)
		}
	}

	type match struct {
		idx   int
		score int
	}
	matches := make([]match, len(docs))
	for i, d := range docs {
		matches[i] = match{idx: i, score: scoreDoc(strings.ToLower(d), terms)}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	var snippets, sources []string
	for _, m := range matches[:min(2, len(matches))] {
		if m.score <= 0 {
			continue
		}
		lines := strings.Split(docs[m.idx], "\n")
		snippets = append(snippets, strings.Join(lines[:min(4, len(lines))], " "))
		sources = append(sources, fmt.Sprintf("Doc %d", m.idx+1))
	}
	if len(snippets) == 0 {
		return models.LearningAnswer{
			Answer:  "I could not find a strong match in the local learning notes. Ask about P/E, ROE, debt, statements, diversification, or volatility.",
			Sources: []string{},
		}
	}
	return models.LearningAnswer{Answer: strings.Join(snippets, " "), Sources: sources}
}
