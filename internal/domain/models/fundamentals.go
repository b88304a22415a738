package models

import "math"

// Statement kinds.
const (
	StatementProfitLoss   = "profitLoss"
	StatementQuarterly    = "quarterly"
	StatementBalanceSheet = "balanceSheet"
	StatementCashFlow     = "cashFlow"
)

// Metric units.
const (
	UnitCurrency = "currency"
	UnitPercent  = "percent"
	UnitRatio    = "ratio"
	UnitCount    = "count"
)

type MetricValue struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Precision *int    `json:"precision,omitempty"`
	AsOf      string  `json:"asOf,omitempty"`
	Source    string  `json:"source,omitempty"`
}

// StatementRow maps a year label to a nullable value.
type StatementRow struct {
	Label        string              `json:"label"`
	ValuesByYear map[string]*float64 `json:"valuesByYear"`
}

type FinancialStatementTable struct {
	Kind                  string         `json:"kind"`
	Title                 string         `json:"title"`
	Years                 []string       `json:"years"`
	Rows                  []StatementRow `json:"rows"`
	ConsolidatedAvailable bool           `json:"consolidatedAvailable"`
	StandaloneAvailable   bool           `json:"standaloneAvailable"`
	ActiveViewDefault     string         `json:"activeViewDefault"`
	Source                string         `json:"source"`
}

type ShareholdingBreakdown struct {
	Promoters  *float64 `json:"promoters,omitempty"`
	FIIs       *float64 `json:"fiis,omitempty"`
	DIIs       *float64 `json:"diis,omitempty"`
	Government *float64 `json:"government,omitempty"`
	Public     *float64 `json:"public,omitempty"`
	Others     *float64 `json:"others,omitempty"`
	AsOf       string   `json:"asOf,omitempty"`
}

// FundamentalsBundle is the per-entity financial profile. Missing metrics and
// rows are omitted, never zero-filled.
type FundamentalsBundle struct {
	CompanyID    string                    `json:"companyId"`
	CompanyName  string                    `json:"companyName"`
	Summary      string                    `json:"summary,omitempty"`
	Website      string                    `json:"website,omitempty"`
	Sector       string                    `json:"sector,omitempty"`
	Industry     string                    `json:"industry,omitempty"`
	MarketCap    *float64                  `json:"marketCap,omitempty"`
	Currency     string                    `json:"currency"`
	KeyMetrics   []MetricValue             `json:"keyMetrics"`
	Statements   []FinancialStatementTable `json:"statements"`
	Shareholding *ShareholdingBreakdown    `json:"shareholding,omitempty"`
	PeerSymbols  []string                  `json:"peerSymbols,omitempty"`
	Source       string                    `json:"source"`
	Notes        []string                  `json:"notes,omitempty"`
}

// MetricMap indexes key metrics by key.
func (b FundamentalsBundle) MetricMap() map[string]float64 {
	out := make(map[string]float64, len(b.KeyMetrics))
	for _, m := range b.KeyMetrics {
		out[m.Key] = m.Value
	}
	return out
}

// MetricDef describes one known metric in display order.
type MetricDef struct {
	Key   string
	Label string
	Unit  string
}

// MetricDefs lists every metric the dashboard knows, in display order.
var MetricDefs = []MetricDef{
	{"sales", "Sales", UnitCurrency},
	{"opm", "OPM", UnitPercent},
	{"pat", "Profit after tax", UnitCurrency},
	{"marketCap", "Market Capitalization", UnitCurrency},
	{"salesLatestQuarter", "Sales latest quarter", UnitCurrency},
	{"patLatestQuarter", "Profit after tax latest quarter", UnitCurrency},
	{"yoyQuarterlySalesGrowth", "YOY Quarterly sales growth", UnitPercent},
	{"yoyQuarterlyProfitGrowth", "YOY Quarterly profit growth", UnitPercent},
	{"pe", "Price to Earning", UnitRatio},
	{"dividendYield", "Dividend yield", UnitPercent},
	{"pb", "Price to book value", UnitRatio},
	{"roce", "Return on capital employed", UnitPercent},
	{"roa", "Return on assets", UnitPercent},
	{"debtToEquity", "Debt to equity", UnitRatio},
	{"roe", "Return on equity", UnitPercent},
	{"eps", "EPS", UnitRatio},
	{"debt", "Debt", UnitCurrency},
	{"promoterHolding", "Promoter holding", UnitPercent},
	{"changeInPromoterHolding", "Change in promoter holding", UnitPercent},
	{"earningsYield", "Earnings yield", UnitPercent},
	{"pledgedPercentage", "Pledged percentage", UnitPercent},
	{"industryPe", "Industry PE", UnitRatio},
	{"salesGrowth", "Sales growth", UnitPercent},
	{"profitGrowth", "Profit growth", UnitPercent},
	{"currentPrice", "Current price", UnitCurrency},
	{"priceToSales", "Price to Sales", UnitRatio},
	{"priceToFcf", "Price to Free Cash Flow", UnitRatio},
	{"evEbitda", "EV/EBITDA", UnitRatio},
	{"enterpriseValue", "Enterprise Value", UnitCurrency},
	{"currentRatio", "Current ratio", UnitRatio},
	{"interestCoverage", "Interest Coverage Ratio", UnitRatio},
	{"pegRatio", "PEG Ratio", UnitRatio},
	{"return3m", "Return over 3 months", UnitPercent},
	{"return6m", "Return over 6 months", UnitPercent},
}

// MapMetricEntries turns a sparse metric input into display metrics in MetricDefs
// order. Keys that are absent, nil or NaN are omitted. Unknown keys are ignored.
func MapMetricEntries(input map[string]*float64, currency string) []MetricValue {
	out := make([]MetricValue, 0, len(input))
	for _, def := range MetricDefs {
		v, ok := input[def.Key]
		if !ok || v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		m := MetricValue{Key: def.Key, Label: def.Label, Value: *v, Unit: def.Unit}
		if def.Unit == UnitCurrency {
			m.Currency = currency
		}
		out = append(out, m)
	}
	return out
}
