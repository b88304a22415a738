package reference

import (
	"math"
	"regexp"
	"strings"

	"StockMetrics/internal/domain/models"
)

const statementSource = "Reference fundamentals dataset"

var metricInputs = map[string]map[string]float64{
	"HDFCBANK.NS": {
		"sales": 268000, "opm": 43.2, "pat": 62000, "marketCap": 1225000,
		"salesLatestQuarter": 71500, "patLatestQuarter": 16500,
		"yoyQuarterlySalesGrowth": 15.5, "yoyQuarterlyProfitGrowth": 18.1,
		"pe": 19.4, "dividendYield": 1.1, "pb": 2.7, "roce": 8.6, "roa": 1.9,
		"debtToEquity": 6.1, "roe": 15.4, "eps": 82.6, "debt": 2480000,
		"promoterHolding": 0, "changeInPromoterHolding": 0, "earningsYield": 5.1,
		"pledgedPercentage": 0, "industryPe": 18.7, "salesGrowth": 16.3, "profitGrowth": 17.8,
		"currentPrice": 1662, "priceToSales": 4.5, "priceToFcf": 12.1, "evEbitda": 11.8,
		"enterpriseValue": 1560000, "currentRatio": 1.1, "interestCoverage": 1.5,
		"pegRatio": 1.2, "return3m": 8.4, "return6m": 12.7,
	},
	"ICICIBANK.NS": {
		"sales": 221000, "opm": 39.8, "pat": 46500, "marketCap": 890000,
		"salesLatestQuarter": 59000, "patLatestQuarter": 12600,
		"yoyQuarterlySalesGrowth": 14.2, "yoyQuarterlyProfitGrowth": 16.5,
		"pe": 18.8, "dividendYield": 0.8, "pb": 2.9, "roce": 7.8, "roa": 1.7,
		"debtToEquity": 6.5, "roe": 16.0, "eps": 67.4, "debt": 2190000,
		"promoterHolding": 0, "changeInPromoterHolding": 0, "earningsYield": 5.3,
		"pledgedPercentage": 0, "industryPe": 18.7, "salesGrowth": 15.1, "profitGrowth": 18.9,
		"currentPrice": 1268, "priceToSales": 4.0, "priceToFcf": 11.2, "evEbitda": 10.9,
		"enterpriseValue": 1120000, "currentRatio": 1.0, "interestCoverage": 1.4,
		"pegRatio": 1.1, "return3m": 9.8, "return6m": 16.4,
	},
	"AAPL": {
		"sales": 383285, "opm": 30.3, "pat": 96995, "marketCap": 2900000,
		"salesLatestQuarter": 119600, "patLatestQuarter": 33900,
		"yoyQuarterlySalesGrowth": 2.1, "yoyQuarterlyProfitGrowth": 4.4,
		"pe": 29.2, "dividendYield": 0.5, "pb": 43.1, "roce": 54.3, "roa": 27.7,
		"debtToEquity": 1.7, "roe": 147.4, "eps": 6.15, "debt": 123000,
		"earningsYield": 3.4, "industryPe": 28.0, "salesGrowth": 2.6, "profitGrowth": 5.2,
		"currentPrice": 188, "priceToSales": 7.5, "priceToFcf": 29.9, "evEbitda": 21.4,
		"enterpriseValue": 3015000, "currentRatio": 1.1, "interestCoverage": 35.2,
		"pegRatio": 2.3, "return3m": -2.5, "return6m": 6.4,
	},
	"MSFT": {
		"sales": 211915, "opm": 44.6, "pat": 72361, "marketCap": 3100000,
		"salesLatestQuarter": 62000, "patLatestQuarter": 22000,
		"yoyQuarterlySalesGrowth": 12.7, "yoyQuarterlyProfitGrowth": 17.5,
		"pe": 34.1, "dividendYield": 0.7, "pb": 11.3, "roce": 33.1, "roa": 16.8,
		"debtToEquity": 0.4, "roe": 35.9, "eps": 9.67, "debt": 81000,
		"earningsYield": 2.9, "industryPe": 30.5, "salesGrowth": 11.4, "profitGrowth": 16.0,
		"currentPrice": 415, "priceToSales": 14.8, "priceToFcf": 29.4, "evEbitda": 24.5,
		"enterpriseValue": 3142000, "currentRatio": 1.8, "interestCoverage": 42.1,
		"pegRatio": 2.1, "return3m": 4.9, "return6m": 11.8,
	},
}

// defaultMetricInputs covers equities without a curated entry.
func defaultMetricInputs(m models.MarketKind) map[string]float64 {
	us := m == models.MarketUS
	pick := func(usVal, inVal float64) float64 {
		if us {
			return usVal
		}
		return inVal
	}
	return map[string]float64{
		"sales": pick(120000, 150000), "opm": 22, "pat": pick(22000, 18000),
		"marketCap": pick(650000, 350000), "salesLatestQuarter": pick(30000, 38000),
		"patLatestQuarter": pick(7000, 6000), "yoyQuarterlySalesGrowth": 9,
		"yoyQuarterlyProfitGrowth": 11, "pe": 22, "dividendYield": 1, "pb": 3,
		"roce": 18, "roa": 9, "debtToEquity": 0.5, "roe": 17, "eps": 28,
		"debt": pick(32000, 44000), "earningsYield": 4.5, "industryPe": 23,
		"salesGrowth": 12, "profitGrowth": 13, "currentPrice": pick(120, 1200),
		"priceToSales": 4, "priceToFcf": 18, "evEbitda": 14,
		"enterpriseValue": pick(700000, 410000), "currentRatio": 1.6,
		"interestCoverage": 8, "pegRatio": 1.4, "return3m": 5, "return6m": 10,
	}
}

func inputsFor(e models.SearchEntity) map[string]float64 {
	if in, ok := metricInputs[e.Symbol]; ok {
		return in
	}
	return defaultMetricInputs(e.Market)
}

func toSparse(in map[string]float64) map[string]*float64 {
	out := make(map[string]*float64, len(in))
	for k, v := range in {
		v := v
		out[k] = &v
	}
	return out
}

func scaled(base float64, factors []float64) []float64 {
	out := make([]float64, len(factors))
	for i, f := range factors {
		out[i] = math.Round(base * f)
	}
	return out
}

func mapEach(in []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func statementTable(kind, title string, years []string, labels []string, values [][]float64) models.FinancialStatementTable {
	rows := make([]models.StatementRow, len(labels))
	for i, label := range labels {
		cells := make(map[string]*float64, len(years))
		for j, y := range years {
			if j < len(values[i]) {
				cells[y] = models.Float(values[i][j])
			} else {
				cells[y] = nil
			}
		}
		rows[i] = models.StatementRow{Label: label, ValuesByYear: cells}
	}
	return models.FinancialStatementTable{
		Kind:                  kind,
		Title:                 title,
		Years:                 years,
		Rows:                  rows,
		ConsolidatedAvailable: true,
		StandaloneAvailable:   true,
		ActiveViewDefault:     "consolidated",
		Source:                statementSource,
	}
}

// statements builds five years of statements scaled from revenue, profit, assets and debt.
func statements(revenue, profit, assets, debt float64) []models.FinancialStatementTable {
	years := []string{"2021", "2022", "2023", "2024", "2025"}
	rev := scaled(revenue, []float64{0.72, 0.83, 0.91, 1.0, 1.08})
	pat := scaled(profit, []float64{0.65, 0.78, 0.87, 1.0, 1.13})
	ast := scaled(assets, []float64{0.82, 0.88, 0.94, 1.0, 1.07})
	dbt := scaled(debt, []float64{1.15, 1.08, 1.02, 1.0, 0.96})

	netWorth := make([]float64, len(ast))
	for i := range ast {
		netWorth[i] = math.Round(ast[i] - dbt[i]*0.35)
	}

	return []models.FinancialStatementTable{
		statementTable(models.StatementProfitLoss, "Profit and Loss", years,
			[]string{"Revenue", "Operating Profit", "Net Profit"},
			[][]float64{rev, mapEach(pat, func(p float64) float64 { return math.Round(p * 1.4) }), pat}),
		statementTable(models.StatementQuarterly, "Quarterly Results",
			[]string{"Q2 FY24", "Q3 FY24", "Q4 FY24", "Q1 FY25", "Q2 FY25"},
			[]string{"Revenue", "Net Profit"},
			[][]float64{
				scaled(revenue, []float64{0.2, 0.22, 0.23, 0.24, 0.25}),
				scaled(revenue, []float64{0.045, 0.05, 0.052, 0.054, 0.056}),
			}),
		statementTable(models.StatementBalanceSheet, "Balance Sheet", years,
			[]string{"Total Assets", "Total Debt", "Net Worth"},
			[][]float64{ast, dbt, netWorth}),
		statementTable(models.StatementCashFlow, "Cash Flow", years,
			[]string{"Cash from Operations", "Capital Expenditure", "Free Cash Flow"},
			[][]float64{
				mapEach(pat, func(p float64) float64 { return math.Round(p * 1.2) }),
				mapEach(pat, func(p float64) float64 { return -math.Round(p * 0.4) }),
				mapEach(pat, func(p float64) float64 { return math.Round(p * 0.8) }),
			}),
	}
}

var bankPattern = regexp.MustCompile(`BANK|IDBI`)

func shareholdingFor(symbol string) *models.ShareholdingBreakdown {
	if strings.HasSuffix(symbol, ".NS") {
		bank := bankPattern.MatchString(symbol)
		pick := func(bankVal, other float64) *float64 {
			if bank {
				return models.Float(bankVal)
			}
			return models.Float(other)
		}
		gov := 0.0
		if strings.Contains(symbol, "IDBI") {
			gov = 45.5
		}
		return &models.ShareholdingBreakdown{
			Promoters:  pick(0, 49.1),
			FIIs:       pick(41.2, 22.4),
			DIIs:       pick(33.4, 18.7),
			Government: models.Float(gov),
			Public:     pick(25.4, 9.8),
			AsOf:       "2025-12-31",
		}
	}
	return &models.ShareholdingBreakdown{
		Promoters: models.Float(0),
		FIIs:      models.Float(72),
		DIIs:      models.Float(18),
		Public:    models.Float(10),
		AsOf:      "2025-12-31",
	}
}

var (
	bankPeers = []string{"HDFCBANK.NS", "ICICIBANK.NS", "AXISBANK.NS", "KOTAKBANK.NS", "IDBI.NS"}
	itPeers   = []string{"TCS.NS", "INFY.NS"}
	usPeers   = []string{"AAPL", "MSFT", "GOOGL"}
)

func without(list []string, symbol string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != symbol {
			out = append(out, s)
		}
	}
	return out
}

func peersFor(e models.SearchEntity) []string {
	switch {
	case e.Industry == "Banks":
		return without(bankPeers, e.Symbol)
	case e.Industry == "IT Services":
		return without(itPeers, e.Symbol)
	case e.Market == models.MarketUS:
		return without(usPeers, e.Symbol)
	}
	return []string{}
}

// Fundamentals returns the reference bundle for an embedded equity. Funds and
// symbols outside the embedded universe have none.
func Fundamentals(symbol string) (models.FundamentalsBundle, bool) {
	e, ok := Lookup(symbol)
	if !ok || e.Type != models.TypeStock {
		return models.FundamentalsBundle{}, false
	}
	in := inputsFor(e)

	assetBase := in["enterpriseValue"]
	if assetBase == 0 {
		assetBase = in["marketCap"]
	}

	source := statementSource
	if e.Market == models.MarketIndia {
		source = "Reference fundamentals dataset + market data (India coverage varies by source)"
	}
	currency := e.Currency
	if currency == "" {
		currency = models.CurrencyINR
	}

	return models.FundamentalsBundle{
		CompanyID:    e.ID,
		CompanyName:  e.Name,
		Summary:      e.Summary,
		Website:      e.Website,
		Sector:       e.Sector,
		Industry:     e.Industry,
		MarketCap:    models.Float(in["marketCap"]),
		Currency:     currency,
		KeyMetrics:   models.MapMetricEntries(toSparse(in), currency),
		Statements:   statements(in["sales"], in["pat"], assetBase*0.8, in["debt"]),
		Shareholding: shareholdingFor(e.Symbol),
		PeerSymbols:  peersFor(e),
		Source:       source,
		Notes: []string{
			"Some advanced ratios may be unavailable for certain securities depending on data coverage.",
			"The UI hides missing metrics instead of showing placeholders.",
		},
	}, true
}

// CurrentPrice is the curated last price used to seed synthesized history.
func CurrentPrice(e models.SearchEntity) (float64, bool) {
	ref, ok := Lookup(e.Symbol)
	if !ok || ref.Type != models.TypeStock {
		return 0, false
	}
	v, ok := inputsFor(ref)["currentPrice"]
	return v, ok
}
