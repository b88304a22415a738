package sec

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"StockMetrics/internal/domain/models"
)

const (
	FundamentalsSource = "SEC EDGAR + derived ratios"
	statementSource    = "SEC EDGAR Company Facts"
	seriesDepth        = 5
)

type factItem struct {
	End   string   `json:"end"`
	Val   *float64 `json:"val"`
	FY    int      `json:"fy"`
	FP    string   `json:"fp"`
	Form  string   `json:"form"`
	Filed string   `json:"filed"`
}

type factTag struct {
	Label string                `json:"label"`
	Units map[string][]factItem `json:"units"`
}

type factsResponse struct {
	EntityName string `json:"entityName"`
	Facts      struct {
		USGAAP map[string]factTag `json:"us-gaap"`
	} `json:"facts"`
}

type submissionsResponse struct {
	Name           string `json:"name"`
	SICDescription string `json:"sicDescription"`
	Filings        struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// unitPreference orders unit keys when a tag reports more than one.
var unitPreference = []string{"USD", "USD/shares", "shares"}

// series returns the items of the first tag that has any, reading one unit.
func (f *factsResponse) series(tags ...string) []factItem {
	for _, tag := range tags {
		t, ok := f.Facts.USGAAP[tag]
		if !ok || len(t.Units) == 0 {
			continue
		}
		if items := pickUnit(t.Units); len(items) > 0 {
			return items
		}
	}
	return nil
}

func pickUnit(units map[string][]factItem) []factItem {
	for _, u := range unitPreference {
		if items, ok := units[u]; ok && len(items) > 0 {
			return items
		}
	}
	keys := make([]string, 0, len(units))
	for k := range units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(units[k]) > 0 {
			return units[k]
		}
	}
	return nil
}

func annual(i factItem) bool { return i.FP == "FY" }

var quarterPattern = regexp.MustCompile(`^Q[1-4]$`)

func quarterly(i factItem) bool { return quarterPattern.MatchString(i.FP) }

// latest returns the value with the greatest period end, ties going to the latest filing.
// The zero value is reported as absent.
func latest(items []factItem, keep func(factItem) bool) (float64, bool) {
	var best *factItem
	for i := range items {
		it := &items[i]
		if it.Val == nil || (keep != nil && !keep(*it)) {
			continue
		}
		if best == nil || it.End > best.End || (it.End == best.End && it.Filed >= best.Filed) {
			best = it
		}
	}
	if best == nil || *best.Val == 0 {
		return 0, false
	}
	return *best.Val, true
}

// latestPreferAnnual reads the latest full-year value, else the latest of any period.
func latestPreferAnnual(items []factItem) (float64, bool) {
	if v, ok := latest(items, annual); ok {
		return v, true
	}
	return latest(items, nil)
}

type periodValue struct {
	End string
	Val float64
	FP  string
	FY  int
}

// trend dedupes by period end keeping the last write, sorts ascending and keeps the last seriesDepth.
func trend(items []factItem, keep func(factItem) bool) []periodValue {
	byEnd := make(map[string]periodValue)
	for _, it := range items {
		if it.Val == nil || it.End == "" || !keep(it) {
			continue
		}
		byEnd[it.End] = periodValue{End: it.End, Val: *it.Val, FP: it.FP, FY: it.FY}
	}
	out := make([]periodValue, 0, len(byEnd))
	for _, v := range byEnd {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].End < out[j].End })
	if len(out) > seriesDepth {
		out = out[len(out)-seriesDepth:]
	}
	return out
}

// growth is the percent change between the last two values.
func growth(series []periodValue) (float64, bool) {
	n := len(series)
	if n < 2 || series[0].Val == 0 {
		return 0, false
	}
	prev, cur := series[n-2].Val, series[n-1].Val
	if prev == 0 {
		return 0, false
	}
	return (cur - prev) / math.Abs(prev) * 100, true
}

type labelled struct {
	label string
	value float64
}

func byYear(series []periodValue, sign func(float64) float64) []labelled {
	out := make([]labelled, len(series))
	for i, p := range series {
		v := p.Val
		if sign != nil {
			v = sign(v)
		}
		out[i] = labelled{label: p.End[:min(4, len(p.End))], value: v}
	}
	return out
}

func byQuarter(series []periodValue) []labelled {
	out := make([]labelled, len(series))
	for i, p := range series {
		fp := p.FP
		if fp == "" {
			fp = "Q"
		}
		fy := strconv.Itoa(p.FY)
		if len(fy) > 2 {
			fy = fy[len(fy)-2:]
		}
		out[i] = labelled{label: fmt.Sprintf("%s FY%s", fp, fy), value: p.Val}
	}
	return out
}

type rowInput struct {
	label  string
	series []labelled
}

// table builds a statement whose columns are the union of row labels in first-seen order.
// Later values win for a repeated label.
func table(kind, title string, rows []rowInput) models.FinancialStatementTable {
	var years []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, p := range r.series {
			if !seen[p.label] {
				seen[p.label] = true
				years = append(years, p.label)
			}
		}
	}
	out := models.FinancialStatementTable{
		Kind:                kind,
		Title:               title,
		Years:               years,
		Rows:                make([]models.StatementRow, len(rows)),
		StandaloneAvailable: true,
		ActiveViewDefault:   "standalone",
		Source:              statementSource,
	}
	for i, r := range rows {
		cells := make(map[string]*float64, len(years))
		for _, y := range years {
			cells[y] = nil
		}
		for _, p := range r.series {
			if cells[p.label] == nil {
				cells[p.label] = models.Float(p.value)
			}
		}
		out.Rows[i] = models.StatementRow{Label: r.label, ValuesByYear: cells}
	}
	return out
}

func hasValues(t models.FinancialStatementTable) bool {
	for _, r := range t.Rows {
		for _, v := range r.ValuesByYear {
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Fundamentals derives key metrics and statements from company facts. A ratio is
// only emitted when every input tag is present.
func (c *Client) Fundamentals(ctx context.Context, e models.SearchEntity) (models.FundamentalsBundle, error) {
	ticker := strings.ToUpper(e.Symbol)
	cik, err := c.CIK(ctx, ticker)
	if err != nil {
		return models.FundamentalsBundle{}, err
	}

	var (
		facts *factsResponse
		subs  *submissionsResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		facts, err = c.companyFacts(gctx, cik)
		return err
	})
	g.Go(func() (err error) {
		subs, err = c.submissions(gctx, cik)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.FundamentalsBundle{}, err
	}

	return buildFundamentals(ticker, facts, subs), nil
}

func buildFundamentals(ticker string, facts *factsResponse, subs *submissionsResponse) models.FundamentalsBundle {
	revenues := facts.series("Revenues", "RevenueFromContractWithCustomerExcludingAssessedTax")
	netIncome := facts.series("NetIncomeLoss")
	assets := facts.series("Assets")
	liabilities := facts.series("Liabilities")
	equity := facts.series("StockholdersEquity")
	debt := facts.series("LongTermDebtAndFinanceLeaseObligations", "LongTermDebt")
	currentAssets := facts.series("AssetsCurrent")
	currentLiabilities := facts.series("LiabilitiesCurrent")
	eps := facts.series("EarningsPerShareDiluted")
	opIncome := facts.series("OperatingIncomeLoss")
	interest := facts.series("InterestExpense")
	cfo := facts.series("NetCashProvidedByUsedInOperatingActivities")
	capex := facts.series("PaymentsToAcquirePropertyPlantAndEquipment")

	revenue, hasRevenue := latestPreferAnnual(revenues)
	profit, hasProfit := latestPreferAnnual(netIncome)
	totalAssets, hasAssets := latest(assets, nil)
	totalLiabilities, hasLiabilities := latest(liabilities, nil)
	totalEquity, hasEquity := latest(equity, nil)
	longDebt, hasDebt := latest(debt, nil)
	curAssets, hasCurAssets := latest(currentAssets, nil)
	curLiabilities, hasCurLiabilities := latest(currentLiabilities, nil)
	epsValue, hasEPS := latest(eps, nil)
	operating, hasOperating := latestPreferAnnual(opIncome)
	interestExp, hasInterest := latest(interest, nil)
	cashOps, hasCFO := latestPreferAnnual(cfo)
	capexValue, hasCapex := latestPreferAnnual(capex)
	interestExp, capexValue = math.Abs(interestExp), math.Abs(capexValue)

	yearlySales := trend(revenues, annual)
	yearlyProfit := trend(netIncome, annual)
	quarterSales := trend(revenues, quarterly)
	quarterProfit := trend(netIncome, quarterly)

	in := map[string]*float64{}
	set := func(key string, v float64, ok bool) {
		if ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			in[key] = models.Float(v)
		}
	}
	set("sales", revenue, hasRevenue)
	set("pat", profit, hasProfit)
	set("opm", operating/revenue*100, hasOperating && hasRevenue)
	if n := len(quarterSales); n > 0 {
		set("salesLatestQuarter", quarterSales[n-1].Val, quarterSales[n-1].Val != 0)
	}
	if n := len(quarterProfit); n > 0 {
		set("patLatestQuarter", quarterProfit[n-1].Val, quarterProfit[n-1].Val != 0)
	}
	sg, ok := growth(yearlySales)
	set("salesGrowth", sg, ok)
	pg, ok := growth(yearlyProfit)
	set("profitGrowth", pg, ok)
	set("eps", epsValue, hasEPS)
	set("debt", longDebt, hasDebt)
	set("debtToEquity", totalLiabilities/totalEquity, hasLiabilities && hasEquity)
	set("roa", profit/totalAssets*100, hasProfit && hasAssets)
	set("roe", profit/totalEquity*100, hasProfit && hasEquity)
	set("currentRatio", curAssets/curLiabilities, hasCurAssets && hasCurLiabilities)
	set("interestCoverage", operating/interestExp, hasOperating && hasInterest)
	if hasRevenue && hasCFO && hasCapex {
		set("priceToFcf", math.Abs(revenue/math.Max(1, cashOps-capexValue)), true)
	}

	negate := func(v float64) float64 { return -math.Abs(v) }
	candidates := []models.FinancialStatementTable{
		table(models.StatementProfitLoss, "Profit and Loss", []rowInput{
			{"Revenue", byYear(yearlySales, nil)},
			{"Net Profit", byYear(yearlyProfit, nil)},
		}),
		table(models.StatementQuarterly, "Quarterly Results", []rowInput{
			{"Revenue", byQuarter(quarterSales)},
			{"Net Profit", byQuarter(quarterProfit)},
		}),
		table(models.StatementBalanceSheet, "Balance Sheet", []rowInput{
			{"Total Assets", byYear(trend(assets, annual), nil)},
			{"Total Liabilities", byYear(trend(liabilities, annual), nil)},
		}),
		table(models.StatementCashFlow, "Cash Flow", []rowInput{
			{"Cash from Operations", byYear(trend(cfo, annual), nil)},
			{"Capital Expenditure", byYear(trend(capex, annual), negate)},
		}),
	}
	statements := make([]models.FinancialStatementTable, 0, len(candidates))
	for _, t := range candidates {
		if hasValues(t) {
			statements = append(statements, t)
		}
	}

	name := facts.EntityName
	if name == "" {
		name = ticker
	}
	industry := ""
	if subs != nil {
		industry = subs.SICDescription
	}
	return models.FundamentalsBundle{
		CompanyID:   "us:" + ticker,
		CompanyName: name,
		Industry:    industry,
		Currency:    models.CurrencyUSD,
		KeyMetrics:  models.MapMetricEntries(in, models.CurrencyUSD),
		Statements:  statements,
		PeerSymbols: []string{},
		Source:      FundamentalsSource,
		Notes: []string{
			"SEC Company Facts can have gaps depending on filing taxonomy and tags.",
			"Only metrics derivable from available tags are shown. Missing metrics are hidden.",
		},
	}
}
