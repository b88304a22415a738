package symbolindex

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
)

// USLoader reads nasdaqlisted.txt and otherlisted.txt from the NASDAQ Trader symbol directory.
type USLoader struct {
	baseURL string
	http    *xhttp.Client
}

func NewUSLoader(baseURL string, httpClient *xhttp.Client) *USLoader {
	return &USLoader{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (l *USLoader) Market() models.MarketKind { return models.MarketUS }

func (l *USLoader) Load(ctx context.Context) ([]models.SearchEntity, error) {
	var nasdaq, other string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		nasdaq, err = fetchText(gctx, l.http, l.baseURL+"/nasdaqlisted.txt")
		return err
	})
	g.Go(func() (err error) {
		other, err = fetchText(gctx, l.http, l.baseURL+"/otherlisted.txt")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := append(ParseNasdaqListed(nasdaq), ParseOtherListed(other)...)
	out = dedupe(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("symbol index us: %w: no rows", repository.ErrUpstreamUnavailable)
	}
	return out, nil
}

func pipeRows(text string) [][]string {
	lines := splitLines(text)
	if len(lines) <= 1 {
		return nil
	}
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "File Creation Time") {
			continue
		}
		cols := strings.Split(line, "|")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		rows = append(rows, cols)
	}
	return rows
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

func usEntity(symbol, name, exchange string) models.SearchEntity {
	return models.SearchEntity{
		ID:            "us:" + symbol,
		Symbol:        symbol,
		DisplaySymbol: symbol,
		Name:          name,
		Market:        models.MarketUS,
		Exchange:      exchange,
		Country:       "United States",
		Currency:      models.CurrencyUSD,
		Type:          models.TypeStock,
		Aliases:       []string{symbol, name},
	}
}

// ParseNasdaqListed reads Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares.
func ParseNasdaqListed(text string) []models.SearchEntity {
	var out []models.SearchEntity
	for _, cols := range pipeRows(text) {
		symbol, name, testIssue := col(cols, 0), col(cols, 1), col(cols, 3)
		if symbol == "" || name == "" || testIssue == "Y" || nonTradable.MatchString(name) {
			continue
		}
		out = append(out, usEntity(symbol, name, models.ExchangeNASDAQ))
	}
	return out
}

// ParseOtherListed reads ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol.
func ParseOtherListed(text string) []models.SearchEntity {
	var out []models.SearchEntity
	for _, cols := range pipeRows(text) {
		symbol, name, exchange, testIssue := col(cols, 0), col(cols, 1), col(cols, 2), col(cols, 6)
		if symbol == "" || name == "" || testIssue == "Y" || nonTradable.MatchString(name) {
			continue
		}
		out = append(out, usEntity(symbol, name, exchangeName(exchange)))
	}
	return out
}

func exchangeName(code string) string {
	switch code {
	case "N", "P":
		return models.ExchangeNYSE
	case "A":
		return models.ExchangeAMEX
	}
	return models.ExchangeUnknown
}
