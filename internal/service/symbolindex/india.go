package symbolindex

import (
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
)

// IndiaLoader reads the NSE equity listing EQUITY_L.csv.
type IndiaLoader struct {
	baseURL string
	http    *xhttp.Client
}

func NewIndiaLoader(baseURL string, httpClient *xhttp.Client) *IndiaLoader {
	return &IndiaLoader{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (l *IndiaLoader) Market() models.MarketKind { return models.MarketIndia }

func (l *IndiaLoader) Load(ctx context.Context) ([]models.SearchEntity, error) {
	text, err := fetchText(ctx, l.http, l.baseURL+"/EQUITY_L.csv")
	if err != nil {
		return nil, err
	}
	out, err := ParseEquityList(text)
	if err != nil {
		return nil, fmt.Errorf("symbol index india: %w: %w", repository.ErrUpstreamUnavailable, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("symbol index india: %w: no rows", repository.ErrUpstreamUnavailable)
	}
	return out, nil
}

var (
	symbolHeader = regexp.MustCompile(`(?i)symbol`)
	nameHeader   = regexp.MustCompile(`(?i)name of company`)
)

// ParseEquityList maps the SYMBOL and NAME OF COMPANY columns to NSE entities.
func ParseEquityList(text string) ([]models.SearchEntity, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	symbolIdx, nameIdx := -1, -1
	for i, h := range records[0] {
		if symbolIdx < 0 && symbolHeader.MatchString(h) {
			symbolIdx = i
		}
		if nameIdx < 0 && nameHeader.MatchString(h) {
			nameIdx = i
		}
	}
	if symbolIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("missing SYMBOL or NAME OF COMPANY header")
	}

	out := make([]models.SearchEntity, 0, len(records)-1)
	for _, rec := range records[1:] {
		symbol := strings.TrimSpace(col(rec, symbolIdx))
		name := strings.TrimSpace(col(rec, nameIdx))
		if symbol == "" || name == "" {
			continue
		}
		out = append(out, models.SearchEntity{
			ID:            "india:" + symbol,
			Symbol:        symbol + ".NS",
			DisplaySymbol: symbol,
			Name:          name,
			Market:        models.MarketIndia,
			Exchange:      models.ExchangeNSE,
			Country:       "India",
			Currency:      models.CurrencyINR,
			Type:          models.TypeStock,
			Aliases:       []string{symbol, name},
		})
	}
	return dedupe(out), nil
}
