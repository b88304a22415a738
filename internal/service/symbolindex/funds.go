package symbolindex

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/logger"
)

// FundLoader reads the MFAPI scheme list, falling back to the AMFI NAVAll.txt dump.
type FundLoader struct {
	mfapiURL string
	amfiURL  string
	http     *xhttp.Client
	logger   *logger.Logger
}

func NewFundLoader(mfapiURL, amfiURL string, httpClient *xhttp.Client, l *logger.Logger) *FundLoader {
	return &FundLoader{
		mfapiURL: strings.TrimRight(mfapiURL, "/"),
		amfiURL:  strings.TrimRight(amfiURL, "/"),
		http:     httpClient,
		logger:   l,
	}
}

func (l *FundLoader) Market() models.MarketKind { return models.MarketMF }

type schemeListItem struct {
	SchemeCode int64  `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

func (l *FundLoader) Load(ctx context.Context) ([]models.SearchEntity, error) {
	out, err := l.loadSchemeList(ctx)
	if err == nil && len(out) > 0 {
		return out, nil
	}
	l.logger.Warn("symbol index: mfapi scheme list failed, trying amfi", logger.Error(err))

	text, err := fetchText(ctx, l.http, l.amfiURL+"/NAVAll.txt")
	if err != nil {
		return nil, err
	}
	out = ParseNAVAll(text)
	if len(out) == 0 {
		return nil, fmt.Errorf("symbol index mf: %w: no schemes", repository.ErrUpstreamUnavailable)
	}
	return out, nil
}

func (l *FundLoader) loadSchemeList(ctx context.Context) ([]models.SearchEntity, error) {
	var list []schemeListItem
	err := l.http.SendAndParse(ctx, &xhttp.RequestOptions{Method: xhttp.MethodGet, URL: l.mfapiURL + "/mf"}, &list)
	if err != nil {
		return nil, fmt.Errorf("symbol index mf: %w: %w", repository.ErrUpstreamUnavailable, err)
	}
	out := make([]models.SearchEntity, 0, len(list))
	for _, item := range list {
		name := strings.TrimSpace(item.SchemeName)
		if item.SchemeCode == 0 || name == "" {
			continue
		}
		out = append(out, fundEntity(strconv.FormatInt(item.SchemeCode, 10), name,
			"Indian mutual fund scheme (MFAPI/AMFI dataset)."))
	}
	return dedupe(out), nil
}

var schemeLine = regexp.MustCompile(`^\d+;`)

// ParseNAVAll reads "Scheme Code;ISIN Growth;ISIN Reinvestment;Scheme Name;NAV;Date" rows,
// skipping fund-house and category heading lines.
func ParseNAVAll(text string) []models.SearchEntity {
	var out []models.SearchEntity
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if !schemeLine.MatchString(line) {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) < 6 {
			continue
		}
		code, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[3])
		if code == "" || name == "" {
			continue
		}
		out = append(out, fundEntity(code, name, "Indian mutual fund scheme (AMFI)."))
	}
	return dedupe(out)
}

func fundEntity(code, name, summary string) models.SearchEntity {
	return models.SearchEntity{
		ID:            "mf:AMFI_" + code,
		Symbol:        "AMFI:" + code,
		DisplaySymbol: code,
		Name:          name,
		Market:        models.MarketMF,
		Exchange:      models.ExchangeMF,
		Country:       "India",
		Currency:      models.CurrencyINR,
		Type:          models.TypeMutualFund,
		Aliases:       []string{code, name, "mutual fund"},
		Summary:       summary,
	}
}
