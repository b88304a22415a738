package sec

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"StockMetrics/internal/domain/models"
)

const (
	DocumentsSource = "SEC EDGAR"
	recentFilings   = 20
)

var documentForms = map[string]string{
	"10-K": models.DocAnnualReport,
	"20-F": models.DocAnnualReport,
	"10-Q": models.DocFiling,
	"8-K":  models.DocFiling,
}

// Documents lists annual, quarterly and current reports among the most recent filings.
func (c *Client) Documents(ctx context.Context, e models.SearchEntity) ([]models.DocumentLink, error) {
	ticker := strings.ToUpper(e.Symbol)
	cik, err := c.CIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	subs, err := c.submissions(ctx, cik)
	if err != nil {
		return nil, err
	}
	recent := subs.Filings.Recent
	cikPath := trimCIK(cik)
	n := min(recentFilings, len(recent.Form))
	out := make([]models.DocumentLink, 0, n)
	for i := 0; i < n; i++ {
		form := recent.Form[i]
		kind, ok := documentForms[form]
		if !ok {
			continue
		}
		accession := strings.ReplaceAll(index(recent.AccessionNumber, i), "-", "")
		primary := index(recent.PrimaryDocument, i)
		filed := index(recent.FilingDate, i)

		doc := models.DocumentLink{
			ID:     fmt.Sprintf("%s-%s", ticker, accession),
			Title:  strings.TrimSpace(form + " " + filed),
			URL:    fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", c.wwwURL, cikPath, accession, primary),
			Kind:   kind,
			Source: DocumentsSource,
		}
		if len(filed) >= 4 {
			if y, err := strconv.Atoi(filed[:4]); err == nil {
				doc.Year = y
			}
		}
		out = append(out, doc)
	}
	return out, nil
}

func index(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
