// Package symbolindex loads full market symbol universes from bulk listing files.
package symbolindex

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
)

// Loader fetches one market's universe. Errors wrap repository.ErrUpstreamUnavailable.
type Loader interface {
	Market() models.MarketKind
	Load(ctx context.Context) ([]models.SearchEntity, error)
}

// nonTradable matches security names of warrants, rights and units.
var nonTradable = regexp.MustCompile(`(?i)\b(warrants?|rights?|units?)\b`)

func fetchText(ctx context.Context, client *xhttp.Client, url string) (string, error) {
	var body []byte
	if err := client.SendAndParse(ctx, &xhttp.RequestOptions{Method: xhttp.MethodGet, URL: url}, &body); err != nil {
		return "", fmt.Errorf("symbol index %s: %w: %w", url, repository.ErrUpstreamUnavailable, err)
	}
	return string(body), nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// dedupe keeps the first entity for each symbol.
func dedupe(in []models.SearchEntity) []models.SearchEntity {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, e := range in {
		if _, ok := seen[e.Symbol]; ok {
			continue
		}
		seen[e.Symbol] = struct{}{}
		out = append(out, e)
	}
	return out
}
