package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/reference"
	"StockMetrics/pkg/logger"
)

const (
	DefaultSearchLimit = 12
	MaxSearchLimit     = 50
)

// Search scoring weights.
const (
	scoreExactSymbol  = 120
	scoreSymbolPrefix = 100
	scoreNamePrefix   = 90
	scoreNameContains = 60
	scoreAlias        = 50
	scoreToken        = 12
	scoreMarketHint   = 5
)

var (
	searchStrip   = regexp.MustCompile(`[^a-z0-9.\s:&-]`)
	searchSpaces  = regexp.MustCompile(`\s+`)
	indiaHint     = regexp.MustCompile(`nse|bse`)
	fundHint      = regexp.MustCompile(`fund|mutual`)
	tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)
)

// Resolver maps free text and symbols onto entities across the loaded market indexes.
type Resolver struct {
	indexes map[models.MarketKind]domrepo.SymbolIndex
	logger  *logger.Logger
}

func NewResolver(indexes []domrepo.SymbolIndex, l *logger.Logger) *Resolver {
	r := &Resolver{indexes: make(map[models.MarketKind]domrepo.SymbolIndex, len(indexes)), logger: l}
	for _, idx := range indexes {
		r.indexes[idx.Market()] = idx
	}
	return r
}

func normalizeText(s string) string {
	s = searchStrip.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(searchSpaces.ReplaceAllString(s, " "))
}

func scoreEntity(e models.SearchEntity, query string) int {
	q := normalizeText(query)
	if q == "" {
		return 0
	}
	display := e.DisplaySymbol
	if display == "" {
		display = e.Symbol
	}
	symbol := normalizeText(display)
	full := normalizeText(e.Symbol)
	name := normalizeText(e.Name)
	aliases := normalizeText(strings.Join(e.Aliases, " "))

	score := 0
	if symbol == q || full == q {
		score += scoreExactSymbol
	}
	if strings.HasPrefix(symbol, q) || strings.HasPrefix(full, q) {
		score += scoreSymbolPrefix
	}
	if strings.HasPrefix(name, q) {
		score += scoreNamePrefix
	}
	if strings.Contains(name, q) {
		score += scoreNameContains
	}
	if strings.Contains(aliases, q) {
		score += scoreAlias
	}
	text := symbol + " " + full + " " + name + " " + aliases
	for _, t := range strings.Fields(q) {
		if strings.Contains(text, t) {
			score += scoreToken
		}
	}
	if e.Market == models.MarketIndia && indiaHint.MatchString(q) {
		score += scoreMarketHint
	}
	if e.Market == models.MarketMF && fundHint.MatchString(q) {
		score += scoreMarketHint
	}
	return score
}

func (r *Resolver) entities(ctx context.Context, market models.MarketKind) []models.SearchEntity {
	if idx, ok := r.indexes[market]; ok {
		return idx.Entities(ctx)
	}
	return reference.UniverseFor(market)
}

// index returns one market's entities, or every market behind the reference list when market is empty.
func (r *Resolver) index(ctx context.Context, market models.MarketKind) []models.SearchEntity {
	if market != "" {
		return r.entities(ctx, market)
	}

	var india, us, mf []models.SearchEntity
	var g errgroup.Group
	g.Go(func() error { india = r.entities(ctx, models.MarketIndia); return nil })
	g.Go(func() error { us = r.entities(ctx, models.MarketUS); return nil })
	g.Go(func() error { mf = r.entities(ctx, models.MarketMF); return nil })
	_ = g.Wait()

	out := reference.Universe()
	out = append(out, india...)
	out = append(out, us...)
	return append(out, mf...)
}

// Search ranks entities against query. An empty query returns the head of the index.
func (r *Resolver) Search(ctx context.Context, query string, market models.MarketKind, limit int) []models.SearchEntity {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	base := r.index(ctx, market)
	q := strings.TrimSpace(query)
	if q == "" {
		return base[:min(limit, len(base))]
	}

	type scored struct {
		entity models.SearchEntity
		score  int
	}
	var hits []scored
	for _, e := range base {
		if s := scoreEntity(e, q); s > 0 {
			hits = append(hits, scored{entity: e, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return compareNames(hits[i].entity.Name, hits[j].entity.Name) < 0
	})

	out := make([]models.SearchEntity, 0, min(limit, len(hits)))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.entity.Symbol]; ok {
			continue
		}
		seen[h.entity.Symbol] = struct{}{}
		out = append(out, h.entity)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// compareNames orders case-insensitively, then by raw bytes for a total order.
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// ResolveBySymbol finds the entity for an exact symbol, display symbol or id.
// Exchange-suffixed Indian symbols and ticker-shaped US symbols resolve to a stub
// when no index knows them; anything else is ErrUnknownSymbol.
func (r *Resolver) ResolveBySymbol(ctx context.Context, symbol string) (models.SearchEntity, error) {
	target := strings.ToUpper(strings.TrimSpace(symbol))
	if e, ok := r.lookup(ctx, target); ok {
		return e, nil
	}
	if e, ok := r.stub(target); ok {
		return e, nil
	}
	return models.SearchEntity{}, fmt.Errorf("resolve %q: %w", symbol, domrepo.ErrUnknownSymbol)
}

// lookup matches target against the reference universe and the market indexes.
func (r *Resolver) lookup(ctx context.Context, target string) (models.SearchEntity, bool) {
	if target == "" {
		return models.SearchEntity{}, false
	}
	if e, ok := reference.Lookup(target); ok {
		return e, true
	}

	if code, ok := strings.CutPrefix(target, "AMFI:"); ok {
		return find(r.entities(ctx, models.MarketMF), func(e models.SearchEntity) bool {
			return strings.ToUpper(e.Symbol) == target || strings.ToUpper(e.DisplaySymbol) == code
		})
	}
	if base, ok := strings.CutSuffix(target, ".NS"); ok {
		return find(r.entities(ctx, models.MarketIndia), func(e models.SearchEntity) bool {
			return strings.ToUpper(e.Symbol) == target || strings.ToUpper(e.DisplaySymbol) == base
		})
	}
	if strings.HasSuffix(target, ".BO") {
		return models.SearchEntity{}, false
	}

	if e, ok := find(r.entities(ctx, models.MarketUS), func(e models.SearchEntity) bool {
		return strings.ToUpper(e.Symbol) == target || strings.ToUpper(e.DisplaySymbol) == target
	}); ok {
		return e, true
	}
	if e, ok := find(r.entities(ctx, models.MarketIndia), func(e models.SearchEntity) bool {
		return strings.ToUpper(e.DisplaySymbol) == target || strings.ToUpper(e.Symbol) == target+".NS"
	}); ok {
		return e, true
	}
	return find(r.entities(ctx, models.MarketMF), func(e models.SearchEntity) bool {
		return strings.ToUpper(e.DisplaySymbol) == target || strings.ToUpper(e.Symbol) == "AMFI:"+target
	})
}

// stub synthesizes an entity for an exchange-suffixed or ticker-shaped symbol no index knows.
func (r *Resolver) stub(target string) (models.SearchEntity, bool) {
	if base, ok := strings.CutSuffix(target, ".NS"); ok && base != "" {
		return indiaStub(base, ".NS", models.ExchangeNSE), true
	}
	if base, ok := strings.CutSuffix(target, ".BO"); ok && base != "" {
		return indiaStub(base, ".BO", models.ExchangeBSE), true
	}
	if !tickerPattern.MatchString(target) {
		return models.SearchEntity{}, false
	}
	r.logger.Debug("resolver: synthesized US stub", logger.String("symbol", target))
	return models.SearchEntity{
		ID:            "us:" + target,
		Symbol:        target,
		DisplaySymbol: target,
		Name:          target,
		Market:        models.MarketUS,
		Exchange:      models.ExchangeUnknown,
		Country:       "United States",
		Currency:      models.CurrencyUSD,
		Type:          models.TypeStock,
		Aliases:       []string{target},
	}, true
}

// Resolve accepts either a symbol or free text. Known symbols win, then the best
// search hit; a ticker-shaped word nothing matches falls back to a stub.
func (r *Resolver) Resolve(ctx context.Context, symbolOrQuery string) (models.SearchEntity, error) {
	target := strings.ToUpper(strings.TrimSpace(symbolOrQuery))
	single := len(strings.Fields(target)) == 1
	if single {
		if e, ok := r.lookup(ctx, target); ok {
			return e, nil
		}
	}
	if hits := r.Search(ctx, symbolOrQuery, "", 1); len(hits) > 0 {
		return hits[0], nil
	}
	if single {
		if e, ok := r.stub(target); ok {
			return e, nil
		}
	}
	return models.SearchEntity{}, fmt.Errorf("resolve %q: %w", symbolOrQuery, domrepo.ErrUnknownSymbol)
}

func indiaStub(base, suffix, exchange string) models.SearchEntity {
	id := "india:" + base
	if exchange == models.ExchangeBSE {
		id += ":BSE"
	}
	return models.SearchEntity{
		ID:            id,
		Symbol:        base + suffix,
		DisplaySymbol: base,
		Name:          base,
		Market:        models.MarketIndia,
		Exchange:      exchange,
		Country:       "India",
		Currency:      models.CurrencyINR,
		Type:          models.TypeStock,
		Aliases:       []string{base},
	}
}

func find(entities []models.SearchEntity, match func(models.SearchEntity) bool) (models.SearchEntity, bool) {
	for _, e := range entities {
		if match(e) {
			return e, true
		}
	}
	return models.SearchEntity{}, false
}
