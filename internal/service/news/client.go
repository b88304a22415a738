// Package news searches the Google News RSS feed for company headlines.
package news

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/net/html"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/util"
)

const (
	DefaultSource = "Google News RSS"

	// MaxItems caps the list returned per company.
	MaxItems = 12
	// MinRelevance is the exclusive floor an item must beat to be kept.
	MinRelevance = 0.2
	matchWeight  = 0.4
)

// sourceTranslator keeps the RSS <source> element, which the universal feed
// model drops, as Custom["source"].
type sourceTranslator struct {
	gofeed.DefaultRSSTranslator
}

func (t *sourceTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rf, ok := feed.(*rss.Feed)
	if !ok {
		return nil, fmt.Errorf("feed did not match expected type of *rss.Feed")
	}
	out, err := t.DefaultRSSTranslator.Translate(rf)
	if err != nil {
		return nil, err
	}
	for i, item := range rf.Items {
		if i >= len(out.Items) || item.Source == nil {
			continue
		}
		if out.Items[i].Custom == nil {
			out.Items[i].Custom = map[string]string{}
		}
		out.Items[i].Custom["source"] = item.Source.Title
	}
	return out, nil
}

func newParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.RSSTranslator = &sourceTranslator{}
	return p
}

// Client implements repository.NewsSource.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

func New(baseURL string, httpClient *xhttp.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Search queries the feed by company name and symbol and keeps items that mention either.
func (c *Client) Search(ctx context.Context, companyName, symbol string) ([]models.NewsItem, error) {
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/rss/search",
		QueryParams: map[string][]string{
			"q":    {fmt.Sprintf("%q OR %s stock market", companyName, symbol)},
			"hl":   {"en-IN"},
			"gl":   {"IN"},
			"ceid": {"IN:en"},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("news rss %s: %w: %w", symbol, repository.ErrUpstreamUnavailable, err)
	}

	items, err := Parse(body, companyName, symbol)
	if err != nil {
		return nil, fmt.Errorf("news rss %s: %w: %w", symbol, repository.ErrUpstreamUnavailable, err)
	}
	return items, nil
}

// Parse decodes an RSS or Atom document into scored, filtered news items in feed order.
func Parse(body []byte, companyName, symbol string) ([]models.NewsItem, error) {
	feed, err := newParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	out := make([]models.NewsItem, 0, MaxItems)
	for idx, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}
		description := StripHTML(item.Description)
		score := Relevance(title, description, symbol, companyName)
		if score <= MinRelevance {
			continue
		}

		n := models.NewsItem{
			ID:             fmt.Sprintf("%s-%d-%s", symbol, idx, strings.TrimSpace(item.Published)),
			Title:          title,
			URL:            strings.TrimSpace(item.Link),
			Source:         strings.TrimSpace(item.Custom["source"]),
			Snippet:        description,
			RelevanceScore: score,
		}
		if n.URL == "" {
			n.URL = "#"
		}
		if n.Source == "" {
			n.Source = DefaultSource
		}
		if item.PublishedParsed != nil {
			n.PublishedAt = util.ISO(*item.PublishedParsed)
		} else if t, ok := util.ParseFeedTime(item.Published); ok {
			n.PublishedAt = util.ISO(t)
		}
		out = append(out, n)
		if len(out) == MaxItems {
			break
		}
	}
	return out, nil
}

// StripHTML keeps the text content of an HTML fragment with whitespace collapsed.
func StripHTML(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		default:
			b.WriteByte(' ')
		}
	}
}

// Relevance scores 0.4 for each of symbol, company name and the name's first
// word found in title+description, capped at 1.
func Relevance(title, description, symbol, companyName string) float64 {
	text := strings.ToLower(title + " " + description)
	first := ""
	if fields := strings.Fields(companyName); len(fields) > 0 {
		first = fields[0]
	}
	var score float64
	for _, needle := range []string{symbol, companyName, first} {
		if needle == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(needle)) {
			score += matchWeight
		}
	}
	return math.Min(1, score)
}
