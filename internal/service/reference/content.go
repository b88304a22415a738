package reference

import (
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/pkg/util"
)

// News returns two generic headlines for e, dated relative to now.
func News(e models.SearchEntity, now time.Time) []models.NewsItem {
	url := e.Website
	if url == "" {
		url = "https://example.com"
	}
	return []models.NewsItem{
		{
			ID:             e.Symbol + "-news-1",
			Title:          e.Name + " quarterly update highlights steady growth",
			Source:         "Market News",
			URL:            url,
			PublishedAt:    util.ISO(now.Add(-3 * time.Hour)),
			Snippet:        e.Name + " reported business updates and management commentary relevant for long-term investors.",
			RelevanceScore: 0.9,
		},
		{
			ID:             e.Symbol + "-news-2",
			Title:          "Sector peers move after macro policy commentary",
			Source:         "Market News",
			URL:            "https://example.com/markets",
			PublishedAt:    util.ISO(now.Add(-12 * time.Hour)),
			Snippet:        "Sector sentiment remains mixed; investors focus on margin outlook and capital allocation.",
			RelevanceScore: 0.65,
		},
	}
}

// Documents returns placeholder company documents. Funds have none.
func Documents(e models.SearchEntity) []models.DocumentLink {
	if e.IsFund() {
		return []models.DocumentLink{}
	}
	url := e.Website
	if url == "" {
		url = "https://example.com"
	}
	return []models.DocumentLink{
		{
			ID:     e.Symbol + "-ar-2024",
			Title:  "Annual Report 2024",
			URL:    url,
			Kind:   models.DocAnnualReport,
			Year:   2024,
			Source: "Company Documents",
		},
		{
			ID:     e.Symbol + "-presentation",
			Title:  "Investor Presentation",
			URL:    url,
			Kind:   models.DocPresentation,
			Source: "Company Documents",
		},
	}
}
