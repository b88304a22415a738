package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
)

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item>
  <title>Infosys Ltd wins large deal</title>
  <link>https://news.example/1</link>
  <pubDate>Wed, 01 Jan 2025 10:00:00 GMT</pubDate>
  <description>&lt;a href="x"&gt;INFY&lt;/a&gt;   shares   rise</description>
  <source url="https://et.example">Economic Times</source>
</item>
<item>
  <title>Unrelated market wrap</title>
  <link>https://news.example/2</link>
  <description>Indices close flat</description>
</item>
<item>
  <title>Infosys outlook</title>
  <description>brokers stay cautious</description>
</item>
</channel></rss>`

func TestParseScoresAndFilters(t *testing.T) {
	items, err := Parse([]byte(feed), "Infosys Ltd", "INFY")
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Infosys Ltd wins large deal", first.Title)
	assert.Equal(t, "INFY shares rise", first.Snippet)
	assert.Equal(t, 1.0, first.RelevanceScore)
	assert.Equal(t, "Economic Times", first.Source)
	assert.Equal(t, "2025-01-01T10:00:00.000Z", first.PublishedAt)
	assert.Equal(t, "INFY-0-Wed, 01 Jan 2025 10:00:00 GMT", first.ID)

	second := items[1]
	assert.InDelta(t, 0.4, second.RelevanceScore, 1e-9)
	assert.Equal(t, DefaultSource, second.Source)
	assert.Equal(t, "#", second.URL)
	assert.Empty(t, second.PublishedAt)
	assert.True(t, strings.HasPrefix(second.ID, "INFY-2-"))
}

func TestParseCapsAtMaxItems(t *testing.T) {
	var b strings.Builder
	b.WriteString("<rss><channel>")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "<item><title>INFY update %d</title></item>", i)
	}
	b.WriteString("</channel></rss>")

	items, err := Parse([]byte(b.String()), "Infosys Ltd", "INFY")
	require.NoError(t, err)
	assert.Len(t, items, MaxItems)
	assert.Equal(t, "INFY update 0", items[0].Title)
}

func TestParseAtom(t *testing.T) {
	const atom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Wire</title>
  <entry>
    <title>Infosys quarterly results beat estimates</title>
    <link href="https://wire.example/infy"/>
    <published>2025-02-03T04:05:06Z</published>
    <summary>INFY guidance raised</summary>
  </entry>
</feed>`

	items, err := Parse([]byte(atom), "Infosys Ltd", "INFY")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://wire.example/infy", items[0].URL)
	assert.Equal(t, "2025-02-03T04:05:06.000Z", items[0].PublishedAt)
	assert.Equal(t, DefaultSource, items[0].Source)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "INFY shares rise", StripHTML(`<a href="x">INFY</a>   shares <b>rise</b>`))
	assert.Equal(t, "AT&T up", StripHTML("AT&amp;T\n up"))
	assert.Empty(t, StripHTML("<br/>"))
}

func TestRelevance(t *testing.T) {
	assert.Equal(t, 0.0, Relevance("Markets", "", "AAPL", "Apple Inc."))
	assert.InDelta(t, 0.8, Relevance("Apple gains", "AAPL up", "AAPL", "Apple Inc."), 1e-9)
	assert.Equal(t, 1.0, Relevance("Apple Inc. and AAPL", "", "AAPL", "Apple Inc."))
}

func TestSearchQueryAndFailure(t *testing.T) {
	var q, hl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		hl = r.URL.Query().Get("hl")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	items, err := New(srv.URL, xhttp.NewClient()).Search(context.Background(), "Infosys Ltd", "INFY")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, `"Infosys Ltd" OR INFY stock market`, q)
	assert.Equal(t, "en-IN", hl)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<rss><channel><item>"))
	}))
	defer bad.Close()
	_, err = New(bad.URL, xhttp.NewClient()).Search(context.Background(), "Infosys Ltd", "INFY")
	assert.True(t, errors.Is(err, repository.ErrUpstreamUnavailable))
}
