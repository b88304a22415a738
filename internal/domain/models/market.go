package models

// MarketKind is one of the three instrument universes.
type MarketKind string

const (
	MarketUS    MarketKind = "us"
	MarketIndia MarketKind = "india"
	MarketMF    MarketKind = "mf"
)

// Valid reports whether m is a known market.
func (m MarketKind) Valid() bool {
	switch m {
	case MarketUS, MarketIndia, MarketMF:
		return true
	}
	return false
}

// Currency returns the native trading currency of the market.
func (m MarketKind) Currency() string {
	if m == MarketUS {
		return CurrencyUSD
	}
	return CurrencyINR
}

const (
	CurrencyUSD = "USD"
	CurrencyINR = "INR"
)

// Exchange codes.
const (
	ExchangeNSE     = "NSE"
	ExchangeBSE     = "BSE"
	ExchangeNYSE    = "NYSE"
	ExchangeNASDAQ  = "NASDAQ"
	ExchangeAMEX    = "AMEX"
	ExchangeMF      = "MF"
	ExchangeUnknown = "UNKNOWN"
)

// Instrument types.
const (
	TypeStock      = "stock"
	TypeMutualFund = "mutual_fund"
)

// SearchEntity is the canonical identity of one tradable instrument.
// ID is globally unique ("us:AAPL", "india:TCS", "mf:AMFI_120503"); Symbol is unique within a market.
type SearchEntity struct {
	ID            string     `json:"id"`
	Symbol        string     `json:"symbol"`
	DisplaySymbol string     `json:"displaySymbol"`
	Name          string     `json:"name"`
	Market        MarketKind `json:"market"`
	Exchange      string     `json:"exchange,omitempty"`
	Sector        string     `json:"sector,omitempty"`
	Industry      string     `json:"industry,omitempty"`
	Country       string     `json:"country,omitempty"`
	Website       string     `json:"website,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	Aliases       []string   `json:"aliases,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	Type          string     `json:"type"`
}

// IsFund reports whether the entity is a mutual fund scheme.
func (e SearchEntity) IsFund() bool {
	return e.Type == TypeMutualFund || e.Market == MarketMF
}

// Quote is a point-in-time price snapshot. Nil numeric fields mean unavailable.
type Quote struct {
	Symbol        string     `json:"symbol"`
	Market        MarketKind `json:"market"`
	Exchange      string     `json:"exchange,omitempty"`
	Currency      string     `json:"currency"`
	Price         *float64   `json:"price"`
	PreviousClose *float64   `json:"previousClose,omitempty"`
	Change        *float64   `json:"change,omitempty"`
	ChangePercent *float64   `json:"changePercent,omitempty"`
	Timestamp     string     `json:"timestamp,omitempty"`
	Source        string     `json:"source"`
	Delayed       bool       `json:"delayed"`
	Stale         bool       `json:"stale,omitempty"`
}

// PricePoint is one bar of a history series. TS is an ISO-8601 UTC timestamp.
type PricePoint struct {
	TS     string   `json:"ts"`
	Close  float64  `json:"close"`
	Open   *float64 `json:"open,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
}

// HistorySeries holds points sorted ascending by TS with no gap filling.
type HistorySeries struct {
	Symbol   string       `json:"symbol"`
	Currency string       `json:"currency"`
	Points   []PricePoint `json:"points"`
	Source   string       `json:"source"`
	Delayed  bool         `json:"delayed"`
	Stale    bool         `json:"stale,omitempty"`
}

// Closes returns the close prices in series order.
func (h HistorySeries) Closes() []float64 {
	out := make([]float64, len(h.Points))
	for i, p := range h.Points {
		out[i] = p.Close
	}
	return out
}

type NewsItem struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
	PublishedAt    string   `json:"publishedAt,omitempty"`
	Snippet        string   `json:"snippet,omitempty"`
	RelevanceScore float64  `json:"relevanceScore,omitempty"`
	SentimentScore *float64 `json:"sentimentScore,omitempty"`
}

// Document kinds.
const (
	DocAnnualReport = "annual_report"
	DocFiling       = "filing"
	DocPresentation = "presentation"
	DocOther        = "other"
)

type DocumentLink struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Kind   string `json:"kind"`
	Year   int    `json:"year,omitempty"`
	Source string `json:"source"`
}

// FXRate is a USD-base conversion rate; Stale marks a fallback value.
type FXRate struct {
	Rate      float64 `json:"rate"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Stale     bool    `json:"stale,omitempty"`
}

// StockDetailBundle is everything the detail page needs for one entity.
type StockDetailBundle struct {
	Entity       SearchEntity       `json:"entity"`
	Quote        Quote              `json:"quote"`
	History      HistorySeries      `json:"history"`
	Fundamentals FundamentalsBundle `json:"fundamentals"`
	News         []NewsItem         `json:"news"`
	Documents    []DocumentLink     `json:"documents"`
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
