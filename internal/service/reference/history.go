package reference

import (
	"math"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/pkg/util"
)

const historySource = "Reference historical series"

// parkMiller is the minimal standard generator; it yields values in [0, 1).
type parkMiller struct {
	state int64
}

func newParkMiller(seed int64) *parkMiller {
	return &parkMiller{state: seed % 2147483647}
}

func (p *parkMiller) next() float64 {
	p.state = (p.state * 16807) % 2147483647
	return float64(p.state-1) / 2147483646
}

func symbolSeed(symbol string) int64 {
	var sum int64
	for _, r := range symbol {
		sum += int64(r)
	}
	return sum
}

// History synthesizes a weekday-only daily series ending today. The walk is seeded
// from the symbol so repeated calls on the same day return identical points.
func History(e models.SearchEntity, now time.Time) models.HistorySeries {
	rnd := newParkMiller(symbolSeed(e.Symbol))
	fund := e.Market == models.MarketMF

	days := 1600
	drift, spread := 0.00035, 0.03
	if fund {
		days = 520
		drift, spread = 0.0002, 0.015
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -days)

	price, ok := CurrentPrice(e)
	if !ok {
		price = 1000
		if e.Market == models.MarketUS {
			price = 100
		}
	}

	points := make([]models.PricePoint, 0, days*5/7+1)
	for i := 0; i <= days; i++ {
		d := start.AddDate(0, 0, i)
		if util.IsWeekend(d) {
			continue
		}
		shock := (rnd.next() - 0.5) * spread
		price = math.Max(1, price*(1+drift+shock))
		p := models.PricePoint{
			TS:    util.ISO(d),
			Close: math.Round(price*100) / 100,
		}
		if !fund {
			p.Volume = models.Float(math.Round(1_000_000 + rnd.next()*5_000_000))
		}
		points = append(points, p)
	}

	currency := e.Currency
	if currency == "" {
		currency = models.CurrencyINR
	}
	return models.HistorySeries{
		Symbol:   e.Symbol,
		Currency: currency,
		Points:   points,
		Source:   historySource,
		Delayed:  true,
	}
}

// QuoteFromHistory derives a quote from the last two points of h.
func QuoteFromHistory(e models.SearchEntity, h models.HistorySeries) models.Quote {
	q := models.Quote{
		Symbol:   e.Symbol,
		Market:   e.Market,
		Exchange: e.Exchange,
		Currency: h.Currency,
		Source:   h.Source,
		Delayed:  true,
	}
	n := len(h.Points)
	if n == 0 {
		return q
	}
	last := h.Points[n-1]
	prev := last
	if n > 1 {
		prev = h.Points[n-2]
	}
	change := last.Close - prev.Close
	q.Price = models.Float(last.Close)
	q.PreviousClose = models.Float(prev.Close)
	q.Change = models.Float(change)
	if prev.Close != 0 {
		q.ChangePercent = models.Float(change / prev.Close * 100)
	}
	q.Timestamp = last.TS
	return q
}
