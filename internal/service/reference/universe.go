// Package reference holds the embedded dataset served when upstream sources fail.
// Everything here is deterministic for a given clock.
package reference

import (
	"strings"

	"StockMetrics/internal/domain/models"
)

var universe = []models.SearchEntity{
	{
		ID: "india:HDFCBANK", Symbol: "HDFCBANK.NS", DisplaySymbol: "HDFCBANK", Name: "HDFC Bank Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Financial Services", Industry: "Banks", Country: "India", Website: "https://www.hdfcbank.com",
		Summary: "Large private sector bank in India offering retail, wholesale and treasury services.",
		Aliases: []string{"hdfc bank", "hdfcbank"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:ICICIBANK", Symbol: "ICICIBANK.NS", DisplaySymbol: "ICICIBANK", Name: "ICICI Bank Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Financial Services", Industry: "Banks", Country: "India", Website: "https://www.icicibank.com",
		Summary: "Indian private bank with strong retail and digital banking presence.",
		Aliases: []string{"icici", "icici bank"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:AXISBANK", Symbol: "AXISBANK.NS", DisplaySymbol: "AXISBANK", Name: "Axis Bank Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Financial Services", Industry: "Banks", Country: "India", Website: "https://www.axisbank.com",
		Summary: "Major Indian private bank serving consumer and corporate banking segments.",
		Aliases: []string{"axis bank"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:KOTAKBANK", Symbol: "KOTAKBANK.NS", DisplaySymbol: "KOTAKBANK", Name: "Kotak Mahindra Bank Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Financial Services", Industry: "Banks", Country: "India", Website: "https://www.kotak.com",
		Summary: "Diversified Indian financial services company with banking, broking and insurance.",
		Aliases: []string{"kotak bank", "kotak"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:IDBI", Symbol: "IDBI.NS", DisplaySymbol: "IDBI", Name: "IDBI Bank Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Financial Services", Industry: "Banks", Country: "India", Website: "https://www.idbibank.in",
		Summary: "Indian bank with government and institutional shareholding profile.",
		Aliases: []string{"idbi bank"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:RELIANCE", Symbol: "RELIANCE.NS", DisplaySymbol: "RELIANCE", Name: "Reliance Industries Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Energy", Industry: "Refining & Petrochemicals", Country: "India", Website: "https://www.ril.com",
		Summary: "Indian conglomerate across energy, telecom, retail and digital services.",
		Aliases: []string{"ril", "reliance industries"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:TCS", Symbol: "TCS.NS", DisplaySymbol: "TCS", Name: "Tata Consultancy Services Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Technology", Industry: "IT Services", Country: "India", Website: "https://www.tcs.com",
		Summary: "Large Indian IT services exporter with global enterprise clients.",
		Aliases: []string{"tata consultancy services"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "india:INFY", Symbol: "INFY.NS", DisplaySymbol: "INFY", Name: "Infosys Ltd",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE,
		Sector: "Technology", Industry: "IT Services", Country: "India", Website: "https://www.infosys.com",
		Summary: "Indian IT services and consulting company focused on digital transformation.",
		Aliases: []string{"infosys"}, Currency: models.CurrencyINR, Type: models.TypeStock,
	},
	{
		ID: "us:AAPL", Symbol: "AAPL", DisplaySymbol: "AAPL", Name: "Apple Inc.",
		Market: models.MarketUS, Exchange: models.ExchangeNASDAQ,
		Sector: "Technology", Industry: "Consumer Electronics", Country: "United States", Website: "https://www.apple.com",
		Summary: "Consumer electronics and software company known for iPhone, Mac and Services.",
		Aliases: []string{"apple"}, Currency: models.CurrencyUSD, Type: models.TypeStock,
	},
	{
		ID: "us:MSFT", Symbol: "MSFT", DisplaySymbol: "MSFT", Name: "Microsoft Corporation",
		Market: models.MarketUS, Exchange: models.ExchangeNASDAQ,
		Sector: "Technology", Industry: "Software", Country: "United States", Website: "https://www.microsoft.com",
		Summary: "Software and cloud computing company with Azure, Office and enterprise products.",
		Aliases: []string{"microsoft"}, Currency: models.CurrencyUSD, Type: models.TypeStock,
	},
	{
		ID: "us:GOOGL", Symbol: "GOOGL", DisplaySymbol: "GOOGL", Name: "Alphabet Inc.",
		Market: models.MarketUS, Exchange: models.ExchangeNASDAQ,
		Sector: "Communication Services", Industry: "Internet Content & Information", Country: "United States",
		Website: "https://abc.xyz",
		Summary: "Parent company of Google with search, ads, cloud and other ventures.",
		Aliases: []string{"google", "alphabet"}, Currency: models.CurrencyUSD, Type: models.TypeStock,
	},
	{
		ID: "mf:UTI_NIFTY50", Symbol: "UTI-NIFTY-50-IDX", DisplaySymbol: "UTI Nifty 50 Index Fund",
		Name: "UTI Nifty 50 Index Fund", Market: models.MarketMF, Exchange: models.ExchangeMF,
		Sector: "Mutual Fund", Industry: "Index Fund", Country: "India",
		Summary: "Indian mutual fund tracking the Nifty 50 index.",
		Aliases: []string{"uti nifty 50", "index fund"}, Currency: models.CurrencyINR, Type: models.TypeMutualFund,
	},
	{
		ID: "mf:PARAG_FLEXI", Symbol: "PARAG-FLEXI-CAP", DisplaySymbol: "Parag Parikh Flexi Cap",
		Name: "Parag Parikh Flexi Cap Fund", Market: models.MarketMF, Exchange: models.ExchangeMF,
		Sector: "Mutual Fund", Industry: "Flexi Cap", Country: "India",
		Summary: "Popular Indian flexi-cap mutual fund investing across market caps.",
		Aliases: []string{"ppfas", "parag parikh"}, Currency: models.CurrencyINR, Type: models.TypeMutualFund,
	},
}

// Universe returns a copy of the embedded entity list.
func Universe() []models.SearchEntity {
	out := make([]models.SearchEntity, len(universe))
	copy(out, universe)
	return out
}

// UniverseFor returns the embedded entities of one market.
func UniverseFor(m models.MarketKind) []models.SearchEntity {
	var out []models.SearchEntity
	for _, e := range universe {
		if e.Market == m {
			out = append(out, e)
		}
	}
	return out
}

// Lookup matches symbol, display symbol or id, ignoring case.
func Lookup(symbol string) (models.SearchEntity, bool) {
	target := strings.ToUpper(strings.TrimSpace(symbol))
	if target == "" {
		return models.SearchEntity{}, false
	}
	for _, e := range universe {
		if strings.ToUpper(e.Symbol) == target ||
			strings.ToUpper(e.DisplaySymbol) == target ||
			strings.ToUpper(e.ID) == target {
			return e, true
		}
	}
	return models.SearchEntity{}, false
}
