package models

// Requests for the HTTP API. Bound with query/json tags, defaulted and validated.

type SearchRequest struct {
	Query  string `query:"q" json:"q" validate:"max=120"`
	Market string `query:"market" json:"market" validate:"omitempty,oneof=us india mf"`
	Limit  int    `query:"limit" json:"limit" default:"12"`
}

type SymbolRequest struct {
	Symbol string `query:"symbol" param:"symbol" json:"symbol" validate:"required,symbol"`
}

type DetailRequest struct {
	Symbol          string `param:"symbol" json:"symbol" validate:"required,symbol"`
	DisplayCurrency string `query:"display_currency" json:"display_currency" validate:"omitempty,oneof=USD INR"`
}

type HistoryRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required,symbol"`
	Range     string `query:"range" json:"range" default:"max"`
	MaxPoints int    `query:"max_points" json:"max_points" default:"400" validate:"gte=2,lte=5000"`
}

type MarketStatusRequest struct {
	Market string `query:"market" json:"market" default:"us" validate:"oneof=us india mf"`
}

type StreamRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
}

type ScreenerRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

type StatementSummaryRequest struct {
	Table FinancialStatementTable `json:"table"`
}

type LearningRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// DetailResponse carries the bundle plus the presentation FX rate when the
// requested display currency differs from the bundle currency.
type DetailResponse struct {
	Bundle          *StockDetailBundle `json:"bundle"`
	DisplayCurrency string             `json:"displayCurrency,omitempty"`
	FX              *FXRate            `json:"fx,omitempty"`
}
