package symbolindex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/logger"
)

const nasdaqListed = `Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
ZAZZT|Tick Pilot Test Stock Class A Common Stock|Q|Y|N|100|N|N
ACAHW|Acri Capital Acquisition Corp - Warrant|G|N|N|100|N|N
ACABU|Atlantic Coastal Acquisition Corp II - Unit|S|N|N|100|N|N
AAPL|Apple Inc. duplicate row|Q|N|N|100|N|N
File Creation Time: 0605202421:31||||||
`

const otherListed = `ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol
UNH|UnitedHealth Group Incorporated Common Stock|N|UNH|N|100|N|UNH
SPY|SPDR S&P 500 ETF Trust|P|SPY|Y|100|N|SPY
IMO|Imperial Oil Limited Common Stock|A|IMO|N|100|N|IMO
XYZR|Example Corp Rights|N|XYZR|N|100|N|XYZR
CBOE|Cboe Global Markets Inc|Z|CBOE|N|100|N|CBOE
File Creation Time: 0605202421:31||||||
`

func TestParseUSListings(t *testing.T) {
	nasdaq := ParseNasdaqListed(nasdaqListed)
	require.Len(t, nasdaq, 2, "duplicates survive parsing and are removed by Load")
	assert.Equal(t, "AAPL", nasdaq[0].Symbol)
	assert.Equal(t, models.ExchangeNASDAQ, nasdaq[0].Exchange)
	assert.Equal(t, "us:AAPL", nasdaq[0].ID)
	assert.Equal(t, []string{"AAPL", "Apple Inc. - Common Stock"}, nasdaq[0].Aliases)

	other := ParseOtherListed(otherListed)
	got := map[string]string{}
	for _, e := range other {
		got[e.Symbol] = e.Exchange
	}
	assert.Equal(t, map[string]string{
		"UNH":  models.ExchangeNYSE,
		"SPY":  models.ExchangeNYSE,
		"IMO":  models.ExchangeAMEX,
		"CBOE": models.ExchangeUnknown,
	}, got, "UnitedHealth is kept, the rights row is dropped")
}

func TestUSLoaderDedupes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nasdaqlisted.txt":
			_, _ = w.Write([]byte(nasdaqListed))
		case "/otherlisted.txt":
			_, _ = w.Write([]byte(otherListed))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := NewUSLoader(srv.URL, xhttp.NewClient()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 5)
	assert.Equal(t, "Apple Inc. - Common Stock", out[0].Name)
}

func TestUSLoaderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewUSLoader(srv.URL, xhttp.NewClient()).Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrUpstreamUnavailable)
}

func TestParseEquityList(t *testing.T) {
	csv := "SYMBOL,NAME OF COMPANY, SERIES, DATE OF LISTING, PAID UP VALUE, MARKET LOT, ISIN NUMBER, FACE VALUE\n" +
		"20MICRONS,20 Microns Limited,EQ,06-OCT-2008,5,1,INE144J01027,5\n" +
		"M&M,\"Mahindra & Mahindra Limited\",EQ,17-NOV-1995,5,1,INE101A01026,5\n" +
		"20MICRONS,20 Microns Limited,BE,06-OCT-2008,5,1,INE144J01027,5\n" +
		",Blank Symbol Ltd,EQ,01-JAN-2000,1,1,INE000000000,1\n"

	out, err := ParseEquityList(csv)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "M&M.NS", out[1].Symbol)
	assert.Equal(t, "M&M", out[1].DisplaySymbol)
	assert.Equal(t, "india:M&M", out[1].ID)
	assert.Equal(t, "Mahindra & Mahindra Limited", out[1].Name)
	assert.Equal(t, models.CurrencyINR, out[1].Currency)
}

func TestParseEquityListMissingHeader(t *testing.T) {
	_, err := ParseEquityList("CODE,TITLE\nA,B\n")
	assert.Error(t, err)
}

func TestFundLoaderFallsBackToAMFI(t *testing.T) {
	navAll := "Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date\n" +
		"\n" +
		"Open Ended Schemes(Debt Scheme - Banking and PSU Fund)\n" +
		"Aditya Birla Sun Life Mutual Fund\n" +
		"119551;INF209KA12Z1;INF209KA13Z9;Aditya Birla Sun Life Banking & PSU Debt Fund - DIRECT - IDCW;105.0436;05-Jun-2024\n" +
		"119552;INF209K01YM2;-;Short row\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mf":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/NAVAll.txt":
			_, _ = w.Write([]byte(navAll))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := NewFundLoader(srv.URL, srv.URL, xhttp.NewClient(), logger.Nop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "AMFI:119551", out[0].Symbol)
	assert.Equal(t, "mf:AMFI_119551", out[0].ID)
	assert.Equal(t, []string{"119551", out[0].Name, "mutual fund"}, out[0].Aliases)
	assert.Equal(t, models.TypeMutualFund, out[0].Type)
}

func TestFundLoaderSchemeList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"schemeCode":100027,"schemeName":"Grindlays Super Saver Income Fund"},{"schemeCode":0,"schemeName":"bad"},{"schemeCode":100028,"schemeName":""}]`))
	}))
	defer srv.Close()

	out, err := NewFundLoader(srv.URL, srv.URL, xhttp.NewClient(), logger.Nop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "AMFI:100027", out[0].Symbol)
	assert.Equal(t, "100027", out[0].DisplaySymbol)
}
