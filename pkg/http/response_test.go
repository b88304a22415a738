package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec
}

func TestCachedResponse(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, CachedResponse(c, "public, max-age=60", []int{1}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get(echo.HeaderCacheControl))
	assert.JSONEq(t, `{"status":200,"message":"OK","data":[1]}`, rec.Body.String())
}

func TestAppErrorResponse(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, AppErrorResponse(c, UpstreamUnavailableError("quotes").WithError(errors.New("timeout"))))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
	assert.Contains(t, rec.Body.String(), "ERR_UPSTREAM_UNAVAILABLE")
	assert.NotContains(t, rec.Body.String(), "timeout")

	c, rec = newContext("/")
	require.NoError(t, AppErrorResponse(c, errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type symbolQuery struct {
	Symbol string `query:"symbol" validate:"required,symbol"`
	Limit  int    `query:"limit" default:"12" validate:"lte=50"`
}

func TestReadAndValidateRequest(t *testing.T) {
	c, _ := newContext("/?symbol=AMFI:119551")
	req := &symbolQuery{}
	assert.Nil(t, ReadAndValidateRequest(c, req))
	assert.Equal(t, 12, req.Limit)

	for _, target := range []string{"/", "/?symbol=%3Cx%3E", "/?symbol=AAPL&limit=99"} {
		c, _ = newContext(target)
		verr := ReadAndValidateRequest(c, &symbolQuery{})
		require.NotNil(t, verr, target)
		errs, ok := verr.([]ValidationError)
		require.True(t, ok)
		assert.NotEmpty(t, errs[0].Message)
	}
}
