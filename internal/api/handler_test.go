package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	datafeedMock "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/mock"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	pkgErrors "github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestHandler(t *testing.T) (*Handler, *datafeedMock.MockUsecase) {
	t.Helper()

	ctrl := gomock.NewController(t)
	usecase := datafeedMock.NewMockUsecase(ctrl)
	h := NewHandler(usecase, logger.NewNop(), Config{AllowedOrigins: []string{"https://charts.example.com"}})
	h.now = func() time.Time { return time.Unix(1700000000, 0) }
	return h, usecase
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandler_History(t *testing.T) {
	eurusd := v1.SymbolInfo{Name: "EURUSD", Ticker: "EURUSD"}

	testCases := []struct {
		name     string
		query    string
		mockFn   func(usecase *datafeedMock.MockUsecase)
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:  "success",
			query: "symbol=EURUSD&resolution=60&from=1699990000&to=1700003000&countback=2&firstDataRequest=true",
			mockFn: func(usecase *datafeedMock.MockUsecase) {
				usecase.EXPECT().ResolveSymbol("EURUSD").Return(eurusd)
				usecase.EXPECT().GetBars(gomock.Any(), eurusd, "60", v1.PeriodParams{
					From:             1699990000,
					To:               1700003000,
					CountBack:        2,
					FirstDataRequest: true,
				}).Return(v1.HistoryResult{Bars: []bar.Bar{
					{Time: 1699996400000, Open: 1.088, High: 1.091, Low: 1.087, Close: 1.09},
					{Time: 1700000000000, Open: 1.09, High: 1.094, Low: 1.089, Close: 1.093},
				}}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{
					"s":"ok",
					"t":[1699996400,1700000000],
					"o":[1.088,1.09],
					"h":[1.091,1.094],
					"l":[1.087,1.089],
					"c":[1.09,1.093],
					"v":[0,0]
				}`, rec.Body.String())
			},
		},
		{
			name:  "no data",
			query: "symbol=EURUSD&resolution=60&from=1600000000&to=1600003600",
			mockFn: func(usecase *datafeedMock.MockUsecase) {
				usecase.EXPECT().ResolveSymbol("EURUSD").Return(eurusd)
				usecase.EXPECT().GetBars(gomock.Any(), eurusd, "60", gomock.Any()).Return(v1.HistoryResult{Bars: []bar.Bar{}, NoData: true}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{"s":"no_data"}`, rec.Body.String())
			},
		},
		{
			name:  "error - history source fails",
			query: "symbol=EURUSD&resolution=60&from=1699990000&to=1700003000",
			mockFn: func(usecase *datafeedMock.MockUsecase) {
				usecase.EXPECT().ResolveSymbol("EURUSD").Return(eurusd)
				usecase.EXPECT().GetBars(gomock.Any(), eurusd, "60", gomock.Any()).
					Return(v1.HistoryResult{}, pkgErrors.TracerWithCode(pkgErrors.HistoryFetchError, "failed to load bars", errors.New("timeout")))
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				assert.JSONEq(t, `{"s":"error","errmsg":"failed to load bars: timeout"}`, rec.Body.String())
			},
		},
		{
			name:  "error - usecase rejects range",
			query: "symbol=EURUSD&resolution=60&from=1700003000&to=1699990000",
			mockFn: func(usecase *datafeedMock.MockUsecase) {
				usecase.EXPECT().ResolveSymbol("EURUSD").Return(eurusd)
				usecase.EXPECT().GetBars(gomock.Any(), eurusd, "60", gomock.Any()).
					Return(v1.HistoryResult{}, pkgErrors.TracerWithCode(pkgErrors.GeneralBadRequestError, "invalid history range", errors.New("from is after to")))
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			},
		},
		{
			name:   "error - missing parameters",
			query:  "resolution=60&from=abc",
			mockFn: func(usecase *datafeedMock.MockUsecase) {},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)

				var resp HistoryResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, HistoryStatusError, resp.Status)
				assert.Equal(t, "symbol is required", resp.ErrorMessage)

				fields := make([]string, 0, len(resp.Errors))
				for _, e := range resp.Errors {
					fields = append(fields, e.Field)
					assert.Equal(t, string(pkgErrors.GeneralBadRequestError), e.Code)
				}
				assert.Equal(t, []string{"symbol", "from", "to"}, fields)
			},
		},
		{
			name:   "error - invalid countback",
			query:  "symbol=EURUSD&resolution=60&from=1&to=2&countback=-1",
			mockFn: func(usecase *datafeedMock.MockUsecase) {},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "countback must be a non-negative integer")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, usecase := newTestHandler(t)
			tc.mockFn(usecase)

			rec := serve(h, httptest.NewRequest(http.MethodGet, "/history?"+tc.query, nil))
			tc.assertFn(t, rec)
		})
	}
}

func TestHandler_Config(t *testing.T) {
	h, usecase := newTestHandler(t)
	usecase.EXPECT().OnReady().Return(v1.Configuration{SupportedResolutions: []string{"1", "60", "D"}, SupportsSearch: true})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/config", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var config v1.Configuration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Equal(t, []string{"1", "60", "D"}, config.SupportedResolutions)
	assert.True(t, config.SupportsSearch)
}

func TestHandler_Search(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		mockFn   func(usecase *datafeedMock.MockUsecase)
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:  "success",
			query: "query=usd&type=forex&exchange=TEST&limit=5",
			mockFn: func(usecase *datafeedMock.MockUsecase) {
				usecase.EXPECT().SearchSymbols("usd", "TEST", "forex", 5).Return([]v1.SymbolSearchResult{
					{Symbol: "EURUSD", FullName: "TEST:EURUSD", Exchange: "TEST", Type: "forex"},
				})
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `"full_name":"TEST:EURUSD"`)
			},
		},
		{
			name:  "empty result is an empty array",
			query: "query=doge",
			mockFn: func(usecase *datafeedMock.MockUsecase) {
				usecase.EXPECT().SearchSymbols("doge", "", "", 0).Return([]v1.SymbolSearchResult{})
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `[]`, rec.Body.String())
			},
		},
		{
			name:   "error - invalid limit",
			query:  "limit=ten",
			mockFn: func(usecase *datafeedMock.MockUsecase) {},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, usecase := newTestHandler(t)
			tc.mockFn(usecase)

			rec := serve(h, httptest.NewRequest(http.MethodGet, "/search?"+tc.query, nil))
			tc.assertFn(t, rec)
		})
	}
}

func TestHandler_Symbols(t *testing.T) {
	h, usecase := newTestHandler(t)
	usecase.EXPECT().ResolveSymbol("TEST:EURUSD").Return(v1.SymbolInfo{Name: "EURUSD", Session: "24x7", PriceScale: 100000})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/symbols?symbol=TEST:EURUSD", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session":"24x7"`)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/symbols", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Time(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/time", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1700000000", rec.Body.String())
}

func TestHandler_Middleware(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/time", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req.Header.Set("Origin", "https://charts.example.com")
	rec := serve(h, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "https://charts.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/time", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(h, req)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, httptest.NewRequest(http.MethodOptions, "/history", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/history", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
