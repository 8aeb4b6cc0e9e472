// Package api serves the chart datafeed over HTTP and websocket.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
)

// Config configures the chart facing transport.
type Config struct {
	AllowedOrigins []string
	SendBuffer     int
	PingPeriod     time.Duration
}

// Handler exposes the datafeed usecase to chart consumers.
type Handler struct {
	usecase  datafeed.Usecase
	logger   logger.Interface
	config   Config
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHandler creates the HTTP and websocket handler.
func NewHandler(usecase datafeed.Usecase, log logger.Interface, config Config) *Handler {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 256
	}
	if config.PingPeriod <= 0 {
		config.PingPeriod = 30 * time.Second
	}

	h := &Handler{
		usecase: usecase,
		logger:  log,
		config:  config,
		now:     time.Now,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.originAllowed,
	}
	return h
}

// Routes returns the datafeed routes wrapped in the request middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /config", h.Config)
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("GET /symbols", h.Symbols)
	mux.HandleFunc("GET /history", h.History)
	mux.HandleFunc("GET /time", h.Time)
	mux.HandleFunc("GET /stream", h.Stream)

	return h.withRequestID(h.withCORS(mux))
}

// Config answers onReady.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.usecase.OnReady())
}

// Search answers searchSymbols.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.badRequest(w, r, errors.NewBaseError(
				errors.NewErrorDetails("limit must be a non-negative integer", string(errors.GeneralBadRequestError), "limit")))
			return
		}
		limit = parsed
	}

	writeJSON(w, http.StatusOK, h.usecase.SearchSymbols(q.Get("query"), q.Get("exchange"), q.Get("type"), limit))
}

// Symbols answers resolveSymbol.
func (h *Handler) Symbols(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		h.badRequest(w, r, errors.NewBaseError(
			errors.NewErrorDetails("symbol is required", string(errors.GeneralBadRequestError), "symbol")))
		return
	}

	writeJSON(w, http.StatusOK, h.usecase.ResolveSymbol(symbol))
}

// History answers getBars in the UDF column format.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	symbol, resolution, params, baseErr := parseHistoryParams(r)
	if baseErr.HasDetails() {
		h.badRequest(w, r, baseErr)
		return
	}

	result, err := h.usecase.GetBars(r.Context(), h.usecase.ResolveSymbol(symbol), resolution, params)
	if err != nil {
		status := http.StatusInternalServerError
		if code, _ := errors.CodeOf(err); code == errors.GeneralBadRequestError {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, historyError(err.Error()))
		return
	}

	if result.NoData {
		writeJSON(w, http.StatusOK, HistoryResponse{Status: HistoryStatusNoData})
		return
	}

	writeJSON(w, http.StatusOK, newHistoryResponse(result))
}

// Time returns the server time in epoch seconds.
func (h *Handler) Time(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strconv.FormatInt(h.now().Unix(), 10)))
}

func parseHistoryParams(r *http.Request) (symbol, resolution string, params v1.PeriodParams, baseErr *errors.BaseError) {
	q := r.URL.Query()
	baseErr = errors.NewBaseError()

	symbol = strings.TrimSpace(q.Get("symbol"))
	if symbol == "" {
		baseErr.AddErrorDetails(errors.NewErrorDetails("symbol is required", string(errors.GeneralBadRequestError), "symbol"))
	}

	resolution = strings.TrimSpace(q.Get("resolution"))
	if resolution == "" {
		baseErr.AddErrorDetails(errors.NewErrorDetails("resolution is required", string(errors.GeneralBadRequestError), "resolution"))
	}

	var err error
	if params.From, err = strconv.ParseInt(q.Get("from"), 10, 64); err != nil {
		baseErr.AddErrorDetails(errors.NewErrorDetails("from must be a unix timestamp", string(errors.GeneralBadRequestError), "from"))
	}
	if params.To, err = strconv.ParseInt(q.Get("to"), 10, 64); err != nil {
		baseErr.AddErrorDetails(errors.NewErrorDetails("to must be a unix timestamp", string(errors.GeneralBadRequestError), "to"))
	}

	if raw := q.Get("countback"); raw != "" {
		if params.CountBack, err = strconv.Atoi(raw); err != nil || params.CountBack < 0 {
			baseErr.AddErrorDetails(errors.NewErrorDetails("countback must be a non-negative integer", string(errors.GeneralBadRequestError), "countback"))
		}
	}

	if raw := q.Get("firstDataRequest"); raw != "" {
		if params.FirstDataRequest, err = strconv.ParseBool(raw); err != nil {
			baseErr.AddErrorDetails(errors.NewErrorDetails("firstDataRequest must be a boolean", string(errors.GeneralBadRequestError), "firstDataRequest"))
		}
	}

	return symbol, resolution, params, baseErr
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, baseErr *errors.BaseError) {
	h.logger.DebugContext(r.Context(), "rejecting request",
		logger.NewField("path", r.URL.Path),
		logger.NewField("error", baseErr.Error()))

	resp := historyError(baseErr.GetDetails()[0].Message)
	for _, detail := range baseErr.GetDetails() {
		resp.Errors = append(resp.Errors, FieldError{Field: detail.Field, Code: detail.Code, Message: detail.Message})
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func (h *Handler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
