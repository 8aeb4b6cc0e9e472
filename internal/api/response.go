package api

import (
	"encoding/json"
	"net/http"

	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
)

// History statuses.
const (
	HistoryStatusOK     = "ok"
	HistoryStatusNoData = "no_data"
	HistoryStatusError  = "error"
)

// HistoryResponse is the UDF column layout of a history answer. Times are
// epoch seconds.
type HistoryResponse struct {
	Status       string       `json:"s"`
	ErrorMessage string       `json:"errmsg,omitempty"`
	Errors       []FieldError `json:"errors,omitempty"`
	Time         []int64      `json:"t,omitempty"`
	Open         []float64    `json:"o,omitempty"`
	High         []float64    `json:"h,omitempty"`
	Low          []float64    `json:"l,omitempty"`
	Close        []float64    `json:"c,omitempty"`
	Volume       []float64    `json:"v,omitempty"`
}

// FieldError describes one rejected request parameter.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newHistoryResponse(result v1.HistoryResult) HistoryResponse {
	n := len(result.Bars)
	resp := HistoryResponse{
		Status: HistoryStatusOK,
		Time:   make([]int64, 0, n),
		Open:   make([]float64, 0, n),
		High:   make([]float64, 0, n),
		Low:    make([]float64, 0, n),
		Close:  make([]float64, 0, n),
		Volume: make([]float64, 0, n),
	}
	for _, b := range result.Bars {
		resp.Time = append(resp.Time, b.StartSeconds())
		resp.Open = append(resp.Open, b.Open)
		resp.High = append(resp.High, b.High)
		resp.Low = append(resp.Low, b.Low)
		resp.Close = append(resp.Close, b.Close)
		resp.Volume = append(resp.Volume, b.Volume)
	}
	return resp
}

func historyError(message string) HistoryResponse {
	return HistoryResponse{Status: HistoryStatusError, ErrorMessage: message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
