package v1

import (
	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
)

// RealtimeCallback receives every bar produced for a subscription.
type RealtimeCallback func(b bar.Bar)

// ResetCallback asks the chart to drop its cached bars and refetch history.
type ResetCallback func()

// Exchange is one entry of the exchange filter offered to chart consumers.
type Exchange struct {
	Value string `json:"value"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
}

// SymbolType is one entry of the symbol type filter offered to chart consumers.
type SymbolType struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Configuration is the static capability metadata returned by OnReady.
type Configuration struct {
	SupportedResolutions   []string     `json:"supported_resolutions"`
	Exchanges              []Exchange   `json:"exchanges"`
	SymbolsTypes           []SymbolType `json:"symbols_types"`
	SupportsSearch         bool         `json:"supports_search"`
	SupportsGroupRequest   bool         `json:"supports_group_request"`
	SupportsMarks          bool         `json:"supports_marks"`
	SupportsTimescaleMarks bool         `json:"supports_timescale_marks"`
	SupportsTime           bool         `json:"supports_time"`
}

// Symbol is an entry of the static symbol catalog.
type Symbol struct {
	Name        string
	Description string
	Type        string
	Exchange    string
}

// SymbolSearchResult is a single search hit.
type SymbolSearchResult struct {
	Symbol      string `json:"symbol"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Exchange    string `json:"exchange"`
	Ticker      string `json:"ticker"`
	Type        string `json:"type"`
}

// SymbolInfo is the metadata the chart needs to render a symbol.
type SymbolInfo struct {
	Name                 string   `json:"name"`
	Ticker               string   `json:"ticker"`
	Description          string   `json:"description"`
	Type                 string   `json:"type"`
	Session              string   `json:"session"`
	Timezone             string   `json:"timezone"`
	Exchange             string   `json:"exchange"`
	ListedExchange       string   `json:"listed_exchange"`
	Format               string   `json:"format"`
	MinMov               int      `json:"minmov"`
	PriceScale           int      `json:"pricescale"`
	HasIntraday          bool     `json:"has_intraday"`
	HasDaily             bool     `json:"has_daily"`
	HasWeeklyAndMonthly  bool     `json:"has_weekly_and_monthly"`
	SupportedResolutions []string `json:"supported_resolutions"`
	VolumePrecision      int      `json:"volume_precision"`
	DataStatus           string   `json:"data_status"`
}

// PeriodParams is the history window requested by the chart, in epoch seconds.
type PeriodParams struct {
	From             int64
	To               int64
	CountBack        int
	FirstDataRequest bool
}

// HistoryResult is the answer to a history request. Bars are ascending by time.
type HistoryResult struct {
	Bars   []bar.Bar
	NoData bool
}

// Range is a resolved history window in epoch seconds.
type Range struct {
	From int64
	To   int64
}
