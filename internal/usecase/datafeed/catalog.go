package datafeed

import (
	"strings"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
)

// Symbol types offered by the catalog.
const (
	SymbolTypeCrypto    = "crypto"
	SymbolTypeForex     = "forex"
	SymbolTypeCommodity = "commodity"
)

var cryptoQuotes = []string{"USDT", "USDC", "BUSD", "BTC", "ETH"}

var commodityBases = []string{"XAU", "XAG", "XPT", "XPD"}

// NewCatalog builds the static symbol list from bare symbol names.
func NewCatalog(names []string, exchange string) []v1.Symbol {
	catalog := make([]v1.Symbol, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = bar.NormalizeSymbol(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		symbolType, base, quote := classify(name)
		description := name
		if base != "" {
			description = base + "/" + quote
		}

		catalog = append(catalog, v1.Symbol{
			Name:        name,
			Description: description,
			Type:        symbolType,
			Exchange:    exchange,
		})
	}
	return catalog
}

// classify guesses the type of a symbol and splits it into base and quote.
func classify(name string) (symbolType, base, quote string) {
	for _, prefix := range commodityBases {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return SymbolTypeCommodity, prefix, name[len(prefix):]
		}
	}

	for _, suffix := range cryptoQuotes {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return SymbolTypeCrypto, name[:len(name)-len(suffix)], suffix
		}
	}

	if len(name) == 6 {
		return SymbolTypeForex, name[:3], name[3:]
	}

	return SymbolTypeCrypto, "", ""
}

// OnReady returns the static capability metadata of the datafeed.
func (u *Usecase) OnReady() v1.Configuration {
	return v1.Configuration{
		SupportedResolutions: interval.SupportedResolutions(),
		Exchanges: []v1.Exchange{
			{Value: "", Name: "All Exchanges", Desc: ""},
			{Value: u.config.ExchangeName, Name: u.config.ExchangeName, Desc: u.config.ExchangeName},
		},
		SymbolsTypes: []v1.SymbolType{
			{Name: "All types", Value: ""},
			{Name: "Crypto", Value: SymbolTypeCrypto},
			{Name: "Forex", Value: SymbolTypeForex},
			{Name: "Commodity", Value: SymbolTypeCommodity},
		},
		SupportsSearch:         true,
		SupportsGroupRequest:   false,
		SupportsMarks:          false,
		SupportsTimescaleMarks: false,
		SupportsTime:           true,
	}
}

// SearchSymbols filters the catalog by a case-insensitive substring of the
// name or description. Empty filters match everything; limit <= 0 means no limit.
func (u *Usecase) SearchSymbols(query, exchange, symbolType string, limit int) []v1.SymbolSearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))

	results := make([]v1.SymbolSearchResult, 0)
	for _, symbol := range u.catalog {
		if exchange != "" && !strings.EqualFold(exchange, symbol.Exchange) {
			continue
		}
		if symbolType != "" && !strings.EqualFold(symbolType, symbol.Type) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(symbol.Name), needle) &&
			!strings.Contains(strings.ToLower(symbol.Description), needle) {
			continue
		}

		results = append(results, v1.SymbolSearchResult{
			Symbol:      symbol.Name,
			FullName:    symbol.Exchange + ":" + symbol.Name,
			Description: symbol.Description,
			Exchange:    symbol.Exchange,
			Ticker:      symbol.Name,
			Type:        symbol.Type,
		})

		if limit > 0 && len(results) == limit {
			break
		}
	}

	return results
}

// ResolveSymbol returns the chart metadata of any symbol name. Names outside
// the catalog are resolved too.
func (u *Usecase) ResolveSymbol(name string) v1.SymbolInfo {
	name = stripExchange(name)
	symbolName := bar.NormalizeSymbol(name)

	description, symbolType := symbolName, SymbolTypeCrypto
	if known, ok := u.lookup(symbolName); ok {
		description, symbolType = known.Description, known.Type
	} else if t, base, quote := classify(symbolName); base != "" {
		description, symbolType = base+"/"+quote, t
	}

	return v1.SymbolInfo{
		Name:                 symbolName,
		Ticker:               symbolName,
		Description:          description,
		Type:                 symbolType,
		Session:              "24x7",
		Timezone:             "Etc/UTC",
		Exchange:             u.config.ExchangeName,
		ListedExchange:       u.config.ExchangeName,
		Format:               "price",
		MinMov:               1,
		PriceScale:           u.config.PriceScale,
		HasIntraday:          true,
		HasDaily:             true,
		HasWeeklyAndMonthly:  true,
		SupportedResolutions: interval.SupportedResolutions(),
		VolumePrecision:      2,
		DataStatus:           "streaming",
	}
}

func (u *Usecase) lookup(name string) (v1.Symbol, bool) {
	for _, symbol := range u.catalog {
		if symbol.Name == name {
			return symbol, true
		}
	}
	return v1.Symbol{}, false
}

// stripExchange drops an "EXCHANGE:" prefix from a full symbol name.
func stripExchange(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// symbolOf returns the matching form of the symbol described by info.
func symbolOf(info v1.SymbolInfo) string {
	if info.Ticker != "" {
		return bar.NormalizeSymbol(stripExchange(info.Ticker))
	}
	return bar.NormalizeSymbol(stripExchange(info.Name))
}
