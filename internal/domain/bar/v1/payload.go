package v1

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Alias lists are tried in order; the first key present with a usable value wins.
var (
	SymbolAliases    = []string{"symbol", "Symbol", "S", "s"}
	PriceAliases     = []string{"price", "Price", "p", "P"}
	TimestampAliases = []string{"timestamp", "Timestamp", "t", "T", "time"}
)

// ParseTick extracts a tick from a loosely typed upstream payload. ok is false
// when the symbol or price is missing or unusable.
func ParseTick(payload map[string]any) (tick Tick, ok bool) {
	if payload == nil {
		return Tick{}, false
	}

	symbol, found := SymbolOf(payload)
	if !found {
		return Tick{}, false
	}

	price, found := lookupNumber(payload, PriceAliases)
	if !found {
		return Tick{}, false
	}

	tick = Tick{
		Symbol: symbol,
		Price:  price,
	}
	if !tick.HasValidPrice() {
		return Tick{}, false
	}

	if ts, found := lookupNumber(payload, TimestampAliases); found {
		tick.Timestamp = ts
	}

	return tick, true
}

// SymbolOf returns the normalized symbol of a payload.
func SymbolOf(payload map[string]any) (string, bool) {
	symbol, found := lookupString(payload, SymbolAliases)
	if !found {
		return "", false
	}
	return NormalizeSymbol(symbol), true
}

// NormalizeSymbol is the matching form of a symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func lookupString(payload map[string]any, aliases []string) (string, bool) {
	for _, key := range aliases {
		raw, exists := payload[key]
		if !exists {
			continue
		}
		if s, isString := raw.(string); isString && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func lookupNumber(payload map[string]any, aliases []string) (float64, bool) {
	for _, key := range aliases {
		raw, exists := payload[key]
		if !exists {
			continue
		}
		if value, isNumber := toFloat(raw); isNumber {
			return value, true
		}
	}
	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
