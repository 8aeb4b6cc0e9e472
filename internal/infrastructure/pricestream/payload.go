// Package pricestream holds the pieces shared by the upstream tick feeds.
package pricestream

import (
	"bytes"
	"encoding/json"
	"sync"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
)

// Decode parses a JSON tick. Numbers are kept as json.Number. fallbackSymbol
// is used when the payload names no symbol, e.g. a message key or channel.
func Decode(raw []byte, fallbackSymbol string) (payload map[string]any, symbol string, ok bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		return nil, "", false
	}

	if symbol, ok = bar.SymbolOf(payload); ok {
		return payload, symbol, true
	}

	symbol = bar.NormalizeSymbol(fallbackSymbol)
	if symbol == "" {
		return nil, "", false
	}
	payload[bar.SymbolAliases[0]] = symbol
	return payload, symbol, true
}

// SymbolSet is the set of symbols a feed forwards.
type SymbolSet struct {
	mu      sync.RWMutex
	symbols map[string]struct{}
}

// NewSymbolSet creates an empty SymbolSet.
func NewSymbolSet() *SymbolSet {
	return &SymbolSet{symbols: make(map[string]struct{})}
}

// Add inserts symbols and returns the ones that were not present yet.
func (s *SymbolSet) Add(symbols ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, symbol := range symbols {
		symbol = bar.NormalizeSymbol(symbol)
		if _, ok := s.symbols[symbol]; ok || symbol == "" {
			continue
		}
		s.symbols[symbol] = struct{}{}
		added = append(added, symbol)
	}
	return added
}

// Remove deletes symbols and returns the ones that were present.
func (s *SymbolSet) Remove(symbols ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for _, symbol := range symbols {
		symbol = bar.NormalizeSymbol(symbol)
		if _, ok := s.symbols[symbol]; !ok {
			continue
		}
		delete(s.symbols, symbol)
		removed = append(removed, symbol)
	}
	return removed
}

// Contains reports whether symbol is in the set.
func (s *SymbolSet) Contains(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.symbols[symbol]
	return ok
}

// List returns the symbols in no particular order.
func (s *SymbolSet) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]string, 0, len(s.symbols))
	for symbol := range s.symbols {
		list = append(list, symbol)
	}
	return list
}

// Dispatcher holds the registered tick handler.
type Dispatcher struct {
	mu      sync.RWMutex
	handler func(map[string]any)
}

// Set replaces the handler.
func (d *Dispatcher) Set(handler func(map[string]any)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = handler
}

// Dispatch hands payload to the handler, if any.
func (d *Dispatcher) Dispatch(payload map[string]any) {
	d.mu.RLock()
	handler := d.handler
	d.mu.RUnlock()

	if handler != nil {
		handler(payload)
	}
}
