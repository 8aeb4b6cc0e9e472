package datafeed

import (
	"strconv"
	"sync"
	"time"

	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	"github.com/muhammadchandra19/chart-datafeed/pkg/interval"
)

type lastBarKey struct {
	symbol     string
	resolution string
}

// delivery is a bar computed for one subscription, waiting to be handed to
// its callback outside the registry lock.
type delivery struct {
	externalID  string
	internalKey string
	callback    v1.RealtimeCallback
	bar         bar.Bar
}

// Registry tracks live subscriptions and the shared last bar cache.
// Several subscriptions may share an external id; internal keys are unique.
type Registry struct {
	mu       sync.Mutex
	counter  uint64
	subs     []*v1.Subscription
	lastBars map[lastBarKey]bar.Bar
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lastBars: make(map[lastBarKey]bar.Bar),
	}
}

// Subscribe registers a new subscription and returns its internal key. first
// reports whether it is the only subscription of its symbol.
func (r *Registry) Subscribe(externalID, symbol, resolution string, callback v1.RealtimeCallback, onReset v1.ResetCallback) (key string, first bool) {
	symbol = bar.NormalizeSymbol(symbol)
	resolution = interval.CanonicalResolution(resolution)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.counter++
	key = externalID + "_" + strconv.FormatUint(r.counter, 10)

	sub := &v1.Subscription{
		ExternalID:         externalID,
		InternalKey:        key,
		Symbol:             symbol,
		Resolution:         resolution,
		State:              v1.StateCreated,
		Callback:           callback,
		OnResetCacheNeeded: onReset,
	}
	if cached, ok := r.lastBars[lastBarKey{symbol, resolution}]; ok {
		seed := cached
		sub.LastBar = &seed
	}

	first = !r.hasSymbolLocked(symbol)
	r.subs = append(r.subs, sub)

	return key, first
}

// Unsubscribe removes every subscription registered under externalID and
// returns, once each, the symbols left without any subscription.
func (r *Registry) Unsubscribe(externalID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		kept    = r.subs[:0]
		removed []string
		seen    = make(map[string]struct{})
	)
	for _, sub := range r.subs {
		if sub.ExternalID != externalID {
			kept = append(kept, sub)
			continue
		}
		sub.State = v1.StateRemoved
		if _, ok := seen[sub.Symbol]; !ok {
			seen[sub.Symbol] = struct{}{}
			removed = append(removed, sub.Symbol)
		}
	}
	clear(r.subs[len(kept):])
	r.subs = kept

	var orphaned []string
	for _, symbol := range removed {
		if !r.hasSymbolLocked(symbol) {
			orphaned = append(orphaned, symbol)
		}
	}

	return orphaned
}

// FindMatching returns snapshots of the subscriptions on symbol, in
// subscription order, regardless of resolution.
func (r *Registry) FindMatching(symbol string) []v1.Subscription {
	symbol = bar.NormalizeSymbol(symbol)

	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []v1.Subscription
	for _, sub := range r.subs {
		if sub.Symbol == symbol {
			snapshot := *sub
			if sub.LastBar != nil {
				last := *sub.LastBar
				snapshot.LastBar = &last
			}
			matches = append(matches, snapshot)
		}
	}
	return matches
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// advance folds the tick into every subscription on its symbol and refreshes
// the shared last bar of each (symbol, resolution) touched.
func (r *Registry) advance(tick bar.Tick, now time.Time) []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deliveries []delivery
	for _, sub := range r.subs {
		if sub.Symbol != tick.Symbol {
			continue
		}

		next := bar.Advance(sub.LastBar, tick, interval.ToInternal(sub.Resolution), now)
		sub.State = v1.Transition(sub.State, sub.LastBar, next)
		sub.LastBar = &next

		r.lastBars[lastBarKey{sub.Symbol, sub.Resolution}] = next
		deliveries = append(deliveries, delivery{
			externalID:  sub.ExternalID,
			internalKey: sub.InternalKey,
			callback:    sub.Callback,
			bar:         next,
		})
	}
	return deliveries
}

// LastBar returns the shared last bar of a symbol and resolution.
func (r *Registry) LastBar(symbol, resolution string) (bar.Bar, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.lastBars[lastBarKey{bar.NormalizeSymbol(symbol), interval.CanonicalResolution(resolution)}]
	return b, ok
}

// StoreLastBar records b as the shared last bar unless a newer bar is cached.
func (r *Registry) StoreLastBar(symbol, resolution string, b bar.Bar) {
	key := lastBarKey{bar.NormalizeSymbol(symbol), interval.CanonicalResolution(resolution)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.lastBars[key]; ok && cached.Time > b.Time {
		return
	}
	r.lastBars[key] = b
}

// resetCallbacks returns the reset callbacks of the subscriptions on symbol.
func (r *Registry) resetCallbacks(symbol string) []v1.ResetCallback {
	r.mu.Lock()
	defer r.mu.Unlock()

	var callbacks []v1.ResetCallback
	for _, sub := range r.subs {
		if sub.Symbol == symbol && sub.OnResetCacheNeeded != nil {
			callbacks = append(callbacks, sub.OnResetCacheNeeded)
		}
	}
	return callbacks
}

func (r *Registry) hasSymbolLocked(symbol string) bool {
	for _, sub := range r.subs {
		if sub.Symbol == symbol {
			return true
		}
	}
	return false
}
