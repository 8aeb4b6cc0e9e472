package pricestream

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=mock/pricestream_mock.go -package=mock

// Handler receives one loosely typed tick payload.
type Handler func(payload map[string]any)

// PriceStream is the upstream source of ticks.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols ...string) error
	Unsubscribe(ctx context.Context, symbols ...string) error
	OnPriceUpdate(handler Handler)
	Close() error
}
