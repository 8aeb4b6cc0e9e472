package bootstrap

import "github.com/muhammadchandra19/chart-datafeed/internal/api"

// Handler is the HTTP and websocket surface of the chart datafeed.
type Handler struct {
	API *api.Handler
}

// registerHandler registers the handler.
func (b *Bootstrap) registerHandler() {
	b.Handler.API = api.NewHandler(b.Usecase.DatafeedUsecase, b.Logger, api.Config{
		AllowedOrigins: b.Config.App.AllowedOrigins,
		SendBuffer:     b.Config.Datafeed.StreamSendBuffer,
		PingPeriod:     b.Config.Datafeed.StreamPingPeriod,
	})
}
