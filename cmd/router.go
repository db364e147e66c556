package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/channel-proxy/internal/handler"
	"github.com/angeloszaimis/channel-proxy/internal/metrics"
)

func setupRouter(log *slog.Logger, channelHandler *handler.ChannelHandler, collector *metrics.Collector, channelID string) *http.ServeMux {
	mux := http.NewServeMux()

	route := func(pattern, name string, fn http.HandlerFunc) {
		mux.Handle(pattern, handler.Instrument(log, collector, name, fn))
	}

	route("GET /{$}", "/", channelHandler.Index)
	route("GET /latest_video", "/latest_video", channelHandler.LatestVideo)
	route("GET /playlists", "/playlists", channelHandler.Playlists)
	route("GET /video", "/video", channelHandler.Video)

	mux.HandleFunc("GET /metrics", collector.Handler(channelID))

	return mux
}
