package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/channel-proxy/config"
	"github.com/angeloszaimis/channel-proxy/internal/handler"
	"github.com/angeloszaimis/channel-proxy/internal/httpserver"
	"github.com/angeloszaimis/channel-proxy/internal/metrics"
	"github.com/angeloszaimis/channel-proxy/internal/youtube"
	"github.com/angeloszaimis/channel-proxy/pkg/logger"
)

const metricsBufferSize = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// the collector outlives ctx so requests drained by Shutdown are still recorded
	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	defer stopMetrics()

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(metricsCtx)

	client, err := newYouTubeClient(ctx, cfg, log, collector)
	if err != nil {
		log.Error("Failed to create YouTube client", slog.Any("err", err))
		os.Exit(1)
	}

	channelHandler := handler.NewChannelHandler(log, client, handler.Options{
		MaxSuggestions: cfg.Matcher.MaxSuggestions,
		Cutoff:         cfg.Matcher.Cutoff,
		Timeout:        cfg.UpstreamTimeout(),
	})

	router := setupRouter(log, channelHandler, collector, client.ChannelID())

	srv, err := httpserver.New(cfg.Server.Address, router, httpserver.WithShutdownTimeout(cfg.ShutdownTimeout()))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Channel proxy listening",
		slog.String("addr", srv.Addr()),
		slog.String("channel", client.ChannelID()))

	select {
	case <-ctx.Done():
		shutdown(log, srv, stopMetrics, collector)
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting channel proxy", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// shutdown drains in-flight requests first, then stops the collector and
// waits until it has processed every event those requests emitted.
func shutdown(log *slog.Logger, srv *httpserver.Server, stopMetrics context.CancelFunc, collector *metrics.Collector) {
	log.Info("Shutting down gracefully...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("Error during shutdown", slog.Any("err", err))
	}
	stopMetrics()
	<-collector.Done()
}

func newYouTubeClient(ctx context.Context, cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*youtube.Client, error) {
	return youtube.NewClient(ctx, youtube.Options{
		APIKey:    cfg.YouTube.APIKey,
		ChannelID: cfg.YouTube.ChannelID,
		PageSize:  int64(cfg.YouTube.PageSize),
		Endpoint:  cfg.YouTube.Endpoint,
	}, log, collector)
}
