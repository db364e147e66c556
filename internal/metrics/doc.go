// Package metrics collects request and upstream-call metrics for the proxy.
//
// Observations travel through a buffered channel to a single collector
// goroutine, so the request path never blocks on bookkeeping:
//   - Request counts per route
//   - Response times per route with percentiles (P50, P95, P99)
//   - HTTP status code distribution per route
//   - YouTube Data API call counts, failures and latency per operation
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:     metrics.EventUpstreamCompleted,
//		Key:      "playlists.list",
//		Duration: 150 * time.Millisecond,
//	})
//
//	snapshot := collector.Snapshot("UC123")
//
// When the context passed to Start is cancelled the collector drains what is
// already buffered before closing Done.
package metrics
