package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventResponseCompleted EventType = "response_completed"
	EventUpstreamCompleted EventType = "upstream_completed"
)

// MetricEvent carries one observation. Key is the route pattern for request
// events and the upstream operation name (e.g. "search.list") otherwise.
type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Key        string
	Duration   time.Duration
	StatusCode int
	Failed     bool
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
	done    chan struct{}
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit queues an event without blocking; events are dropped when the buffer is full.
// A nil collector ignores events.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// Done is closed once the collector has drained its buffer after ctx ends.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests(event.Key)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Key, event.Duration, event.StatusCode)

	case EventUpstreamCompleted:
		c.metrics.RecordUpstream(event.Key, event.Duration, event.Failed)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot(channelID string) Snapshot {
	return c.metrics.Snapshot(channelID)
}
