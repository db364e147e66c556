package metrics

import (
	"sort"
	"sync"
	"time"
)

// maxSamples bounds the latency window kept per route or upstream operation.
const maxSamples = 1000

type Metrics struct {
	mutex            sync.RWMutex
	requests         map[string]int64
	responseTimes    map[string][]time.Duration
	statusCodes      map[string]map[int]int64
	upstreamCalls    map[string]int64
	upstreamFailures map[string]int64
	upstreamTimes    map[string][]time.Duration
	startTime        time.Time
}

type Snapshot struct {
	TotalRequests int64                      `json:"total_requests"`
	Uptime        time.Duration              `json:"uptime"`
	ChannelID     string                     `json:"channel_id"`
	Routes        map[string]RouteMetrics    `json:"routes"`
	Upstream      map[string]UpstreamMetrics `json:"upstream"`
}

type RouteMetrics struct {
	Requests    int64         `json:"requests"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

type UpstreamMetrics struct {
	Calls    int64         `json:"calls"`
	Failures int64         `json:"failures"`
	AvgTime  time.Duration `json:"avg_time"`
	P95Time  time.Duration `json:"p95_time"`
}

func (m *Metrics) IncrementRequests(route string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[route]++
}

func (m *Metrics) RecordResponse(route string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[route] = appendBounded(m.responseTimes[route], duration)

	if m.statusCodes[route] == nil {
		m.statusCodes[route] = make(map[int]int64)
	}
	m.statusCodes[route][statusCode]++
}

func (m *Metrics) RecordUpstream(operation string, duration time.Duration, failed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.upstreamCalls[operation]++
	if failed {
		m.upstreamFailures[operation]++
	}
	m.upstreamTimes[operation] = appendBounded(m.upstreamTimes[operation], duration)
}

func (m *Metrics) Snapshot(channelID string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		ChannelID: channelID,
		Routes:    make(map[string]RouteMetrics),
		Upstream:  make(map[string]UpstreamMetrics),
	}

	allRoutes := make(map[string]bool)
	for route := range m.requests {
		allRoutes[route] = true
	}
	for route := range m.responseTimes {
		allRoutes[route] = true
	}

	for route := range allRoutes {
		snap.TotalRequests += m.requests[route]

		rm := RouteMetrics{
			Requests:    m.requests[route],
			StatusCodes: copyCodes(m.statusCodes[route]),
		}

		if sorted := sortedCopy(m.responseTimes[route]); len(sorted) > 0 {
			rm.AvgResponse = average(sorted)
			rm.P50Response = percentile(sorted, 0.50)
			rm.P95Response = percentile(sorted, 0.95)
			rm.P99Response = percentile(sorted, 0.99)
		}

		snap.Routes[route] = rm
	}

	for op, calls := range m.upstreamCalls {
		um := UpstreamMetrics{
			Calls:    calls,
			Failures: m.upstreamFailures[op],
		}
		if sorted := sortedCopy(m.upstreamTimes[op]); len(sorted) > 0 {
			um.AvgTime = average(sorted)
			um.P95Time = percentile(sorted, 0.95)
		}
		snap.Upstream[op] = um
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:         make(map[string]int64),
		responseTimes:    make(map[string][]time.Duration),
		statusCodes:      make(map[string]map[int]int64),
		upstreamCalls:    make(map[string]int64),
		upstreamFailures: make(map[string]int64),
		upstreamTimes:    make(map[string][]time.Duration),
		startTime:        time.Now(),
	}
}

func appendBounded(samples []time.Duration, d time.Duration) []time.Duration {
	samples = append(samples, d)
	if len(samples) > maxSamples {
		samples = samples[1:]
	}
	return samples
}

func copyCodes(codes map[int]int64) map[int]int64 {
	out := make(map[int]int64, len(codes))
	for code, n := range codes {
		out[code] = n
	}
	return out
}

func sortedCopy(durations []time.Duration) []time.Duration {
	if len(durations) == 0 {
		return nil
	}
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	return sorted
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
