// Loadtest drives concurrent GET traffic at the channel proxy and reports
// throughput, latency percentiles and status codes per endpoint.
//
// Usage:
//
//	go run ./scripts/loadtest -base http://localhost:8080 -concurrency 10 -requests 500
//	go run ./scripts/loadtest -paths "/playlists?name=go,/video?title=live" -out summary.json
//
// Requests are spread round-robin over -paths. Every request carries an
// X-Request-ID so a slow call can be found in the proxy log.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// PathStats tracks statistics for one proxy endpoint.
type PathStats struct {
	Count       int32         `json:"count"`
	StatusCodes map[int]int32 `json:"status_codes"`
	Errors      int32         `json:"errors"`
	P50         float64       `json:"p50_ms"`
	P95         float64       `json:"p95_ms"`
	P99         float64       `json:"p99_ms"`

	latencies []time.Duration
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func main() {
	var (
		base        = flag.String("base", "http://localhost:8080", "Proxy base URL")
		paths       = flag.String("paths", "/,/latest_video,/playlists,/playlists?name=go,/video?title=live", "Comma-separated request paths")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	targets := strings.Split(*paths, ",")
	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	stats := make(map[string]*PathStats, len(targets))
	for _, p := range targets {
		stats[p] = &PathStats{StatusCodes: make(map[int]int32)}
	}
	var statsMu sync.Mutex

	var total, failures int32

	jobs := make(chan int)
	var wg sync.WaitGroup

	testStart := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				atomic.AddInt32(&total, 1)
				path := targets[idx%len(targets)]

				req, err := http.NewRequest(http.MethodGet, *base+path, nil)
				if err != nil {
					atomic.AddInt32(&failures, 1)
					continue
				}
				requestID := uuid.NewString()
				req.Header.Set("X-Request-ID", requestID)

				start := time.Now()
				resp, err := client.Do(req)
				dur := time.Since(start)

				statsMu.Lock()
				ps := stats[path]
				ps.Count++
				ps.latencies = append(ps.latencies, dur)
				if err != nil {
					ps.Errors++
				} else {
					ps.StatusCodes[resp.StatusCode]++
				}
				statsMu.Unlock()

				if err != nil {
					atomic.AddInt32(&failures, 1)
					if *verbose {
						fmt.Printf("[%d] %s id=%s error=%v\n", workerID, path, requestID, err)
					}
					continue
				}

				// 404 is a valid lookup answer; only server errors count as failures
				if resp.StatusCode >= 500 {
					atomic.AddInt32(&failures, 1)
				}

				if *verbose {
					fmt.Printf("[%d] %s id=%s status=%d dur=%v\n", workerID, path, requestID, resp.StatusCode, dur)
				}

				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	totalDuration := time.Since(testStart)
	throughput := float64(total) / totalDuration.Seconds()

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s\n", *base)
	fmt.Printf("Requests: %d  Concurrency: %d\n", *requests, *concurrency)
	fmt.Printf("Total sent: %d  Failures: %d\n", total, failures)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", totalDuration, throughput)

	sort.Strings(targets)
	fmt.Println("\nPer endpoint:")
	for _, p := range targets {
		ps := stats[p]
		sort.Slice(ps.latencies, func(i, j int) bool { return ps.latencies[i] < ps.latencies[j] })
		ps.P50 = millis(percentile(ps.latencies, 0.50))
		ps.P95 = millis(percentile(ps.latencies, 0.95))
		ps.P99 = millis(percentile(ps.latencies, 0.99))

		fmt.Printf("  %s -> total=%d errors=%d codes=%v p50=%.1fms p95=%.1fms p99=%.1fms\n",
			p, ps.Count, ps.Errors, ps.StatusCodes, ps.P50, ps.P95, ps.P99)
	}

	if *outJSON != "" {
		report := map[string]interface{}{
			"target":         *base,
			"requests":       *requests,
			"concurrency":    *concurrency,
			"total_sent":     total,
			"failures":       failures,
			"duration_ms":    totalDuration.Milliseconds(),
			"throughput_rps": throughput,
			"paths":          stats,
		}

		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		f.Close()
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if failures > 0 {
		os.Exit(2)
	}
}
