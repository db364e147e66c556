// Package youtube is the proxy's client for the YouTube Data API v3. It
// resolves the latest upload, title searches and the full playlist list of
// one configured channel, reporting each upstream call to the metrics
// collector.
package youtube
