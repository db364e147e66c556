// Package handler implements the proxy's plain-text HTTP endpoints: usage,
// latest video, playlist listing and lookup, and video search. Instrument
// wraps them with request ids, access logging and metrics.
package handler
