// Package config loads the proxy's configuration from an optional YAML file
// and environment variables: listen address, environment, logging level,
// YouTube Data API credentials and the fuzzy matcher tuning.
package config
