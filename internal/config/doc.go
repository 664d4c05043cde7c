// Package config provides configuration management for the coflow service.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults; the workflow timing knobs
// default to the reference scenario (one second fetch latency, three retry
// attempts, a five-step long task, a three second timeout bound against four
// seconds of simulated work).
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
