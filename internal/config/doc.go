// Package config holds the runtime configuration for seodiff.
//
// Configuration comes from CLI flags layered over an optional .seodiff
// YAML file. The file carries per-site crawl overrides and the
// comparison options; flags always win.
package config
