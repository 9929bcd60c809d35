// Package config loads, normalizes, and validates ludex configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// IGDB_CLIENT_ID. The Config type centralizes every knob the CLI needs,
// allowing catalog directories, scrape tuning, and external service
// credentials to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
