// Package config loads, normalizes, and validates Reprise configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the REPRISE_API_TOKEN environment
// fallback. The Config type centralizes the review interval table, the daily
// new-video quotas, the media and database locations, and the import watch
// list so the daemon and CLI discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
