// Package config loads, normalizes, and validates callscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, overlays CALLSCRIBE_* environment variables,
// and honours API key fallbacks such as OPENAI_API_KEY. The Config type
// centralizes every knob the CLI, batch runner and HTTP API need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
