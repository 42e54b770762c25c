// Package config loads, normalizes, and validates Distill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, applies DISTILL_* environment overrides, and
// honours credential fallbacks such as ANTHROPIC_API_KEY. The Config type
// centralizes every knob the CLI needs, so output/data directories and
// external service credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical styles and formats, and clear validation errors.
package config
