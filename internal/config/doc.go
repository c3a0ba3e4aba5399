// Package config loads, normalizes, and validates quill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// QUILL_API_TOKEN. The Config type centralizes every knob the CLI needs:
// API endpoint and credentials, staging and draft directories, attachment
// quotas and extension allow-lists, logging, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
