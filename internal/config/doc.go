// Package config loads, normalizes, and validates standup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and STANDUP_API_TOKEN. The Config type centralizes every knob
// the server, CLI, and MCP bridge need so the note database location, model
// credentials, and API endpoint are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
