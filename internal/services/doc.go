// Package services defines shared utilities consumed by the note store, the
// AI proxy services, and the HTTP API.
//
// Key responsibilities:
//   - Context helpers that stamp note dates, route names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so route handlers can
//     translate failures into consistent HTTP responses (client vs server
//     errors) without string matching.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the service.
package services
