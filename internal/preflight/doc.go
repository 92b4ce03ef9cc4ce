// Package preflight provides readiness checks for the filesystem paths and
// model providers that standup depends on.
//
// These checks run in two contexts:
//   - "standup serve" calls RunAll at startup and logs failures as warnings.
//     The server still starts because every AI route has a local fallback.
//   - "standup status" uses the individual checks to display health.
package preflight
