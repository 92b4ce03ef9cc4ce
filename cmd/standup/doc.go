// Package main hosts the standup CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the API server ("serve") and translates
// terminal invocations into HTTP calls against it: note editing and listing,
// AI structuring, classification and transcription, CSV export, and status
// reporting. It centralizes configuration resolution and server discovery so
// subcommands can focus on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
