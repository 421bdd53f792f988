// Package artbed provides an AI artwork generation and sharing service.
//
// Features:
// - Idea-to-image generation pipeline (prompt synthesis, diffusion, durable storage)
// - Best-effort image captioning and tagging
// - Global tag popularity ledger
// - Styled artwork curation texts
// - User authentication and artwork galleries
//
// Example usage:
//   go run main.go
//
// Configuration:
//   See config/config.json for server settings and
//   config/styles.json for prompt/curation instructions
//
// API Documentation:
//   All endpoints are documented in the internal/api/handler.go file
package main
