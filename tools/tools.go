//go:build tools
// +build tools

// Package tools lists development tools used with this module.
// They are installed with `go install` and are not tracked in go.mod.
package tools

// Air reloads the console while templates and handlers are edited:
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run:     DEV=true air -- ./cmd/console
//
// Mockgen regenerates internal/mocks (see internal/mocks/generate.go):
//   go generate ./internal/mocks
