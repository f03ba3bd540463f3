// Package internal contains the core implementation packages for
// cvforge.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the cvforge CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: input file reading, dotted-path overrides, render settings
//   - schema: input validation producing documents or raw failures
//   - diagnostics: normalization of raw failures into user diagnostics
//   - theme: built-in and custom theme resolution, plugin schemas
//   - renderer: Typst, PDF, PNG, Markdown, and HTML artifact production
//   - pipeline: render stage sequencing with progress reporting
//   - watcher: file system monitoring with serialized re-runs
//   - printer: styled terminal output for progress and diagnostics
//   - logging: structured logging shared across packages
//   - version: build information and release checks
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - The pipeline consumes validated documents from schema and drives
//     the renderers over small renderer interfaces.
//   - Theme resolution is injected into validation as a hook, keeping
//     schema free of theme knowledge.
//   - The watcher re-invokes the same closure the one-shot render path
//     uses, so both paths behave identically.
//
// For detailed documentation, see the individual package documentation.
package internal
