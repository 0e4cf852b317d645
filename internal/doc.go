// Package internal contains the implementation packages of pagebuild.
//
// # Package Organization
//
//   - builder: Discovers page templates and renders each into the web directory
//   - renderer: Template environment with lazy, name-based template resolution
//   - loader: Template sources read from a search directory or an fs.FS
//   - config: Configuration loading and validation through Viper
//   - errors: Structured build errors, template error parsing and suggestions
//   - logging: Structured logging over log/slog
//   - version: Build information set through -ldflags
//   - testutils: Temporary project helpers for tests
//
// # Data Flow
//
// The cmd package loads a config.Config and hands it to builder.New. The
// builder lists the pages directory, then asks a renderer.Environment backed
// by a loader.FilesystemLoader to render each page by name. Rendered pages
// are written next to the pages directory, one at a time, stopping at the
// first error.
package internal
