// Package cmd provides the command-line interface for pagebuild.
//
// The root command renders every page template in web/pages into web/.
// The remaining commands inspect a project without writing to it.
//
// # Available Commands
//
//   - (root): Render every page and write it next to the pages directory
//   - list: List the pages a build would render
//   - version: Show version and build information
//
// # Command Examples
//
//	// Build all pages of the project in the working directory
//	pagebuild
//
//	// Build another project without writing anything
//	pagebuild --root ./site --dry-run
//
//	// List pages as JSON
//	pagebuild list -o json
//
// # Configuration
//
// Settings are resolved with the following precedence:
//
//  1. Command-line flags (--root, --dry-run, --log-level, etc.)
//  2. Environment variables (PAGEBUILD_ROOT, PAGEBUILD_BUILD_PATTERN, etc.)
//  3. The file named by --config or PAGEBUILD_CONFIG_FILE
//  4. .pagebuild.yml in the working directory
//  5. Built-in defaults (web/pages/*.html rendered into web/)
//
// Environment variables follow the PAGEBUILD_<SECTION>_<OPTION> pattern,
// for example PAGEBUILD_BUILD_ATOMIC or PAGEBUILD_LOG_LEVEL.
//
// # Exit Codes
//
// Execute returns 0 on success, 2 for usage and configuration errors, 3 for
// filesystem errors and 4 for template errors. Anything else, including an
// interrupted build, exits with 1.
package cmd
