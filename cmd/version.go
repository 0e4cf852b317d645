package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/pagebuild/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for pagebuild including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  pagebuild version                # Show version and build details
  pagebuild version --short        # Show version only
  pagebuild version --format json  # Output as JSON`,
	Args: noArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	AddFlagValidation(versionCmd, "format", func(format string) error {
		return ValidateFormat(format, []string{"text", "json"})
	})
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if strings.EqualFold(versionFormat, "json") {
		return outputVersionJSON(out)
	}
	if versionShort {
		_, err := fmt.Fprintln(out, version.GetShortVersion())
		return err
	}
	_, err := fmt.Fprint(out, version.GetBuildInfo().String())
	return err
}

func outputVersionJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(version.GetBuildInfo())
}
