package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/pagebuild/internal/builder"
	"github.com/conneroisu/pagebuild/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List the pages a build would render",
	Long: `List every page template a build would render, in build order, with the
template name it is rendered as and the file it is written to.

Examples:
  pagebuild list                  # Table output
  pagebuild list -o json          # Output as JSON
  pagebuild list --output yaml    # Output as YAML`,
	Args: noArgs,
	RunE: runList,
}

var listFormats = []string{"table", "json", "yaml"}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "output", "o", "table", "Output format (table|json|yaml)")
	AddFlagValidation(listCmd, "output", func(format string) error {
		return ValidateFormat(format, listFormats)
	})
}

// listEntry is one row of list output. Paths are relative to the project
// root.
type listEntry struct {
	Name     string `json:"name" yaml:"name"`
	Template string `json:"template" yaml:"template"`
	Source   string `json:"source" yaml:"source"`
	Output   string `json:"output" yaml:"output"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)
	pages, err := builder.New(cfg, builder.WithLogger(logger)).Discover()
	if err != nil {
		logger.Error(cmd.Context(), err, "List failed")
		return err
	}

	entries := make([]listEntry, len(pages))
	for i, page := range pages {
		entries[i] = listEntry{
			Name:     page.Name,
			Template: page.Template,
			Source:   relToRoot(cfg, page.Source),
			Output:   relToRoot(cfg, page.Output),
		}
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(listFormat) {
	case "json":
		return outputListJSON(out, entries)
	case "yaml":
		return outputListYAML(out, entries)
	default:
		return outputListTable(out, entries)
	}
}

func outputListJSON(w io.Writer, entries []listEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputListYAML(w io.Writer, entries []listEntry) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(entries)
}

func outputListTable(w io.Writer, entries []listEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No pages found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tTEMPLATE\tOUTPUT")
	fmt.Fprintln(tw, "----\t--------\t------")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Template, e.Output)
	}
	fmt.Fprintf(tw, "\nTotal: %d pages\n", len(entries))

	return tw.Flush()
}

func relToRoot(cfg *config.Config, path string) string {
	rel, err := filepath.Rel(cfg.Root, path)
	if err != nil {
		return path
	}
	return rel
}
