package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/conneroisu/pagebuild/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// configErr records a config file that was named explicitly but could
	// not be read. cobra.OnInitialize cannot return errors.
	configErr error
)

// ErrUsage marks errors caused by how the command was invoked.
var ErrUsage = errors.New("usage error")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagebuild",
	Short: "Render the HTML page templates of a site",
	Long: `pagebuild renders every template in web/pages/*.html into web/, in file
name order, with Go's html/template and contextual auto-escaping.

Templates may include partials and extend layouts from anywhere under web/:

  {{define "content"}}<h1>About</h1>{{end}}
  {{template "layouts/base.html" .}}

The build stops at the first template that fails to render or write.

Quick Start:
  pagebuild                       Build all pages
  pagebuild --dry-run             Render without writing
  pagebuild list                  Show the pages a build would write`,
	Args:          noArgs,
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and returns the process exit code. An
// interrupt stops a build between pages.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return exitCodeFor(err)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pagebuild.yml, can also use PAGEBUILD_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("root", config.DefaultRoot, "project root containing the web directory")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	rootCmd.Flags().BoolP("dry-run", "n", false, "render every page but write nothing")
	rootCmd.Flags().Bool("atomic", true, "replace output files atomically")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})
}

// bindFlags binds flags to viper configuration keys
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for flagName, key := range bindings {
		if flag := flags.Lookup(flagName); flag != nil {
			_ = viper.BindPFlag(key, flag)
		}
	}
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. PAGEBUILD_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .pagebuild.yml in current directory
//
// A missing default file is not an error; a missing or malformed file named
// by the flag or the environment variable is.
func initConfig() {
	configErr = nil
	explicit := true

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PAGEBUILD_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pagebuild")
	}

	bindRootFlags()
	config.BindEnv()

	err := viper.ReadInConfig()
	if err == nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Using config file:", viper.ConfigFileUsed())
		return
	}
	var notFound viper.ConfigFileNotFoundError
	if explicit || !errors.As(err, &notFound) {
		configErr = err
	}
}

// bindRootFlags binds the root flags to their configuration keys. It runs on
// every invocation so that bindings survive a viper.Reset.
func bindRootFlags() {
	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"root":       "root",
		"log-level":  "log.level",
		"log-format": "log.format",
	})
	bindFlags(rootCmd.Flags(), map[string]string{
		"dry-run": "build.dry_run",
		"atomic":  "build.atomic",
	})
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %q does not accept arguments, got %q", ErrUsage, cmd.CommandPath(), args[0])
	}
	return nil
}
