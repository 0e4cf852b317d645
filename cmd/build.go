package cmd

import (
	"fmt"

	"github.com/conneroisu/pagebuild/internal/builder"
	"github.com/conneroisu/pagebuild/internal/config"
	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runBuild renders every page. It is the root command's action.
func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)
	logger.Debug(cmd.Context(), "Starting build",
		"root", cfg.Root,
		"pages_dir", cfg.PagesPath(),
		"pattern", cfg.Build.Pattern,
		"atomic", cfg.Build.Atomic,
		"dry_run", cfg.Build.DryRun,
	)

	b := builder.New(cfg,
		builder.WithProgress(cmd.OutOrStdout()),
		builder.WithLogger(logger),
	)

	result, err := b.BuildAll(cmd.Context())
	if err != nil {
		logger.Error(cmd.Context(), err, "Build failed",
			"pages_built", len(result.Pages),
			"duration", result.Duration.String(),
		)
		return err
	}

	logger.Info(cmd.Context(), "Build complete",
		"pages", len(result.Pages),
		"duration", result.Duration.String(),
	)
	return nil
}

// loadConfig resolves the configuration from flags, environment and file.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, builderrors.WrapConfig(configErr, fmt.Sprintf("failed to read config file %s", configFileName()))
	}
	return config.Load()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	return logging.NewLogger(cfg.LoggerConfig(cmd.ErrOrStderr())).WithComponent("cli")
}

func configFileName() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return ".pagebuild.yml"
}
