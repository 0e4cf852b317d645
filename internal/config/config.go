// Package config provides configuration management for pagebuild using Viper
// for loading from files, environment variables and command-line flags.
//
// Every setting has a default that reproduces the fixed layout, so a project
// without a .pagebuild.yml builds <root>/web/pages/*.html into <root>/web.
// Environment variables use the PAGEBUILD_ prefix with dots replaced by
// underscores (PAGEBUILD_BUILD_PATTERN, PAGEBUILD_LOG_LEVEL).
package config

import (
	"io"
	"path/filepath"
	"strings"

	builderrors "github.com/conneroisu/pagebuild/internal/errors"
	"github.com/conneroisu/pagebuild/internal/logging"
	"github.com/spf13/viper"
)

// Defaults for the fixed project layout.
const (
	DefaultRoot     = "."
	DefaultWebDir   = "web"
	DefaultPagesDir = "pages"
	DefaultPattern  = "*.html"
)

// Config is the resolved configuration of one pagebuild invocation.
type Config struct {
	Root   string       `mapstructure:"root" yaml:"root" json:"root"`
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout" json:"layout"`
	Build  BuildConfig  `mapstructure:"build" yaml:"build" json:"build"`
	Log    LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
}

// LayoutConfig locates the template directories relative to Root.
type LayoutConfig struct {
	// WebDir is both the template search directory and the output directory.
	WebDir string `mapstructure:"web_dir" yaml:"web_dir" json:"web_dir"`
	// PagesDir holds the page templates, relative to WebDir.
	PagesDir string `mapstructure:"pages_dir" yaml:"pages_dir" json:"pages_dir"`
}

type BuildConfig struct {
	Pattern    string   `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	Autoescape []string `mapstructure:"autoescape" yaml:"autoescape" json:"autoescape"`
	Atomic     bool     `mapstructure:"atomic" yaml:"atomic" json:"atomic"`
	DryRun     bool     `mapstructure:"dry_run" yaml:"dry_run" json:"dry_run"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// SetDefaults registers the default value of every key with Viper.
func SetDefaults() {
	viper.SetDefault("root", DefaultRoot)
	viper.SetDefault("layout.web_dir", DefaultWebDir)
	viper.SetDefault("layout.pages_dir", DefaultPagesDir)
	viper.SetDefault("build.pattern", DefaultPattern)
	viper.SetDefault("build.autoescape", []string{"html"})
	viper.SetDefault("build.atomic", true)
	viper.SetDefault("build.dry_run", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// EnvPrefix is prepended to every environment variable Viper consults.
const EnvPrefix = "PAGEBUILD"

// BindEnv enables PAGEBUILD_* environment overrides for every key.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load builds a Config from the global Viper instance and validates it.
func Load() (*Config, error) {
	SetDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, builderrors.WrapConfig(err, "failed to decode configuration")
	}

	// Viper leaves a comma separated env value as one element.
	if viper.IsSet("build.autoescape") {
		config.Build.Autoescape = splitList(viper.GetStringSlice("build.autoescape"))
	}

	if config.Root == "" {
		config.Root = DefaultRoot
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Root:   DefaultRoot,
		Layout: LayoutConfig{WebDir: DefaultWebDir, PagesDir: DefaultPagesDir},
		Build: BuildConfig{
			Pattern:    DefaultPattern,
			Autoescape: []string{"html"},
			Atomic:     true,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// WebPath is the template search directory and output directory.
func (c *Config) WebPath() string {
	return filepath.Join(c.Root, c.Layout.WebDir)
}

// PagesPath is the directory holding page templates.
func (c *Config) PagesPath() string {
	return filepath.Join(c.WebPath(), c.Layout.PagesDir)
}

// LoggerConfig translates the log settings for the logging package.
func (c *Config) LoggerConfig(out io.Writer) *logging.LoggerConfig {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return &logging.LoggerConfig{
		Level:  level,
		Format: c.Log.Format,
		Output: out,
	}
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
