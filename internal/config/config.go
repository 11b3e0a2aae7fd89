// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "langlock"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is looked up in the working directory when the user
	// config directory has no config file.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides (LANGLOCK_EXPORT_FORMAT).
	EnvPrefix = "LANGLOCK"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the langlock configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the config.cue path inside ConfigDir.
func UserConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading without touching
// package-level state other than the test override.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'langlock config dump' to see every supported field").
				WithIssue(issue.ToolConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithIssue(issue.ToolConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("project_root", d.ProjectRoot)
	v.SetDefault("source_directory", d.SourceDirectory)
	v.SetDefault("config_file", d.ConfigFile)
	v.SetDefault("json_file", d.JSONFile)
	v.SetDefault("yaml_file", d.YAMLFile)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("export.format", string(d.Export.Format))
	v.SetDefault("export.lock_vendor", d.Export.LockVendor)
	v.SetDefault("generate.source_locale", d.Generate.SourceLocale)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.language", d.UI.Language)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
}

// resolveConfigPath picks the file to load: the explicit path (which must
// exist), then the user config directory, then LocalConfigFile in the work
// directory. It returns "" when none exists.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'langlock config init' to create a starter file").
				WithIssue(issue.ToolConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}
	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}

	if p := filepath.Join(opts.WorkDir, LocalConfigFile); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it over
// the defaults already registered in v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecodeString[map[string]any](
		configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path unless a file
// already exists there. It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders cfg as a config file accepted by the embedded schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// langlock configuration\n")
	sb.WriteString("// Environment variables LANGLOCK_<FIELD> override these values.\n\n")

	fmt.Fprintf(&sb, "project_root: %q\n", cfg.ProjectRoot)
	if cfg.SourceDirectory != "" {
		fmt.Fprintf(&sb, "source_directory: %q\n", cfg.SourceDirectory)
	}
	fmt.Fprintf(&sb, "config_file: %q\n", cfg.ConfigFile)
	fmt.Fprintf(&sb, "json_file: %q\n", cfg.JSONFile)
	fmt.Fprintf(&sb, "yaml_file: %q\n", cfg.YAMLFile)
	fmt.Fprintf(&sb, "workers: %d\n", cfg.Workers)

	sb.WriteString("\nexport: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Export.Format)
	fmt.Fprintf(&sb, "\tlock_vendor: %v\n", cfg.Export.LockVendor)
	sb.WriteString("}\n")

	sb.WriteString("\ngenerate: {\n")
	fmt.Fprintf(&sb, "\tsource_locale: %q\n", cfg.Generate.SourceLocale)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	if cfg.UI.Language != "" {
		fmt.Fprintf(&sb, "\tlanguage: %q\n", cfg.UI.Language)
	}
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}
