// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/pkg/types"
)

// newConfigCommand creates the `langlock config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, global *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage langlock configuration",
		Long: `Manage langlock configuration.

Configuration is read from the first file found of:
  - the --config flag
  - the user config file:
      Linux: ~/.config/langlock/config.cue
      macOS: ~/Library/Application Support/langlock/config.cue
      Windows: %APPDATA%\langlock\config.cue
  - ./langlock.cue

LANGLOCK_<FIELD> environment variables override file values, for example
LANGLOCK_EXPORT_FORMAT=json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			loaded, err := loadConfigForDisplay(cmd.Context(), app, global)
			if err != nil {
				return err
			}
			showConfig(app.stdout, loaded)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			loaded, err := loadConfigForDisplay(cmd.Context(), app, global)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(loaded.Config))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout)
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LocalConfigFile
			if !local {
				var err error
				if path, err = config.UserConfigPath(); err != nil {
					return err
				}
			}
			return initConfig(app.stdout, path)
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "create ./langlock.cue instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

// loadConfigForDisplay loads configuration for the config subcommands and
// applies --project so the shown values match what commands would use.
func loadConfigForDisplay(ctx context.Context, app *App, global *globalFlags) (config.LoadedConfig, error) {
	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: global.configPath})
	if err != nil {
		renderServiceError(app.stderr, serviceErrorFrom(err, global.verbose), string(config.ColorSchemeAuto), newLogger(app.stderr, global.verbose))
		return config.LoadedConfig{}, &ExitError{Code: types.ExitFailure, Err: err}
	}
	if global.project != "" {
		loaded.ProjectRoot = global.project
	}
	return loaded, nil
}

func showConfig(w io.Writer, loaded config.LoadedConfig) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	cfg := loaded.Config

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if loaded.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), loaded.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	sourceDir := cfg.SourceDirectory
	if sourceDir == "" {
		sourceDir = SubtitleStyle.Render("(from " + cfg.ConfigFile + ")")
	} else {
		sourceDir = valueStyle.Render(sourceDir)
	}
	workers := strconv.Itoa(cfg.Workers)
	if cfg.Workers == 0 {
		workers = "0 " + SubtitleStyle.Render("(one per CPU: "+strconv.Itoa(cfg.ResolvedWorkers())+")")
	}

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("project_root"), valueStyle.Render(cfg.ProjectRoot))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("source_directory"), sourceDir)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("config_file"), valueStyle.Render(cfg.ConfigFile))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("json_file"), valueStyle.Render(cfg.JSONFile))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("yaml_file"), valueStyle.Render(cfg.YAMLFile))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("workers"), workers)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("export"))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(string(cfg.Export.Format)))
	fmt.Fprintf(w, "  lock_vendor: %s\n", valueStyle.Render(strconv.FormatBool(cfg.Export.LockVendor)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("generate"))
	fmt.Fprintf(w, "  source_locale: %s\n", valueStyle.Render(cfg.Generate.SourceLocale))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
	if cfg.UI.Language == "" {
		fmt.Fprintf(w, "  language: %s\n", SubtitleStyle.Render("(from $LANG)"))
	} else {
		fmt.Fprintf(w, "  language: %s\n", valueStyle.Render(cfg.UI.Language))
	}
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
}

func showConfigPath(w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	userPath, err := config.UserConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", userPath)
	fmt.Fprintf(w, "Project config file: ./%s\n", config.LocalConfigFile)
	return nil
}

func initConfig(w io.Writer, path string) error {
	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", infoIcon, path)
		return nil
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", successIcon, path)
	return nil
}
