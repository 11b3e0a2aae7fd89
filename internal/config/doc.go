// SPDX-License-Identifier: MPL-2.0

// Package config loads langlock's own settings using Viper with CUE as the
// file format.
//
// Settings come from the file named by --config, else from config.cue in the
// user config directory ($XDG_CONFIG_HOME/langlock on Linux, ~/Library/Application
// Support/langlock on macOS, %APPDATA%\langlock on Windows), else from
// langlock.cue in the working directory. LANGLOCK_* environment variables
// override file values. Files are validated against the embedded
// config_schema.cue before they reach Viper.
package config
