// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// FormatPHP patches locked_keys into the Laravel config file.
	FormatPHP ExportFormat = "php"
	// FormatJSON writes a standalone JSON registry.
	FormatJSON ExportFormat = "json"
	// FormatYAML writes a standalone YAML registry.
	FormatYAML ExportFormat = "yaml"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxWorkers bounds the scan worker pool.
	MaxWorkers = 256
)

var (
	// ErrInvalidExportFormat is returned when an ExportFormat value is not recognized.
	ErrInvalidExportFormat = errors.New("invalid export format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidWorkers is returned when the worker count is out of range.
	ErrInvalidWorkers = errors.New("invalid worker count")
	// ErrInvalidPath is returned when a configured path is whitespace-only.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ExportFormat selects where export-locked persists the registry.
	ExportFormat string

	// InvalidExportFormatError is returned when an ExportFormat value is not recognized.
	InvalidExportFormatError struct {
		Value ExportFormat
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidWorkersError is returned when Workers is negative or above MaxWorkers.
	InvalidWorkersError struct {
		Value int
	}

	// InvalidPathError is returned when a path setting is set but blank.
	InvalidPathError struct {
		Field string
		Value string
	}

	// InvalidConfigError collects field-level validation errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ProjectRoot is the Laravel project the other paths are relative to.
		ProjectRoot string `json:"project_root" mapstructure:"project_root"`
		// SourceDirectory overrides the translation root; "" defers to the
		// Laravel config file.
		SourceDirectory string `json:"source_directory" mapstructure:"source_directory"`
		// ConfigFile is the Laravel translator config receiving locked_keys.
		ConfigFile string `json:"config_file" mapstructure:"config_file"`
		// JSONFile is the standalone JSON registry path.
		JSONFile string `json:"json_file" mapstructure:"json_file"`
		// YAMLFile is the standalone YAML registry path.
		YAMLFile string `json:"yaml_file" mapstructure:"yaml_file"`
		// Workers sizes the scan pool; 0 means one per CPU.
		Workers int `json:"workers" mapstructure:"workers"`
		// Export configures export-locked.
		Export ExportConfig `json:"export" mapstructure:"export"`
		// Generate configures generate-source.
		Generate GenerateConfig `json:"generate" mapstructure:"generate"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ExportConfig holds export-locked defaults.
	ExportConfig struct {
		Format     ExportFormat `json:"format" mapstructure:"format"`
		LockVendor bool         `json:"lock_vendor" mapstructure:"lock_vendor"`
	}

	// GenerateConfig holds generate-source defaults.
	GenerateConfig struct {
		SourceLocale string `json:"source_locale" mapstructure:"source_locale"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Language picks the console message catalog; "" follows LANG.
		Language    string      `json:"language" mapstructure:"language"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ProjectRoot: ".",
		ConfigFile:  "config/ai-translator.php",
		JSONFile:    "locked-translations.json",
		YAMLFile:    "locked-translations.yaml",
		Export: ExportConfig{
			Format: FormatPHP,
		},
		Generate: GenerateConfig{
			SourceLocale: "en",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ResolvedWorkers returns Workers, or the CPU count when Workers is 0.
func (c *Config) ResolvedWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// ProjectPath joins a project-relative path onto ProjectRoot. Absolute paths
// are returned unchanged.
func (c *Config) ProjectPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.ProjectRoot, rel)
}

// OutputFile returns the registry file written for the given format.
func (c *Config) OutputFile(f ExportFormat) string {
	switch f {
	case FormatJSON:
		return c.JSONFile
	case FormatYAML:
		return c.YAMLFile
	default:
		return c.ConfigFile
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range []struct{ field, value string }{
		{"project_root", c.ProjectRoot},
		{"config_file", c.ConfigFile},
		{"json_file", c.JSONFile},
		{"yaml_file", c.YAMLFile},
		{"generate.source_locale", c.Generate.SourceLocale},
	} {
		if strings.TrimSpace(p.value) == "" {
			errs = append(errs, &InvalidPathError{Field: p.field, Value: p.value})
		}
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		errs = append(errs, &InvalidWorkersError{Value: c.Workers})
	}
	if valid, fieldErrs := c.Export.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config sentinel and each field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidPathError.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s %q: must not be blank", e.Field, e.Value)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// Error implements the error interface for InvalidWorkersError.
func (e *InvalidWorkersError) Error() string {
	return fmt.Sprintf("workers %d: must be between 0 and %d", e.Value, MaxWorkers)
}

// Unwrap returns ErrInvalidWorkers for errors.Is() compatibility.
func (e *InvalidWorkersError) Unwrap() error { return ErrInvalidWorkers }

// String returns the string representation of the ExportFormat.
func (f ExportFormat) String() string { return string(f) }

// IsValid returns whether the ExportFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f ExportFormat) IsValid() (bool, []error) {
	switch f {
	case FormatPHP, FormatJSON, FormatYAML:
		return true, nil
	default:
		return false, []error{&InvalidExportFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidExportFormatError.
func (e *InvalidExportFormatError) Error() string {
	return fmt.Sprintf("invalid export format %q (valid: php, json, yaml)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidExportFormatError) Unwrap() error { return ErrInvalidExportFormat }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }
