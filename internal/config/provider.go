// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
	// WorkDir is where langlock.cue is looked up; "" means the process
	// working directory.
	WorkDir string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (LoadedConfig, error)
}

// LoadedConfig is a Config plus the file it was read from ("" for defaults).
type LoadedConfig struct {
	*Config
	Path string
}

type fileProvider struct{}

// NewProvider creates a configuration provider backed by CUE files, viper
// defaults and LANGLOCK_* environment overrides.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (LoadedConfig, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return LoadedConfig{}, err
	}
	return LoadedConfig{Config: cfg, Path: path}, nil
}
