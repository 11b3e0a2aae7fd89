// SPDX-License-Identifier: MPL-2.0

// Package laravel reads the settings langlock shares with the Laravel
// translator package: the translation source directory and the persisted
// locked_keys registry from config/ai-translator.php.
package laravel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/langlock/langlock/internal/diag"
	"github.com/langlock/langlock/internal/storage"
	"github.com/langlock/langlock/pkg/phparray"
)

const (
	// DefaultConfigFile is the translator config path relative to the project.
	DefaultConfigFile = "config/ai-translator.php"
	// DefaultEnvFile is the dotenv file consulted for env() calls.
	DefaultEnvFile = ".env"
	// DefaultSourceDirectory is used when the config does not set one.
	DefaultSourceDirectory = "lang"

	keySourceDirectory = "source_directory"
	keyLockedKeys      = "locked_keys"
)

type (
	// Settings are the values read from the translator config.
	Settings struct {
		// ConfigFile is the config path relative to the project.
		ConfigFile string
		// ConfigFound is false when the file does not exist and defaults apply.
		ConfigFound bool
		// Evaluated is true when the file returned an array langlock could
		// read. A found but unevaluated config leaves LockedKeys unknown.
		Evaluated bool
		// SourceDirectory is the translation root relative to the project.
		SourceDirectory string
		// LockedKeys is the raw locked_keys value, nil when absent.
		LockedKeys phparray.Value
	}

	// Files is the project storage a Reader reads from.
	Files interface {
		Path(name string) string
		ReadFile(ctx context.Context, name string) ([]byte, error)
	}

	// Reader loads Settings from a project.
	Reader struct {
		store      Files
		configFile string
		envFile    string
		lookupEnv  func(string) (string, bool)
	}

	// Option configures a Reader.
	Option func(*Reader)
)

// WithConfigFile overrides the translator config path.
func WithConfigFile(name string) Option {
	return func(r *Reader) {
		if name != "" {
			r.configFile = name
		}
	}
}

// WithEnvFile overrides the dotenv path.
func WithEnvFile(name string) Option {
	return func(r *Reader) {
		if name != "" {
			r.envFile = name
		}
	}
}

// WithLookupEnv replaces the process environment lookup.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(r *Reader) {
		r.lookupEnv = lookup
	}
}

// NewReader creates a Reader over the project store.
func NewReader(store Files, opts ...Option) *Reader {
	r := &Reader{
		store:      store,
		configFile: DefaultConfigFile,
		envFile:    DefaultEnvFile,
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConfigFile returns the config path the reader uses.
func (r *Reader) ConfigFile() string { return r.configFile }

// Load reads the config. A missing file yields defaults. A file that cannot be
// parsed, or values that cannot be evaluated, yield defaults plus a warning;
// callers that persist locked_keys must check Settings.Evaluated.
func (r *Reader) Load(ctx context.Context) (Settings, []diag.Diagnostic, error) {
	settings := Settings{ConfigFile: r.configFile, SourceDirectory: DefaultSourceDirectory}
	var diags []diag.Diagnostic

	src, err := r.store.ReadFile(ctx, r.configFile)
	if errors.Is(err, storage.ErrNotFound) {
		return settings, nil, nil
	}
	if err != nil {
		return settings, nil, err
	}
	settings.ConfigFound = true

	v, err := phparray.Parse(src)
	if err != nil {
		diags = append(diags, diag.Warning(diag.CodeConfigUnreadable, r.store.Path(r.configFile),
			"config could not be parsed; using defaults", err))
		return settings, diags, nil
	}
	root, ok := v.(*phparray.Array)
	if !ok {
		diags = append(diags, diag.Warning(diag.CodeConfigUnreadable, r.store.Path(r.configFile),
			"config does not return an array; using defaults", nil))
		return settings, diags, nil
	}
	settings.Evaluated = true

	env, err := r.loadEnv(ctx)
	if err != nil {
		diags = append(diags, diag.Warning(diag.CodeConfigUnreadable, r.store.Path(r.envFile),
			"dotenv file could not be read; env() uses the process environment only", err))
	}
	resolver := &EnvResolver{Dotenv: env, LookupEnv: r.lookupEnv}

	if raw, ok := root.Get(keySourceDirectory); ok {
		switch dir := resolver.Resolve(raw).(type) {
		case phparray.String:
			if s := strings.TrimSpace(string(dir)); s != "" {
				settings.SourceDirectory = s
			}
		default:
			diags = append(diags, diag.Warning(diag.CodeConfigUnreadable, r.store.Path(r.configFile),
				fmt.Sprintf("%s is not a string (%s); using %q", keySourceDirectory, phparray.Encode(raw, 0), DefaultSourceDirectory), nil))
		}
	}
	if raw, ok := root.Get(keyLockedKeys); ok {
		settings.LockedKeys = resolver.Resolve(raw)
	}
	return settings, diags, nil
}

func (r *Reader) loadEnv(ctx context.Context) (map[string]string, error) {
	data, err := r.store.ReadFile(ctx, r.envFile)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.envFile, err)
	}
	return env, nil
}
