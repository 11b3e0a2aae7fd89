// SPDX-License-Identifier: MPL-2.0

package lockexport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/diag"
	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/internal/laravel"
	"github.com/langlock/langlock/internal/lock"
	"github.com/langlock/langlock/internal/workerpool"
	"github.com/langlock/langlock/pkg/langtree"
	"github.com/langlock/langlock/pkg/phparray"
)

const (
	vendorDir = "vendor"
	phpExt    = ".php"
)

// skippedDirs are never scanned.
var skippedDirs = []string{"backup", ".backup", "_backup"}

// ErrPriorRegistryUnreadable is wrapped when the existing locked_keys could
// not be read and writing would replace them with the new discoveries only.
var ErrPriorRegistryUnreadable = errors.New("existing locked_keys could not be read")

type (
	// Files is the project storage the service scans and writes.
	Files interface {
		laravel.Files
		RequireDir(ctx context.Context, dir string) error
		ListDirs(ctx context.Context, dir string) ([]string, error)
		ListFiles(ctx context.Context, dir, ext string) ([]string, error)
		WriteFile(ctx context.Context, name string, data []byte) error
	}

	// Service runs export-locked against one project store.
	Service struct {
		store     Files
		pool      *workerpool.Pool
		logger    *slog.Logger
		lookupEnv func(string) (string, bool)
	}

	// Option configures a Service.
	Option func(*Service)

	// scanUnit is one directory scanned by a single pool job: a locale
	// directory for markers, or a vendor package locale for whole-file locks.
	scanUnit struct {
		dir    string
		locale string
		pkg    string
	}

	scanResult struct {
		discoveries []lock.Discovery
		diagnostics []diag.Diagnostic
	}
)

// WithLogger sets the logger used for per-file progress.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLookupEnv replaces the process environment used by env() calls in the
// Laravel config.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(s *Service) { s.lookupEnv = lookup }
}

// NewService creates an export service. The pool is shared and not released
// by the service.
func NewService(store Files, pool *workerpool.Pool, opts ...Option) *Service {
	s := &Service{
		store:     store,
		pool:      pool,
		logger:    slog.New(slog.DiscardHandler),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export scans, merges and persists the locked-key registry.
func (s *Service) Export(ctx context.Context, req Request) (*Report, error) {
	if valid, errs := req.Format.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("export locked keys").
			WithSuggestion("Use --format php, json or yaml").
			WithIssue(issue.InvalidFormatId).
			Wrap(errs[0]).
			BuildError()
	}

	reader := laravel.NewReader(s.store, laravel.WithConfigFile(req.ConfigFile), laravel.WithLookupEnv(s.lookupEnv))
	settings, diags, err := reader.Load(ctx)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read translator config").
			WithResource(s.store.Path(reader.ConfigFile())).
			Wrap(err).
			BuildError()
	}

	sourceDir := req.SourceDirectory
	if sourceDir == "" {
		sourceDir = settings.SourceDirectory
	}
	report := &Report{
		SourceDirectory: s.store.Path(sourceDir),
		LockVendor:      req.LockVendor,
		Format:          req.Format,
		Diagnostics:     diags,
	}

	var priorErr error
	if settings.ConfigFound && !settings.Evaluated {
		priorErr = ErrPriorRegistryUnreadable
	}
	prior, err := lock.RegistryFromValue(settings.LockedKeys)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics, diag.Warning(diag.CodePriorRegistryInvalid,
			s.store.Path(settings.ConfigFile), "existing locked_keys ignored", err))
		prior = lock.NewRegistry()
		priorErr = fmt.Errorf("%w: %w", ErrPriorRegistryUnreadable, err)
	}
	report.ExistingCount = prior.Len()
	report.Registry = prior

	if err := s.store.RequireDir(ctx, sourceDir); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("scan translations").
			WithResource(s.store.Path(sourceDir)).
			WithSuggestion("Check source_directory in " + reader.ConfigFile()).
			WithSuggestion("Pass --project to point at the Laravel project root").
			WithIssue(issue.SourceDirNotFoundId).
			Wrap(err).
			BuildError()
	}

	discoveries, scanDiags, err := s.scan(ctx, sourceDir, req.LockVendor)
	if err != nil {
		return nil, err
	}
	report.Diagnostics = append(report.Diagnostics, scanDiags...)
	discoveries = lock.Dedupe(discoveries)

	if len(discoveries) == 0 {
		report.Outcome = OutcomeNoDiscoveries
		return report, nil
	}

	report.MarkerKeyCount, report.VendorKeyCount = lock.CountKeys(discoveries)
	merged, delta := lock.Merge(prior, discoveries)
	report.Registry = merged
	report.Delta = delta
	report.Literal = merged.Literal(1)
	report.OutputPath = s.store.Path(s.outputFile(req))

	if delta.IsEmpty() {
		report.Outcome = OutcomeNothingToAdd
		return report, nil
	}
	if req.DryRun {
		report.Outcome = OutcomeDryRun
		return report, nil
	}
	if priorErr != nil {
		return nil, issue.NewErrorContext().
			WithOperation("merge locked keys").
			WithResource(s.store.Path(settings.ConfigFile)).
			WithSuggestion("Keep locked_keys and the array around it free of computed expressions").
			WithSuggestion("Preview the merge with --dry-run").
			WithIssue(issue.PriorRegistryUnreadableId).
			Wrap(priorErr).
			BuildError()
	}

	if err := s.persist(ctx, req, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) outputFile(req Request) string {
	if req.Format == config.FormatPHP {
		return req.ConfigFile
	}
	return req.OutputFile
}

// scan lists the scan units under sourceDir and runs them on the pool.
// Results are concatenated in directory order. Only a failure to list
// sourceDir itself is fatal.
func (s *Service) scan(ctx context.Context, sourceDir string, lockVendor bool) ([]lock.Discovery, []diag.Diagnostic, error) {
	units, diags, err := s.units(ctx, sourceDir, lockVendor)
	if err != nil {
		return nil, nil, err
	}

	results, err := workerpool.Map(ctx, s.pool, units, s.scanUnit)
	if err != nil {
		return nil, nil, err
	}

	var ds []lock.Discovery
	for _, r := range results {
		ds = append(ds, r.discoveries...)
		diags = append(diags, r.diagnostics...)
	}
	return ds, diags, nil
}

func (s *Service) units(ctx context.Context, sourceDir string, lockVendor bool) ([]scanUnit, []diag.Diagnostic, error) {
	locales, err := s.store.ListDirs(ctx, sourceDir)
	if err != nil {
		return nil, nil, err
	}

	var (
		units []scanUnit
		diags []diag.Diagnostic
	)
	for _, locale := range locales {
		if slices.Contains(skippedDirs, locale) {
			continue
		}
		if locale != vendorDir {
			units = append(units, scanUnit{dir: path.Join(sourceDir, locale), locale: locale})
			continue
		}
		if !lockVendor {
			continue
		}
		s.logger.Info("scanning vendor translations", "dir", s.store.Path(path.Join(sourceDir, vendorDir)))
		vendorUnits, vendorDiags := s.vendorUnits(ctx, path.Join(sourceDir, vendorDir))
		units = append(units, vendorUnits...)
		diags = append(diags, vendorDiags...)
	}
	return units, diags, nil
}

func (s *Service) vendorUnits(ctx context.Context, dir string) ([]scanUnit, []diag.Diagnostic) {
	pkgs, err := s.store.ListDirs(ctx, dir)
	if err != nil {
		return nil, []diag.Diagnostic{s.dirSkipped(dir, err)}
	}
	var (
		units []scanUnit
		diags []diag.Diagnostic
	)
	for _, pkg := range pkgs {
		locales, err := s.store.ListDirs(ctx, path.Join(dir, pkg))
		if err != nil {
			diags = append(diags, s.dirSkipped(path.Join(dir, pkg), err))
			continue
		}
		for _, locale := range locales {
			units = append(units, scanUnit{dir: path.Join(dir, pkg, locale), locale: locale, pkg: pkg})
		}
	}
	return units, diags
}

func (s *Service) dirSkipped(dir string, err error) diag.Diagnostic {
	return diag.Warning(diag.CodeUnreadableFile, s.store.Path(dir), "directory skipped", err)
}

func (s *Service) scanUnit(ctx context.Context, u scanUnit) (scanResult, error) {
	var res scanResult
	files, err := s.store.ListFiles(ctx, u.dir, phpExt)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.diagnostics = append(res.diagnostics, s.dirSkipped(u.dir, err))
		return res, nil
	}

	for _, name := range files {
		file := path.Join(u.dir, name)
		src, err := s.store.ReadFile(ctx, file)
		if err != nil {
			res.diagnostics = append(res.diagnostics, diag.Warning(diag.CodeUnreadableFile, s.store.Path(file), "file skipped", err))
			continue
		}

		base := strings.TrimSuffix(name, phpExt)
		var found []lock.Discovery
		if u.pkg == "" {
			found, err = lock.ScanAnnotations(base, string(src), u.locale)
		} else {
			found, err = s.lockVendorFile(u, base, src)
		}
		if err != nil {
			res.diagnostics = append(res.diagnostics, diag.Warning(diag.CodeMalformedTree, s.store.Path(file), "file skipped", err))
			continue
		}
		s.logger.Debug("scanned", "file", s.store.Path(file), "keys", len(found))
		res.discoveries = append(res.discoveries, found...)
	}
	return res, nil
}

// lockVendorFile loads a vendor translation file and locks all of its keys.
// A file that returns something other than an array locks nothing.
func (s *Service) lockVendorFile(u scanUnit, base string, src []byte) ([]lock.Discovery, error) {
	v, err := phparray.Parse(src)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(*phparray.Array); !ok {
		return nil, nil
	}
	if _, err := langtree.FromValue(v); err != nil {
		return nil, err
	}
	return lock.LockVendorTree(u.pkg, base, u.locale, v), nil
}
