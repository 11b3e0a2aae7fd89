// SPDX-License-Identifier: MPL-2.0

package sourcegen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/langlock/langlock/internal/diag"
	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/internal/laravel"
	"github.com/langlock/langlock/internal/storage"
	"github.com/langlock/langlock/internal/synth"
	"github.com/langlock/langlock/internal/workerpool"
	"github.com/langlock/langlock/pkg/langtree"
	"github.com/langlock/langlock/pkg/phparray"
)

const (
	vendorDir = "vendor"
	phpExt    = ".php"
)

type (
	// Service runs generate-source against one project store.
	Service struct {
		store     *storage.Store
		pool      *workerpool.Pool
		logger    *slog.Logger
		lookupEnv func(string) (string, bool)
	}

	// Option configures a Service.
	Option func(*Service)
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

// NewService creates a generate-source service. The pool is shared and not
// released by the service.
func NewService(store *storage.Store, pool *workerpool.Pool, opts ...Option) *Service {
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

// Generate synthesizes missing source-locale files for the selected vendor
// packages. Per-file failures are recorded in the report and do not stop the
// run; the caller decides the exit code from Report.Failed.
func (s *Service) Generate(ctx context.Context, req Request) (*Report, error) {
	matchers, err := compilePatterns(req.Packages)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select vendor packages").
			WithSuggestion("Use shell-style patterns such as 'mail*' or 'filament-{forms,tables}'").
			Wrap(err).
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
	vendor := path.Join(sourceDir, vendorDir)
	report := &Report{
		VendorDirectory: s.store.Path(vendor),
		SourceLocale:    req.SourceLocale,
		DryRun:          req.DryRun,
		Diagnostics:     diags,
	}

	if err := s.store.RequireDir(ctx, vendor); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("scan vendor packages").
			WithResource(report.VendorDirectory).
			WithSuggestion("Publish the vendor package translations first").
			WithSuggestion("Check source_directory in " + reader.ConfigFile()).
			WithIssue(issue.VendorDirNotFoundId).
			Wrap(err).
			BuildError()
	}

	pkgs, err := s.store.ListDirs(ctx, vendor)
	if err != nil {
		return nil, err
	}
	pkgs = slices.DeleteFunc(pkgs, func(p string) bool { return !matchesAny(matchers, p) })

	report.Packages, err = workerpool.Map(ctx, s.pool, pkgs, func(ctx context.Context, pkg string) (PackageReport, error) {
		return s.generatePackage(ctx, req, path.Join(vendor, pkg), pkg)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) generatePackage(ctx context.Context, req Request, dir, pkg string) (PackageReport, error) {
	pr := PackageReport{Package: pkg}

	locales, err := s.store.ListDirs(ctx, dir)
	if err != nil {
		return pr, err
	}
	if slices.Contains(locales, req.SourceLocale) && !req.Force {
		pr.Status = StatusSourceExists
		return pr, nil
	}

	switch {
	case req.Reference != "":
		if !slices.Contains(locales, req.Reference) {
			pr.Status = StatusReferenceMissing
			pr.Reference = req.Reference
			return pr, nil
		}
		pr.Reference = req.Reference
	default:
		i := slices.IndexFunc(locales, func(l string) bool { return l != req.SourceLocale })
		if i < 0 {
			pr.Status = StatusNoLocales
			return pr, nil
		}
		pr.Reference = locales[i]
	}

	refDir := path.Join(dir, pr.Reference)
	files, err := s.store.ListFiles(ctx, refDir, phpExt)
	if err != nil {
		return pr, err
	}
	if len(files) == 0 {
		pr.Status = StatusNoFiles
		return pr, nil
	}

	pr.Status = StatusGenerated
	s.logger.Info("generating source locale", "package", pkg, "locale", req.SourceLocale, "reference", pr.Reference)
	for _, name := range files {
		pr.Files = append(pr.Files, s.generateFile(ctx, req, path.Join(refDir, name), path.Join(dir, req.SourceLocale, name), name))
	}
	return pr, nil
}

func (s *Service) generateFile(ctx context.Context, req Request, refFile, target, name string) FileResult {
	fail := func(code diag.Code, file, msg string, err error) FileResult {
		d := diag.Failure(code, s.store.Path(file), msg, err)
		s.logger.Warn(msg, "file", d.Path, "error", err)
		return FileResult{Name: name, Failure: &d}
	}

	src, err := s.store.ReadFile(ctx, refFile)
	if err != nil {
		return fail(diag.CodeUnreadableFile, refFile, "reference file could not be read", err)
	}
	v, err := phparray.Parse(src)
	if err != nil {
		return fail(diag.CodeMalformedTree, refFile, "invalid translation file format", err)
	}
	ref, err := langtree.FromValue(v)
	if err != nil {
		return fail(diag.CodeMalformedTree, refFile, "invalid translation file format", err)
	}
	out, err := synth.Synthesize(ref)
	if err != nil {
		return fail(diag.CodeSynthesisFailed, refFile, "keys could not be synthesized", err)
	}

	res := FileResult{Name: name, Keys: out.CountLeaves()}
	if req.DryRun {
		return res
	}
	if err := s.store.WriteFile(ctx, target, synth.RenderSourceFile(out)); err != nil {
		return fail(diag.CodeWriteFailed, target, "source file could not be written", err)
	}
	s.logger.Debug("source file written", "file", s.store.Path(target), "keys", res.Keys)
	return res
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid package pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchesAny(matchers []glob.Glob, name string) bool {
	if len(matchers) == 0 {
		return true
	}
	for _, g := range matchers {
		if g.Match(name) {
			return true
		}
	}
	return false
}
