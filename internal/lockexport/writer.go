// SPDX-License-Identifier: MPL-2.0

package lockexport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/configpatch"
	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/internal/lock"
	"github.com/langlock/langlock/internal/storage"
)

// persist writes report.Registry in req.Format and sets the outcome.
func (s *Service) persist(ctx context.Context, req Request, report *Report) error {
	var (
		data []byte
		err  error
	)
	switch req.Format {
	case config.FormatJSON:
		data, err = EncodeJSON(report.Registry)
	case config.FormatYAML:
		data, err = EncodeYAML(report.Registry)
	default:
		return s.patchConfig(ctx, req, report)
	}
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err := s.store.WriteFile(ctx, req.OutputFile, data); err != nil {
		return writeFailed(report.OutputPath, err)
	}
	report.Outcome = OutcomeWritten
	s.logger.Info("registry written", "path", report.OutputPath, "keys", report.Registry.Len())
	return nil
}

func (s *Service) patchConfig(ctx context.Context, req Request, report *Report) error {
	src, err := s.store.ReadFile(ctx, req.ConfigFile)
	if errors.Is(err, storage.ErrNotFound) {
		return issue.NewErrorContext().
			WithOperation("update translator config").
			WithResource(report.OutputPath).
			WithSuggestion("Publish the translator config first, or use --format json").
			WithIssue(issue.ConfigFileNotFoundId).
			Wrap(err).
			BuildError()
	}
	if err != nil {
		return writeFailed(report.OutputPath, err)
	}

	res, err := configpatch.Patch(src, report.Literal)
	report.PatchAction = res.Action
	if errors.Is(err, configpatch.ErrAnchorNotFound) {
		report.Outcome = OutcomeAnchorNotFound
		return nil
	}
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("update translator config").
			WithResource(report.OutputPath).
			WithSuggestion("Remove duplicate locked_keys entries").
			WithSuggestion("Make sure locked_keys is an array literal").
			WithIssue(issue.ConfigPatchFailedId).
			Wrap(err).
			BuildError()
	}

	if err := s.store.WriteFile(ctx, req.ConfigFile, res.Source); err != nil {
		return writeFailed(report.OutputPath, err)
	}
	report.Outcome = OutcomeWritten
	s.logger.Info("config updated", "path", report.OutputPath, "action", string(res.Action), "line", res.Line)
	return nil
}

func writeFailed(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("write registry").
		WithResource(path).
		WithSuggestion("Check that the file and its directory are writable").
		WithIssue(issue.RegistryWriteFailedId).
		Wrap(err).
		BuildError()
}

// EncodeJSON renders r as a four-space indented JSON object in registry
// order. Non-ASCII text is written as is.
func EncodeJSON(r *lock.Registry) ([]byte, error) {
	raw, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// EncodeYAML renders r as a YAML mapping in registry order.
func EncodeYAML(r *lock.Registry) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
