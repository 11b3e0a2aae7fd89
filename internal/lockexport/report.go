// SPDX-License-Identifier: MPL-2.0

package lockexport

import (
	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/configpatch"
	"github.com/langlock/langlock/internal/diag"
	"github.com/langlock/langlock/internal/lock"
)

const (
	// OutcomeNoDiscoveries means the scan found nothing to lock.
	OutcomeNoDiscoveries Outcome = "no_discoveries"
	// OutcomeNothingToAdd means every discovery was already registered.
	OutcomeNothingToAdd Outcome = "nothing_to_add"
	// OutcomeDryRun means new keys were found but nothing was written.
	OutcomeDryRun Outcome = "dry_run"
	// OutcomeWritten means the merged registry was persisted.
	OutcomeWritten Outcome = "written"
	// OutcomeAnchorNotFound means the config has no place to insert
	// locked_keys; nothing was written and Literal must be pasted by hand.
	OutcomeAnchorNotFound Outcome = "anchor_not_found"
)

type (
	// Outcome is how an export run ended.
	Outcome string

	// Request holds the inputs of one export run. Paths are relative to the
	// project store.
	Request struct {
		// SourceDirectory overrides source_directory from the Laravel config.
		SourceDirectory string
		// ConfigFile is the Laravel translator config.
		ConfigFile string
		// Format selects the writer.
		Format config.ExportFormat
		// OutputFile is the registry file for the json and yaml formats.
		OutputFile string
		// LockVendor locks every key of every vendor package.
		LockVendor bool
		// DryRun reports without writing.
		DryRun bool
	}

	// Report describes a finished export run.
	Report struct {
		// SourceDirectory is the scanned directory as shown to the user.
		SourceDirectory string
		LockVendor      bool
		// ExistingCount is the number of keys registered before the run.
		ExistingCount int
		// MarkerKeyCount and VendorKeyCount count distinct discovered keys.
		MarkerKeyCount int
		VendorKeyCount int
		// Delta lists what the merge added.
		Delta lock.Delta
		// Registry is the merged registry (the prior one when nothing was found).
		Registry *lock.Registry
		Outcome  Outcome
		Format   config.ExportFormat
		// OutputPath is the file written, or that would have been written.
		OutputPath string
		// PatchAction is set for the php format once the config was patched.
		PatchAction configpatch.Action
		// Literal is the merged registry as a PHP literal.
		Literal     string
		Diagnostics []diag.Diagnostic
	}
)

// TotalAfterMerge returns the number of registered keys after the run.
func (r *Report) TotalAfterMerge() int { return r.Registry.Len() }
