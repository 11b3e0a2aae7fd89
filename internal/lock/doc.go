// SPDX-License-Identifier: MPL-2.0

// Package lock derives and maintains the locked-key registry.
//
// Locked keys are found two ways: `@locked` annotations in translation files
// (ScanAnnotations) and whole vendor packages (LockVendorTree). Both produce
// Discovery values that Merge folds into a prior Registry, returning the new
// Registry and a Delta describing what was added.
//
// Merge must run on a single goroutine over the complete, ordered discovery
// list; scanning may run in parallel as long as results are concatenated in a
// deterministic order first.
package lock
