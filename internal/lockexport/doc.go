// SPDX-License-Identifier: MPL-2.0

// Package lockexport implements the export-locked pipeline: scan a
// translation directory for @locked markers (and, on request, whole vendor
// packages), merge the findings into the registry persisted in the Laravel
// config, and write the result back in the requested format.
//
// The service never writes to the terminal. It returns a Report with counts,
// the merge delta, the outcome and any per-file diagnostics, which the
// command layer renders.
package lockexport
