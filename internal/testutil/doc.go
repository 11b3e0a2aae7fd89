// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test on
// error instead of returning it.
//
// Helpers cover directory layout (MustMkdirAll, MustWriteFile, WriteTree),
// reading results back (MustReadFile) and resource cleanup (MustClose).
package testutil
