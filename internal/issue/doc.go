// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the operation, the offending path and remediation
// hints; catalog issues add Markdown-formatted guidance rendered with glamour.
package issue
