// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and a
// list of suggestions. Errors that need more than a line of guidance link to
// a catalog Issue, whose Markdown remediation is rendered with glamour.
package issue
