// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable, user-facing errors and the Markdown
// guides shown for each kind of console failure.
package issue
