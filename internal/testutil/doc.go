// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test instead of returning
// an error. Console fixtures live in the consoletest subpackage.
package testutil
