// SPDX-License-Identifier: MPL-2.0

// Package consoletest builds console documents for tests.
//
// It is separate from testutil so that packages imported by pkg/console can
// still use testutil.
//
//	doc := consoletest.NewDocument("ops",
//		consoletest.WithWidget("W1", "Basic", "Overview", consoletest.Providers("P1")),
//		consoletest.WithProvider("P1", "Static", nil),
//		consoletest.WithPage("home", "/", "W1"),
//	)
package consoletest
