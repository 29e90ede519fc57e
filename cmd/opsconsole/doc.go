// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the opsconsole command line.
//
// Every command receives an *App, the composition root that owns the
// configuration provider, the type registry used for hydration and the
// store opener. Document commands (validate, parse, hydrate, export, render)
// work on files; page, widget, import and list work on the configured store.
package cmd
