// SPDX-License-Identifier: MPL-2.0

// Package builtin provides the widget and provider implementations shipped
// with opsconsole. They are registered under the source locator "builtin":
//
//	dependencies: {
//		Basic:    "builtin"
//		Markdown: "builtin"
//		Static:   "builtin"
//	}
package builtin

import (
	"github.com/invowk/opsconsole/pkg/console"
)

// Locator is the source locator the built-in types are registered under.
const Locator = "builtin"

// Widget type names.
const (
	TypeBasic    = "Basic"
	TypeMarkdown = "Markdown"
	TypePanel    = "Panel"
)

// Provider type names.
const (
	TypeStatic  = "Static"
	TypeEnv     = "Env"
	TypeCommand = "Command"
)

// Register adds the built-in types to reg under Locator.
func Register(reg *console.Registry) *console.Module {
	return reg.Register(Locator).
		Widget(TypeBasic, newBasic).
		Widget(TypeMarkdown, newMarkdown).
		Widget(TypePanel, newPanel).
		Provider(TypeStatic, newStatic).
		Provider(TypeEnv, newEnv).
		Provider(TypeCommand, newCommand)
}

// NewRegistry returns a registry holding only the built-in types.
func NewRegistry() *console.Registry {
	reg := console.NewRegistry()
	Register(reg)
	return reg
}

// Dependencies returns a dependencies map binding every built-in type to Locator.
func Dependencies() map[string]string {
	deps := make(map[string]string)
	for _, name := range []string{TypeBasic, TypeMarkdown, TypePanel, TypeStatic, TypeEnv, TypeCommand} {
		deps[name] = Locator
	}
	return deps
}
