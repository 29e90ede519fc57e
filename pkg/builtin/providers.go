// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/opsconsole/pkg/console"
)

// ErrMissingVariable is returned by Env.Credentials when a listed variable is unset.
var ErrMissingVariable = errors.New("environment variable not set")

type (
	// Static hands out the fixed string values of its "values" property.
	Static struct {
		console.BaseProvider
		values console.Credentials
	}

	// Env hands out the environment variables named in its "variables" property.
	Env struct {
		console.BaseProvider
		variables []string
		lookup    func(string) (string, bool)
	}

	// Command runs the shell script of its "command" property in an embedded
	// POSIX shell and hands out the KEY=VALUE lines it prints.
	Command struct {
		console.BaseProvider
		script *syntax.File
		env    []string
	}
)

func newStatic(spec console.ProviderSpec) (console.Provider, error) {
	values := console.Credentials{}
	raw, err := optionalObject(spec, "values")
	if err != nil {
		return nil, err
	}
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, invalidConfig(spec, "values."+k, "a string")
		}
		values[k] = s
	}
	return &Static{BaseProvider: console.NewBaseProvider(spec), values: values}, nil
}

// Connect always succeeds.
func (p *Static) Connect(context.Context) error { return nil }

// Credentials returns a copy of the configured values.
func (p *Static) Credentials(context.Context) (console.Credentials, error) {
	out := make(console.Credentials, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out, nil
}

func newEnv(spec console.ProviderSpec) (console.Provider, error) {
	items, ok := spec.Config.List("variables")
	if !ok && spec.Config.Has("variables") {
		return nil, invalidConfig(spec, "variables", "a list of strings")
	}
	vars := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok || name == "" {
			return nil, invalidConfig(spec, "variables", "a list of strings")
		}
		vars = append(vars, name)
	}
	return &Env{BaseProvider: console.NewBaseProvider(spec), variables: vars, lookup: os.LookupEnv}, nil
}

// Connect checks that every variable is set.
func (p *Env) Connect(ctx context.Context) error {
	_, err := p.Credentials(ctx)
	return err
}

// Credentials reads the variables from the process environment.
func (p *Env) Credentials(context.Context) (console.Credentials, error) {
	out := make(console.Credentials, len(p.variables))
	for _, name := range p.variables {
		v, ok := p.lookup(name)
		if !ok {
			return nil, fmt.Errorf("provider %s: %w: %s", p.ID(), ErrMissingVariable, name)
		}
		out[name] = v
	}
	return out, nil
}

func newCommand(spec console.ProviderSpec) (console.Provider, error) {
	if err := console.ValidateRequiredFields(spec.Record(), []string{"command"}, console.KindProvider); err != nil {
		return nil, err
	}
	src, ok := spec.Config.String("command")
	if !ok {
		return nil, invalidConfig(spec, "command", "a string")
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(src), spec.ID)
	if err != nil {
		return nil, fmt.Errorf("provider %s: command syntax error: %w", spec.ID, err)
	}
	return &Command{BaseProvider: console.NewBaseProvider(spec), script: file, env: os.Environ()}, nil
}

// Connect always succeeds; the script was parsed at hydration.
func (p *Command) Connect(context.Context) error { return nil }

// Credentials runs the script and parses its standard output. Lines that do
// not contain "=" are ignored.
func (p *Command) Credentials(ctx context.Context) (console.Credentials, error) {
	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(p.env...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("provider %s: failed to create interpreter: %w", p.ID(), err)
	}
	if err := runner.Run(ctx, p.script); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return nil, fmt.Errorf("provider %s: command exited with status %d: %s",
				p.ID(), uint8(status), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("provider %s: command failed: %w", p.ID(), err)
	}

	out := console.Credentials{}
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, scanner.Err()
}

func optionalObject(spec console.ProviderSpec, name string) (console.Record, error) {
	if !spec.Config.Has(name) {
		return nil, nil
	}
	m, ok := spec.Config.Map(name)
	if !ok {
		return nil, invalidConfig(spec, name, "an object")
	}
	return m, nil
}

func invalidConfig(spec console.ProviderSpec, property, expected string) error {
	return &console.InvalidPropertyError{
		Property: property,
		Kind:     console.KindProvider,
		Expected: expected,
		Object:   spec.Record().Render(),
	}
}
