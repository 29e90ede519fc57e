// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueformat "cuelang.org/go/cue/format"
	cuejson "cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/yaml"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE is CUE source.
	FormatCUE Format = "cue"
	// FormatJSON is JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML.
	FormatTOML Format = "toml"
)

// ErrInvalidFormat is returned when a format name is not recognized.
var ErrInvalidFormat = errors.New("invalid document format")

type (
	// Format names a document encoding.
	Format string

	// InvalidFormatError is returned by ParseFormat for an unknown name.
	InvalidFormatError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid document format %q (valid: cue, json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidFormat.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// String returns the format name.
func (f Format) String() string { return string(f) }

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatCUE, FormatJSON, FormatYAML, FormatTOML:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "yml" {
		return FormatYAML, nil
	}
	f := Format(name)
	if !f.IsValid() {
		return "", &InvalidFormatError{Value: s}
	}
	return f, nil
}

// FormatFromFilename picks a format from the extension of name.
// Unknown or missing extensions are treated as CUE.
func FormatFromFilename(name string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	if err != nil {
		return FormatCUE
	}
	return f
}

// DecodeDocument decodes data into a generic object. The input must be an
// object at the top level; nulls are kept as nil values.
func DecodeDocument(data []byte, opts ...Option) (map[string]any, error) {
	options := applyOptions(opts)
	filename := options.displayName()

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	v, err := compileDocument(ctx, data, options.format, filename)
	if err != nil {
		return nil, err
	}
	if options.schema != nil {
		if v, err = unifyWithSchema(ctx, options.schema, options.schemaPath, v); err != nil {
			return nil, err
		}
	}
	if err := validate(v, options.concrete, filename); err != nil {
		return nil, err
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, &ValidationError{FilePath: filename, Message: "document must be an object"}
	}

	var out map[string]any
	if err := v.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func compileDocument(ctx *cue.Context, data []byte, format Format, filename string) (cue.Value, error) {
	var v cue.Value
	switch format {
	case FormatCUE:
		v = ctx.CompileBytes(data, cue.Filename(filename))
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return ctx.CompileString("{}"), nil
		}
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v = ctx.BuildExpr(expr)
	case FormatYAML:
		f, err := yaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v = ctx.BuildFile(f)
	case FormatTOML:
		m := map[string]any{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return cue.Value{}, &ValidationError{FilePath: filename, Message: err.Error()}
		}
		v = ctx.Encode(m)
	default:
		return cue.Value{}, &InvalidFormatError{Value: string(format)}
	}
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), filename)
	}
	return v, nil
}

// EncodeDocument renders doc in format. Object keys are written in sorted order.
// TOML cannot represent null values; encoding a document holding one fails.
func EncodeDocument(doc map[string]any, format Format) ([]byte, error) {
	if format == FormatTOML {
		return toml.Marshal(doc)
	}

	v := cuecontext.New().Encode(doc)
	if v.Err() != nil {
		return nil, fmt.Errorf("encode document: %w", v.Err())
	}
	switch format {
	case FormatJSON:
		data, err := v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Encode(v)
	case FormatCUE:
		data, err := cueformat.Node(v.Syntax(cue.Final(), cue.Concrete(true)))
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, &InvalidFormatError{Value: string(format)}
	}
}
