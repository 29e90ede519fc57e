// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "cue", want: FormatCUE},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: " toml ", want: FormatTOML},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("error should wrap ErrInvalidFormat, got: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"console.cue":       FormatCUE,
		"console.json":      FormatJSON,
		"dir/console.yml":   FormatYAML,
		"dir/console.YAML":  FormatYAML,
		"console.toml":      FormatTOML,
		"console":           FormatCUE,
		"console.unknown":   FormatCUE,
		"/tmp/a.b/console.": FormatCUE,
	}
	for name, want := range tests {
		if got := FormatFromFilename(name); got != want {
			t.Errorf("FormatFromFilename(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{
			name:   "cue",
			format: FormatCUE,
			data: `
name: "c"
pages: pg1: {route: "/r", widgets: [{"$ref": "#/Console/widgets/W1"}]}
`,
		},
		{
			name:   "json",
			format: FormatJSON,
			data:   `{"name": "c", "pages": {"pg1": {"route": "/r", "widgets": [{"$ref": "#/Console/widgets/W1"}]}}}`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			data: `
name: c
pages:
  pg1:
    route: /r
    widgets:
      - $ref: "#/Console/widgets/W1"
`,
		},
		{
			name:   "toml",
			format: FormatTOML,
			data: `
name = "c"

[pages.pg1]
route = "/r"
widgets = [{ "$ref" = "#/Console/widgets/W1" }]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := DecodeDocument([]byte(tt.data), WithFormat(tt.format), WithFilename("console."+tt.name))
			if err != nil {
				t.Fatalf("DecodeDocument() error = %v", err)
			}
			if doc["name"] != "c" {
				t.Errorf("name = %v, want c", doc["name"])
			}
			pages, ok := doc["pages"].(map[string]any)
			if !ok {
				t.Fatalf("pages has type %T", doc["pages"])
			}
			pg1, ok := pages["pg1"].(map[string]any)
			if !ok {
				t.Fatalf("pages.pg1 has type %T", pages["pg1"])
			}
			if pg1["route"] != "/r" {
				t.Errorf("route = %v, want /r", pg1["route"])
			}
			widgets, ok := pg1["widgets"].([]any)
			if !ok || len(widgets) != 1 {
				t.Fatalf("widgets = %#v", pg1["widgets"])
			}
			ref, ok := widgets[0].(map[string]any)
			if !ok || ref["$ref"] != "#/Console/widgets/W1" {
				t.Errorf("widgets[0] = %#v", widgets[0])
			}
		})
	}
}

func TestDecodeDocument_Errors(t *testing.T) {
	t.Parallel()

	schema := []byte(`#Doc: {name?: string | null, ...}`)

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantSub string
	}{
		{
			name:    "top level list",
			data:    "- a\n- b\n",
			opts:    []Option{WithFormat(FormatYAML), WithFilename("list.yaml")},
			wantSub: "list.yaml",
		},
		{
			name:    "cue syntax error",
			data:    "name: {",
			opts:    []Option{WithFilename("broken.cue")},
			wantSub: "broken.cue",
		},
		{
			name:    "schema shape error names the path",
			data:    `{"name": 1}`,
			opts:    []Option{WithFormat(FormatJSON), WithFilename("bad.json"), WithSchema(schema, "#Doc")},
			wantSub: "name",
		},
		{
			name:    "invalid toml",
			data:    "name = ",
			opts:    []Option{WithFormat(FormatTOML), WithFilename("bad.toml")},
			wantSub: "bad.toml",
		},
		{
			name:    "unknown format",
			data:    "{}",
			opts:    []Option{WithFormat(Format("xml"))},
			wantSub: "xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeDocument([]byte(tt.data), tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestDecodeDocument_SchemaAllowsNull(t *testing.T) {
	t.Parallel()

	schema := []byte(`#Doc: {name?: string | null, ...}`)
	doc, err := DecodeDocument([]byte(`{"name": null, "extra": true}`),
		WithFormat(FormatJSON), WithSchema(schema, "#Doc"))
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}
	if v, ok := doc["name"]; !ok || v != nil {
		t.Errorf("name = %#v, present %v; want explicit nil", v, ok)
	}
	if doc["extra"] != true {
		t.Errorf("extra = %#v, want true", doc["extra"])
	}
}

func TestEncodeDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"name": "c",
		"pages": map[string]any{
			"pg1": map[string]any{
				"route":   "/r",
				"widgets": []any{map[string]any{"$ref": "#/Console/widgets/W1"}},
			},
		},
	}

	for _, format := range []Format{FormatCUE, FormatJSON, FormatYAML, FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()

			data, err := EncodeDocument(doc, format)
			if err != nil {
				t.Fatalf("EncodeDocument() error = %v", err)
			}
			if !strings.Contains(string(data), "#/Console/widgets/W1") {
				t.Errorf("output lacks the pointer:\n%s", data)
			}
			back, err := DecodeDocument(data, WithFormat(format))
			if err != nil {
				t.Fatalf("DecodeDocument() error = %v\n%s", err, data)
			}
			pg1 := back["pages"].(map[string]any)["pg1"].(map[string]any)
			if back["name"] != "c" || pg1["route"] != "/r" {
				t.Errorf("round trip lost values: %#v", back)
			}
		})
	}
}

func TestEncodeDocument_UnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := EncodeDocument(map[string]any{}, Format("xml")); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
