// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes and encodes documents through CUE.
//
// Typed configuration goes through ParseAndDecode, which unifies the input
// with an embedded schema and decodes the result into a Go struct:
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](schemaBytes, data, "#Config",
//	    cueutil.WithFilename("config.cue"))
//
// Loosely-typed documents go through DecodeDocument and EncodeDocument, which
// accept and produce CUE, JSON, YAML and TOML. Every error carries the file name
// and, when CUE knows it, the JSON path of the offending value.
package cueutil
