// SPDX-License-Identifier: MPL-2.0

// Package console provides the configuration engine for console documents.
//
// A console document declares providers, pages and widgets that reference each
// other through pointers of the form "#/Console/<category>/<id>". This package
// turns such a loosely-typed document into a validated, reference-resolved and
// hydrated in-memory graph, and serializes the graph back to the document form.
//
// A document moves through the pipeline in a fixed order:
//
//	RAW → VALIDATED → RESOLVED (ids only) → HYDRATED
//
// Validate checks required properties and referential integrity, Parse flattens
// pointers into id lists (producing a Skeleton), and Hydrate resolves every
// widget and provider type through a SourceLoader (producing a Console).
// DeepParse runs all three phases and stops at the first failing one.
//
// Decoding documents from bytes (CUE, JSON, YAML, TOML) lives in pkg/cueutil;
// this package only operates on values already in memory.
package console
