// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the
// file format.
//
// Configuration is read from config.cue in the user configuration directory
// (or the working directory), validated against an embedded CUE schema, and
// overridden by OPSCONSOLE_* environment variables.
package config
