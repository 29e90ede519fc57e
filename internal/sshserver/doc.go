// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the rendered pages of a console over SSH.
//
// Each session renders one page: the session command is the route, and an
// empty command renders "/". The console is loaded afresh for every session,
// so edits to a stored console show up on the next connection. Clients
// authenticate with the access token of the server as password.
package sshserver
