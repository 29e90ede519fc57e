// SPDX-License-Identifier: MPL-2.0

// Package client edits the pages and widgets of stored consoles.
//
// Every mutation loads the console, applies the change, saves it, and returns
// the entity as read back from the saved console. Creating an entity whose key
// is taken fails with a *console.ConflictError; touching an absent one fails
// with a *console.NotFoundError. Store errors are returned unchanged.
package client
