// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"

	"github.com/invowk/opsconsole/pkg/console"
)

// ConsoleStore is the part of a store the clients need.
type ConsoleStore interface {
	Get(ctx context.Context, name string) (*console.Console, error)
	Save(ctx context.Context, c *console.Console) (*console.Console, error)
}
