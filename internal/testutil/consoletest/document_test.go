// SPDX-License-Identifier: MPL-2.0

package consoletest

import (
	"context"
	"testing"

	"github.com/invowk/opsconsole/pkg/builtin"
	"github.com/invowk/opsconsole/pkg/console"
)

func TestSample_DeepParses(t *testing.T) {
	t.Parallel()

	c, err := console.DeepParse(context.Background(), Sample(), console.HydrateOptions{Loader: builtin.NewRegistry()})
	if err != nil {
		t.Fatalf("DeepParse(Sample()) error = %v", err)
	}
	if got := c.WidgetIDs(); len(got) != 3 {
		t.Errorf("WidgetIDs() = %v, want 3 widgets", got)
	}
	if p, ok := c.PageByRoute("/docs"); !ok || p.ID != "docs" {
		t.Errorf("PageByRoute(/docs) = %+v, %v", p, ok)
	}
}

func TestNewDocument_Empty(t *testing.T) {
	t.Parallel()

	if err := console.Validate(NewDocument("empty")); err != nil {
		t.Errorf("Validate(NewDocument) error = %v", err)
	}
}
