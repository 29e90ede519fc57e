// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "OPSCONSOLE_TESTUTIL_SET"
	restoreOuter := MustSetenv(t, key, "outer")
	defer restoreOuter()

	restore := MustSetenv(t, key, "inner")
	if got := os.Getenv(key); got != "inner" {
		t.Fatalf("Getenv = %q, want inner", got)
	}
	restore()
	if got := os.Getenv(key); got != "outer" {
		t.Errorf("after restore Getenv = %q, want outer", got)
	}
}

func TestMustSetenv_UnsetsWhenAbsent(t *testing.T) {
	const key = "OPSCONSOLE_TESTUTIL_ABSENT"
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}

	restore := MustSetenv(t, key, "x")
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s still set after restore", key)
	}
}

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "console.yaml")
	MustWriteFile(t, path, "name: ops\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "name: ops\n" {
		t.Errorf("content = %q", data)
	}
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestDeferClose(t *testing.T) {
	t.Parallel()

	for _, c := range []*closer{{}, {err: errors.New("already closed")}} {
		DeferClose(t, c)()
		if !c.closed {
			t.Errorf("Close not called for %+v", c)
		}
	}
}
