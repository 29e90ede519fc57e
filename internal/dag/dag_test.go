// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

type dep struct{ node, on string }

func TestOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		nodes []string
		deps  []dep
		want  []string
	}{
		{name: "empty", want: nil},
		{name: "single", nodes: []string{"A"}, want: []string{"A"}},
		{
			name: "chain",
			deps: []dep{{"panel", "group"}, {"group", "chart"}},
			want: []string{"chart", "group", "panel"},
		},
		{
			name: "diamond",
			deps: []dep{{"D", "B"}, {"D", "C"}, {"B", "A"}, {"C", "A"}},
			want: []string{"A", "B", "C", "D"},
		},
		{
			name:  "independent keep insertion order",
			nodes: []string{"z", "a", "m"},
			want:  []string{"z", "a", "m"},
		},
		{
			name:  "shared child ordered once",
			nodes: []string{"left", "right"},
			deps:  []dep{{"left", "shared"}, {"right", "shared"}},
			want:  []string{"shared", "left", "right"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, d := range tt.deps {
				g.AddDependency(d.node, d.on)
			}
			got, err := g.Order()
			if err != nil {
				t.Fatalf("Order() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Order() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		deps []dep
		want []string
	}{
		{name: "self", deps: []dep{{"A", "A"}}, want: []string{"A", "A"}},
		{name: "pair", deps: []dep{{"A", "B"}, {"B", "A"}}, want: []string{"A", "B", "A"}},
		{
			name: "cycle behind a tail",
			deps: []dep{{"root", "x"}, {"x", "y"}, {"y", "x"}},
			want: []string{"x", "y", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, d := range tt.deps {
				g.AddDependency(d.node, d.on)
			}
			_, err := g.Order()
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("Order() error = %v, want ErrCycle", err)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("Order() error = %T, want *CycleError", err)
			}
			if !slices.Equal(cycleErr.Cycle, tt.want) {
				t.Errorf("Cycle = %v, want %v", cycleErr.Cycle, tt.want)
			}
		})
	}
}

func TestAddNode_Idempotent(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A")
	g.AddNode("A")
	g.AddDependency("A", "B")
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}
