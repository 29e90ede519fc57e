// SPDX-License-Identifier: MPL-2.0

// Package dag orders nodes that depend on one another. It is used to render
// nested widgets children first.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError reports a dependency cycle. Cycle starts and ends with the
	// same node, e.g. [a b a].
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed dependency graph. Nodes are ordered by first insertion
	// so that Order is deterministic.
	Graph struct {
		deps    map[string][]string
		nodes   []string
		nodeSet map[string]struct{}
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

func New() *Graph {
	return &Graph{
		deps:    make(map[string][]string),
		nodeSet: make(map[string]struct{}),
	}
}

// AddNode adds node if it is not present yet.
func (g *Graph) AddNode(node string) {
	if _, ok := g.nodeSet[node]; ok {
		return
	}
	g.nodeSet[node] = struct{}{}
	g.nodes = append(g.nodes, node)
}

// AddDependency records that node needs dependsOn first. Both are added.
func (g *Graph) AddDependency(node, dependsOn string) {
	g.AddNode(node)
	g.AddNode(dependsOn)
	g.deps[node] = append(g.deps[node], dependsOn)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Order returns every node after all of its dependencies. Among nodes whose
// dependencies are met, insertion order wins. A cycle fails with CycleError.
func (g *Graph) Order() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	pending := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		for _, dep := range g.deps[node] {
			pending[node]++
			dependents[dep] = append(dependents[dep], node)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if pending[node] == 0 {
			queue = append(queue, node)
		}
	}
	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, next := range dependents[node] {
			pending[next]--
			if pending[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.findCycle(pending)}
	}
	return order, nil
}

// findCycle walks dependencies from the first node still pending until a node
// repeats; every pending node lies on or leads to a cycle.
func (g *Graph) findCycle(pending map[string]int) []string {
	var start string
	for _, node := range g.nodes {
		if pending[node] > 0 {
			start = node
			break
		}
	}
	seen := make(map[string]int)
	var path []string
	for node := start; ; {
		if i, ok := seen[node]; ok {
			return append(path[i:], node)
		}
		seen[node] = len(path)
		path = append(path, node)
		for _, dep := range g.deps[node] {
			if pending[dep] > 0 {
				node = dep
				break
			}
		}
	}
}
