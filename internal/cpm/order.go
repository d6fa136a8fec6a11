package cpm

import (
	"fmt"

	"github.com/slok/critroute/internal/model"
)

// topoOrder returns the registered task numbers so every task comes after all
// its parents (Kahn's algorithm). Ties keep the registration order, so graphs
// registered parent first get their registration order back.
func (g *Graph) topoOrder() ([]int, error) {
	inDegree := make(map[int]int, len(g.nodes))
	var queue []int
	for _, n := range g.order {
		inDegree[n] = len(g.nodes[n].Parents)
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]int, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		for _, child := range g.nodes[n].Children {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("%d of %d tasks could be ordered: %w", len(order), len(g.nodes), model.ErrCyclicGraph)
	}

	return order, nil
}
