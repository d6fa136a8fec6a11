package cpm

import "github.com/slok/critroute/internal/model"

// Node wraps a task with its dependency edges.
//
// Parents and Children hold task numbers, the graph that owns the node
// resolves them, nodes never point to each other directly.
type Node struct {
	Task     *model.Task
	Parents  []int
	Children []int
}

func newNode(t *model.Task) *Node {
	return &Node{Task: t, Parents: []int{}, Children: []int{}}
}
