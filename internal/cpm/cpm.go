package cpm

import (
	"fmt"
	"sort"

	"github.com/slok/critroute/internal/model"
)

const (
	// StartTaskNumber is the number of the synthetic task every root depends on.
	StartTaskNumber = 0
	// StartTaskLabel is the label of the synthetic start task.
	StartTaskLabel = "Inicio"
	// EndTaskLabel is the label of the synthetic task that depends on every leaf.
	EndTaskLabel = "Final"
)

// Engine computes the critical path of a single project.
//
// Engines are one-shot: configure, register tasks, connect them, compute once
// and read the results. They are not safe for concurrent use.
type Engine interface {
	SetProjectConfig(cfg model.ProjectConfig) error
	AddTask(t *model.Task) error
	ConnectTasks(parent, child int) error
	ComputeCPM() error
	FindCriticalPath() []*model.Task
	GetNodes() []*Node
}

type state int

const (
	stateBuilding state = iota
	stateComputed
	stateFinalized
)

// Graph is the CPM engine, it keeps the nodes indexed by task number.
type Graph struct {
	cfg   *model.ProjectConfig
	nodes map[int]*Node
	// order is the registration order of the nodes map.
	order []int
	start *Node
	end   *Node
	state state
}

var _ Engine = &Graph{}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	start := newNode(model.NewEmptyTask())
	start.Task.Number = StartTaskNumber
	start.Task.Label = StartTaskLabel

	return &Graph{
		nodes: map[int]*Node{},
		start: start,
		end:   newNode(model.NewEmptyTask()),
	}
}

// NewEngine returns a new graph as an Engine.
func NewEngine() Engine { return NewGraph() }

// SetProjectConfig sets the configuration used to round and date the tasks.
// It must be called before registering tasks.
func (g *Graph) SetProjectConfig(cfg model.ProjectConfig) error {
	if g.state != stateBuilding {
		return model.ErrAlreadyComputed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid project config: %w", err)
	}

	g.cfg = &cfg
	return nil
}

// AddTask computes the task duration and registers it.
func (g *Graph) AddTask(t *model.Task) error {
	if t == nil {
		return fmt.Errorf("task is required: %w", model.ErrNotValid)
	}
	if g.state != stateBuilding {
		return model.ErrAlreadyComputed
	}
	if g.cfg == nil {
		return model.ErrNoProjectConfig
	}
	if t.Number <= StartTaskNumber {
		return fmt.Errorf("task number must be positive, got %d: %w", t.Number, model.ErrNotValid)
	}

	t.Decimals = g.cfg.Decimals
	t.ComputeDuration()

	if _, ok := g.nodes[t.Number]; ok {
		return fmt.Errorf("task %d: %w", t.Number, model.ErrDuplicateTask)
	}

	g.nodes[t.Number] = newNode(t)
	g.order = append(g.order, t.Number)
	return nil
}

// ConnectTasks makes child depend on parent.
func (g *Graph) ConnectTasks(parent, child int) error {
	if g.state != stateBuilding {
		return model.ErrAlreadyComputed
	}

	p, ok := g.nodes[parent]
	if !ok {
		return fmt.Errorf("parent task %d: %w", parent, model.ErrMissingTask)
	}
	c, ok := g.nodes[child]
	if !ok {
		return fmt.Errorf("child task %d: %w", child, model.ErrMissingTask)
	}

	p.Children = append(p.Children, child)
	c.Parents = append(c.Parents, parent)
	return nil
}

// ComputeCPM runs the full critical path computation: links the roots to the
// start task, computes the early times, links the leaves to the end task,
// computes the late times and slack, and resolves the calendar dates.
func (g *Graph) ComputeCPM() error {
	if g.state != stateBuilding {
		return model.ErrAlreadyComputed
	}
	if len(g.nodes) == 0 {
		return model.ErrEmptyGraph
	}
	if g.cfg == nil {
		return model.ErrNoProjectConfig
	}

	order, err := g.topoOrder()
	if err != nil {
		return err
	}

	g.linkStart()
	g.forwardPass(order)
	g.linkEnd()
	g.backwardPass(order)
	g.resolveDates()

	g.state = stateComputed
	return nil
}

// FindCriticalPath returns the tasks without slack in registration order.
func (g *Graph) FindCriticalPath() []*model.Task {
	var path []*model.Task
	for _, n := range g.order {
		t := g.nodes[n].Task
		if t.IsCritical() {
			path = append(path, t)
		}
	}
	return path
}

// GetNodes returns the nodes sorted by task number. Once computed, the
// synthetic start and end nodes are included.
func (g *Graph) GetNodes() []*Node {
	if g.state == stateComputed {
		g.finalize()
	}

	numbers := make([]int, 0, len(g.nodes))
	for n := range g.nodes {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	nodes := make([]*Node, 0, len(numbers))
	for _, n := range numbers {
		nodes = append(nodes, g.nodes[n])
	}
	return nodes
}

// finalize attaches the project settings to the synthetic tasks and adds them to the nodes.
func (g *Graph) finalize() {
	for _, n := range []*Node{g.start, g.end} {
		n.Task.Decimals = g.cfg.Decimals
		g.resolveTaskDates(n.Task)
		g.nodes[n.Task.Number] = n
		g.order = append(g.order, n.Task.Number)
	}
	g.state = stateFinalized
}

func (g *Graph) node(number int) *Node {
	if n, ok := g.nodes[number]; ok {
		return n
	}
	switch number {
	case g.start.Task.Number:
		return g.start
	case g.end.Task.Number:
		return g.end
	}
	return nil
}

func (g *Graph) round(v float64) float64 { return model.Round(v, g.cfg.Decimals) }

func (g *Graph) linkStart() {
	for _, n := range g.order {
		node := g.nodes[n]
		if len(node.Parents) > 0 {
			continue
		}
		node.Parents = append([]int{g.start.Task.Number}, node.Parents...)
		g.start.Children = append(g.start.Children, n)
	}
}

func (g *Graph) forwardPass(order []int) {
	for _, n := range order {
		t := g.nodes[n].Task
		t.EarlyStart = 0
		if parents := g.nodes[n].Parents; len(parents) > 0 {
			t.EarlyStart = g.round(g.maxEarlyFinish(parents))
		}
		t.EarlyFinish = g.round(t.EarlyStart + t.Duration)
	}
}

func (g *Graph) linkEnd() {
	maxNumber := 0
	for n := range g.nodes {
		if n > maxNumber {
			maxNumber = n
		}
	}

	end := g.end.Task
	end.Number = maxNumber + 1
	end.Label = EndTaskLabel

	for _, n := range g.order {
		node := g.nodes[n]
		if len(node.Children) > 0 {
			continue
		}
		node.Children = append(node.Children, end.Number)
		g.end.Parents = append(g.end.Parents, n)
	}

	end.EarlyStart = g.round(g.maxEarlyFinish(g.end.Parents))
	end.EarlyFinish = end.EarlyStart
}

func (g *Graph) backwardPass(order []int) {
	end := g.end.Task
	end.LateFinish = g.round(end.EarlyFinish)
	end.LateStart = end.LateFinish
	end.Slack = g.round(end.LateStart - end.EarlyStart)

	for i := len(order) - 1; i >= 0; i-- {
		node := g.nodes[order[i]]
		t := node.Task

		t.LateFinish = end.LateFinish
		if len(node.Children) > 0 {
			t.LateFinish = g.minLateStart(node.Children)
		}
		t.LateStart = g.round(t.LateFinish - t.Duration)
		t.Slack = g.round(t.LateStart - t.EarlyStart)
	}
}

func (g *Graph) maxEarlyFinish(numbers []int) float64 {
	var maxEF float64
	for i, n := range numbers {
		ef := g.node(n).Task.EarlyFinish
		if i == 0 || ef > maxEF {
			maxEF = ef
		}
	}
	return maxEF
}

func (g *Graph) minLateStart(numbers []int) float64 {
	var minLS float64
	for i, n := range numbers {
		ls := g.node(n).Task.LateStart
		if i == 0 || ls < minLS {
			minLS = ls
		}
	}
	return minLS
}
