package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
)

// CPM graph errors. They wrap the generic errors above so callers can match
// either the specific failure or its class.
var (
	// ErrDuplicateTask is returned when a task number is registered twice on the same graph.
	ErrDuplicateTask = fmt.Errorf("duplicate task: %w", ErrAlreadyExists)
	// ErrMissingTask is returned when a dependency references an unregistered task number.
	ErrMissingTask = fmt.Errorf("missing task: %w", ErrNotFound)
	// ErrEmptyGraph is returned when computing a graph without tasks.
	ErrEmptyGraph = fmt.Errorf("empty graph: %w", ErrNotValid)
	// ErrCyclicGraph is returned when the dependencies contain a cycle.
	ErrCyclicGraph = fmt.Errorf("cyclic graph: %w", ErrNotValid)
	// ErrNoProjectConfig is returned when tasks are registered before the project configuration.
	ErrNoProjectConfig = fmt.Errorf("missing project configuration: %w", ErrNotValid)
	// ErrAlreadyComputed is returned when a graph is mutated or computed after its computation.
	ErrAlreadyComputed = errors.New("graph already computed")
)
