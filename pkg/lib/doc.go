// Package lib provides a Go SDK to compute and manage critical path
// schedules programmatically.
//
// This package allows applications to compute project schedules without
// shelling out to the critroute CLI binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	input, err := client.LoadProjectFile(ctx, "house.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	schedule, err := client.Generate(ctx, lib.GenerateOpts{Project: *input, Save: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(schedule.CriticalPath, schedule.Duration)
//
// Projects can also be built in code with [ProjectInput] and [TaskInput].
//
// # Schedules
//
// Every schedule includes two synthetic tasks: the start task (number 0)
// that every task without predecessors depends on, and the end task
// (highest number plus one) that depends on every task without successors.
// Its early finish is the duration of the project.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: The project does not exist, or a task depends on an unknown task.
//   - [ErrAlreadyExists]: The project already exists, or a task number is repeated.
//   - [ErrNotValid]: Invalid input (e.g. malformed project files, bad IDs, dependency cycles).
//
// # Testing
//
// Set [Config].InMemory to keep the saved projects in memory:
//
//	client, _ := lib.New(ctx, lib.Config{InMemory: true})
//	defer client.Close()
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. Each
// schedule is computed by its own engine.
package lib
