package model

// TaskRecord is a validated task as read by an ingestion source, before it
// is registered in a CPM engine.
type TaskRecord struct {
	Number       int
	Label        string
	Description  string
	Optimistic   float64
	MostLikely   float64
	Pessimistic  float64
	Assignees    []string
	Predecessors []int
}

// ProjectInput is everything needed to compute the schedule of a project.
type ProjectInput struct {
	Title       string
	Description string
	Config      ProjectConfig
	Tasks       []TaskRecord
}
