package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/critroute/internal/model"
)

// JSONPrinter prints project information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// listItem represents a project in the list output (subset of fields).
type listItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Owner     string    `json:"owner,omitempty"`
	Status    string    `json:"status"`
	StartDate string    `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
}

// scheduleOutput represents the full project schedule output.
type scheduleOutput struct {
	ID              string       `json:"id,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Owner           string       `json:"owner,omitempty"`
	Status          string       `json:"status"`
	StartDate       string       `json:"start_date"`
	TimeUnit        string       `json:"time_unit"`
	WorkHoursPerDay int          `json:"work_hours_per_day,omitempty"`
	Decimals        int          `json:"decimals"`
	Duration        float64      `json:"duration"`
	CriticalPath    []int        `json:"critical_path"`
	CreatedAt       *time.Time   `json:"created_at,omitempty"`
	Tasks           []taskOutput `json:"tasks"`
}

// taskOutput represents a computed task, children and assignees attached.
type taskOutput struct {
	ID          string   `json:"id,omitempty"`
	Number      int      `json:"number"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Optimistic  float64  `json:"optimistic"`
	MostLikely  float64  `json:"most_likely"`
	Pessimistic float64  `json:"pessimistic"`
	Duration    float64  `json:"duration"`
	EarlyStart  float64  `json:"early_start"`
	EarlyFinish float64  `json:"early_finish"`
	LateStart   float64  `json:"late_start"`
	LateFinish  float64  `json:"late_finish"`
	Slack       float64  `json:"slack"`
	StartDate   string   `json:"start_date"`
	FinishDate  string   `json:"finish_date"`
	Status      string   `json:"status"`
	Critical    bool     `json:"critical"`
	Parents     []int    `json:"parents"`
	Children    []int    `json:"children"`
	Assignees   []string `json:"assignees"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintProjectList prints projects in JSON format with a subset of fields.
func (j *JSONPrinter) PrintProjectList(projects []model.Project) error {
	items := make([]listItem, len(projects))
	for i, p := range projects {
		items[i] = listItem{
			ID:        p.ID,
			Title:     p.Title,
			Owner:     p.Owner,
			Status:    string(p.Status),
			StartDate: FormatDate(p.Config.StartDate),
			CreatedAt: p.CreatedAt.UTC(),
		}
	}

	return j.encode(items)
}

// PrintSchedule prints the project schedule in JSON format.
func (j *JSONPrinter) PrintSchedule(s model.ProjectSchedule) error {
	p := s.Project
	output := scheduleOutput{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Owner:           p.Owner,
		Status:          string(p.Status),
		StartDate:       FormatDate(p.Config.StartDate),
		TimeUnit:        string(p.Config.TimeUnit),
		WorkHoursPerDay: p.Config.WorkHoursPerDay,
		Decimals:        p.Config.Decimals,
		Duration:        s.Duration,
		CriticalPath:    nonNil(s.CriticalPath),
		Tasks:           make([]taskOutput, 0, len(s.Tasks)),
	}

	if !p.CreatedAt.IsZero() {
		utcTime := p.CreatedAt.UTC()
		output.CreatedAt = &utcTime
	}

	critical := map[int]bool{}
	for _, n := range s.CriticalPath {
		critical[n] = true
	}

	for _, t := range s.Tasks {
		output.Tasks = append(output.Tasks, taskOutput{
			ID:          t.ID,
			Number:      t.Number,
			Label:       t.Label,
			Description: t.Description,
			Optimistic:  t.Optimistic,
			MostLikely:  t.MostLikely,
			Pessimistic: t.Pessimistic,
			Duration:    t.Duration,
			EarlyStart:  t.EarlyStart,
			EarlyFinish: t.EarlyFinish,
			LateStart:   t.LateStart,
			LateFinish:  t.LateFinish,
			Slack:       t.Slack,
			StartDate:   FormatDate(t.StartDate),
			FinishDate:  FormatDate(t.FinishDate),
			Status:      string(t.Status),
			Critical:    critical[t.Number],
			Parents:     nonNil(t.Parents),
			Children:    nonNil(t.Children),
			Assignees:   t.AssigneeNames(),
		})
	}

	return j.encode(output)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
