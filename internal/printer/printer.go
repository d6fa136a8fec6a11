package printer

import "github.com/slok/critroute/internal/model"

// Printer knows how to print project information in different formats.
type Printer interface {
	PrintProjectList(projects []model.Project) error
	PrintSchedule(s model.ProjectSchedule) error
	PrintMessage(msg string) error
}

var (
	_ Printer = &TablePrinter{}
	_ Printer = &JSONPrinter{}
)
