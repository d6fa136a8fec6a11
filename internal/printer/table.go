package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/critroute/internal/model"
)

// TablePrinter prints project information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintProjectList prints projects in a table format.
func (t *TablePrinter) PrintProjectList(projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tTITLE\tOWNER\tSTATUS\tSTART\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Title,
			valueOr(p.Owner, "-"),
			p.Status,
			FormatDate(p.Config.StartDate),
			TimeAgo(p.CreatedAt),
		)
	}

	return nil
}

// PrintSchedule prints the project details followed by its tasks.
func (t *TablePrinter) PrintSchedule(s model.ProjectSchedule) error {
	p := s.Project
	fmt.Fprintf(t.writer, "Title:      %s\n", p.Title)
	fmt.Fprintf(t.writer, "ID:         %s\n", valueOr(p.ID, "-"))
	if p.Owner != "" {
		fmt.Fprintf(t.writer, "Owner:      %s\n", p.Owner)
	}
	if p.Description != "" {
		fmt.Fprintf(t.writer, "About:      %s\n", p.Description)
	}
	fmt.Fprintf(t.writer, "Start:      %s\n", FormatDate(p.Config.StartDate))
	if p.Config.TimeUnit == model.TimeUnitHours {
		fmt.Fprintf(t.writer, "Unit:       %s (%d per day)\n", p.Config.TimeUnit, p.Config.WorkHoursPerDay)
	} else {
		fmt.Fprintf(t.writer, "Unit:       %s\n", p.Config.TimeUnit)
	}
	fmt.Fprintf(t.writer, "Duration:   %s\n", FormatDuration(s.Duration, p.Config.TimeUnit))
	fmt.Fprintf(t.writer, "Critical:   %s\n", valueOr(formatNumbers(s.CriticalPath, " -> "), "-"))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(p.CreatedAt))
	}

	if len(s.Tasks) == 0 {
		return nil
	}
	fmt.Fprintln(t.writer)

	critical := map[int]bool{}
	for _, n := range s.CriticalPath {
		critical[n] = true
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tTASK\tDURATION\tES\tEF\tLS\tLF\tSLACK\tSTART\tFINISH\tCRITICAL\tAFTER\tASSIGNEES")
	for _, task := range s.Tasks {
		mark := ""
		if critical[task.Number] {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			task.Number,
			task.Label,
			FormatNumber(task.Duration),
			FormatNumber(task.EarlyStart),
			FormatNumber(task.EarlyFinish),
			FormatNumber(task.LateStart),
			FormatNumber(task.LateFinish),
			FormatNumber(task.Slack),
			FormatDate(task.StartDate),
			FormatDate(task.FinishDate),
			mark,
			valueOr(formatNumbers(task.Parents, ","), "-"),
			valueOr(strings.Join(task.AssigneeNames(), ","), "-"),
		)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
