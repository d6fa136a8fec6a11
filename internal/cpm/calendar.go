package cpm

import (
	"math"

	"github.com/slok/critroute/internal/model"
)

func (g *Graph) resolveDates() {
	for _, n := range g.order {
		g.resolveTaskDates(g.nodes[n].Task)
	}
}

// resolveTaskDates sets the calendar dates of a task from its early start and
// duration, both converted to whole days.
func (g *Graph) resolveTaskDates(t *model.Task) {
	startDays := dayOffset(*g.cfg, t.EarlyStart)
	durationDays := dayOffset(*g.cfg, t.Duration)

	t.StartDate = g.cfg.StartDate.AddDate(0, 0, startDays)
	t.FinishDate = t.StartDate.AddDate(0, 0, durationDays)
}

// dayOffset converts an amount of project time units into whole days. Hours
// are floor divided by the work hours of a day, days are truncated.
func dayOffset(cfg model.ProjectConfig, v float64) int {
	if cfg.TimeUnit == model.TimeUnitHours {
		return int(math.Floor(v / float64(cfg.WorkHoursPerDay)))
	}
	return int(v)
}
