package cpm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/critroute/internal/cpm"
	"github.com/slok/critroute/internal/model"
)

type testTask struct {
	number                int
	label                 string
	opt, likely, pessimis float64
}

var networkTasks = []testTask{
	{1, "1.1", 5, 7, 10},
	{2, "1.2", 4, 6, 8},
	{3, "1.3", 5, 7, 10},
	{4, "2.1", 5, 7, 10},
	{5, "2.2", 5, 7, 10},
	{6, "2.3", 5, 7, 10},
	{7, "3.1", 6, 9, 12},
	{8, "3.2", 6, 9, 12},
	{9, "3.3", 5, 7, 10},
	{10, "3.4", 6, 9, 12},
	{11, "4.1", 5, 7, 10},
	{12, "4.2", 28, 31, 34},
	{13, "4.3", 26, 30, 34},
	{14, "4.4", 5, 7, 10},
	{15, "5.1", 6, 9, 12},
	{16, "5.2", 6, 9, 12},
	{17, "5.3", 5, 7, 10},
	{21, "7.1", 1, 2, 3},
	{22, "7.2", 1, 2, 3},
}

var networkDeps = [][2]int{
	{1, 2}, {2, 3},
	{4, 5}, {5, 6},
	{3, 7}, {6, 7},
	{7, 8},
	{8, 9}, {8, 10},
	{9, 11}, {10, 11},
	{11, 12}, {11, 13}, {11, 14},
	{12, 15}, {12, 16},
	{13, 17}, {14, 15},
	{15, 21}, {16, 21}, {17, 21},
	{21, 22},
}

func networkConfig() model.ProjectConfig {
	return model.ProjectConfig{
		StartDate: time.Date(2024, 11, 21, 0, 0, 0, 0, time.UTC),
		TimeUnit:  model.TimeUnitDays,
		Decimals:  3,
	}
}

// newNetworkGraph builds the reference network registering the tasks in the given order.
func newNetworkGraph(t *testing.T, tasks []testTask) (*cpm.Graph, map[int]*model.Task) {
	t.Helper()

	cfg := networkConfig()
	g := cpm.NewGraph()
	require.NoError(t, g.SetProjectConfig(cfg))

	byNumber := map[int]*model.Task{}
	for _, tt := range tasks {
		task := model.NewTask(tt.number, cfg, tt.label, tt.opt, tt.likely, tt.pessimis, "", nil)
		require.NoError(t, g.AddTask(task))
		byNumber[tt.number] = task
	}
	for _, d := range networkDeps {
		require.NoError(t, g.ConnectTasks(d[0], d[1]))
	}

	return g, byNumber
}

func reversed(tasks []testTask) []testTask {
	r := make([]testTask, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		r = append(r, tasks[i])
	}
	return r
}

func numbers(tasks []*model.Task) []int {
	ns := make([]int, 0, len(tasks))
	for _, t := range tasks {
		ns = append(ns, t.Number)
	}
	return ns
}

func TestGraphEarlyTimes(t *testing.T) {
	g, tasks := newNetworkGraph(t, networkTasks)
	require.NoError(t, g.ComputeCPM())

	exp := map[int][2]float64{
		1:  {0, 7.167},
		2:  {7.167, 13.167},
		3:  {13.167, 20.334},
		4:  {0, 7.167},
		5:  {7.167, 14.334},
		6:  {14.334, 21.501},
		8:  {30.501, 39.501},
		10: {39.501, 48.501},
		12: {55.668, 86.668},
		13: {55.668, 85.668},
		14: {55.668, 62.835},
		15: {86.668, 95.668},
		17: {85.668, 92.835},
		21: {95.668, 97.668},
		22: {97.668, 99.668},
	}

	for n, times := range exp {
		assert.Equal(t, times[0], tasks[n].EarlyStart, "task %d early start", n)
		assert.Equal(t, times[1], tasks[n].EarlyFinish, "task %d early finish", n)
	}
}

func TestGraphLateTimes(t *testing.T) {
	g, tasks := newNetworkGraph(t, networkTasks)
	require.NoError(t, g.ComputeCPM())

	// late start, slack, late finish.
	exp := map[int][3]float64{
		1:  {1.167, 1.167, 8.334},
		2:  {8.334, 1.167, 14.334},
		3:  {14.334, 1.167, 21.501},
		4:  {0, 0, 7.167},
		5:  {7.167, 0, 14.334},
		7:  {21.501, 0, 30.501},
		8:  {30.501, 0, 39.501},
		9:  {41.334, 1.833, 48.501},
		10: {39.501, 0, 48.501},
		11: {48.501, 0, 55.668},
		13: {58.501, 2.833, 88.501},
		14: {79.501, 23.833, 86.668},
		15: {86.668, 0, 95.668},
		16: {86.668, 0, 95.668},
		21: {95.668, 0, 97.668},
		22: {97.668, 0, 99.668},
	}

	for n, times := range exp {
		assert.Equal(t, times[0], tasks[n].LateStart, "task %d late start", n)
		assert.Equal(t, times[1], tasks[n].Slack, "task %d slack", n)
		assert.Equal(t, times[2], tasks[n].LateFinish, "task %d late finish", n)
	}
}

func TestGraphFindCriticalPath(t *testing.T) {
	g, _ := newNetworkGraph(t, networkTasks)
	require.NoError(t, g.ComputeCPM())

	path := g.FindCriticalPath()
	assert.Equal(t, []int{4, 5, 6, 7, 8, 10, 11, 12, 15, 16, 21, 22}, numbers(path))
	for _, task := range path {
		assert.Zero(t, task.Slack)
	}
}

func TestGraphComputeIsOrderIndependent(t *testing.T) {
	g1, tasks1 := newNetworkGraph(t, networkTasks)
	require.NoError(t, g1.ComputeCPM())

	// Children registered before their parents.
	g2, tasks2 := newNetworkGraph(t, reversed(networkTasks))
	require.NoError(t, g2.ComputeCPM())

	for n, exp := range tasks1 {
		got := tasks2[n]
		assert.Equal(t, exp.EarlyStart, got.EarlyStart, "task %d", n)
		assert.Equal(t, exp.EarlyFinish, got.EarlyFinish, "task %d", n)
		assert.Equal(t, exp.LateStart, got.LateStart, "task %d", n)
		assert.Equal(t, exp.LateFinish, got.LateFinish, "task %d", n)
		assert.Equal(t, exp.Slack, got.Slack, "task %d", n)
		assert.Equal(t, exp.StartDate, got.StartDate, "task %d", n)
	}

	assert.ElementsMatch(t, numbers(g1.FindCriticalPath()), numbers(g2.FindCriticalPath()))
}

func TestGraphIsDeterministic(t *testing.T) {
	g1, _ := newNetworkGraph(t, networkTasks)
	require.NoError(t, g1.ComputeCPM())
	g2, _ := newNetworkGraph(t, networkTasks)
	require.NoError(t, g2.ComputeCPM())

	assert.Equal(t, numbers(g1.FindCriticalPath()), numbers(g2.FindCriticalPath()))

	nodes1, nodes2 := g1.GetNodes(), g2.GetNodes()
	require.Len(t, nodes2, len(nodes1))
	for i := range nodes1 {
		assert.Equal(t, *nodes1[i].Task, *nodes2[i].Task)
		assert.Equal(t, nodes1[i].Parents, nodes2[i].Parents)
		assert.Equal(t, nodes1[i].Children, nodes2[i].Children)
	}
}

func TestGraphSlackIsConsistent(t *testing.T) {
	g, tasks := newNetworkGraph(t, networkTasks)
	require.NoError(t, g.ComputeCPM())

	critical := map[int]bool{}
	for _, task := range g.FindCriticalPath() {
		critical[task.Number] = true
	}

	for n, task := range tasks {
		assert.InDelta(t, task.LateStart-task.EarlyStart, task.LateFinish-task.EarlyFinish, 1e-9, "task %d", n)
		assert.InDelta(t, task.Slack, task.LateStart-task.EarlyStart, 1e-9, "task %d", n)
		assert.Equal(t, task.Slack == 0, critical[n], "task %d", n)
	}
}

func TestGraphGetNodes(t *testing.T) {
	g, _ := newNetworkGraph(t, networkTasks)
	require.NoError(t, g.ComputeCPM())

	nodes := g.GetNodes()
	require.Len(t, nodes, len(networkTasks)+2)

	// Sorted by number.
	for i := 1; i < len(nodes); i++ {
		assert.Less(t, nodes[i-1].Task.Number, nodes[i].Task.Number)
	}

	start := nodes[0]
	assert.Equal(t, cpm.StartTaskNumber, start.Task.Number)
	assert.Equal(t, cpm.StartTaskLabel, start.Task.Label)
	assert.Empty(t, start.Parents)
	assert.Equal(t, []int{1, 4}, start.Children)
	assert.Zero(t, start.Task.EarlyStart)
	assert.Zero(t, start.Task.EarlyFinish)

	end := nodes[len(nodes)-1]
	assert.Equal(t, 23, end.Task.Number)
	assert.Equal(t, cpm.EndTaskLabel, end.Task.Label)
	assert.Equal(t, []int{22}, end.Parents)
	assert.Empty(t, end.Children)
	assert.Equal(t, 99.668, end.Task.EarlyStart)
	assert.Equal(t, 99.668, end.Task.EarlyFinish)
	assert.Equal(t, 99.668, end.Task.LateFinish)
	assert.Equal(t, 3, end.Task.Decimals)

	// Every real node has a parent and a child after the computation.
	for _, n := range nodes[1 : len(nodes)-1] {
		assert.NotEmpty(t, n.Parents, "task %d", n.Task.Number)
		assert.NotEmpty(t, n.Children, "task %d", n.Task.Number)
	}

	// Calling it again returns the same nodes.
	assert.Equal(t, nodes, g.GetNodes())
}

func TestGraphAddTask(t *testing.T) {
	cfg := networkConfig()

	tests := map[string]struct {
		graph  func() *cpm.Graph
		task   *model.Task
		expErr error
	}{
		"Adding a task should compute its duration.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				return g
			},
			task: model.NewTask(1, cfg, "a", 5, 7, 10, "", nil),
		},

		"Adding a duplicated task should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				_ = g.AddTask(model.NewTask(1, cfg, "original", 1, 1, 1, "", nil))
				return g
			},
			task:   model.NewTask(1, cfg, "a", 5, 7, 10, "", nil),
			expErr: model.ErrDuplicateTask,
		},

		"Adding a task without project config should fail.": {
			graph:  cpm.NewGraph,
			task:   model.NewTask(1, cfg, "a", 5, 7, 10, "", nil),
			expErr: model.ErrNoProjectConfig,
		},

		"Adding a task with the start task number should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				return g
			},
			task:   model.NewTask(0, cfg, "a", 5, 7, 10, "", nil),
			expErr: model.ErrNotValid,
		},

		"Adding a task after computing should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				_ = g.AddTask(model.NewTask(1, cfg, "original", 1, 1, 1, "", nil))
				_ = g.ComputeCPM()
				return g
			},
			task:   model.NewTask(2, cfg, "a", 5, 7, 10, "", nil),
			expErr: model.ErrAlreadyComputed,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			g := test.graph()
			before := g.GetNodes()

			err := g.AddTask(test.task)

			if test.expErr != nil {
				require.Error(err)
				assert.ErrorIs(err, test.expErr)
				assert.Equal(before, g.GetNodes())
				return
			}

			require.NoError(err)
			assert.Equal(7.167, test.task.Duration)
			assert.Len(g.GetNodes(), len(before)+1)
		})
	}
}

func TestGraphDuplicateTaskKeepsOriginal(t *testing.T) {
	cfg := networkConfig()
	g := cpm.NewGraph()
	require.NoError(t, g.SetProjectConfig(cfg))

	original := model.NewTask(1, cfg, "original", 1, 1, 1, "", nil)
	require.NoError(t, g.AddTask(original))

	err := g.AddTask(model.NewTask(1, cfg, "other", 5, 7, 10, "", nil))
	require.ErrorIs(t, err, model.ErrDuplicateTask)
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	nodes := g.GetNodes()
	require.Len(t, nodes, 1)
	assert.Same(t, original, nodes[0].Task)
}

func TestGraphConnectTasks(t *testing.T) {
	tests := map[string]struct {
		parent, child int
		expErr        error
	}{
		"Connecting registered tasks should link both.": {parent: 1, child: 2},
		"Connecting to a missing child should fail.":     {parent: 1, child: 99, expErr: model.ErrMissingTask},
		"Connecting from a missing parent should fail.":  {parent: 99, child: 2, expErr: model.ErrMissingTask},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			cfg := networkConfig()
			g := cpm.NewGraph()
			require.NoError(g.SetProjectConfig(cfg))
			require.NoError(g.AddTask(model.NewTask(1, cfg, "a", 1, 1, 1, "", nil)))
			require.NoError(g.AddTask(model.NewTask(2, cfg, "b", 1, 1, 1, "", nil)))

			err := g.ConnectTasks(test.parent, test.child)
			nodes := g.GetNodes()

			if test.expErr != nil {
				require.Error(err)
				assert.ErrorIs(err, test.expErr)
				assert.ErrorIs(err, model.ErrNotFound)
				for _, n := range nodes {
					assert.Empty(n.Parents)
					assert.Empty(n.Children)
				}
				return
			}

			require.NoError(err)
			assert.Equal([]int{2}, nodes[0].Children)
			assert.Equal([]int{1}, nodes[1].Parents)
		})
	}
}

func TestGraphComputeCPMErrors(t *testing.T) {
	cfg := networkConfig()

	tests := map[string]struct {
		graph  func() *cpm.Graph
		expErr error
	}{
		"Computing an empty graph should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				return g
			},
			expErr: model.ErrEmptyGraph,
		},

		"Computing a graph without config should fail as empty.": {
			graph:  cpm.NewGraph,
			expErr: model.ErrEmptyGraph,
		},

		"Computing a cyclic graph should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				_ = g.AddTask(model.NewTask(1, cfg, "a", 1, 1, 1, "", nil))
				_ = g.AddTask(model.NewTask(2, cfg, "b", 1, 1, 1, "", nil))
				_ = g.AddTask(model.NewTask(3, cfg, "c", 1, 1, 1, "", nil))
				_ = g.ConnectTasks(1, 2)
				_ = g.ConnectTasks(2, 3)
				_ = g.ConnectTasks(3, 2)
				return g
			},
			expErr: model.ErrCyclicGraph,
		},

		"Computing a self dependent task should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				_ = g.AddTask(model.NewTask(1, cfg, "a", 1, 1, 1, "", nil))
				_ = g.ConnectTasks(1, 1)
				return g
			},
			expErr: model.ErrCyclicGraph,
		},

		"Computing twice should fail.": {
			graph: func() *cpm.Graph {
				g := cpm.NewGraph()
				_ = g.SetProjectConfig(cfg)
				_ = g.AddTask(model.NewTask(1, cfg, "a", 1, 1, 1, "", nil))
				_ = g.ComputeCPM()
				return g
			},
			expErr: model.ErrAlreadyComputed,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.graph().ComputeCPM()
			require.Error(t, err)
			assert.ErrorIs(t, err, test.expErr)
		})
	}
}

func TestGraphCyclicGraphIsNotMutated(t *testing.T) {
	cfg := networkConfig()
	g := cpm.NewGraph()
	require.NoError(t, g.SetProjectConfig(cfg))
	require.NoError(t, g.AddTask(model.NewTask(1, cfg, "a", 1, 1, 1, "", nil)))
	require.NoError(t, g.AddTask(model.NewTask(2, cfg, "b", 1, 1, 1, "", nil)))
	require.NoError(t, g.ConnectTasks(1, 2))
	require.NoError(t, g.ConnectTasks(2, 1))

	require.ErrorIs(t, g.ComputeCPM(), model.ErrCyclicGraph)

	nodes := g.GetNodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, []int{2}, nodes[0].Parents)
	assert.Equal(t, []int{2}, nodes[0].Children)
}

func TestGraphSetProjectConfig(t *testing.T) {
	tests := map[string]struct {
		cfg    model.ProjectConfig
		expErr bool
	}{
		"Days config should be valid.": {
			cfg: networkConfig(),
		},
		"Hours config with work hours should be valid.": {
			cfg: model.ProjectConfig{StartDate: time.Now(), TimeUnit: model.TimeUnitHours, WorkHoursPerDay: 8},
		},
		"Hours config without work hours should fail.": {
			cfg:    model.ProjectConfig{StartDate: time.Now(), TimeUnit: model.TimeUnitHours},
			expErr: true,
		},
		"Unknown time unit should fail.": {
			cfg:    model.ProjectConfig{StartDate: time.Now(), TimeUnit: "weeks"},
			expErr: true,
		},
		"Missing start date should fail.": {
			cfg:    model.ProjectConfig{TimeUnit: model.TimeUnitDays},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := cpm.NewGraph().SetProjectConfig(test.cfg)
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGraphResolveDates(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := map[string]struct {
		cfg       model.ProjectConfig
		first     [3]float64
		second    [3]float64
		expFirst  [2]time.Time
		expSecond [2]time.Time
	}{
		"Days should be truncated.": {
			cfg:       model.ProjectConfig{StartDate: day(2024, 11, 21), TimeUnit: model.TimeUnitDays, Decimals: 2},
			first:     [3]float64{7, 7, 7},
			second:    [3]float64{5, 5, 5},
			expFirst:  [2]time.Time{day(2024, 11, 21), day(2024, 11, 28)},
			expSecond: [2]time.Time{day(2024, 11, 28), day(2024, 12, 3)},
		},
		"Fractional days should be truncated.": {
			cfg:       model.ProjectConfig{StartDate: day(2024, 11, 21), TimeUnit: model.TimeUnitDays, Decimals: 2},
			first:     [3]float64{1.5, 1.5, 1.5},
			second:    [3]float64{2.9, 2.9, 2.9},
			expFirst:  [2]time.Time{day(2024, 11, 21), day(2024, 11, 22)},
			expSecond: [2]time.Time{day(2024, 11, 22), day(2024, 11, 24)},
		},
		"Hours should be divided by the work hours of a day.": {
			cfg:       model.ProjectConfig{StartDate: day(2024, 11, 21), TimeUnit: model.TimeUnitHours, WorkHoursPerDay: 8, Decimals: 2},
			first:     [3]float64{12, 12, 12},
			second:    [3]float64{8, 8, 8},
			expFirst:  [2]time.Time{day(2024, 11, 21), day(2024, 11, 22)},
			expSecond: [2]time.Time{day(2024, 11, 22), day(2024, 11, 23)},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			g := cpm.NewGraph()
			require.NoError(g.SetProjectConfig(test.cfg))
			first := model.NewTask(1, test.cfg, "first", test.first[0], test.first[1], test.first[2], "", nil)
			second := model.NewTask(2, test.cfg, "second", test.second[0], test.second[1], test.second[2], "", nil)
			require.NoError(g.AddTask(first))
			require.NoError(g.AddTask(second))
			require.NoError(g.ConnectTasks(1, 2))
			require.NoError(g.ComputeCPM())

			assert.Equal(test.expFirst[0], first.StartDate)
			assert.Equal(test.expFirst[1], first.FinishDate)
			assert.Equal(test.expSecond[0], second.StartDate)
			assert.Equal(test.expSecond[1], second.FinishDate)
		})
	}
}

func TestGraphFindCriticalPathIncludesParallelBranches(t *testing.T) {
	// a -> b -> d
	// a -> c -> d
	cfg := networkConfig()
	g := cpm.NewGraph()
	require.NoError(t, g.SetProjectConfig(cfg))
	for i, d := range []float64{5, 1, 10, 1} {
		require.NoError(t, g.AddTask(model.NewTask(i+1, cfg, "", d, d, d, "", nil)))
	}
	for _, d := range [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}} {
		require.NoError(t, g.ConnectTasks(d[0], d[1]))
	}
	require.NoError(t, g.ComputeCPM())

	assert.Equal(t, []int{1, 3, 4}, numbers(g.FindCriticalPath()))
	nodes := g.GetNodes()
	assert.Equal(t, 9.0, nodes[2].Task.Slack)
	assert.Equal(t, 16.0, nodes[len(nodes)-1].Task.EarlyFinish)
}
