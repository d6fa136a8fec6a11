package lib_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/critroute/pkg/lib"
)

// newTestClient creates a client with a temp SQLite DB for test isolation.
func newTestClient(t *testing.T) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func houseProject() lib.ProjectInput {
	return lib.ProjectInput{
		Title: "House",
		Config: lib.ProjectConfig{
			StartDate: time.Date(2024, 11, 21, 0, 0, 0, 0, time.UTC),
			TimeUnit:  lib.TimeUnitDays,
			Decimals:  2,
		},
		Tasks: []lib.TaskInput{
			{Number: 1, Label: "Design", Optimistic: 3, MostLikely: 3, Pessimistic: 3, Assignees: []string{"Ana", "Luis"}},
			{Number: 2, Label: "Buy", Optimistic: 1, MostLikely: 1, Pessimistic: 1},
			{Number: 3, Label: "Build", Optimistic: 4, MostLikely: 4, Pessimistic: 4, Assignees: []string{"Ana"}, Predecessors: []int{1, 2}},
		},
	}
}

func TestGenerate(t *testing.T) {
	tests := map[string]struct {
		project func() lib.ProjectInput
		expErr  bool
		expIs   error
	}{
		"Generating a valid project should work.": {
			project: houseProject,
		},

		"Generating a project with a dependency cycle should fail.": {
			project: func() lib.ProjectInput {
				p := houseProject()
				p.Tasks[0].Predecessors = []int{3}
				return p
			},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"Generating a project with an unknown time unit should fail.": {
			project: func() lib.ProjectInput {
				p := houseProject()
				p.Config.TimeUnit = "weeks"
				return p
			},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"Generating a project with an unknown predecessor should fail.": {
			project: func() lib.ProjectInput {
				p := houseProject()
				p.Tasks[2].Predecessors = []int{1, 9}
				return p
			},
			expErr: true,
			expIs:  lib.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			client := newTestClient(t)

			s, err := client.Generate(context.Background(), lib.GenerateOpts{Project: test.project(), Owner: "ana"})

			if test.expErr {
				assert.Error(err)
				if test.expIs != nil {
					assert.True(errors.Is(err, test.expIs), "expected error %v, got: %v", test.expIs, err)
				}
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(s.Project.ID)
			assert.Equal("ana", s.Project.Owner)
			assert.Equal([]int{1, 3}, s.CriticalPath)
			assert.Equal(7.0, s.Duration)
			require.Len(t, s.Tasks, 5)

			build := s.Tasks[3]
			assert.Equal("Build", build.Label)
			assert.True(build.Critical)
			assert.Equal([]int{1, 2}, build.Parents)
			assert.Equal([]string{"Ana"}, build.Assignees)
			assert.Equal(time.Date(2024, 11, 24, 0, 0, 0, 0, time.UTC), build.StartDate)
			assert.Equal(time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC), build.FinishDate)

			buy := s.Tasks[2]
			assert.False(buy.Critical)
			assert.Equal(2.0, buy.Slack)
		})
	}
}

func TestGenerateWithoutSaveDoesNotStore(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	client := newTestClient(t)
	ctx := context.Background()

	s, err := client.Generate(ctx, lib.GenerateOpts{Project: houseProject()})
	require.NoError(err)

	_, err = client.GetSchedule(ctx, s.Project.ID)
	assert.True(errors.Is(err, lib.ErrNotFound))
}

func TestScheduleLifecycle(t *testing.T) {
	tests := map[string]struct {
		cfg func(t *testing.T) lib.Config
	}{
		"SQLite storage.": {
			cfg: func(t *testing.T) lib.Config {
				return lib.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
			},
		},
		"In memory storage.": {
			cfg: func(t *testing.T) lib.Config {
				return lib.Config{InMemory: true}
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			client, err := lib.New(ctx, test.cfg(t))
			require.NoError(err)
			defer client.Close()

			gen, err := client.Generate(ctx, lib.GenerateOpts{Project: houseProject(), Owner: "ana", Save: true})
			require.NoError(err)

			got, err := client.GetSchedule(ctx, gen.Project.ID)
			require.NoError(err)
			assert.Equal(gen.Project.ID, got.Project.ID)
			assert.Equal(gen.CriticalPath, got.CriticalPath)
			assert.Equal(gen.Duration, got.Duration)
			require.Len(got.Tasks, len(gen.Tasks))
			for i := range gen.Tasks {
				assert.Equal(gen.Tasks[i].Number, got.Tasks[i].Number)
				assert.Equal(gen.Tasks[i].Slack, got.Tasks[i].Slack)
				assert.Equal(gen.Tasks[i].Critical, got.Tasks[i].Critical)
				assert.Equal(gen.Tasks[i].Assignees, got.Tasks[i].Assignees)
			}

			projects, err := client.ListProjects(ctx, &lib.ListProjectsOpts{Owner: "ana"})
			require.NoError(err)
			require.Len(projects, 1)
			assert.Equal(gen.Project.ID, projects[0].ID)

			projects, err = client.ListProjects(ctx, &lib.ListProjectsOpts{Owner: "luis"})
			require.NoError(err)
			assert.Empty(projects)

			removed, err := client.RemoveProject(ctx, gen.Project.ID)
			require.NoError(err)
			assert.Equal(gen.Project.ID, removed.ID)

			_, err = client.GetSchedule(ctx, gen.Project.ID)
			assert.True(errors.Is(err, lib.ErrNotFound))

			_, err = client.RemoveProject(ctx, gen.Project.ID)
			assert.True(errors.Is(err, lib.ErrNotFound))
		})
	}
}

func TestGetScheduleInvalidID(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetSchedule(context.Background(), "not-an-id")
	assert.True(t, errors.Is(err, lib.ErrNotValid))
}

func TestLoadProjectFile(t *testing.T) {
	tests := map[string]struct {
		file    string
		content string
		expErr  bool
		expIs   error
		expIn   lib.ProjectInput
	}{
		"A YAML project file should be loaded.": {
			file: "house.yaml",
			content: `
title: House
start_date: 2024-11-21
time_unit: Dias
tasks:
  - id: 1
    name: Design
    optimistic: 2
    most_likely: 3
    pessimistic: 4
    assignees: [Ana]
  - id: 2
    name: Build
    optimistic: 4
    most_likely: 4
    pessimistic: 4
    predecessors: [1]
`,
			expIn: lib.ProjectInput{
				Title: "House",
				Config: lib.ProjectConfig{
					StartDate: time.Date(2024, 11, 21, 0, 0, 0, 0, time.UTC),
					TimeUnit:  lib.TimeUnitDays,
					Decimals:  2,
				},
				Tasks: []lib.TaskInput{
					{Number: 1, Label: "Design", Optimistic: 2, MostLikely: 3, Pessimistic: 4, Assignees: []string{"Ana"}},
					{Number: 2, Label: "Build", Optimistic: 4, MostLikely: 4, Pessimistic: 4, Predecessors: []int{1}},
				},
			},
		},

		"A project file without tasks should fail.": {
			file: "empty.yaml",
			content: `
title: House
start_date: 2024-11-21
time_unit: Dias
`,
			expErr: true,
			expIs:  lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			path := filepath.Join(t.TempDir(), test.file)
			require.NoError(os.WriteFile(path, []byte(test.content), 0o644))

			client := newTestClient(t)
			in, err := client.LoadProjectFile(context.Background(), path)

			if test.expErr {
				assert.Error(err)
				if test.expIs != nil {
					assert.True(errors.Is(err, test.expIs), "expected error %v, got: %v", test.expIs, err)
				}
				return
			}

			require.NoError(err)
			assert.Equal(test.expIn, *in)
		})
	}
}

func TestLoadProjectFileMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.LoadProjectFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
