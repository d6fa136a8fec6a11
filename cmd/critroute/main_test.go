package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectFile = `
title: House
start_date: 2024-11-21
time_unit: Dias
decimals: 3
tasks:
  - {id: 1, name: Design, optimistic: 5, most_likely: 7, pessimistic: 10, assignees: [Ana]}
  - {id: 2, name: Buy, optimistic: 1, most_likely: 1, pessimistic: 1}
  - {id: 3, name: Build, optimistic: 4, most_likely: 4, pessimistic: 4, predecessors: [1, 2]}
`

type scheduleJSON struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
	CriticalPath []int   `json:"critical_path"`
	Tasks        []struct {
		Number int `json:"number"`
	} `json:"tasks"`
}

func runCmd(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"critroute", "--no-log", "--db-path", dbPath}, args...)
	err := Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), err
}

func TestRunProjectLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db", "critroute.db")
	path := filepath.Join(dir, "house.yaml")
	require.NoError(os.WriteFile(path, []byte(projectFile), 0o644))

	// Generate without saving.
	out, err := runCmd(t, dbPath, "generate", path, "--format", "json")
	require.NoError(err)
	var generated scheduleJSON
	require.NoError(json.Unmarshal([]byte(out), &generated))
	assert.Equal("House", generated.Title)
	assert.Equal(11.167, generated.Duration)
	assert.Equal([]int{1, 3}, generated.CriticalPath)
	assert.Len(generated.Tasks, 5)
	_, err = os.Stat(dbPath)
	assert.True(os.IsNotExist(err), "the database is only created when saving")

	// Generate and save.
	out, err = runCmd(t, dbPath, "generate", path, "--save", "--owner", "ana", "--format", "json")
	require.NoError(err)
	var saved scheduleJSON
	require.NoError(json.Unmarshal([]byte(out), &saved))
	require.NotEmpty(saved.ID)

	// List.
	out, err = runCmd(t, dbPath, "list", "--owner", "ana")
	require.NoError(err)
	assert.Contains(out, saved.ID)

	// Show.
	out, err = runCmd(t, dbPath, "show", saved.ID, "--format", "json")
	require.NoError(err)
	var shown scheduleJSON
	require.NoError(json.Unmarshal([]byte(out), &shown))
	assert.Equal(saved, shown)

	// Remove.
	out, err = runCmd(t, dbPath, "rm", saved.ID)
	require.NoError(err)
	assert.Contains(out, "Removed project: House")

	_, err = runCmd(t, dbPath, "show", saved.ID)
	assert.Error(err)
}

func TestRunErrors(t *testing.T) {
	tests := map[string]struct {
		args   []string
		errMsg string
	}{
		"Unknown command should fail.": {
			args:   []string{"whatever"},
			errMsg: "invalid command configuration",
		},
		"Missing project file should fail.": {
			args:   []string{"generate", "/does/not/exist.yaml"},
			errMsg: "could not load project",
		},
		"Invalid list status should fail.": {
			args:   []string{"list", "--status", "deleted"},
			errMsg: "invalid status filter",
		},
		"Malformed project ID should fail.": {
			args:   []string{"show", "my-project"},
			errMsg: "invalid project id",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCmd(t, filepath.Join(t.TempDir(), "critroute.db"), test.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.errMsg)
		})
	}
}
