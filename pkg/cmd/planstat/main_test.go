// Copyright 2026 The Quarry Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFixture = `
tables:
  - definition: t (x int, y int)
    statistics:
      row_count: 1000
      columns:
        x: {min: 0, max: 100, nulls: false}
        y: {min: -50, max: 50, nulls: true}
plan: (filter [(lt t.x 50)] (scan t))
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFixture(t *testing.T) {
	f, err := loadFixture([]byte(testFixture))
	require.NoError(t, err)
	require.Len(t, f.Tables, 1)
	require.Equal(t, "t (x int, y int)", f.Tables[0].Definition)
	require.Equal(t, "(filter [(lt t.x 50)] (scan t))", f.Plan)

	catalog, err := f.buildCatalog()
	require.NoError(t, err)
	tab, err := catalog.ResolveTable("t")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), tab.Statistics().RowCount())
}

func TestLoadFixtureRejectsIncompleteDocuments(t *testing.T) {
	_, err := loadFixture([]byte("plan: (scan t)\n"))
	require.ErrorContains(t, err, "no tables")

	_, err = loadFixture([]byte("tables:\n  - definition: t (x int)\n"))
	require.ErrorContains(t, err, "no plan")
}

func TestRunPlanstatTree(t *testing.T) {
	path := writeFixture(t, testFixture)
	var out bytes.Buffer
	require.NoError(t, runPlanstat(config{format: formatTree}, path, &out))

	result := out.String()
	require.Contains(t, result, "filter [t.x < 50] (rows=[0 - 1000])")
	require.Contains(t, result, "scan t (rows=[0 - 1000])")
	require.Contains(t, result, "cardinality: between 0 and 1,000 rows")
	// The statistics table reflects the narrowed range.
	require.Contains(t, result, "t.x")
	require.Contains(t, result, "[0 - 50]")
	require.Contains(t, result, "[-50 - 50]")
}

func TestRunPlanstatDot(t *testing.T) {
	path := writeFixture(t, testFixture)
	var out bytes.Buffer
	require.NoError(t, runPlanstat(config{format: formatDot}, path, &out))

	result := out.String()
	require.Contains(t, result, "digraph")
	require.Contains(t, result, "scan t")
	require.NotContains(t, result, "cardinality:")
}

func TestRunPlanstatVerbose(t *testing.T) {
	path := writeFixture(t, testFixture)
	var out bytes.Buffer
	require.NoError(t, runPlanstat(config{format: formatTree, verbose: true}, path, &out))
	require.Contains(t, out.String(), "cardinality:")
}

func TestRunPlanstatUnknownFormat(t *testing.T) {
	path := writeFixture(t, testFixture)
	var out bytes.Buffer
	err := runPlanstat(config{format: "json"}, path, &out)
	require.ErrorContains(t, err, `unknown format "json"`)
}

func TestRunPlanstatBadPlan(t *testing.T) {
	path := writeFixture(t, "tables:\n  - definition: t (x int)\nplan: (scan missing)\n")
	var out bytes.Buffer
	err := runPlanstat(config{format: formatTree}, path, &out)
	require.ErrorContains(t, err, "building plan")
}

func TestPlanstatCommandFlags(t *testing.T) {
	path := writeFixture(t, testFixture)
	cmd := makePlanstatCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{path, "--format=dot"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "digraph")
}
