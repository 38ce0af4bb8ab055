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

package statsprop_test

import (
	"math"
	"strings"
	"testing"

	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/opt/statsprop"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestFormatCardinality(t *testing.T) {
	testCases := []struct {
		card     props.Cardinality
		expected string
	}{
		{props.ZeroCardinality, "exactly 0 rows"},
		{props.OneCardinality, "exactly 1 row"},
		{props.Cardinality{Min: 5, Max: 5}, "exactly 5 rows"},
		{props.AnyCardinality, "at least 0 rows"},
		{props.Cardinality{Min: 1, Max: math.MaxUint32}, "at least 1 row"},
		{props.Cardinality{Min: 1000000, Max: math.MaxUint32}, "at least 1,000,000 rows"},
		{props.Cardinality{Min: 0, Max: 10}, "between 0 and 10 rows"},
		{props.Cardinality{Min: 10, Max: 1234567}, "between 10 and 1,234,567 rows"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			require.Equal(t, tc.expected, statsprop.FormatCardinality(tc.card))
		})
	}
}

func TestFormatStatistics(t *testing.T) {
	xBinding := opt.MakeColumnBinding(1, 0)
	yBinding := opt.MakeColumnBinding(1, 1)
	anonBinding := opt.MakeColumnBinding(2, 0)
	stats := props.StatisticsMap{
		xBinding: {
			Type: types.Int,
			Min:  tree.NewDInt(0),
			Max:  tree.NewDInt(50),
		},
		yBinding: {
			Type:      types.Float,
			Min:       tree.DNull,
			Max:       tree.NewDFloat(1.5),
			MayBeNull: true,
		},
		anonBinding: {
			Type:      types.String,
			Min:       tree.DNull,
			Max:       tree.DNull,
			MayBeNull: true,
		},
	}
	names := map[opt.ColumnBinding]string{
		xBinding: "t.x",
		yBinding: "t.y",
	}

	out := statsprop.FormatStatistics(stats, names)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header first, one row per binding after it, ordered by binding. The
	// unnamed binding falls back to its @table.column form.
	rowWith := func(cells ...string) int {
		for i, line := range lines {
			found := true
			for _, cell := range cells {
				if !strings.Contains(line, cell) {
					found = false
					break
				}
			}
			if found {
				return i
			}
		}
		t.Fatalf("no line with %v in:\n%s", cells, out)
		return -1
	}

	header := rowWith("column", "type", "range", "nullable")
	xRow := rowWith("t.x", "int", "[0 - 50]", "no")
	yRow := rowWith("t.y", "float", "[? - 1.5]", "yes")
	anonRow := rowWith("@2.0", "string", "-", "yes")

	require.Less(t, header, xRow)
	require.Less(t, xRow, yRow)
	require.Less(t, yRow, anonRow)
}

func TestFormatStatisticsEmpty(t *testing.T) {
	out := statsprop.FormatStatistics(props.StatisticsMap{}, nil)
	require.NotContains(t, out, "@")
}
