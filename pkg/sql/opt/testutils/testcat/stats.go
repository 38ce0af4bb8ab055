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

package testcat

import (
	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt/cat"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
	"gopkg.in/yaml.v3"
)

// tableStatsData is the YAML schema accepted by InjectStats:
//
//	row_count: 1000
//	columns:
//	  x: {min: 0, max: 100, nulls: false}
//	  y: {max: 50, nulls: true}
//
// Bounds are parsed as the column's type; a missing bound stays unknown.
type tableStatsData struct {
	RowCount uint64                     `yaml:"row_count"`
	Columns  map[string]columnStatsData `yaml:"columns"`
}

type columnStatsData struct {
	Min   yaml.Node `yaml:"min"`
	Max   yaml.Node `yaml:"max"`
	Nulls bool      `yaml:"nulls"`
}

// InjectStats attaches statistics parsed from the given YAML document to the
// named table, replacing any statistics it already had.
func (tc *Catalog) InjectStats(tableName string, data string) error {
	tab, ok := tc.testTables[tableName]
	if !ok {
		return errors.Newf("no table named %q", tableName)
	}
	var parsed tableStatsData
	if err := yaml.Unmarshal([]byte(data), &parsed); err != nil {
		return errors.Wrapf(err, "parsing statistics for table %q", tableName)
	}
	ts := &TableStats{
		rowCount:    parsed.RowCount,
		columnStats: make(map[int]cat.ColumnStatistic, len(parsed.Columns)),
	}
	for colName, cs := range parsed.Columns {
		ord := tab.FindOrdinal(colName)
		if ord == -1 {
			return errors.Newf("table %q has no column %q", tableName, colName)
		}
		typ := tab.Columns[ord].ColumnType
		min, err := parseBound(typ, cs.Min)
		if err != nil {
			return errors.Wrapf(err, "column %q min", colName)
		}
		max, err := parseBound(typ, cs.Max)
		if err != nil {
			return errors.Wrapf(err, "column %q max", colName)
		}
		ts.columnStats[ord] = cat.ColumnStatistic{Min: min, Max: max, HasNulls: cs.Nulls}
	}
	tab.TableStats = ts
	return nil
}

func parseBound(typ *types.T, node yaml.Node) (tree.Datum, error) {
	if node.IsZero() {
		return tree.DNull, nil
	}
	return tree.ParseStringAs(typ, node.Value)
}

// TableStats implements the cat.TableStatistics interface for testing
// purposes.
type TableStats struct {
	rowCount    uint64
	columnStats map[int]cat.ColumnStatistic
}

var _ cat.TableStatistics = &TableStats{}

// RowCount is part of the cat.TableStatistics interface.
func (ts *TableStats) RowCount() uint64 {
	return ts.rowCount
}

// ColumnStatistic is part of the cat.TableStatistics interface.
func (ts *TableStats) ColumnStatistic(ord int) (cat.ColumnStatistic, bool) {
	cs, ok := ts.columnStats[ord]
	return cs, ok
}
