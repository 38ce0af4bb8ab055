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

// Package cat contains interfaces that are used by plan construction and
// statistics propagation to access table metadata without depending on the
// specifics of any one catalog implementation.
package cat

import (
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// Catalog is an interface to a database catalog, used to resolve the table
// names that appear in a query plan.
type Catalog interface {
	// ResolveTable returns the table with the given unqualified name, or an
	// error if no such table exists.
	ResolveTable(name string) (Table, error)
}

// Table is an interface to a physical table.
type Table interface {
	// Name returns the unqualified name of the table.
	Name() string

	// ColumnCount returns the number of columns in the table.
	ColumnCount() int

	// Column returns the ith column, where i < ColumnCount.
	Column(i int) Column

	// Statistics returns the statistics collected for the table, or nil if
	// none are available.
	Statistics() TableStatistics
}

// Column is an interface to a column of a Table.
type Column interface {
	// ColName returns the name of the column.
	ColName() string

	// DatumType returns the data type of the column.
	DatumType() *types.T

	// IsNullable returns true if the column is able to store NULL values.
	IsNullable() bool
}

// TableStatistics is an interface to the statistics collected for a table.
type TableStatistics interface {
	// RowCount returns the estimated number of rows in the table.
	RowCount() uint64

	// ColumnStatistic returns the statistic collected for the column with the
	// given ordinal. The second return value is false if no statistic was
	// collected for the column.
	ColumnStatistic(ord int) (ColumnStatistic, bool)
}

// ColumnStatistic describes the values collected for one column.
type ColumnStatistic struct {
	// Min and Max are the inclusive bounds observed for the column's values.
	// Either can be tree.DNull if the bound was not collected.
	Min tree.Datum
	Max tree.Datum

	// HasNulls is true if NULL values were observed in the column.
	HasNulls bool
}
