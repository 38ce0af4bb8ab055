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

// Package testcat implements an in-memory cat.Catalog with tables created
// from compact definitions and statistics injected from YAML, for use in
// tests and fixtures.
package testcat

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt/cat"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// Catalog implements the cat.Catalog interface for testing purposes.
type Catalog struct {
	testTables map[string]*Table
}

var _ cat.Catalog = &Catalog{}

// New creates a new empty instance of the test catalog.
func New() *Catalog {
	return &Catalog{testTables: make(map[string]*Table)}
}

// ResolveTable is part of the cat.Catalog interface.
func (tc *Catalog) ResolveTable(name string) (cat.Table, error) {
	tab, ok := tc.testTables[name]
	if !ok {
		return nil, errors.Newf("no table named %q", name)
	}
	return tab, nil
}

// Table returns the test table that was previously created with the given
// name. It panics if the table does not exist.
func (tc *Catalog) Table(name string) *Table {
	tab, ok := tc.testTables[name]
	if !ok {
		panic(errors.AssertionFailedf("table %q does not exist", name))
	}
	return tab
}

// CreateTable creates a test table from a compact definition of the form
//
//	name (col type, col type not null, ...)
//
// and adds it to the catalog, replacing any table with the same name.
func (tc *Catalog) CreateTable(def string) (*Table, error) {
	lparen := strings.Index(def, "(")
	rparen := strings.LastIndex(def, ")")
	if lparen < 0 || rparen < lparen {
		return nil, errors.Newf("malformed table definition %q", def)
	}
	name := strings.TrimSpace(def[:lparen])
	if name == "" {
		return nil, errors.Newf("malformed table definition %q: missing table name", def)
	}
	tab := &Table{TabName: name}
	for _, colDef := range strings.Split(def[lparen+1:rparen], ",") {
		fields := strings.Fields(colDef)
		if len(fields) < 2 {
			return nil, errors.Newf("malformed column definition %q", strings.TrimSpace(colDef))
		}
		typ, err := types.Parse(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", fields[0])
		}
		col := &Column{ColumnName: fields[0], ColumnType: typ, Nullable: true}
		switch opts := strings.ToLower(strings.Join(fields[2:], " ")); opts {
		case "", "null":
		case "not null":
			col.Nullable = false
		default:
			return nil, errors.Newf("unsupported column option %q", opts)
		}
		tab.Columns = append(tab.Columns, col)
	}
	tc.testTables[name] = tab
	return tab, nil
}

// Table implements the cat.Table interface for testing purposes.
type Table struct {
	TabName string
	Columns []*Column

	// TableStats are the table's injected statistics, nil until InjectStats
	// attaches some.
	TableStats *TableStats
}

var _ cat.Table = &Table{}

// Name is part of the cat.Table interface.
func (tt *Table) Name() string {
	return tt.TabName
}

// ColumnCount is part of the cat.Table interface.
func (tt *Table) ColumnCount() int {
	return len(tt.Columns)
}

// Column is part of the cat.Table interface.
func (tt *Table) Column(i int) cat.Column {
	return tt.Columns[i]
}

// Statistics is part of the cat.Table interface.
func (tt *Table) Statistics() cat.TableStatistics {
	if tt.TableStats == nil {
		return nil
	}
	return tt.TableStats
}

// FindOrdinal returns the ordinal of the column with the given name, or -1 if
// the table has no such column.
func (tt *Table) FindOrdinal(name string) int {
	for i, col := range tt.Columns {
		if col.ColumnName == name {
			return i
		}
	}
	return -1
}

// Column implements the cat.Column interface for testing purposes.
type Column struct {
	ColumnName string
	ColumnType *types.T
	Nullable   bool
}

var _ cat.Column = &Column{}

// ColName is part of the cat.Column interface.
func (tc *Column) ColName() string {
	return tc.ColumnName
}

// DatumType is part of the cat.Column interface.
func (tc *Column) DatumType() *types.T {
	return tc.ColumnType
}

// IsNullable is part of the cat.Column interface.
func (tc *Column) IsNullable() bool {
	return tc.Nullable
}
