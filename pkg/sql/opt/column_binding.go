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

package opt

import (
	"fmt"

	"github.com/cockroachdb/redact"
)

// TableIndex identifies one use of a data source within the scope of a query.
// Every plan node that introduces columns (a base table scan, a projection)
// is assigned its own table index by the binder, so the same table scanned
// twice yields two distinct column namespaces.
type TableIndex int32

// ColumnBinding uniquely identifies the usage of a column within the scope of
// a query by (table index, column ordinal). Bindings are compared by value
// and are the keys of the statistics map maintained by the statistics
// propagation pass.
type ColumnBinding struct {
	// Table is the index of the plan node that introduced the column.
	Table TableIndex

	// Column is the ordinal of the column within its table index.
	Column int32
}

// MakeColumnBinding constructs a binding from a table index and a column
// ordinal.
func MakeColumnBinding(table TableIndex, column int32) ColumnBinding {
	return ColumnBinding{Table: table, Column: column}
}

// Less orders bindings by (table, column). It is used to render statistics
// maps deterministically.
func (b ColumnBinding) Less(other ColumnBinding) bool {
	if b.Table != other.Table {
		return b.Table < other.Table
	}
	return b.Column < other.Column
}

func (b ColumnBinding) String() string {
	return fmt.Sprintf("@%d.%d", b.Table, b.Column)
}

// SafeFormat implements the redact.SafeFormatter interface.
func (b ColumnBinding) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("@%d.%d", b.Table, b.Column)
}

var _ redact.SafeFormatter = ColumnBinding{}
