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

package props

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// ColumnStatistic tracks the inclusive range of values a column can take on,
// along with whether it can be NULL. Either bound can be tree.DNull, which
// means the bound is not known.
//
// A ColumnStatistic never proves a row exists. It is an over-approximation:
// every value the column can produce lies within [Min, Max], and if MayBeNull
// is false the column never produces NULL.
type ColumnStatistic struct {
	// Type is the column's data type. Both bounds, when known, are datums of
	// this type.
	Type *types.T

	// Min is the inclusive lower bound, or tree.DNull if unknown.
	Min tree.Datum

	// Max is the inclusive upper bound, or tree.DNull if unknown.
	Max tree.Datum

	// MayBeNull is true unless the column is known to contain no NULLs.
	MayBeNull bool
}

// UnknownStatistic returns a statistic for a column of the given type with
// unknown bounds that may contain NULLs.
func UnknownStatistic(typ *types.T) *ColumnStatistic {
	return &ColumnStatistic{Type: typ, Min: tree.DNull, Max: tree.DNull, MayBeNull: true}
}

// HasMin returns true if the lower bound is known.
func (cs *ColumnStatistic) HasMin() bool {
	return cs.Min != tree.DNull
}

// HasMax returns true if the upper bound is known.
func (cs *ColumnStatistic) HasMax() bool {
	return cs.Max != tree.DNull
}

// HasBounds returns true if at least one bound is known.
func (cs *ColumnStatistic) HasBounds() bool {
	return cs.HasMin() || cs.HasMax()
}

// IsSingleton returns true if both bounds are known and equal, meaning the
// column can take on at most one non-NULL value.
func (cs *ColumnStatistic) IsSingleton() bool {
	return cs.HasMin() && cs.HasMax() && cs.Min.Compare(cs.Max) == 0
}

// Copy returns a copy of the statistic that can be narrowed independently.
// Datums are immutable, so the bounds are shared.
func (cs *ColumnStatistic) Copy() *ColumnStatistic {
	res := *cs
	return &res
}

func (cs *ColumnStatistic) String() string {
	var buf bytes.Buffer
	if cs.HasBounds() {
		buf.WriteByte('[')
		if cs.HasMin() {
			fmt.Fprintf(&buf, "%v", cs.Min)
		} else {
			buf.WriteByte('?')
		}
		buf.WriteString(" - ")
		if cs.HasMax() {
			fmt.Fprintf(&buf, "%v", cs.Max)
		} else {
			buf.WriteByte('?')
		}
		buf.WriteString("], ")
	}
	if cs.MayBeNull {
		buf.WriteString("null")
	} else {
		buf.WriteString("not null")
	}
	return buf.String()
}

// StatisticsMap tracks the statistic inferred for each column binding during
// a propagation pass. Scans seed the map from catalog statistics and
// predicates narrow the entries in place.
type StatisticsMap map[opt.ColumnBinding]*ColumnStatistic

// Copy returns a deep copy of the map. Narrowing entries of the copy leaves
// the original untouched.
func (m StatisticsMap) Copy() StatisticsMap {
	res := make(StatisticsMap, len(m))
	for b, cs := range m {
		res[b] = cs.Copy()
	}
	return res
}

// OrderedBindings returns the map's bindings sorted by table then column, for
// deterministic iteration.
func (m StatisticsMap) OrderedBindings() []opt.ColumnBinding {
	bindings := make([]opt.ColumnBinding, 0, len(m))
	for b := range m {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Less(bindings[j])
	})
	return bindings
}
