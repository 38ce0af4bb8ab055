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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/opt/statsprop"
	"github.com/quarrydb/quarry/pkg/sql/opt/testutils/testcat"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestFilterNarrowsConstantComparison(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(lt t.x 50)] (scan t))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	require.Equal(t, opt.FilterOp, slot.Node().Op())
	require.Equal(t, props.Cardinality{Min: 0, Max: 1000}, card)
	require.Equal(t, "[0 - 50], not null", statByName(t, p, names, "t.x").String())
}

func TestFilterNarrowsColumnComparison(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (a int, b int)", `
row_count: 1000
columns:
  a: {min: -50, max: 250, nulls: false}
  b: {min: -100, max: 100, nulls: false}
`)
	slot, names := mustBuild(t, catalog, "(filter [(lt t.a t.b)] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	// a < b bounds a's max by b's max and b's min by a's min.
	require.Equal(t, "[-50 - 100], not null", statByName(t, p, names, "t.a").String())
	require.Equal(t, "[-50 - 100], not null", statByName(t, p, names, "t.b").String())
}

func TestFilterReplacedWhenPredicateProvablyFalse(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 1000, nulls: false}
`)
	slot, names := mustBuild(t, catalog, "(filter [(gt t.x 5) false] (scan t))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	require.Equal(t, opt.EmptyResultOp, slot.Node().Op())
	require.Equal(t, props.ZeroCardinality, card)

	// The replacement preserves the filter's output columns.
	cols := slot.Node().Columns()
	require.Len(t, cols, 1)
	require.Equal(t, "t.x", cols[0].Name)

	// The first predicate ran before the false one was reached.
	require.Equal(t, "[5 - 1000], not null", statByName(t, p, names, "t.x").String())
}

func TestFilterBypassedWhenAllPredicatesProvablyTrue(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: false}
`)
	slot, _ := mustBuild(t, catalog, "(filter [(eq 1 1)] (scan t))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	// The filter disappears and its child takes its place, keeping the
	// child's cardinality.
	require.Equal(t, opt.ScanOp, slot.Node().Op())
	require.Equal(t, props.Cardinality{Min: 0, Max: 1000}, card)
}

func TestFilterShortCircuitSkipsRemainingPredicates(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int, y int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
  y: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(gt t.x 200) (gt t.y 50)] (scan t))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	// x > 200 is false-or-NULL for x in [0,100]: the filter empties without
	// evaluating the predicate on y.
	require.Equal(t, opt.EmptyResultOp, slot.Node().Op())
	require.Equal(t, props.ZeroCardinality, card)
	require.Equal(t, "[0 - 100], null", statByName(t, p, names, "t.x").String())
	require.Equal(t, "[0 - 100], null", statByName(t, p, names, "t.y").String())
}

func TestFilterKeepsTrueOrNullPredicate(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(lt t.x 500)] (scan t))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	// x < 500 holds for every non-NULL x, but a NULL x still has to be
	// filtered out at runtime, so the predicate cannot be removed. It is
	// replaced by the cheaper constant-or-null form.
	require.Equal(t, opt.FilterOp, slot.Node().Op())
	require.Equal(t, props.Cardinality{Min: 0, Max: 1000}, card)

	filter := slot.Node().(*plan.Filter)
	require.Len(t, filter.Predicates, 1)
	require.Equal(t, "constant_or_null(true, t.x, 500)", filter.Predicates[0].String())

	// The folded form carries no comparison shape, so nothing narrows.
	require.Equal(t, "[0 - 100], null", statByName(t, p, names, "t.x").String())
}

func TestFilterBetweenNarrowsBothBounds(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(between t.x 10 20)] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	require.Equal(t, opt.FilterOp, slot.Node().Op())
	require.Equal(t, "[10 - 20], not null", statByName(t, p, names, "t.x").String())
}

func TestFilterBetweenProvablyFalse(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: false}
`)
	slot, _ := mustBuild(t, catalog, "(filter [(between t.x 150 200)] (scan t))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	require.Equal(t, opt.EmptyResultOp, slot.Node().Op())
	require.Equal(t, props.ZeroCardinality, card)
}

func TestFilterEqualityPinsRange(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(eq t.x 42)] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	require.Equal(t, "[42 - 42], not null", statByName(t, p, names, "t.x").String())
}

func TestFilterConstantOnLeftNormalized(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(gt 50 t.x)] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	// 50 > x is normalized to x < 50.
	require.Equal(t, "[0 - 50], not null", statByName(t, p, names, "t.x").String())
}

func TestFilterNullComparisonDoesNotNarrow(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 1000
columns:
  x: {min: 0, max: 100, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(lt t.x null)] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	// A NULL constant gives no bound to narrow with, but the column still
	// loses its nullability: NULL < NULL never passes the filter.
	require.Equal(t, opt.FilterOp, slot.Node().Op())
	require.Equal(t, "[0 - 100], not null", statByName(t, p, names, "t.x").String())
}

func TestFilterNonNumericComparisonMarksNotNull(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (s string)", `
row_count: 1000
columns:
  s: {min: a, max: z, nulls: true}
`)
	slot, names := mustBuild(t, catalog, "(filter [(eq t.s 'q')] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	// Range narrowing is numeric-only; nullability is not.
	require.Equal(t, opt.FilterOp, slot.Node().Op())
	require.Equal(t, "['a' - 'z'], not null", statByName(t, p, names, "t.s").String())
}

func TestFilterOnEmptyInput(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", "")
	slot, _ := mustBuild(t, catalog, "(filter [(gt t.x 5)] (empty (scan t)))")

	p := statsprop.New()
	card := mustPropagate(t, p, slot)

	require.Equal(t, opt.EmptyResultOp, slot.Node().Op())
	require.Equal(t, props.ZeroCardinality, card)
}

func TestFilterEqualColumnsKeepsLeftBound(t *testing.T) {
	// Both bounds are numerically equal but are distinct datums of distinct
	// widths. The narrowed statistics must hold the left column's datums.
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (a float, b float)", `
row_count: 10
columns:
  a: {min: 1.0, max: 8.0, nulls: false}
  b: {min: 1.0, max: 8.0, nulls: false}
`)
	slot, names := mustBuild(t, catalog, "(filter [(eq t.a t.b)] (scan t))")

	p := statsprop.New()
	mustPropagate(t, p, slot)

	require.Equal(t, opt.FilterOp, slot.Node().Op())
	aStat := statByName(t, p, names, "t.a")
	bStat := statByName(t, p, names, "t.b")
	require.Same(t, aStat.Min, bStat.Min)
	require.Same(t, aStat.Max, bStat.Max)
	require.Equal(t, "[1 - 8], not null", aStat.String())
}

func TestPropagateReturnsAssertionFailures(t *testing.T) {
	catalog := testcat.New()
	mustCreateTable(t, catalog, "t (x int)", `
row_count: 10
columns:
  x: {min: 0, max: 100, nulls: false}
`)
	scan, _ := mustBuild(t, catalog, "(scan t)")

	// A non-boolean predicate can only come from a broken binder; the
	// constant probes assert on it. The panic must come back as an error.
	filter := plan.NewFilter(scan.Node(), []plan.Expr{
		&plan.ConstExpr{Value: tree.NewDInt(7), Typ: types.Int},
	})
	root := plan.MakeSlot(filter)

	p := statsprop.New()
	_, err := p.Propagate(&root)
	require.Error(t, err)
	require.True(t, errors.HasAssertionFailure(err))
}
