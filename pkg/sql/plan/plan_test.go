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

package plan_test

import (
	"strings"
	"testing"

	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/opt/testutils/testcat"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T, def string) *testcat.Table {
	t.Helper()
	tc := testcat.New()
	tab, err := tc.CreateTable(def)
	require.NoError(t, err)
	return tab
}

func TestScanColumns(t *testing.T) {
	tab := testTable(t, "t (x int, y float)")

	scan := plan.NewScan(tab, 1, "")
	require.Equal(t, opt.ScanOp, scan.Op())
	require.Equal(t, 0, scan.ChildCount())
	cols := scan.Columns()
	require.Len(t, cols, 2)
	require.Equal(t, "t.x", cols[0].Name)
	require.Equal(t, opt.MakeColumnBinding(1, 0), cols[0].Binding)
	require.Equal(t, types.Int, cols[0].Typ)
	require.Equal(t, "t.y", cols[1].Name)
	require.Equal(t, opt.MakeColumnBinding(1, 1), cols[1].Binding)

	aliased := plan.NewScan(tab, 2, "u")
	require.Equal(t, "u.x", aliased.Columns()[0].Name)
	require.Equal(t, opt.MakeColumnBinding(2, 0), aliased.Columns()[0].Binding)

	require.Panics(t, func() { scan.Child(0) })
}

func TestFilterSplitsConjunctions(t *testing.T) {
	tab := testTable(t, "t (x int, y int)")
	scan := plan.NewScan(tab, 1, "")
	x := colRef("t.x", 1, 0)
	y := colRef("t.y", 1, 1)

	a := plan.NewComparisonExpr(opt.GtOp, x, intConst(5))
	b := plan.NewComparisonExpr(opt.LtOp, y, intConst(10))
	c := plan.NewComparisonExpr(opt.EqOp, x, y)

	f := plan.NewFilter(scan, []plan.Expr{
		&plan.AndExpr{Left: a, Right: &plan.AndExpr{Left: b, Right: c}},
	})
	require.Len(t, f.Predicates, 3)
	require.Equal(t, "t.x > 5", f.Predicates[0].String())
	require.Equal(t, "t.y < 10", f.Predicates[1].String())
	require.Equal(t, "t.x = t.y", f.Predicates[2].String())

	// Disjunctions stay whole.
	g := plan.NewFilter(scan, []plan.Expr{&plan.OrExpr{Left: a, Right: b}})
	require.Len(t, g.Predicates, 1)

	require.Equal(t, scan.Columns(), f.Columns())
}

func TestSlotReplace(t *testing.T) {
	tab := testTable(t, "t (x int)")
	scan := plan.NewScan(tab, 1, "")
	f := plan.NewFilter(scan, []plan.Expr{
		plan.NewComparisonExpr(opt.LtOp, colRef("t.x", 1, 0), intConst(50)),
	})

	root := plan.MakeSlot(f)
	require.Equal(t, plan.Node(f), root.Node())

	empty := plan.NewEmptyResult(f.Columns())
	require.Equal(t, f.Columns(), empty.Columns())

	f.Child(0).Replace(empty)
	require.Equal(t, plan.Node(empty), f.Input.Node())

	root.Replace(scan)
	require.Equal(t, plan.Node(scan), root.Node())
}

func TestJoinColumns(t *testing.T) {
	left := plan.NewScan(testTable(t, "t (x int)"), 1, "")
	right := plan.NewScan(testTable(t, "u (y int)"), 2, "")

	cond := plan.NewComparisonExpr(opt.EqOp, colRef("t.x", 1, 0), colRef("u.y", 2, 0))
	j := plan.NewJoin(opt.InnerJoinOp, left, right, []plan.Expr{cond})
	require.Equal(t, opt.InnerJoinOp, j.Op())
	require.Equal(t, 2, j.ChildCount())

	cols := j.Columns()
	require.Len(t, cols, 2)
	require.Equal(t, "t.x", cols[0].Name)
	require.Equal(t, "u.y", cols[1].Name)

	cross := plan.NewCrossJoin(left, right)
	require.Equal(t, opt.CrossJoinOp, cross.Op())
	require.Len(t, cross.Columns(), 2)

	require.Panics(t, func() { plan.NewJoin(opt.CrossJoinOp, left, right, nil) })
	require.Panics(t, func() { j.Child(2) })
}

func TestProjectColumns(t *testing.T) {
	tab := testTable(t, "t (x int)")
	scan := plan.NewScan(tab, 1, "")
	x := colRef("t.x", 1, 0)

	p := plan.NewProject(scan, []plan.Expr{x, intConst(7)}, []string{"a", ""}, 2)
	cols := p.Columns()
	require.Len(t, cols, 2)
	require.Equal(t, "a", cols[0].Name)
	require.Equal(t, opt.MakeColumnBinding(2, 0), cols[0].Binding)
	require.Equal(t, types.Int, cols[0].Typ)
	require.Equal(t, "", cols[1].Name)
	require.Equal(t, opt.MakeColumnBinding(2, 1), cols[1].Binding)
}

func TestFormat(t *testing.T) {
	tab := testTable(t, "t (x int, y int)")
	scan := plan.NewScan(tab, 1, "")
	f := plan.NewFilter(scan, []plan.Expr{
		plan.NewComparisonExpr(opt.LtOp, colRef("t.x", 1, 0), intConst(50)),
	})
	l := plan.NewLimit(f, 10, 5)

	expected := strings.Join([]string{
		"limit 10 offset 5",
		" └── filter [t.x < 50]",
		"      └── scan t",
		"",
	}, "\n")
	require.Equal(t, expected, plan.Format(l))
}

func TestFormatWithStats(t *testing.T) {
	tab := testTable(t, "t (x int)")
	scan := plan.NewScan(tab, 1, "")
	scan.Stats().Cardinality = props.Cardinality{Min: 0, Max: 100}
	scan.Stats().Available = true

	require.Equal(t, "scan t (rows=[0 - 100])\n", plan.Format(scan))
}

func TestFormatNodes(t *testing.T) {
	tab := testTable(t, "t (x int, y int)")
	x := colRef("t.x", 1, 0)
	y := colRef("t.y", 1, 1)

	testCases := []struct {
		node     plan.Node
		expected string
	}{
		{plan.NewScan(tab, 1, "u"), "scan t as u"},
		{plan.NewEmptyResult(nil), "empty-result"},
		{
			plan.NewSort(plan.NewScan(tab, 1, ""), []plan.SortColumn{
				{Col: x}, {Col: y, Descending: true},
			}),
			"sort [t.x, t.y desc]",
		},
		{
			plan.NewProject(plan.NewScan(tab, 1, ""), []plan.Expr{x}, []string{"a"}, 2),
			"project [t.x AS a]",
		},
		{plan.NewLimit(plan.NewScan(tab, 1, ""), plan.NoLimit, 3), "limit offset 3"},
		{
			plan.NewJoin(opt.LeftJoinOp, plan.NewScan(tab, 1, ""), plan.NewScan(tab, 2, "u"),
				[]plan.Expr{plan.NewComparisonExpr(opt.EqOp, x, colRef("u.x", 2, 0))}),
			"left-join [t.x = u.x]",
		},
	}
	for _, tc := range testCases {
		got := plan.Format(tc.node)
		require.Equal(t, tc.expected, strings.SplitN(got, "\n", 2)[0])
	}
}

func TestFormatDot(t *testing.T) {
	tab := testTable(t, "t (x int)")
	scan := plan.NewScan(tab, 1, "")
	f := plan.NewFilter(scan, []plan.Expr{
		plan.NewComparisonExpr(opt.LtOp, colRef("t.x", 1, 0), intConst(50)),
	})

	out := plan.FormatDot(f)
	require.Contains(t, out, "digraph")
	require.Contains(t, out, "filter [t.x < 50]")
	require.Contains(t, out, "scan t")
	require.Contains(t, out, "->")
}
