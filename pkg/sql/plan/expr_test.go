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
	"testing"

	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func intConst(v int64) *plan.ConstExpr {
	return &plan.ConstExpr{Value: tree.NewDInt(tree.DInt(v)), Typ: types.Int}
}

func colRef(name string, table, col int32) *plan.ColumnRefExpr {
	return &plan.ColumnRefExpr{
		Binding: opt.MakeColumnBinding(opt.TableIndex(table), col),
		Name:    name,
		Typ:     types.Int,
	}
}

func TestExprString(t *testing.T) {
	x := colRef("t.x", 1, 0)
	y := colRef("", 1, 1)
	lt := plan.NewComparisonExpr(opt.LtOp, x, intConst(50))
	eq := plan.NewComparisonExpr(opt.EqOp, x, y)

	testCases := []struct {
		expr     plan.Expr
		expected string
	}{
		{intConst(42), "42"},
		{&plan.ConstExpr{Value: tree.DNull, Typ: types.Bool}, "NULL"},
		{x, "t.x"},
		{y, "@1.1"},
		{lt, "t.x < 50"},
		{eq, "t.x = @1.1"},
		{plan.NewComparisonExpr(opt.NeOp, x, intConst(3)), "t.x != 3"},
		{&plan.AndExpr{Left: lt, Right: eq}, "(t.x < 50) AND (t.x = @1.1)"},
		{&plan.OrExpr{Left: lt, Right: eq}, "(t.x < 50) OR (t.x = @1.1)"},
		{&plan.NotExpr{Input: lt}, "NOT (t.x < 50)"},
		{
			&plan.BetweenExpr{
				Input: x, Lower: intConst(5), Upper: intConst(10),
				LowerInclusive: true, UpperInclusive: true,
			},
			"t.x BETWEEN 5 AND 10",
		},
		{
			&plan.BetweenExpr{
				Input: x, Lower: intConst(5), Upper: intConst(10),
				LowerInclusive: false, UpperInclusive: true,
			},
			"(t.x > 5) AND (t.x <= 10)",
		},
		{&plan.FunctionExpr{Name: "abs", Typ: types.Int, Args: []plan.Expr{x}}, "abs(t.x)"},
		{
			&plan.ConstantOrNullExpr{Value: tree.DBoolFalse, Args: []plan.Expr{x, y}},
			"constant_or_null(false, t.x, @1.1)",
		},
		{&plan.CastExpr{Input: x, Typ: types.Float}, "CAST(t.x AS float)"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, tc.expr.String())
	}
}

func TestExprTypes(t *testing.T) {
	x := colRef("t.x", 1, 0)
	require.Equal(t, types.Int, x.ResolvedType())
	require.Equal(t, types.Bool, plan.NewComparisonExpr(opt.GeOp, x, intConst(1)).ResolvedType())
	require.Equal(t, types.Bool, (&plan.BetweenExpr{Input: x, Lower: intConst(0), Upper: intConst(1)}).ResolvedType())
	require.Equal(t, types.Bool, (&plan.ConstantOrNullExpr{Value: tree.DBoolTrue}).ResolvedType())
	require.Equal(t, types.Float, (&plan.CastExpr{Input: x, Typ: types.Float}).ResolvedType())
}

func TestNewComparisonExprChecksOperator(t *testing.T) {
	x := colRef("t.x", 1, 0)
	require.Panics(t, func() {
		plan.NewComparisonExpr(opt.AndOp, x, intConst(1))
	})
}

func TestBetweenComparisons(t *testing.T) {
	e := &plan.BetweenExpr{
		Input: colRef("t.x", 1, 0), Lower: intConst(5), Upper: intConst(10),
		LowerInclusive: true, UpperInclusive: true,
	}
	require.Equal(t, opt.GeOp, e.LowerComparison())
	require.Equal(t, opt.LeOp, e.UpperComparison())

	e.LowerInclusive = false
	e.UpperInclusive = false
	require.Equal(t, opt.GtOp, e.LowerComparison())
	require.Equal(t, opt.LtOp, e.UpperComparison())
}
