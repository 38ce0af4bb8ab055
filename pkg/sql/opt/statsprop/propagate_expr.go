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

package statsprop

import (
	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// propagateExpression derives a best-effort statistic for the value an
// expression produces and may replace the expression by a folded form. The
// returned expression is never nil; the returned statistic is nil when
// nothing is known about the result.
func (p *StatisticsPropagator) propagateExpression(e plan.Expr) (plan.Expr, *props.ColumnStatistic) {
	switch t := e.(type) {
	case *plan.ConstExpr:
		return e, constantStatistic(t)
	case *plan.ColumnRefExpr:
		stat, ok := p.stats[t.Binding]
		if !ok {
			return e, nil
		}
		// Copy so that narrowing below a projection does not retroactively
		// change the projection's result statistic.
		return e, stat.Copy()
	case *plan.ComparisonExpr:
		return p.propagateComparison(t)
	case *plan.BetweenExpr:
		return p.propagateBetween(t)
	case *plan.AndExpr:
		t.Left, _ = p.propagateExpression(t.Left)
		t.Right, _ = p.propagateExpression(t.Right)
		return e, booleanStatistic()
	case *plan.OrExpr:
		t.Left, _ = p.propagateExpression(t.Left)
		t.Right, _ = p.propagateExpression(t.Right)
		return e, booleanStatistic()
	case *plan.NotExpr:
		t.Input, _ = p.propagateExpression(t.Input)
		return e, nil
	case *plan.ConstantOrNullExpr:
		for i := range t.Args {
			t.Args[i], _ = p.propagateExpression(t.Args[i])
		}
		return e, nil
	case *plan.FunctionExpr:
		for i := range t.Args {
			t.Args[i], _ = p.propagateExpression(t.Args[i])
		}
		return e, nil
	case *plan.CastExpr:
		t.Input, _ = p.propagateExpression(t.Input)
		return e, nil
	default:
		return e, nil
	}
}

// constantStatistic returns the statistic of a constant: the value itself as
// both bounds. A NULL constant has no bounds and may, of course, be NULL.
func constantStatistic(c *plan.ConstExpr) *props.ColumnStatistic {
	return &props.ColumnStatistic{
		Type:      c.Typ,
		Min:       c.Value,
		Max:       c.Value,
		MayBeNull: c.Value == tree.DNull,
	}
}

// booleanStatistic returns the statistic of an unexamined boolean result.
func booleanStatistic() *props.ColumnStatistic {
	return &props.ColumnStatistic{
		Type:      types.Bool,
		Min:       tree.DBoolFalse,
		Max:       tree.DBoolTrue,
		MayBeNull: true,
	}
}

// propagateComparison folds a comparison that is provable from the ranges of
// its operands. A provable comparison folds to a boolean constant when
// neither operand can be NULL, and to a constant-or-null wrapper around the
// operands otherwise.
func (p *StatisticsPropagator) propagateComparison(
	cmp *plan.ComparisonExpr,
) (plan.Expr, *props.ColumnStatistic) {
	var lstat, rstat *props.ColumnStatistic
	cmp.Left, lstat = p.propagateExpression(cmp.Left)
	cmp.Right, rstat = p.propagateExpression(cmp.Right)
	if lstat == nil || rstat == nil {
		return cmp, nil
	}
	switch checkComparison(lstat, rstat, cmp.CmpOp) {
	case alwaysTrue:
		return foldedConstant(true)
	case alwaysFalse:
		return foldedConstant(false)
	case trueOrNull:
		return foldedConstantOrNull(true, cmp.Left, cmp.Right), nil
	case falseOrNull:
		return foldedConstantOrNull(false, cmp.Left, cmp.Right), nil
	default:
		return cmp, nil
	}
}

// propagateBetween folds a between predicate by checking its two directional
// comparisons and combining the outcomes under conjunction.
func (p *StatisticsPropagator) propagateBetween(
	between *plan.BetweenExpr,
) (plan.Expr, *props.ColumnStatistic) {
	var inputStat, lowerStat, upperStat *props.ColumnStatistic
	between.Input, inputStat = p.propagateExpression(between.Input)
	between.Lower, lowerStat = p.propagateExpression(between.Lower)
	between.Upper, upperStat = p.propagateExpression(between.Upper)

	lowerCheck, upperCheck := noPruning, noPruning
	if inputStat != nil && lowerStat != nil {
		lowerCheck = checkComparison(inputStat, lowerStat, between.LowerComparison())
	}
	if inputStat != nil && upperStat != nil {
		upperCheck = checkComparison(inputStat, upperStat, between.UpperComparison())
	}
	switch combineConjunction(lowerCheck, upperCheck) {
	case alwaysTrue:
		return foldedConstant(true)
	case alwaysFalse:
		return foldedConstant(false)
	case trueOrNull:
		return foldedConstantOrNull(true, between.Input, between.Lower, between.Upper), nil
	case falseOrNull:
		return foldedConstantOrNull(false, between.Input, between.Lower, between.Upper), nil
	default:
		return between, nil
	}
}

func foldedConstant(value bool) (plan.Expr, *props.ColumnStatistic) {
	c := &plan.ConstExpr{Value: tree.MakeDBool(tree.DBool(value)), Typ: types.Bool}
	return c, constantStatistic(c)
}

func foldedConstantOrNull(value bool, args ...plan.Expr) plan.Expr {
	return &plan.ConstantOrNullExpr{
		Value: tree.MakeDBool(tree.DBool(value)),
		Args:  args,
	}
}

// checkResult is the outcome of checking a comparison against the ranges of
// its operands.
type checkResult int

const (
	// noPruning means the comparison's result cannot be proven from the
	// ranges.
	noPruning checkResult = iota

	// alwaysTrue means the comparison holds for every pair of operand values.
	alwaysTrue

	// alwaysFalse means the comparison holds for no pair of operand values.
	alwaysFalse

	// trueOrNull means the comparison holds for every pair of non-NULL
	// operand values, but an operand can be NULL.
	trueOrNull

	// falseOrNull means the comparison holds for no pair of non-NULL operand
	// values, but an operand can be NULL.
	falseOrNull
)

// checkComparison determines whether a comparison is provable from the
// ranges of its operands alone. Only numeric operands with both bounds known
// can prove anything. A provable result degrades to trueOrNull/falseOrNull
// when an operand may be NULL, since comparing NULL yields NULL rather than
// a boolean.
func checkComparison(left, right *props.ColumnStatistic, cmp opt.Operator) checkResult {
	if !left.Type.IsNumeric() || !right.Type.IsNumeric() {
		return noPruning
	}
	if !left.HasMin() || !left.HasMax() || !right.HasMin() || !right.HasMax() {
		return noPruning
	}

	result := noPruning
	switch cmp {
	case opt.EqOp:
		// Disjoint ranges can never be equal; two equal single-value ranges
		// always are.
		if left.Min.Compare(right.Max) > 0 || right.Min.Compare(left.Max) > 0 {
			result = alwaysFalse
		} else if left.IsSingleton() && right.IsSingleton() && left.Min.Compare(right.Min) == 0 {
			result = alwaysTrue
		}
	case opt.NeOp:
		if left.Min.Compare(right.Max) > 0 || right.Min.Compare(left.Max) > 0 {
			result = alwaysTrue
		} else if left.IsSingleton() && right.IsSingleton() && left.Min.Compare(right.Min) == 0 {
			result = alwaysFalse
		}
	case opt.GtOp:
		if left.Min.Compare(right.Max) > 0 {
			result = alwaysTrue
		} else if left.Max.Compare(right.Min) <= 0 {
			result = alwaysFalse
		}
	case opt.GeOp:
		if left.Min.Compare(right.Max) >= 0 {
			result = alwaysTrue
		} else if left.Max.Compare(right.Min) < 0 {
			result = alwaysFalse
		}
	case opt.LtOp:
		if left.Max.Compare(right.Min) < 0 {
			result = alwaysTrue
		} else if left.Min.Compare(right.Max) >= 0 {
			result = alwaysFalse
		}
	case opt.LeOp:
		if left.Max.Compare(right.Min) <= 0 {
			result = alwaysTrue
		} else if left.Min.Compare(right.Max) > 0 {
			result = alwaysFalse
		}
	default:
		return noPruning
	}

	if left.MayBeNull || right.MayBeNull {
		switch result {
		case alwaysTrue:
			result = trueOrNull
		case alwaysFalse:
			result = falseOrNull
		}
	}
	return result
}

// combineConjunction combines the outcomes of two checks whose predicates
// are joined by AND. A single false-ish side decides the conjunction; both
// sides must be true-ish for the conjunction to be.
func combineConjunction(a, b checkResult) checkResult {
	switch {
	case a == alwaysFalse || b == alwaysFalse:
		return alwaysFalse
	case a == falseOrNull || b == falseOrNull:
		return falseOrNull
	case a == alwaysTrue && b == alwaysTrue:
		return alwaysTrue
	case (a == alwaysTrue || a == trueOrNull) && (b == alwaysTrue || b == trueOrNull):
		return trueOrNull
	default:
		return noPruning
	}
}

// expressionIsConstant reports whether the expression is a constant equal to
// the given value. A constant of a type other than the probe value's is a
// defect in whatever folded the expression.
func expressionIsConstant(e plan.Expr, value tree.Datum) bool {
	c, ok := e.(*plan.ConstExpr)
	if !ok {
		return false
	}
	if !c.Typ.Identical(value.ResolvedType()) {
		panic(errors.AssertionFailedf(
			"constant probe type mismatch: %s and %s", c.Typ, value.ResolvedType(),
		))
	}
	if c.Value == tree.DNull {
		return false
	}
	return c.Value.Compare(value) == 0
}

// expressionIsConstantOrNull reports whether the expression is a
// constant-or-null wrapper whose constant equals the given value.
func expressionIsConstantOrNull(e plan.Expr, value tree.Datum) bool {
	w, ok := e.(*plan.ConstantOrNullExpr)
	if !ok {
		return false
	}
	if !w.Value.ResolvedType().Identical(value.ResolvedType()) {
		panic(errors.AssertionFailedf(
			"constant probe type mismatch: %s and %s", w.Value.ResolvedType(), value.ResolvedType(),
		))
	}
	return w.Value.Compare(value) == 0
}
