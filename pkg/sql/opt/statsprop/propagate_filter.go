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
	"go.uber.org/zap"
)

// propagateFilter handles a filter node: it folds each predicate against the
// statistics derived below, removes predicates proven true, replaces the
// filter with an EmptyResult when a predicate is proven false or
// false-or-NULL, and narrows the statistics of the columns the surviving
// predicates compare. The filter's cardinality is its input's cardinality:
// filtering only removes rows, so the input bound stays valid.
func (p *StatisticsPropagator) propagateFilter(filter *plan.Filter, slot *plan.Slot) props.Cardinality {
	childCard := p.propagate(&filter.Input)
	if filter.Input.Node().Op() == opt.EmptyResultOp {
		// Filtering an empty input cannot produce rows.
		p.replaceWithEmptyResult(slot)
		return props.ZeroCardinality
	}

	for i := 0; i < len(filter.Predicates); i++ {
		cond, _ := p.propagateExpression(filter.Predicates[i])
		filter.Predicates[i] = cond

		if expressionIsConstant(cond, tree.DBoolTrue) {
			// The predicate passes every row; executing it is useless.
			p.log.Debug("removing always-true predicate", zap.Stringer("predicate", cond))
			filter.Predicates = append(filter.Predicates[:i], filter.Predicates[i+1:]...)
			i--
			if len(filter.Predicates) == 0 {
				// All predicates were removed: bypass the filter entirely.
				p.log.Debug("bypassing filter")
				slot.Replace(filter.Input.Node())
				break
			}
		} else if expressionIsConstant(cond, tree.DBoolFalse) ||
			expressionIsConstantOrNull(cond, tree.DBoolFalse) {
			// The predicate passes no row; the whole filter produces nothing.
			p.replaceWithEmptyResult(slot)
			return props.ZeroCardinality
		} else {
			// The predicate cannot be pruned; narrow the statistics of the
			// columns it constrains.
			p.updateFilterStatistics(cond)
		}
	}
	return childCard
}

// updateFilterStatistics narrows column statistics using a predicate that
// survived pruning. Between predicates decompose into their two directional
// comparisons; shapes other than comparisons carry no usable information.
func (p *StatisticsPropagator) updateFilterStatistics(cond plan.Expr) {
	switch t := cond.(type) {
	case *plan.BetweenExpr:
		p.updateComparisonStatistics(t.Input, t.Lower, t.LowerComparison())
		p.updateComparisonStatistics(t.Input, t.Upper, t.UpperComparison())
	case *plan.ComparisonExpr:
		p.updateComparisonStatistics(t.Left, t.Right, t.CmpOp)
	}
}

// updateComparisonStatistics classifies a comparison's operand shape and
// dispatches to the matching narrowing rule. A constant compared against a
// column is normalized to column-versus-constant by flipping the comparison.
//
// Independently of the shape, a bare column reference operand is marked
// not-null: a comparison evaluates to NULL rather than true when an operand
// is NULL, so no NULL survives the predicate. This fires even when the shape
// is otherwise unsupported.
func (p *StatisticsPropagator) updateComparisonStatistics(left, right plan.Expr, cmp opt.Operator) {
	if ref, ok := left.(*plan.ColumnRefExpr); ok {
		p.setStatisticsNotNull(ref.Binding)
	}
	if ref, ok := right.(*plan.ColumnRefExpr); ok {
		p.setStatisticsNotNull(ref.Binding)
	}

	var constant *plan.ConstExpr
	var columnref *plan.ColumnRefExpr
	switch l := left.(type) {
	case *plan.ConstExpr:
		r, ok := right.(*plan.ColumnRefExpr)
		if !ok {
			return
		}
		constant, columnref = l, r
		cmp = cmp.FlippedComparison()
	case *plan.ColumnRefExpr:
		switch r := right.(type) {
		case *plan.ConstExpr:
			columnref, constant = l, r
		case *plan.ColumnRefExpr:
			lstat, ok := p.stats[l.Binding]
			if !ok {
				return
			}
			rstat, ok := p.stats[r.Binding]
			if !ok {
				return
			}
			updateColumnComparison(lstat, rstat, cmp)
			return
		default:
			return
		}
	default:
		return
	}

	stat, ok := p.stats[columnref.Binding]
	if !ok {
		return
	}
	updateConstantComparison(stat, cmp, constant.Value)
}

// updateConstantComparison narrows a column's bounds given that the column
// compares against the constant: the column is the left operand. Narrowing
// applies to numeric columns with both bounds known; everything else only
// loses its nullability.
func updateConstantComparison(stat *props.ColumnStatistic, cmp opt.Operator, c tree.Datum) {
	// The comparison removes all NULL values.
	stat.MayBeNull = false
	if !stat.Type.IsNumeric() {
		// Range narrowing handles numeric columns only.
		return
	}
	if !stat.HasMin() || !stat.HasMax() || c == tree.DNull {
		// Never narrow from missing information.
		return
	}
	switch cmp {
	case opt.LtOp, opt.LeOp:
		// X < c or X <= c: the max becomes the constant.
		stat.Max = c
	case opt.GtOp, opt.GeOp:
		// X > c or X >= c: the min becomes the constant.
		stat.Min = c
	case opt.EqOp:
		// X = c: both bounds become the constant.
		stat.Min = c
		stat.Max = c
	}
}

// updateColumnComparison narrows both sides of a comparison between two
// columns. Mismatched column types in a two-sided comparison indicate a
// defect in whatever bound the plan.
func updateColumnComparison(left, right *props.ColumnStatistic, cmp opt.Operator) {
	// The comparison removes all NULL values from both sides.
	left.MayBeNull = false
	right.MayBeNull = false
	if !left.Type.Identical(right.Type) {
		panic(errors.AssertionFailedf(
			"comparison between mismatched column types %s and %s", left.Type, right.Type,
		))
	}
	if !left.Type.IsNumeric() {
		return
	}
	if !left.HasMin() || !left.HasMax() || !right.HasMin() || !right.HasMax() {
		return
	}
	switch cmp {
	case opt.LtOp, opt.LeOp:
		// LEFT < RIGHT or LEFT <= RIGHT.
		// Any left value bigger than right's max cannot pass the filter, so
		// left's max is at most right's max.
		if left.Max.Compare(right.Max) > 0 {
			left.Max = right.Max
		}
		// Any right value smaller than left's min cannot pass the filter, so
		// right's min is at least left's min.
		if right.Min.Compare(left.Min) < 0 {
			right.Min = left.Min
		}
	case opt.GtOp, opt.GeOp:
		// The inverse of the less-than case.
		if right.Max.Compare(left.Max) > 0 {
			right.Max = left.Max
		}
		if left.Min.Compare(right.Min) < 0 {
			left.Min = right.Min
		}
	case opt.EqOp:
		// LEFT = RIGHT: only values in the intersection of the two ranges can
		// pass. Both sides take the highest min and the lowest max; on equal
		// bounds the left side's value is kept.
		newMin := left.Min
		if right.Min.Compare(newMin) > 0 {
			newMin = right.Min
		}
		newMax := left.Max
		if right.Max.Compare(newMax) < 0 {
			newMax = right.Max
		}
		left.Min, right.Min = newMin, newMin
		left.Max, right.Max = newMax, newMax
	}
}

// setStatisticsNotNull marks a column as never NULL. Columns without a
// statistics entry are left alone.
func (p *StatisticsPropagator) setStatisticsNotNull(binding opt.ColumnBinding) {
	if stat, ok := p.stats[binding]; ok {
		stat.MayBeNull = false
	}
}
