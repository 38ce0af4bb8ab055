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
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"go.uber.org/zap"
)

// propagate derives statistics for the subtree owned by the slot, dispatching
// on the node kind. It annotates whatever node the slot holds afterwards,
// which may differ from the node it held on entry.
func (p *StatisticsPropagator) propagate(slot *plan.Slot) props.Cardinality {
	var card props.Cardinality
	switch t := slot.Node().(type) {
	case *plan.Scan:
		card = p.propagateScan(t)
	case *plan.Filter:
		card = p.propagateFilter(t, slot)
	case *plan.Project:
		card = p.propagateProject(t)
	case *plan.Join:
		card = p.propagateJoin(t, slot)
	case *plan.CrossJoin:
		card = p.propagate(&t.Left).Product(p.propagate(&t.Right))
	case *plan.Limit:
		card = p.propagateLimit(t)
	case *plan.Sort:
		card = p.propagate(&t.Input)
	case *plan.EmptyResult:
		card = props.ZeroCardinality
	default:
		// No information for kinds this pass does not understand; still visit
		// the children so their subtrees get annotated.
		for i := 0; i < t.ChildCount(); i++ {
			p.propagate(t.Child(i))
		}
		card = props.AnyCardinality
	}
	st := slot.Node().Stats()
	st.Cardinality = card
	st.Available = true
	return card
}

// propagateScan seeds the statistics map from the statistics collected for
// the scanned table. Columns without a collected statistic get no entry.
func (p *StatisticsPropagator) propagateScan(scan *plan.Scan) props.Cardinality {
	tabStats := scan.Table.Statistics()
	if tabStats == nil {
		return props.AnyCardinality
	}
	for i, col := range scan.Columns() {
		colStat, ok := tabStats.ColumnStatistic(i)
		if !ok {
			continue
		}
		p.stats[col.Binding] = &props.ColumnStatistic{
			Type:      col.Typ,
			Min:       colStat.Min,
			Max:       colStat.Max,
			MayBeNull: colStat.HasNulls,
		}
	}
	rowCount := tabStats.RowCount()
	if rowCount >= math.MaxUint32 {
		return props.AnyCardinality
	}
	return props.Cardinality{Min: 0, Max: uint32(rowCount)}
}

// propagateProject maps the statistic derived for each projection expression
// to the projection's output binding.
func (p *StatisticsPropagator) propagateProject(proj *plan.Project) props.Cardinality {
	card := p.propagate(&proj.Input)
	cols := proj.Columns()
	for i := range proj.Projections {
		expr, stat := p.propagateExpression(proj.Projections[i])
		proj.Projections[i] = expr
		if stat != nil {
			p.stats[cols[i].Binding] = stat
		}
	}
	return card
}

func (p *StatisticsPropagator) propagateLimit(limit *plan.Limit) props.Cardinality {
	card := p.propagate(&limit.Input).Skip(clampRowCount(limit.Offset))
	if limit.Count != plan.NoLimit {
		card = card.AtMost(clampRowCount(limit.Count))
	}
	return card
}

func clampRowCount(v int64) uint32 {
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

func (p *StatisticsPropagator) propagateJoin(join *plan.Join, slot *plan.Slot) props.Cardinality {
	leftCard := p.propagate(&join.Left)
	rightCard := p.propagate(&join.Right)
	switch join.JoinType {
	case opt.InnerJoinOp:
		return p.propagateInnerJoin(join, slot, leftCard, rightCard)
	case opt.LeftJoinOp:
		return p.propagateLeftJoin(join, leftCard, rightCard)
	default:
		panic(errors.AssertionFailedf("unexpected join type %v", redact.Safe(join.JoinType)))
	}
}

// propagateInnerJoin prunes the join conditions the same way the filter
// driver prunes predicates: conditions proven true are dropped, a condition
// proven false or false-or-NULL empties the join, and the rest narrow the
// statistics of the columns they compare.
func (p *StatisticsPropagator) propagateInnerJoin(
	join *plan.Join, slot *plan.Slot, leftCard, rightCard props.Cardinality,
) props.Cardinality {
	// An inner join with an empty input is itself empty.
	if join.Left.Node().Op() == opt.EmptyResultOp || join.Right.Node().Op() == opt.EmptyResultOp {
		p.replaceWithEmptyResult(slot)
		return props.ZeroCardinality
	}
	for i := 0; i < len(join.Conditions); i++ {
		cond, _ := p.propagateExpression(join.Conditions[i])
		join.Conditions[i] = cond
		if expressionIsConstant(cond, tree.DBoolTrue) {
			p.log.Debug("dropping join condition", zap.Stringer("condition", cond))
			join.Conditions = append(join.Conditions[:i], join.Conditions[i+1:]...)
			i--
			continue
		}
		if expressionIsConstant(cond, tree.DBoolFalse) || expressionIsConstantOrNull(cond, tree.DBoolFalse) {
			p.replaceWithEmptyResult(slot)
			return props.ZeroCardinality
		}
		p.updateFilterStatistics(cond)
	}
	card := leftCard.Product(rightCard)
	if len(join.Conditions) == 0 {
		// Every pair of rows matches.
		if p.rewriteCrossJoins {
			p.log.Debug("rewriting inner join to cross join")
			slot.Replace(plan.NewCrossJoin(join.Left.Node(), join.Right.Node()))
		}
		return card
	}
	return card.AsLowAs(0)
}

// propagateLeftJoin drops conditions proven true but performs no other
// pruning: unmatched left rows are emitted regardless of the conditions, so
// neither side's ranges can be narrowed and a false condition does not empty
// the result. Right-side columns become nullable below the join output.
func (p *StatisticsPropagator) propagateLeftJoin(
	join *plan.Join, leftCard, rightCard props.Cardinality,
) props.Cardinality {
	for i := 0; i < len(join.Conditions); i++ {
		cond, _ := p.propagateExpression(join.Conditions[i])
		join.Conditions[i] = cond
		if expressionIsConstant(cond, tree.DBoolTrue) {
			p.log.Debug("dropping join condition", zap.Stringer("condition", cond))
			join.Conditions = append(join.Conditions[:i], join.Conditions[i+1:]...)
			i--
		}
	}
	for _, col := range join.Right.Node().Columns() {
		if stat, ok := p.stats[col.Binding]; ok {
			stat.MayBeNull = true
		}
	}
	return props.Cardinality{
		Min: leftCard.Min,
		Max: leftCard.Product(rightCard.AtLeast(1)).Max,
	}
}

// replaceWithEmptyResult replaces the subtree owned by the slot with an
// EmptyResult node that preserves the subtree's output columns.
func (p *StatisticsPropagator) replaceWithEmptyResult(slot *plan.Slot) {
	n := slot.Node()
	p.log.Debug("replacing subtree with empty result", zap.Stringer("op", n.Op()))
	slot.Replace(plan.NewEmptyResult(n.Columns()))
}
