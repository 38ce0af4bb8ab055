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

// Package statsprop derives statistics for bound logical plans and prunes the
// plans along the way.
//
// The pass walks the plan bottom-up. Scans seed a statistics map with the
// value range and nullability of each base table column; every operator above
// narrows, remaps or invalidates those entries and derives a cardinality
// bound for its own output. The statistics double as a proof system: when a
// filter predicate or join condition is provable from the ranges of its
// operands, the pass folds it to a constant and rewrites the plan.
//
// Rewrites performed:
//
//   - a predicate that is always true is removed; a filter whose last
//     predicate is removed is bypassed entirely
//   - a predicate that is always false, or always false-or-NULL, replaces the
//     subtree with an EmptyResult node
//   - a filter or inner join whose input is proven empty is itself replaced
//     by an EmptyResult node
//   - an inner join whose conditions all fold away becomes a CrossJoin
//
// All plan surgery goes through plan.Slot handles, so ownership transfer is
// explicit. The statistics map and the plan are exclusively owned by the pass
// for the duration of one Propagate call; the propagator holds no locks and
// must not be used from multiple goroutines.
package statsprop

import (
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/util/errorutil"
	"go.uber.org/zap"
)

// StatisticsPropagator is the statistics propagation pass. A propagator is
// created per plan; see Propagate.
type StatisticsPropagator struct {
	// stats maps each column binding to the narrowest statistic derived for it
	// so far. Entries are mutated in place as predicates narrow them.
	stats props.StatisticsMap

	log *zap.Logger

	// rewriteCrossJoins controls whether an inner join with no remaining
	// conditions is replaced by a CrossJoin node.
	rewriteCrossJoins bool
}

// Option configures a StatisticsPropagator.
type Option func(*StatisticsPropagator)

// WithLogger makes the propagator log the rewrites it performs at debug
// level. The default is no logging.
func WithLogger(log *zap.Logger) Option {
	return func(p *StatisticsPropagator) { p.log = log }
}

// WithoutCrossJoinRewrite keeps inner joins in place even when all of their
// conditions fold away. The derived statistics are the same either way.
func WithoutCrossJoinRewrite() Option {
	return func(p *StatisticsPropagator) { p.rewriteCrossJoins = false }
}

// New returns a StatisticsPropagator.
func New(opts ...Option) *StatisticsPropagator {
	p := &StatisticsPropagator{
		log:               zap.NewNop(),
		rewriteCrossJoins: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Propagate derives statistics for the plan owned by root, narrowing column
// statistics and rewriting the plan as described in the package comment. It
// returns the cardinality bound derived for the root. Every node left in the
// plan carries its cardinality in its stats annotation afterwards.
func (p *StatisticsPropagator) Propagate(root *plan.Slot) (_ props.Cardinality, err error) {
	defer func() {
		if r := recover(); r != nil {
			// This code allows us to propagate assertion failures without
			// adding error checks to every narrowing step. The propagator does
			// not update shared state, so recovering here is safe.
			if ok, e := errorutil.ShouldCatch(r); ok {
				err = e
			} else {
				panic(r)
			}
		}
	}()
	p.stats = make(props.StatisticsMap)
	return p.propagate(root), nil
}

// Statistics returns the per-column statistics derived by the last call to
// Propagate. The map is keyed by column binding and is valid until the next
// call.
func (p *StatisticsPropagator) Statistics() props.StatisticsMap {
	return p.stats
}
