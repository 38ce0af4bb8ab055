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

// Package plan defines bound logical plan trees: relational nodes wired
// together through owned slots, and the scalar expressions they evaluate.
// Plans in this form have every column reference resolved to a binding, which
// is what allows optimizer passes to track per-column information across the
// tree. The package holds no optimization logic itself; passes mutate the
// tree through Slot handles.
package plan

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/cat"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// Node is a relational node in a bound plan tree. The set of implementations
// in this package is closed; code that walks plans switches on Op and can
// match exhaustively.
type Node interface {
	// Op returns the operator of the node.
	Op() opt.Operator

	// ChildCount returns the number of relational children of the node.
	ChildCount() int

	// Child returns the slot owning the ith child, where i < ChildCount.
	// Rewrites replace the child by assigning through the slot.
	Child(i int) *Slot

	// Columns returns the columns the node produces, in output order.
	Columns() []Column

	// Stats returns the node's statistics annotation. It starts out empty and
	// is filled in by statistics propagation.
	Stats() *NodeStats
}

// Slot is an edge in a plan tree that owns a child node. Passes receive a
// *Slot when they are allowed to replace the subtree it holds.
type Slot struct {
	node Node
}

// MakeSlot returns a slot owning the given node.
func MakeSlot(n Node) Slot {
	return Slot{node: n}
}

// Node returns the node the slot currently owns.
func (s *Slot) Node() Node {
	return s.node
}

// Replace hands ownership of the slot to the given node.
func (s *Slot) Replace(n Node) {
	s.node = n
}

// Column describes one output column of a Node.
type Column struct {
	// Name is the display name of the column, or empty if it has none.
	Name string

	// Binding identifies the column within the plan.
	Binding opt.ColumnBinding

	Typ *types.T
}

// NodeStats is the statistics annotation computed for a node.
type NodeStats struct {
	// Cardinality bounds the number of rows the node can return.
	Cardinality props.Cardinality

	// Available is true once propagation has visited the node.
	Available bool
}

type nodeBase struct {
	stats NodeStats
}

// Stats is part of the Node interface.
func (b *nodeBase) Stats() *NodeStats {
	return &b.stats
}

func childIndexError(n Node, i int) error {
	return errors.AssertionFailedf("node %v has no child %d", redact.Safe(n.Op()), redact.Safe(i))
}

// Scan reads all rows from a table.
type Scan struct {
	nodeBase

	Table cat.Table

	// TableIndex identifies this occurrence of the table within the plan.
	// Distinct scans of the same table get distinct indexes.
	TableIndex opt.TableIndex

	// Alias is the name the rest of the plan refers to the table by. It
	// defaults to the table name.
	Alias string

	cols []Column
}

// NewScan constructs a Scan of the given table. If alias is empty, the table
// name is used.
func NewScan(tab cat.Table, tableIndex opt.TableIndex, alias string) *Scan {
	if alias == "" {
		alias = tab.Name()
	}
	s := &Scan{Table: tab, TableIndex: tableIndex, Alias: alias}
	s.cols = make([]Column, tab.ColumnCount())
	for i := range s.cols {
		col := tab.Column(i)
		s.cols[i] = Column{
			Name:    alias + "." + col.ColName(),
			Binding: opt.MakeColumnBinding(tableIndex, int32(i)),
			Typ:     col.DatumType(),
		}
	}
	return s
}

// Op is part of the Node interface.
func (s *Scan) Op() opt.Operator { return opt.ScanOp }

// ChildCount is part of the Node interface.
func (s *Scan) ChildCount() int { return 0 }

// Child is part of the Node interface.
func (s *Scan) Child(i int) *Slot { panic(childIndexError(s, i)) }

// Columns is part of the Node interface.
func (s *Scan) Columns() []Column { return s.cols }

// Filter removes the rows that do not match its predicates. The predicates
// are implicitly ANDed: a row passes only if every predicate evaluates to
// true.
type Filter struct {
	nodeBase

	Input      Slot
	Predicates []Expr
}

// NewFilter constructs a Filter over the given input. Top-level conjunctions
// are split so that each conjunct becomes its own predicate.
func NewFilter(input Node, predicates []Expr) *Filter {
	f := &Filter{Input: MakeSlot(input)}
	for _, p := range predicates {
		f.Predicates = appendConjuncts(f.Predicates, p)
	}
	return f
}

func appendConjuncts(list []Expr, e Expr) []Expr {
	if and, ok := e.(*AndExpr); ok {
		list = appendConjuncts(list, and.Left)
		return appendConjuncts(list, and.Right)
	}
	return append(list, e)
}

// Op is part of the Node interface.
func (f *Filter) Op() opt.Operator { return opt.FilterOp }

// ChildCount is part of the Node interface.
func (f *Filter) ChildCount() int { return 1 }

// Child is part of the Node interface.
func (f *Filter) Child(i int) *Slot {
	if i != 0 {
		panic(childIndexError(f, i))
	}
	return &f.Input
}

// Columns is part of the Node interface.
func (f *Filter) Columns() []Column { return f.Input.Node().Columns() }

// Project computes a new set of output columns from its input. The ith
// projection is bound as column i of the node's projection index.
type Project struct {
	nodeBase

	Input       Slot
	Projections []Expr

	// ProjIndex is the table index assigned to the projection's outputs.
	ProjIndex opt.TableIndex

	cols []Column
}

// NewProject constructs a Project over the given input. names gives the
// display name of each projection; an empty name leaves the output column
// unnamed. names can be nil to leave all outputs unnamed.
func NewProject(input Node, projections []Expr, names []string, projIndex opt.TableIndex) *Project {
	p := &Project{Input: MakeSlot(input), Projections: projections, ProjIndex: projIndex}
	p.cols = make([]Column, len(projections))
	for i := range p.cols {
		var name string
		if names != nil {
			name = names[i]
		}
		p.cols[i] = Column{
			Name:    name,
			Binding: opt.MakeColumnBinding(projIndex, int32(i)),
			Typ:     projections[i].ResolvedType(),
		}
	}
	return p
}

// Op is part of the Node interface.
func (p *Project) Op() opt.Operator { return opt.ProjectOp }

// ChildCount is part of the Node interface.
func (p *Project) ChildCount() int { return 1 }

// Child is part of the Node interface.
func (p *Project) Child(i int) *Slot {
	if i != 0 {
		panic(childIndexError(p, i))
	}
	return &p.Input
}

// Columns is part of the Node interface.
func (p *Project) Columns() []Column { return p.cols }

// NoLimit is the Count of a Limit node that bounds only the offset.
const NoLimit int64 = -1

// Limit returns at most Count rows of its input after skipping the first
// Offset rows.
type Limit struct {
	nodeBase

	Input Slot

	// Count is the maximum number of rows to return, or NoLimit.
	Count int64

	// Offset is the number of input rows to skip.
	Offset int64
}

// NewLimit constructs a Limit over the given input.
func NewLimit(input Node, count, offset int64) *Limit {
	return &Limit{Input: MakeSlot(input), Count: count, Offset: offset}
}

// Op is part of the Node interface.
func (l *Limit) Op() opt.Operator { return opt.LimitOp }

// ChildCount is part of the Node interface.
func (l *Limit) ChildCount() int { return 1 }

// Child is part of the Node interface.
func (l *Limit) Child(i int) *Slot {
	if i != 0 {
		panic(childIndexError(l, i))
	}
	return &l.Input
}

// Columns is part of the Node interface.
func (l *Limit) Columns() []Column { return l.Input.Node().Columns() }

// SortColumn is one column of a sort ordering.
type SortColumn struct {
	Col        *ColumnRefExpr
	Descending bool
}

// Sort orders the rows produced by its input. It changes neither the rows
// nor their statistics.
type Sort struct {
	nodeBase

	Input       Slot
	SortColumns []SortColumn
}

// NewSort constructs a Sort over the given input.
func NewSort(input Node, sortColumns []SortColumn) *Sort {
	return &Sort{Input: MakeSlot(input), SortColumns: sortColumns}
}

// Op is part of the Node interface.
func (s *Sort) Op() opt.Operator { return opt.SortOp }

// ChildCount is part of the Node interface.
func (s *Sort) ChildCount() int { return 1 }

// Child is part of the Node interface.
func (s *Sort) Child(i int) *Slot {
	if i != 0 {
		panic(childIndexError(s, i))
	}
	return &s.Input
}

// Columns is part of the Node interface.
func (s *Sort) Columns() []Column { return s.Input.Node().Columns() }

// Join combines rows from its two inputs that match the join conditions. The
// conditions are implicitly ANDed. A join with no conditions matches every
// pair of rows.
type Join struct {
	nodeBase

	// JoinType is opt.InnerJoinOp or opt.LeftJoinOp.
	JoinType opt.Operator

	Left       Slot
	Right      Slot
	Conditions []Expr
}

// NewJoin constructs a Join of the given type. Top-level conjunctions in the
// conditions are split like filter predicates.
func NewJoin(joinType opt.Operator, left, right Node, conditions []Expr) *Join {
	if joinType != opt.InnerJoinOp && joinType != opt.LeftJoinOp {
		panic(errors.AssertionFailedf("invalid join type %v", redact.Safe(joinType)))
	}
	j := &Join{JoinType: joinType, Left: MakeSlot(left), Right: MakeSlot(right)}
	for _, c := range conditions {
		j.Conditions = appendConjuncts(j.Conditions, c)
	}
	return j
}

// Op is part of the Node interface.
func (j *Join) Op() opt.Operator { return j.JoinType }

// ChildCount is part of the Node interface.
func (j *Join) ChildCount() int { return 2 }

// Child is part of the Node interface.
func (j *Join) Child(i int) *Slot {
	switch i {
	case 0:
		return &j.Left
	case 1:
		return &j.Right
	default:
		panic(childIndexError(j, i))
	}
}

// Columns is part of the Node interface.
func (j *Join) Columns() []Column {
	left := j.Left.Node().Columns()
	right := j.Right.Node().Columns()
	cols := make([]Column, 0, len(left)+len(right))
	cols = append(cols, left...)
	return append(cols, right...)
}

// CrossJoin produces the cartesian product of its two inputs.
type CrossJoin struct {
	nodeBase

	Left  Slot
	Right Slot
}

// NewCrossJoin constructs a CrossJoin of the two inputs.
func NewCrossJoin(left, right Node) *CrossJoin {
	return &CrossJoin{Left: MakeSlot(left), Right: MakeSlot(right)}
}

// Op is part of the Node interface.
func (j *CrossJoin) Op() opt.Operator { return opt.CrossJoinOp }

// ChildCount is part of the Node interface.
func (j *CrossJoin) ChildCount() int { return 2 }

// Child is part of the Node interface.
func (j *CrossJoin) Child(i int) *Slot {
	switch i {
	case 0:
		return &j.Left
	case 1:
		return &j.Right
	default:
		panic(childIndexError(j, i))
	}
}

// Columns is part of the Node interface.
func (j *CrossJoin) Columns() []Column {
	left := j.Left.Node().Columns()
	right := j.Right.Node().Columns()
	cols := make([]Column, 0, len(left)+len(right))
	cols = append(cols, left...)
	return append(cols, right...)
}

// EmptyResult produces no rows. It stands in for a subtree that was proven to
// produce no rows, keeping that subtree's output columns so that references
// into it stay valid.
type EmptyResult struct {
	nodeBase

	cols []Column
}

// NewEmptyResult constructs an EmptyResult with the given output columns.
func NewEmptyResult(cols []Column) *EmptyResult {
	e := &EmptyResult{cols: make([]Column, len(cols))}
	copy(e.cols, cols)
	return e
}

// Op is part of the Node interface.
func (e *EmptyResult) Op() opt.Operator { return opt.EmptyResultOp }

// ChildCount is part of the Node interface.
func (e *EmptyResult) ChildCount() int { return 0 }

// Child is part of the Node interface.
func (e *EmptyResult) Child(i int) *Slot { panic(childIndexError(e, i)) }

// Columns is part of the Node interface.
func (e *EmptyResult) Columns() []Column { return e.cols }
