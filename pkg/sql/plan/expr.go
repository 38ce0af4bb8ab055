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

package plan

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// Expr is a scalar expression in a bound plan. The set of implementations in
// this package is closed; code that walks expressions switches on Op and can
// match exhaustively.
type Expr interface {
	fmt.Stringer

	// Op returns the operator of the expression.
	Op() opt.Operator

	// ResolvedType returns the type of the value the expression produces.
	ResolvedType() *types.T
}

// ConstExpr is a constant value. A NULL constant has Value set to tree.DNull
// with Typ carrying the declared type.
type ConstExpr struct {
	Value tree.Datum
	Typ   *types.T
}

// Op is part of the Expr interface.
func (e *ConstExpr) Op() opt.Operator { return opt.ConstOp }

// ResolvedType is part of the Expr interface.
func (e *ConstExpr) ResolvedType() *types.T { return e.Typ }

func (e *ConstExpr) String() string { return e.Value.String() }

// ColumnRefExpr is a reference to a column produced by a plan node, resolved
// to its binding.
type ColumnRefExpr struct {
	Binding opt.ColumnBinding

	// Name is the display name of the column, or empty if it has none.
	Name string

	Typ *types.T
}

// Op is part of the Expr interface.
func (e *ColumnRefExpr) Op() opt.Operator { return opt.ColumnRefOp }

// ResolvedType is part of the Expr interface.
func (e *ColumnRefExpr) ResolvedType() *types.T { return e.Typ }

func (e *ColumnRefExpr) String() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Binding.String()
}

// ComparisonExpr compares its two operands with one of the comparison
// operators.
type ComparisonExpr struct {
	CmpOp opt.Operator
	Left  Expr
	Right Expr
}

// NewComparisonExpr constructs a ComparisonExpr, checking that op is a
// comparison operator.
func NewComparisonExpr(op opt.Operator, left, right Expr) *ComparisonExpr {
	if !op.IsComparison() {
		panic(errors.AssertionFailedf("operator %v is not a comparison", redact.Safe(op)))
	}
	return &ComparisonExpr{CmpOp: op, Left: left, Right: right}
}

// Op is part of the Expr interface.
func (e *ComparisonExpr) Op() opt.Operator { return e.CmpOp }

// ResolvedType is part of the Expr interface.
func (e *ComparisonExpr) ResolvedType() *types.T { return types.Bool }

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.CmpOp.ComparisonSymbol(), e.Right)
}

// BetweenExpr checks that Input lies between Lower and Upper. Each bound is
// inclusive or exclusive independently.
type BetweenExpr struct {
	Input Expr
	Lower Expr
	Upper Expr

	LowerInclusive bool
	UpperInclusive bool
}

// Op is part of the Expr interface.
func (e *BetweenExpr) Op() opt.Operator { return opt.BetweenOp }

// ResolvedType is part of the Expr interface.
func (e *BetweenExpr) ResolvedType() *types.T { return types.Bool }

// LowerComparison returns the comparison operator the lower bound check
// decomposes into: Input >= Lower when the bound is inclusive, Input > Lower
// otherwise.
func (e *BetweenExpr) LowerComparison() opt.Operator {
	if e.LowerInclusive {
		return opt.GeOp
	}
	return opt.GtOp
}

// UpperComparison returns the comparison operator the upper bound check
// decomposes into: Input <= Upper when the bound is inclusive, Input < Upper
// otherwise.
func (e *BetweenExpr) UpperComparison() opt.Operator {
	if e.UpperInclusive {
		return opt.LeOp
	}
	return opt.LtOp
}

func (e *BetweenExpr) String() string {
	if e.LowerInclusive && e.UpperInclusive {
		return fmt.Sprintf("%s BETWEEN %s AND %s", e.Input, e.Lower, e.Upper)
	}
	return fmt.Sprintf("(%s %s %s) AND (%s %s %s)",
		e.Input, e.LowerComparison().ComparisonSymbol(), e.Lower,
		e.Input, e.UpperComparison().ComparisonSymbol(), e.Upper)
}

// AndExpr is the boolean conjunction of its two operands.
type AndExpr struct {
	Left  Expr
	Right Expr
}

// Op is part of the Expr interface.
func (e *AndExpr) Op() opt.Operator { return opt.AndOp }

// ResolvedType is part of the Expr interface.
func (e *AndExpr) ResolvedType() *types.T { return types.Bool }

func (e *AndExpr) String() string {
	return fmt.Sprintf("(%s) AND (%s)", e.Left, e.Right)
}

// OrExpr is the boolean disjunction of its two operands.
type OrExpr struct {
	Left  Expr
	Right Expr
}

// Op is part of the Expr interface.
func (e *OrExpr) Op() opt.Operator { return opt.OrOp }

// ResolvedType is part of the Expr interface.
func (e *OrExpr) ResolvedType() *types.T { return types.Bool }

func (e *OrExpr) String() string {
	return fmt.Sprintf("(%s) OR (%s)", e.Left, e.Right)
}

// NotExpr is the boolean negation of its operand.
type NotExpr struct {
	Input Expr
}

// Op is part of the Expr interface.
func (e *NotExpr) Op() opt.Operator { return opt.NotOp }

// ResolvedType is part of the Expr interface.
func (e *NotExpr) ResolvedType() *types.T { return types.Bool }

func (e *NotExpr) String() string {
	return fmt.Sprintf("NOT (%s)", e.Input)
}

// FunctionExpr is a call to a scalar function. Statistics propagation treats
// functions as opaque.
type FunctionExpr struct {
	Name string
	Typ  *types.T
	Args []Expr
}

// Op is part of the Expr interface.
func (e *FunctionExpr) Op() opt.Operator { return opt.FunctionOp }

// ResolvedType is part of the Expr interface.
func (e *FunctionExpr) ResolvedType() *types.T { return e.Typ }

func (e *FunctionExpr) String() string {
	var buf bytes.Buffer
	buf.WriteString(e.Name)
	buf.WriteByte('(')
	writeExprList(&buf, e.Args)
	buf.WriteByte(')')
	return buf.String()
}

// ConstantOrNullExpr evaluates to Value, except that it evaluates to NULL
// when any of Args evaluates to NULL. Expression folding produces it when a
// predicate is provable for all non-NULL inputs but one of its operands can
// be NULL.
type ConstantOrNullExpr struct {
	Value tree.Datum
	Args  []Expr
}

// Op is part of the Expr interface.
func (e *ConstantOrNullExpr) Op() opt.Operator { return opt.ConstantOrNullOp }

// ResolvedType is part of the Expr interface.
func (e *ConstantOrNullExpr) ResolvedType() *types.T { return e.Value.ResolvedType() }

func (e *ConstantOrNullExpr) String() string {
	var buf bytes.Buffer
	buf.WriteString("constant_or_null(")
	buf.WriteString(e.Value.String())
	for _, arg := range e.Args {
		buf.WriteString(", ")
		buf.WriteString(arg.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

// CastExpr converts its input to another type. Statistics propagation treats
// casts as opaque.
type CastExpr struct {
	Input Expr
	Typ   *types.T
}

// Op is part of the Expr interface.
func (e *CastExpr) Op() opt.Operator { return opt.CastOp }

// ResolvedType is part of the Expr interface.
func (e *CastExpr) ResolvedType() *types.T { return e.Typ }

func (e *CastExpr) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", e.Input, e.Typ)
}

func writeExprList(buf *bytes.Buffer, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
}
