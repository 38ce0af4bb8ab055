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

// Package opt contains the definitions shared by the bound logical plan and
// the optimizer passes that rewrite it: the operator enumeration and the
// column binding model.
package opt

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Operator describes the type of operation that a plan node or a scalar
// expression performs.
type Operator uint8

const (
	// UnknownOp should never appear in a well-formed plan.
	UnknownOp Operator = iota

	// -- Relational operators --

	// ScanOp returns the rows of a base table.
	ScanOp

	// FilterOp returns the subset of its input rows that satisfy all of its
	// predicates.
	FilterOp

	// ProjectOp computes a new set of output columns from its input rows.
	ProjectOp

	// InnerJoinOp returns the pairs of left and right rows that satisfy the
	// join conditions.
	InnerJoinOp

	// LeftJoinOp returns the inner join rows plus every unmatched left row,
	// null-extended on the right columns.
	LeftJoinOp

	// CrossJoinOp returns the cartesian product of its inputs.
	CrossJoinOp

	// LimitOp discards input rows past an offset and caps the number of rows
	// returned.
	LimitOp

	// SortOp returns its input rows in a requested order.
	SortOp

	// EmptyResultOp is a relation statically known to produce zero rows. It
	// preserves the output columns of the subtree it replaced.
	EmptyResultOp

	// -- Scalar operators --

	// ConstOp is a leaf expression with a constant value.
	ConstOp

	// ColumnRefOp is a leaf expression referencing a column of the input by
	// its binding.
	ColumnRefOp

	// EqOp is the = comparison.
	EqOp
	// LtOp is the < comparison.
	LtOp
	// GtOp is the > comparison.
	GtOp
	// LeOp is the <= comparison.
	LeOp
	// GeOp is the >= comparison.
	GeOp
	// NeOp is the != comparison.
	NeOp

	// BetweenOp tests that an input expression lies between a lower and an
	// upper bound, each bound independently inclusive or exclusive.
	BetweenOp

	// AndOp is boolean conjunction.
	AndOp
	// OrOp is boolean disjunction.
	OrOp
	// NotOp is boolean negation.
	NotOp

	// FunctionOp is a call to a scalar function. The optimizer treats it as
	// opaque except for the constant-or-null idiom below.
	FunctionOp

	// ConstantOrNullOp wraps expressions whose runtime result is known to be
	// either NULL or one fixed constant.
	ConstantOrNullOp

	// CastOp converts its input to another type.
	CastOp

	// NumOperators should be last.
	NumOperators
)

var operatorNames = [NumOperators]string{
	UnknownOp:        "unknown",
	ScanOp:           "scan",
	FilterOp:         "filter",
	ProjectOp:        "project",
	InnerJoinOp:      "inner-join",
	LeftJoinOp:       "left-join",
	CrossJoinOp:      "cross-join",
	LimitOp:          "limit",
	SortOp:           "sort",
	EmptyResultOp:    "empty-result",
	ConstOp:          "const",
	ColumnRefOp:      "column-ref",
	EqOp:             "eq",
	LtOp:             "lt",
	GtOp:             "gt",
	LeOp:             "le",
	GeOp:             "ge",
	NeOp:             "ne",
	BetweenOp:        "between",
	AndOp:            "and",
	OrOp:             "or",
	NotOp:            "not",
	FunctionOp:       "function",
	ConstantOrNullOp: "constant-or-null",
	CastOp:           "cast",
}

func (op Operator) String() string {
	if op >= NumOperators {
		return fmt.Sprintf("operator(%d)", op)
	}
	return operatorNames[op]
}

// SafeValue implements the redact.SafeValue interface.
func (Operator) SafeValue() {}

var _ redact.SafeValue = UnknownOp

// IsComparison returns true if the operator is one of the binary comparison
// operators understood by the filter statistics pass.
func (op Operator) IsComparison() bool {
	switch op {
	case EqOp, LtOp, GtOp, LeOp, GeOp, NeOp:
		return true
	}
	return false
}

// ComparisonSymbol returns the SQL symbol for a comparison operator, used
// when formatting expressions.
func (op Operator) ComparisonSymbol() string {
	switch op {
	case EqOp:
		return "="
	case LtOp:
		return "<"
	case GtOp:
		return ">"
	case LeOp:
		return "<="
	case GeOp:
		return ">="
	case NeOp:
		return "!="
	}
	panic(errors.AssertionFailedf("operator %s is not a comparison", op))
}

// FlippedComparison returns the comparison that holds when the operands of
// the given comparison are swapped: a < b iff b > a, and so on. Equality and
// inequality are their own mirrors.
func (op Operator) FlippedComparison() Operator {
	switch op {
	case EqOp:
		return EqOp
	case LtOp:
		return GtOp
	case GtOp:
		return LtOp
	case LeOp:
		return GeOp
	case GeOp:
		return LeOp
	case NeOp:
		return NeOp
	}
	panic(errors.AssertionFailedf("operator %s is not a comparison", op))
}
