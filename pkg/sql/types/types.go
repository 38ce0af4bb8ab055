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

// Package types defines the column types understood by the planner and the
// statistics propagation pass.
package types

import "github.com/cockroachdb/errors"

// Family classifies types into groups that share value representation and
// comparison semantics.
type Family int

const (
	// UnknownFamily is the family of the NULL literal's type, used when no
	// type information is available.
	UnknownFamily Family = iota

	// BoolFamily is the family of boolean types.
	BoolFamily

	// IntFamily is the family of signed integer types.
	IntFamily

	// FloatFamily is the family of binary floating-point types.
	FloatFamily

	// DecimalFamily is the family of arbitrary-precision decimal types.
	DecimalFamily

	// StringFamily is the family of character string types.
	StringFamily
)

// T is the type of a column or scalar expression. Instances are immutable;
// the canonical instances below are shared and compared by pointer in the
// common case, with Identical as the semantic check.
type T struct {
	family Family
	name   string
}

var (
	// Unknown is the type of the NULL literal.
	Unknown = &T{family: UnknownFamily, name: "unknown"}

	// Bool is the boolean type.
	Bool = &T{family: BoolFamily, name: "bool"}

	// Int is the 64-bit signed integer type.
	Int = &T{family: IntFamily, name: "int"}

	// Float is the 64-bit floating-point type.
	Float = &T{family: FloatFamily, name: "float"}

	// Decimal is the arbitrary-precision decimal type.
	Decimal = &T{family: DecimalFamily, name: "decimal"}

	// String is the character string type.
	String = &T{family: StringFamily, name: "string"}
)

// Family returns the family the type belongs to.
func (t *T) Family() Family {
	return t.family
}

// IsNumeric returns true if the type supports ordered numeric range
// statistics (min/max bounds).
func (t *T) IsNumeric() bool {
	switch t.family {
	case IntFamily, FloatFamily, DecimalFamily:
		return true
	}
	return false
}

// Identical returns true if the two types are the same.
func (t *T) Identical(other *T) bool {
	return t.family == other.family
}

// String returns the SQL name of the type.
func (t *T) String() string {
	return t.name
}

// Parse returns the type with the given SQL name. It is used by the test
// catalog and plan fixtures.
func Parse(name string) (*T, error) {
	switch name {
	case "bool", "boolean":
		return Bool, nil
	case "int", "integer", "bigint":
		return Int, nil
	case "float", "double":
		return Float, nil
	case "decimal", "numeric":
		return Decimal, nil
	case "string", "text", "varchar":
		return String, nil
	case "unknown":
		return Unknown, nil
	}
	return nil, errors.Newf("unknown type name %q", name)
}
