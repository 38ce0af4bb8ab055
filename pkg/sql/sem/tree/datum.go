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

// Package tree defines the constant datum values that flow through bound
// expressions and column statistics.
package tree

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// Datum is a constant SQL value. Datums are immutable once constructed;
// statistics code shares them freely between bounds.
type Datum interface {
	fmt.Stringer

	// ResolvedType returns the type of the datum.
	ResolvedType() *types.T

	// Compare returns -1 if the receiver sorts before other, 0 if they are
	// equal and +1 if the receiver sorts after other. DNull sorts before
	// every other value. Comparing datums of mismatched types is a
	// programmer error and panics with an assertion failure.
	Compare(other Datum) int
}

func makeUnsupportedComparisonError(d, other Datum) error {
	return errors.AssertionFailedf(
		"unsupported comparison: %s to %s", d.ResolvedType(), other.ResolvedType(),
	)
}

// DBool is the boolean Datum.
type DBool bool

// MakeDBool converts its argument to a *DBool, returning one of the
// two canonical instances.
func MakeDBool(d DBool) *DBool {
	if d {
		return DBoolTrue
	}
	return DBoolFalse
}

var (
	// DBoolTrue is the canonical true boolean datum.
	DBoolTrue = new(DBool)

	// DBoolFalse is the canonical false boolean datum.
	DBoolFalse = new(DBool)
)

func init() {
	*DBoolTrue = true
	*DBoolFalse = false
}

// ParseDBool parses and returns the *DBool value represented by the string.
func ParseDBool(s string) (*DBool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type bool", s)
	}
	return MakeDBool(DBool(b)), nil
}

// ResolvedType implements the Datum interface.
func (*DBool) ResolvedType() *types.T {
	return types.Bool
}

// Compare implements the Datum interface.
func (d *DBool) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DBool)
	if !ok {
		panic(makeUnsupportedComparisonError(d, other))
	}
	if *d == *v {
		return 0
	}
	if *v {
		return -1
	}
	return 1
}

func (d *DBool) String() string {
	return strconv.FormatBool(bool(*d))
}

// DInt is the int Datum.
type DInt int64

// NewDInt is a helper routine to create a *DInt initialized from its
// argument.
func NewDInt(d DInt) *DInt {
	return &d
}

// ParseDInt parses and returns the *DInt value represented by the string.
func ParseDInt(s string) (*DInt, error) {
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type int", s)
	}
	return NewDInt(DInt(i)), nil
}

// ResolvedType implements the Datum interface.
func (*DInt) ResolvedType() *types.T {
	return types.Int
}

// Compare implements the Datum interface.
func (d *DInt) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DInt)
	if !ok {
		panic(makeUnsupportedComparisonError(d, other))
	}
	if *d < *v {
		return -1
	}
	if *d > *v {
		return 1
	}
	return 0
}

func (d *DInt) String() string {
	return strconv.FormatInt(int64(*d), 10)
}

// DFloat is the float Datum.
type DFloat float64

// NewDFloat is a helper routine to create a *DFloat initialized from its
// argument.
func NewDFloat(d DFloat) *DFloat {
	return &d
}

// ParseDFloat parses and returns the *DFloat value represented by the string.
func ParseDFloat(s string) (*DFloat, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type float", s)
	}
	return NewDFloat(DFloat(f)), nil
}

// ResolvedType implements the Datum interface.
func (*DFloat) ResolvedType() *types.T {
	return types.Float
}

// Compare implements the Datum interface.
func (d *DFloat) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DFloat)
	if !ok {
		panic(makeUnsupportedComparisonError(d, other))
	}
	l, r := float64(*d), float64(*v)
	if l < r {
		return -1
	}
	if l > r {
		return 1
	}
	if l == r {
		return 0
	}
	// NaN sorts before all other values.
	if math.IsNaN(l) {
		if math.IsNaN(r) {
			return 0
		}
		return -1
	}
	return 1
}

func (d *DFloat) String() string {
	return strconv.FormatFloat(float64(*d), 'g', -1, 64)
}

// DDecimal is the decimal Datum.
type DDecimal struct {
	apd.Decimal
}

// ParseDDecimal parses and returns the *DDecimal value represented by the
// string.
func ParseDDecimal(s string) (*DDecimal, error) {
	dd := &DDecimal{}
	if _, _, err := dd.Decimal.SetString(s); err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type decimal", s)
	}
	return dd, nil
}

// ResolvedType implements the Datum interface.
func (*DDecimal) ResolvedType() *types.T {
	return types.Decimal
}

// Compare implements the Datum interface.
func (d *DDecimal) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DDecimal)
	if !ok {
		panic(makeUnsupportedComparisonError(d, other))
	}
	return d.Decimal.Cmp(&v.Decimal)
}

func (d *DDecimal) String() string {
	return d.Decimal.String()
}

// DString is the string Datum.
type DString string

// NewDString is a helper routine to create a *DString initialized from its
// argument.
func NewDString(s string) *DString {
	d := DString(s)
	return &d
}

// ResolvedType implements the Datum interface.
func (*DString) ResolvedType() *types.T {
	return types.String
}

// Compare implements the Datum interface.
func (d *DString) Compare(other Datum) int {
	if other == DNull {
		return 1
	}
	v, ok := other.(*DString)
	if !ok {
		panic(makeUnsupportedComparisonError(d, other))
	}
	if *d < *v {
		return -1
	}
	if *d > *v {
		return 1
	}
	return 0
}

func (d *DString) String() string {
	return "'" + string(*d) + "'"
}

// dNull is the NULL Datum.
type dNull struct{}

// DNull is the NULL Datum. Statistics code also uses it as the "unknown"
// marker for range bounds.
var DNull Datum = dNull{}

// ResolvedType implements the Datum interface.
func (dNull) ResolvedType() *types.T {
	return types.Unknown
}

// Compare implements the Datum interface.
func (dNull) Compare(other Datum) int {
	if other == DNull {
		return 0
	}
	return -1
}

func (dNull) String() string {
	return "NULL"
}

// ParseStringAs reads s as type t.
func ParseStringAs(t *types.T, s string) (Datum, error) {
	switch t.Family() {
	case types.BoolFamily:
		return ParseDBool(s)
	case types.IntFamily:
		return ParseDInt(s)
	case types.FloatFamily:
		return ParseDFloat(s)
	case types.DecimalFamily:
		return ParseDDecimal(s)
	case types.StringFamily:
		return NewDString(s), nil
	default:
		return nil, errors.AssertionFailedf("unknown type %s", t)
	}
}
