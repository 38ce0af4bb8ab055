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

package tree

import (
	"testing"

	"github.com/quarrydb/quarry/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestDatumCompare(t *testing.T) {
	mustDecimal := func(s string) *DDecimal {
		d, err := ParseDDecimal(s)
		require.NoError(t, err)
		return d
	}

	testCases := []struct {
		left, right Datum
		expected    int
	}{
		{NewDInt(1), NewDInt(2), -1},
		{NewDInt(2), NewDInt(2), 0},
		{NewDInt(3), NewDInt(2), 1},
		{NewDFloat(1.5), NewDFloat(2.5), -1},
		{NewDFloat(2.5), NewDFloat(2.5), 0},
		{mustDecimal("1.50"), mustDecimal("1.5"), 0},
		{mustDecimal("-0.1"), mustDecimal("0.1"), -1},
		{DBoolFalse, DBoolTrue, -1},
		{DBoolTrue, DBoolTrue, 0},
		{NewDString("apple"), NewDString("banana"), -1},
		{NewDString("pear"), NewDString("pear"), 0},
		{DNull, NewDInt(0), -1},
		{NewDInt(0), DNull, 1},
		{DNull, DNull, 0},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, tc.left.Compare(tc.right),
			"%s compare %s", tc.left, tc.right)
	}
}

func TestDatumCompareTypeMismatch(t *testing.T) {
	require.Panics(t, func() {
		NewDInt(1).Compare(NewDFloat(1))
	})
	require.Panics(t, func() {
		NewDString("1").Compare(NewDInt(1))
	})
}

func TestParseStringAs(t *testing.T) {
	testCases := []struct {
		typ      *types.T
		s        string
		expected Datum
	}{
		{types.Int, "42", NewDInt(42)},
		{types.Int, "-7", NewDInt(-7)},
		{types.Float, "1.25", NewDFloat(1.25)},
		{types.Bool, "true", DBoolTrue},
		{types.String, "hello", NewDString("hello")},
	}
	for _, tc := range testCases {
		d, err := ParseStringAs(tc.typ, tc.s)
		require.NoError(t, err)
		require.Equal(t, 0, d.Compare(tc.expected))
	}

	_, err := ParseStringAs(types.Int, "banana")
	require.Error(t, err)
}
