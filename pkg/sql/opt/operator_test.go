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

package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperatorNames(t *testing.T) {
	// Every operator must have an entry in the name table.
	for op := UnknownOp; op < NumOperators; op++ {
		require.NotEmpty(t, op.String(), "operator %d has no name", op)
	}
}

func TestFlippedComparison(t *testing.T) {
	testCases := []struct {
		op, flipped Operator
	}{
		{EqOp, EqOp},
		{LtOp, GtOp},
		{GtOp, LtOp},
		{LeOp, GeOp},
		{GeOp, LeOp},
		{NeOp, NeOp},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.flipped, tc.op.FlippedComparison())
		// Flipping twice is the identity.
		require.Equal(t, tc.op, tc.op.FlippedComparison().FlippedComparison())
	}

	require.Panics(t, func() { AndOp.FlippedComparison() })
}

func TestColumnBinding(t *testing.T) {
	a := MakeColumnBinding(1, 0)
	b := MakeColumnBinding(1, 2)
	c := MakeColumnBinding(2, 0)

	require.Equal(t, "@1.0", a.String())
	require.True(t, a.Less(b))
	require.True(t, b.Less(c))
	require.False(t, c.Less(a))
	require.Equal(t, a, MakeColumnBinding(1, 0))
}
