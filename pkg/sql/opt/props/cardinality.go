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

// Package props defines the statistics entities maintained by the statistics
// propagation pass: per-node cardinality bounds and per-column value ranges.
package props

import (
	"math"

	"github.com/cockroachdb/redact"
)

// Cardinality is an inclusive bound on the number of rows a plan node can
// return. A Max of math.MaxUint32 indicates there is no known upper bound.
type Cardinality struct {
	Min uint32
	Max uint32
}

// infinity is the maximum representable row count, treated as "unbounded".
const infinity = math.MaxUint32

// AnyCardinality indicates that a node can return any number of rows.
var AnyCardinality = Cardinality{Min: 0, Max: infinity}

// OneCardinality indicates that a node always returns exactly one row.
var OneCardinality = Cardinality{Min: 1, Max: 1}

// ZeroCardinality indicates that a node never returns rows.
var ZeroCardinality = Cardinality{Min: 0, Max: 0}

// IsZero returns true if the node never returns any rows.
func (c Cardinality) IsZero() bool {
	return c.Min == 0 && c.Max == 0
}

// AsLowAs ratchets the min bound downwards in order to ensure that it allows
// values that are at least as low as the given min value.
func (c Cardinality) AsLowAs(min uint32) Cardinality {
	return Cardinality{
		Min: minVal(c.Min, min),
		Max: c.Max,
	}
}

// AtLeast ratchets the bounds upwards so that both min and max are at least
// as large as the given min value.
func (c Cardinality) AtLeast(min uint32) Cardinality {
	return Cardinality{
		Min: maxVal(c.Min, min),
		Max: maxVal(c.Max, min),
	}
}

// AtMost ratchets the bounds downwards so that both min and max are no more
// than the given max value.
func (c Cardinality) AtMost(max uint32) Cardinality {
	return Cardinality{
		Min: minVal(c.Min, max),
		Max: minVal(c.Max, max),
	}
}

// Add sums the min and max bounds to get a combined count of rows.
func (c Cardinality) Add(other Cardinality) Cardinality {
	return Cardinality{
		Min: addSat(c.Min, other.Min),
		Max: addSat(c.Max, other.Max),
	}
}

// Product multiplies the min and max bounds to get the combined product of
// rows.
func (c Cardinality) Product(other Cardinality) Cardinality {
	return Cardinality{
		Min: multSat(c.Min, other.Min),
		Max: multSat(c.Max, other.Max),
	}
}

// Skip subtracts the given number of rows from the min and max bounds to
// account for skipped rows. An unbounded max stays unbounded no matter how
// many rows are skipped.
func (c Cardinality) Skip(rows uint32) Cardinality {
	max := c.Max
	if max < infinity {
		max = subSat(max, rows)
	}
	return Cardinality{
		Min: subSat(c.Min, rows),
		Max: max,
	}
}

func (c Cardinality) String() string {
	return redact.StringWithoutMarkers(c)
}

// SafeFormat implements the redact.SafeFormatter interface.
func (c Cardinality) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%d - ", c.Min)
	if c.Max < infinity {
		w.Printf("%d", c.Max)
	}
	w.SafeString("]")
}

var _ redact.SafeFormatter = Cardinality{}

func minVal(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxVal(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func addSat(a, b uint32) uint32 {
	if sum := uint64(a) + uint64(b); sum < infinity {
		return uint32(sum)
	}
	return infinity
}

func multSat(a, b uint32) uint32 {
	if product := uint64(a) * uint64(b); product < infinity {
		return uint32(product)
	}
	return infinity
}

func subSat(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
