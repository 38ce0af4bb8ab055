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
	"bytes"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/props"
)

// FormatStatistics renders the derived column statistics as a table, ordered
// by binding. names supplies display names for bindings; bindings without a
// name render in @table.column form.
func FormatStatistics(stats props.StatisticsMap, names map[opt.ColumnBinding]string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"column", "type", "range", "nullable"})
	for _, binding := range stats.OrderedBindings() {
		stat := stats[binding]
		name := names[binding]
		if name == "" {
			name = binding.String()
		}
		table.Append([]string{name, stat.Type.String(), rangeString(stat), nullableString(stat)})
	}
	table.Render()
	return buf.String()
}

func rangeString(stat *props.ColumnStatistic) string {
	if !stat.HasBounds() {
		return "-"
	}
	min, max := "?", "?"
	if stat.HasMin() {
		min = stat.Min.String()
	}
	if stat.HasMax() {
		max = stat.Max.String()
	}
	return fmt.Sprintf("[%s - %s]", min, max)
}

func nullableString(stat *props.ColumnStatistic) string {
	if stat.MayBeNull {
		return "yes"
	}
	return "no"
}

// FormatCardinality renders a cardinality bound as a human-readable row
// count.
func FormatCardinality(c props.Cardinality) string {
	switch {
	case c.Min == c.Max:
		return fmt.Sprintf("exactly %s row%s", humanize.Comma(int64(c.Min)), plural(c.Min))
	case c.Max == math.MaxUint32:
		return fmt.Sprintf("at least %s row%s", humanize.Comma(int64(c.Min)), plural(c.Min))
	default:
		return fmt.Sprintf("between %s and %s rows",
			humanize.Comma(int64(c.Min)), humanize.Comma(int64(c.Max)))
	}
}

func plural(n uint32) string {
	if n == 1 {
		return ""
	}
	return "s"
}
