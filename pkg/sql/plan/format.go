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
	"github.com/quarrydb/quarry/pkg/util/treeprinter"
)

// Format renders the plan rooted at the given node as an indented tree. Nodes
// that carry a statistics annotation include their cardinality.
func Format(root Node) string {
	tp := treeprinter.New()
	formatNode(tp, root)
	return tp.String()
}

func formatNode(parent treeprinter.Node, n Node) {
	tp := parent.Child(describe(n))
	for i := 0; i < n.ChildCount(); i++ {
		formatNode(tp, n.Child(i).Node())
	}
}

// describe returns the one-line form of a node used by both the tree and dot
// renderers.
func describe(n Node) string {
	var buf bytes.Buffer
	switch t := n.(type) {
	case *Scan:
		buf.WriteString("scan ")
		buf.WriteString(t.Table.Name())
		if t.Alias != t.Table.Name() {
			fmt.Fprintf(&buf, " as %s", t.Alias)
		}
	case *Filter:
		buf.WriteString("filter [")
		writeExprList(&buf, t.Predicates)
		buf.WriteByte(']')
	case *Project:
		buf.WriteString("project [")
		for i, e := range t.Projections {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(e.String())
			if name := t.cols[i].Name; name != "" {
				fmt.Fprintf(&buf, " AS %s", name)
			}
		}
		buf.WriteByte(']')
	case *Limit:
		buf.WriteString("limit")
		if t.Count != NoLimit {
			fmt.Fprintf(&buf, " %d", t.Count)
		}
		if t.Offset != 0 {
			fmt.Fprintf(&buf, " offset %d", t.Offset)
		}
	case *Sort:
		buf.WriteString("sort [")
		for i, sc := range t.SortColumns {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(sc.Col.String())
			if sc.Descending {
				buf.WriteString(" desc")
			}
		}
		buf.WriteByte(']')
	case *Join:
		buf.WriteString(t.JoinType.String())
		if len(t.Conditions) > 0 {
			buf.WriteString(" [")
			writeExprList(&buf, t.Conditions)
			buf.WriteByte(']')
		}
	case *CrossJoin:
		buf.WriteString("cross-join")
	case *EmptyResult:
		buf.WriteString("empty-result")
	default:
		panic(errors.AssertionFailedf("unhandled node %v", redact.Safe(n.Op())))
	}
	if st := n.Stats(); st.Available {
		fmt.Fprintf(&buf, " (rows=%s)", st.Cardinality)
	}
	return buf.String()
}
