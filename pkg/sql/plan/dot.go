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
	"fmt"

	"github.com/emicklei/dot"
)

// FormatDot renders the plan rooted at the given node in Graphviz dot format,
// with one box per node and edges from parent to child.
func FormatDot(root Node) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")
	nextID := 0
	var walk func(n Node) dot.Node
	walk = func(n Node) dot.Node {
		nextID++
		dn := g.Node(fmt.Sprintf("n%d", nextID)).
			Attr("shape", "box").
			Attr("label", describe(n))
		for i := 0; i < n.ChildCount(); i++ {
			g.Edge(dn, walk(n.Child(i).Node()))
		}
		return dn
	}
	walk(root)
	return g.String()
}
