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

// Package treeprinter generates ASCII art representations of hierarchical
// structures. Building a tree is done through Node handles:
//
//	tp := treeprinter.New()
//	root := tp.Child("root")
//	root.Child("child-1")
//	child2 := root.Child("child-2")
//	child2.Child("grandchild")
//
// The resulting string (via tp.String()) is:
//
//	root
//	 ├── child-1
//	 └── child-2
//	      └── grandchild
package treeprinter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	edgeLink = " │   "
	edgeMid  = " ├── "
	edgeLast = " └── "
	edgeNone = "     "
)

type node struct {
	text     string
	children []*node
}

// Node is a handle for a node in the tree. Children can be added to it; the
// full tree is rendered by calling String on the root handle.
type Node struct {
	n *node
}

// New creates a tree printer and returns its (invisible) root node. Children
// of the root node render at the left margin.
func New() Node {
	return Node{n: &node{}}
}

// Child adds a node as a child of the given node. The text can contain
// newlines; continuation lines are aligned under the first.
func (tp Node) Child(text string) Node {
	c := &node{text: text}
	tp.n.children = append(tp.n.children, c)
	return Node{n: c}
}

// Childf adds a node as a child of the given node, formatting the text as
// fmt.Sprintf would.
func (tp Node) Childf(format string, args ...interface{}) Node {
	return tp.Child(fmt.Sprintf(format, args...))
}

// String renders the subtree rooted at this node.
func (tp Node) String() string {
	var buf bytes.Buffer
	for _, c := range tp.n.children {
		c.format(&buf, "", "")
	}
	return buf.String()
}

// format renders the node with the given prefix and renders its children with
// prefixes derived from childPrefix.
func (n *node) format(buf *bytes.Buffer, prefix, childPrefix string) {
	for i, line := range strings.Split(n.text, "\n") {
		if i == 0 {
			buf.WriteString(prefix)
		} else {
			buf.WriteString(childPrefix)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	for i, c := range n.children {
		if i == len(n.children)-1 {
			c.format(buf, childPrefix+edgeLast, childPrefix+edgeNone)
		} else {
			c.format(buf, childPrefix+edgeMid, childPrefix+edgeLink)
		}
	}
}
