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

package exprgen

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type sexpKind int

const (
	// atomExpr is a bare token: an operator name, a column reference, or an
	// unquoted literal.
	atomExpr sexpKind = iota

	// stringExpr is a single-quoted string literal.
	stringExpr

	// listExpr is a parenthesized operator application.
	listExpr

	// bracketExpr is a bracketed list of items, used for predicate,
	// projection and sort column lists.
	bracketExpr
)

// sexp is one node of the parsed input.
type sexp struct {
	kind sexpKind
	atom string
	list []sexp
}

func (e sexp) String() string {
	switch e.kind {
	case atomExpr:
		return e.atom
	case stringExpr:
		return "'" + e.atom + "'"
	}
	opener, closer := "(", ")"
	if e.kind == bracketExpr {
		opener, closer = "[", "]"
	}
	var sb strings.Builder
	sb.WriteString(opener)
	for i, item := range e.list {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteString(closer)
	return sb.String()
}

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokOpenBracket
	tokCloseBracket
	tokAtom
	tokString
)

type token struct {
	kind tokenKind
	s    string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokOpen:
		return "("
	case tokClose:
		return ")"
	case tokOpenBracket:
		return "["
	case tokCloseBracket:
		return "]"
	case tokString:
		return "'" + t.s + "'"
	}
	return t.s
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '\'':
		return true
	}
	return false
}

func tokenize(input string) ([]token, error) {
	var toks []token
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokOpen, pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokClose, pos: i})
			i++
		case c == '[':
			toks = append(toks, token{kind: tokOpenBracket, pos: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokCloseBracket, pos: i})
			i++
		case c == '\'':
			end := strings.IndexByte(input[i+1:], '\'')
			if end < 0 {
				return nil, errors.Newf("unterminated string literal at offset %d", i)
			}
			toks = append(toks, token{kind: tokString, s: input[i+1 : i+1+end], pos: i})
			i += end + 2
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			toks = append(toks, token{kind: tokAtom, s: input[start:i], pos: start})
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	i    int
}

// parse reads the input as a single s-expression.
func parse(input string) (sexp, error) {
	toks, err := tokenize(input)
	if err != nil {
		return sexp{}, err
	}
	p := parser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return sexp{}, err
	}
	if p.i != len(p.toks) {
		return sexp{}, errors.Newf(
			"unexpected %s after expression at offset %d", p.toks[p.i], p.toks[p.i].pos,
		)
	}
	return e, nil
}

func (p *parser) parseExpr() (sexp, error) {
	if p.i >= len(p.toks) {
		return sexp{}, errors.New("unexpected end of input")
	}
	tok := p.toks[p.i]
	p.i++
	switch tok.kind {
	case tokAtom:
		return sexp{kind: atomExpr, atom: tok.s}, nil
	case tokString:
		return sexp{kind: stringExpr, atom: tok.s}, nil
	case tokOpen:
		return p.parseList(listExpr, tokClose, ")")
	case tokOpenBracket:
		return p.parseList(bracketExpr, tokCloseBracket, "]")
	default:
		return sexp{}, errors.Newf("unexpected %s at offset %d", tok, tok.pos)
	}
}

func (p *parser) parseList(kind sexpKind, closer tokenKind, closerText string) (sexp, error) {
	e := sexp{kind: kind}
	for {
		if p.i >= len(p.toks) {
			return sexp{}, errors.Newf("missing closing %q", closerText)
		}
		if p.toks[p.i].kind == closer {
			p.i++
			return e, nil
		}
		item, err := p.parseExpr()
		if err != nil {
			return sexp{}, err
		}
		e.list = append(e.list, item)
	}
}
