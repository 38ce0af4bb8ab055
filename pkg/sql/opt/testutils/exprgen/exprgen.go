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

// Package exprgen builds plan trees from a compact s-expression notation,
// resolving table names through a catalog. It exists so that tests can state
// plans directly instead of going through a SQL frontend.
//
// Relational operators:
//
//	(scan t)                          scan of table t
//	(scan t u)                        scan of table t aliased as u
//	(filter [(lt t.x 50)] input)      filter with a list of predicates
//	(project [(as t.x a) ...] input)  projections, named with (as expr name)
//	(inner-join [conds] left right)
//	(left-join [conds] left right)
//	(cross-join left right)
//	(limit 10 input)                  limit, count "none" bounds only offset
//	(limit 10 5 input)                limit with offset
//	(sort [t.x (desc t.y)] input)
//	(empty input)                     empty result with input's columns
//
// Scalar operators are eq, lt, gt, le, ge, ne, between (inclusive bounds),
// and, or, not, func, constornull and cast. Atoms are column names (qualified
// as t.x or bare when unambiguous), numeric literals, 'string' literals,
// true, false and null. A literal compared against a column takes on the
// column's type. Projection outputs can only be referenced from enclosing
// operators if they were named with as.
package exprgen

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt"
	"github.com/quarrydb/quarry/pkg/sql/opt/cat"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/quarrydb/quarry/pkg/sql/sem/tree"
	"github.com/quarrydb/quarry/pkg/sql/types"
)

// Build parses the input notation and constructs the plan it describes. It
// returns the slot owning the root node and the display names of the bound
// columns, keyed by binding.
func Build(catalog cat.Catalog, input string) (*plan.Slot, map[opt.ColumnBinding]string, error) {
	e, err := parse(input)
	if err != nil {
		return nil, nil, err
	}
	b := &builder{catalog: catalog, names: make(map[opt.ColumnBinding]string)}
	root, err := b.buildNode(e)
	if err != nil {
		return nil, nil, err
	}
	slot := plan.MakeSlot(root)
	return &slot, b.names, nil
}

type builder struct {
	catalog cat.Catalog

	// nextIndex is the last table index handed out. Scans and projects get
	// indexes in the order they appear in the input, starting at 1.
	nextIndex opt.TableIndex

	names map[opt.ColumnBinding]string
}

func (b *builder) allocIndex() opt.TableIndex {
	b.nextIndex++
	return b.nextIndex
}

func (b *builder) recordColumns(cols []plan.Column) {
	for _, col := range cols {
		if col.Name != "" {
			b.names[col.Binding] = col.Name
		}
	}
}

func (b *builder) buildNode(e sexp) (plan.Node, error) {
	if e.kind != listExpr || len(e.list) == 0 || e.list[0].kind != atomExpr {
		return nil, errors.Newf("expected relational operator, found %s", e)
	}
	op := e.list[0].atom
	args := e.list[1:]
	switch op {
	case "scan":
		return b.buildScan(args)
	case "filter":
		return b.buildFilter(args)
	case "project":
		return b.buildProject(args)
	case "inner-join":
		return b.buildJoin(opt.InnerJoinOp, args)
	case "left-join":
		return b.buildJoin(opt.LeftJoinOp, args)
	case "cross-join":
		return b.buildCrossJoin(args)
	case "limit":
		return b.buildLimit(args)
	case "sort":
		return b.buildSort(args)
	case "empty":
		return b.buildEmpty(args)
	default:
		return nil, errors.Newf("unknown relational operator %q", op)
	}
}

func (b *builder) buildScan(args []sexp) (plan.Node, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errors.New("usage: (scan table [alias])")
	}
	name, err := atomArg(args[0], "table name")
	if err != nil {
		return nil, err
	}
	var alias string
	if len(args) == 2 {
		if alias, err = atomArg(args[1], "alias"); err != nil {
			return nil, err
		}
	}
	tab, err := b.catalog.ResolveTable(name)
	if err != nil {
		return nil, err
	}
	scan := plan.NewScan(tab, b.allocIndex(), alias)
	b.recordColumns(scan.Columns())
	return scan, nil
}

func (b *builder) buildFilter(args []sexp) (plan.Node, error) {
	if len(args) != 2 || args[0].kind != bracketExpr {
		return nil, errors.New("usage: (filter [predicates] input)")
	}
	input, err := b.buildNode(args[1])
	if err != nil {
		return nil, err
	}
	preds, err := b.buildPredicates(args[0].list, &scope{cols: input.Columns()})
	if err != nil {
		return nil, err
	}
	return plan.NewFilter(input, preds), nil
}

// buildPredicates builds each item of a bracketed list as a boolean scalar.
func (b *builder) buildPredicates(items []sexp, sc *scope) ([]plan.Expr, error) {
	preds := make([]plan.Expr, len(items))
	for i, item := range items {
		pred, err := b.buildScalar(item, sc, types.Bool)
		if err != nil {
			return nil, err
		}
		if pred.ResolvedType().Family() != types.BoolFamily {
			return nil, errors.Newf("predicate %s is not boolean", pred)
		}
		preds[i] = pred
	}
	return preds, nil
}

func (b *builder) buildProject(args []sexp) (plan.Node, error) {
	if len(args) != 2 || args[0].kind != bracketExpr {
		return nil, errors.New("usage: (project [projections] input)")
	}
	input, err := b.buildNode(args[1])
	if err != nil {
		return nil, err
	}
	sc := &scope{cols: input.Columns()}
	items := args[0].list
	projections := make([]plan.Expr, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		expr := item
		if item.kind == listExpr && len(item.list) > 0 &&
			item.list[0].kind == atomExpr && item.list[0].atom == "as" {
			if len(item.list) != 3 {
				return nil, errors.New("usage: (as expr name)")
			}
			if names[i], err = atomArg(item.list[2], "column name"); err != nil {
				return nil, err
			}
			expr = item.list[1]
		}
		if projections[i], err = b.buildScalar(expr, sc, nil); err != nil {
			return nil, err
		}
	}
	proj := plan.NewProject(input, projections, names, b.allocIndex())
	b.recordColumns(proj.Columns())
	return proj, nil
}

func (b *builder) buildJoin(joinType opt.Operator, args []sexp) (plan.Node, error) {
	if len(args) != 3 || args[0].kind != bracketExpr {
		return nil, errors.Newf("usage: (%v [conditions] left right)", joinType)
	}
	left, err := b.buildNode(args[1])
	if err != nil {
		return nil, err
	}
	right, err := b.buildNode(args[2])
	if err != nil {
		return nil, err
	}
	leftCols := left.Columns()
	cols := make([]plan.Column, 0, len(leftCols)+len(right.Columns()))
	cols = append(cols, leftCols...)
	cols = append(cols, right.Columns()...)
	conds, err := b.buildPredicates(args[0].list, &scope{cols: cols})
	if err != nil {
		return nil, err
	}
	return plan.NewJoin(joinType, left, right, conds), nil
}

func (b *builder) buildCrossJoin(args []sexp) (plan.Node, error) {
	if len(args) != 2 {
		return nil, errors.New("usage: (cross-join left right)")
	}
	left, err := b.buildNode(args[0])
	if err != nil {
		return nil, err
	}
	right, err := b.buildNode(args[1])
	if err != nil {
		return nil, err
	}
	return plan.NewCrossJoin(left, right), nil
}

func (b *builder) buildLimit(args []sexp) (plan.Node, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, errors.New("usage: (limit count [offset] input)")
	}
	count, err := limitArg(args[0], "row count")
	if err != nil {
		return nil, err
	}
	var offset int64
	if len(args) == 3 {
		if offset, err = limitArg(args[1], "offset"); err != nil {
			return nil, err
		}
		if offset == plan.NoLimit {
			return nil, errors.New(`offset cannot be "none"`)
		}
	}
	input, err := b.buildNode(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	return plan.NewLimit(input, count, offset), nil
}

// limitArg parses a limit count or offset. "none" stands for no bound.
func limitArg(e sexp, what string) (int64, error) {
	s, err := atomArg(e, what)
	if err != nil {
		return 0, err
	}
	if s == "none" {
		return plan.NoLimit, nil
	}
	d, err := tree.ParseDInt(s)
	if err != nil {
		return 0, err
	}
	if *d < 0 {
		return 0, errors.Newf("%s cannot be negative", what)
	}
	return int64(*d), nil
}

func (b *builder) buildSort(args []sexp) (plan.Node, error) {
	if len(args) != 2 || args[0].kind != bracketExpr {
		return nil, errors.New("usage: (sort [columns] input)")
	}
	input, err := b.buildNode(args[1])
	if err != nil {
		return nil, err
	}
	sc := &scope{cols: input.Columns()}
	sortCols := make([]plan.SortColumn, len(args[0].list))
	for i, item := range args[0].list {
		colItem := item
		if item.kind == listExpr && len(item.list) == 2 &&
			item.list[0].kind == atomExpr && item.list[0].atom == "desc" {
			sortCols[i].Descending = true
			colItem = item.list[1]
		}
		name, err := atomArg(colItem, "sort column")
		if err != nil {
			return nil, err
		}
		if sortCols[i].Col, err = sc.resolve(name); err != nil {
			return nil, err
		}
	}
	return plan.NewSort(input, sortCols), nil
}

// buildEmpty handles (empty input): the input subtree is built only to
// determine the column set and is then discarded.
func (b *builder) buildEmpty(args []sexp) (plan.Node, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: (empty input)")
	}
	input, err := b.buildNode(args[0])
	if err != nil {
		return nil, err
	}
	return plan.NewEmptyResult(input.Columns()), nil
}

var comparisonOps = map[string]opt.Operator{
	"eq": opt.EqOp,
	"lt": opt.LtOp,
	"gt": opt.GtOp,
	"le": opt.LeOp,
	"ge": opt.GeOp,
	"ne": opt.NeOp,
}

// buildScalar builds a scalar expression. want, when non-nil, is the type
// suggested by the surrounding context; untyped literals take it on.
func (b *builder) buildScalar(e sexp, sc *scope, want *types.T) (plan.Expr, error) {
	switch e.kind {
	case stringExpr:
		return &plan.ConstExpr{Value: tree.NewDString(e.atom), Typ: types.String}, nil
	case atomExpr:
		return b.buildAtom(e.atom, sc, want)
	case bracketExpr:
		return nil, errors.Newf("unexpected list %s in scalar context", e)
	}
	if len(e.list) == 0 || e.list[0].kind != atomExpr {
		return nil, errors.Newf("expected scalar operator, found %s", e)
	}
	op := e.list[0].atom
	args := e.list[1:]
	if cmp, ok := comparisonOps[op]; ok {
		return b.buildComparison(cmp, args, sc)
	}
	switch op {
	case "between":
		return b.buildBetween(args, sc)
	case "and", "or":
		return b.buildVariadicBool(op, args, sc)
	case "not":
		if len(args) != 1 {
			return nil, errors.New("usage: (not input)")
		}
		input, err := b.buildScalar(args[0], sc, types.Bool)
		if err != nil {
			return nil, err
		}
		if input.ResolvedType().Family() != types.BoolFamily {
			return nil, errors.Newf("operand %s of not is not boolean", input)
		}
		return &plan.NotExpr{Input: input}, nil
	case "func":
		return b.buildFunction(args, sc)
	case "constornull":
		return b.buildConstantOrNull(args, sc)
	case "cast":
		return b.buildCast(args, sc)
	case "as", "desc":
		return nil, errors.Newf("%q is not valid here", op)
	default:
		return nil, errors.Newf("unknown scalar operator %q", op)
	}
}

func (b *builder) buildComparison(op opt.Operator, args []sexp, sc *scope) (plan.Expr, error) {
	if len(args) != 2 {
		return nil, errors.Newf("comparison %v takes two operands", op)
	}
	var left, right plan.Expr
	var err error
	if isLiteral(args[0]) && !isLiteral(args[1]) {
		// Build the typed side first so the literal can take on its type.
		if right, err = b.buildScalar(args[1], sc, nil); err != nil {
			return nil, err
		}
		if left, err = b.buildScalar(args[0], sc, right.ResolvedType()); err != nil {
			return nil, err
		}
	} else {
		if left, err = b.buildScalar(args[0], sc, nil); err != nil {
			return nil, err
		}
		if right, err = b.buildScalar(args[1], sc, left.ResolvedType()); err != nil {
			return nil, err
		}
	}
	if !left.ResolvedType().Identical(right.ResolvedType()) {
		return nil, errors.Newf(
			"mismatched types %s and %s in comparison",
			left.ResolvedType(), right.ResolvedType(),
		)
	}
	return plan.NewComparisonExpr(op, left, right), nil
}

func (b *builder) buildBetween(args []sexp, sc *scope) (plan.Expr, error) {
	if len(args) != 3 {
		return nil, errors.New("usage: (between input lower upper)")
	}
	input, err := b.buildScalar(args[0], sc, nil)
	if err != nil {
		return nil, err
	}
	lower, err := b.buildScalar(args[1], sc, input.ResolvedType())
	if err != nil {
		return nil, err
	}
	upper, err := b.buildScalar(args[2], sc, input.ResolvedType())
	if err != nil {
		return nil, err
	}
	for _, bound := range []plan.Expr{lower, upper} {
		if !input.ResolvedType().Identical(bound.ResolvedType()) {
			return nil, errors.Newf(
				"mismatched types %s and %s in between",
				input.ResolvedType(), bound.ResolvedType(),
			)
		}
	}
	return &plan.BetweenExpr{
		Input: input, Lower: lower, Upper: upper,
		LowerInclusive: true, UpperInclusive: true,
	}, nil
}

func (b *builder) buildVariadicBool(op string, args []sexp, sc *scope) (plan.Expr, error) {
	if len(args) < 2 {
		return nil, errors.Newf("%s takes at least two operands", op)
	}
	operands := make([]plan.Expr, len(args))
	for i, arg := range args {
		operand, err := b.buildScalar(arg, sc, types.Bool)
		if err != nil {
			return nil, err
		}
		if operand.ResolvedType().Family() != types.BoolFamily {
			return nil, errors.Newf("operand %s of %s is not boolean", operand, op)
		}
		operands[i] = operand
	}
	result := operands[len(operands)-1]
	for i := len(operands) - 2; i >= 0; i-- {
		if op == "and" {
			result = &plan.AndExpr{Left: operands[i], Right: result}
		} else {
			result = &plan.OrExpr{Left: operands[i], Right: result}
		}
	}
	return result, nil
}

func (b *builder) buildFunction(args []sexp, sc *scope) (plan.Expr, error) {
	if len(args) < 2 {
		return nil, errors.New("usage: (func name type args...)")
	}
	name, err := atomArg(args[0], "function name")
	if err != nil {
		return nil, err
	}
	typName, err := atomArg(args[1], "function type")
	if err != nil {
		return nil, err
	}
	typ, err := types.Parse(typName)
	if err != nil {
		return nil, err
	}
	fnArgs := make([]plan.Expr, len(args)-2)
	for i, arg := range args[2:] {
		if fnArgs[i], err = b.buildScalar(arg, sc, nil); err != nil {
			return nil, err
		}
	}
	return &plan.FunctionExpr{Name: name, Typ: typ, Args: fnArgs}, nil
}

func (b *builder) buildConstantOrNull(args []sexp, sc *scope) (plan.Expr, error) {
	if len(args) < 1 {
		return nil, errors.New("usage: (constornull value args...)")
	}
	val, err := b.buildScalar(args[0], sc, nil)
	if err != nil {
		return nil, err
	}
	cnst, ok := val.(*plan.ConstExpr)
	if !ok {
		return nil, errors.Newf("constornull value %s is not a constant", val)
	}
	rest := make([]plan.Expr, len(args)-1)
	for i, arg := range args[1:] {
		if rest[i], err = b.buildScalar(arg, sc, nil); err != nil {
			return nil, err
		}
	}
	return &plan.ConstantOrNullExpr{Value: cnst.Value, Args: rest}, nil
}

func (b *builder) buildCast(args []sexp, sc *scope) (plan.Expr, error) {
	if len(args) != 2 {
		return nil, errors.New("usage: (cast input type)")
	}
	input, err := b.buildScalar(args[0], sc, nil)
	if err != nil {
		return nil, err
	}
	typName, err := atomArg(args[1], "cast type")
	if err != nil {
		return nil, err
	}
	typ, err := types.Parse(typName)
	if err != nil {
		return nil, err
	}
	return &plan.CastExpr{Input: input, Typ: typ}, nil
}

func (b *builder) buildAtom(s string, sc *scope, want *types.T) (plan.Expr, error) {
	switch s {
	case "true":
		return &plan.ConstExpr{Value: tree.DBoolTrue, Typ: types.Bool}, nil
	case "false":
		return &plan.ConstExpr{Value: tree.DBoolFalse, Typ: types.Bool}, nil
	case "null":
		typ := types.Unknown
		if want != nil {
			typ = want
		}
		return &plan.ConstExpr{Value: tree.DNull, Typ: typ}, nil
	}
	if looksNumeric(s) {
		typ := types.Int
		if strings.ContainsAny(s, ".eE") {
			typ = types.Float
		}
		if want != nil && want.IsNumeric() {
			typ = want
		}
		d, err := tree.ParseStringAs(typ, s)
		if err != nil {
			return nil, err
		}
		return &plan.ConstExpr{Value: d, Typ: typ}, nil
	}
	return sc.resolve(s)
}

// isLiteral reports whether the argument is a literal rather than a column
// reference or a nested expression.
func isLiteral(e sexp) bool {
	if e.kind == stringExpr {
		return true
	}
	if e.kind != atomExpr {
		return false
	}
	switch e.atom {
	case "true", "false", "null":
		return true
	}
	return looksNumeric(e.atom)
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if c == '-' || c == '+' {
		if len(s) == 1 {
			return false
		}
		c = s[1]
	}
	return c >= '0' && c <= '9' || c == '.'
}

func atomArg(e sexp, what string) (string, error) {
	if e.kind != atomExpr {
		return "", errors.Newf("expected %s, found %s", what, e)
	}
	return e.atom, nil
}

// scope is the set of columns visible to a scalar expression.
type scope struct {
	cols []plan.Column
}

// resolve looks up a column by name. A name without a qualifier matches any
// column whose name ends in ".name", as long as only one does.
func (s *scope) resolve(name string) (*plan.ColumnRefExpr, error) {
	ref, err := s.find(name, false)
	if err != nil {
		return nil, err
	}
	if ref == nil && !strings.Contains(name, ".") {
		if ref, err = s.find(name, true); err != nil {
			return nil, err
		}
	}
	if ref == nil {
		return nil, errors.Newf("column %q not in scope", name)
	}
	return ref, nil
}

// find looks for a column whose name matches. With bare set, the part of the
// column name after the last '.' is matched instead of the full name.
func (s *scope) find(name string, bare bool) (*plan.ColumnRefExpr, error) {
	var match *plan.Column
	for i := range s.cols {
		col := &s.cols[i]
		if col.Name == "" {
			continue
		}
		n := col.Name
		if bare {
			if j := strings.LastIndexByte(n, '.'); j >= 0 {
				n = n[j+1:]
			}
		}
		if n != name {
			continue
		}
		if match != nil {
			return nil, errors.Newf("ambiguous column %q", name)
		}
		match = col
	}
	if match == nil {
		return nil, nil
	}
	return &plan.ColumnRefExpr{Binding: match.Binding, Name: match.Name, Typ: match.Typ}, nil
}
