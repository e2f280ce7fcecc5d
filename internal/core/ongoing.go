package core

import (
	"fmt"
	"reflect"
)

// OnGoingCondition is a condition waiting for its comparator.
type OnGoingCondition struct {
	session *Session
	tree    *ConditionTree
	left    Selector
	op      string
}

// OnGoingLogicalCondition is a completed condition that can be extended.
type OnGoingLogicalCondition struct {
	session *Session
	tree    *ConditionTree
}

// Tree returns the condition tree being built.
func (l *OnGoingLogicalCondition) Tree() *ConditionTree {
	return l.tree
}

// And extends the tree with a conjunction on v.
func (l *OnGoingLogicalCondition) And(v any) *OnGoingCondition {
	return l.extend("and", opAnd, v)
}

// Or extends the tree with a disjunction on v.
func (l *OnGoingLogicalCondition) Or(v any) *OnGoingCondition {
	return l.extend("or", opOr, v)
}

// AndGroup appends cond as a parenthesized conjunction.
func (l *OnGoingLogicalCondition) AndGroup(cond *OnGoingLogicalCondition) *OnGoingLogicalCondition {
	return l.group("and", opAnd, cond)
}

// OrGroup appends cond as a parenthesized disjunction.
func (l *OnGoingLogicalCondition) OrGroup(cond *OnGoingLogicalCondition) *OnGoingLogicalCondition {
	return l.group("or", opOr, cond)
}

func (l *OnGoingLogicalCondition) extend(verb, op string, v any) *OnGoingCondition {
	s := l.session
	left, err := s.selector(s.resolve(verb, v))
	if err != nil {
		fail(verb, err)
	}
	return &OnGoingCondition{session: s, tree: l.tree, left: left, op: op}
}

func (l *OnGoingLogicalCondition) group(verb, op string, cond *OnGoingLogicalCondition) *OnGoingLogicalCondition {
	if cond == nil || cond.tree.Empty() {
		fail(verb, fmt.Errorf("%w: empty condition group", ErrInvalidOperand))
	}
	l.tree.add(&grouping{inner: cond.tree.root}, op)
	return l
}

func (c *OnGoingCondition) complete(cond Condition) *OnGoingLogicalCondition {
	c.tree.add(cond, c.op)
	return &OnGoingLogicalCondition{session: c.session, tree: c.tree}
}

// operand converts a comparator argument. Literals become parameters named
// after the left-hand side.
func (c *OnGoingCondition) operand(verb string, v any) operand {
	s := c.session
	switch v := v.(type) {
	case *Proxy:
		sel, err := s.selector(s.resolve(verb, v))
		if err != nil {
			fail(verb, err)
		}
		return &selectorOperand{selector: sel}
	case *Query, *Builder:
		b, err := s.subquery(v)
		if err != nil {
			fail(verb, err)
		}
		return &subqueryOperand{query: b}
	case Selector:
		return &selectorOperand{selector: v}
	case *OnGoingLogicalCondition, *OnGoingCondition:
		fail(verb, fmt.Errorf("%w: a condition cannot be compared", ErrInvalidOperand))
	}
	return &valueOperand{param: c.left.Parameter(v)}
}

func (c *OnGoingCondition) compare(verb, op string, v any) *OnGoingLogicalCondition {
	return c.complete(&comparison{left: c.left, op: op, right: c.operand(verb, v)})
}

// Eq renders "left = value"; a nil value renders "left is null".
func (c *OnGoingCondition) Eq(v any) *OnGoingLogicalCondition {
	if isNil(v) {
		return c.IsNull()
	}
	return c.compare("eq", "=", v)
}

// Neq renders "left <> value"; a nil value renders "left is not null".
func (c *OnGoingCondition) Neq(v any) *OnGoingLogicalCondition {
	if isNil(v) {
		return c.IsNotNull()
	}
	return c.compare("neq", "<>", v)
}

// Lt renders "left < value".
func (c *OnGoingCondition) Lt(v any) *OnGoingLogicalCondition {
	return c.compare("lt", "<", v)
}

// Lte renders "left <= value".
func (c *OnGoingCondition) Lte(v any) *OnGoingLogicalCondition {
	return c.compare("lte", "<=", v)
}

// Gt renders "left > value".
func (c *OnGoingCondition) Gt(v any) *OnGoingLogicalCondition {
	return c.compare("gt", ">", v)
}

// Gte renders "left >= value".
func (c *OnGoingCondition) Gte(v any) *OnGoingLogicalCondition {
	return c.compare("gte", ">=", v)
}

// IsNull renders "left is null".
func (c *OnGoingCondition) IsNull() *OnGoingLogicalCondition {
	return c.complete(&unary{left: c.left, suffix: "is null"})
}

// IsNotNull renders "left is not null".
func (c *OnGoingCondition) IsNotNull() *OnGoingLogicalCondition {
	return c.complete(&unary{left: c.left, suffix: "is not null"})
}

// IsEmpty renders "left is empty" for a collection property.
func (c *OnGoingCondition) IsEmpty() *OnGoingLogicalCondition {
	return c.complete(&unary{left: c.left, suffix: "is empty"})
}

// IsNotEmpty renders "left is not empty".
func (c *OnGoingCondition) IsNotEmpty() *OnGoingLogicalCondition {
	return c.complete(&unary{left: c.left, suffix: "is not empty"})
}

// Like renders "left like pattern".
func (c *OnGoingCondition) Like(pattern string) *OnGoingLogicalCondition {
	return c.compare("like", "like", pattern)
}

// NotLike renders "left not like pattern".
func (c *OnGoingCondition) NotLike(pattern string) *OnGoingLogicalCondition {
	return c.compare("notLike", "not like", pattern)
}

// Contains matches values containing s.
func (c *OnGoingCondition) Contains(s string) *OnGoingLogicalCondition {
	return c.compare("contains", "like", "%"+s+"%")
}

// StartsWith matches values beginning with s.
func (c *OnGoingCondition) StartsWith(s string) *OnGoingLogicalCondition {
	return c.compare("startsWith", "like", s+"%")
}

// EndsWith matches values ending with s.
func (c *OnGoingCondition) EndsWith(s string) *OnGoingLogicalCondition {
	return c.compare("endsWith", "like", "%"+s)
}

// In renders "left in (:p)". Several values are bound as one collection
// parameter; a single value or slice is bound as is and a single subquery
// renders inline. No values fold to a condition that is always false.
func (c *OnGoingCondition) In(values ...any) *OnGoingLogicalCondition {
	return c.complete(c.membership("in", false, values))
}

// NotIn renders "left not in (:p)". No values fold to a condition that is always true.
func (c *OnGoingCondition) NotIn(values ...any) *OnGoingLogicalCondition {
	return c.complete(c.membership("notIn", true, values))
}

func (c *OnGoingCondition) membership(verb string, not bool, values []any) *membership {
	m := &membership{left: c.left, not: not}
	if len(values) == 1 {
		switch v := values[0].(type) {
		case *Query, *Builder:
			m.right = c.operand(verb, v)
			return m
		}
		if rv := reflect.ValueOf(values[0]); (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0 {
			m.empty = true
			return m
		}
		m.right = &valueOperand{param: c.left.Parameter(values[0])}
		return m
	}
	if len(values) == 0 {
		m.empty = true
		return m
	}
	m.right = &valueOperand{param: c.left.Parameter(values)}
	return m
}

// Between renders "left between from and to".
func (c *OnGoingCondition) Between(from, to any) *OnGoingLogicalCondition {
	return c.complete(&between{left: c.left, from: c.operand("between", from), to: c.operand("between", to)})
}

// NotBetween renders "left not between from and to".
func (c *OnGoingCondition) NotBetween(from, to any) *OnGoingLogicalCondition {
	return c.complete(&between{left: c.left, not: true, from: c.operand("notBetween", from), to: c.operand("notBetween", to)})
}

// MemberOf renders "value member of left", left being a collection.
func (c *OnGoingCondition) MemberOf(v any) *OnGoingLogicalCondition {
	return c.complete(&memberOf{collection: c.left, value: c.operand("memberOf", v)})
}

// NotMemberOf renders "value not member of left".
func (c *OnGoingCondition) NotMemberOf(v any) *OnGoingLogicalCondition {
	return c.complete(&memberOf{collection: c.left, not: true, value: c.operand("notMemberOf", v)})
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// OnGoingGroupBy is a group by clause that may receive a having clause.
type OnGoingGroupBy struct {
	session *Session
	group   *GroupBy
	scope   *Builder
}

// Having opens the having clause on v. Calling Having again extends the
// clause with a conjunction.
func (g *OnGoingGroupBy) Having(v any) *OnGoingCondition {
	s := g.session
	left, err := s.selector(s.resolve("having", v))
	if err != nil {
		fail("having", err)
	}
	if g.group.having == nil {
		g.group.having = newConditionTree(g.scope)
	}
	return &OnGoingCondition{session: s, tree: g.group.having, left: left, op: opAnd}
}

// HavingGroup attaches cond as a parenthesized having clause.
func (g *OnGoingGroupBy) HavingGroup(cond *OnGoingLogicalCondition) *OnGoingLogicalCondition {
	if cond == nil || cond.tree.Empty() {
		fail("having", fmt.Errorf("%w: empty condition group", ErrInvalidOperand))
	}
	if g.group.having == nil {
		g.group.having = newConditionTree(g.scope)
	}
	g.group.having.add(&grouping{inner: cond.tree.root}, opAnd)
	return &OnGoingLogicalCondition{session: g.session, tree: g.group.having}
}
