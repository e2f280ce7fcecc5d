package core

import (
	"fmt"
)

// argument is one DSL argument after capture resolution.
type argument struct {
	value      any
	invocation *Invocation
	scope      *Builder // set for a proxy bound to a root or join scope
}

// handler interprets the arguments of one DSL verb.
type handler[T any] interface {
	handle(s *Session, args []argument) (T, error)
}

// dispatch resolves values against the session's captures and runs h.
// A failure aborts the verb with a *BuildError.
func dispatch[T any](s *Session, op string, h handler[T], values ...any) T {
	if len(s.stack) == 0 {
		fail(op, ErrNoActiveQuery)
	}
	args := make([]argument, len(values))
	for i, v := range values {
		args[i] = s.resolve(op, v)
	}
	out, err := h.handle(s, args)
	if err != nil {
		fail(op, err)
	}
	return out
}

func (s *Session) resolve(op string, v any) argument {
	p, ok := v.(*Proxy)
	if !ok {
		return argument{value: v}
	}
	if p.session != s {
		fail(op, ErrNoActiveQuery)
	}
	if b, ok := s.scopes[p]; ok {
		return argument{value: v, scope: b}
	}
	if inv, ok := s.consume(p); ok {
		return argument{value: v, invocation: inv}
	}
	fail(op, ErrNoActiveQuery)
	return argument{}
}

// scopeOf returns the scope an argument was navigated from, nil for values.
func (a argument) scopeOf() *Builder {
	switch {
	case a.invocation != nil:
		return a.invocation.Scope
	case a.scope != nil:
		return a.scope
	}
	switch v := a.value.(type) {
	case *Function:
		return v.scope
	case *OrderSelector:
		if f, ok := v.Selector.(*Function); ok {
			return f.scope
		}
		if ps, ok := v.Selector.(*PathSelector); ok {
			return ps.scope
		}
		if es, ok := v.Selector.(*EntitySelector); ok {
			return es.scope
		}
	}
	return nil
}

// selector converts an argument to a Selector. Subqueries are released from
// the construction stack.
func (s *Session) selector(a argument) (Selector, error) {
	switch {
	case a.invocation != nil:
		return a.invocation.Selector(), nil
	case a.scope != nil:
		return &EntitySelector{scope: a.scope}, nil
	}
	switch v := a.value.(type) {
	case *Query, *Builder:
		b, err := s.subquery(v)
		if err != nil {
			return nil, err
		}
		return b, nil
	case Selector:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %T is not a selector", ErrInvalidOperand, a.value)
}

type selectHandler struct{}

func (selectHandler) handle(s *Session, args []argument) (*Query, error) {
	root := s.active()
	for _, a := range args {
		if sc := a.scopeOf(); sc != nil {
			root = s.rootOf(sc)
			break
		}
	}
	for _, a := range args {
		// Selecting the root entity alone is the bare from form.
		if len(args) == 1 && a.scope != nil && a.scope == root {
			continue
		}
		sel, err := s.selector(a)
		if err != nil {
			return nil, err
		}
		root.AddSelector(sel)
	}
	return &Query{session: s, builder: root}, nil
}

type joinHandler struct {
	kind JoinKind
}

func (h joinHandler) handle(s *Session, args []argument) (*Proxy, error) {
	inv := args[0].invocation
	if inv == nil {
		return nil, fmt.Errorf("%w: join requires a navigated property", ErrInvalidOperand)
	}
	if !inv.Property.Entity || inv.Result.entity == nil {
		return nil, fmt.Errorf("%w: cannot join %q", ErrNotEntity, inv.Property.Name)
	}
	j := inv.Scope.AddJoin(h.kind, inv.Result.entity, inv.Path...)
	p := &Proxy{session: s, entity: inv.Result.entity}
	s.scopes[p] = j.Scope
	s.roots[j.Scope] = s.rootOf(inv.Scope)
	return p, nil
}

type orderHandler struct{}

func (orderHandler) handle(s *Session, args []argument) (struct{}, error) {
	for _, a := range args {
		sel, err := s.selector(a)
		if err != nil {
			return struct{}{}, err
		}
		scope := a.scopeOf()
		if scope == nil {
			scope = s.active()
		}
		scope.AddOrder(sel)
	}
	return struct{}{}, nil
}

type directionHandler struct {
	direction OrderDirection
}

func (h directionHandler) handle(s *Session, args []argument) (*OrderSelector, error) {
	sel, err := s.selector(args[0])
	if err != nil {
		return nil, err
	}
	return &OrderSelector{Selector: sel, direction: h.direction}, nil
}

type groupByHandler struct{}

func (groupByHandler) handle(s *Session, args []argument) (*OnGoingGroupBy, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: group by requires at least one selector", ErrInvalidOperand)
	}
	selectors := make([]Selector, len(args))
	for i, a := range args {
		sel, err := s.selector(a)
		if err != nil {
			return nil, err
		}
		selectors[i] = sel
	}
	scope := args[0].scopeOf()
	if scope == nil {
		scope = s.active()
	}
	return &OnGoingGroupBy{session: s, group: scope.SetGroupBy(selectors...), scope: scope}, nil
}

type functionHandler struct {
	kind FunctionKind
}

func (h functionHandler) handle(s *Session, args []argument) (*Function, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s requires an argument", ErrInvalidOperand, h.kind)
	}
	selectors := make([]Selector, len(args))
	for i, a := range args {
		if isLiteral(a) {
			continue
		}
		sel, err := s.selector(a)
		if err != nil {
			return nil, err
		}
		selectors[i] = sel
	}
	// Resolved after the arguments: a subquery argument leaves the stack.
	scope := args[0].scopeOf()
	if scope == nil {
		scope = s.active()
	}
	if scope == nil {
		return nil, ErrNoActiveQuery
	}
	for i, a := range args {
		if selectors[i] == nil {
			selectors[i] = newLiteral(scope.names, string(h.kind), a.value)
		}
	}
	return NewFunction(h.kind, scope, selectors...), nil
}

// isLiteral reports whether a is a plain value rather than a navigation,
// selector, subquery or condition.
func isLiteral(a argument) bool {
	if a.invocation != nil || a.scope != nil || a.value == nil {
		return false
	}
	switch a.value.(type) {
	case *Proxy, *Query, Selector, *OnGoingCondition, *OnGoingLogicalCondition, *OnGoingGroupBy:
		return false
	}
	return true
}

// clause selects which condition tree of a scope a condition handler opens.
type clause int

const (
	clauseWhere clause = iota
	clauseWith
	clauseDetached
)

type conditionHandler struct {
	clause clause
}

func (h conditionHandler) handle(s *Session, args []argument) (*OnGoingCondition, error) {
	a := args[0]
	left, err := s.selector(a)
	if err != nil {
		return nil, err
	}
	scope := a.scopeOf()
	if scope == nil {
		scope = s.active()
	}

	switch h.clause {
	case clauseWhere:
		tree := newConditionTree(scope)
		if err := scope.SetWhereClause(tree); err != nil {
			return nil, err
		}
		return &OnGoingCondition{session: s, tree: tree, left: left, op: opAnd}, nil
	case clauseWith:
		if s.rootOf(scope) == scope {
			return nil, ErrNotJoinScope
		}
		tree := scope.With()
		if tree == nil {
			tree = newConditionTree(scope)
			scope.SetWithClause(tree)
		}
		return &OnGoingCondition{session: s, tree: tree, left: left, op: opAnd}, nil
	default:
		return &OnGoingCondition{session: s, tree: newConditionTree(scope), left: left, op: opAnd}, nil
	}
}
