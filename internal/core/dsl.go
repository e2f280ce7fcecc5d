package core

// Select adds values to the select list of the query they were navigated
// from and returns that query. Values may be placeholders, join proxies,
// functions or subqueries. Selecting the root proxy alone yields the bare
// "from" form; alongside other values it selects the root alias.
func (s *Session) Select(values ...any) *Query {
	return dispatch[*Query](s, "select", selectHandler{}, values...)
}

// InnerJoin joins the entity reached by v and returns a proxy for it.
func (s *Session) InnerJoin(v any) *Proxy {
	return dispatch[*Proxy](s, "innerJoin", joinHandler{kind: InnerJoin}, v)
}

// LeftJoin left-joins the entity reached by v and returns a proxy for it.
func (s *Session) LeftJoin(v any) *Proxy {
	return dispatch[*Proxy](s, "leftJoin", joinHandler{kind: LeftJoin}, v)
}

// RightJoin right-joins the entity reached by v and returns a proxy for it.
func (s *Session) RightJoin(v any) *Proxy {
	return dispatch[*Proxy](s, "rightJoin", joinHandler{kind: RightJoin}, v)
}

// Where opens the where clause of the scope v was navigated from.
// A scope accepts a single where clause; extend it with And and Or.
func (s *Session) Where(v any) *OnGoingCondition {
	return dispatch[*OnGoingCondition](s, "where", conditionHandler{clause: clauseWhere}, v)
}

// WhereGroup attaches cond, built with Condition, as a parenthesized where
// clause of its scope.
func (s *Session) WhereGroup(cond *OnGoingLogicalCondition) *OnGoingLogicalCondition {
	if len(s.stack) == 0 {
		fail("whereGroup", ErrNoActiveQuery)
	}
	if cond == nil || cond.tree.Empty() {
		fail("whereGroup", ErrInvalidOperand)
	}
	tree := newConditionTree(cond.tree.scope)
	tree.add(&grouping{inner: cond.tree.root}, opAnd)
	if err := cond.tree.scope.SetWhereClause(tree); err != nil {
		fail("whereGroup", err)
	}
	return &OnGoingLogicalCondition{session: s, tree: tree}
}

// Condition opens a condition that is not attached to any clause. Attach
// it with WhereGroup, AndGroup, OrGroup or HavingGroup.
func (s *Session) Condition(v any) *OnGoingCondition {
	return dispatch[*OnGoingCondition](s, "condition", conditionHandler{clause: clauseDetached}, v)
}

// With opens the with clause of the join scope v was navigated from.
func (s *Session) With(v any) *OnGoingCondition {
	return dispatch[*OnGoingCondition](s, "with", conditionHandler{clause: clauseWith}, v)
}

// OrderBy appends values to the order by list of their scopes.
func (s *Session) OrderBy(values ...any) {
	dispatch[struct{}](s, "orderBy", orderHandler{}, values...)
}

// Asc orders by v ascending.
func (s *Session) Asc(v any) *OrderSelector {
	return dispatch[*OrderSelector](s, "asc", directionHandler{direction: Ascending}, v)
}

// Desc orders by v descending.
func (s *Session) Desc(v any) *OrderSelector {
	return dispatch[*OrderSelector](s, "desc", directionHandler{direction: Descending}, v)
}

// GroupBy sets the group by list of the scope the first value was navigated from.
func (s *Session) GroupBy(values ...any) *OnGoingGroupBy {
	return dispatch[*OnGoingGroupBy](s, "groupBy", groupByHandler{}, values...)
}

func (s *Session) function(kind FunctionKind, values ...any) *Function {
	return dispatch[*Function](s, string(kind), functionHandler{kind: kind}, values...)
}

// Count renders count(v). Passing a scope proxy counts entities.
func (s *Session) Count(v any) *Function { return s.function(FuncCount, v) }

// Sum renders sum(v).
func (s *Session) Sum(v any) *Function { return s.function(FuncSum, v) }

// Min renders min(v).
func (s *Session) Min(v any) *Function { return s.function(FuncMin, v) }

// Max renders max(v).
func (s *Session) Max(v any) *Function { return s.function(FuncMax, v) }

// Avg renders avg(v).
func (s *Session) Avg(v any) *Function { return s.function(FuncAvg, v) }

// Coalesce renders coalesce(a, b, ...). Plain values are bound as parameters.
func (s *Session) Coalesce(values ...any) *Function { return s.function(FuncCoalesce, values...) }

// Distinct renders "distinct v", usable alone or inside Count.
func (s *Session) Distinct(v any) *Function { return s.function(FuncDistinct, v) }

// Size renders size(v) for a collection property.
func (s *Session) Size(v any) *Function { return s.function(FuncSize, v) }

// Lower renders lower(v).
func (s *Session) Lower(v any) *Function { return s.function(FuncLower, v) }

// Upper renders upper(v).
func (s *Session) Upper(v any) *Function { return s.function(FuncUpper, v) }

// Length renders length(v).
func (s *Session) Length(v any) *Function { return s.function(FuncLength, v) }
