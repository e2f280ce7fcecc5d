package core

// OrderBy holds the order by selectors of one scope.
type OrderBy struct {
	selectors []Selector
}

// Add appends a selector.
func (o *OrderBy) Add(s Selector) {
	o.selectors = append(o.selectors, s)
}

// Selectors returns the selectors in insertion order.
func (o *OrderBy) Selectors() []Selector {
	if o == nil {
		return nil
	}
	return o.selectors
}

// GroupBy holds the group by selectors of one scope and its having clause.
type GroupBy struct {
	selectors []Selector
	having    *ConditionTree
}

// Selectors returns the grouping selectors in insertion order.
func (g *GroupBy) Selectors() []Selector {
	if g == nil {
		return nil
	}
	return g.selectors
}

// Having returns the having clause, nil when none was set.
func (g *GroupBy) Having() *ConditionTree {
	if g == nil {
		return nil
	}
	return g.having
}
