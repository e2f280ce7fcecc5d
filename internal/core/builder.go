package core

import (
	"maps"
	"strconv"
	"strings"

	"github.com/coregx/torpedo/internal/util"
)

// Builder accumulates the clauses of one query scope and freezes them
// into query text plus a parameter map.
//
// A root query, every join and every subquery is a Builder. Join scopes
// are not frozen on their own; their clauses render inside the root.
//
// Freezing happens once: later calls to Text or Parameters return the
// memoized result and further mutation has no visible effect.
type Builder struct {
	entity *util.EntityInfo
	names  *nameGenerator

	selectors []Selector
	joins     []*Join
	where     *ConditionTree
	with      *ConditionTree
	orderBy   *OrderBy
	groupBy   *GroupBy

	firstResult int
	maxResults  int

	alias  string
	frozen *frozenQuery
}

type frozenQuery struct {
	text   string
	values []*ValueParameter
	params map[string]any
}

// NewBuilder creates a root builder for entity with its own parameter names.
func NewBuilder(entity *util.EntityInfo) *Builder {
	return newScope(entity, &nameGenerator{})
}

func newScope(entity *util.EntityInfo, names *nameGenerator) *Builder {
	return &Builder{entity: entity, names: names}
}

// Entity returns the entity metadata of the scope.
func (b *Builder) Entity() *util.EntityInfo {
	return b.entity
}

// EntityName returns the mapping name used in the from clause.
func (b *Builder) EntityName() string {
	return b.entity.Name
}

// AddSelector appends a selector to the select list.
func (b *Builder) AddSelector(s Selector) {
	b.selectors = append(b.selectors, s)
}

// Selectors returns the select list.
func (b *Builder) Selectors() []Selector {
	return b.selectors
}

// AddJoin creates a child scope for entity reached through path.
func (b *Builder) AddJoin(kind JoinKind, entity *util.EntityInfo, path ...string) *Join {
	j := &Join{
		Kind:  kind,
		Path:  path,
		Scope: newScope(entity, b.names),
	}
	b.joins = append(b.joins, j)
	return j
}

// Joins returns the joins declared on this scope.
func (b *Builder) Joins() []*Join {
	return b.joins
}

// AddOrder appends an order by selector to this scope.
func (b *Builder) AddOrder(s Selector) {
	if b.orderBy == nil {
		b.orderBy = &OrderBy{}
	}
	b.orderBy.Add(s)
}

// SetGroupBy sets the group by clause of this scope.
func (b *Builder) SetGroupBy(selectors ...Selector) *GroupBy {
	b.groupBy = &GroupBy{selectors: selectors}
	return b.groupBy
}

// SetWhereClause attaches tree as the where clause. A scope accepts one.
func (b *Builder) SetWhereClause(tree *ConditionTree) error {
	if b.where != nil {
		return ErrWhereClauseSet
	}
	b.where = tree
	return nil
}

// Where returns the where clause, nil when none was attached.
func (b *Builder) Where() *ConditionTree {
	return b.where
}

// SetWithClause attaches tree as the with clause of a join scope.
func (b *Builder) SetWithClause(tree *ConditionTree) {
	b.with = tree
}

// With returns the with clause, nil when none was attached.
func (b *Builder) With() *ConditionTree {
	return b.with
}

// SetFirstResult sets the position of the first result to retrieve.
func (b *Builder) SetFirstResult(n int) {
	b.firstResult = n
}

// FirstResult returns the position of the first result.
func (b *Builder) FirstResult() int {
	return b.firstResult
}

// SetMaxResults sets the maximum number of results to retrieve.
func (b *Builder) SetMaxResults(n int) {
	b.maxResults = n
}

// MaxResults returns the maximum number of results.
func (b *Builder) MaxResults() int {
	return b.maxResults
}

// Alias returns the scope alias, assigning it from c on first request.
func (b *Builder) Alias(c *Counter) string {
	if b.alias == "" {
		b.alias = util.LowerFirst(b.entity.Name) + "_" + strconv.Itoa(c.Next())
	}
	return b.alias
}

// Frozen reports whether the text has been computed.
func (b *Builder) Frozen() bool {
	return b.frozen != nil
}

// Text freezes the builder if needed and returns the query text.
func (b *Builder) Text() string {
	return b.freeze(&Counter{}).text
}

// Parameters returns a copy of the frozen parameter map.
func (b *Builder) Parameters() map[string]any {
	return maps.Clone(b.freeze(&Counter{}).params)
}

// ValueParameters returns the parameters in collection order: select list,
// where, with, joins, order by, group by, having. Subquery parameters are
// flattened.
func (b *Builder) ValueParameters() []*ValueParameter {
	if b.frozen != nil {
		return b.frozen.values
	}
	return flatten(b.parameters())
}

// Fragment renders the builder as a parenthesized subquery, sharing c with
// the enclosing query.
func (b *Builder) Fragment(c *Counter) string {
	return "(" + b.freeze(c).text + ")"
}

// Parameter names a parameter compared against this subquery.
func (b *Builder) Parameter(value any) *ValueParameter {
	return b.newParameter(util.LowerFirst(b.entity.Name), value)
}

func (b *Builder) newParameter(base string, value any) *ValueParameter {
	return &ValueParameter{Name: b.names.next(base), Value: value}
}

func (b *Builder) parameters() []Parameter {
	params := selectorsParameters(b.selectors)
	params = append(params, b.where.Parameters()...)
	params = append(params, b.with.Parameters()...)
	for _, j := range b.joins {
		params = append(params, j.Scope.parameters()...)
	}
	params = append(params, selectorsParameters(b.orderBy.Selectors())...)
	params = append(params, selectorsParameters(b.groupBy.Selectors())...)
	params = append(params, b.groupBy.Having().Parameters()...)
	return params
}

func (b *Builder) freeze(c *Counter) *frozenQuery {
	if b.frozen != nil {
		return b.frozen
	}

	from := "from " + b.entity.Name + " " + b.Alias(c)

	parts := make([]string, 0, 8)
	if len(b.selectors) > 0 {
		parts = append(parts, "select "+joinFragments(b.selectors, c))
	}
	parts = append(parts, from)
	parts = b.appendJoins(parts, c)

	wheres := b.collectWheres(nil)
	for i, w := range wheres {
		frag := w.Fragment(c)
		if len(wheres) > 1 && w.isDisjunction() {
			frag = "(" + frag + ")"
		}
		if i == 0 {
			parts = append(parts, "where "+frag)
		} else {
			parts = append(parts, "and "+frag)
		}
	}

	if orders := b.collectOrders(nil); len(orders) > 0 {
		parts = append(parts, "order by "+joinFragments(orders, c))
	}

	groups, havings := b.collectGroups(nil, nil)
	if len(groups) > 0 {
		parts = append(parts, "group by "+joinFragments(groups, c))
	}
	if len(havings) > 0 {
		frags := make([]string, len(havings))
		for i, h := range havings {
			frags[i] = h.Fragment(c)
			if len(havings) > 1 && h.isDisjunction() {
				frags[i] = "(" + frags[i] + ")"
			}
		}
		parts = append(parts, "having "+strings.Join(frags, " and "))
	}

	values := flatten(b.parameters())
	params := make(map[string]any, len(values))
	for _, v := range values {
		params[v.Name] = v.Value
	}

	b.frozen = &frozenQuery{
		text:   strings.TrimSpace(strings.Join(parts, " ")),
		values: values,
		params: params,
	}
	return b.frozen
}

func (b *Builder) appendJoins(parts []string, c *Counter) []string {
	for _, j := range b.joins {
		parts = append(parts, j.fragment(b, c))
		parts = j.Scope.appendJoins(parts, c)
	}
	return parts
}

func (b *Builder) collectWheres(acc []*ConditionTree) []*ConditionTree {
	if !b.where.Empty() {
		acc = append(acc, b.where)
	}
	for _, j := range b.joins {
		acc = j.Scope.collectWheres(acc)
	}
	return acc
}

func (b *Builder) collectOrders(acc []Selector) []Selector {
	acc = append(acc, b.orderBy.Selectors()...)
	for _, j := range b.joins {
		acc = j.Scope.collectOrders(acc)
	}
	return acc
}

func (b *Builder) collectGroups(groups []Selector, havings []*ConditionTree) ([]Selector, []*ConditionTree) {
	groups = append(groups, b.groupBy.Selectors()...)
	if h := b.groupBy.Having(); !h.Empty() {
		havings = append(havings, h)
	}
	for _, j := range b.joins {
		groups, havings = j.Scope.collectGroups(groups, havings)
	}
	return groups, havings
}

func joinFragments(selectors []Selector, c *Counter) string {
	frags := make([]string, len(selectors))
	for i, s := range selectors {
		frags[i] = s.Fragment(c)
	}
	return strings.Join(frags, ", ")
}
