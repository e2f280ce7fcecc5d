package core

import (
	"reflect"
	"testing"

	"github.com/coregx/torpedo/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityOf[T any](t *testing.T) *util.EntityInfo {
	t.Helper()
	info, err := util.InspectEntity(reflect.TypeOf((*T)(nil)).Elem())
	require.NoError(t, err)
	return info
}

// TestBuilder_FreezeIsIdempotent tests that text and parameters are computed once.
func TestBuilder_FreezeIsIdempotent(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	tree := newConditionTree(b)
	tree.add(&comparison{
		left:  NewPathSelector(b, "age"),
		op:    ">",
		right: &valueOperand{param: NewPathSelector(b, "age").Parameter(18)},
	}, opAnd)
	require.NoError(t, b.SetWhereClause(tree))

	first := b.Text()
	assert.True(t, b.Frozen())
	assert.Equal(t, "from Person person_0 where person_0.age > :age_0", first)

	// Mutations after the freeze are not visible.
	b.AddSelector(NewPathSelector(b, "name"))
	assert.Equal(t, first, b.Text())
	assert.Equal(t, map[string]any{"age_0": 18}, b.Parameters())
}

// TestBuilder_ParametersReturnsCopy tests that callers cannot alter the frozen map.
func TestBuilder_ParametersReturnsCopy(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	tree := newConditionTree(b)
	tree.add(&comparison{
		left:  NewPathSelector(b, "name"),
		op:    "=",
		right: &valueOperand{param: NewPathSelector(b, "name").Parameter("bob")},
	}, opAnd)
	require.NoError(t, b.SetWhereClause(tree))

	params := b.Parameters()
	params["name_0"] = "mallory"
	params["extra"] = 1

	assert.Equal(t, map[string]any{"name_0": "bob"}, b.Parameters())
}

// TestBuilder_SingleWhereClause tests that a scope accepts one where clause.
func TestBuilder_SingleWhereClause(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	require.NoError(t, b.SetWhereClause(newConditionTree(b)))
	assert.ErrorIs(t, b.SetWhereClause(newConditionTree(b)), ErrWhereClauseSet)
}

// TestBuilder_EmptyWhereYieldsNoClause tests that an empty tree renders nothing.
func TestBuilder_EmptyWhereYieldsNoClause(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	require.NoError(t, b.SetWhereClause(newConditionTree(b)))
	assert.Equal(t, "from Person person_0", b.Text())
	assert.Empty(t, b.Parameters())
}

// TestBuilder_AliasNumbering tests that aliases follow request order and stay memoized.
func TestBuilder_AliasNumbering(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	first := b.AddJoin(InnerJoin, entityOf[Address](t), "address")
	second := b.AddJoin(LeftJoin, entityOf[Order](t), "orders")
	nested := second.Scope.AddJoin(InnerJoin, entityOf[Item](t), "items")

	// Selecting from the nested join requests its alias before the others.
	b.AddSelector(NewPathSelector(nested.Scope, "name"))

	assert.Equal(t,
		"select item_1.name from Person person_0 inner join person_0.address address_2 "+
			"left join person_0.orders order_3 inner join order_3.items item_1",
		b.Text())

	c := &Counter{n: 99}
	assert.Equal(t, "address_2", first.Scope.Alias(c), "aliases are memoized")
	assert.Equal(t, 99, c.n)
}

// TestBuilder_JoinOrder tests that nested joins render right after their parent.
func TestBuilder_JoinOrder(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	orders := b.AddJoin(InnerJoin, entityOf[Order](t), "orders")
	orders.Scope.AddJoin(LeftJoin, entityOf[Item](t), "items")
	b.AddJoin(RightJoin, entityOf[Address](t), "address")

	assert.Equal(t,
		"from Person person_0 inner join person_0.orders order_1 left join order_1.items item_2 "+
			"right join person_0.address address_3",
		b.Text())
}

// TestBuilder_ParameterCollectionOrder tests where, with, joins, having ordering.
func TestBuilder_ParameterCollectionOrder(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	join := b.AddJoin(InnerJoin, entityOf[Address](t), "address")

	cmp := func(scope *Builder, prop string, v any) Condition {
		sel := NewPathSelector(scope, prop)
		return &comparison{left: sel, op: "=", right: &valueOperand{param: sel.Parameter(v)}}
	}

	group := b.SetGroupBy(NewPathSelector(b, "age"))
	group.having = newConditionTree(b)
	group.having.add(cmp(b, "age", 1), opAnd)

	with := newConditionTree(join.Scope)
	with.add(cmp(join.Scope, "city", "x"), opAnd)
	join.Scope.SetWithClause(with)

	where := newConditionTree(b)
	where.add(cmp(b, "name", "n"), opAnd)
	require.NoError(t, b.SetWhereClause(where))

	names := make([]string, 0, 3)
	for _, p := range b.ValueParameters() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name_2", "city_1", "age_0"}, names)
}

// TestBuilder_SubqueryFragment tests that a subquery shares the outer counter.
func TestBuilder_SubqueryFragment(t *testing.T) {
	sub := NewBuilder(entityOf[Order](t))
	sub.AddSelector(NewPathSelector(sub, "total"))

	c := &Counter{n: 3}
	assert.Equal(t, "(select order_3.total from Order order_3)", sub.Fragment(c))
	assert.Equal(t, 4, c.n)
	assert.Equal(t, "select order_3.total from Order order_3", sub.Text())
}

// TestFunction_Fragment tests function rendering.
func TestFunction_Fragment(t *testing.T) {
	b := NewBuilder(entityOf[Person](t))
	name := NewPathSelector(b, "name")

	tests := []struct {
		fn   *Function
		want string
	}{
		{NewFunction(FuncCount, b, &EntitySelector{scope: b}), "count(person_0)"},
		{NewFunction(FuncDistinct, b, name), "distinct person_0.name"},
		{NewFunction(FuncCount, b, NewFunction(FuncDistinct, b, name)), "count(distinct person_0.name)"},
		{NewFunction(FuncCoalesce, b, name, NewPathSelector(b, "password")), "coalesce(person_0.name, person_0.password)"},
		{NewFunction(FuncUpper, nil, name), "upper(person_0.name)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn.Fragment(&Counter{}))
		})
	}
}
