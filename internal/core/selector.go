package core

import (
	"strconv"
	"strings"

	"github.com/coregx/torpedo/internal/util"
)

// Counter hands out alias numbers during one freeze pass.
// The root query, its joins and its subqueries share one Counter.
type Counter struct {
	n int
}

// Next returns the current value and increments the counter.
func (c *Counter) Next() int {
	n := c.n
	c.n++
	return n
}

// nameGenerator produces parameter names unique within a session.
type nameGenerator struct {
	n int
}

func (g *nameGenerator) next(base string) string {
	name := base + "_" + strconv.Itoa(g.n)
	g.n++
	return name
}

// Selector is an expression destined for the select, order by or group by
// list, or used as a condition operand.
type Selector interface {
	// Fragment renders the expression, requesting aliases from c.
	Fragment(c *Counter) string
	// Parameter binds a runtime value compared against this expression.
	Parameter(value any) *ValueParameter
}

// PathSelector selects a property path reached from a scope.
type PathSelector struct {
	scope *Builder
	path  []string
}

// NewPathSelector creates a selector for path relative to scope.
func NewPathSelector(scope *Builder, path ...string) *PathSelector {
	return &PathSelector{scope: scope, path: path}
}

// Fragment renders alias.path.
func (s *PathSelector) Fragment(c *Counter) string {
	return s.scope.Alias(c) + "." + strings.Join(s.path, ".")
}

// Parameter names the parameter after the last property of the path.
func (s *PathSelector) Parameter(value any) *ValueParameter {
	return s.scope.newParameter(s.path[len(s.path)-1], value)
}

// Path returns the property names from the scope.
func (s *PathSelector) Path() []string {
	return s.path
}

// EntitySelector selects the entity of a scope itself.
type EntitySelector struct {
	scope *Builder
}

// Fragment renders the scope alias.
func (s *EntitySelector) Fragment(c *Counter) string {
	return s.scope.Alias(c)
}

// Parameter names the parameter after the entity.
func (s *EntitySelector) Parameter(value any) *ValueParameter {
	return s.scope.newParameter(util.LowerFirst(s.scope.EntityName()), value)
}

// FunctionKind identifies a query-language function.
type FunctionKind string

// Supported functions.
const (
	FuncCount    FunctionKind = "count"
	FuncSum      FunctionKind = "sum"
	FuncMin      FunctionKind = "min"
	FuncMax      FunctionKind = "max"
	FuncAvg      FunctionKind = "avg"
	FuncCoalesce FunctionKind = "coalesce"
	FuncDistinct FunctionKind = "distinct"
	FuncSize     FunctionKind = "size"
	FuncLower    FunctionKind = "lower"
	FuncUpper    FunctionKind = "upper"
	FuncLength   FunctionKind = "length"
)

// Function wraps one or more selectors in a function call.
type Function struct {
	kind  FunctionKind
	args  []Selector
	scope *Builder
	names *nameGenerator
}

// NewFunction creates a function selector. scope is the scope the first
// argument was navigated from; it names parameters and locates the root query.
func NewFunction(kind FunctionKind, scope *Builder, args ...Selector) *Function {
	f := &Function{kind: kind, args: args, scope: scope}
	if scope != nil {
		f.names = scope.names
	} else {
		f.names = &nameGenerator{}
	}
	return f
}

// Kind returns the function kind.
func (f *Function) Kind() FunctionKind {
	return f.kind
}

// Fragment renders kind(arg, ...); distinct renders as a prefix.
func (f *Function) Fragment(c *Counter) string {
	parts := make([]string, len(f.args))
	for i, arg := range f.args {
		parts[i] = arg.Fragment(c)
	}
	if f.kind == FuncDistinct {
		return "distinct " + strings.Join(parts, ", ")
	}
	return string(f.kind) + "(" + strings.Join(parts, ", ") + ")"
}

// Parameter names the parameter after the function.
func (f *Function) Parameter(value any) *ValueParameter {
	return &ValueParameter{Name: f.names.next(string(f.kind)), Value: value}
}

// Parameters returns the literal and subquery parameters of the arguments.
func (f *Function) Parameters() []Parameter {
	var params []Parameter
	for _, arg := range f.args {
		params = append(params, selectorParameters(arg)...)
	}
	return params
}

// literal is a runtime value passed as a function argument.
type literal struct {
	param *ValueParameter
	names *nameGenerator
}

func newLiteral(names *nameGenerator, base string, value any) *literal {
	return &literal{param: &ValueParameter{Name: names.next(base), Value: value}, names: names}
}

func (l *literal) Fragment(*Counter) string { return l.param.Fragment() }

func (l *literal) Parameter(value any) *ValueParameter {
	return &ValueParameter{Name: l.names.next("literal"), Value: value}
}

// selectorParameters returns the parameters a selector renders placeholders for.
func selectorParameters(sel Selector) []Parameter {
	switch v := sel.(type) {
	case *Builder:
		return []Parameter{&SubqueryParameters{query: v}}
	case *Function:
		return v.Parameters()
	case *literal:
		return []Parameter{v.param}
	case *OrderSelector:
		return selectorParameters(v.Selector)
	}
	return nil
}

func selectorsParameters(selectors []Selector) []Parameter {
	var params []Parameter
	for _, sel := range selectors {
		params = append(params, selectorParameters(sel)...)
	}
	return params
}

// OrderDirection is an order by direction.
type OrderDirection string

// Order directions.
const (
	Ascending  OrderDirection = "asc"
	Descending OrderDirection = "desc"
)

// OrderSelector decorates a selector with an order by direction.
type OrderSelector struct {
	Selector
	direction OrderDirection
}

// Fragment renders the selector followed by its direction.
func (o *OrderSelector) Fragment(c *Counter) string {
	return o.Selector.Fragment(c) + " " + string(o.direction)
}
