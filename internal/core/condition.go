package core

// Condition is a node of a condition tree.
type Condition interface {
	Fragment(c *Counter) string
	Parameters() []Parameter
}

// operand is the right-hand side of a comparison.
type operand interface {
	Fragment(c *Counter) string
	Parameters() []Parameter
}

type valueOperand struct {
	param *ValueParameter
}

func (o *valueOperand) Fragment(*Counter) string { return o.param.Fragment() }
func (o *valueOperand) Parameters() []Parameter  { return []Parameter{o.param} }

type selectorOperand struct {
	selector Selector
}

func (o *selectorOperand) Fragment(c *Counter) string { return o.selector.Fragment(c) }
func (o *selectorOperand) Parameters() []Parameter    { return selectorParameters(o.selector) }

type subqueryOperand struct {
	query *Builder
}

func (o *subqueryOperand) Fragment(c *Counter) string { return o.query.Fragment(c) }
func (o *subqueryOperand) Parameters() []Parameter {
	return []Parameter{&SubqueryParameters{query: o.query}}
}

// comparison renders "left op right".
type comparison struct {
	left  Selector
	op    string
	right operand
}

func (cmp *comparison) Fragment(c *Counter) string {
	return cmp.left.Fragment(c) + " " + cmp.op + " " + cmp.right.Fragment(c)
}

func (cmp *comparison) Parameters() []Parameter {
	return append(selectorParameters(cmp.left), cmp.right.Parameters()...)
}

// unary renders "left suffix", e.g. "is null" or "is not empty".
type unary struct {
	left   Selector
	suffix string
}

func (u *unary) Fragment(c *Counter) string {
	return u.left.Fragment(c) + " " + u.suffix
}

func (u *unary) Parameters() []Parameter { return selectorParameters(u.left) }

// membership renders "left [not ]in (values)"; an empty value list folds to a constant.
type membership struct {
	left  Selector
	not   bool
	right operand
	empty bool
}

func (m *membership) Fragment(c *Counter) string {
	if m.empty {
		if m.not {
			return "1 = 1"
		}
		return "1 = 0"
	}
	op := " in "
	if m.not {
		op = " not in "
	}
	right := m.right.Fragment(c)
	if _, ok := m.right.(*subqueryOperand); !ok {
		right = "(" + right + ")"
	}
	return m.left.Fragment(c) + op + right
}

func (m *membership) Parameters() []Parameter {
	if m.empty {
		return nil
	}
	return append(selectorParameters(m.left), m.right.Parameters()...)
}

type between struct {
	left     Selector
	not      bool
	from, to operand
}

func (b *between) Fragment(c *Counter) string {
	op := " between "
	if b.not {
		op = " not between "
	}
	return b.left.Fragment(c) + op + b.from.Fragment(c) + " and " + b.to.Fragment(c)
}

func (b *between) Parameters() []Parameter {
	params := append(selectorParameters(b.left), b.from.Parameters()...)
	return append(params, b.to.Parameters()...)
}

// memberOf renders "value [not ]member of collection".
type memberOf struct {
	collection Selector
	not        bool
	value      operand
}

func (m *memberOf) Fragment(c *Counter) string {
	op := " member of "
	if m.not {
		op = " not member of "
	}
	return m.value.Fragment(c) + op + m.collection.Fragment(c)
}

func (m *memberOf) Parameters() []Parameter {
	return append(m.value.Parameters(), selectorParameters(m.collection)...)
}

// Logical operators.
const (
	opAnd = "and"
	opOr  = "or"
)

type logical struct {
	op          string
	left, right Condition
}

func (l *logical) Fragment(c *Counter) string {
	return l.wrap(l.left, c) + " " + l.op + " " + l.wrap(l.right, c)
}

// wrap parenthesizes an or child of an and node.
func (l *logical) wrap(child Condition, c *Counter) string {
	if inner, ok := child.(*logical); ok && inner.op != l.op && l.op == opAnd {
		return "(" + child.Fragment(c) + ")"
	}
	return child.Fragment(c)
}

func (l *logical) Parameters() []Parameter {
	return append(l.left.Parameters(), l.right.Parameters()...)
}

type grouping struct {
	inner Condition
}

func (g *grouping) Fragment(c *Counter) string {
	return "(" + g.inner.Fragment(c) + ")"
}

func (g *grouping) Parameters() []Parameter {
	return g.inner.Parameters()
}

// ConditionTree is the where, with or having clause of one scope.
type ConditionTree struct {
	root  Condition
	scope *Builder
}

func newConditionTree(scope *Builder) *ConditionTree {
	return &ConditionTree{scope: scope}
}

// add combines c with the current root using op.
func (t *ConditionTree) add(c Condition, op string) {
	if t.root == nil {
		t.root = c
		return
	}
	t.root = &logical{op: op, left: t.root, right: c}
}

// Condition returns the root node, nil for an empty tree.
func (t *ConditionTree) Condition() Condition {
	if t == nil {
		return nil
	}
	return t.root
}

// Empty reports whether the tree yields no clause.
func (t *ConditionTree) Empty() bool {
	return t == nil || t.root == nil
}

// Fragment renders the tree, or "" when empty.
func (t *ConditionTree) Fragment(c *Counter) string {
	if t.Empty() {
		return ""
	}
	return t.root.Fragment(c)
}

// Parameters returns the parameters of every leaf, left to right.
func (t *ConditionTree) Parameters() []Parameter {
	if t.Empty() {
		return nil
	}
	return t.root.Parameters()
}

// isDisjunction reports whether the tree renders as a top-level or.
func (t *ConditionTree) isDisjunction() bool {
	l, ok := t.Condition().(*logical)
	return ok && l.op == opOr
}
