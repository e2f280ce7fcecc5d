package core

import "strings"

// JoinKind is the kind of a join.
type JoinKind string

// Join kinds.
const (
	InnerJoin JoinKind = "inner"
	LeftJoin  JoinKind = "left"
	RightJoin JoinKind = "right"
)

// Join links a child scope to its parent through a property path.
// The child scope is a Builder carrying its own where, with, order by
// and group by contributions, and its own nested joins.
type Join struct {
	Kind  JoinKind
	Path  []string
	Scope *Builder
}

// fragment renders "<kind> join <parentAlias>.<path> <alias>[ with <cond>]".
func (j *Join) fragment(parent *Builder, c *Counter) string {
	var sb strings.Builder
	sb.WriteString(string(j.Kind))
	sb.WriteString(" join ")
	sb.WriteString(parent.Alias(c))
	sb.WriteByte('.')
	sb.WriteString(strings.Join(j.Path, "."))
	sb.WriteByte(' ')
	sb.WriteString(j.Scope.Alias(c))
	if with := j.Scope.with; !with.Empty() {
		sb.WriteString(" with ")
		sb.WriteString(with.Fragment(c))
	}
	return sb.String()
}
