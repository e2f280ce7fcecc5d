package core

import "errors"

// Predefined errors returned by torpedo query construction and execution.
var (
	// ErrWhereClauseSet is returned when a second where clause is attached to one scope.
	ErrWhereClauseSet = errors.New("you cannot have more than one where clause by query")
	// ErrNoActiveQuery is returned when a navigation is captured outside any query being built.
	ErrNoActiveQuery = errors.New("no active query on session")
	// ErrUnknownProperty is returned when navigating to a property the entity does not declare.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrNotEntity is returned when navigating through, joining or querying a non-entity value.
	ErrNotEntity = errors.New("not an entity")
	// ErrInvalidOperand is returned when a DSL argument cannot be interpreted.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrInvalidIdentifier is returned when an entity or property name cannot appear in query text.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrNotJoinScope is returned when a with clause targets a scope that is not a join.
	ErrNotJoinScope = errors.New("with clause requires a join scope")
	// ErrFrozenQuery is returned when a query whose text was already computed is nested in another.
	ErrFrozenQuery = errors.New("query already frozen")
	// ErrNoResult is returned by a TypedQuery when a single-result query matches no row.
	ErrNoResult = errors.New("no result")
	// ErrResultType is returned when a provider result cannot be converted to the requested type.
	ErrResultType = errors.New("unexpected result type")
	// ErrContextCanceled is returned when an execution is canceled by context.
	ErrContextCanceled = errors.New("operation canceled by context")
)

// WrapError wraps an error with additional context message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// BuildError reports a construction failure in a DSL verb.
// DSL verbs panic with a *BuildError; Session.Build recovers it as an error.
type BuildError struct {
	Op  string
	Err error
}

func (e *BuildError) Error() string {
	return "torpedo: " + e.Op + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// fail aborts the current DSL verb.
func fail(op string, err error) {
	panic(&BuildError{Op: op, Err: err})
}
