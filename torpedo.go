// Package torpedo provides a type-safe builder for JPQL/HQL queries in Go.
// Queries are written by navigating entity proxies; the navigation is
// captured by a Session and turned into query text with named parameters,
// ready to hand to a persistence provider.
package torpedo

import (
	"context"
	"log/slog"

	"github.com/coregx/torpedo/internal/cache"
	"github.com/coregx/torpedo/internal/core"
	"github.com/coregx/torpedo/internal/logger"
	"github.com/coregx/torpedo/internal/tracer"
	"go.opentelemetry.io/otel/trace"
)

type (
	// Session is the query context of one goroutine.
	Session = core.Session
	// Option is a functional option for configuring a Session.
	Option = core.Option
	// Proxy stands in for an entity or a navigated value.
	Proxy = core.Proxy
	// Query is a root query ready to be frozen or executed.
	Query = core.Query
	// Builder accumulates the clauses of one query scope.
	Builder = core.Builder
	// Function is a function selector such as count or sum.
	Function = core.Function
	// OrderSelector is a selector with an order by direction.
	OrderSelector = core.OrderSelector
	// OnGoingCondition is a condition waiting for its comparator.
	OnGoingCondition = core.OnGoingCondition
	// OnGoingLogicalCondition is a completed condition that can be extended.
	OnGoingLogicalCondition = core.OnGoingLogicalCondition
	// OnGoingGroupBy is a group by clause that may receive a having clause.
	OnGoingGroupBy = core.OnGoingGroupBy
	// BuildError reports a construction failure in a DSL verb.
	BuildError = core.BuildError

	// EntityManager creates executable queries from query text.
	EntityManager = core.EntityManager
	// TypedQuery is a provider query ready for binding and execution.
	TypedQuery = core.TypedQuery

	// Logger receives query lifecycle events.
	Logger = logger.Logger
	// Tracer opens spans around query execution.
	Tracer = tracer.Tracer
	// CacheStats reports the entity metadata cache.
	CacheStats = cache.Stats
)

// Re-export core functions.
var (
	NewSession            = core.NewSession
	WithLogger            = core.WithLogger
	WithTracer            = core.WithTracer
	WithSensitiveFields   = core.WithSensitiveFields
	WithStrictIdentifiers = core.WithStrictIdentifiers
	WithSession           = core.WithSession
	SessionFrom           = core.SessionFrom
	WrapError             = core.WrapError
	EntityCacheStats      = core.EntityCacheStats
	ClearEntityCache      = core.ClearEntityCache
)

// Re-export errors.
var (
	ErrWhereClauseSet    = core.ErrWhereClauseSet
	ErrNoActiveQuery     = core.ErrNoActiveQuery
	ErrUnknownProperty   = core.ErrUnknownProperty
	ErrNotEntity         = core.ErrNotEntity
	ErrInvalidOperand    = core.ErrInvalidOperand
	ErrInvalidIdentifier = core.ErrInvalidIdentifier
	ErrNotJoinScope      = core.ErrNotJoinScope
	ErrFrozenQuery       = core.ErrFrozenQuery
	ErrNoResult          = core.ErrNoResult
	ErrResultType        = core.ErrResultType
	ErrContextCanceled   = core.ErrContextCanceled
)

// WithSlog logs query lifecycle events to l, or to slog.Default() when l is nil.
func WithSlog(l *slog.Logger) Option {
	return core.WithLogger(logger.NewSlogAdapter(l))
}

// WithOtel traces query execution with an OpenTelemetry tracer.
func WithOtel(t trace.Tracer) Option {
	return core.WithTracer(tracer.NewOtelTracer(t))
}

// From starts a query on entity T, or a subquery when s already has a
// query under construction.
func From[T any](s *Session) *Proxy {
	return core.From[T](s)
}

// Single executes q expecting at most one result.
// found is false when the provider reports ErrNoResult.
func Single[T any](ctx context.Context, q *Query, em EntityManager) (result T, found bool, err error) {
	return core.Single[T](ctx, q, em)
}

// List executes q and returns every result.
func List[T any](ctx context.Context, q *Query, em EntityManager) ([]T, error) {
	return core.List[T](ctx, q, em)
}

// Map executes q and applies fn to every result.
func Map[T, E any](ctx context.Context, q *Query, em EntityManager, fn func(T) E) ([]E, error) {
	return core.Map(ctx, q, em, fn)
}
