package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/coregx/torpedo/internal/tracer"
	"github.com/coregx/torpedo/internal/util"
)

// EntityManager creates executable queries from query-language text.
// It is implemented by the persistence provider.
type EntityManager interface {
	CreateQuery(ctx context.Context, query string) (TypedQuery, error)
}

// TypedQuery is a provider query ready for parameter binding and execution.
// SingleResult returns ErrNoResult (possibly wrapped) when nothing matches.
type TypedQuery interface {
	SetParameter(name string, value any) error
	SetFirstResult(position int)
	SetMaxResults(n int)
	SingleResult(ctx context.Context) (any, error)
	ResultList(ctx context.Context) ([]any, error)
}

// Query is the handle on a root query returned by Select.
type Query struct {
	session *Session
	builder *Builder
}

// Builder returns the underlying builder.
func (q *Query) Builder() *Builder {
	return q.builder
}

// SetFirstResult sets the position of the first result to retrieve.
func (q *Query) SetFirstResult(n int) *Query {
	q.builder.SetFirstResult(n)
	return q
}

// SetMaxResults sets the maximum number of results to retrieve.
func (q *Query) SetMaxResults(n int) *Query {
	q.builder.SetMaxResults(n)
	return q
}

// Text freezes the query and returns its text. The first call releases the
// query from its session.
func (q *Query) Text() string {
	if q.builder.Frozen() {
		return q.builder.Text()
	}
	text := q.builder.Text()
	s := q.session
	s.logger.Debug("query frozen",
		"entity", q.builder.EntityName(),
		"query", text,
		"params", s.sanitizer.FormatParams(s.sanitizer.MaskParams(q.builder.frozen.params)),
	)
	s.finish(q.builder)
	return text
}

// Params freezes the query and returns a copy of its named parameters.
func (q *Query) Params() map[string]any {
	q.Text()
	return q.builder.Parameters()
}

// String implements fmt.Stringer.
func (q *Query) String() string {
	return q.Text()
}

// Single executes q expecting at most one result. A provider ErrNoResult
// is reported as (zero, false, nil).
func Single[T any](ctx context.Context, q *Query, em EntityManager) (T, bool, error) {
	var zero T
	var out any
	err := q.execute(ctx, em, "torpedo.query.single", func(ctx context.Context, tq TypedQuery) (int, error) {
		v, err := tq.SingleResult(ctx)
		if err != nil {
			return 0, err
		}
		out = v
		return 1, nil
	})
	if errors.Is(err, ErrNoResult) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	if out == nil {
		return zero, false, nil
	}
	v, ok := out.(T)
	if !ok {
		return zero, false, fmt.Errorf("%w: got %T, want %T", ErrResultType, out, zero)
	}
	return v, true, nil
}

// List executes q and returns every result.
func List[T any](ctx context.Context, q *Query, em EntityManager) ([]T, error) {
	var rows []any
	err := q.execute(ctx, em, "torpedo.query.list", func(ctx context.Context, tq TypedQuery) (int, error) {
		var err error
		rows, err = tq.ResultList(ctx)
		return len(rows), err
	})
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		v, ok := r.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: row %d: got %T, want %T", ErrResultType, i, r, zero)
		}
		out = append(out, v)
	}
	return out, nil
}

// Map executes q and applies fn to every result.
func Map[T, E any](ctx context.Context, q *Query, em EntityManager, fn func(T) E) ([]E, error) {
	rows, err := List[T](ctx, q, em)
	if err != nil {
		return nil, err
	}
	out := make([]E, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out, nil
}

// execute binds q to a provider query and runs fetch inside a span.
func (q *Query) execute(ctx context.Context, em EntityManager, spanName string, fetch func(context.Context, TypedQuery) (int, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Freeze first; it releases the query from its session.
	s := q.session
	text := q.Text()
	params := q.builder.Parameters()
	if util.IsCanceled(ctx) {
		return ErrContextCanceled
	}

	ctx, span := s.tracer.StartSpan(ctx, spanName)
	defer span.End()

	start := time.Now()
	rows, err := q.run(ctx, em, text, params, fetch)
	elapsed := time.Since(start)

	q.logExecutionResult(text, params, rows, err, elapsed)

	traceErr := err
	if errors.Is(err, ErrNoResult) {
		traceErr = nil
	}
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		Query:      text,
		ParamCount: len(params),
		Duration:   elapsed,
		Rows:       rows,
		Error:      traceErr,
		Operation:  tracer.DetectOperation(text),
		Entity:     q.builder.EntityName(),
		Session:    s.id,
	})
	return err
}

func (q *Query) run(ctx context.Context, em EntityManager, text string, params map[string]any, fetch func(context.Context, TypedQuery) (int, error)) (int, error) {
	tq, err := em.CreateQuery(ctx, text)
	if err != nil {
		return 0, WrapError(err, "failed to create query")
	}

	// Bind in name order so providers see a deterministic sequence.
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := tq.SetParameter(name, params[name]); err != nil {
			return 0, WrapError(err, "failed to bind parameter "+name)
		}
	}

	if n := q.builder.FirstResult(); n > 0 {
		tq.SetFirstResult(n)
	}
	if n := q.builder.MaxResults(); n > 0 {
		tq.SetMaxResults(n)
	}

	return fetch(ctx, tq)
}

func (q *Query) logExecutionResult(text string, params map[string]any, rows int, err error, elapsed time.Duration) {
	s := q.session
	masked := s.sanitizer.FormatParams(s.sanitizer.MaskParams(params))

	if err != nil && !errors.Is(err, ErrNoResult) {
		s.logger.Error("query execution failed",
			"query", text,
			"params", masked,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return
	}

	s.logger.Info("query executed",
		"query", text,
		"params", masked,
		"duration_ms", elapsed.Milliseconds(),
		"rows", rows,
	)
}
