package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/coregx/torpedo/internal/cache"
	"github.com/coregx/torpedo/internal/logger"
	"github.com/coregx/torpedo/internal/security"
	"github.com/coregx/torpedo/internal/tracer"
	"github.com/coregx/torpedo/internal/util"
	"github.com/google/uuid"
)

// entityCacheCapacity bounds the number of entity types kept in metadata cache.
const entityCacheCapacity = 256

// entities caches entity metadata for the whole process.
var entities = cache.NewWithCapacity[reflect.Type, *util.EntityInfo](entityCacheCapacity)

// EntityCacheStats reports the process-wide entity metadata cache.
func EntityCacheStats() cache.Stats {
	return entities.Stats()
}

// ClearEntityCache drops every cached entity mapping. Mappings are
// inspected again on next use.
func ClearEntityCache() {
	entities.Clear()
}

// Session is the query context of one goroutine. It owns the stack of
// queries under construction, the captured navigations and the parameter
// name counter. A Session must not be shared between goroutines.
type Session struct {
	id        string
	logger    logger.Logger
	tracer    tracer.Tracer
	sanitizer *logger.Sanitizer
	validator *security.Validator

	stack    []*Builder
	roots    map[*Builder]*Builder
	scopes   map[*Proxy]*Builder
	captured map[*Proxy]*Invocation
	pending  []*Invocation
	names    *nameGenerator
}

// Option is a functional option for configuring a Session.
type Option func(*Session)

// WithLogger sets the logger used for query lifecycle events.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used around query execution.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Session) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithSensitiveFields replaces the parameter names masked in logs.
func WithSensitiveFields(fields ...string) Option {
	return func(s *Session) {
		s.sanitizer = logger.NewSanitizer(fields)
	}
}

// WithStrictIdentifiers rejects entity and property names that are
// reserved words of the query language.
func WithStrictIdentifiers() Option {
	return func(s *Session) {
		s.validator = security.NewValidator(security.WithStrict(true))
	}
}

// NewSession creates a session with the given options.
//
// Example:
//
//	s := NewSession(WithLogger(logger.NewSlogAdapter(nil)))
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		logger:    &logger.NoopLogger{},
		tracer:    &tracer.NoopTracer{},
		sanitizer: logger.NewSanitizer(nil),
		validator: security.NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.With(s.logger, "session", s.id)
	s.clear()
	return s
}

// ID returns the session identifier used in logs and spans.
func (s *Session) ID() string {
	return s.id
}

// Active reports whether a query is under construction.
func (s *Session) Active() bool {
	return len(s.stack) > 0
}

// Reset discards every query under construction and all captured navigations.
// Proxies handed out before Reset become stale.
func (s *Session) Reset() {
	if n := len(s.pending); n > 0 {
		s.logger.Debug("discarding unused navigations", "count", n)
	}
	s.clear()
}

func (s *Session) clear() {
	s.stack = nil
	s.roots = make(map[*Builder]*Builder)
	s.scopes = make(map[*Proxy]*Builder)
	s.captured = make(map[*Proxy]*Invocation)
	s.pending = nil
	s.names = &nameGenerator{}
}

// Build runs fn, converting a construction panic into an error.
// The session is reset when fn returns, whatever the outcome.
func (s *Session) Build(fn func() error) (err error) {
	defer s.Reset()
	defer func() {
		if r := recover(); r != nil {
			var be *BuildError
			if e, ok := r.(error); ok && errors.As(e, &be) {
				err = be
				return
			}
			panic(r)
		}
	}()
	return fn()
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}

// From starts a query on entity T, or a subquery when a query is already
// under construction. The returned proxy stands for the root entity.
func From[T any](s *Session) *Proxy {
	return s.from(reflect.TypeOf((*T)(nil)).Elem())
}

func (s *Session) from(t reflect.Type) *Proxy {
	info, err := s.entity(t)
	if err != nil {
		fail("from", err)
	}
	b := newScope(info, s.names)
	p := &Proxy{session: s, entity: info}
	s.stack = append(s.stack, b)
	s.roots[b] = b
	s.scopes[p] = b
	s.logger.Debug("query started", "entity", info.Name, "depth", len(s.stack))
	return p
}

// entity returns validated metadata for t.
func (s *Session) entity(t reflect.Type) (*util.EntityInfo, error) {
	info, err := entities.GetOrLoad(util.Indirect(t), util.InspectEntity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEntity, err)
	}
	if err := s.validator.ValidateEntityName(info.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return info, nil
}

// active returns the innermost query under construction.
func (s *Session) active() *Builder {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// rootOf returns the query builder that owns scope.
func (s *Session) rootOf(scope *Builder) *Builder {
	if scope == nil {
		return s.active()
	}
	if root, ok := s.roots[scope]; ok {
		return root
	}
	return s.active()
}

// finish releases b from the construction stack once it is consumed as a
// subquery or frozen as the final query. Releasing the last query resets the
// session.
func (s *Session) finish(b *Builder) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == b {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			break
		}
	}
	if len(s.stack) == 0 {
		s.Reset()
	}
}

// subquery releases the builder of q, a *Query or *Builder, so it renders
// inside the enclosing query. A frozen query keeps the aliases and parameter
// names of its own freeze and cannot be nested.
func (s *Session) subquery(q any) (*Builder, error) {
	var b *Builder
	switch v := q.(type) {
	case *Query:
		if v.session != s {
			return nil, ErrNoActiveQuery
		}
		b = v.builder
	case *Builder:
		b = v
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %T is not a query", ErrInvalidOperand, q)
	}
	if b.Frozen() {
		return nil, fmt.Errorf("%w: freeze the enclosing query instead", ErrFrozenQuery)
	}
	s.finish(b)
	return b, nil
}
