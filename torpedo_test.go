package torpedo_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/coregx/torpedo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// stubEntityManager answers every query with a fixed result.
type stubEntityManager struct {
	text   string
	params map[string]any
	result any
	err    error
}

func (em *stubEntityManager) CreateQuery(_ context.Context, query string) (torpedo.TypedQuery, error) {
	em.text = query
	em.params = make(map[string]any)
	return &stubTypedQuery{em: em}, nil
}

type stubTypedQuery struct {
	em *stubEntityManager
}

func (q *stubTypedQuery) SetParameter(name string, value any) error {
	q.em.params[name] = value
	return nil
}

func (q *stubTypedQuery) SetFirstResult(int) {}

func (q *stubTypedQuery) SetMaxResults(int) {}

func (q *stubTypedQuery) SingleResult(context.Context) (any, error) {
	return q.em.result, q.em.err
}

func (q *stubTypedQuery) ResultList(context.Context) ([]any, error) {
	if q.em.err != nil {
		return nil, q.em.err
	}
	return []any{q.em.result}, nil
}

func TestSingle(t *testing.T) {
	em := &stubEntityManager{result: Person{Name: "alice"}}
	s := torpedo.NewSession()
	p := torpedo.From[Person](s)
	s.Where(p.Get("ID")).Eq(7)

	got, found, err := torpedo.Single[Person](context.Background(), s.Select(p), em)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, "from Person person_0 where person_0.ID = :ID_0", em.text)
	assert.Equal(t, map[string]any{"ID_0": 7}, em.params)
}

func TestSingle_NoResult(t *testing.T) {
	em := &stubEntityManager{err: torpedo.ErrNoResult}
	s := torpedo.NewSession()

	_, found, err := torpedo.Single[Person](context.Background(), s.Select(torpedo.From[Person](s)), em)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestList(t *testing.T) {
	em := &stubEntityManager{result: "Paris"}
	s := torpedo.NewSession()
	p := torpedo.From[Person](s)
	a := s.InnerJoin(p.Get("Address"))

	cities, err := torpedo.List[string](context.Background(), s.Select(a.Get("City")), em)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, cities)
}

func TestMap(t *testing.T) {
	em := &stubEntityManager{result: Person{Name: "bob"}}
	s := torpedo.NewSession()

	names, err := torpedo.Map(context.Background(), s.Select(torpedo.From[Person](s)), em,
		func(p Person) string { return p.Name })
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, names)
}

func TestWithSlogAndOtel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	s := torpedo.NewSession(torpedo.WithSlog(log), torpedo.WithOtel(tp.Tracer("torpedo")))
	p := torpedo.From[Person](s)

	_, err := torpedo.List[Person](context.Background(), s.Select(p), &stubEntityManager{result: Person{}})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "query frozen")
	assert.Contains(t, buf.String(), "query executed")
	require.Len(t, exporter.GetSpans(), 1)
	assert.Equal(t, "torpedo.query.list", exporter.GetSpans()[0].Name)
}

func TestBuildError(t *testing.T) {
	s := torpedo.NewSession()
	err := s.Build(func() error {
		p := torpedo.From[Person](s)
		p.Get("Nope")
		return nil
	})

	var be *torpedo.BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "get", be.Op)
	assert.ErrorIs(t, err, torpedo.ErrUnknownProperty)
}

func TestSessionContext(t *testing.T) {
	s := torpedo.NewSession()
	ctx := torpedo.WithSession(context.Background(), s)

	got, ok := torpedo.SessionFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, s.ID(), got.ID())
}

func TestFrozenSubquery(t *testing.T) {
	s := torpedo.NewSession()
	err := s.Build(func() error {
		p := torpedo.From[Person](s)
		sub := torpedo.From[Person](s)
		adults := s.Select(sub.Get("ID"))
		_ = adults.Text()
		s.Where(p.Get("ID")).In(adults)
		return nil
	})
	assert.ErrorIs(t, err, torpedo.ErrFrozenQuery)
}

func TestEntityCacheStats(t *testing.T) {
	torpedo.ClearEntityCache()

	s := torpedo.NewSession()
	torpedo.From[Person](s)
	s.Reset()

	var stats torpedo.CacheStats = torpedo.EntityCacheStats()
	assert.Equal(t, 1, stats.Size)
	assert.Positive(t, stats.Capacity)
}
