package core

import (
	"context"
	"sync"
)

type Person struct {
	ID        int
	Name      string
	Age       int
	Password  string
	Address   *Address
	Orders    []Order
	Nicknames []string
}

type Address struct {
	City   string
	Street string
}

type Order struct {
	ID       int
	Total    float64
	Customer *Person
	Items    []Item
}

type Item struct {
	Name  string
	Price float64
}

type Customer struct {
	ID   int
	Name string
}

func (Customer) EntityName() string { return "Client" }

// fakeEntityManager records what torpedo hands to the provider.
type fakeEntityManager struct {
	mu sync.Mutex

	createErr error
	bindErr   error
	single    any
	singleErr error
	list      []any
	listErr   error

	queries []*fakeTypedQuery
}

func (em *fakeEntityManager) CreateQuery(_ context.Context, query string) (TypedQuery, error) {
	em.mu.Lock()
	defer em.mu.Unlock()
	if em.createErr != nil {
		return nil, em.createErr
	}
	tq := &fakeTypedQuery{em: em, text: query, params: make(map[string]any)}
	em.queries = append(em.queries, tq)
	return tq, nil
}

func (em *fakeEntityManager) last() *fakeTypedQuery {
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.queries) == 0 {
		return nil
	}
	return em.queries[len(em.queries)-1]
}

type fakeTypedQuery struct {
	em *fakeEntityManager

	text        string
	params      map[string]any
	bindOrder   []string
	firstResult int
	maxResults  int
}

func (q *fakeTypedQuery) SetParameter(name string, value any) error {
	if q.em.bindErr != nil {
		return q.em.bindErr
	}
	q.params[name] = value
	q.bindOrder = append(q.bindOrder, name)
	return nil
}

func (q *fakeTypedQuery) SetFirstResult(position int) { q.firstResult = position }

func (q *fakeTypedQuery) SetMaxResults(n int) { q.maxResults = n }

func (q *fakeTypedQuery) SingleResult(context.Context) (any, error) {
	return q.em.single, q.em.singleErr
}

func (q *fakeTypedQuery) ResultList(context.Context) ([]any, error) {
	return q.em.list, q.em.listErr
}
