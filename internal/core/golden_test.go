package core

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestGolden_QueryText compares end-to-end query texts with fixtures in testdata.
// Run with -update to regenerate.
func TestGolden_QueryText(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *Session) *Query
	}{
		{
			name: "order_report",
			build: func(s *Session) *Query {
				p := From[Person](s)
				o := s.InnerJoin(p.Get("Orders"))
				a := s.LeftJoin(p.Get("Address"))
				s.With(a.Get("City")).NotIn("Atlantis")
				s.Where(p.Get("Age")).Between(18, 65).And(p.Get("Name")).IsNotNull()
				s.Where(o.Get("Total")).Gt(100.0).Or(o.Get("Items")).IsNotEmpty()
				s.OrderBy(s.Desc(s.Sum(o.Get("Total"))))
				s.GroupBy(p.Get("Name"), a.Get("City")).Having(s.Count(o)).Gte(2)
				return s.Select(p.Get("Name"), a.Get("City"), s.Sum(o.Get("Total")))
			},
		},
		{
			name: "big_spenders",
			build: func(s *Session) *Query {
				p := From[Person](s)
				o := From[Order](s)
				i := s.InnerJoin(o.Get("Items"))
				s.Where(i.Get("Price")).Gt(500.0)
				spenders := s.Select(o.Get("Customer"))

				cond := s.Condition(p.Get("Name")).StartsWith("A").Or(p.Get("Name")).StartsWith("B")
				s.Where(p).In(spenders).AndGroup(cond)
				return s.Select(p)
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			var q *Query
			require.NoError(t, s.Build(func() error {
				q = tt.build(s)
				return nil
			}))
			g.Assert(t, tt.name, []byte(q.Text()))
		})
	}
}
