package core

import "testing"

func BenchmarkFreeze(b *testing.B) {
	b.ReportAllocs()
	s := NewSession()
	for i := 0; i < b.N; i++ {
		p := From[Person](s)
		a := s.InnerJoin(p.Get("Address"))
		s.Where(p.Get("Age")).Gt(18).And(a.Get("City")).Eq("Paris")
		s.OrderBy(p.Get("Name"))
		q := s.Select(p.Get("Name"), a.Get("City"))
		_ = q.Text()
	}
}

func BenchmarkFreezeSubquery(b *testing.B) {
	b.ReportAllocs()
	s := NewSession()
	for i := 0; i < b.N; i++ {
		p := From[Person](s)
		o := From[Order](s)
		s.Where(o.Get("Total")).Gt(10.0)
		sub := s.Select(o.Get("Customer"))
		s.Where(p).In(sub)
		_ = s.Select(p).Text()
	}
}
