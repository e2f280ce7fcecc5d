package torpedo_test

import (
	"fmt"

	"github.com/coregx/torpedo"
)

type Person struct {
	ID      int
	Name    string
	Age     int
	Address *Address
	Orders  []Order
}

type Address struct {
	City string
}

type Order struct {
	Total float64
}

func Example() {
	s := torpedo.NewSession()
	p := torpedo.From[Person](s)
	s.Where(p.Get("Age")).Gt(18)
	q := s.Select(p.Get("Name"))

	fmt.Println(q.Text())
	fmt.Println(q.Params())
	// Output:
	// select person_0.name from Person person_0 where person_0.age > :age_0
	// map[age_0:18]
}

func ExampleSession_InnerJoin() {
	s := torpedo.NewSession()
	p := torpedo.From[Person](s)
	a := s.InnerJoin(p.Get("Address"))
	q := s.Select(a.Get("City"))

	fmt.Println(q.Text())
	// Output:
	// select address_1.city from Person person_0 inner join person_0.address address_1
}

func ExampleSession_Count() {
	s := torpedo.NewSession()
	p := torpedo.From[Person](s)
	q := s.Select(s.Count(p))

	fmt.Println(q.Text())
	// Output:
	// select count(person_0) from Person person_0
}

func ExampleSession_Build() {
	s := torpedo.NewSession()
	err := s.Build(func() error {
		p := torpedo.From[Person](s)
		s.Where(p.Get("Age")).Gt(18)
		s.Where(p.Get("Name")).Eq("bob")
		return nil
	})

	fmt.Println(err)
	// Output:
	// torpedo: where: you cannot have more than one where clause by query
}

func ExampleSession_Condition() {
	s := torpedo.NewSession()
	p := torpedo.From[Person](s)
	young := s.Condition(p.Get("Age")).Lt(18).Or(p.Get("Age")).IsNull()
	s.Where(p.Get("Name")).StartsWith("A").AndGroup(young)
	q := s.Select(p)

	fmt.Println(q.Text())
	// Output:
	// from Person person_0 where person_0.name like :name_1 and (person_0.age < :age_0 or person_0.age is null)
}
