package core

// Parameter contributes named values to the parameter map of a query.
type Parameter interface {
	Values() []*ValueParameter
}

// ValueParameter is one named runtime value bound at execution.
type ValueParameter struct {
	Name  string
	Value any
}

// Fragment renders the named placeholder.
func (p *ValueParameter) Fragment() string {
	return ":" + p.Name
}

// Values returns the parameter itself.
func (p *ValueParameter) Values() []*ValueParameter {
	return []*ValueParameter{p}
}

// SubqueryParameters forwards the parameters of a nested query to its parent.
type SubqueryParameters struct {
	query *Builder
}

// Values returns the flattened parameters of the nested query.
func (p *SubqueryParameters) Values() []*ValueParameter {
	return p.query.ValueParameters()
}

// flatten expands params in order. A parameter reached twice, such as a
// function both selected and ordered by, is listed once.
func flatten(params []Parameter) []*ValueParameter {
	var out []*ValueParameter
	seen := make(map[*ValueParameter]struct{})
	for _, p := range params {
		for _, v := range p.Values() {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
