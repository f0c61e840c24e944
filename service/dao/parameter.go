package dao

// Parameter represents a List filter, e.g. State in (locked, queued)
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter matching any of values
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Values returns filter values as a slice
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}
