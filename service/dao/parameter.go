package dao

// Parameter is a simple name/value filter passed to List.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter; multiple values become a []string.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
