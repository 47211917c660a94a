package scalarindex

// Operator selects the side of a single-sided range query.
type Operator string

const (
	// OpLessThan matches values strictly below the bound.
	OpLessThan Operator = "lt"
	// OpLessEqual matches values at or below the bound.
	OpLessEqual Operator = "lte"
	// OpGreaterThan matches values strictly above the bound.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual matches values at or above the bound.
	OpGreaterEqual Operator = "gte"
)

// Valid reports whether op is one of the four range operators.
func (op Operator) Valid() bool {
	switch op {
	case OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return true
	default:
		return false
	}
}

func (op Operator) String() string { return string(op) }

// ParseOperator accepts the operator names and the symbols <, <=, > and >=.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "lt", "<":
		return OpLessThan, nil
	case "lte", "<=":
		return OpLessEqual, nil
	case "gt", ">":
		return OpGreaterThan, nil
	case "gte", ">=":
		return OpGreaterEqual, nil
	default:
		return "", &ErrUnsupportedOperator{Operator: Operator(s)}
	}
}
