package calculator

// Operation is one of the four supported binary operators.
type Operation string

const (
	Add      Operation = "+"
	Subtract Operation = "-"
	Multiply Operation = "*"
	Divide   Operation = "/"
)

var operationNames = map[Operation]string{
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
}

// ParseOperation accepts the raw decoded value of the "operation" field.
// Non-string values are never members of the operation set.
func ParseOperation(v any) (Operation, error) {
	s, ok := v.(string)
	if !ok {
		return "", fail(ErrUnsupportedOperation, "operation has type %T", v)
	}

	op := Operation(s)
	if _, ok := operationNames[op]; !ok {
		return "", fail(ErrUnsupportedOperation, "operation %q", s)
	}

	return op, nil
}

// Name is the word form used in span names and metric attributes.
func (o Operation) Name() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return "unknown"
}

// Apply evaluates a o b in float64. Division by an exact zero is rejected.
func (o Operation) Apply(a, b float64) (float64, error) {
	switch o {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, fail(ErrDivisionByZero, "division by zero: %g / %g", a, b)
		}
		return a / b, nil
	default:
		return 0, fail(ErrUnsupportedOperation, "operation %q", string(o))
	}
}
