package calculator

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Concrete errors are marked with one of these so errors.Is
// selects the kind while the wrapped detail stays available for logging.
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingFields        = errors.New("missing fields")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidOperand       = errors.New("invalid operand")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrInternalFault        = errors.New("internal fault")
)

// Caller-facing messages. These strings are part of the HTTP contract.
const (
	MsgMalformedPayload     = "No JSON data provided"
	MsgMissingFields        = "Missing required fields: operation, operand1, operand2"
	MsgUnsupportedOperation = "Invalid operation. Supported operations: +, -, *, /"
	MsgInvalidOperand       = "Operands must be valid numbers"
	MsgDivisionByZero       = "Division by zero is not allowed"
	MsgInternalFault        = "Internal server error"
)

type failureKind struct {
	err    error
	name   string
	msg    string
	status int
}

var clientFailures = []failureKind{
	{ErrMalformedPayload, "malformed_payload", MsgMalformedPayload, http.StatusBadRequest},
	{ErrMissingFields, "missing_fields", MsgMissingFields, http.StatusBadRequest},
	{ErrUnsupportedOperation, "unsupported_operation", MsgUnsupportedOperation, http.StatusBadRequest},
	{ErrInvalidOperand, "invalid_operand", MsgInvalidOperand, http.StatusBadRequest},
	{ErrDivisionByZero, "division_by_zero", MsgDivisionByZero, http.StatusBadRequest},
}

var internalFailure = failureKind{ErrInternalFault, "internal_fault", MsgInternalFault, http.StatusInternalServerError}

// classify maps err to its failure kind. Anything that is not a known client
// failure is an internal fault.
func classify(err error) failureKind {
	for _, k := range clientFailures {
		if errors.Is(err, k.err) {
			return k
		}
	}
	return internalFailure
}

// Describe returns the public message and HTTP status for err.
func Describe(err error) (string, int) {
	k := classify(err)
	return k.msg, k.status
}

func fail(kind error, format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), kind)
}
