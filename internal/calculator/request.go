package calculator

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	fieldOperation = "operation"
	fieldOperand1  = "operand1"
	fieldOperand2  = "operand2"
)

// Decode reads one JSON object from r and runs the validation pipeline up to
// operand coercion. Checks run in a fixed order and the first failure wins:
// payload shape, field presence, operation membership, operand coercion.
func Decode(r io.Reader) (Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Request{}, errors.Mark(errors.Wrap(err, "read request body"), ErrMalformedPayload)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return Request{}, errors.Mark(errors.Wrap(err, "decode request body"), ErrMalformedPayload)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Request{}, fail(ErrMalformedPayload, "trailing data after JSON object")
	}
	if len(payload) == 0 {
		return Request{}, fail(ErrMalformedPayload, "empty JSON object")
	}

	var missing []string
	for _, f := range []string{fieldOperation, fieldOperand1, fieldOperand2} {
		if payload[f] == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Request{}, fail(ErrMissingFields, "missing %s", strings.Join(missing, ", "))
	}

	op, err := ParseOperation(payload[fieldOperation])
	if err != nil {
		return Request{}, err
	}

	a, err := coerceOperand(fieldOperand1, payload[fieldOperand1])
	if err != nil {
		return Request{}, err
	}
	b, err := coerceOperand(fieldOperand2, payload[fieldOperand2])
	if err != nil {
		return Request{}, err
	}

	return Request{Operation: op, Operand1: a, Operand2: b}, nil
}

// coerceOperand converts a decoded JSON scalar to float64. Numbers and
// decimal numeric strings are accepted; anything else, and any value that is
// not finite, is rejected.
func coerceOperand(field string, v any) (float64, error) {
	var (
		f   float64
		err error
	)

	switch x := v.(type) {
	case json.Number:
		f, err = strconv.ParseFloat(x.String(), 64)
	case string:
		x = strings.TrimSpace(x)
		if isHexLiteral(x) {
			return 0, fail(ErrInvalidOperand, "%s is not a decimal number: %q", field, x)
		}
		f, err = strconv.ParseFloat(x, 64)
	default:
		return 0, fail(ErrInvalidOperand, "%s has type %T", field, v)
	}

	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "%s", field), ErrInvalidOperand)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fail(ErrInvalidOperand, "%s is not finite: %g", field, f)
	}

	return f, nil
}

// isHexLiteral reports whether s carries a 0x prefix after an optional sign.
// strconv.ParseFloat accepts hexadecimal floats such as "0x1p-2".
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Compute evaluates a validated request. A result that overflows to an
// infinity cannot be represented in JSON and is reported as an internal fault.
func Compute(req Request) (CalcResponse, error) {
	result, err := req.Operation.Apply(req.Operand1, req.Operand2)
	if err != nil {
		return CalcResponse{}, err
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return CalcResponse{}, fail(ErrInternalFault, "non-finite result: %g %s %g = %g",
			req.Operand1, req.Operation, req.Operand2, result)
	}

	return CalcResponse{
		Result:    result,
		Operation: req.Operation,
		Operand1:  req.Operand1,
		Operand2:  req.Operand2,
	}, nil
}

// Expression renders a calculation as "<operand1> <op> <operand2> = <result>".
func Expression(resp CalcResponse) string {
	return formatFloat(resp.Operand1) + " " + string(resp.Operation) + " " +
		formatFloat(resp.Operand2) + " = " + formatFloat(resp.Result)
}

// formatFloat prints the shortest round-tripping form: positional between
// 1e-4 and 1e16, exponent otherwise, and always with a fractional digit or an
// exponent so 5 reads as 5.0.
func formatFloat(f float64) string {
	var s string
	if abs := math.Abs(f); f == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
