package calculator

import (
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestDecodeValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty body", ``, ErrMalformedPayload},
		{"not json", `operation=+`, ErrMalformedPayload},
		{"array", `[1, 2]`, ErrMalformedPayload},
		{"string", `"2 + 3"`, ErrMalformedPayload},
		{"null", `null`, ErrMalformedPayload},
		{"empty object", `{}`, ErrMalformedPayload},
		{"trailing data", `{"operation":"+","operand1":1,"operand2":2} {}`, ErrMalformedPayload},
		{"trailing closing brace", `{"operation":"+","operand1":1,"operand2":2}}`, ErrMalformedPayload},
		{"trailing closing bracket", `{"operation":"+","operand1":1,"operand2":2}]`, ErrMalformedPayload},
		{"trailing scalar", `{"operation":"+","operand1":1,"operand2":2} 3`, ErrMalformedPayload},
		{"missing operation", `{"operand1":1,"operand2":2}`, ErrMissingFields},
		{"missing operand2", `{"operation":"+","operand1":1}`, ErrMissingFields},
		{"null operand1", `{"operation":"+","operand1":null,"operand2":2}`, ErrMissingFields},
		{"missing beats bad operation", `{"operation":"%","operand1":1}`, ErrMissingFields},
		{"unknown operation", `{"operation":"%","operand1":1,"operand2":2}`, ErrUnsupportedOperation},
		{"word operation", `{"operation":"add","operand1":1,"operand2":2}`, ErrUnsupportedOperation},
		{"numeric operation", `{"operation":1,"operand1":1,"operand2":2}`, ErrUnsupportedOperation},
		{"bad operation beats bad operand", `{"operation":"^","operand1":"x","operand2":2}`, ErrUnsupportedOperation},
		{"boolean operand", `{"operation":"+","operand1":true,"operand2":2}`, ErrInvalidOperand},
		{"object operand", `{"operation":"+","operand1":{},"operand2":2}`, ErrInvalidOperand},
		{"array operand", `{"operation":"+","operand1":1,"operand2":[2]}`, ErrInvalidOperand},
		{"word operand", `{"operation":"+","operand1":"two","operand2":2}`, ErrInvalidOperand},
		{"nan operand", `{"operation":"+","operand1":"NaN","operand2":2}`, ErrInvalidOperand},
		{"inf operand", `{"operation":"+","operand1":1,"operand2":"inf"}`, ErrInvalidOperand},
		{"hex float operand", `{"operation":"+","operand1":"0x1p-2","operand2":2}`, ErrInvalidOperand},
		{"signed hex operand", `{"operation":"+","operand1":1,"operand2":"-0X10"}`, ErrInvalidOperand},
		{"padded hex operand", `{"operation":"+","operand1":" +0x1 ","operand2":2}`, ErrInvalidOperand},
		{"underscore operand", `{"operation":"+","operand1":"1_000","operand2":2}`, ErrInvalidOperand},
		{"out of range operand", `{"operation":"+","operand1":1e400,"operand2":2}`, ErrInvalidOperand},
		{"bad operand beats zero divisor", `{"operation":"/","operand1":"x","operand2":0}`, ErrInvalidOperand},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.body))
			if err == nil {
				t.Fatalf("expected %v, got nil", tc.want)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeCoercesOperands(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Request
	}{
		{"integers", `{"operation":"+","operand1":2,"operand2":3}`, Request{Add, 2, 3}},
		{"floats", `{"operation":"*","operand1":1.5,"operand2":-0.25}`, Request{Multiply, 1.5, -0.25}},
		{"exponent", `{"operation":"-","operand1":1e3,"operand2":2E-2}`, Request{Subtract, 1000, 0.02}},
		{"numeric strings", `{"operation":"/","operand1":"10","operand2":" 4.5 "}`, Request{Divide, 10, 4.5}},
		{"zero prefixed string", `{"operation":"+","operand1":"007","operand2":"-0.5"}`, Request{Add, 7, -0.5}},
		{"extra fields ignored", `{"operation":"+","operand1":1,"operand2":2,"note":"x"}`, Request{Add, 1, 2}},
		{"trailing whitespace", "{\"operation\":\"+\",\"operand1\":1,\"operand2\":2}\n\t ", Request{Add, 1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestComputeMatchesFloat64Arithmetic(t *testing.T) {
	pairs := [][2]float64{
		{2, 3},
		{0.1, 0.2},
		{-7.5, 2},
		{1e150, 1e-150},
		{123456789, 0.000123},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		want := map[Operation]float64{
			Add:      a + b,
			Subtract: a - b,
			Multiply: a * b,
			Divide:   a / b,
		}

		for op, expected := range want {
			resp, err := Compute(Request{Operation: op, Operand1: a, Operand2: b})
			if err != nil {
				t.Fatalf("%g %s %g: unexpected error: %v", a, op, b, err)
			}
			if resp.Result != expected {
				t.Fatalf("%g %s %g: expected %g, got %g", a, op, b, expected, resp.Result)
			}
			if resp.Operation != op || resp.Operand1 != a || resp.Operand2 != b {
				t.Fatalf("%g %s %g: inputs not echoed, got %+v", a, op, b, resp)
			}
		}
	}
}

func TestComputeKeepsFloatingPointArtifacts(t *testing.T) {
	resp, err := Compute(Request{Operation: Add, Operand1: 0.1, Operand2: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result != 0.30000000000000004 {
		t.Fatalf("expected 0.30000000000000004, got %v", resp.Result)
	}
}

func TestComputeDivisionByZero(t *testing.T) {
	for _, a := range []float64{0, 1, -1, 10, 1e308, -0.5} {
		for _, zero := range []float64{0, math.Copysign(0, -1)} {
			_, err := Compute(Request{Operation: Divide, Operand1: a, Operand2: zero})
			if !errors.Is(err, ErrDivisionByZero) {
				t.Fatalf("%g / %g: expected division by zero, got %v", a, zero, err)
			}
		}
	}
}

func TestComputeOverflowIsInternalFault(t *testing.T) {
	_, err := Compute(Request{Operation: Multiply, Operand1: 1e308, Operand2: 10})
	if !errors.Is(err, ErrInternalFault) {
		t.Fatalf("expected internal fault, got %v", err)
	}

	msg, status := Describe(err)
	if msg != MsgInternalFault || status != http.StatusInternalServerError {
		t.Fatalf("expected %q/%d, got %q/%d", MsgInternalFault, http.StatusInternalServerError, msg, status)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err    error
		msg    string
		status int
	}{
		{fail(ErrMalformedPayload, "x"), MsgMalformedPayload, http.StatusBadRequest},
		{fail(ErrMissingFields, "x"), MsgMissingFields, http.StatusBadRequest},
		{fail(ErrUnsupportedOperation, "x"), MsgUnsupportedOperation, http.StatusBadRequest},
		{fail(ErrInvalidOperand, "x"), MsgInvalidOperand, http.StatusBadRequest},
		{fail(ErrDivisionByZero, "x"), MsgDivisionByZero, http.StatusBadRequest},
		{errors.New("something unexpected"), MsgInternalFault, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		msg, status := Describe(tc.err)
		if msg != tc.msg || status != tc.status {
			t.Fatalf("%v: expected %q/%d, got %q/%d", tc.err, tc.msg, tc.status, msg, status)
		}
	}
}

func TestOperationName(t *testing.T) {
	tests := map[Operation]string{
		Add:            "add",
		Subtract:       "subtract",
		Multiply:       "multiply",
		Divide:         "divide",
		Operation("%"): "unknown",
	}

	for op, want := range tests {
		if got := op.Name(); got != want {
			t.Fatalf("%q: expected %q, got %q", op, want, got)
		}
	}
}

func TestExpression(t *testing.T) {
	tests := []struct {
		resp CalcResponse
		want string
	}{
		{CalcResponse{Result: 5, Operation: Add, Operand1: 2, Operand2: 3}, "2.0 + 3.0 = 5.0"},
		{CalcResponse{Result: 0.30000000000000004, Operation: Add, Operand1: 0.1, Operand2: 0.2}, "0.1 + 0.2 = 0.30000000000000004"},
		{CalcResponse{Result: -2.5, Operation: Divide, Operand1: -5, Operand2: 2}, "-5.0 / 2.0 = -2.5"},
		{CalcResponse{Result: 1e20, Operation: Multiply, Operand1: 1e10, Operand2: 1e10}, "10000000000.0 * 10000000000.0 = 1e+20"},
		{CalcResponse{Result: 0.00001, Operation: Subtract, Operand1: 0.00001, Operand2: 0}, "1e-05 - 0.0 = 1e-05"},
	}

	for _, tc := range tests {
		if got := Expression(tc.resp); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
