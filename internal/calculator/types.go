// Package calculator implements the /calculate and /history endpoints.
//
// Numbers cross the wire as IEEE-754 doubles. Responses are encoded with
// encoding/json, which writes an integral float64 without a fractional part:
// a result of five is sent as 5, not 5.0. JSON clients read both forms as the
// same number. The "<a> <op> <b> = <r>" expression written to the log keeps
// the fractional digit (see Expression).
package calculator

// Request is a validated calculation: the operation is a member of the
// supported set and both operands are finite.
type Request struct {
	Operation Operation
	Operand1  float64
	Operand2  float64
}

// CalcResponse is the JSON body returned by POST /calculate.
type CalcResponse struct {
	Result    float64   `json:"result"`
	Operation Operation `json:"operation"`
	Operand1  float64   `json:"operand1"`
	Operand2  float64   `json:"operand2"`
}

// HistoryResponse is the JSON body returned by GET /history.
type HistoryResponse struct {
	Message string         `json:"message"`
	History []CalcResponse `json:"history"`
}
