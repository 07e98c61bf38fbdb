package jupiter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HTTPError is a non-2xx response whose body carried no aggregator error.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("jupiter http %d", e.StatusCode)
	}
	return fmt.Sprintf("jupiter http %d: %s", e.StatusCode, b)
}

// AggregatorError is an error the aggregator reported itself, either in a
// non-2xx body or in a 2xx quote without a route.
type AggregatorError struct {
	Operation  Operation
	StatusCode int
	Code       string
	Message    string
}

func (e *AggregatorError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no route"
	}
	if e.Code != "" {
		return fmt.Sprintf("jupiter %s: %s (%s)", e.Operation, msg, e.Code)
	}
	return fmt.Sprintf("jupiter %s: %s", e.Operation, msg)
}

// SwapBuildError means the aggregator answered without a transaction.
type SwapBuildError struct {
	Operation Operation
	Body      []byte
}

func (e *SwapBuildError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if len(b) > 256 {
		b = b[:256] + "..."
	}
	return fmt.Sprintf("jupiter %s returned no transaction: %s", e.Operation, b)
}

type errorBody struct {
	Error     json.RawMessage `json:"error"`
	ErrorCode string          `json:"errorCode"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
}

// parseAggregatorError extracts the error a Jupiter body carries. The error
// field is usually a string but some endpoints nest an object.
func parseAggregatorError(op Operation, status int, body []byte) *AggregatorError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return nil
	}

	msg := ""
	if len(eb.Error) > 0 && string(eb.Error) != "null" {
		var s string
		if err := json.Unmarshal(eb.Error, &s); err == nil {
			msg = s
		} else {
			var nested struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			}
			if err := json.Unmarshal(eb.Error, &nested); err == nil && nested.Message != "" {
				msg = nested.Message
				if eb.Code == "" {
					eb.Code = nested.Code
				}
			} else {
				msg = string(eb.Error)
			}
		}
	}
	if msg == "" {
		msg = eb.Message
	}
	if msg == "" {
		return nil
	}

	code := eb.ErrorCode
	if code == "" {
		code = eb.Code
	}
	return &AggregatorError{Operation: op, StatusCode: status, Code: code, Message: msg}
}
