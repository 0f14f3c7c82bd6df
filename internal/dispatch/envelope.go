package dispatch

import "encoding/json"

// Response is the only shape ever returned to a caller: exactly one of
// Data / ErrorMessage is set, ErrorMessage iff Status is "error".
type Response struct {
	Status       string    `json:"status"`
	Data         any       `json:"data,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success wraps a domain service result.
func Success(data any) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// Failure wraps any error from the pipeline. Errors that are not already a
// dispatch *Error are treated as unexpected.
func Failure(err error) Response {
	derr, ok := err.(*Error)
	if !ok {
		derr = errUnexpected(err.Error())
	}
	return Response{
		Status:       StatusError,
		ErrorMessage: derr.Message,
		ErrorKind:    derr.Kind,
	}
}

// JSON renders the envelope as compact JSON, the payload shape both
// transports emit.
func (r Response) JSON() ([]byte, error) {
	return json.Marshal(r)
}
