package clients

import "fmt"

// NetworkError reports a transport failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response. Message is the human-readable text
// shown to the user.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// ParseError reports a response body that is not JSON or lacks the expected shape.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UpdateError reports a failed user list replacement, whatever the cause.
type UpdateError struct {
	Err error
}

func (e *UpdateError) Error() string {
	return "Failed to update places"
}

func (e *UpdateError) Unwrap() error { return e.Err }
