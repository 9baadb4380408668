package client

import "fmt"

// InvalidArgumentError reports a required parameter that was empty at the
// call boundary. No network call is issued.
type InvalidArgumentError struct {
	Param string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("loop: required argument %q is missing", e.Param)
}

// NotAuthenticatedError reports an authenticated operation invoked before a
// successful login. No network call is issued.
type NotAuthenticatedError struct{}

func (e *NotAuthenticatedError) Error() string {
	return "loop: not authenticated, call Login first"
}

// AuthenticationError reports a login whose HTTP call succeeded but whose
// response carried no usable token. The session stays unauthenticated.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "loop: " + e.Message
}

// TransportError reports a call that never produced a response (connection
// refused, timeout, DNS). The underlying cause is propagated unchanged.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("loop: request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// RemoteRequestError reports a response that arrived but carried a failure
// status. Status and Response hold the diagnostics from the server.
type RemoteRequestError struct {
	Status   int
	Response string
}

func (e *RemoteRequestError) Error() string {
	return fmt.Sprintf("loop: remote request failed: HTTP %d: %s", e.Status, e.Response)
}

// DecodingError reports a successful response whose body could not be parsed
// into the expected structure.
type DecodingError struct {
	Cause error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("loop: decode response: %v", e.Cause)
}

func (e *DecodingError) Unwrap() error { return e.Cause }
