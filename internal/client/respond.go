package client

import "github.com/go-resty/resty/v2"

// unwrap classifies the outcome of a request. A transport failure (no
// response at all) propagates as a TransportError; a response with an error
// status becomes a RemoteRequestError carrying the server's diagnostics; a
// 2xx response yields the raw body. Resty reads the body fully and closes it
// on every path, so the response resource is released regardless of outcome.
func unwrap(resp *resty.Response, err error) (string, error) {
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	if resp.IsError() {
		return "", &RemoteRequestError{Status: resp.StatusCode(), Response: resp.String()}
	}
	return resp.String(), nil
}
