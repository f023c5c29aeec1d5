package error

import "net/http"

// MalformedResponseError means the model reply carried no usable text part.
type MalformedResponseError string

func (err MalformedResponseError) Error() string {
	return string(err)
}

func (err MalformedResponseError) ErrCode() string {
	return "MALFORMED_RESPONSE_ERROR"
}

func (err MalformedResponseError) StatusCode() int {
	return http.StatusBadGateway
}
