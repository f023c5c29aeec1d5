package error

import "net/http"

// FetchError means the image bytes were unreachable: network failure or a
// non-success HTTP status from the image origin. Never retried automatically.
type FetchError string

func (err FetchError) Error() string {
	return string(err)
}

func (err FetchError) ErrCode() string {
	return "FETCH_ERROR"
}

func (err FetchError) StatusCode() int {
	return http.StatusBadGateway
}
