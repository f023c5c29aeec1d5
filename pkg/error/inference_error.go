package error

import "net/http"

// InferenceError means the external vision call failed: auth, network,
// rate limit or timeout. Not retried automatically; every inference call is
// billed, so retries must come from an explicit user action.
type InferenceError string

func (err InferenceError) Error() string {
	return string(err)
}

func (err InferenceError) ErrCode() string {
	return "INFERENCE_ERROR"
}

func (err InferenceError) StatusCode() int {
	return http.StatusBadGateway
}
