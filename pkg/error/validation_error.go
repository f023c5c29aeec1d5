package error

import "net/http"

// ValidationError means the extracted payload broke the insight shape rules.
type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusUnprocessableEntity
}
