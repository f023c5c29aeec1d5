package error

import "net/http"

// ExtractionError means no JSON object could be pulled out of the model text.
type ExtractionError string

func (err ExtractionError) Error() string {
	return string(err)
}

func (err ExtractionError) ErrCode() string {
	return "EXTRACTION_ERROR"
}

func (err ExtractionError) StatusCode() int {
	return http.StatusUnprocessableEntity
}
