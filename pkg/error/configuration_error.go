package error

import "net/http"

// ConfigurationError indicates a programming defect: a language or tone
// outside the closed sets, or an image that is not in the manifest.
type ConfigurationError string

func (err ConfigurationError) Error() string {
	return string(err)
}

func (err ConfigurationError) ErrCode() string {
	return "CONFIGURATION_ERROR"
}

func (err ConfigurationError) StatusCode() int {
	return http.StatusInternalServerError
}
