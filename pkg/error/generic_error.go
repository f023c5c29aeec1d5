package error

// GenericError is implemented by every typed error in the analysis pipeline
// so the REST recovery middleware and the orchestrator can map failures
// without string matching.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}

// KindOf returns the error code of a pipeline error, or "INTERNAL_ERROR"
// for anything outside the known taxonomy.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	if ge, ok := err.(GenericError); ok {
		return ge.ErrCode()
	}
	return "INTERNAL_ERROR"
}
