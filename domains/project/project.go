package project

import (
	"context"
	"encoding/json"
)

// Query mirrors the optional filters accepted by the OC4IDS datastore
// endpoint. Zero values are omitted from the outgoing request.
type Query struct {
	StartDate string `json:"start_date" query:"startDate"`
	EndDate   string `json:"end_date" query:"endDate"`
	Fields    string `json:"fields" query:"fields"`
	Limit     int    `json:"limit" query:"limit"`
}

// Record is one project entry as returned by the datastore. The payload is
// passed through untouched; the service is a read-only proxy.
type Record = json.RawMessage

type IProjectUsecase interface {
	Fetch(ctx context.Context, q Query) ([]Record, error)
}
