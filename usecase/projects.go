package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainProject "github.com/hackatransparency/alfred-vision/domains/project"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/sirupsen/logrus"
)

// projectService proxies the public OC4IDS datastore so the frontend never
// talks to the third-party endpoint directly.
type projectService struct {
	baseURL string
	client  *http.Client
}

func NewProjectService(baseURL string) domainProject.IProjectUsecase {
	return &projectService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *projectService) Fetch(ctx context.Context, q domainProject.Query) ([]domainProject.Record, error) {
	params := url.Values{}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}
	if q.Fields != "" {
		params.Set("fields", q.Fields)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	endpoint := s.baseURL
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("invalid datastore request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("datastore request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgError.FetchError(fmt.Sprintf("datastore returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("failed to read datastore response: %v", err))
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("[PROJECTS] fetched %d records from datastore", len(records))
	return records, nil
}

// decodeRecords accepts either a bare JSON array or an envelope object with
// the records under "data" or "projects".
func decodeRecords(body []byte) ([]domainProject.Record, error) {
	var records []domainProject.Record
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgError.MalformedResponseError("datastore response is not valid JSON")
	}
	for _, field := range []string{"data", "projects", "results"} {
		raw, ok := envelope[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
	}
	return nil, pkgError.MalformedResponseError("datastore response has no recognizable record list")
}
