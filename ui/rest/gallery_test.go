package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainGallery "github.com/hackatransparency/alfred-vision/domains/gallery"
	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	"github.com/hackatransparency/alfred-vision/ui/rest/middleware"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/gofiber/fiber/v2"
)

type stubGalleryService struct {
	images  []string
	outcome domainGallery.Outcome
	err     error

	lastImage string
	lastLang  domainInsight.Language
}

func (s *stubGalleryService) Images() []string { return s.images }

func (s *stubGalleryService) Status(imageRef string) (domainGallery.Outcome, error) {
	s.lastImage = imageRef
	return s.outcome, s.err
}

func (s *stubGalleryService) Analyze(_ context.Context, imageRef string, lang domainInsight.Language) (domainGallery.Outcome, error) {
	s.lastImage = imageRef
	s.lastLang = lang
	return s.outcome, s.err
}

func (s *stubGalleryService) SwitchLanguage(_ context.Context, imageRef string, lang domainInsight.Language) (domainGallery.Outcome, error) {
	s.lastImage = imageRef
	s.lastLang = lang
	return s.outcome, s.err
}

func newGalleryApp(service domainGallery.IGalleryUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestGallery(app, service)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, raw)
	}
	return resp.StatusCode, payload
}

func TestRestGallery_Images(t *testing.T) {
	service := &stubGalleryService{images: []string{"/images/day-1/a.JPG", "/images/day-1/b.JPG"}}
	app := newGalleryApp(service)

	status, payload := doJSON(t, app, http.MethodGet, "/gallery/images", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	results := payload["results"].(map[string]any)
	images := results["images"].([]any)
	if len(images) != 2 || images[0] != "/images/day-1/a.JPG" {
		t.Fatalf("unexpected manifest: %v", images)
	}
}

func TestRestGallery_Analyze(t *testing.T) {
	service := &stubGalleryService{
		outcome: domainGallery.Outcome{
			State: domainGallery.StateResult,
			Insight: &domainInsight.Insight{
				Title: "Bright Morning Sprint",
				Tags:  []string{"Code", "Team", "Coffee"},
				Quip:  "Three keyboards, one mission.",
			},
		},
	}
	app := newGalleryApp(service)

	status, payload := doJSON(t, app, http.MethodPost, "/gallery/analyze",
		`{"image":"/images/day-1/a.JPG","lang":"en"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if payload["code"] != "SUCCESS" {
		t.Fatalf("expected SUCCESS, got %v", payload["code"])
	}
	results := payload["results"].(map[string]any)
	if results["state"] != "result" {
		t.Fatalf("expected result state, got %v", results["state"])
	}
	insight := results["insight"].(map[string]any)
	if insight["title"] != "Bright Morning Sprint" {
		t.Fatalf("unexpected insight: %v", insight)
	}
	if service.lastImage != "/images/day-1/a.JPG" || service.lastLang != domainInsight.LangEN {
		t.Fatalf("request not forwarded: %s / %s", service.lastImage, service.lastLang)
	}
}

func TestRestGallery_AnalyzeBadBody(t *testing.T) {
	app := newGalleryApp(&stubGalleryService{})

	status, payload := doJSON(t, app, http.MethodPost, "/gallery/analyze", `{"image":`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if payload["code"] != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST, got %v", payload["code"])
	}
}

func TestRestGallery_UnknownImageMapsTo404(t *testing.T) {
	service := &stubGalleryService{err: pkgError.NotFoundError("image /nope.JPG is not in the gallery manifest")}
	app := newGalleryApp(service)

	status, payload := doJSON(t, app, http.MethodPost, "/gallery/analyze",
		`{"image":"/nope.JPG","lang":"pt"}`)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if payload["code"] != "NOT_FOUND_ERROR" {
		t.Fatalf("expected NOT_FOUND_ERROR, got %v", payload["code"])
	}
}

func TestRestGallery_InvalidLanguageMapsTo422(t *testing.T) {
	service := &stubGalleryService{err: pkgError.ValidationError(`unsupported language "fr"`)}
	app := newGalleryApp(service)

	status, payload := doJSON(t, app, http.MethodPost, "/gallery/language",
		`{"image":"/images/day-1/a.JPG","lang":"fr"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if payload["code"] != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", payload["code"])
	}
}

func TestRestGallery_StatusQuery(t *testing.T) {
	service := &stubGalleryService{outcome: domainGallery.Outcome{State: domainGallery.StateAnalyzing}}
	app := newGalleryApp(service)

	status, payload := doJSON(t, app, http.MethodGet, "/gallery/status?image=%2Fimages%2Fday-1%2Fa.JPG", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	results := payload["results"].(map[string]any)
	if results["state"] != "analyzing" {
		t.Fatalf("expected analyzing, got %v", results["state"])
	}
	if service.lastImage != "/images/day-1/a.JPG" {
		t.Fatalf("query not forwarded: %q", service.lastImage)
	}
}
