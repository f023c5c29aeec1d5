package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	domainGallery "github.com/hackatransparency/alfred-vision/domains/gallery"
	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	"github.com/hackatransparency/alfred-vision/infrastructure/insightstore"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/hackatransparency/alfred-vision/pkg/imagefetch"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	prompts  []string
	response string
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Analyze(_ context.Context, req domainInsight.AnalysisRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const goodResponse = `{"title":"Cold Coffee Club","tags":["Focus","Team","Energy"],"quip":"Three minds, one problem, zero surrender."}`

var testManifest = []string{
	"/images/day-1/first.JPG",
	"/images/day-1/second.JPG",
	"/images/day-1/third.JPG",
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("not-really-a-jpeg-but-bytes"))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestGallery(t *testing.T, manifest []string, baseURL string, provider domainInsight.VisionProvider) domainGallery.IGalleryUsecase {
	t.Helper()
	cache := NewInsightCache(insightstore.NewMemoryStore(0))
	return NewGalleryService(
		manifest,
		baseURL,
		imagefetch.NewFetcher(0),
		NewPrompter(),
		provider,
		cache,
		time.Millisecond,
	)
}

func TestGallery_AnalyzeEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)
	provider := &fakeProvider{response: goodResponse}
	svc := newTestGallery(t, testManifest, server.URL, provider)

	// Fresh image starts idle.
	status, err := svc.Status(testManifest[0])
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status.State != domainGallery.StateIdle {
		t.Fatalf("expected idle, got %s", status.State)
	}

	outcome, err := svc.Analyze(ctx, testManifest[0], domainInsight.LangPT)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if outcome.State != domainGallery.StateResult {
		t.Fatalf("expected result state, got %s (%s)", outcome.State, outcome.ErrKind)
	}
	if outcome.FromCache {
		t.Fatalf("first analysis must not come from cache")
	}
	if outcome.Insight == nil || outcome.Insight.Title != "Cold Coffee Club" {
		t.Fatalf("unexpected insight: %+v", outcome.Insight)
	}
	if provider.callCount() != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.callCount())
	}

	// Second analysis is served from cache without another billed call.
	cached, err := svc.Analyze(ctx, testManifest[0], domainInsight.LangPT)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if !cached.FromCache {
		t.Fatalf("expected cache hit")
	}
	if cached.Insight.Title != outcome.Insight.Title {
		t.Fatalf("cached insight differs: %q vs %q", cached.Insight.Title, outcome.Insight.Title)
	}
	if provider.callCount() != 1 {
		t.Fatalf("cache hit must not call the provider, got %d calls", provider.callCount())
	}

	status, _ = svc.Status(testManifest[0])
	if status.State != domainGallery.StateResult {
		t.Fatalf("expected recorded result state, got %s", status.State)
	}
}

func TestGallery_ToneRotation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)
	provider := &fakeProvider{response: goodResponse}
	svc := newTestGallery(t, testManifest, server.URL, provider)

	for _, ref := range testManifest {
		if _, err := svc.Analyze(ctx, ref, domainInsight.LangPT); err != nil {
			t.Fatalf("Analyze(%s) error: %v", ref, err)
		}
	}

	// Manifest order drives the warm -> witty -> heartfelt rotation.
	markers := []string{"calorosas", "espertas", "inspiradoras"}
	for i, marker := range markers {
		if !strings.Contains(provider.prompts[i], marker) {
			t.Fatalf("prompt %d missing %q marker", i, marker)
		}
	}
}

func TestGallery_InferenceErrorFallsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)
	provider := &fakeProvider{err: pkgError.InferenceError("model unavailable")}
	svc := newTestGallery(t, testManifest, server.URL, provider)

	outcome, err := svc.Analyze(ctx, testManifest[0], domainInsight.LangPT)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if outcome.State != domainGallery.StateError {
		t.Fatalf("expected error state, got %s", outcome.State)
	}
	if outcome.ErrKind != "INFERENCE_ERROR" {
		t.Fatalf("expected INFERENCE_ERROR kind, got %q", outcome.ErrKind)
	}
	if outcome.Insight == nil || outcome.Insight.Title != fallbackInsights[domainInsight.LangPT].Title {
		t.Fatalf("expected static pt fallback, got %+v", outcome.Insight)
	}

	// Failures are never cached; an explicit retry calls the provider again.
	_, _ = svc.Analyze(ctx, testManifest[0], domainInsight.LangPT)
	if provider.callCount() != 2 {
		t.Fatalf("expected retry to hit the provider, got %d calls", provider.callCount())
	}
}

func TestGallery_ExtractionAndValidationErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)

	cases := []struct {
		name     string
		response string
		kind     string
	}{
		{"no json", "sorry, I cannot help with that", "EXTRACTION_ERROR"},
		{"short title", `{"title":"Hi","tags":["A","B","C"],"quip":"ok"}`, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		provider := &fakeProvider{response: tc.response}
		svc := newTestGallery(t, testManifest, server.URL, provider)

		outcome, err := svc.Analyze(ctx, testManifest[0], domainInsight.LangEN)
		if err != nil {
			t.Fatalf("%s: Analyze() error: %v", tc.name, err)
		}
		if outcome.State != domainGallery.StateError {
			t.Fatalf("%s: expected error state, got %s", tc.name, outcome.State)
		}
		if outcome.ErrKind != tc.kind {
			t.Fatalf("%s: expected %s, got %q", tc.name, tc.kind, outcome.ErrKind)
		}
		if outcome.Insight == nil || outcome.Insight.Title != fallbackInsights[domainInsight.LangEN].Title {
			t.Fatalf("%s: expected en fallback insight", tc.name)
		}
	}
}

func TestGallery_FetchErrorFallsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)
	provider := &fakeProvider{response: goodResponse}
	manifest := []string{"/images/day-1/missing.JPG"}
	svc := newTestGallery(t, manifest, server.URL, provider)

	outcome, err := svc.Analyze(ctx, manifest[0], domainInsight.LangPT)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if outcome.State != domainGallery.StateError || outcome.ErrKind != "FETCH_ERROR" {
		t.Fatalf("expected FETCH_ERROR outcome, got %s/%s", outcome.State, outcome.ErrKind)
	}
	if provider.callCount() != 0 {
		t.Fatalf("fetch failure must not reach the provider")
	}
}

func TestGallery_SwitchLanguage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)
	provider := &fakeProvider{response: goodResponse}
	svc := newTestGallery(t, testManifest, server.URL, provider)

	if _, err := svc.Analyze(ctx, testManifest[0], domainInsight.LangPT); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	// No cached en insight: the viewer reverts to idle, no inference.
	outcome, err := svc.SwitchLanguage(ctx, testManifest[0], domainInsight.LangEN)
	if err != nil {
		t.Fatalf("SwitchLanguage() error: %v", err)
	}
	if outcome.State != domainGallery.StateIdle {
		t.Fatalf("expected idle on miss, got %s", outcome.State)
	}
	if provider.callCount() != 1 {
		t.Fatalf("language switch must never trigger inference")
	}

	// Switching back finds the pt entry.
	outcome, err = svc.SwitchLanguage(ctx, testManifest[0], domainInsight.LangPT)
	if err != nil {
		t.Fatalf("SwitchLanguage() error: %v", err)
	}
	if outcome.State != domainGallery.StateResult || !outcome.FromCache {
		t.Fatalf("expected cached result, got %+v", outcome)
	}
}

func TestGallery_UnknownImageAndLanguage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newImageServer(t)
	svc := newTestGallery(t, testManifest, server.URL, &fakeProvider{response: goodResponse})

	_, err := svc.Analyze(ctx, "/images/day-1/not-in-manifest.JPG", domainInsight.LangPT)
	var notFound pkgError.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, err = svc.Analyze(ctx, testManifest[0], domainInsight.Language("fr"))
	var valErr pkgError.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
