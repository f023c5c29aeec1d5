package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	domainGallery "github.com/hackatransparency/alfred-vision/domains/gallery"
	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/hackatransparency/alfred-vision/pkg/imagefetch"
	"github.com/hackatransparency/alfred-vision/validations"
	"github.com/sirupsen/logrus"
)

// fallbackInsights keeps the lightbox renderable when the pipeline fails.
// They read like real insights, never like error messages.
var fallbackInsights = map[domainInsight.Language]domainInsight.Insight{
	domainInsight.LangPT: {
		Title: "Momento do Hackathon",
		Tags:  []string{"Equipa", "Energia", "Foco"},
		Quip:  "O Alfred piscou e perdeu a cena, mas a energia da sala fala por si.",
	},
	domainInsight.LangEN: {
		Title: "Hackathon Moment",
		Tags:  []string{"Team", "Energy", "Focus"},
		Quip:  "Alfred blinked and missed the scene, but the room's energy speaks for itself.",
	},
}

type galleryService struct {
	manifest []string
	index    map[string]int
	baseURL  string

	fetcher  *imagefetch.Fetcher
	prompter *Prompter
	provider domainInsight.VisionProvider
	cache    *InsightCache
	hitDelay time.Duration

	mu     sync.Mutex
	states map[string]*viewerState
}

// viewerState guards against stale completions: an analysis that finishes
// after a newer one started for the same image must not overwrite its state.
type viewerState struct {
	gen     uint64
	outcome domainGallery.Outcome
}

func NewGalleryService(
	manifest []string,
	baseURL string,
	fetcher *imagefetch.Fetcher,
	prompter *Prompter,
	provider domainInsight.VisionProvider,
	cache *InsightCache,
	hitDelay time.Duration,
) domainGallery.IGalleryUsecase {
	index := make(map[string]int, len(manifest))
	for i, ref := range manifest {
		index[ref] = i
	}
	return &galleryService{
		manifest: manifest,
		index:    index,
		baseURL:  strings.TrimRight(baseURL, "/"),
		fetcher:  fetcher,
		prompter: prompter,
		provider: provider,
		cache:    cache,
		hitDelay: hitDelay,
		states:   make(map[string]*viewerState),
	}
}

func (s *galleryService) Images() []string {
	out := make([]string, len(s.manifest))
	copy(out, s.manifest)
	return out
}

func (s *galleryService) Status(imageRef string) (domainGallery.Outcome, error) {
	if _, ok := s.index[imageRef]; !ok {
		return domainGallery.Outcome{}, pkgError.NotFoundError(fmt.Sprintf("image %s is not in the gallery manifest", imageRef))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[imageRef]; ok {
		return state.outcome, nil
	}
	return domainGallery.Outcome{State: domainGallery.StateIdle}, nil
}

func (s *galleryService) Analyze(ctx context.Context, imageRef string, lang domainInsight.Language) (domainGallery.Outcome, error) {
	idx, ok := s.index[imageRef]
	if !ok {
		return domainGallery.Outcome{}, pkgError.NotFoundError(fmt.Sprintf("image %s is not in the gallery manifest", imageRef))
	}
	if !lang.Valid() {
		return domainGallery.Outcome{}, pkgError.ValidationError(fmt.Sprintf("unsupported language %q", lang))
	}

	gen := s.begin(imageRef)

	if cached, ok := s.cache.Get(ctx, imageRef, lang); ok {
		// Small pause so repeated views still read as an observation, not
		// an instant flash.
		if !sleepWithContext(ctx, s.hitDelay) {
			idle := domainGallery.Outcome{State: domainGallery.StateIdle}
			s.complete(imageRef, gen, idle)
			return idle, nil
		}
		outcome := domainGallery.Outcome{State: domainGallery.StateResult, Insight: cached, FromCache: true}
		s.complete(imageRef, gen, outcome)
		return outcome, nil
	}

	outcome := s.runPipeline(ctx, imageRef, idx, lang)
	if ctx.Err() != nil {
		// Viewer is gone; revert to idle. The generation guard keeps this
		// from clobbering a newer request's state.
		idle := domainGallery.Outcome{State: domainGallery.StateIdle}
		s.complete(imageRef, gen, idle)
		return idle, nil
	}
	s.complete(imageRef, gen, outcome)
	return outcome, nil
}

func (s *galleryService) SwitchLanguage(ctx context.Context, imageRef string, lang domainInsight.Language) (domainGallery.Outcome, error) {
	if _, ok := s.index[imageRef]; !ok {
		return domainGallery.Outcome{}, pkgError.NotFoundError(fmt.Sprintf("image %s is not in the gallery manifest", imageRef))
	}
	if !lang.Valid() {
		return domainGallery.Outcome{}, pkgError.ValidationError(fmt.Sprintf("unsupported language %q", lang))
	}

	gen := s.begin(imageRef)

	// Cache probe only. Inference is billed per call, so a language switch
	// never triggers it on its own.
	if cached, ok := s.cache.Get(ctx, imageRef, lang); ok {
		outcome := domainGallery.Outcome{State: domainGallery.StateResult, Insight: cached, FromCache: true}
		s.complete(imageRef, gen, outcome)
		return outcome, nil
	}

	outcome := domainGallery.Outcome{State: domainGallery.StateIdle}
	s.complete(imageRef, gen, outcome)
	return outcome, nil
}

func (s *galleryService) runPipeline(ctx context.Context, imageRef string, idx int, lang domainInsight.Language) domainGallery.Outcome {
	result, err := s.analyzeRemote(ctx, imageRef, idx, lang)
	if err != nil {
		logrus.WithError(err).Errorf("[GALLERY] analysis failed for %s (%s)", imageRef, lang)
		fallback := fallbackInsight(lang)
		return domainGallery.Outcome{
			State:   domainGallery.StateError,
			Insight: &fallback,
			ErrKind: pkgError.KindOf(err),
		}
	}

	s.cache.Put(ctx, imageRef, lang, *result)
	return domainGallery.Outcome{State: domainGallery.StateResult, Insight: result}
}

func (s *galleryService) analyzeRemote(ctx context.Context, imageRef string, idx int, lang domainInsight.Language) (*domainInsight.Insight, error) {
	img, err := s.fetcher.Fetch(ctx, s.resolveURL(imageRef))
	if err != nil {
		return nil, err
	}

	tone := domainInsight.ToneForIndex(idx)
	prompt, err := s.prompter.BuildPrompt(lang, tone, s.prompter.Nonce())
	if err != nil {
		return nil, err
	}

	logrus.Infof("[GALLERY] calling %s for %s (%s, %s)", s.provider.Name(), imageRef, lang, tone)
	raw, err := s.provider.Analyze(ctx, domainInsight.AnalysisRequest{
		Image: domainInsight.EncodedImage{
			Base64:   base64.StdEncoding.EncodeToString(img.Data),
			MimeType: img.MimeType,
		},
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	validated, err := validations.ValidateInsight(ctx, payload)
	if err != nil {
		return nil, err
	}

	logrus.Infof("[GALLERY] success for %s: %q", imageRef, validated.Title)
	return &validated, nil
}

func (s *galleryService) resolveURL(imageRef string) string {
	if strings.HasPrefix(imageRef, "http://") || strings.HasPrefix(imageRef, "https://") {
		return imageRef
	}
	return s.baseURL + "/" + strings.TrimLeft(imageRef, "/")
}

func (s *galleryService) begin(imageRef string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[imageRef]
	if !ok {
		state = &viewerState{}
		s.states[imageRef] = state
	}
	state.gen++
	state.outcome = domainGallery.Outcome{State: domainGallery.StateAnalyzing}
	return state.gen
}

func (s *galleryService) complete(imageRef string, gen uint64, outcome domainGallery.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[imageRef]
	if !ok || state.gen != gen {
		return
	}
	state.outcome = outcome
}

func fallbackInsight(lang domainInsight.Language) domainInsight.Insight {
	if fb, ok := fallbackInsights[lang]; ok {
		return fb
	}
	return fallbackInsights[domainInsight.LangPT]
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
