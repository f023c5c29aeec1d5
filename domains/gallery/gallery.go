package gallery

import (
	"context"

	"github.com/hackatransparency/alfred-vision/domains/insight"
)

// State is the lifecycle position of one analysis, as surfaced to the UI.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateResult    State = "result"
	StateError     State = "error"
)

// Outcome is the tagged result of one analysis step. On StateError the
// Insight is the static language-appropriate fallback, never nil, so the
// frontend always has renderable content.
type Outcome struct {
	State     State            `json:"state"`
	Insight   *insight.Insight `json:"insight,omitempty"`
	ErrKind   string           `json:"error_kind,omitempty"`
	FromCache bool             `json:"from_cache"`
}

type IGalleryUsecase interface {
	// Images returns the gallery manifest in its declared order.
	Images() []string

	// Status reports the last recorded outcome for an image, StateIdle if
	// none has been recorded yet.
	Status(imageRef string) (Outcome, error)

	// Analyze runs the full pipeline for one (image, language) pair:
	// cache probe, then fetch -> prompt -> infer -> validate -> cache.
	Analyze(ctx context.Context, imageRef string, lang insight.Language) (Outcome, error)

	// SwitchLanguage probes the cache under the new language only. It never
	// triggers inference; a miss reverts the viewer to an idle-like state.
	SwitchLanguage(ctx context.Context, imageRef string, lang insight.Language) (Outcome, error)
}
