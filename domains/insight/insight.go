package insight

import (
	"context"
	"errors"
)

// Language is one of the two languages the gallery frontend can run in.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
)

func (l Language) Valid() bool {
	return l == LangPT || l == LangEN
}

// Tone controls the voice of the generated text. Images are assigned a tone
// by their position in the gallery manifest, rotating warm -> witty -> heartfelt.
type Tone string

const (
	ToneWarm      Tone = "warm"
	ToneWitty     Tone = "witty"
	ToneHeartfelt Tone = "heartfelt"
)

var ToneRotation = []Tone{ToneWarm, ToneWitty, ToneHeartfelt}

// ToneForIndex is deterministic: the same manifest index always yields the
// same tone, so the tone never needs to be stored alongside a cached insight.
func ToneForIndex(index int) Tone {
	if index < 0 {
		index = -index
	}
	return ToneRotation[index%len(ToneRotation)]
}

// Insight is the structured result of analyzing one gallery photo.
type Insight struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	Quip  string   `json:"quip"`
}

// CacheEntry is the persisted wrapper around an Insight. Entries are never
// mutated in place; they are fully replaced or deleted.
type CacheEntry struct {
	Insight  Insight `json:"insight"`
	Version  string  `json:"version"`
	CachedAt int64   `json:"cachedAt"` // epoch millis
}

// EncodedImage is a transport-ready image payload: raw base64 with no
// data-URI prefix, plus the media type reported by the origin.
type EncodedImage struct {
	Base64   string
	MimeType string
}

// AnalysisRequest is what a vision provider needs for one inference call.
type AnalysisRequest struct {
	Image  EncodedImage
	Prompt string
}

// VisionProvider sends one image plus one instruction block to an external
// multimodal model and returns its raw text output. Implementations must not
// retry on failure; retries are always explicit user actions upstream.
type VisionProvider interface {
	Name() string
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

// ErrQuotaExceeded is returned by KVStore.Set when the backing storage is
// full. The cache layer reacts by sweeping its namespace and retrying once.
var ErrQuotaExceeded = errors.New("insight store: quota exceeded")

// KVStore is the persistence boundary of the insight cache. Implementations
// are flat string key-value stores; all versioning, expiry and key layout
// live above this interface.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type CacheStats struct {
	Entries   int    `json:"entries"`
	TotalSize int64  `json:"total_size"`
	HumanSize string `json:"human_size"`
}

type ICacheUsecase interface {
	Stats(ctx context.Context) (CacheStats, error)
	Clear(ctx context.Context) (int, error)
}
