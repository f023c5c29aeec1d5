package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GeminiProvider speaks to the Gemini API. One image plus one instruction
// block in, raw text out. There is no retry here: a failed call is the
// caller's decision to repeat, since every call is billed.
type GeminiProvider struct {
	apiKey      string
	model       string
	maxTokens   int32
	temperature float32
	timeout     time.Duration
}

func NewGeminiProvider(apiKey, model string, maxTokens int, temperature float64, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   int32(maxTokens),
		temperature: float32(temperature),
		timeout:     timeout,
	}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Analyze(ctx context.Context, req domainInsight.AnalysisRequest) (string, error) {
	if p.apiKey == "" {
		return "", pkgError.ConfigurationError("gemini api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", pkgError.InferenceError(fmt.Sprintf("failed to create gemini client: %v", err))
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.Image.Base64)
	if err != nil {
		return "", pkgError.InferenceError(fmt.Sprintf("invalid base64 image payload: %v", err))
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: req.Image.MimeType, Data: imageBytes}},
			{Text: req.Prompt},
		},
	}}

	temp := p.temperature
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: p.maxTokens,
		Temperature:     &temp,
	}

	result, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", pkgError.InferenceError(fmt.Sprintf("gemini call timed out after %v", p.timeout))
		}
		return "", pkgError.InferenceError(fmt.Sprintf("gemini call failed: %v", err))
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", pkgError.MalformedResponseError("no candidates in gemini response")
	}

	// Collect text manually from the parts instead of result.Text(); some
	// responses interleave non-text parts.
	var fullText string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			fullText += part.Text
		}
	}
	if strings.TrimSpace(fullText) == "" {
		return "", pkgError.MalformedResponseError("no text part in gemini response")
	}

	logrus.Debugf("[VISION] gemini returned %d chars", len(fullText))
	return fullText, nil
}
