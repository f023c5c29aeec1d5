package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// OpenAIProvider is the drop-in alternative to Gemini, selected via
// configuration. Same contract: no retries, one bounded call.
type OpenAIProvider struct {
	apiKey      string
	model       string
	maxTokens   int64
	temperature float64
	timeout     time.Duration
}

func NewOpenAIProvider(apiKey, model string, maxTokens int, temperature float64, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
		timeout:     timeout,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Analyze(ctx context.Context, req domainInsight.AnalysisRequest) (string, error) {
	if p.apiKey == "" {
		return "", pkgError.ConfigurationError("openai api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client := openai.NewClient(option.WithAPIKey(p.apiKey))

	dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MimeType, req.Image.Base64)
	contentParts := []openai.ChatCompletionContentPartUnionParam{
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}),
		openai.TextContentPart(req.Prompt),
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(contentParts),
		},
		MaxTokens:   openai.Int(p.maxTokens),
		Temperature: openai.Float(p.temperature),
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", pkgError.InferenceError(fmt.Sprintf("openai call timed out after %v", p.timeout))
		}
		return "", pkgError.InferenceError(fmt.Sprintf("openai call failed: %v", err))
	}

	if len(completion.Choices) == 0 {
		return "", pkgError.MalformedResponseError("no choices in openai response")
	}
	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", pkgError.MalformedResponseError("no text content in openai response")
	}

	logrus.Debugf("[VISION] openai returned %d chars", len(text))
	return text, nil
}
