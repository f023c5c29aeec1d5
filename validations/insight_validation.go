package validations

import (
	"context"
	"fmt"
	"strings"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxQuipWords = 25

// ValidateInsight coerces a decoded model payload into an Insight and
// enforces the shape rules the gallery depends on.
func ValidateInsight(ctx context.Context, payload map[string]any) (domainInsight.Insight, error) {
	var result domainInsight.Insight

	title, ok := payload["title"].(string)
	if !ok {
		return result, pkgError.ValidationError("title: must be a string")
	}
	quip, ok := payload["quip"].(string)
	if !ok {
		return result, pkgError.ValidationError("quip: must be a string")
	}

	rawTags, ok := payload["tags"].([]any)
	if !ok {
		return result, pkgError.ValidationError("tags: must be an array of strings")
	}
	tags := make([]string, 0, len(rawTags))
	for i, tag := range rawTags {
		s, ok := tag.(string)
		if !ok {
			return result, pkgError.ValidationError(fmt.Sprintf("tags: element %d must be a string", i))
		}
		tags = append(tags, s)
	}

	result = domainInsight.Insight{Title: title, Tags: tags, Quip: quip}

	err := validation.ValidateStructWithContext(ctx, &result,
		validation.Field(&result.Title, validation.Required, validation.RuneLength(5, 50)),
		validation.Field(&result.Tags, validation.Required, validation.Length(3, 3)),
		validation.Field(&result.Quip, validation.Required, validation.By(quipWordLimit)),
	)
	if err != nil {
		return domainInsight.Insight{}, pkgError.ValidationError(err.Error())
	}

	return result, nil
}

func quipWordLimit(value any) error {
	quip, _ := value.(string)
	if words := len(strings.Fields(quip)); words > maxQuipWords {
		return fmt.Errorf("must be at most %d words, got %d", maxQuipWords, words)
	}
	return nil
}
