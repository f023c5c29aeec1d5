package usecase

import (
	"errors"
	"strings"
	"testing"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
)

func TestPrompter_BuildPrompt_AllCombinations(t *testing.T) {
	t.Parallel()
	p := NewPrompter()

	for _, lang := range []domainInsight.Language{domainInsight.LangPT, domainInsight.LangEN} {
		for _, tone := range domainInsight.ToneRotation {
			prompt, err := p.BuildPrompt(lang, tone, "nonce123")
			if err != nil {
				t.Fatalf("BuildPrompt(%s, %s) unexpected error: %v", lang, tone, err)
			}
			if !strings.Contains(prompt, "HackaTransparency") {
				t.Fatalf("prompt for (%s, %s) missing event context", lang, tone)
			}
			if !strings.Contains(prompt, "Image ID: nonce123") {
				t.Fatalf("prompt for (%s, %s) missing nonce line", lang, tone)
			}
			if !strings.HasSuffix(prompt, "Be creative and unique - avoid repeating previous descriptions.") {
				t.Fatalf("prompt for (%s, %s) missing uniqueness instruction", lang, tone)
			}
		}
	}
}

func TestPrompter_BuildPrompt_UnknownLanguage(t *testing.T) {
	t.Parallel()
	p := NewPrompter()

	_, err := p.BuildPrompt(domainInsight.Language("fr"), domainInsight.ToneWarm, "n")
	if err == nil {
		t.Fatalf("expected error for unregistered language")
	}
	var confErr pkgError.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
}

func TestPrompter_BuildPrompt_UnknownTone(t *testing.T) {
	t.Parallel()
	p := NewPrompter()

	_, err := p.BuildPrompt(domainInsight.LangPT, domainInsight.Tone("sarcastic"), "n")
	if err == nil {
		t.Fatalf("expected error for unregistered tone")
	}
}

func TestPrompter_Nonce_Unique(t *testing.T) {
	t.Parallel()
	p := NewPrompter()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		nonce := p.Nonce()
		if nonce == "" {
			t.Fatalf("empty nonce")
		}
		if seen[nonce] {
			t.Fatalf("duplicate nonce %q", nonce)
		}
		seen[nonce] = true
	}
}
