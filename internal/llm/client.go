// Package llm talks to the model providers. Each client takes a rendered
// prompt and returns the completion text; both providers run the response
// through Clamp so the action parser sees the tightest plausible JSON window.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Client is a single completion provider.
type Client interface {
	// Complete sends the prompt and returns the clamped response text.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in logs.
	Name() string
}

// Disabled is the client used when no provider is configured. Every call
// fails, which routes the assistant onto its keyword fallback.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) Complete(context.Context, string) (string, error) {
	return "", errors.New("no LLM provider configured: set MISTRAL_API_KEY or GEMINI_API_KEY")
}

// Clamp trims a model response down to its JSON object: code fences come off,
// then anything before the first "{" and after the last "}" is dropped. The
// result may still be invalid JSON; the action parser decides that.
func Clamp(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}

	if start := strings.IndexByte(cleaned, '{'); start > 0 {
		cleaned = cleaned[start:]
	}
	if end := strings.LastIndexByte(cleaned, '}'); end != -1 && end < len(cleaned)-1 {
		cleaned = cleaned[:end+1]
	}

	return strings.TrimSpace(cleaned)
}
