package llm

import (
	"context"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("```json|```")

// StripFences removes Markdown code fences anywhere in the reply and trims
// surrounding whitespace. Models often wrap JSON in ```json blocks even when
// told not to.
func StripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// ExtractJSONArray pulls a JSON array out of LLM output that may carry
// fences or prose around it. Returns the fence-stripped text unchanged when
// no bracketed array is found, leaving the parse error to the caller.
func ExtractJSONArray(s string) string {
	s = StripFences(s)
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// Complete is a convenience helper: sends a single user prompt and returns
// the text response.
func Complete(ctx context.Context, p Provider, prompt string) (string, error) {
	resp, err := p.Complete(ctx, CompletionRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
