package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skillsenselab/versestream/llm"
	"github.com/skillsenselab/versestream/logger"
)

type fakeProvider struct {
	reply     string
	err       error
	gotPrompt string
}

func (f *fakeProvider) Name() string                     { return "fake" }
func (f *fakeProvider) IsAvailable(context.Context) bool { return true }
func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if len(req.Messages) > 0 {
		f.gotPrompt = req.Messages[0].Content
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func newTestExtractor(p llm.Provider) *Extractor {
	return NewExtractor(p, logger.NewDefault("test"))
}

func TestBuildPromptEmbedsFragment(t *testing.T) {
	prompt := BuildPrompt("for God so loved the world")
	if !strings.Contains(prompt, `"for God so loved the world"`) {
		t.Errorf("prompt does not quote the fragment:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Format as JSON array") {
		t.Error("prompt missing output format instruction")
	}
	if !strings.Contains(prompt, "Verse ranges") {
		t.Error("prompt missing range guidance")
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"plain array", `[{"reference": "John 3:16"}]`, []string{"John 3:16"}},
		{
			"fenced array",
			"```json\n[{\"reference\": \"Genesis 4:5-8\"}]\n```",
			[]string{"Genesis 4:5-8"},
		},
		{"empty array", "[]", nil},
		{
			"multiple matches",
			`[{"reference": "John 3:16"}, {"reference": "Psalms 23:1"}]`,
			[]string{"John 3:16", "Psalms 23:1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(&fakeProvider{reply: tt.reply})
			matches, err := e.Extract(context.Background(), "some speech")
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(matches) != len(tt.want) {
				t.Fatalf("got %d matches, want %d", len(matches), len(tt.want))
			}
			for i, m := range matches {
				if m.Reference != tt.want[i] {
					t.Errorf("match[%d] = %q, want %q", i, m.Reference, tt.want[i])
				}
			}
		})
	}
}

func TestExtractMalformedReply(t *testing.T) {
	e := newTestExtractor(&fakeProvider{reply: "I found John 3:16 for you!"})
	_, err := e.Extract(context.Background(), "x")
	if !errors.Is(err, ErrMalformedReply) {
		t.Fatalf("error = %v, want ErrMalformedReply", err)
	}
}

func TestExtractProviderError(t *testing.T) {
	boom := errors.New("oracle unreachable")
	e := newTestExtractor(&fakeProvider{err: boom})
	_, err := e.Extract(context.Background(), "x")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped provider error", err)
	}
	if errors.Is(err, ErrMalformedReply) {
		t.Fatal("provider failure must not be classified as a malformed reply")
	}
}

func TestExtractSendsOnlyFreshFragment(t *testing.T) {
	p := &fakeProvider{reply: "[]"}
	e := newTestExtractor(p)
	if _, err := e.Extract(context.Background(), "fresh words"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(p.gotPrompt, "fresh words") {
		t.Errorf("prompt missing fragment: %q", p.gotPrompt)
	}
}
