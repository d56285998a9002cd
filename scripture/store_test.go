package scripture

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/skillsenselab/versestream/component"
	"github.com/skillsenselab/versestream/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(logger.NewDefault("test"))
	if err := s.Load(Config{Datasets: map[string]string{
		"KJV": filepath.Join("testdata", "kjv_mini.json"),
		"ESV": filepath.Join("testdata", "esv_mini.json"),
	}}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func TestStoreResolve(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name      string
		reference string
		version   string
		want      string
	}{
		{
			"known verse",
			"John 3:16", "KJV",
			"For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life.",
		},
		{
			"numbered book",
			"1 John 3:16", "KJV",
			"Hereby perceive we the love of God, because he laid down his life for us: and we ought to lay down our lives for the brethren.",
		},
		{"unknown version", "John 3:16", "XYZ", InvalidVersionText},
		{"version code is case-sensitive", "John 3:16", "kjv", InvalidVersionText},
		{"unknown book", "Opinions 1:1", "KJV", TextNotFound},
		{"unknown chapter", "John 99:1", "KJV", TextNotFound},
		{"unknown verse", "John 3:999", "KJV", TextNotFound},
		{"malformed reference", "John three sixteen", "KJV", TextNotFound},
		{"empty reference", "", "KJV", TextNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Resolve(tt.reference, tt.version); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.reference, tt.version, got, tt.want)
			}
		})
	}
}

func TestStoreLoadErrors(t *testing.T) {
	s := NewStore(logger.NewDefault("test"))

	if err := s.LoadFile("KJV", filepath.Join("testdata", "missing.json")); err == nil {
		t.Error("expected error for missing dataset file")
	}
	if err := s.Load(Config{Datasets: map[string]string{"KJV": "no/such/file.json"}}); err == nil {
		t.Error("expected Load to fail on missing file")
	}
}

func TestStoreTranslations(t *testing.T) {
	s := newTestStore(t)
	if got, want := s.Translations(), []string{"ESV", "KJV"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Translations() = %v, want %v", got, want)
	}
}

func TestStoreHealth(t *testing.T) {
	empty := NewStore(logger.NewDefault("test"))
	if h := empty.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("empty store health = %s, want unhealthy", h.Status)
	}

	s := newTestStore(t)
	if h := s.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("loaded store health = %s, want healthy", h.Status)
	}
}
