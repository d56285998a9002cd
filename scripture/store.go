package scripture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/skillsenselab/versestream/component"
	"github.com/skillsenselab/versestream/logger"
)

// Sentinel texts returned for unresolvable lookups. Resolution never
// errors: callers stream these strings as the verse body.
const (
	InvalidVersionText = "Invalid Bible version"
	TextNotFound       = "Text not found"
)

// translation is a parsed dataset: book -> chapter -> verse -> text.
type translation map[string]map[string]map[string]string

// Config maps translation codes to dataset file paths.
type Config struct {
	// Datasets maps a translation code (e.g. "KJV") to the path of its
	// JSON dataset file.
	Datasets map[string]string `yaml:"datasets" mapstructure:"datasets"`
}

// Store holds the loaded translation datasets. Safe for concurrent reads.
type Store struct {
	mu           sync.RWMutex
	translations map[string]translation
	log          *logger.Logger
}

// NewStore creates an empty store.
func NewStore(log *logger.Logger) *Store {
	return &Store{
		translations: make(map[string]translation),
		log:          log.WithComponent("scripture-store"),
	}
}

// Load reads every dataset named in cfg. A missing or malformed file fails
// the load: serving with a silently absent translation would turn every
// lookup for it into a sentinel.
func (s *Store) Load(cfg Config) error {
	for code, path := range cfg.Datasets {
		if err := s.LoadFile(code, path); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile parses a single dataset file and registers it under code.
// Translation codes are case-sensitive, matching the request contract.
func (s *Store) LoadFile(code, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripture: read dataset %s: %w", code, err)
	}

	var t translation
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("scripture: parse dataset %s: %w", code, err)
	}

	s.mu.Lock()
	s.translations[code] = t
	s.mu.Unlock()

	s.log.Info("Loaded translation dataset", logger.Fields(
		"code", code,
		"path", path,
		"books", len(t),
	))
	return nil
}

// Translations returns the loaded translation codes, sorted.
func (s *Store) Translations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.translations))
	for c := range s.translations {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Resolve looks up a single-verse reference in the named translation.
// It always returns displayable text: InvalidVersionText when the
// translation is unknown and TextNotFound for any other miss.
func (s *Store) Resolve(reference, version string) string {
	s.mu.RLock()
	t, ok := s.translations[version]
	s.mu.RUnlock()
	if !ok {
		return InvalidVersionText
	}

	book, chapter, verse, ok := SplitReference(reference)
	if !ok {
		return TextNotFound
	}

	bookData, ok := t[book]
	if !ok {
		return TextNotFound
	}
	chapterData, ok := bookData[chapter]
	if !ok {
		return TextNotFound
	}
	text := chapterData[verse]
	if strings.TrimSpace(text) == "" {
		return TextNotFound
	}
	return text
}

// --- component.Component ---

// Name returns the component name.
func (s *Store) Name() string { return "scripture-store" }

// Start is a no-op; datasets are loaded explicitly during bootstrap.
func (s *Store) Start(context.Context) error { return nil }

// Stop is a no-op.
func (s *Store) Stop(context.Context) error { return nil }

// Health reports unhealthy until at least one translation is loaded.
func (s *Store) Health(context.Context) component.Health {
	s.mu.RLock()
	n := len(s.translations)
	s.mu.RUnlock()

	if n == 0 {
		return component.Health{
			Name:    s.Name(),
			Status:  component.StatusUnhealthy,
			Message: "no translation datasets loaded",
		}
	}
	return component.Health{
		Name:    s.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d translations loaded", n),
	}
}
