// Package quote orchestrates the transcript-to-verse pipeline: merge the
// fragment with recent context, ask the oracle for candidate references,
// resolve them against the loaded translations, and emit paced stream
// events. Every failure past input validation degrades to an event on the
// stream; the pipeline itself never returns an error mid-stream.
package quote

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/skillsenselab/versestream/contextcache"
	"github.com/skillsenselab/versestream/extraction"
	"github.com/skillsenselab/versestream/logger"
	"github.com/skillsenselab/versestream/observability"
	"github.com/skillsenselab/versestream/scripture"
)

// Config holds pipeline tuning knobs.
type Config struct {
	// MinChunkLength is the minimum merged-text length (in characters)
	// worth sending to the oracle.
	MinChunkLength int `yaml:"min_chunk_length" mapstructure:"min_chunk_length"`
	// PaceMillis is the delay between consecutive verse emissions.
	PaceMillis int `yaml:"pace_millis" mapstructure:"pace_millis"`
}

// ApplyDefaults sets the standard 10-char minimum and 100ms pacing.
func (c *Config) ApplyDefaults() {
	if c.MinChunkLength == 0 {
		c.MinChunkLength = 10
	}
	if c.PaceMillis == 0 {
		c.PaceMillis = 100
	}
}

// StreamRequest is the POST body for a stream request.
type StreamRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"sessionId" binding:"required,notblank"`
	Version   string `json:"version" binding:"required"`
}

// EmitFunc writes one event to the client. A returned error means the
// client is gone and the pipeline should stop.
type EmitFunc func(Event) error

// Service runs the quotation pipeline.
type Service struct {
	cache     *contextcache.Cache
	store     *scripture.Store
	extractor *extraction.Extractor
	minChunk  int
	pace      time.Duration
	log       *logger.Logger
}

// NewService wires the pipeline together.
func NewService(cfg Config, cache *contextcache.Cache, store *scripture.Store, extractor *extraction.Extractor, log *logger.Logger) *Service {
	cfg.ApplyDefaults()
	return &Service{
		cache:     cache,
		store:     store,
		extractor: extractor,
		minChunk:  cfg.MinChunkLength,
		pace:      time.Duration(cfg.PaceMillis) * time.Millisecond,
		log:       log.WithComponent("quote-service"),
	}
}

// Stream runs the pipeline for one request, emitting events through emit.
// The returned error is non-nil only when the client disconnected or the
// request context was cancelled; oracle and parse failures surface as
// error events instead.
func (s *Service) Stream(ctx context.Context, req StreamRequest, emit EmitFunc) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanStreamRequest)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, req.SessionID)
	observability.SetSpanAttribute(ctx, observability.AttrTranslation, req.Version)

	recent := s.cache.RecentText()
	s.cache.Record(req.SessionID, req.Text)

	merged := strings.TrimSpace(recent + " " + req.Text)
	if utf8.RuneCountInString(merged) < s.minChunk {
		return emit(NewNoMatchEvent())
	}

	// Only the fresh fragment goes to the oracle; the merged text just
	// gates whether there is enough speech to bother analyzing.
	matches, err := s.extractor.Extract(ctx, req.Text)
	if err != nil {
		if errors.Is(err, extraction.ErrMalformedReply) {
			return emit(NewErrorEvent(MsgParseFailed))
		}
		s.log.Error("Oracle call failed", logger.Fields(
			"error", err.Error(),
			"session_id", req.SessionID,
		))
		return emit(NewErrorEvent(MsgProcessingFailed))
	}

	for _, match := range matches {
		for _, reference := range scripture.ExpandRange(match.Reference) {
			text := s.store.Resolve(reference, req.Version)
			if err := emit(NewQuoteEvent(reference, text, req.Version)); err != nil {
				return err
			}
			if err := s.sleep(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// sleep pauses between verse emissions, bailing out when the request
// context is cancelled.
func (s *Service) sleep(ctx context.Context) error {
	if s.pace <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.pace)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
