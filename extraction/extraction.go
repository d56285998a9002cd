// Package extraction asks the LLM oracle which scripture references a
// spoken transcript fragment contains and parses its reply into
// candidate matches.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skillsenselab/versestream/llm"
	"github.com/skillsenselab/versestream/logger"
	"github.com/skillsenselab/versestream/observability"
)

// ErrMalformedReply marks an oracle reply that could not be parsed as a
// JSON match array. Callers distinguish this from transport failures when
// picking the error message to stream.
var ErrMalformedReply = errors.New("extraction: malformed oracle reply")

// Match is a single candidate reference proposed by the oracle. The
// reference may be a single verse ("John 3:16") or a range
// ("Genesis 4:5-8").
type Match struct {
	Reference string `json:"reference"`
}

// Extractor wraps an LLM provider behind the reference-detection prompt.
type Extractor struct {
	provider llm.Provider
	log      *logger.Logger
}

// NewExtractor creates an extractor backed by the given provider.
func NewExtractor(p llm.Provider, log *logger.Logger) *Extractor {
	return &Extractor{
		provider: p,
		log:      log.WithComponent("extraction"),
	}
}

// BuildPrompt renders the detection prompt for a transcript fragment.
// Only the fresh fragment goes to the oracle; the rolling context is used
// upstream to decide whether the merged text is worth analyzing at all.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`Analyze this spoken text for Bible references: %q
Consider:
1. Common speech recognition errors
2. Key biblical phrases
3. Context and meaning
4. Verse ranges (e.g., "Genesis 4:5-8" should be identified as a range)

For each match, provide:
{ "reference": "Book Chapter:Verse" } or { "reference": "Book Chapter:StartVerse-EndVerse" }

Pay special attention to phrases like:
- "in the back of [book] chapter [X] verse [Y] to verse [Z]"
- "from [book] [chapter]:[verse] to [verse]"
- "[book] [chapter]:[verse]-[verse]"

Only return matches with high confidence. Format as JSON array.`, text)
}

// Extract sends one completion request for the fragment and parses the
// reply. A transport or provider failure is returned as-is; a reply that
// survives the call but cannot be parsed wraps ErrMalformedReply.
func (e *Extractor) Extract(ctx context.Context, text string) ([]Match, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanOracleCall)
	defer span.End()

	reply, err := llm.Complete(ctx, e.provider, BuildPrompt(text))
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	cleaned := llm.ExtractJSONArray(reply)

	var matches []Match
	if err := json.Unmarshal([]byte(cleaned), &matches); err != nil {
		e.log.Warn("Oracle reply was not a JSON match array", logger.Fields(
			"error", err.Error(),
			"reply_length", len(reply),
		))
		observability.SetSpanError(ctx, err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	observability.SetSpanAttribute(ctx, observability.AttrMatchCount, len(matches))
	return matches, nil
}
