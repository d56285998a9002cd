package quote

// Event is a single chunk on the response stream. Data is null for
// no-match events, a QuoteData for quotes, and an ErrorData for errors.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// QuoteData carries one resolved verse.
type QuoteData struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Version   string `json:"version"`
}

// ErrorData carries a client-facing error message.
type ErrorData struct {
	Message string `json:"message"`
}

// Event type discriminators.
const (
	TypeQuote   = "quote"
	TypeError   = "error"
	TypeNoMatch = "no-match"
)

// Client-facing error messages. The wording is part of the wire contract.
const (
	MsgParseFailed      = "Failed to parse matches"
	MsgProcessingFailed = "Processing failed"
)

// NewQuoteEvent builds a quote event for a resolved verse.
func NewQuoteEvent(reference, text, version string) Event {
	return Event{Type: TypeQuote, Data: QuoteData{Reference: reference, Text: text, Version: version}}
}

// NewErrorEvent builds an error event with a client-facing message.
func NewErrorEvent(message string) Event {
	return Event{Type: TypeError, Data: ErrorData{Message: message}}
}

// NewNoMatchEvent builds the no-match event. Data is always null.
func NewNoMatchEvent() Event {
	return Event{Type: TypeNoMatch, Data: nil}
}
