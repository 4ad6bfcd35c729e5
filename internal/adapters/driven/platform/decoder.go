package platform

import (
	"encoding/json"
	"fmt"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Record types the backend tags typed records with. Delta records
// carry no type tag; they are recognised by shape.
const (
	recordTypeError   = "error"
	recordTypeSources = "sources"
)

// streamRecord is the superset of record shapes the ai-chatbot
// function emits. The backend has shipped two delta shapes over time,
// so both are decoded here and nowhere else.
type streamRecord struct {
	Type    string       `json:"type"`
	Message string       `json:"message"`
	Sources []wireSource `json:"sources"`
	Delta   *wireDelta   `json:"delta"`
	Choices []wireChoice `json:"choices"`
}

// wireDelta is the current delta shape.
type wireDelta struct {
	Text string `json:"text"`
}

// wireChoice is the legacy OpenAI-style delta shape.
type wireChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

// wireSource is one citation in a sources record.
type wireSource struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	SourceURL  string  `json:"source_url"`
	SourceType string  `json:"source_type"`
	Similarity float64 `json:"similarity"`
}

// decodeRecord turns one data payload into a typed stream event. The
// second return reports whether the record produced an event: malformed
// or unrecognised records do not, and the caller skips them so the
// stream continues.
func decodeRecord(data []byte) (driven.StreamEvent, bool) {
	var rec streamRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return driven.StreamEvent{}, false
	}

	switch rec.Type {
	case recordTypeError:
		msg := rec.Message
		if msg == "" {
			msg = "assistant reported an error"
		}
		return driven.StreamEvent{
			Kind: driven.EventError,
			Err:  fmt.Errorf("%w: %s", domain.ErrAssistantUnavailable, msg),
		}, true

	case recordTypeSources:
		return driven.StreamEvent{
			Kind:    driven.EventSources,
			Sources: toDomainSources(rec.Sources),
		}, true
	}

	if text := deltaText(rec); text != "" {
		return driven.StreamEvent{Kind: driven.EventDelta, Delta: text}, true
	}

	return driven.StreamEvent{}, false
}

// deltaText extracts the text fragment from either delta shape,
// preferring the current one.
func deltaText(rec streamRecord) string {
	if rec.Delta != nil && rec.Delta.Text != "" {
		return rec.Delta.Text
	}
	if len(rec.Choices) > 0 {
		return rec.Choices[0].Delta.Content
	}
	return ""
}

// toDomainSources converts wire citations. A sources record with an
// empty array still replaces the previous set, so the result is never
// nil.
func toDomainSources(wire []wireSource) []domain.Source {
	sources := make([]domain.Source, len(wire))
	for i, w := range wire {
		sources[i] = domain.Source{
			ID:         w.ID,
			Title:      w.Title,
			Category:   w.Category,
			SourceURL:  w.SourceURL,
			SourceType: w.SourceType,
			Similarity: w.Similarity,
		}
	}
	return sources
}
