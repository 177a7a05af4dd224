package ai

import (
	"encoding/json"
	"log"
	"strings"

	"loom-backend/internal/models"
)

// toolContentTypes maps registry tool names to the rendering layer's
// content-type vocabulary.
var toolContentTypes = map[string]string{
	ToolCreateQuiz:             models.ContentTypeQuiz,
	ToolCreateSlides:           models.ContentTypePpt,
	ToolCreateFlashcards:       models.ContentTypeFlashcards,
	ToolCreateSpellingQuiz:     models.ContentTypeSpelling,
	ToolDrawCanvas:             models.ContentTypeCanvas,
	ToolUploadImage:            models.ContentTypeImage,
	ToolCreatePhysicsSimulator: models.ContentTypePhysics,
	ToolTextToSpeech:           models.ContentTypeSpeechTraining,
}

// Normalize converts a provider's raw result into the envelope the rendering
// layer consumes. It always produces a well-formed response: unmapped tool
// calls degrade to their stringified arguments, and slide payloads are
// repaired before they leave this layer.
func Normalize(raw RawResult) models.AIResponse {
	if raw.Call == nil {
		return normalizeText(raw.Text)
	}

	contentType, ok := toolContentTypes[raw.Call.Name]
	if !ok {
		// No usable structured content; keep the request alive with the
		// arguments as plain text.
		log.Printf("normalize: provider called unmapped tool %q", raw.Call.Name)
		encoded, _ := json.Marshal(raw.Call.Args)
		return models.AIResponse{Content: string(encoded)}
	}

	args := raw.Call.Args
	if contentType == models.ContentTypePpt {
		args = repairSlideArgs(args)
	}

	encoded, _ := json.Marshal(args)
	return models.AIResponse{Content: string(encoded), ContentType: contentType}
}

// normalizeText wraps free text, unless the text is really one of the known
// structured envelopes that a provider emitted without making a tool call.
func normalizeText(text string) models.AIResponse {
	payload, contentType := SniffContentType(text)
	if contentType == "" {
		return models.AIResponse{Content: text}
	}

	if contentType == models.ContentTypePpt {
		var args map[string]any
		if json.Unmarshal([]byte(payload), &args) == nil {
			if repaired, err := json.Marshal(repairSlideArgs(args)); err == nil {
				payload = string(repaired)
			}
		}
	}
	return models.AIResponse{Content: payload, ContentType: contentType}
}

// SniffContentType probes a blob of model text for a structured payload by
// its top-level shape and returns the fence-stripped JSON plus the detected
// type, or the original text and "" for prose. It is deliberately an
// isolated decision function so a stricter mechanism can replace it without
// touching the rest of the pipeline.
func SniffContentType(text string) (string, string) {
	trimmed := stripCodeFences(text)
	if !strings.HasPrefix(trimmed, "{") {
		return text, ""
	}

	var probe struct {
		Slides     []json.RawMessage `json:"slides"`
		Questions  []json.RawMessage `json:"questions"`
		Flashcards []json.RawMessage `json:"flashcards"`
		Words      []json.RawMessage `json:"words"`
		Spellings  []json.RawMessage `json:"spellings"`
		Simulation json.RawMessage   `json:"simulation"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return text, ""
	}

	switch {
	case probe.Slides != nil:
		return trimmed, models.ContentTypePpt
	case probe.Questions != nil:
		return trimmed, models.ContentTypeQuiz
	case probe.Flashcards != nil:
		return trimmed, models.ContentTypeFlashcards
	case probe.Words != nil || probe.Spellings != nil:
		return trimmed, models.ContentTypeSpelling
	case len(probe.Simulation) > 0 && string(probe.Simulation) != "null":
		return trimmed, models.ContentTypePhysics
	}
	return text, ""
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
