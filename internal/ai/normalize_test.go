package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"loom-backend/internal/models"
)

func TestNormalize_QuizToolCall(t *testing.T) {
	raw := RawResult{Call: &ToolCall{
		Name: ToolCreateQuiz,
		Args: map[string]any{
			"questions": []any{
				map[string]any{
					"questionText": "What is H2O?",
					"choices": []any{
						map[string]any{"text": "Water", "isCorrect": true},
						map[string]any{"text": "Salt", "isCorrect": false},
					},
				},
			},
		},
	}}

	resp := Normalize(raw)
	if resp.ContentType != models.ContentTypeQuiz {
		t.Fatalf("contentType = %q, want %q", resp.ContentType, models.ContentTypeQuiz)
	}

	var decoded struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &decoded); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if len(decoded.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(decoded.Questions))
	}
}

func TestNormalize_UnmappedToolDegradesToText(t *testing.T) {
	raw := RawResult{Call: &ToolCall{
		Name: "book_flight",
		Args: map[string]any{"destination": "Almaty"},
	}}

	resp := Normalize(raw)
	if resp.ContentType != "" {
		t.Errorf("unmapped tool should have no contentType, got %q", resp.ContentType)
	}
	if !strings.Contains(resp.Content, "Almaty") {
		t.Errorf("stringified args missing, content = %q", resp.Content)
	}
}

func TestNormalize_SlideArgsRepaired(t *testing.T) {
	raw := RawResult{Call: &ToolCall{
		Name: ToolCreateSlides,
		Args: map[string]any{
			"slides": []any{
				map[string]any{"type": "bullet_points", "content": map[string]any{"title": "Cells"}},
			},
		},
	}}

	resp := Normalize(raw)
	if resp.ContentType != models.ContentTypePpt {
		t.Fatalf("contentType = %q, want %q", resp.ContentType, models.ContentTypePpt)
	}

	var decoded struct {
		Slides []models.Slide `json:"slides"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &decoded); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if len(decoded.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(decoded.Slides))
	}
	if decoded.Slides[0].Type != SlideEnumeration {
		t.Errorf("slide type = %q, want %q", decoded.Slides[0].Type, SlideEnumeration)
	}
	if decoded.Slides[0].Content["bullets"] == nil {
		t.Error("bullets not backfilled during normalization")
	}
}

func TestNormalize_PlainTextPassesThrough(t *testing.T) {
	resp := Normalize(RawResult{Text: "Photosynthesis converts light into chemical energy."})
	if resp.ContentType != "" {
		t.Errorf("prose should have no contentType, got %q", resp.ContentType)
	}
	if resp.Content != "Photosynthesis converts light into chemical energy." {
		t.Errorf("content changed: %q", resp.Content)
	}
}

func TestNormalize_FencedJSONSniffed(t *testing.T) {
	text := "```json\n{\"flashcards\": [{\"front\": \"CPU\", \"back\": \"Central Processing Unit\"}]}\n```"
	resp := Normalize(RawResult{Text: text})
	if resp.ContentType != models.ContentTypeFlashcards {
		t.Fatalf("contentType = %q, want %q", resp.ContentType, models.ContentTypeFlashcards)
	}
	if strings.Contains(resp.Content, "```") {
		t.Error("code fences survived normalization")
	}
	var decoded struct {
		Flashcards []models.Flashcard `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &decoded); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if len(decoded.Flashcards) != 1 || decoded.Flashcards[0].Front != "CPU" {
		t.Errorf("flashcards payload mangled: %+v", decoded.Flashcards)
	}
}

func TestNormalize_SniffedSlidesAlsoRepaired(t *testing.T) {
	text := `{"slides": [{"type": "intro_text"}]}`
	resp := Normalize(RawResult{Text: text})
	if resp.ContentType != models.ContentTypePpt {
		t.Fatalf("contentType = %q, want %q", resp.ContentType, models.ContentTypePpt)
	}
	var decoded struct {
		Slides []models.Slide `json:"slides"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &decoded); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if decoded.Slides[0].Type != SlideParagraph {
		t.Errorf("slide type = %q, want %q", decoded.Slides[0].Type, SlideParagraph)
	}
}

func TestSniffContentType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"questions", `{"questions": []}`, models.ContentTypeQuiz},
		{"words", `{"words": ["necessary"]}`, models.ContentTypeSpelling},
		{"spellings", `{"spellings": []}`, models.ContentTypeSpelling},
		{"simulation", `{"simulation": {"kind": "pendulum"}}`, models.ContentTypePhysics},
		{"null simulation", `{"simulation": null}`, ""},
		{"prose", "Just an explanation.", ""},
		{"json mentioning a key in prose", `The "slides" key holds slides.`, ""},
		{"unrelated object", `{"answer": 42}`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, got := SniffContentType(tc.text)
			if got != tc.want {
				t.Errorf("SniffContentType(%q) type = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
