package ai

import (
	"errors"
	"testing"

	"loom-backend/internal/models"
)

func userMsg(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.RoleUser, Content: models.TextContent(text)}
}

func TestClassifyIntent_EmptyHistory(t *testing.T) {
	_, err := ClassifyIntent(nil)
	if !errors.Is(err, ErrEmptyMessages) {
		t.Fatalf("expected ErrEmptyMessages, got %v", err)
	}
}

func TestClassifyIntent_KeywordRouting(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"presentation", "Create a presentation about the French Revolution", ToolCreateSlides},
		{"slides", "make me 5 slides on photosynthesis", ToolCreateSlides},
		{"quiz", "quiz me on Roman history", ToolCreateQuiz},
		{"spelling quiz routes to spelling", "make a spelling quiz for grade 3", ToolCreateSpellingQuiz},
		{"flashcards", "Make me 5 flashcards on Rome", ToolCreateFlashcards},
		{"canvas", "let me draw a diagram", ToolDrawCanvas},
		{"physics", "simulate a pendulum for me", ToolCreatePhysicsSimulator},
		{"narration", "narrate this chapter for me", ToolTextToSpeech},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := ClassifyIntent([]models.ChatMessage{userMsg(tc.text)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(allowed) != 1 || allowed[0] != tc.want {
				t.Errorf("expected exactly [%s], got %v", tc.want, allowed)
			}
		})
	}
}

func TestClassifyIntent_NoKeywordAllowsFullCatalog(t *testing.T) {
	allowed, err := ClassifyIntent([]models.ChatMessage{userMsg("Tell me about the water cycle")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allowed) != len(Tools()) {
		t.Fatalf("expected full catalog of %d tools, got %d", len(Tools()), len(allowed))
	}
}

func TestClassifyIntent_ImageWithoutKeywordForbidsTools(t *testing.T) {
	messages := []models.ChatMessage{
		{
			Role: models.RoleUser,
			Content: models.MessageContent{Parts: []models.ContentPart{
				{Type: models.PartText, Text: "What is in this picture?"},
				{Type: models.PartImage, ImageURL: "https://example.com/cat.png"},
			}},
		},
	}

	allowed, err := ClassifyIntent(messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed == nil {
		t.Fatal("expected an empty allow-list, got nil")
	}
	if len(allowed) != 0 {
		t.Errorf("expected no tools when an image is present without a keyword, got %v", allowed)
	}
	for _, name := range allowed {
		if name == ToolUploadImage {
			t.Errorf("upload_image must be excluded when the user already supplied an image")
		}
	}
}

func TestClassifyIntent_ImageWithKeywordStillRoutes(t *testing.T) {
	messages := []models.ChatMessage{
		{
			Role: models.RoleUser,
			Content: models.MessageContent{Parts: []models.ContentPart{
				{Type: models.PartText, Text: "Make a quiz from this diagram"},
				{Type: models.PartImage, ImageURL: "https://example.com/diagram.png"},
			}},
		},
	}

	allowed, err := ClassifyIntent(messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allowed) != 1 || allowed[0] != ToolCreateQuiz {
		t.Errorf("expected [%s], got %v", ToolCreateQuiz, allowed)
	}
}

func TestClassifyIntent_OnlyLatestUserMessageCounts(t *testing.T) {
	messages := []models.ChatMessage{
		userMsg("make me a presentation about whales"),
		{Role: models.RoleAssistant, Content: models.TextContent("Here you go.")},
		userMsg("now just explain their migration in plain words"),
	}

	allowed, err := ClassifyIntent(messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allowed) != len(Tools()) {
		t.Errorf("earlier slide request must not pin later turns; got %v", allowed)
	}
}
