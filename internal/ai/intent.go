package ai

import (
	"strings"

	"loom-backend/internal/models"
)

type intentRule struct {
	tool     string
	keywords []string
}

// Ordered keyword tests; the first hit wins. Spelling is tested before quiz
// so that "spelling quiz" routes to the spelling tool.
var intentRules = []intentRule{
	{ToolCreateSlides, []string{"slide", "presentation", "powerpoint", "ppt"}},
	{ToolCreateSpellingQuiz, []string{"spelling", "spell"}},
	{ToolCreateQuiz, []string{"quiz", "test me", "multiple choice"}},
	{ToolCreateFlashcards, []string{"flashcard", "flash card"}},
	{ToolDrawCanvas, []string{"draw", "canvas", "sketch", "whiteboard"}},
	{ToolCreatePhysicsSimulator, []string{"physics", "simulat", "pendulum", "projectile"}},
	{ToolTextToSpeech, []string{"text to speech", "text-to-speech", "tts", "narrat", "read aloud"}},
}

// ClassifyIntent decides which tools the model may call on this turn. Only
// the most recent user-authored message is inspected; an explicit request in
// an earlier turn does not pin later ones.
//
// An explicit keyword restricts the set to exactly that tool. With no
// keyword the full catalog stays available, except when the conversation
// carries an image: then the empty set is returned (text-only mode), which
// keeps the model from deflecting into upload_image or draw_canvas instead
// of talking about the image the user already supplied.
func ClassifyIntent(messages []models.ChatMessage) ([]string, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyMessages
	}

	var latest string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			latest = strings.ToLower(messages[i].Content.Flatten())
			break
		}
	}

	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(latest, keyword) {
				return []string{rule.tool}, nil
			}
		}
	}

	for _, msg := range messages {
		if msg.Content.HasImage() {
			return []string{}, nil
		}
	}

	return ToolNames(), nil
}
