package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Roles in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content part kinds.
const (
	PartText  = "text"
	PartImage = "image"
)

// ContentPart is one element of a multi-part message body.
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MessageContent is either a bare string or an ordered list of text/image
// parts. The chat frontend sends both forms, so it unmarshals from either.
type MessageContent struct {
	Parts []ContentPart
}

// TextContent wraps a plain string as message content.
func TextContent(s string) MessageContent {
	return MessageContent{Parts: []ContentPart{{Type: PartText, Text: s}}}
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Parts = []ContentPart{{Type: PartText, Text: s}}
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("message content must be a string or an array of parts: %w", err)
	}
	c.Parts = parts
	return nil
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if len(c.Parts) == 1 && c.Parts[0].Type == PartText {
		return json.Marshal(c.Parts[0].Text)
	}
	return json.Marshal(c.Parts)
}

// Normalized returns the part list, coercing empty content to a single empty
// text part so every message sent upstream has at least one part.
func (c MessageContent) Normalized() []ContentPart {
	if len(c.Parts) == 0 {
		return []ContentPart{{Type: PartText}}
	}
	return c.Parts
}

// Flatten renders the content as one string, with image parts reduced to a
// bracketed reference.
func (c MessageContent) Flatten() string {
	var out []string
	for _, part := range c.Normalized() {
		switch part.Type {
		case PartImage:
			url := part.ImageURL
			if url == "" {
				url = "unknown"
			}
			out = append(out, fmt.Sprintf("[Image: %s]", url))
		default:
			out = append(out, part.Text)
		}
	}
	return strings.TrimSpace(strings.Join(out, " "))
}

// HasImage reports whether any part carries an image reference.
func (c MessageContent) HasImage() bool {
	for _, part := range c.Parts {
		if part.Type == PartImage {
			return true
		}
	}
	return false
}

// ChatMessage is a single turn of a conversation as received from the chat
// frontend. Messages are passed by value into the AI layer and never mutated.
type ChatMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// GenerateRequest is the payload of the generate endpoint.
type GenerateRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Content types understood by the rendering layer. An empty ContentType means
// plain markdown text. This vocabulary is part of the frontend contract; do
// not rename values without updating the renderer.
const (
	ContentTypeText           = "text"
	ContentTypeQuiz           = "quiz"
	ContentTypePpt            = "ppt"
	ContentTypeFlashcards     = "flashcards"
	ContentTypeSpelling       = "spelling"
	ContentTypeCanvas         = "canvas"
	ContentTypeImage          = "image"
	ContentTypePhysics        = "physics"
	ContentTypeSpeechTraining = "speech-training"
)

// AIResponse is the sole output of the AI layer. When ContentType is set,
// Content is a JSON document shaped for that renderer; otherwise it is
// free-form text for direct display.
type AIResponse struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
}
