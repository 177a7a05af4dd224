package ai

import (
	"context"
	"log"

	"loom-backend/internal/models"
)

// UnavailableMessage is returned when every provider fails. Callers surface
// it as a normal response, so the chat UI never sees a 5xx for an AI outage.
const UnavailableMessage = "AI services are temporarily unavailable right now. Please try again in a few minutes."

// Responder is the single entry point of the AI layer. It classifies the
// user's intent, then walks an ordered provider list: each provider gets
// exactly one attempt, strictly in sequence, and the first result that comes
// back is normalized and returned. Adding a provider is one entry in the
// constructor call.
type Responder struct {
	providers []Provider
}

func NewResponder(providers ...Provider) *Responder {
	return &Responder{providers: providers}
}

// Respond produces a normalized response for the conversation. The only
// error it returns is ErrEmptyMessages; provider failures are absorbed by
// the fallback chain and, in the worst case, by the static outage message.
func (r *Responder) Respond(ctx context.Context, messages []models.ChatMessage) (models.AIResponse, error) {
	allowed, err := ClassifyIntent(messages)
	if err != nil {
		return models.AIResponse{}, err
	}

	for _, provider := range r.providers {
		raw, err := provider.Send(ctx, messages, allowed)
		if err != nil {
			log.Printf("responder: provider %s failed, falling back: %v", provider.Name(), err)
			continue
		}
		return Normalize(raw), nil
	}

	log.Printf("responder: all %d providers failed", len(r.providers))
	return models.AIResponse{Content: UnavailableMessage}, nil
}
