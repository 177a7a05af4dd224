package ai

import (
	"context"

	"loom-backend/internal/models"
)

// ToolCall is a provider's decision to invoke one of the registry tools.
type ToolCall struct {
	Name string
	Args map[string]any
}

// RawResult is the uniform result both adapters produce: free text, or
// exactly one tool call.
type RawResult struct {
	Text string
	Call *ToolCall
}

// Provider translates between the internal message/tool representation and
// one upstream chat-completion API. Implementations do not retry; recovery
// is the responder's job.
//
// allowedTools semantics: the full catalog means the provider chooses freely
// between tools and text, a strict subset is a hard constraint to call one of
// those tools, and an empty (non-nil) set forbids tool use entirely.
type Provider interface {
	Name() string
	Send(ctx context.Context, messages []models.ChatMessage, allowedTools []string) (RawResult, error)
}
