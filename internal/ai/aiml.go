package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"loom-backend/internal/models"
)

// AIMLProvider sends conversations to the AIML chat-completions API, which
// speaks the OpenAI dialect: role/content string messages and function tools
// with JSON-Schema parameters.
type AIMLProvider struct {
	client *resty.Client
	model  string
}

func NewAIMLProvider(apiKey, baseURL, model string, timeout time.Duration) *AIMLProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &AIMLProvider{client: client, model: model}
}

func (p *AIMLProvider) Name() string { return "aiml" }

type aimlMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type aimlFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type aimlTool struct {
	Type     string       `json:"type"`
	Function aimlFunction `json:"function"`
}

type aimlRequest struct {
	Model            string        `json:"model"`
	Messages         []aimlMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	Tools            []aimlTool    `json:"tools,omitempty"`
	ToolChoice       string        `json:"tool_choice,omitempty"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type aimlResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *AIMLProvider) Send(ctx context.Context, messages []models.ChatMessage, allowedTools []string) (RawResult, error) {
	if len(messages) == 0 {
		return RawResult{}, ErrEmptyMessages
	}

	req := aimlRequest{
		Model:       p.model,
		Messages:    convertMessagesToAIML(messages),
		Temperature: 1,
		MaxTokens:   15010,
		TopP:        1,
	}

	// The API has no allow-list mechanism. Advertising only the allowed
	// subset, plus rejecting stray calls after the fact, emulates one.
	allowedSet := make(map[string]bool, len(allowedTools))
	for _, name := range allowedTools {
		allowedSet[name] = true
	}
	switch {
	case len(allowedTools) == 0:
		req.ToolChoice = "none"
	case len(allowedTools) < len(toolCatalog):
		req.Tools = aimlTools(allowedSet)
		req.ToolChoice = "required"
	default:
		req.Tools = aimlTools(allowedSet)
		req.ToolChoice = "auto"
	}

	var body aimlResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post("/chat/completions")
	if err != nil {
		return RawResult{}, &ProviderError{Provider: p.Name(), Err: err}
	}
	if resp.IsError() {
		return RawResult{}, &ProviderError{Provider: p.Name(), Status: resp.StatusCode(), Body: resp.String()}
	}
	if len(body.Choices) == 0 {
		return RawResult{}, &ProviderError{
			Provider: p.Name(),
			Status:   resp.StatusCode(),
			Body:     resp.String(),
			Err:      errors.New("response has no choices"),
		}
	}

	msg := body.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0].Function
		if !allowedSet[call.Name] {
			// The model called a tool outside the allow-list. Keep any text
			// that came with it; a bare call degrades to its arguments so
			// the reply is never empty.
			if msg.Content != "" {
				return RawResult{Text: msg.Content}, nil
			}
			return RawResult{Text: call.Arguments}, nil
		}

		var args map[string]any
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return RawResult{}, &ProviderError{
				Provider: p.Name(),
				Status:   resp.StatusCode(),
				Body:     call.Arguments,
				Err:      fmt.Errorf("malformed tool call arguments: %w", err),
			}
		}
		return RawResult{Call: &ToolCall{Name: call.Name, Args: args}}, nil
	}

	return RawResult{Text: msg.Content}, nil
}

func aimlTools(allowed map[string]bool) []aimlTool {
	tools := make([]aimlTool, 0, len(allowed))
	for _, tool := range toolCatalog {
		if !allowed[tool.Name] {
			continue
		}
		tools = append(tools, aimlTool{
			Type: "function",
			Function: aimlFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Arguments.toJSONSchema(),
			},
		})
	}
	return tools
}

// convertMessagesToAIML flattens each message to a role/content string pair;
// image parts collapse to a bracketed reference, since this API only takes
// text here.
func convertMessagesToAIML(messages []models.ChatMessage) []aimlMessage {
	out := make([]aimlMessage, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		switch msg.Role {
		case models.RoleSystem:
			role = "system"
		case models.RoleAssistant:
			role = "assistant"
		}
		out = append(out, aimlMessage{Role: role, Content: msg.Content.Flatten()})
	}
	return out
}
