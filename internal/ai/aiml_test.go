package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loom-backend/internal/models"
)

func aimlTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *AIMLProvider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewAIMLProvider("test-key", srv.URL, "gpt-4o", 5*time.Second)
}

func TestAIMLSend_ToolCall(t *testing.T) {
	var captured aimlRequest
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"","tool_calls":[{"function":{"name":"create_quiz","arguments":"{\"questions\":[]}"}}]}}]}`))
	})

	raw, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("quiz me on rivers")},
		[]string{ToolCreateQuiz})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if raw.Call == nil || raw.Call.Name != ToolCreateQuiz {
		t.Fatalf("expected a create_quiz call, got %+v", raw)
	}
	if _, ok := raw.Call.Args["questions"]; !ok {
		t.Errorf("arguments not decoded: %v", raw.Call.Args)
	}

	if captured.ToolChoice != "required" {
		t.Errorf("tool_choice = %q, want required for a constrained call", captured.ToolChoice)
	}
	if len(captured.Tools) != 1 || captured.Tools[0].Function.Name != ToolCreateQuiz {
		t.Errorf("advertised tools = %+v, want only create_quiz", captured.Tools)
	}
}

func TestAIMLSend_TextResponse(t *testing.T) {
	var captured aimlRequest
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"The Nile is the longest river."}}]}`))
	})

	raw, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("tell me about rivers")},
		ToolNames())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if raw.Call != nil {
		t.Errorf("unexpected tool call %+v", raw.Call)
	}
	if raw.Text != "The Nile is the longest river." {
		t.Errorf("text = %q", raw.Text)
	}
	if captured.ToolChoice != "auto" {
		t.Errorf("tool_choice = %q, want auto for the full catalog", captured.ToolChoice)
	}
	if len(captured.Tools) != len(toolCatalog) {
		t.Errorf("advertised %d tools, want %d", len(captured.Tools), len(toolCatalog))
	}
}

func TestAIMLSend_TextOnlyMode(t *testing.T) {
	var captured aimlRequest
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Describing the image."}}]}`))
	})

	if _, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("what is this")},
		[]string{}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if captured.ToolChoice != "none" {
		t.Errorf("tool_choice = %q, want none when no tools are allowed", captured.ToolChoice)
	}
	if len(captured.Tools) != 0 {
		t.Errorf("advertised tools = %+v, want none", captured.Tools)
	}
}

func TestAIMLSend_DisallowedCallFallsBackToText(t *testing.T) {
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Here is a description instead.","tool_calls":[{"function":{"name":"draw_canvas","arguments":"{}"}}]}}]}`))
	})

	raw, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("quiz me")},
		[]string{ToolCreateQuiz})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if raw.Call != nil {
		t.Errorf("disallowed call must not surface, got %+v", raw.Call)
	}
	if raw.Text != "Here is a description instead." {
		t.Errorf("text = %q", raw.Text)
	}
}

func TestAIMLSend_DisallowedCallWithoutTextUsesArguments(t *testing.T) {
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"","tool_calls":[{"function":{"name":"draw_canvas","arguments":"{\"shapes\":[\"circle\"]}"}}]}}]}`))
	})

	raw, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("quiz me")},
		[]string{ToolCreateQuiz})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if raw.Call != nil {
		t.Errorf("disallowed call must not surface, got %+v", raw.Call)
	}
	if raw.Text == "" {
		t.Fatal("reply is empty; expected the stringified arguments")
	}
	if !strings.Contains(raw.Text, "circle") {
		t.Errorf("text = %q, want the call arguments", raw.Text)
	}
}

func TestAIMLSend_UpstreamError(t *testing.T) {
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	})

	_, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("hello")},
		ToolNames())
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if provErr.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", provErr.Status, http.StatusServiceUnavailable)
	}
	if provErr.Provider != "aiml" {
		t.Errorf("provider = %q, want aiml", provErr.Provider)
	}
}

func TestAIMLSend_MalformedArguments(t *testing.T) {
	_, provider := aimlTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"tool_calls":[{"function":{"name":"create_quiz","arguments":"{not json"}}]}}]}`))
	})

	_, err := provider.Send(context.Background(),
		[]models.ChatMessage{userMsg("quiz me")},
		[]string{ToolCreateQuiz})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
}

func TestConvertMessagesToAIML(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleSystem, Content: models.TextContent("Be brief.")},
		{Role: models.RoleUser, Content: models.MessageContent{Parts: []models.ContentPart{
			{Type: models.PartText, Text: "Look at this"},
			{Type: models.PartImage, ImageURL: "https://example.com/a.png"},
		}}},
	}

	converted := convertMessagesToAIML(msgs)
	if len(converted) != 2 {
		t.Fatalf("converted %d messages, want 2", len(converted))
	}
	if converted[0].Role != "system" || converted[0].Content != "Be brief." {
		t.Errorf("system message mangled: %+v", converted[0])
	}
	if converted[1].Content != "Look at this [Image: https://example.com/a.png]" {
		t.Errorf("flattened content = %q", converted[1].Content)
	}
}
