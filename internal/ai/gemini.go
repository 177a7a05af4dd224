package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"loom-backend/internal/models"
)

// GeminiProvider sends conversations to the Gemini generateContent API with
// the shared tool catalog lowered to function declarations.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Send(ctx context.Context, messages []models.ChatMessage, allowedTools []string) (RawResult, error) {
	if len(messages) == 0 {
		return RawResult{}, ErrEmptyMessages
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// A fresh model value per request keeps per-turn tool config off shared
	// state.
	model := p.client.GenerativeModel(p.model)
	if len(allowedTools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: geminiDeclarations()}}
	}
	model.ToolConfig = geminiToolConfig(allowedTools)

	contents := p.convertMessages(ctx, messages)
	last := contents[len(contents)-1]

	chat := model.StartChat()
	chat.History = contents[:len(contents)-1]

	resp, err := chat.SendMessage(ctx, last.Parts...)
	if err != nil {
		return RawResult{}, p.wrapErr(err)
	}
	return p.parseResponse(resp)
}

// geminiDeclarations lowers the full registry to the Gemini schema dialect.
// Restriction happens through the tool config allow-list, not by hiding
// declarations.
func geminiDeclarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(toolCatalog))
	for _, tool := range toolCatalog {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Arguments.toGenai(),
		})
	}
	return decls
}

func geminiToolConfig(allowedTools []string) *genai.ToolConfig {
	switch {
	case len(allowedTools) == 0:
		return &genai.ToolConfig{FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode: genai.FunctionCallingNone,
		}}
	case len(allowedTools) < len(toolCatalog):
		return &genai.ToolConfig{FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode:                 genai.FunctionCallingAny,
			AllowedFunctionNames: allowedTools,
		}}
	default:
		return &genai.ToolConfig{FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode: genai.FunctionCallingAuto,
		}}
	}
}

// convertMessages translates the internal message list into Gemini contents:
// the assistant role becomes "model", everything else is sent as "user", and
// image parts are inlined as blobs where the bytes could be fetched.
func (p *GeminiProvider) convertMessages(ctx context.Context, messages []models.ChatMessage) []*genai.Content {
	images := p.fetchImages(ctx, messages)

	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}

		var parts []genai.Part
		for _, part := range msg.Content.Normalized() {
			switch part.Type {
			case models.PartImage:
				if img, ok := images[part.ImageURL]; ok {
					parts = append(parts, genai.Blob{MIMEType: img.mime, Data: img.data})
				} else {
					parts = append(parts, genai.Text(fmt.Sprintf("[Image: %s]", part.ImageURL)))
				}
			default:
				parts = append(parts, genai.Text(part.Text))
			}
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents
}

type fetchedImage struct {
	mime string
	data []byte
}

// fetchImages resolves every distinct image URL to inline bytes. The fetches
// are independent and run concurrently. Failures are logged and left out of
// the map, so one dead link degrades to a text placeholder instead of
// sinking the whole request.
func (p *GeminiProvider) fetchImages(ctx context.Context, messages []models.ChatMessage) map[string]fetchedImage {
	urls := map[string]struct{}{}
	for _, msg := range messages {
		for _, part := range msg.Content.Normalized() {
			if part.Type == models.PartImage && part.ImageURL != "" {
				urls[part.ImageURL] = struct{}{}
			}
		}
	}
	if len(urls) == 0 {
		return nil
	}

	var mu sync.Mutex
	images := make(map[string]fetchedImage, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for url := range urls {
		g.Go(func() error {
			img, err := p.fetchImage(gctx, url)
			if err != nil {
				log.Printf("gemini: image fetch failed for %s: %v", url, err)
				return nil
			}
			mu.Lock()
			images[url] = img
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return images
}

func (p *GeminiProvider) fetchImage(ctx context.Context, url string) (fetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetchedImage{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fetchedImage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetchedImage{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	const maxImageBytes = 20 * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return fetchedImage{}, err
	}

	mime := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return fetchedImage{mime: mime, data: data}, nil
}

// parseResponse digs the first function call or the text parts out of the
// candidates envelope.
func (p *GeminiProvider) parseResponse(resp *genai.GenerateContentResponse) (RawResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return RawResult{}, &ProviderError{
			Provider: p.Name(),
			Err:      errors.New("response has no candidates"),
		}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.FunctionCall:
			return RawResult{Call: &ToolCall{Name: v.Name, Args: v.Args}}, nil
		case genai.Text:
			text.WriteString(string(v))
		}
	}
	return RawResult{Text: text.String()}, nil
}

func (p *GeminiProvider) wrapErr(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: p.Name(), Status: apiErr.Code, Body: apiErr.Body, Err: err}
	}
	return &ProviderError{Provider: p.Name(), Err: err}
}

// TranscribeAudio uploads audio bytes through the Gemini File API and asks
// the model for a verbatim transcription. Used by ingestion when a video has
// no caption track.
func (p *GeminiProvider) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	file, err := p.client.UploadFile(ctx, "", bytes.NewReader(audio), &genai.UploadFileOptions{
		DisplayName: "ingest-audio",
		MIMEType:    mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	defer p.client.DeleteFile(context.Background(), file.Name)

	// The file must finish server-side processing before it is usable.
	for i := 0; i < 20; i++ {
		current, getErr := p.client.GetFile(ctx, file.Name)
		if getErr != nil {
			return "", fmt.Errorf("failed to get uploaded file status: %w", getErr)
		}
		if current.State == genai.FileStateActive {
			file = current
			break
		}
		if current.State == genai.FileStateFailed {
			return "", fmt.Errorf("audio file processing failed upstream")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if file.State != genai.FileStateActive {
		return "", fmt.Errorf("audio file did not become active in time")
	}

	model := p.client.GenerativeModel(p.model)
	resp, err := model.GenerateContent(ctx,
		genai.Text("Transcribe the provided audio verbatim. Return plain text only, without markdown, headers, or explanations."),
		genai.FileData{MIMEType: mimeType, URI: file.URI},
	)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	raw, err := p.parseResponse(resp)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return "", fmt.Errorf("transcription came back empty")
	}
	return text, nil
}
