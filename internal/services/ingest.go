package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"loom-backend/internal/models"
)

// Source text shorter than this cannot produce a meaningful study kit.
const minIngestChars = 50

const maxPromptChars = 6000

var (
	// ErrUnsupportedSource reports a URL that is not a YouTube video link.
	ErrUnsupportedSource = errors.New("unsupported source url")
	// ErrTextTooShort reports source material too small to study.
	ErrTextTooShort = errors.New("extracted text is too short")
)

// AIResponder generates study material from chat-shaped prompts. Satisfied by
// ai.Responder.
type AIResponder interface {
	Respond(ctx context.Context, messages []models.ChatMessage) (models.AIResponse, error)
}

// Transcriber converts raw audio into text. Satisfied by ai.GeminiProvider.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// VideoSource resolves YouTube videos into text or audio. Satisfied by
// YouTubeService.
type VideoSource interface {
	GetTranscript(videoID string) (string, error)
	DownloadAudio(videoURL string) ([]byte, string, error)
	GetVideoTitle(videoID string) (string, error)
}

// IngestService turns a video link or an uploaded document into a study kit:
// a heuristic baseline built locally, then each piece upgraded through the AI
// layer when the providers cooperate. Upgrade failures keep the baseline, so
// ingestion succeeds whenever text extraction does.
type IngestService struct {
	videos      VideoSource
	extractor   *FileExtractService
	responder   AIResponder
	transcriber Transcriber
}

func NewIngestService(videos VideoSource, extractor *FileExtractService, responder AIResponder, transcriber Transcriber) *IngestService {
	return &IngestService{
		videos:      videos,
		extractor:   extractor,
		responder:   responder,
		transcriber: transcriber,
	}
}

// IngestURL builds a study kit from a YouTube link. Captions are preferred;
// when no track exists the audio stream is downloaded and transcribed.
func (s *IngestService) IngestURL(ctx context.Context, videoURL string) (*models.StudyKit, error) {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		return nil, ErrUnsupportedSource
	}

	text, err := s.videos.GetTranscript(videoID)
	if err != nil {
		log.Printf("ingest: no captions for %s, falling back to audio: %v", videoID, err)
		text, err = s.transcribeAudio(ctx, videoURL)
		if err != nil {
			return nil, fmt.Errorf("video has no captions and audio transcription failed: %w", err)
		}
	}

	if len(text) < minIngestChars {
		return nil, ErrTextTooShort
	}

	title := "YouTube Video"
	if t, err := s.videos.GetVideoTitle(videoID); err == nil && t != "" {
		title = t
	}

	kit := buildBaselineKit(title, text, false)
	s.upgradeKit(ctx, kit, text)
	return kit, nil
}

// IngestFile builds a study kit from an uploaded document. PDF uploads also
// get a baseline quiz, matching how lecture handouts are studied.
func (s *IngestService) IngestFile(ctx context.Context, filename string, data []byte) (*models.StudyKit, error) {
	text, err := s.extractor.ExtractText(filename, data)
	if err != nil {
		return nil, err
	}
	if len(text) < minIngestChars {
		return nil, ErrTextTooShort
	}

	withQuiz := strings.HasSuffix(strings.ToLower(filename), ".pdf")
	kit := buildBaselineKit(filename, text, withQuiz)
	s.upgradeKit(ctx, kit, text)
	return kit, nil
}

func (s *IngestService) transcribeAudio(ctx context.Context, videoURL string) (string, error) {
	if s.transcriber == nil {
		return "", errors.New("no transcriber configured")
	}
	audio, mimeType, err := s.videos.DownloadAudio(videoURL)
	if err != nil {
		return "", err
	}
	return s.transcriber.TranscribeAudio(ctx, audio, mimeType)
}

var (
	headingPattern = regexp.MustCompile(`^#{1,3}\s+(.+)$|^([A-Z][^.!?]{0,80})$`)
	bulletPattern  = regexp.MustCompile(`^(?:[-*•]\s+|\d+\.\s+)(.+)$`)
)

// buildBaselineKit derives a study kit from the text alone, with no AI in the
// loop. The result is intentionally plain but always complete.
func buildBaselineKit(title, text string, withQuiz bool) *models.StudyKit {
	keynotes := extractKeynotes(text)
	summary := summarize(text)
	sentences := splitSentences(text)

	kit := &models.StudyKit{
		TextPreview: clip(text, 1200),
		Summary:     summary,
		Keynotes:    keynotes,
		Slides:      baselineSlides(title, summary, keynotes),
		Flashcards:  baselineFlashcards(keynotes, sentences),
	}
	if withQuiz {
		kit.Questions = baselineQuiz(sentences)
	}
	return kit
}

func extractKeynotes(text string) []string {
	seen := map[string]bool{}
	var keynotes []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var candidate string
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			candidate = m[1]
		} else if m := headingPattern.FindStringSubmatch(line); m != nil {
			if m[1] != "" {
				candidate = m[1]
			} else {
				candidate = m[2]
			}
		}
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		keynotes = append(keynotes, candidate)
		if len(keynotes) == 8 {
			break
		}
	}

	if len(keynotes) == 0 {
		for _, s := range splitSentences(text) {
			keynotes = append(keynotes, clip(s, 80))
			if len(keynotes) == 5 {
				break
			}
		}
	}
	return keynotes
}

// summarize takes the opening of the text up to 500 characters, cut back to a
// sentence boundary when one exists.
func summarize(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if len(flat) <= 500 {
		return flat
	}
	cut := flat[:500]
	if idx := strings.LastIndexAny(cut, ".!?"); idx > 100 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut)
}

func splitSentences(text string) []string {
	flat := strings.Join(strings.Fields(text), " ")
	var sentences []string
	start := 0
	for i, r := range flat {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(flat[start : i+1])
			if len(s) >= 20 {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(flat[start:]); len(tail) >= 20 {
		sentences = append(sentences, tail)
	}
	return sentences
}

func baselineSlides(title, summary string, keynotes []string) []models.Slide {
	bullets := make([]any, 0, len(keynotes))
	for _, k := range keynotes {
		bullets = append(bullets, k)
	}
	if len(bullets) == 0 {
		bullets = []any{"Key points pending review"}
	}

	return []models.Slide{
		{
			Type: "Header & Subheader Slide",
			Content: map[string]any{
				"title":    clip(title, 80),
				"subtitle": "Study Overview",
			},
		},
		{
			Type: "Enumeration Slide",
			Content: map[string]any{
				"title":   "Key Points",
				"bullets": bullets,
			},
		},
		{
			Type: "Paragraph Slide",
			Content: map[string]any{
				"paragraph": summary,
			},
		},
	}
}

func baselineFlashcards(keynotes, sentences []string) []models.Flashcard {
	var cards []models.Flashcard
	for _, k := range keynotes {
		back := ""
		for _, s := range sentences {
			if strings.Contains(strings.ToLower(s), strings.ToLower(clip(k, 30))) {
				back = s
				break
			}
		}
		if back == "" {
			back = "Review this topic in the source material."
		}
		cards = append(cards, models.Flashcard{Front: k, Back: back})
		if len(cards) == 10 {
			return cards
		}
	}
	for _, s := range sentences {
		if len(cards) == 10 {
			break
		}
		cards = append(cards, models.Flashcard{
			Front: fmt.Sprintf("What does the material say about: %s", clip(s, 60)),
			Back:  s,
		})
	}
	return cards
}

func baselineQuiz(sentences []string) []models.QuizQuestion {
	var questions []models.QuizQuestion
	for _, s := range sentences {
		questions = append(questions, models.QuizQuestion{
			QuestionText: "Which of the following statements appears in the material?",
			Choices: []models.QuizChoice{
				{Text: s, IsCorrect: true},
				{Text: "None of the material mentions this.", IsCorrect: false},
				{Text: "The material argues the opposite.", IsCorrect: false},
				{Text: "This is not covered.", IsCorrect: false},
			},
		})
		if len(questions) == 5 {
			break
		}
	}
	return questions
}

// upgradeKit asks the AI layer to redo each piece of the kit. Every call is
// best effort: a failed or off-shape response leaves the heuristic baseline
// in place.
func (s *IngestService) upgradeKit(ctx context.Context, kit *models.StudyKit, text string) {
	if s.responder == nil {
		return
	}
	material := clip(text, maxPromptChars)

	if resp, err := s.ask(ctx, "Create presentation slides that teach the following material:\n\n"+material); err == nil && resp.ContentType == models.ContentTypePpt {
		var payload struct {
			Slides []models.Slide `json:"slides"`
		}
		if json.Unmarshal([]byte(resp.Content), &payload) == nil && len(payload.Slides) > 0 {
			kit.Slides = payload.Slides
		}
	}

	if resp, err := s.ask(ctx, "Create flashcards covering the key terms and ideas in the following material:\n\n"+material); err == nil && resp.ContentType == models.ContentTypeFlashcards {
		var payload struct {
			Flashcards []models.Flashcard `json:"flashcards"`
		}
		if json.Unmarshal([]byte(resp.Content), &payload) == nil && len(payload.Flashcards) > 0 {
			kit.Flashcards = payload.Flashcards
		}
	}

	if len(kit.Questions) > 0 {
		if resp, err := s.ask(ctx, "Create a multiple choice quiz testing understanding of the following material:\n\n"+material); err == nil && resp.ContentType == models.ContentTypeQuiz {
			var payload struct {
				Questions []models.QuizQuestion `json:"questions"`
			}
			if json.Unmarshal([]byte(resp.Content), &payload) == nil && len(payload.Questions) > 0 {
				kit.Questions = payload.Questions
			}
		}
	}

	if resp, err := s.ask(ctx, `Summarize the following material. Respond with JSON only, shaped as {"summary": "...", "keynotes": ["..."]}:`+"\n\n"+material); err == nil && resp.ContentType == "" {
		var payload struct {
			Summary  string   `json:"summary"`
			Keynotes []string `json:"keynotes"`
		}
		cleaned := stripJSONFences(resp.Content)
		if json.Unmarshal([]byte(cleaned), &payload) == nil {
			if payload.Summary != "" {
				kit.Summary = payload.Summary
			}
			if len(payload.Keynotes) > 0 {
				kit.Keynotes = payload.Keynotes
			}
		}
	}
}

func (s *IngestService) ask(ctx context.Context, prompt string) (models.AIResponse, error) {
	resp, err := s.responder.Respond(ctx, []models.ChatMessage{
		{Role: models.RoleUser, Content: models.TextContent(prompt)},
	})
	if err != nil {
		log.Printf("ingest: upgrade call failed: %v", err)
	}
	return resp, err
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}
