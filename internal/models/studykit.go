package models

// Slide is one presentation slide. Content keys depend on the slide type;
// the AI layer guarantees every required key is present after repair.
type Slide struct {
	Type    string         `json:"type"`
	Content map[string]any `json:"content"`
}

// Flashcard mirrors the create_flashcards tool payload.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuizChoice is one answer option of a quiz question.
type QuizChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizQuestion mirrors the create_quiz tool payload.
type QuizQuestion struct {
	QuestionText string       `json:"questionText"`
	Choices      []QuizChoice `json:"choices"`
}

// StudyKit is the result of ingesting a document or video: a ready-to-render
// set of study materials. Questions are only produced for PDF sources.
type StudyKit struct {
	TextPreview string         `json:"textPreview"`
	Summary     string         `json:"summary"`
	Keynotes    []string       `json:"keynotes"`
	Slides      []Slide        `json:"slides"`
	Flashcards  []Flashcard    `json:"flashcards"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
}
