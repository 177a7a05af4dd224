package ai

// Canonical tool names. These are the function names advertised to both
// providers; renaming one breaks the normalizer's content-type mapping.
const (
	ToolCreateQuiz             = "create_quiz"
	ToolCreateSlides           = "create_ppt_slides"
	ToolCreateFlashcards       = "create_flashcards"
	ToolCreateSpellingQuiz     = "create_spelling_quiz"
	ToolDrawCanvas             = "draw_canvas"
	ToolUploadImage            = "upload_image"
	ToolCreatePhysicsSimulator = "create_physics_simulator"
	ToolTextToSpeech           = "generate_text_to_speech"
)

// ToolDefinition is one structured-content generator the model may invoke
// instead of replying in free text.
type ToolDefinition struct {
	Name        string
	Description string
	Arguments   *Schema
}

// Tools returns the canonical catalog in stable order.
func Tools() []ToolDefinition {
	return toolCatalog
}

// ToolNames returns the names of the full catalog in stable order.
func ToolNames() []string {
	names := make([]string, 0, len(toolCatalog))
	for _, t := range toolCatalog {
		names = append(names, t.Name)
	}
	return names
}

var toolCatalog = []ToolDefinition{
	{
		Name:        ToolCreateQuiz,
		Description: "Create an interactive quiz with multiple choice questions",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"questions": {
					Type:     TypeArray,
					MinItems: 1,
					Items: &Schema{
						Type: TypeObject,
						Properties: map[string]*Schema{
							"questionText": {Type: TypeString},
							"choices": {
								Type:     TypeArray,
								MinItems: 2,
								MaxItems: 4,
								Items: &Schema{
									Type: TypeObject,
									Properties: map[string]*Schema{
										"text":      {Type: TypeString},
										"isCorrect": {Type: TypeBoolean},
									},
									Required: []string{"text", "isCorrect"},
								},
							},
						},
						Required: []string{"questionText", "choices"},
					},
				},
			},
			Required: []string{"questions"},
		},
	},
	{
		Name:        ToolCreateSlides,
		Description: "Create presentation slides based on predefined templates. Each slide specifies its type and content structured for that type.",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"slides": {
					Type:        TypeArray,
					Description: "An array of slide objects, each specifying the slide type and its content.",
					MinItems:    1,
					Items: &Schema{
						Type: TypeObject,
						Properties: map[string]*Schema{
							"type": {
								Type:        TypeString,
								Description: "The type of slide to create. Must be one of the predefined templates.",
								Enum:        slideTypes,
							},
							"content": {
								Type:        TypeObject,
								Description: "The content for the slide, structured according to the slide type.",
								OneOf: []*Schema{
									{
										Type: TypeObject,
										Properties: map[string]*Schema{
											"title":     {Type: TypeString, Description: "The main title of the slide."},
											"subtitle":  {Type: TypeString, Description: "The subtitle or supporting text."},
											"narration": {Type: TypeString, Description: "Optional narration script for this slide."},
										},
										Required: []string{"title", "subtitle"},
									},
									{
										Type: TypeObject,
										Properties: map[string]*Schema{
											"title": {Type: TypeString, Description: "The title of the enumeration slide."},
											"bullets": {
												Type:        TypeArray,
												Description: "A list of key points or topics.",
												Items:       &Schema{Type: TypeString},
												MinItems:    3,
												MaxItems:    5,
											},
										},
										Required: []string{"title", "bullets"},
									},
									{
										Type: TypeObject,
										Properties: map[string]*Schema{
											"term":       {Type: TypeString, Description: "The term or concept being defined."},
											"definition": {Type: TypeString, Description: "The definition or explanation of the term."},
										},
										Required: []string{"term", "definition"},
									},
									{
										Type: TypeObject,
										Properties: map[string]*Schema{
											"paragraph": {Type: TypeString, Description: "The paragraph text (maximum 700 characters)."},
										},
										Required: []string{"paragraph"},
									},
									{
										Type: TypeObject,
										Properties: map[string]*Schema{
											"title": {Type: TypeString, Description: "The title of the comparison slide."},
											"comparisonItems": {
												Type:        TypeArray,
												Description: "An array of items to compare.",
												MinItems:    2,
												MaxItems:    3,
												Items: &Schema{
													Type: TypeObject,
													Properties: map[string]*Schema{
														"header": {Type: TypeString, Description: "The header for the comparison column."},
														"points": {
															Type:        TypeArray,
															Description: "Bullet points or key features for the item.",
															Items:       &Schema{Type: TypeString},
															MinItems:    1,
															MaxItems:    3,
														},
													},
													Required: []string{"header", "points"},
												},
											},
										},
										Required: []string{"title", "comparisonItems"},
									},
								},
							},
						},
						Required: []string{"type", "content"},
					},
				},
			},
			Required: []string{"slides"},
		},
	},
	{
		Name:        ToolCreateFlashcards,
		Description: "Create interactive flashcards for studying",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"flashcards": {
					Type:     TypeArray,
					MinItems: 1,
					Items: &Schema{
						Type: TypeObject,
						Properties: map[string]*Schema{
							"front": {Type: TypeString},
							"back":  {Type: TypeString},
						},
						Required: []string{"front", "back"},
					},
				},
			},
			Required: []string{"flashcards"},
		},
	},
	{
		Name:        ToolCreateSpellingQuiz,
		Description: "Create a spelling quiz with words and audio",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"words": {
					Type:     TypeArray,
					MinItems: 1,
					Items: &Schema{
						Type: TypeObject,
						Properties: map[string]*Schema{
							"word":       {Type: TypeString},
							"definition": {Type: TypeString},
							"difficulty": {Type: TypeString, Enum: []string{"easy", "medium", "hard"}},
						},
						Required: []string{"word"},
					},
				},
			},
			Required: []string{"words"},
		},
	},
	{
		Name:        ToolDrawCanvas,
		Description: "Create an interactive drawing canvas",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"canvasData": {
					Type: TypeObject,
					Properties: map[string]*Schema{
						"width":  {Type: TypeNumber},
						"height": {Type: TypeNumber},
						"tools":  {Type: TypeArray, Items: &Schema{Type: TypeString}},
					},
				},
			},
		},
	},
	{
		Name:        ToolUploadImage,
		Description: "Handle image upload and processing",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"imageData": {
					Type: TypeObject,
					Properties: map[string]*Schema{
						"url":     {Type: TypeString},
						"alt":     {Type: TypeString},
						"caption": {Type: TypeString},
					},
				},
			},
		},
	},
	{
		Name:        ToolCreatePhysicsSimulator,
		Description: "Create an interactive physics simulation",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"simulation": {
					Type: TypeObject,
					Properties: map[string]*Schema{
						"type":              {Type: TypeString},
						"parameters":        {Type: TypeObject},
						"initialConditions": {Type: TypeObject},
					},
					Required: []string{"type"},
				},
			},
			Required: []string{"simulation"},
		},
	},
	{
		Name:        ToolTextToSpeech,
		Description: "Generate text-to-speech audio for narration practice",
		Arguments: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"text":  {Type: TypeString},
				"voice": {Type: TypeString},
				"speed": {Type: TypeNumber},
			},
			Required: []string{"text"},
		},
	},
}
