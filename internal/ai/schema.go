package ai

import (
	"github.com/google/generative-ai-go/genai"
)

// Schema types in the provider-neutral grammar.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Schema describes a tool's argument shape once, independently of any
// provider dialect. Each adapter lowers it to whatever its API can express,
// so the registry stays the single source of truth and the dialects cannot
// drift apart.
type Schema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	MinItems    int
	MaxItems    int

	// OneOf holds variant object shapes for union-like content (for example
	// slide content, whose required keys depend on the slide type).
	OneOf []*Schema
}

// toGenai lowers the schema to the Gemini function-declaration dialect.
// Gemini rejects oneOf, so variants are flattened into a single object whose
// properties are the union of every variant's properties with nothing
// required. Item-count bounds are dropped; the SDK schema cannot carry them.
func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}

	if len(s.OneOf) > 0 {
		merged := &Schema{
			Type:        TypeObject,
			Description: s.Description,
			Properties:  map[string]*Schema{},
		}
		for _, variant := range s.OneOf {
			for name, prop := range variant.Properties {
				if _, ok := merged.Properties[name]; !ok {
					merged.Properties[name] = prop
				}
			}
		}
		return merged.toGenai()
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if s.Items != nil {
		out.Items = s.Items.toGenai()
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

// toJSONSchema renders the schema in the JSON-Schema dialect used by
// OpenAI-style APIs, which supports oneOf natively, so nothing is lost.
func (s *Schema) toJSONSchema() map[string]any {
	if s == nil {
		return nil
	}

	out := map[string]any{}
	if s.Type != "" {
		out["type"] = s.Type
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.toJSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if s.Items != nil {
		out["items"] = s.Items.toJSONSchema()
	}
	if s.MinItems > 0 {
		out["minItems"] = s.MinItems
	}
	if s.MaxItems > 0 {
		out["maxItems"] = s.MaxItems
	}
	if len(s.OneOf) > 0 {
		variants := make([]any, 0, len(s.OneOf))
		for _, variant := range s.OneOf {
			variants = append(variants, variant.toJSONSchema())
		}
		out["oneOf"] = variants
	}
	return out
}
