package ai

import (
	"testing"
)

func slideContentSchema(t *testing.T) *Schema {
	t.Helper()
	for _, tool := range Tools() {
		if tool.Name != ToolCreateSlides {
			continue
		}
		content := tool.Arguments.Properties["slides"].Items.Properties["content"]
		if content == nil {
			t.Fatal("slide content schema missing from catalog")
		}
		return content
	}
	t.Fatal("create_ppt_slides not in catalog")
	return nil
}

func TestToGenai_FlattensOneOf(t *testing.T) {
	content := slideContentSchema(t)
	if len(content.OneOf) == 0 {
		t.Fatal("slide content schema should carry oneOf variants")
	}

	lowered := content.toGenai()
	if len(lowered.Required) != 0 {
		t.Errorf("flattened union must require nothing, got %v", lowered.Required)
	}

	// Every variant's properties must survive the merge.
	for _, variant := range content.OneOf {
		for name := range variant.Properties {
			if _, ok := lowered.Properties[name]; !ok {
				t.Errorf("property %q lost during flattening", name)
			}
		}
	}

	// And nothing the variants never declared may appear.
	for name := range lowered.Properties {
		found := false
		for _, variant := range content.OneOf {
			if _, ok := variant.Properties[name]; ok {
				found = true
			}
		}
		if !found {
			t.Errorf("property %q invented during flattening", name)
		}
	}
}

func TestToJSONSchema_PreservesOneOf(t *testing.T) {
	content := slideContentSchema(t)

	rendered := content.toJSONSchema()
	variants, ok := rendered["oneOf"].([]any)
	if !ok {
		t.Fatal("oneOf missing from JSON-Schema rendering")
	}
	if len(variants) != len(content.OneOf) {
		t.Errorf("rendered %d variants, want %d", len(variants), len(content.OneOf))
	}
	for i, raw := range variants {
		variant, ok := raw.(map[string]any)
		if !ok {
			t.Fatalf("variant %d is not an object", i)
		}
		if _, ok := variant["properties"]; !ok {
			t.Errorf("variant %d has no properties", i)
		}
	}
}

func TestToJSONSchema_KeepsItemBounds(t *testing.T) {
	for _, tool := range Tools() {
		if tool.Name != ToolCreateSlides {
			continue
		}
		rendered := tool.Arguments.toJSONSchema()
		props := rendered["properties"].(map[string]any)
		slides := props["slides"].(map[string]any)
		if slides["minItems"] != 1 {
			t.Errorf("minItems = %v, want 1", slides["minItems"])
		}
		return
	}
	t.Fatal("create_ppt_slides not in catalog")
}

func TestToGenai_TypeMapping(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"count": {Type: TypeInteger},
			"label": {Type: TypeString, Enum: []string{"a", "b"}},
			"items": {Type: TypeArray, Items: &Schema{Type: TypeNumber}},
		},
		Required: []string{"count"},
	}

	lowered := s.toGenai()
	if got := lowered.Properties["label"].Enum; len(got) != 2 {
		t.Errorf("enum values lost: %v", got)
	}
	if lowered.Properties["items"].Items == nil {
		t.Error("array element schema lost")
	}
	if len(lowered.Required) != 1 || lowered.Required[0] != "count" {
		t.Errorf("required = %v, want [count]", lowered.Required)
	}
}
