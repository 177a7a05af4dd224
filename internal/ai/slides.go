package ai

import (
	"strings"
)

// The five slide kinds the renderer knows how to draw.
const (
	SlideHeaderSubheader = "Header & Subheader Slide"
	SlideEnumeration     = "Enumeration Slide"
	SlideDefinition      = "Definition Slide"
	SlideParagraph       = "Paragraph Slide"
	SlideComparison      = "Comparison Slide"
)

var slideTypes = []string{
	SlideHeaderSubheader,
	SlideEnumeration,
	SlideDefinition,
	SlideParagraph,
	SlideComparison,
}

// repairSlideArgs rewrites a create_ppt_slides argument map so every slide
// carries a canonical type and all content fields that type requires. The
// repair is total: it never fails, and running it on its own output is a
// no-op.
func repairSlideArgs(args map[string]any) map[string]any {
	if args == nil {
		return args
	}
	rawSlides, ok := args["slides"].([]any)
	if !ok {
		return args
	}

	repaired := make([]any, 0, len(rawSlides))
	for _, raw := range rawSlides {
		slide, _ := raw.(map[string]any)
		repaired = append(repaired, RepairSlide(slide))
	}

	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	out["slides"] = repaired
	return out
}

// RepairSlide normalizes a single slide object. Unrecognized kinds are
// remapped by keyword, missing content fields are filled with placeholders,
// and anything unsalvageable becomes a Paragraph slide.
func RepairSlide(slide map[string]any) map[string]any {
	out := make(map[string]any, len(slide))
	for k, v := range slide {
		out[k] = v
	}

	slideType, _ := out["type"].(string)
	canonical := canonicalSlideType(slideType)

	content, _ := out["content"].(map[string]any)
	out["type"] = canonical
	out["content"] = fillSlideContent(canonical, content)
	return out
}

func canonicalSlideType(t string) string {
	trimmed := strings.TrimSpace(t)
	for _, known := range slideTypes {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "enum"), strings.Contains(lower, "bullet"), strings.Contains(lower, "list"):
		return SlideEnumeration
	case strings.Contains(lower, "defin"), strings.Contains(lower, "term"):
		return SlideDefinition
	case strings.Contains(lower, "compar"):
		return SlideComparison
	case strings.Contains(lower, "title"), strings.Contains(lower, "header"):
		return SlideHeaderSubheader
	case strings.Contains(lower, "content"), strings.Contains(lower, "text"), strings.Contains(lower, "paragraph"):
		return SlideParagraph
	case strings.Contains(lower, "image"):
		// No dedicated image slide kind exists; a header pair is the
		// closest frame.
		return SlideHeaderSubheader
	default:
		return SlideParagraph
	}
}

func fillSlideContent(slideType string, content map[string]any) map[string]any {
	out := make(map[string]any, len(content)+2)
	for k, v := range content {
		out[k] = v
	}

	switch slideType {
	case SlideHeaderSubheader:
		ensureString(out, "title", "Overview")
		ensureString(out, "subtitle", "Key Points")
	case SlideEnumeration:
		ensureString(out, "title", "Highlights")
		ensureStringList(out, "bullets", []any{"Point 1", "Point 2", "Point 3"})
	case SlideDefinition:
		ensureString(out, "term", "Key Term")
		ensureString(out, "definition", "A definition was not provided for this term.")
	case SlideParagraph:
		ensureString(out, "paragraph", "Summary of the content.")
	case SlideComparison:
		ensureString(out, "title", "Comparison")
		ensureComparisonItems(out)
	}
	return out
}

func ensureString(m map[string]any, key, fallback string) {
	if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
		return
	}
	m[key] = fallback
}

func ensureStringList(m map[string]any, key string, fallback []any) {
	items, ok := m[key].([]any)
	if !ok || len(items) == 0 {
		m[key] = fallback
		return
	}
	for i, item := range items {
		if s, ok := item.(string); !ok || strings.TrimSpace(s) == "" {
			items[i] = "Point"
		}
	}
}

func ensureComparisonItems(m map[string]any) {
	items, ok := m["comparisonItems"].([]any)
	if !ok || len(items) == 0 {
		m["comparisonItems"] = []any{
			map[string]any{"header": "Option A", "points": []any{"Point 1"}},
			map[string]any{"header": "Option B", "points": []any{"Point 1"}},
		}
		return
	}
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			item = map[string]any{}
		}
		ensureString(item, "header", "Item")
		ensureStringList(item, "points", []any{"Point 1"})
		items[i] = item
	}
}
