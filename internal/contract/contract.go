// Package contract declares the structured output each generative operation
// must return, and validates raw model text against it.
package contract

// Kind is the primitive shape of a contract field.
type Kind string

const (
	KindString      Kind = "string"
	KindInteger     Kind = "integer"
	KindStringArray Kind = "array<string>"
	KindObjectArray Kind = "array<object>"
	KindObject      Kind = "object"
)

// Field is one declared output field. Required fields must be present with
// the declared shape; required strings and arrays must also be non-empty
// unless AllowEmpty is set. Optional fields with a wrong shape are dropped.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Optional    bool
	AllowEmpty  bool
	// Fields describes the members of KindObject and of KindObjectArray items.
	Fields []Field
}

// Contract is the exhaustive output shape of one operation. Root is either
// KindObject (described by Fields) or KindStringArray.
type Contract struct {
	Name   string
	Root   Kind
	Fields []Field
}

func requiredNames(fields []Field) []string {
	var names []string
	for _, f := range fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// Post is the contract for generate-post and refine-post.
var Post = &Contract{
	Name: "post",
	Root: KindObject,
	Fields: []Field{
		{Name: "content", Kind: KindString, Description: "The main caption or text content of the post. Use platform-appropriate formatting (line breaks, emojis)."},
		{Name: "hashtags", Kind: KindStringArray, Description: "A list of optimized hashtags."},
		{Name: "rationale", Kind: KindString, Description: "Strategic reasoning for the hook, structure, and tone choices."},
		{Name: "visualSuggestion", Kind: KindString, Description: "A detailed description of the image or video to accompany this post."},
		{Name: "estimatedEngagement", Kind: KindString, Description: "Predicted engagement metrics (e.g., 'High - approx 200 likes')."},
		{Name: "suggestedTime", Kind: KindString, Description: "Best time to post based on general best practices."},
	},
}

// VoiceGuide is the contract for analyze-voice.
var VoiceGuide = &Contract{
	Name: "brand_voice_guide",
	Root: KindObject,
	Fields: []Field{
		{Name: "tone", Kind: KindString, Description: "3-5 adjectives describing the overall tone (e.g., 'Witty, irreverent, smart')."},
		{Name: "style", Kind: KindString, Description: "Description of sentence structure and flow (e.g., 'Short punchy sentences with frequent line breaks')."},
		{Name: "vocabulary", Kind: KindStringArray, Description: "List of characteristic words or phrases often used."},
		{Name: "emojiUsage", Kind: KindString, Description: "Rules regarding emoji usage (e.g., 'Minimal, only use 🚀 and 🔥')."},
		{Name: "dos", Kind: KindStringArray, Description: "List of 3-5 things the brand ALWAYS does."},
		{Name: "donts", Kind: KindStringArray, Description: "List of 3-5 things the brand NEVER does."},
		{Name: "exampleRewrite", Kind: KindString, Description: "Rewrite of 'Check out our new product' in this brand voice."},
	},
}

// Pillars is the contract for suggest-pillars: a bare array of topics.
var Pillars = &Contract{
	Name: "content_pillars",
	Root: KindStringArray,
}

// ScheduleProposal is the contract for propose-schedule. Year is optional so
// the date resolver can fall back to the displayed calendar year.
var ScheduleProposal = &Contract{
	Name: "schedule_proposal",
	Root: KindObject,
	Fields: []Field{
		{Name: "explanation", Kind: KindString, Description: "Brief explanation of why these dates and topics were chosen."},
		{Name: "posts", Kind: KindObjectArray, AllowEmpty: true, Fields: []Field{
			{Name: "platform", Kind: KindString, Description: "instagram, linkedin, twitter, tiktok, or threads"},
			{Name: "day", Kind: KindInteger, Description: "Day of the month (1-31)"},
			{Name: "month", Kind: KindString, Description: "Full Month name (e.g. January)"},
			{Name: "year", Kind: KindInteger, Optional: true, Description: "Year (e.g. 2025)"},
			{Name: "content", Kind: KindString, Description: "Draft caption or topic summary"},
			{Name: "suggestedTime", Kind: KindString, Description: "e.g. 10:00 AM"},
			{Name: "rationale", Kind: KindString, Description: "Why this post works here"},
		}},
	},
}

// JSONSchema renders the contract as a JSON Schema document, for providers
// that take the shape as prompt text rather than as a native parameter.
func (c *Contract) JSONSchema() map[string]any {
	if c.Root == KindStringArray {
		return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	}
	return objectSchema(c.Fields)
}

func objectSchema(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = fieldSchema(f)
	}
	schema := map[string]any{"type": "object", "properties": props}
	if req := requiredNames(fields); len(req) > 0 {
		schema["required"] = req
	}
	return schema
}

func fieldSchema(f Field) map[string]any {
	var s map[string]any
	switch f.Kind {
	case KindString:
		s = map[string]any{"type": "string"}
	case KindInteger:
		s = map[string]any{"type": "integer"}
	case KindStringArray:
		s = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case KindObjectArray:
		s = map[string]any{"type": "array", "items": objectSchema(f.Fields)}
	case KindObject:
		s = objectSchema(f.Fields)
	}
	if f.Description != "" {
		s["description"] = f.Description
	}
	return s
}
