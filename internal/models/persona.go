package models

import (
	"slices"
	"strings"
)

// CustomTone is the tone option that takes free-form text instead of a preset.
const CustomTone = "Custom"

// ToneOptions are the preset tones offered during onboarding.
var ToneOptions = []string{"Professional", "Friendly", "Funny", "Inspiring", "Helpful", "Bold", "Luxury", "Calm", CustomTone}

// Persona represents the brand operating the planner
type Persona struct {
	ID              string           `json:"id,omitempty" yaml:"id,omitempty"`
	BrandName       string           `json:"brandName" yaml:"brandName"`
	Industry        string           `json:"industry" yaml:"industry"`
	TargetAudience  string           `json:"targetAudience" yaml:"targetAudience"`
	Tone            string           `json:"tone" yaml:"tone"`
	Goals           string           `json:"goals" yaml:"goals"`
	ContentPillars  []string         `json:"contentPillars" yaml:"contentPillars"`
	BrandVoiceGuide *BrandVoiceGuide `json:"brandVoiceGuide,omitempty" yaml:"brandVoiceGuide,omitempty"`
}

// BrandVoiceGuide is the stylistic signature extracted from past content.
type BrandVoiceGuide struct {
	Tone           string   `json:"tone" yaml:"tone"`
	Style          string   `json:"style" yaml:"style"`
	Vocabulary     []string `json:"vocabulary" yaml:"vocabulary"`
	EmojiUsage     string   `json:"emojiUsage" yaml:"emojiUsage"`
	Dos            []string `json:"dos" yaml:"dos"`
	Donts          []string `json:"donts" yaml:"donts"`
	ExampleRewrite string   `json:"exampleRewrite" yaml:"exampleRewrite"`
}

// NewPersona creates a persona with the onboarding defaults
func NewPersona(brandName, industry string) *Persona {
	return &Persona{
		BrandName:      brandName,
		Industry:       industry,
		Tone:           "Professional",
		Goals:          "Brand Awareness",
		ContentPillars: []string{},
	}
}

// ResolveTone returns the effective tone for an onboarding selection. An empty
// custom text keeps the literal "Custom" selection.
func ResolveTone(selection, custom string) string {
	if selection == CustomTone && strings.TrimSpace(custom) != "" {
		return strings.TrimSpace(custom)
	}
	return selection
}

// AddPillar appends a trimmed pillar unless it is blank or already present.
func (p *Persona) AddPillar(pillar string) bool {
	pillar = strings.TrimSpace(pillar)
	if pillar == "" || slices.Contains(p.ContentPillars, pillar) {
		return false
	}
	p.ContentPillars = append(p.ContentPillars, pillar)
	return true
}

// MergeSuggestedPillars adds at most limit suggestions, keeping existing order.
func (p *Persona) MergeSuggestedPillars(suggested []string, limit int) {
	if limit >= 0 && len(suggested) > limit {
		suggested = suggested[:limit]
	}
	for _, s := range suggested {
		p.AddPillar(s)
	}
}

// ApplyVoiceGuide attaches guide, replacing any previous one wholesale, and
// adopts its tone.
func (p *Persona) ApplyVoiceGuide(guide BrandVoiceGuide) {
	g := guide
	g.Vocabulary = slices.Clone(guide.Vocabulary)
	g.Dos = slices.Clone(guide.Dos)
	g.Donts = slices.Clone(guide.Donts)
	p.BrandVoiceGuide = &g
	p.Tone = g.Tone
}

// Clone returns a deep copy safe to hand to a stateless builder.
func (p *Persona) Clone() *Persona {
	if p == nil {
		return nil
	}
	cp := *p
	cp.ContentPillars = slices.Clone(p.ContentPillars)
	if p.BrandVoiceGuide != nil {
		cp.BrandVoiceGuide = nil
		cp.ApplyVoiceGuide(*p.BrandVoiceGuide)
		cp.Tone = p.Tone
	}
	return &cp
}

// Normalize trims fields and drops duplicate pillars, used when a persona
// arrives from outside (settings form, seed file).
func (p *Persona) Normalize() {
	p.BrandName = strings.TrimSpace(p.BrandName)
	p.Industry = strings.TrimSpace(p.Industry)
	p.TargetAudience = strings.TrimSpace(p.TargetAudience)
	p.Tone = strings.TrimSpace(p.Tone)
	pillars := p.ContentPillars
	p.ContentPillars = []string{}
	for _, pillar := range pillars {
		p.AddPillar(pillar)
	}
}
