// Package prompts builds the context blocks and request payloads sent to the
// generative service. Everything here is a pure function of its inputs.
package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/schedule"
)

const noUpcomingPosts = "No upcoming posts scheduled."

// PersonaContext summarises brand, industry and tone.
func PersonaContext(p *models.Persona) string {
	return fmt.Sprintf(`Current User Persona:
Brand: %s
Industry: %s
Tone: %s`, p.BrandName, p.Industry, p.Tone)
}

// VoiceContext renders the brand voice guide, or "" when the persona has none.
func VoiceContext(p *models.Persona) string {
	g := p.BrandVoiceGuide
	if g == nil {
		return ""
	}
	return fmt.Sprintf(`ESTABLISHED BRAND VOICE GUIDE:
Tone: %s
Style: %s
Do's: %s
Don'ts: %s`, g.Tone, g.Style, strings.Join(g.Dos, ", "), strings.Join(g.Donts, ", "))
}

// voiceInstructions is the stricter variant used by post templates; it also
// carries the vocabulary. Without a guide it falls back to the plain tone.
func voiceInstructions(p *models.Persona) string {
	g := p.BrandVoiceGuide
	if g == nil {
		return "Brand Tone: " + p.Tone
	}
	return fmt.Sprintf(`STRICTLY ADHERE TO THIS BRAND VOICE:
Tone: %s
Style: %s
Vocabulary: %s
Do's: %s
Don'ts: %s`, g.Tone, g.Style, strings.Join(g.Vocabulary, ", "), strings.Join(g.Dos, ", "), strings.Join(g.Donts, ", "))
}

// LiveDataContext summarises current metrics and the next upcoming posts
// (dated at or after now, earliest first, at most five).
func LiveDataContext(metrics []models.AnalyticsMetric, posts []*models.GeneratedPost, now time.Time) string {
	var b strings.Builder

	b.WriteString("CURRENT METRICS:\n")
	if len(metrics) == 0 {
		b.WriteString("No metrics available.\n")
	}
	for _, m := range metrics {
		sign := ""
		if m.Change >= 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "- %s: %g%s (%s%g%%)\n", m.Name, m.Value, m.Unit, sign, m.Change)
	}

	fmt.Fprintf(&b, "\nUPCOMING SCHEDULE (Next %d posts):\n", schedule.UpcomingLimit)
	upcoming := schedule.Upcoming(posts, now, schedule.UpcomingLimit)
	if len(upcoming) == 0 {
		b.WriteString(noUpcomingPosts + "\n")
	}
	for _, p := range upcoming {
		fmt.Fprintf(&b, "- %s [%s]: %s (Est. Engagement: %s)\n",
			p.CreatedAt.Format("Jan 2, 2006"), p.Platform, p.Content, p.EstimatedEngagement)
	}

	return strings.TrimRight(b.String(), "\n")
}
