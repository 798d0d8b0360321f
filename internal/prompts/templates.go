package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shubh-37/social-strategist/internal/contract"
	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/models"
)

// Operation names, used for logging, metrics and error classification.
const (
	OpGeneratePost    = "generate-post"
	OpRefinePost      = "refine-post"
	OpGenerateMedia   = "generate-media"
	OpAnalyzeVoice    = "analyze-voice"
	OpSuggestAudience = "suggest-audience"
	OpSuggestPillars  = "suggest-pillars"
	OpProposeSchedule = "propose-schedule"
	OpChatTurn        = "chat-turn"
)

// StrategistInstruction is the shared system instruction.
const StrategistInstruction = `You are an elite social media strategist.
Your goal is to help users create posts that are professional, high-impact, and brand-consistent.
Analyze inputs and generate content that maximizes engagement for the specific platform.
Always provide strategic rationale for your choices.`

// MediaAspectRatio is the aspect ratio requested for post visuals.
const MediaAspectRatio = "1:1"

// VoiceRewriteSample is the sentence rewritten in the brand voice as an example.
const VoiceRewriteSample = "Check out our new product"

// Refinement carries the prior draft and the user's feedback, both verbatim.
type Refinement struct {
	OriginalContent string
	Feedback        string
}

// GeneratePost builds a fresh post request for platform and topic.
func GeneratePost(p *models.Persona, platform models.Platform, topic, extra string) llm.TextRequest {
	if strings.TrimSpace(extra) == "" {
		extra = "None"
	}
	prompt := fmt.Sprintf(`Generate a %s post about: "%s".
Additional Context: %s

%s

The output must be a structured JSON object.`, platform, topic, extra, audienceBlock(p))

	return structured(OpGeneratePost, prompt, contract.Post, llm.TemperatureCreative)
}

// RefinePost builds a revision request. The response uses the same contract
// as a fresh post and becomes a new post.
func RefinePost(p *models.Persona, platform models.Platform, topic string, r Refinement) llm.TextRequest {
	prompt := fmt.Sprintf(`Refine the following %s post based on user feedback.

Original Topic: "%s"
Previous Content: "%s"
Feedback/Instructions: "%s"

%s

The output must be a structured JSON object with the same schema as a new post.`,
		platform, topic, r.OriginalContent, r.Feedback, audienceBlock(p))

	return structured(OpRefinePost, prompt, contract.Post, llm.TemperatureCreative)
}

func audienceBlock(p *models.Persona) string {
	return fmt.Sprintf(`Target Audience: %s
Industry: %s
Goals: %s
%s`, p.TargetAudience, p.Industry, p.Goals, voiceInstructions(p))
}

// GenerateMedia builds an image request from a post's visual suggestion.
func GenerateMedia(visualSuggestion string) llm.ImageRequest {
	return llm.ImageRequest{
		Op:          OpGenerateMedia,
		Prompt:      "Create a professional social media visual for: " + visualSuggestion,
		AspectRatio: MediaAspectRatio,
	}
}

// AnalyzeVoice builds a brand voice extraction request from past posts.
func AnalyzeVoice(pastPosts []string) llm.TextRequest {
	prompt := fmt.Sprintf(`Analyze the following social media posts to create a detailed Brand Voice Guide.

Past Posts for Analysis:
%s

Your task is to extract the unique verbal signature of this brand.
Determine the tone, writing style, recurring vocabulary, emoji usage patterns, and specific rules (Do's and Don'ts).
Finally, rewrite the generic sentence "%s" into this specific brand voice as an example.`,
		strings.Join(pastPosts, "\n---\n"), VoiceRewriteSample)

	return structured(OpAnalyzeVoice, prompt, contract.VoiceGuide, llm.TemperatureAnalytical)
}

// SuggestAudience builds a free-text target audience request.
func SuggestAudience(brandName, industry, tone string) llm.TextRequest {
	prompt := fmt.Sprintf(`Identify the ideal target audience for a brand named "%s" in the "%s" industry with a "%s" tone. Be specific about demographics, psychographics, and pain points. Keep it under 50 words and write it as a direct description.`,
		brandName, industry, tone)

	return llm.TextRequest{
		Op:          OpSuggestAudience,
		Prompt:      prompt,
		Temperature: llm.Temperature(llm.TemperatureCreative),
	}
}

// SuggestPillars builds a content pillar request answered as a JSON array.
func SuggestPillars(brandName, industry, tone, audience string) llm.TextRequest {
	prompt := fmt.Sprintf(`Generate 6 specific, engaging content pillars (topics) for a "%s" brand named "%s".
Target Audience: %s.
Tone: %s.
Return ONLY a JSON array of strings, e.g. ["Industry Trends", "Behind the Scenes"].`,
		industry, brandName, audience, tone)

	req := structured(OpSuggestPillars, prompt, contract.Pillars, llm.TemperatureCreative)
	req.SystemInstruction = ""
	return req
}

// ProposeSchedule builds a scheduling request anchored on the calendar month
// the user is looking at.
func ProposeSchedule(p *models.Persona, request string, calendar time.Time) llm.TextRequest {
	month := calendar.Month().String()
	year := calendar.Year()

	prompt := fmt.Sprintf(`You are a professional social media manager scheduling content for "%s" (%s).
Current Calendar View: %s %d.

User Request: "%s"

Task:
1. Create a schedule of posts that fits the user's request.
2. Assign specific dates. If the user asks for a specific month (e.g. "January"), schedule for that month in %d (or %d if appropriate).
3. Provide a brief explanation of the schedule strategy.

Brand Voice: %s
Target Audience: %s

Return a JSON object.`,
		p.BrandName, p.Industry, month, year, request, year, year+1, p.Tone, p.TargetAudience)

	return structured(OpProposeSchedule, prompt, contract.ScheduleProposal, llm.TemperatureCreative)
}

// ChatTurn builds a conversation turn. The system instruction carries the
// persona, the voice guide and the live data block computed by the caller for
// this turn; history is sent in full.
func ChatTurn(p *models.Persona, history []models.ChatMessage, message, liveData string) llm.TextRequest {
	system := StrategistInstruction + "\n\n" + PersonaContext(p)
	if voice := VoiceContext(p); voice != "" {
		system += "\n\n" + voice
	}
	if liveData != "" {
		system += "\n\nREAL-TIME APP DATA (Use this to answer user questions):\n" + liveData
	}

	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Role: string(m.Role), Text: m.Text})
	}

	return llm.TextRequest{
		Op:                OpChatTurn,
		Prompt:            message,
		SystemInstruction: system,
		History:           turns,
	}
}

func structured(op, prompt string, c *contract.Contract, temperature float32) llm.TextRequest {
	return llm.TextRequest{
		Op:                op,
		Prompt:            prompt,
		SystemInstruction: StrategistInstruction,
		Contract:          c,
		Temperature:       llm.Temperature(temperature),
	}
}
