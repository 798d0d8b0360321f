package contract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/models"
)

const validPost = `{
  "content": "Big news! 🚀",
  "hashtags": ["launch", "saas"],
  "rationale": "Curiosity hook",
  "visualSuggestion": "Rocket on a desk",
  "estimatedEngagement": "High",
  "suggestedTime": "10:00 AM"
}`

type postFields struct {
	Content             string   `json:"content"`
	Hashtags            []string `json:"hashtags"`
	Rationale           string   `json:"rationale"`
	VisualSuggestion    string   `json:"visualSuggestion"`
	EstimatedEngagement string   `json:"estimatedEngagement"`
	SuggestedTime       string   `json:"suggestedTime"`
}

func TestParseValidPost(t *testing.T) {
	var got postFields
	require.NoError(t, Post.Parse(validPost, &got))

	want := postFields{
		Content:             "Big news! 🚀",
		Hashtags:            []string{"launch", "saas"},
		Rationale:           "Curiosity hook",
		VisualSuggestion:    "Rocket on a desk",
		EstimatedEngagement: "High",
		SuggestedTime:       "10:00 AM",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAcceptsExtraFields(t *testing.T) {
	raw := `{"content":"x","hashtags":["a"],"rationale":"r","visualSuggestion":"v",
	  "estimatedEngagement":"e","suggestedTime":"t","mood":"sunny","score":9}`
	var got postFields
	assert.NoError(t, Post.Parse(raw, &got))
}

func TestParseStripsMarkdownFence(t *testing.T) {
	var got postFields
	require.NoError(t, Post.Parse("```json\n"+validPost+"\n```", &got))
	assert.Equal(t, "Curiosity hook", got.Rationale)
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"Sure! Here is your post: Big news!",
		`{"content": "unterminated`,
		`{"content":"a"} {"content":"b"}`,
	} {
		var got postFields
		err := Post.Parse(raw, &got)
		assert.True(t, errors.Is(err, errs.ErrMalformedResponse), "raw %q: got %v", raw, err)
	}
}

func TestParseSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"missing field":  `{"content":"x","hashtags":["a"],"rationale":"r","visualSuggestion":"v","estimatedEngagement":"e"}`,
		"wrong type":     `{"content":"x","hashtags":"#a #b","rationale":"r","visualSuggestion":"v","estimatedEngagement":"e","suggestedTime":"t"}`,
		"empty string":   `{"content":"  ","hashtags":["a"],"rationale":"r","visualSuggestion":"v","estimatedEngagement":"e","suggestedTime":"t"}`,
		"empty array":    `{"content":"x","hashtags":[],"rationale":"r","visualSuggestion":"v","estimatedEngagement":"e","suggestedTime":"t"}`,
		"null field":     `{"content":null,"hashtags":["a"],"rationale":"r","visualSuggestion":"v","estimatedEngagement":"e","suggestedTime":"t"}`,
		"array root":     `["content"]`,
		"non-string tag": `{"content":"x","hashtags":["a", 3],"rationale":"r","visualSuggestion":"v","estimatedEngagement":"e","suggestedTime":"t"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var got postFields
			err := Post.Parse(raw, &got)
			require.Error(t, err)
			kind, ok := errs.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, errs.KindSchemaViolation, kind)
		})
	}
}

func TestParsePillars(t *testing.T) {
	var pillars []string
	require.NoError(t, Pillars.Parse(`["Industry Trends", "Behind the Scenes"]`, &pillars))
	assert.Equal(t, []string{"Industry Trends", "Behind the Scenes"}, pillars)

	err := Pillars.Parse(`{"pillars": ["a"]}`, &pillars)
	assert.ErrorIs(t, err, errs.ErrSchemaViolation)
}

func TestParseScheduleProposal(t *testing.T) {
	raw := `{
	  "explanation": "Front-load the launch week.",
	  "posts": [
	    {"platform":"LinkedIn","day":3,"month":"November","year":2025,"content":"Teaser","suggestedTime":"9:00 AM","rationale":"Weekday reach"},
	    {"platform":"instagram","day":5,"month":"November","year":"next year","content":"Launch","suggestedTime":"6:00 PM","rationale":"Evening scroll"},
	    {"platform":"twitter","day":7,"month":"Nov","content":"Recap","suggestedTime":"noon","rationale":"Wrap up"}
	  ]
	}`
	var got struct {
		Explanation string                    `json:"explanation"`
		Posts       []models.RawScheduleEntry `json:"posts"`
	}
	require.NoError(t, ScheduleProposal.Parse(raw, &got))
	require.Len(t, got.Posts, 3)
	assert.Equal(t, 2025, got.Posts[0].Year)
	assert.Zero(t, got.Posts[1].Year, "a non-integer optional year is dropped")
	assert.Zero(t, got.Posts[2].Year)
	assert.Equal(t, "Nov", got.Posts[2].Month)
}

func TestParseScheduleProposalRejectsBadEntry(t *testing.T) {
	raw := `{"explanation":"x","posts":[{"platform":"instagram","day":"third","month":"May","content":"c","suggestedTime":"t","rationale":"r"}]}`
	var got map[string]any
	err := ScheduleProposal.Parse(raw, &got)
	require.ErrorIs(t, err, errs.ErrSchemaViolation)
	assert.Contains(t, err.Error(), "posts[0].day")
}

func TestScheduleProposalAllowsEmptyPosts(t *testing.T) {
	var empty map[string]any
	assert.NoError(t, ScheduleProposal.Parse(`{"explanation":"Nothing fits this month.","posts":[]}`, &empty))
}

func TestJSONSchema(t *testing.T) {
	schema := VoiceGuide.JSONSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"tone", "style", "vocabulary", "emojiUsage", "dos", "donts", "exampleRewrite"}, schema["required"])

	posts := ScheduleProposal.JSONSchema()["properties"].(map[string]any)["posts"].(map[string]any)
	items := posts["items"].(map[string]any)
	assert.NotContains(t, items["required"], "year")

	assert.Equal(t, "array", Pillars.JSONSchema()["type"])
}

func TestCompact(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Compact("```json\n{ \"a\": 1 }\n```"))
	assert.Equal(t, "not json", Compact("  not json "))
}
