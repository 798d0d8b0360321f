package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/social-strategist/internal/agents"
	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/metrics"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/session"
)

var testNow = time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC)

type stubStrategist struct {
	err      error
	proposal *models.ScheduleProposal
}

func (s *stubStrategist) GeneratePost(_ context.Context, _ *models.Persona, platform models.Platform, topic, _ string) (*models.GeneratedPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := models.NewDraft(platform, testNow)
	p.Content = "About " + topic
	return p, nil
}

func (s *stubStrategist) RefinePost(_ context.Context, _ *models.Persona, prior *models.GeneratedPost, _, feedback string) (*models.GeneratedPost, error) {
	p := models.NewDraft(prior.Platform, testNow)
	p.Content = prior.Content + " / " + feedback
	return p, nil
}

func (s *stubStrategist) GenerateMedia(context.Context, string) (*llm.Image, error) {
	return nil, errs.NoImage("generate-media")
}

func (s *stubStrategist) AnalyzeVoice(context.Context, []string) (*models.BrandVoiceGuide, error) {
	return &models.BrandVoiceGuide{Tone: "Calm"}, nil
}

func (s *stubStrategist) SuggestAudience(context.Context, string, string, string) (string, error) {
	return "Night owls", s.err
}

func (s *stubStrategist) SuggestPillars(context.Context, *models.Persona) ([]string, error) {
	return []string{"Tips", "Stories"}, nil
}

func (s *stubStrategist) ProposeSchedule(context.Context, *models.Persona, string, time.Time) (*models.ScheduleProposal, error) {
	return s.proposal, s.err
}

func (s *stubStrategist) ChatTurn(context.Context, *models.Persona, []models.ChatMessage, string, string) (string, bool) {
	return "Post on Tuesdays.", false
}

func newTestApp(t *testing.T, s *stubStrategist, opts Options) (*fiber.App, *session.Planner) {
	t.Helper()
	state := session.NewState(models.NewPersona("Lumen Coffee", "Food & Beverage"))
	planner := session.NewPlanner(state, s, session.WithClock(func() time.Time { return testNow }))
	return NewApp(planner, opts), planner
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{}, Options{})
	resp, _ := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIKeyMiddleware(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{}, Options{APIKey: "secret"})

	resp, body := do(t, app, http.MethodGet, "/api/persona", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing API key", body["error"])

	resp, _ = do(t, app, http.MethodGet, "/api/persona?api_key=wrong", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/persona?api_key=secret", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/persona", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateAndRefinePost(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})

	resp, body := do(t, app, http.MethodPost, "/api/posts/generate", `{"platform":"LinkedIn","topic":"cold brew"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "About cold brew", body["content"])
	assert.Equal(t, "linkedin", body["platform"])
	id := body["id"].(string)

	resp, body = do(t, app, http.MethodPost, "/api/posts/"+id+"/refine", `{"topic":"cold brew","feedback":"shorter"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "About cold brew / shorter", body["content"])
	assert.NotEqual(t, id, body["id"])

	assert.Len(t, planner.State().Posts(), 2)
}

func TestGeneratePostRejectsUnknownPlatform(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{}, Options{})
	resp, body := do(t, app, http.MethodPost, "/api/posts/generate", `{"platform":"myspace","topic":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "myspace")
	assert.Contains(t, body["error"], "instagram, linkedin")
}

func TestClassifiedErrorsMapToStatus(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{err: errs.SchemaViolation("generate-post", "missing required field %q", "content")}, Options{})

	resp, body := do(t, app, http.MethodPost, "/api/posts/generate", `{"platform":"twitter","topic":"x"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, string(errs.KindSchemaViolation), body["kind"])
	assert.NotEmpty(t, body["message"])
}

func TestGenerateMediaNoImage(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})
	post := models.NewDraft(models.PlatformInstagram, testNow)
	post.VisualSuggestion = "latte art"
	planner.State().AddPost(post)

	resp, body := do(t, app, http.MethodPost, "/api/posts/"+post.ID+"/media", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, string(errs.KindNoImageReturned), body["kind"])
}

func TestUnknownPostIsNotFound(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{}, Options{})
	resp, _ := do(t, app, http.MethodPost, "/api/posts/missing/schedule", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProposeAndAcceptSchedule(t *testing.T) {
	proposed := models.NewDraft(models.PlatformInstagram, time.Date(2025, time.November, 28, 0, 0, 0, 0, time.Local))
	proposed.Content = "Black Friday teaser"
	s := &stubStrategist{proposal: &models.ScheduleProposal{Explanation: "One teaser", Posts: []*models.GeneratedPost{proposed}}}
	app, planner := newTestApp(t, s, Options{})

	resp, body := do(t, app, http.MethodPost, "/api/schedule/propose", `{"request":"Black Friday","calendar":"2025-11"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "One teaser", body["explanation"])
	assert.Empty(t, planner.State().Posts(), "proposals are not merged until accepted")

	resp, _ = do(t, app, http.MethodPost, "/api/schedule/propose", `{"request":"x","calendar":"November"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	accept, err := json.Marshal(s.proposal)
	require.NoError(t, err)
	resp, body = do(t, app, http.MethodPost, "/api/schedule/accept", string(accept))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, body["posts"], 1)
	resp, _ = do(t, app, http.MethodPost, "/api/schedule/accept", string(accept))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	posts := planner.State().Posts()
	require.Len(t, posts, 2)
	assert.NotEqual(t, posts[0].ID, posts[1].ID, "each accept stores fresh posts")
	assert.NotEqual(t, proposed.ID, posts[0].ID)
	assert.Equal(t, models.StatusScheduled, posts[0].Status)

	resp, body = do(t, app, http.MethodGet, "/api/posts/upcoming?limit=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 2)
}

func TestAcceptProposalCannotOverwriteExistingPost(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})
	existing := models.NewDraft(models.PlatformLinkedIn, testNow)
	existing.Content = "keep me"
	planner.State().AddPost(existing)

	body := fmt.Sprintf(`{"posts":[{"id":%q,"platform":"linkedin","content":"overwrite","status":"published","createdAt":"2025-11-20T00:00:00Z"}]}`, existing.ID)
	resp, _ := do(t, app, http.MethodPost, "/api/schedule/accept", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	posts := planner.State().Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "keep me", posts[0].Content)
	assert.NotEqual(t, existing.ID, posts[1].ID)
	assert.Equal(t, models.StatusScheduled, posts[1].Status)

	resp, _ = do(t, app, http.MethodPost, "/api/schedule/accept", `{"posts":[{"platform":"linkedin","content":"undated"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOptions(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{}, Options{})
	resp, body := do(t, app, http.MethodGet, "/api/options", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["platforms"], len(models.Platforms))
	assert.Contains(t, body["tones"], "Custom")
}

func TestSchedulePost(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})
	post := models.NewDraft(models.PlatformTikTok, testNow)
	planner.State().AddPost(post)

	resp, body := do(t, app, http.MethodPost, "/api/posts/"+post.ID+"/schedule", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.StatusScheduled), body["status"])

	resp, body = do(t, app, http.MethodGet, "/api/posts?status=scheduled", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 1)

	_, body = do(t, app, http.MethodGet, "/api/posts?status=draft", "")
	assert.Empty(t, body["posts"])
}

func TestOnboardingFlow(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})

	resp, body := do(t, app, http.MethodPost, "/api/persona/audience", `{"brandName":"Lumen","industry":"Coffee","tone":"Custom","customTone":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Night owls", body["targetAudience"])

	resp, body = do(t, app, http.MethodPost, "/api/persona/pillars", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"Tips", "Stories"}, body["pillars"])

	resp, _ = do(t, app, http.MethodPost, "/api/persona/pillars/accept", `{"pillars":["Tips","Stories"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Subset(t, planner.State().Persona().ContentPillars, []string{"Tips", "Stories"})
}

func TestSuggestAudienceTransportFailure(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{err: errs.Transport("suggest-audience", errors.New("timeout"))}, Options{})
	resp, _ := do(t, app, http.MethodPost, "/api/persona/audience", `{"brandName":"Lumen","industry":"Coffee","tone":"Witty"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestVoiceGuideRoundTrip(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})

	resp, body := do(t, app, http.MethodPost, "/api/persona/voice/analyze", `{"posts":["one","two"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Calm", body["tone"])
	assert.Nil(t, planner.State().Persona().BrandVoiceGuide, "analysis alone does not apply the guide")

	resp, _ = do(t, app, http.MethodPut, "/api/persona/voice", `{"tone":"Calm","style":"Plain"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, planner.State().Persona().BrandVoiceGuide)
	assert.Equal(t, "Plain", planner.State().Persona().BrandVoiceGuide.Style)
}

func TestUpdatePersonaValidates(t *testing.T) {
	app, _ := newTestApp(t, &stubStrategist{}, Options{})

	resp, _ := do(t, app, http.MethodPut, "/api/persona", `{"brandName":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, http.MethodPut, "/api/persona", `{"brandName":"Dusk","industry":"Tea","tone":"Warm"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dusk", body["brandName"])
}

func TestChatAndAnalytics(t *testing.T) {
	app, planner := newTestApp(t, &stubStrategist{}, Options{})

	resp, _ := do(t, app, http.MethodPost, "/api/chat", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, "/api/chat", `{"message":"when should I post?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Post on Tuesdays.", body["text"])
	assert.Len(t, planner.State().Chat(), 2)

	resp, _ = do(t, app, http.MethodPut, "/api/analytics", `{"metrics":[{"name":"Followers","value":120,"change":2.5}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, planner.State().Metrics(), 1)
	assert.Equal(t, "Followers", planner.State().Metrics()[0].Name)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := metrics.NewPrometheusObserver(reg)
	require.NoError(t, err)
	obs.RecordGeneration("generate-post", time.Second, nil)

	app, _ := newTestApp(t, &stubStrategist{}, Options{Gatherer: reg})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "strategist_generations_total")
}

func TestSlackEventsMounted(t *testing.T) {
	called := false
	app, _ := newTestApp(t, &stubStrategist{}, Options{SlackEvents: func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader("{}")), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, called)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", agents.ErrInvalidInput), http.StatusBadRequest},
		{session.ErrPostNotFound, http.StatusNotFound},
		{fmt.Errorf("generate-post: %w", session.ErrBusy), http.StatusConflict},
		{errs.Malformed("x", errors.New("eof")), http.StatusBadGateway},
		{errs.Transport("x", errors.New("eof")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}
