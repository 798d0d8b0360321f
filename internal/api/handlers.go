package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/schedule"
	"github.com/shubh-37/social-strategist/internal/session"
)

type Handler struct {
	planner *session.Planner
	logger  *zap.Logger
}

func (h *Handler) fields(c *fiber.Ctx, err error) []zap.Field {
	return []zap.Field{zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err)}
}

// Options lists the choices offered by the onboarding form.
func (h *Handler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"platforms": models.Platforms,
		"tones":     models.ToneOptions,
	})
}

// Persona

func (h *Handler) GetPersona(c *fiber.Ctx) error {
	return c.JSON(h.planner.State().Persona())
}

func (h *Handler) UpdatePersona(c *fiber.Ctx) error {
	var persona models.Persona
	if err := c.BodyParser(&persona); err != nil {
		return badRequest(c, "Unable to parse persona")
	}
	if persona.BrandName == "" || persona.Industry == "" {
		return badRequest(c, "brandName and industry are required")
	}
	if persona.ContentPillars == nil {
		persona.ContentPillars = []string{}
	}

	saved, err := h.planner.SetPersona(c.UserContext(), &persona)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(saved)
}

type audienceRequest struct {
	BrandName  string `json:"brandName"`
	Industry   string `json:"industry"`
	Tone       string `json:"tone"`
	CustomTone string `json:"customTone"`
}

func (h *Handler) SuggestAudience(c *fiber.Ctx) error {
	var req audienceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request")
	}

	audience, err := h.planner.SuggestAudience(c.UserContext(), req.BrandName, req.Industry, models.ResolveTone(req.Tone, req.CustomTone))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"targetAudience": audience})
}

// SuggestPillars takes an optional draft persona; an empty body uses the
// session persona.
func (h *Handler) SuggestPillars(c *fiber.Ctx) error {
	var draft *models.Persona
	if len(c.Body()) > 0 {
		draft = &models.Persona{}
		if err := c.BodyParser(draft); err != nil {
			return badRequest(c, "Unable to parse persona")
		}
	}

	pillars, err := h.planner.SuggestPillars(c.UserContext(), draft)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"pillars": pillars})
}

func (h *Handler) AcceptPillars(c *fiber.Ctx) error {
	var req struct {
		Pillars []string `json:"pillars"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request")
	}

	persona, err := h.planner.AddSuggestedPillars(c.UserContext(), req.Pillars)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(persona)
}

func (h *Handler) AnalyzeVoice(c *fiber.Ctx) error {
	var req struct {
		Posts []string `json:"posts"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request")
	}

	guide, err := h.planner.AnalyzeVoice(c.UserContext(), req.Posts)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(guide)
}

func (h *Handler) SaveVoiceGuide(c *fiber.Ctx) error {
	var guide models.BrandVoiceGuide
	if err := c.BodyParser(&guide); err != nil {
		return badRequest(c, "Unable to parse voice guide")
	}

	persona, err := h.planner.SaveVoiceGuide(c.UserContext(), guide)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(persona)
}

// Posts

func (h *Handler) ListPosts(c *fiber.Ctx) error {
	posts := h.planner.State().Posts()
	if status := c.Query("status"); status != "" {
		filtered := posts[:0]
		for _, p := range posts {
			if string(p.Status) == status {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *Handler) UpcomingPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", schedule.UpcomingLimit)
	return c.JSON(fiber.Map{"posts": h.planner.Upcoming(limit)})
}

type generateRequest struct {
	Platform string `json:"platform"`
	Topic    string `json:"topic"`
	Context  string `json:"context"`
}

func (h *Handler) GeneratePost(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request")
	}

	platform := models.ParsePlatform(req.Platform)
	if !platform.Valid() {
		return badRequest(c, fmt.Sprintf("Unsupported platform %q, expected one of: %s", req.Platform, models.PlatformList()))
	}

	post, err := h.planner.GeneratePost(c.UserContext(), platform, req.Topic, req.Context)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

type refineRequest struct {
	Topic    string `json:"topic"`
	Feedback string `json:"feedback"`
}

func (h *Handler) RefinePost(c *fiber.Ctx) error {
	var req refineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request")
	}

	post, err := h.planner.RefinePost(c.UserContext(), c.Params("id"), req.Topic, req.Feedback)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *Handler) GenerateMedia(c *fiber.Ctx) error {
	post, err := h.planner.GenerateMedia(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handler) SchedulePost(c *fiber.Ctx) error {
	post, err := h.planner.SchedulePost(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

// Schedule

type proposeRequest struct {
	Request string `json:"request"`
	// Calendar is the displayed month as YYYY-MM; empty means the current month.
	Calendar string `json:"calendar"`
}

func (h *Handler) ProposeSchedule(c *fiber.Ctx) error {
	var req proposeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse request")
	}

	calendar := time.Now()
	if req.Calendar != "" {
		t, err := time.ParseInLocation("2006-01", req.Calendar, time.Local)
		if err != nil {
			return badRequest(c, "calendar must be YYYY-MM")
		}
		calendar = t
	}

	proposal, err := h.planner.ProposeSchedule(c.UserContext(), req.Request, calendar)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(proposal)
}

func (h *Handler) AcceptProposal(c *fiber.Ctx) error {
	var proposal models.ScheduleProposal
	if err := c.BodyParser(&proposal); err != nil {
		return badRequest(c, "Unable to parse proposal")
	}
	for _, p := range proposal.Posts {
		if p == nil || p.Content == "" || p.CreatedAt.IsZero() {
			return badRequest(c, "every proposed post needs content and a date")
		}
	}

	accepted, err := h.planner.AcceptProposal(c.UserContext(), &proposal)
	if err != nil {
		return h.fail(c, err)
	}
	if accepted == nil {
		accepted = []*models.GeneratedPost{}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"posts": accepted})
}

// Chat

func (h *Handler) ChatHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"messages": h.planner.State().Chat()})
}

func (h *Handler) ChatTurn(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return badRequest(c, "message is required")
	}

	reply, err := h.planner.ChatTurn(c.UserContext(), req.Message)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reply)
}

// Analytics

func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"metrics": h.planner.State().Metrics()})
}

func (h *Handler) SetAnalytics(c *fiber.Ctx) error {
	var req struct {
		Metrics []models.AnalyticsMetric `json:"metrics"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse metrics")
	}
	h.planner.State().SetMetrics(req.Metrics)
	return c.JSON(fiber.Map{"metrics": h.planner.State().Metrics()})
}
