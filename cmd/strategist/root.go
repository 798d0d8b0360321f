package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shubh-37/social-strategist/config"
	"github.com/shubh-37/social-strategist/internal/agents"
	"github.com/shubh-37/social-strategist/internal/database"
	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/media"
	"github.com/shubh-37/social-strategist/internal/metrics"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/session"
)

type rootOptions struct {
	personaPath string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "strategist",
		Short:         "AI social media content planner",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&opts.personaPath, "persona", "", "YAML file with the brand persona")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newProposeCmd(opts),
		newUpcomingCmd(opts),
		newAnalyzeVoiceCmd(opts),
		newChatCmd(opts),
	)
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// runtime holds everything a command needs. Close releases it.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	db       *database.DB
	planner  *session.Planner
}

func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	_ = rt.logger.Sync()
}

func setup(ctx context.Context, opts *rootOptions) (*runtime, error) {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg := config.LoadConfig()
	if cfg.EnvFile == "" {
		logger.Debug("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	observer, err := metrics.NewPrometheusObserver(rt.registry)
	if err != nil {
		return nil, err
	}

	strategist, err := buildStrategist(ctx, cfg, observer, logger)
	if err != nil {
		return nil, err
	}

	state, store, err := loadState(ctx, rt, opts.personaPath)
	if err != nil {
		rt.Close()
		return nil, err
	}

	mediaStore, err := buildMediaStore(ctx, cfg, observer, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	plannerOpts := []session.Option{session.WithLogger(logger), session.WithMediaStore(mediaStore)}
	if store != nil {
		plannerOpts = append(plannerOpts, session.WithStore(store))
	}
	rt.planner = session.NewPlanner(state, strategist, plannerOpts...)

	return rt, nil
}

// buildStrategist picks the text provider. Images always come from Gemini
// and are unavailable when no Gemini key is configured.
func buildStrategist(ctx context.Context, cfg *config.Config, observer metrics.Observer, logger *zap.Logger) (*agents.Strategist, error) {
	var (
		gemini *llm.GeminiClient
		images llm.ImageGenerator
	)
	if cfg.GeminiKey != "" {
		var err error
		gemini, err = llm.NewGeminiClient(ctx, cfg.GeminiKey, cfg.TextModel, cfg.ImageModel, logger)
		if err != nil {
			return nil, err
		}
		images = gemini
	}

	var text llm.TextGenerator
	textModel := cfg.TextModel
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		client, err := llm.NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel, logger)
		if err != nil {
			return nil, err
		}
		text = client
		textModel = cfg.AnthropicModel
	default:
		// Validate guarantees a Gemini key for this provider.
		text = gemini
	}

	logger.Info("🤖 Strategist ready",
		zap.String("provider", cfg.LLMProvider),
		zap.String("text_model", textModel),
		zap.Bool("images", images != nil))

	return agents.NewStrategist(text, images,
		agents.WithModels(textModel, cfg.ImageModel),
		agents.WithObserver(observer),
		agents.WithLogger(logger),
	), nil
}

// loadState restores the session from Postgres when DATABASE_URL is set.
// A --persona file replaces the stored persona.
func loadState(ctx context.Context, rt *runtime, personaPath string) (*session.State, session.Store, error) {
	var seed *models.Persona
	if personaPath != "" {
		p, err := config.LoadPersona(personaPath)
		if err != nil {
			return nil, nil, err
		}
		seed = p
	}

	if rt.cfg.DatabaseURL == "" {
		rt.logger.Info("💾 No DATABASE_URL, session kept in memory")
		return session.NewState(seed), nil, nil
	}

	db, err := database.NewDB(ctx, rt.cfg.DatabaseURL, rt.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt.db = db

	if err := db.CreateTables(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to create tables: %w", err)
	}

	store := database.NewStore(db)
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	if seed != nil {
		if snap.Persona != nil {
			seed.ID = snap.Persona.ID
		}
		if err := store.SavePersona(ctx, seed); err != nil {
			return nil, nil, err
		}
		snap.Persona = seed
	}

	rt.logger.Info("📊 Database connected and ready",
		zap.Int("posts", len(snap.Posts)),
		zap.Int("chat_messages", len(snap.Chat)))

	return session.Restore(snap), store, nil
}

func buildMediaStore(ctx context.Context, cfg *config.Config, observer metrics.Observer, logger *zap.Logger) (session.MediaStore, error) {
	r2 := cfg.R2()
	if !r2.Enabled() {
		return media.DataURLStore{}, nil
	}
	store, err := media.NewR2Store(ctx, r2, observer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create R2 store: %w", err)
	}
	logger.Info("🖼️ Media uploads go to R2", zap.String("bucket", r2.BucketName))
	return store, nil
}
