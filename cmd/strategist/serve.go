package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/api"
	slackpkg "github.com/shubh-37/social-strategist/internal/slack"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the Slack bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.cfg.ValidateServer(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var slackEvents http.HandlerFunc
	if rt.cfg.SlackEnabled() {
		slackEvents, err = buildSlack(rt)
		if err != nil {
			return err
		}
		rt.logger.Info("💬 Slack: Connected and listening")
	}

	app := api.NewApp(rt.planner, api.Options{
		APIKey:      rt.cfg.APIKey,
		Gatherer:    rt.registry,
		SlackEvents: slackEvents,
		AccessLog:   opts.verbose,
		Logger:      rt.logger,
	})

	addr := fmt.Sprintf(":%d", rt.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("🚀 Social Strategist listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-quit:
	}

	rt.logger.Info("Shutting down gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		rt.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	rt.logger.Info("Server exited")
	return nil
}

func buildSlack(rt *runtime) (http.HandlerFunc, error) {
	client, err := slackpkg.NewClient(rt.cfg.SlackToken)
	if err != nil {
		return nil, err
	}

	approval := slackpkg.NewApprovalHandler(client, rt.planner, rt.logger)
	commands := slackpkg.NewCommandHandler(client, rt.planner, approval, rt.logger)
	messages := slackpkg.NewMessageHandler(client, rt.planner, commands, rt.logger)
	server := slackpkg.NewServer(messages, approval, rt.cfg.SlackSigningSecret, rt.logger)

	return server.HandleEvents, nil
}
