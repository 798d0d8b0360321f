package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/schedule"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var extra string
	var withImage bool

	cmd := &cobra.Command{
		Use:   "generate <platform> <topic...>",
		Short: "Draft a post for a platform",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := models.ParsePlatform(args[0])
			if !platform.Valid() {
				return fmt.Errorf("unsupported platform %q, expected one of: %s", args[0], models.PlatformList())
			}

			rt, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			post, err := rt.planner.GeneratePost(cmd.Context(), platform, strings.Join(args[1:], " "), extra)
			if err != nil {
				return explain(err)
			}
			if withImage {
				if post, err = rt.planner.GenerateMedia(cmd.Context(), post.ID); err != nil {
					return explain(err)
				}
			}
			printPost(cmd.OutOrStdout(), post)
			return nil
		},
	}
	cmd.Flags().StringVar(&extra, "context", "", "additional context for the post")
	cmd.Flags().BoolVar(&withImage, "image", false, "also render the visual suggestion")
	return cmd
}

func newProposeCmd(opts *rootOptions) *cobra.Command {
	var calendar string
	var accept bool

	cmd := &cobra.Command{
		Use:   "propose <request...>",
		Short: "Propose a posting schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := time.Now()
			if calendar != "" {
				t, err := time.ParseInLocation("2006-01", calendar, time.Local)
				if err != nil {
					return fmt.Errorf("--calendar must be YYYY-MM: %w", err)
				}
				month = t
			}

			rt, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			proposal, err := rt.planner.ProposeSchedule(cmd.Context(), strings.Join(args, " "), month)
			if err != nil {
				return explain(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", proposal.Explanation)
			for _, p := range proposal.Posts {
				printPost(out, p)
			}

			if !accept {
				fmt.Fprintln(out, "Run again with --accept to add these posts to the calendar.")
				return nil
			}
			accepted, err := rt.planner.AcceptProposal(cmd.Context(), proposal)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Added %d posts to the calendar.\n", len(accepted))
			return nil
		},
	}
	cmd.Flags().StringVar(&calendar, "calendar", "", "calendar month as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&accept, "accept", false, "merge the proposal into the calendar")
	return cmd
}

func newUpcomingCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the next scheduled posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			posts := rt.planner.Upcoming(limit)
			if len(posts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No upcoming posts scheduled.")
				return nil
			}
			for _, p := range posts {
				printPost(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", schedule.UpcomingLimit, "maximum posts to list")
	return cmd
}

func newAnalyzeVoiceCmd(opts *rootOptions) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "analyze-voice <file...>",
		Short: "Extract a brand voice guide from past posts, one post per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := readPosts(args)
			if err != nil {
				return err
			}

			rt, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			guide, err := rt.planner.AnalyzeVoice(cmd.Context(), posts)
			if err != nil {
				return explain(err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(guide); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}

			if save {
				if _, err := rt.planner.SaveVoiceGuide(cmd.Context(), *guide); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✅ Voice guide saved to the persona.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "attach the guide to the persona")
	return cmd
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the strategist about your plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Chatting with your strategist. Type \"exit\" to quit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				reply, err := rt.planner.ChatTurn(cmd.Context(), line)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n\n", reply.Text)
			}
		},
	}
}

func readPosts(paths []string) ([]string, error) {
	posts := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			posts = append(posts, text)
		}
	}
	if len(posts) == 0 {
		return nil, errors.New("no post text found in the given files")
	}
	return posts, nil
}

func printPost(w io.Writer, p *models.GeneratedPost) {
	fmt.Fprintf(w, "📝 %s · %s · %s [%s]\n", p.Platform.DisplayName(), p.CreatedAt.Format("Jan 2, 2006"), p.SuggestedTime, p.Status)
	fmt.Fprintf(w, "%s\n", p.Content)
	if len(p.Hashtags) > 0 {
		fmt.Fprintf(w, "%s\n", strings.Join(p.Hashtags, " "))
	}
	if p.Rationale != "" {
		fmt.Fprintf(w, "Why: %s\n", p.Rationale)
	}
	if p.VisualSuggestion != "" {
		fmt.Fprintf(w, "Visual: %s\n", p.VisualSuggestion)
	}
	if p.ImageURL != "" && !strings.HasPrefix(p.ImageURL, "data:") {
		fmt.Fprintf(w, "Image: %s\n", p.ImageURL)
	}
	fmt.Fprintf(w, "ID: %s\n\n", p.ID)
}

// explain replaces a classified failure with its user-facing message.
func explain(err error) error {
	var classified *errs.Error
	if errors.As(err, &classified) {
		return fmt.Errorf("%s (%w)", classified.Message(), err)
	}
	return err
}
