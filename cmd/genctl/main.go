// Package main implements genctl, a command line client for one-shot
// content generation against the same pipeline the server uses. It is
// aimed at trying prompts and tuning retry settings without standing up
// the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olustayhired/postflow/internal/config"
	"github.com/olustayhired/postflow/internal/generation"
	"github.com/olustayhired/postflow/internal/platform/gemini"
	"github.com/olustayhired/postflow/internal/platform/llmproxy"
	"github.com/olustayhired/postflow/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var asJSON bool

	rootCmd := &cobra.Command{
		Use:   "genctl",
		Short: "Generate social media content from the command line",
		Long: "genctl runs generation requests through the full client pipeline\n" +
			"(cache, pacing, retries) using the same configuration as the server.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the full response as JSON")

	rootCmd.AddCommand(
		newPromptCmd(&asJSON),
		newHookCmd(&asJSON),
		newLinkedInCmd(&asJSON),
		newRewriteCmd(&asJSON),
	)
	return rootCmd
}

func newPromptCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt [text]",
		Short: "Run a raw prompt through the generation pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, *asJSON)
		},
	}
}

func newHookCmd(asJSON *bool) *cobra.Command {
	var req generation.Request

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Generate a short-form hook post",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.GenerateHookPost(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, *asJSON)
		},
	}
	addRequestFlags(cmd, &req)
	return cmd
}

func newLinkedInCmd(asJSON *bool) *cobra.Command {
	var req generation.Request

	cmd := &cobra.Command{
		Use:   "linkedin",
		Short: "Generate a long-form LinkedIn post",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.GenerateLinkedInPost(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, *asJSON)
		},
	}
	addRequestFlags(cmd, &req)
	cmd.Flags().IntVar(&req.TargetLength, "length", 0, "minimum length of the generated post in characters")
	return cmd
}

func newRewriteCmd(asJSON *bool) *cobra.Command {
	var targetLength int

	cmd := &cobra.Command{
		Use:   "rewrite [content]",
		Short: "Expand existing content into a LinkedIn post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.RewriteForLinkedIn(cmd.Context(), strings.Join(args, " "), targetLength)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, *asJSON)
		},
	}
	cmd.Flags().IntVar(&targetLength, "length", 0, "minimum length of the rewritten post in characters")
	return cmd
}

func addRequestFlags(cmd *cobra.Command, req *generation.Request) {
	cmd.Flags().StringVar(&req.Theme, "theme", "", "overall theme for the post")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic the post is about")
	cmd.Flags().StringVar(&req.TargetAudience, "audience", "", "audience the post addresses")
	cmd.Flags().StringVar(&req.SourceContent, "content", "", "source material to draw from")
	cmd.Flags().StringSliceVar(&req.ExcludeTones, "exclude-tone", nil, "tones to exclude from selection")
	_ = cmd.MarkFlagRequired("topic")
}

// buildClient wires a generation client from the server's configuration.
func buildClient(ctx context.Context) (*generation.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	var transport generation.Transport
	switch cfg.Generation.Backend {
	case "proxy":
		transport, err = llmproxy.NewTransport(cfg.Generation, log)
	case "gemini":
		transport, err = gemini.NewTransport(ctx, cfg.Generation, log)
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Generation.Backend)
	}
	if err != nil {
		return nil, err
	}

	return generation.NewClient(transport, generation.ClientConfig{
		MaxRetries:      cfg.Generation.MaxRetries,
		InitialBackoff:  time.Duration(cfg.Generation.InitialBackoffMs) * time.Millisecond,
		BackoffCeiling:  time.Duration(cfg.Generation.BackoffCeilingMs) * time.Millisecond,
		MinCallInterval: time.Duration(cfg.Generation.MinCallIntervalMs) * time.Millisecond,
		CacheTTL:        time.Duration(cfg.Generation.CacheTTLMinutes) * time.Minute,
		CacheMaxEntries: cfg.Generation.CacheMaxEntries,
	}, log)
}

func printResponse(cmd *cobra.Command, resp *generation.Response, asJSON bool) error {
	if asJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	}

	if resp.Failed() {
		return fmt.Errorf("generation failed: %s", resp.Err)
	}
	cmd.Println(resp.Text)
	return nil
}
