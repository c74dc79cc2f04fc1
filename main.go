package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse/internal/apiclient"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/events"
	"github.com/reviewpulse/reviewpulse/internal/feedback"
	"github.com/reviewpulse/reviewpulse/internal/history"
	"github.com/reviewpulse/reviewpulse/internal/insight"
	"github.com/reviewpulse/reviewpulse/internal/mcpserver"
	"github.com/reviewpulse/reviewpulse/internal/store"
	"github.com/reviewpulse/reviewpulse/internal/webserver"
)

var (
	cfgPath   string
	serverURL string
)

func main() {
	godotenv.Load()

	root := &cobra.Command{
		Use:           "reviewpulse",
		Short:         "AI-assisted customer feedback collection and analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default reviewpulse.yaml if present)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			svc, broker, err := buildService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return webserver.New(svc, broker, log, cfg.Port).ListenAndServe()
		},
	}

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP stdio server exposing feedback tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			svc, _, err := buildService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return server.ServeStdio(mcpserver.New(svc))
		},
	}

	var (
		submitName   string
		submitRating int
	)
	submitCmd := &cobra.Command{
		Use:   "submit <review text>",
		Short: "Submit feedback to a running server and print the AI reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := apiclient.New(serverURL).Submit(submitName, submitRating, args[0])
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}
	submitCmd.Flags().StringVar(&submitName, "name", "", "display name (optional)")
	submitCmd.Flags().IntVar(&submitRating, "rating", 5, "rating from 1 to 5")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate feedback statistics from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := apiclient.New(serverURL).Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Total feedback:  %d\n", stats.Total)
			fmt.Printf("Average rating:  %.2f / 5\n", stats.AverageRating)
			if stats.LastFeedbackAt != "" {
				fmt.Printf("Last feedback:   %s\n", stats.LastFeedbackAt)
			}
			for r := 1; r <= 5; r++ {
				fmt.Printf("  %d stars: %d\n", r, stats.Histogram[r])
			}
			return nil
		},
	}

	insightCmd := &cobra.Command{
		Use:       "insight <summary|actions>",
		Short:     "Generate an AI insight from a running server",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"summary", "actions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := apiclient.New(serverURL).GenerateInsight(args[0])
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	for _, c := range []*cobra.Command{submitCmd, statsCmd, insightCmd} {
		c.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the reviewpulse server")
	}

	root.AddCommand(serveCmd, mcpCmd, submitCmd, statsCmd, insightCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func buildService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*feedback.Service, *events.Broker, error) {
	var collab insight.Collaborator
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := insight.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, nil, err
		}
		collab = c
	default:
		collab = insight.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model, cfg.Temperature)
	}

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return nil, nil, err
	}

	broker := events.NewBroker()
	svc := feedback.NewService(
		store.New(cfg.DataFile),
		insight.NewGenerator(collab, log),
		hist,
		broker,
		log,
	)
	return svc, broker, nil
}
