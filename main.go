package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	cfg := LoadConfig()

	rootCmd := &cobra.Command{
		Use:          "crossword",
		Short:        "Study crossword generator and play server",
		Version:      Version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(cfg))
	rootCmd.AddCommand(generateCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)
			slog.SetDefault(logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var source ConceptSource
			if cfg.GCPProject != "" {
				gemini, err := NewGeminiClient(ctx, cfg.GCPProject, cfg.GCPRegion, cfg.GeminiModel, cfg.MaxGridSize)
				if err != nil {
					return fmt.Errorf("init gemini: %w", err)
				}
				defer gemini.Close()
				source = gemini
				logger.Info("gemini client ready", "project", cfg.GCPProject, "model", gemini.modelName)
			} else {
				logger.Warn("GCP_PROJECT_ID not set, topic-based generation disabled")
			}

			srv := NewServer(NewStore(), source, cfg.Generator(logger), logger)
			httpSrv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server started", "addr", "http://localhost:"+cfg.Port,
				"max_size", cfg.MaxGridSize, "max_concepts", cfg.MaxConcepts)
			return httpSrv.ListenAndServe()
		},
	}

	cmd.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "Port to listen on")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	return cmd
}
