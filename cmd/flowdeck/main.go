// Package main provides the FlowDeck dashboard server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/installer"
	"github.com/flowdeck/flowdeck/pkg/log"
	"github.com/flowdeck/flowdeck/pkg/otelhelper"
	"github.com/flowdeck/flowdeck/pkg/supabase"
	"github.com/flowdeck/flowdeck/pkg/web"
)

const defaultPort = 8080

func main() {
	// Local development keeps credentials in a .env file.
	_ = godotenv.Load()

	logger := log.WithModule("server")

	cmd := &cli.Command{
		Name:                  "flowdeck",
		Usage:                 "Workflow automation dashboard",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the dashboard server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "supabase-url",
				Usage:    "Base URL of the hosted auth/database service",
				Required: true,
				Sources:  cli.EnvVars("SUPABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "supabase-anon-key",
				Usage:    "Anonymous API key of the hosted auth/database service",
				Required: true,
				Sources:  cli.EnvVars("SUPABASE_ANON_KEY"),
			},
			&cli.StringFlag{
				Name:     "supabase-jwt-secret",
				Usage:    "Secret used to verify access tokens issued by the service",
				Required: true,
				Sources:  cli.EnvVars("SUPABASE_JWT_SECRET"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the automation backend handling template installs",
				Sources: cli.EnvVars("API_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces via OTLP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing FlowDeck dashboard")

			if err := catalog.Validate(); err != nil {
				return fmt.Errorf("template catalog: %w", err)
			}

			if command.Bool("tracing") {
				if _, err := otelhelper.NewTracer(ctx, "flowdeck"); err != nil {
					logger.WarnContext(ctx, "Failed to initialize tracing", "error", err)
				}
			}

			client := supabase.New(
				command.String("supabase-url"),
				command.String("supabase-anon-key"),
				logger,
			)

			defer func() {
				if err := client.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close service client", "error", err)
				}
			}()

			installerClient := installer.New(command.String("api-url"), logger)
			if !installerClient.Configured() {
				logger.WarnContext(ctx, "API_URL is not set; template installs will fail")
			}

			server := web.NewServer(
				logger,
				client,
				installerClient,
				[]byte(command.String("supabase-jwt-secret")),
			)

			err := server.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start dashboard server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
