package main

import (
	"context"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/Klomgor/open-meteo/internal/httpapi"
	"github.com/Klomgor/open-meteo/internal/openmeteo/domains"
	"github.com/Klomgor/open-meteo/internal/openmeteo/logging"
)

func main() {
	app := &cli.App{
		Name:      "open-meteo-core",
		UsageText: "open-meteo-core [global options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "http",
				Value:   false,
				Usage:   "Start the HTTP demo server",
				EnvVars: []string{"START_HTTP"},
			},
			&cli.StringFlag{
				Name:    "listen",
				Value:   ":8081",
				Usage:   "HTTP listen address",
				EnvVars: []string{"LISTEN_ADDR"},
			},
			&cli.StringFlag{
				Name:    "data-path",
				Value:   "data",
				Usage:   "Root directory holding every domain's archive subdirectory",
				EnvVars: []string{"DATA_PATH"},
			},
			&cli.StringSliceFlag{
				Name:    "domains",
				Usage:   "Domain names to register (repeatable, or comma-separated); default registers every known domain",
				EnvVars: []string{"DOMAINS"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Value:   false,
				Usage:   "Enable debug-level logging",
				EnvVars: []string{"DEBUG"},
			},
			&cli.BoolFlag{
				Name:    "json-logs",
				Value:   false,
				Usage:   "Emit structured JSON logs instead of the console writer",
				EnvVars: []string{"JSON_LOGS"},
			},
		},
		Action: func(cCtx *cli.Context) error {
			logging.SetDebug(cCtx.Bool("debug"))
			if cCtx.Bool("json-logs") {
				logging.UseJSON()
			}

			registry, err := domains.RegisterAll(context.Background(), cCtx.String("data-path"), cCtx.StringSlice("domains"))
			if err != nil {
				return err
			}

			var wg sync.WaitGroup
			if cCtx.Bool("http") {
				wg.Add(1)
				go func() {
					defer wg.Done()
					srv := httpapi.New(registry)
					if err := srv.Listen(cCtx.String("listen")); err != nil {
						logging.Log.Fatal().Err(err).Msg("HTTP server exited")
					}
				}()
			}

			wg.Wait()
			return registry.Shutdown(context.Background())
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Log.Error().Err(err).Msg("error")
		os.Exit(1)
	}
}
