package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/geofield/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// After the first signal, restore default handling so a second one kills the process.
	context.AfterFunc(ctx, stop)

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "geofield:", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "geofield",
		Usage:   "derive a combined geo field from lat/lon in a JSON-lines update stream",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "read update commands, enrich added documents, write the accepted stream",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "config file (.yaml, .yml or .toml); default config/<env>.yaml if present",
						EnvVars: []string{"GEOFIELD_CONFIG"},
					},
					&cli.StringFlag{
						Name:    "env",
						Usage:   "environment: local, dev, docker or prod",
						EnvVars: []string{"ENV"},
						Value:   "local",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "input file, - for stdin",
						Value:   "-",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file, - for stdout",
						Value:   "-",
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "serve /metrics and /health on this address (overrides metrics.addr)",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "debug, info, warn or error (overrides logging.level)",
					},
				},
				Action: runAction,
			},
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintf(c.App.Writer, "geofield %s (commit %s, built %s)\n",
						version.Version, version.Commit, version.Date)
					return err
				},
			},
		},
	}
}

func runAction(c *cli.Context) error {
	opts := runOptions{
		configPath:  c.String("config"),
		env:         c.String("env"),
		input:       c.String("input"),
		output:      c.String("output"),
		metricsAddr: c.String("metrics-addr"),
		logLevel:    c.String("log-level"),
	}
	return runIngest(c.Context, opts, c.App.Reader, c.App.Writer)
}
