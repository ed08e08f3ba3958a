// Command beaterhtml renders test results as an HTML report page.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

const envVarPrefix = "BEATERHTML"

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to a .beater.yaml file (default: ./.beater.yaml, then the user config dir)",
		EnvVars: []string{envVarPrefix + "_CONFIG"},
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level: trace, debug, info, warn, error or crit (overrides log_level)",
		EnvVars: []string{envVarPrefix + "_LOG_LEVEL"},
	}
	OutFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Write the page to this file instead of stdout",
	}
	FormatFlag = &cli.StringFlag{
		Name:  "format",
		Value: "auto",
		Usage: "Results format: auto, json, yaml or gotest",
	}
	TimeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "How long to wait for asynchronous tests (overrides script_timeout)",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "beaterhtml"
	app.Usage = "Render test results as a color-coded HTML report"
	app.Flags = []cli.Flag{ConfigFlag, LogLevelFlag}
	app.Commands = []*cli.Command{
		{
			Name:      "render",
			Usage:     "render recorded results (JSON, YAML or go test -json) to an HTML page",
			ArgsUsage: "<results-file|->",
			Flags:     []cli.Flag{FormatFlag, OutFlag},
			Action:    renderAction,
		},
		{
			Name:      "run",
			Usage:     "run testharness.js-style tests and render their results",
			ArgsUsage: "<test.js|test.html>...",
			Flags:     []cli.Flag{TimeoutFlag, OutFlag},
			Action:    runAction,
		},
		{
			Name:      "view",
			Usage:     "show a report page or a results file in a desktop window",
			ArgsUsage: "<report.html|results-file>",
			Flags:     []cli.Flag{FormatFlag},
			Action:    viewAction,
		},
	}
	return app
}

func main() {
	app := newApp()
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
			return
		}
		cli.HandleExitCoder(cli.Exit(err.Error(), exitCode(err)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}
