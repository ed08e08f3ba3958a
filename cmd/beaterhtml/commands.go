package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/app"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/chrisuehlinger/beaterhtml/config"
	"github.com/chrisuehlinger/beaterhtml/dom"
	"github.com/chrisuehlinger/beaterhtml/driver"
	"github.com/chrisuehlinger/beaterhtml/reporter"
	"github.com/chrisuehlinger/beaterhtml/ui"
	"github.com/chrisuehlinger/beaterhtml/wpt"
)

// setup loads the configuration and installs the default log handler.
func setup(c *cli.Context) (*config.Config, log.Logger, error) {
	cfg, err := config.Load(c.String(ConfigFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	if lvl := c.String(LogLevelFlag.Name); lvl != "" {
		if _, err := config.ParseLevel(lvl); err != nil {
			return nil, nil, err
		}
		cfg.LogLevel = lvl
	}

	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(f.Fd())
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(w, cfg.Level(), useColor)))

	logger := log.Root()
	logger.Debug("Loaded config", "container", cfg.ContainerID, "title", cfg.Title, "timeout", cfg.ScriptTimeout)
	return cfg, logger, nil
}

// newPage creates the report page and the reporter chain that writes into it.
func newPage(cfg *config.Config, logger log.Logger) (*reporter.HTMLReporter, reporter.Reporter) {
	html := reporter.NewWithDocument(dom.NewHTMLDocument(cfg.Title), cfg.ReporterOptions(logger)...)
	return html, reporter.Multi(html, reporter.NewLogReporter(logger))
}

func renderAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("render takes exactly one results file, got %d arguments", c.NArg())
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	format, err := driver.ParseFormat(c.String(FormatFlag.Name))
	if err != nil {
		return err
	}

	in, err := openInput(c, c.Args().First())
	if err != nil {
		return err
	}
	defer in.Close()

	html, rep := newPage(cfg, logger)
	results, err := report(c.Context, in, format, rep)
	if err != nil {
		return err
	}
	if err := writePage(c, html.Document()); err != nil {
		return err
	}
	return outcome(results)
}

// report feeds the results read from in to rep and returns them.
func report(ctx context.Context, in io.Reader, format driver.Format, rep reporter.Reporter) ([]reporter.TestResult, error) {
	if format == driver.FormatAuto {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading results: %w", err)
		}
		format = driver.Detect(data)
		in = bytes.NewReader(data)
	}

	if format == driver.FormatGoTest {
		return driver.StreamGoTest(ctx, in, rep)
	}
	results, err := driver.DecodeResults(in, format)
	if err != nil {
		return nil, err
	}
	if err := driver.Replay(ctx, rep, results); err != nil {
		return nil, err
	}
	return results, nil
}

func runAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("run needs at least one test file")
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	timeout := cfg.ScriptTimeout
	if c.IsSet(TimeoutFlag.Name) {
		timeout = c.Duration(TimeoutFlag.Name)
	}

	runner := wpt.NewRunner(wpt.WithLogger(logger), wpt.WithTimeout(timeout))
	html, rep := newPage(cfg, logger)
	var rec reporter.Recorder
	rep = reporter.Multi(rep, &rec)

	for _, path := range c.Args().Slice() {
		status, err := runner.RunFile(c.Context, path, rep)
		if err != nil {
			return fmt.Errorf("running %s: %w", path, err)
		}
		logger.Info("Ran test file", "file", path, "status", wpt.HarnessStatusString(status.Status))
	}

	if err := writePage(c, html.Document()); err != nil {
		return err
	}

	var results []reporter.TestResult
	for _, e := range rec.Events() {
		if e.Kind == "finished" {
			results = append(results, e.Results...)
		}
	}
	return outcome(results)
}

func viewAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("view takes exactly one file, got %d arguments", c.NArg())
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	format, err := driver.ParseFormat(c.String(FormatFlag.Name))
	if err != nil {
		return err
	}

	path := c.Args().First()
	load := func() (*dom.Document, error) {
		return loadDocument(c.Context, cfg, logger, path, format)
	}

	a := app.New()
	ui.NewReportViewer(a, load, cfg.ContainerID, logger).ShowAndRun()
	return nil
}

// loadDocument reads a report page as is, or renders a results file into a
// fresh page.
func loadDocument(ctx context.Context, cfg *config.Config, logger log.Logger, path string, format driver.Format) (*dom.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return dom.ParseHTML(string(data))
	}

	html, _ := newPage(cfg, logger)
	if _, err := report(ctx, bytes.NewReader(data), format, html); err != nil {
		return nil, err
	}
	return html.Document(), nil
}

// openInput opens a results file, with "-" meaning the app's reader.
func openInput(c *cli.Context, path string) (io.ReadCloser, error) {
	if path == "-" {
		r := c.App.Reader
		if r == nil {
			r = os.Stdin
		}
		return io.NopCloser(r), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results: %w", err)
	}
	return f, nil
}

// writePage writes the page to --out, or to the app's writer.
func writePage(c *cli.Context, doc *dom.Document) error {
	page := doc.OuterHTML() + "\n"

	if out := c.String(OutFlag.Name); out != "" {
		if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
			return fmt.Errorf("writing page: %w", err)
		}
		return nil
	}
	w := c.App.Writer
	if w == nil {
		w = os.Stdout
	}
	if _, err := io.WriteString(w, page); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

func outcome(results []reporter.TestResult) error {
	_, failed := reporter.Partition(results)
	if len(failed) > 0 {
		return testsFailed(len(failed), len(results))
	}
	return nil
}
