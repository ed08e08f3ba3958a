package wpt

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chrisuehlinger/beaterhtml/dom"
	"github.com/chrisuehlinger/beaterhtml/js"
	"github.com/chrisuehlinger/beaterhtml/reporter"
)

//go:embed harness.js
var harnessJS string

// HarnessJS returns the embedded testharness implementation.
func HarnessJS() string {
	return harnessJS
}

// DefaultTimeout bounds how long asynchronous tests may keep a run alive.
const DefaultTimeout = 10 * time.Second

// Script is one piece of test code, run in order with the others of a page.
type Script struct {
	Name string
	Code string
}

// Runner executes test scripts against the embedded harness.
type Runner struct {
	log     log.Logger
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used by the runner and by script consoles.
func WithLogger(logger log.Logger) Option {
	return func(r *Runner) {
		r.log = logger
	}
}

// WithTimeout sets how long to wait for asynchronous tests after the scripts
// have run. Tests still pending then are reported as TIMEOUT.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// NewRunner creates a new runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		log:     log.Root(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes scripts in a fresh runtime and reports every test to rep. An
// uncaught script error stops the page and completes the harness with ERROR.
// The returned error is non-nil only when the run itself could not finish,
// for example when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, name string, scripts []Script, rep reporter.Reporter) (HarnessStatus, error) {
	logger := r.log.New("page", name)
	rt := js.NewRuntime(logger)
	binding := NewBinding(rt, rep, name)
	binding.Setup()

	if err := rt.ExecuteScript(ctx, harnessJS, "testharness.js"); err != nil {
		return HarnessStatus{}, fmt.Errorf("loading harness: %w", err)
	}

	for _, script := range scripts {
		err := rt.ExecuteScript(ctx, script.Code, script.Name)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return HarnessStatus{}, ctx.Err()
		}
		logger.Warn("Script failed", "script", script.Name, "err", err)
		if _, err := rt.Call("__harness_error", err.Error()); err != nil {
			return HarnessStatus{}, fmt.Errorf("reporting script error: %w", err)
		}
		break
	}

	if _, err := rt.Call("__harness_loaded"); err != nil {
		return HarnessStatus{}, fmt.Errorf("completing harness: %w", err)
	}

	if !binding.IsCompleted() {
		if err := r.wait(ctx, rt, binding); err != nil {
			return HarnessStatus{}, err
		}
	}
	if !binding.IsCompleted() {
		logger.Warn("Harness timed out", "timeout", r.timeout)
		if _, err := rt.Call("__harness_timeout"); err != nil {
			return HarnessStatus{}, fmt.Errorf("timing out harness: %w", err)
		}
	}

	status := binding.HarnessStatus()
	passed, failed, timeout, notrun := binding.Summary()
	logger.Debug("Page finished", "status", HarnessStatusString(status.Status),
		"passed", passed, "failed", failed, "timeout", timeout, "notrun", notrun)
	return status, nil
}

// wait drives the event loop until the harness completes, the timeout expires
// or ctx is cancelled. Only the last case is an error.
func (r *Runner) wait(ctx context.Context, rt *js.Runtime, binding *Binding) error {
	loopCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	go func() {
		select {
		case <-binding.Done():
			cancel()
		case <-loopCtx.Done():
		}
	}()

	err := rt.RunEventLoop(loopCtx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// RunFile runs a test file. HTML pages have their inline scripts run in
// document order; any other file is run as a single script.
func (r *Runner) RunFile(ctx context.Context, path string, rep reporter.Reporter) (HarnessStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HarnessStatus{}, fmt.Errorf("reading test file: %w", err)
	}

	name := filepath.Base(path)
	scripts := []Script{{Name: name, Code: string(data)}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		scripts, err = ScriptsFromHTML(name, string(data))
		if err != nil {
			return HarnessStatus{}, err
		}
		if len(scripts) == 0 {
			r.log.Warn("Test page has no inline scripts", "file", path)
		}
	}
	return r.Run(ctx, name, scripts, rep)
}

// ScriptsFromHTML returns the inline scripts of an HTML page in document order.
// External scripts are skipped, since the harness is already built in.
func ScriptsFromHTML(name, content string) ([]Script, error) {
	doc, err := dom.ParseHTML(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	var scripts []Script
	for i, el := range doc.GetElementsByTagName("script") {
		if el.HasAttribute("src") {
			continue
		}
		if t := strings.ToLower(el.GetAttribute("type")); t != "" && !strings.Contains(t, "javascript") {
			continue
		}
		scripts = append(scripts, Script{
			Name: fmt.Sprintf("%s#script%d", name, i),
			Code: el.TextContent(),
		})
	}
	return scripts, nil
}
