package driver

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// TestEvent is a single event from go test -json output. Build events carry
// ImportPath instead of Package.
type TestEvent struct {
	Time        time.Time `json:"Time"`
	Action      string    `json:"Action"`
	Package     string    `json:"Package"`
	ImportPath  string    `json:"ImportPath"`
	Test        string    `json:"Test"`
	Elapsed     float64   `json:"Elapsed"`
	Output      string    `json:"Output"`
	FailedBuild string    `json:"FailedBuild"`
}

// buildPackage returns the package a build event belongs to. Test variants
// are reported as "pkg [pkg.test]".
func buildPackage(importPath string) string {
	if i := strings.Index(importPath, " ["); i >= 0 {
		return importPath[:i]
	}
	return importPath
}

// goTestAggregator turns go test events into one result per finished test.
// A package that fails without any failing test, such as a build failure,
// becomes a result named after the package.
type goTestAggregator struct {
	output     map[string]*strings.Builder
	failedTest map[string]bool
	results    []reporter.TestResult
}

func newGoTestAggregator() *goTestAggregator {
	return &goTestAggregator{
		output:     make(map[string]*strings.Builder),
		failedTest: make(map[string]bool),
	}
}

func eventKey(pkg, test string) string {
	return pkg + "\x00" + test
}

// scan reads events from r. fn, when set, is called for each event that
// starts or finishes a test, with the result for finishing events.
func (a *goTestAggregator) scan(r io.Reader, fn func(event TestEvent, result *reporter.TestResult)) error {
	return scanLines(r, func(line []byte) {
		var event TestEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return // Skip malformed lines
		}
		result, notify := a.process(event)
		if notify && fn != nil {
			fn(event, result)
		}
	})
}

// process applies one event. It reports whether the event started or
// finished a test and, for finishing events, the result.
func (a *goTestAggregator) process(event TestEvent) (*reporter.TestResult, bool) {
	key := eventKey(event.Package, event.Test)

	switch event.Action {
	case "run":
		return nil, event.Test != ""

	case "output":
		a.capture(key, event.Output)
		return nil, false

	case "build-output":
		// Compiler output precedes the package's own events and is shown
		// with the package failure.
		a.capture(eventKey(buildPackage(event.ImportPath), ""), event.Output)
		return nil, false

	case "pass", "skip":
		if event.Test == "" {
			return nil, false
		}
		delete(a.output, key)
		return a.add(reporter.TestResult{Test: reporter.Test{Name: event.Test}}), true

	case "fail":
		if event.Test == "" {
			if a.failedTest[event.Package] {
				return nil, false
			}
			return a.add(failure(event.Package, a.take(key))), true
		}
		a.failedTest[event.Package] = true
		return a.add(failure(event.Test, a.take(key))), true
	}
	return nil, false
}

func (a *goTestAggregator) capture(key, output string) {
	buf, ok := a.output[key]
	if !ok {
		buf = &strings.Builder{}
		a.output[key] = buf
	}
	buf.WriteString(output)
}

func (a *goTestAggregator) add(result reporter.TestResult) *reporter.TestResult {
	a.results = append(a.results, result)
	return &a.results[len(a.results)-1]
}

// take returns and forgets the output captured for key, minus the status
// lines go test prints around it.
func (a *goTestAggregator) take(key string) string {
	buf, ok := a.output[key]
	if !ok {
		return ""
	}
	delete(a.output, key)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "=== ") || strings.HasPrefix(trimmed, "--- FAIL") ||
			trimmed == "FAIL" || strings.HasPrefix(trimmed, "FAIL\t") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n")
}

func failure(name, output string) reporter.TestResult {
	return reporter.TestResult{
		Test:  reporter.Test{Name: name},
		Error: &reporter.ErrorDescriptor{Name: "FAIL", Message: output},
	}
}

// StreamGoTest reports a go test -json stream to rep while it is read: "run"
// events become TestStarted and pass, fail or skip events become
// TestFinished. Finished is called once r is exhausted. Malformed lines are
// skipped. When ctx is done the stream is abandoned without calling Finished.
func StreamGoTest(ctx context.Context, r io.Reader, rep reporter.Reporter) ([]reporter.TestResult, error) {
	agg := newGoTestAggregator()
	rep.Started()

	err := agg.scan(&ctxReader{ctx: ctx, r: r}, func(event TestEvent, result *reporter.TestResult) {
		switch {
		case result == nil:
			rep.TestStarted(reporter.Test{Name: event.Test})
		case event.Test == "":
			// Package failures have no run event of their own.
			rep.TestStarted(result.Test)
			rep.TestFinished(*result)
		default:
			rep.TestFinished(*result)
		}
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return agg.results, ctxErr
	}
	if err != nil {
		return agg.results, err
	}

	rep.Finished(agg.results)
	return agg.results, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
