// Package wpt runs testharness.js-style tests in a JavaScript runtime and
// reports their results through a reporter.Reporter.
package wpt

import (
	"github.com/dop251/goja"
	"github.com/ethereum/go-ethereum/log"

	"github.com/chrisuehlinger/beaterhtml/js"
	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// HarnessStatus represents the overall harness status.
type HarnessStatus struct {
	Status  int // 0=OK, 1=ERROR, 2=TIMEOUT
	Message string
}

// Status constants for individual tests
const (
	TestStatusPass               = 0
	TestStatusFail               = 1
	TestStatusTimeout            = 2
	TestStatusNotRun             = 3
	TestStatusPreconditionFailed = 4
)

// Harness status constants
const (
	HarnessStatusOK      = 0
	HarnessStatusError   = 1
	HarnessStatusTimeout = 2
)

// Binding forwards testharness.js callbacks to a reporter.Reporter.
//
// start_callback becomes Started, every result_callback becomes a
// TestStarted/TestFinished pair and the first completion_callback becomes
// Finished. Later completion callbacks are ignored.
type Binding struct {
	runtime  *js.Runtime
	reporter reporter.Reporter
	name     string
	log      log.Logger

	started   bool
	completed bool
	reported  map[string]int
	results   []reporter.TestResult
	status    HarnessStatus
	done      chan struct{}
}

// NewBinding creates a binding that reports the harness run called name to r.
// The name labels the synthetic failure added when the harness itself errors.
func NewBinding(runtime *js.Runtime, r reporter.Reporter, name string) *Binding {
	return &Binding{
		runtime:  runtime,
		reporter: r,
		name:     name,
		log:      runtime.Logger().New("harness", name),
		reported: make(map[string]int),
		status:   HarnessStatus{Status: HarnessStatusOK},
		done:     make(chan struct{}),
	}
}

// Setup installs the global callbacks. It must run before the harness script.
func (b *Binding) Setup() {
	vm := b.runtime.VM()

	vm.Set("start_callback", func(goja.FunctionCall) goja.Value {
		b.ensureStarted()
		return goja.Undefined()
	})

	vm.Set("result_callback", func(call goja.FunctionCall) goja.Value {
		b.handleResult(call.Argument(0))
		return goja.Undefined()
	})

	vm.Set("completion_callback", func(call goja.FunctionCall) goja.Value {
		b.handleCompletion(call.Argument(0), call.Argument(1))
		return goja.Undefined()
	})
}

func (b *Binding) ensureStarted() {
	if b.started {
		return
	}
	b.started = true
	b.log.Debug("Harness started")
	b.reporter.Started()
}

func (b *Binding) handleResult(v goja.Value) {
	if b.completed || isMissing(v) {
		return
	}
	b.ensureStarted()

	result := readHarnessResult(b.runtime.VM(), v)
	b.reported[result.Test.Name]++
	b.results = append(b.results, result)

	b.log.Trace("Harness result", "test", result.Test.Name, "passed", result.Passed())
	b.reporter.TestStarted(result.Test)
	b.reporter.TestFinished(result)
}

func (b *Binding) handleCompletion(testsVal, statusVal goja.Value) {
	if b.completed {
		return
	}
	b.completed = true
	b.ensureStarted()

	vm := b.runtime.VM()

	// The completion list is authoritative. Tests in it that never went through
	// result_callback are reported before Finished.
	if !isMissing(testsVal) {
		tests := testsVal.ToObject(vm)
		if !isMissing(tests.Get("length")) {
			var results []reporter.TestResult
			seen := make(map[string]int)
			for i, n := 0, js.ArrayLength(tests); i < n; i++ {
				item := tests.Get(vm.ToValue(i).String())
				if isMissing(item) {
					continue
				}
				result := readHarnessResult(vm, item)
				seen[result.Test.Name]++
				if seen[result.Test.Name] > b.reported[result.Test.Name] {
					b.reporter.TestStarted(result.Test)
					b.reporter.TestFinished(result)
				}
				results = append(results, result)
			}
			b.results = results
		}
	}

	if !isMissing(statusVal) {
		statusObj := statusVal.ToObject(vm)
		if status := statusObj.Get("status"); !isMissing(status) {
			b.status.Status = int(status.ToInteger())
		}
		if msg := statusObj.Get("message"); !isMissing(msg) {
			b.status.Message = msg.String()
		}
	}

	if b.status.Status != HarnessStatusOK {
		b.results = append(b.results, reporter.TestResult{
			Test: reporter.Test{Name: b.name},
			Error: &reporter.ErrorDescriptor{
				Name:    HarnessStatusString(b.status.Status),
				Message: b.status.Message,
			},
		})
	}

	b.log.Debug("Harness completed", "status", HarnessStatusString(b.status.Status), "tests", len(b.results))
	b.reporter.Finished(b.results)
	close(b.done)
}

// readHarnessResult converts a testharness Test object into a TestResult.
func readHarnessResult(vm *goja.Runtime, v goja.Value) reporter.TestResult {
	obj := v.ToObject(vm)

	var name, message string
	status := TestStatusPass
	if n := obj.Get("name"); !isMissing(n) {
		name = n.String()
	}
	if s := obj.Get("status"); !isMissing(s) {
		status = int(s.ToInteger())
	}
	if m := obj.Get("message"); !isMissing(m) {
		message = m.String()
	}
	return ToTestResult(name, status, message)
}

// ToTestResult maps a testharness status to a TestResult. Only PASS is a
// success; any other status becomes an error named after the status.
func ToTestResult(name string, status int, message string) reporter.TestResult {
	result := reporter.TestResult{Test: reporter.Test{Name: name}}
	if status != TestStatusPass {
		result.Error = &reporter.ErrorDescriptor{Name: StatusString(status), Message: message}
	}
	return result
}

func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// Results returns the results reported so far, or the final list once completed.
func (b *Binding) Results() []reporter.TestResult {
	return b.results
}

// HarnessStatus returns the overall harness status.
func (b *Binding) HarnessStatus() HarnessStatus {
	return b.status
}

// IsCompleted returns true if the completion callback has been invoked.
func (b *Binding) IsCompleted() bool {
	return b.completed
}

// Done is closed when the completion callback has been handled.
func (b *Binding) Done() <-chan struct{} {
	return b.done
}

// Summary returns pass/fail/timeout/notrun counts.
func (b *Binding) Summary() (passed, failed, timeout, notrun int) {
	for _, result := range b.results {
		if result.Passed() {
			passed++
			continue
		}
		switch result.Error.Name {
		case "TIMEOUT":
			timeout++
		case "NOTRUN":
			notrun++
		default:
			failed++
		}
	}
	return
}

// StatusString returns a human-readable status string.
func StatusString(status int) string {
	switch status {
	case TestStatusPass:
		return "PASS"
	case TestStatusFail:
		return "FAIL"
	case TestStatusTimeout:
		return "TIMEOUT"
	case TestStatusNotRun:
		return "NOTRUN"
	case TestStatusPreconditionFailed:
		return "PRECONDITION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// HarnessStatusString returns a human-readable harness status string.
func HarnessStatusString(status int) string {
	switch status {
	case HarnessStatusOK:
		return "OK"
	case HarnessStatusError:
		return "ERROR"
	case HarnessStatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
