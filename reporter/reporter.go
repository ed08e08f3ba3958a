// Package reporter turns test-run lifecycle events into a color-coded list of
// entries in an HTML document.
//
// A driver calls the Reporter methods in a fixed order for a single run:
//
//	Started()
//	TestStarted(test) / TestFinished(result)   // once per test
//	Finished(results)
//
// HTMLReporter writes passing tests as they finish and defers failures to
// Finished, where each failure gets its own entry followed by one summary entry.
package reporter

import "fmt"

// Reporter receives the lifecycle callbacks of a single test run.
type Reporter interface {
	// Started signals the beginning of the run.
	Started()
	// TestStarted signals that test is about to run.
	TestStarted(test Test)
	// TestFinished delivers the outcome of one test.
	TestFinished(result TestResult)
	// Finished delivers every result of the run in execution order.
	Finished(results []TestResult)
}

// Test identifies a single test case.
type Test struct {
	Name string `json:"name" yaml:"name"`
}

// TestResult is the outcome of running one Test. A nil Error means the test passed.
type TestResult struct {
	Test  Test             `json:"test" yaml:"test"`
	Error *ErrorDescriptor `json:"error,omitempty" yaml:"error,omitempty"`
}

// Passed reports whether the test finished without an error.
func (r TestResult) Passed() bool {
	return r.Error == nil
}

// ErrorDescriptor describes why a test failed. It is supplied by the test runner
// and only ever displayed.
type ErrorDescriptor struct {
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
}

func (e *ErrorDescriptor) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Partition splits results into passed and failed, keeping the relative order
// of each group.
func Partition(results []TestResult) (passed, failed []TestResult) {
	for _, r := range results {
		if r.Passed() {
			passed = append(passed, r)
		} else {
			failed = append(failed, r)
		}
	}
	return passed, failed
}
