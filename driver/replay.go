// Package driver feeds recorded or streamed test results to a reporter.Reporter
// in the order a live test runner would.
package driver

import (
	"context"

	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// Replay drives r through one run over results: Started, then TestStarted and
// TestFinished for each result, then Finished with all of them. ctx is checked
// before every test; when it is done Replay returns ctx.Err() and Finished is
// not called.
func Replay(ctx context.Context, r reporter.Reporter, results []reporter.TestResult) error {
	r.Started()
	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.TestStarted(result.Test)
		r.TestFinished(result)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Finished(results)
	return nil
}
