package reporter

import (
	"github.com/ethereum/go-ethereum/log"
)

// LogReporter writes run progress to a logger: one line per finished test and
// a summary line at the end.
type LogReporter struct {
	log log.Logger
}

// NewLogReporter creates a LogReporter that writes to logger.
func NewLogReporter(logger log.Logger) *LogReporter {
	return &LogReporter{log: logger.New("component", "run")}
}

func (r *LogReporter) Started() {
	r.log.Info("Test run started")
}

func (r *LogReporter) TestStarted(test Test) {
	r.log.Debug("Test started", "test", test.Name)
}

func (r *LogReporter) TestFinished(result TestResult) {
	if result.Passed() {
		r.log.Info("Test passed", "test", result.Test.Name)
		return
	}
	r.log.Warn("Test failed", "test", result.Test.Name, "err", result.Error)
}

func (r *LogReporter) Finished(results []TestResult) {
	passed, failed := Partition(results)
	if len(failed) > 0 {
		r.log.Error("Test run failed", "total", len(results), "passed", len(passed), "failed", len(failed))
		return
	}
	r.log.Info("Test run passed", "total", len(results))
}
