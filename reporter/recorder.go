package reporter

import "sync"

// Event is one callback received by a Recorder.
type Event struct {
	Kind    string // started, testStarted, testFinished or finished
	Test    Test
	Result  TestResult
	Results []TestResult
}

// Recorder is a Reporter that keeps every callback it receives. It is safe
// for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Started() {
	r.add(Event{Kind: "started"})
}

func (r *Recorder) TestStarted(test Test) {
	r.add(Event{Kind: "testStarted", Test: test})
}

func (r *Recorder) TestFinished(result TestResult) {
	r.add(Event{Kind: "testFinished", Test: result.Test, Result: result})
}

func (r *Recorder) Finished(results []TestResult) {
	r.add(Event{Kind: "finished", Results: results})
}

// Events returns a copy of the recorded callbacks in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kind of every recorded callback in arrival order.
func (r *Recorder) Kinds() []string {
	events := r.Events()
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}
