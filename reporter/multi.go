package reporter

// multi fans every callback out to a list of reporters in order.
type multi []Reporter

// Multi returns a Reporter that forwards each callback to every reporter in
// rs, in the order given.
func Multi(rs ...Reporter) Reporter {
	return multi(rs)
}

func (m multi) Started() {
	for _, r := range m {
		r.Started()
	}
}

func (m multi) TestStarted(test Test) {
	for _, r := range m {
		r.TestStarted(test)
	}
}

func (m multi) TestFinished(result TestResult) {
	for _, r := range m {
		r.TestFinished(result)
	}
}

func (m multi) Finished(results []TestResult) {
	for _, r := range m {
		r.Finished(results)
	}
}
