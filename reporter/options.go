package reporter

import (
	"github.com/ethereum/go-ethereum/log"
)

const (
	// DefaultContainerID is the id of the list element entries are appended to.
	DefaultContainerID = "beater"
	// DefaultSuccessColor is the color of passing entries and a green summary.
	DefaultSuccessColor = "#00ff00"
	// DefaultFailureColor is the color of failing entries and a red summary.
	DefaultFailureColor = "#ff0000"
)

// Option configures an HTMLReporter.
type Option func(*HTMLReporter)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(r *HTMLReporter) {
		r.log = logger
	}
}

// WithContainerID sets the id of the container list. Empty values are ignored.
func WithContainerID(id string) Option {
	return func(r *HTMLReporter) {
		if id != "" {
			r.containerID = id
		}
	}
}

// WithColors sets the success and failure colors. Empty values keep the defaults.
func WithColors(success, failure string) Option {
	return func(r *HTMLReporter) {
		if success != "" {
			r.successColor = success
		}
		if failure != "" {
			r.failureColor = failure
		}
	}
}
