package main

import (
	"errors"
	"fmt"
)

// errTestsFailed is returned when the rendered run contains a failure.
var errTestsFailed = errors.New("tests failed")

// testsFailed reports n failed tests out of total. It unwraps to errTestsFailed.
func testsFailed(n, total int) error {
	return fmt.Errorf("%d of %d tests failed: %w", n, total, errTestsFailed)
}

// exitCode maps an action error to the process exit code: 0 on success, 1 when
// tests failed and 2 when the command itself could not complete.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errTestsFailed):
		return 1
	default:
		return 2
	}
}
