package wpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/beaterhtml/js"
	"github.com/chrisuehlinger/beaterhtml/reporter"
)

func newBinding(t *testing.T) (*js.Runtime, *Binding, *reporter.Recorder) {
	t.Helper()
	rt := js.NewRuntime(nil)
	rec := &reporter.Recorder{}
	b := NewBinding(rt, rec, "page.html")
	b.Setup()
	return rt, b, rec
}

func TestBinding_ForwardsCallbacks(t *testing.T) {
	rt, b, rec := newBinding(t)

	_, err := rt.Execute(`
		start_callback();
		var t1 = { name: "t1", status: 0, message: null };
		var t2 = { name: "t2", status: 1, message: "expected 1 but got 2" };
		result_callback(t1);
		result_callback(t2);
		completion_callback([t1, t2], { status: 0, message: null });
	`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"started",
		"testStarted", "testFinished",
		"testStarted", "testFinished",
		"finished",
	}, rec.Kinds())

	events := rec.Events()
	assert.True(t, events[2].Result.Passed())
	assert.Equal(t, &reporter.ErrorDescriptor{Name: "FAIL", Message: "expected 1 but got 2"}, events[4].Result.Error)
	assert.Len(t, events[5].Results, 2)

	assert.True(t, b.IsCompleted())
	assert.Equal(t, HarnessStatus{Status: HarnessStatusOK}, b.HarnessStatus())
	select {
	case <-b.Done():
	default:
		t.Fatal("Done should be closed after completion")
	}
}

func TestBinding_CompletionFiresOnce(t *testing.T) {
	rt, _, rec := newBinding(t)

	_, err := rt.Execute(`
		var t1 = { name: "t1", status: 0 };
		result_callback(t1);
		completion_callback([t1], { status: 0 });
		completion_callback([t1], { status: 0 });
		result_callback({ name: "late", status: 0 });
	`)
	require.NoError(t, err)

	assert.Equal(t, []string{"started", "testStarted", "testFinished", "finished"}, rec.Kinds())
}

func TestBinding_UnreportedTestsAndHarnessError(t *testing.T) {
	rt, b, rec := newBinding(t)

	_, err := rt.Execute(`
		var t1 = { name: "t1", status: 0 };
		var t2 = { name: "t2", status: 3, message: null };
		result_callback(t1);
		completion_callback([t1, t2], { status: 1, message: "ReferenceError: x is not defined" });
	`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"started",
		"testStarted", "testFinished",
		"testStarted", "testFinished",
		"finished",
	}, rec.Kinds())

	final := rec.Events()[5].Results
	require.Len(t, final, 3)
	assert.Equal(t, &reporter.ErrorDescriptor{Name: "NOTRUN"}, final[1].Error)
	assert.Equal(t, reporter.TestResult{
		Test:  reporter.Test{Name: "page.html"},
		Error: &reporter.ErrorDescriptor{Name: "ERROR", Message: "ReferenceError: x is not defined"},
	}, final[2])

	passed, failed, timeout, notrun := b.Summary()
	assert.Equal(t, [4]int{1, 1, 0, 1}, [4]int{passed, failed, timeout, notrun})
}

func TestBinding_BogusCompletionLength(t *testing.T) {
	for _, length := range []string{"-1", "-Infinity", "'many'"} {
		t.Run(length, func(t *testing.T) {
			rt, b, rec := newBinding(t)

			_, err := rt.Execute(`completion_callback({ length: ` + length + ` }, { status: 0 });`)
			require.NoError(t, err)

			assert.Equal(t, []string{"started", "finished"}, rec.Kinds())
			assert.Empty(t, rec.Events()[1].Results)
			assert.True(t, b.IsCompleted())
		})
	}
}

func TestToTestResult(t *testing.T) {
	tests := []struct {
		status int
		want   *reporter.ErrorDescriptor
	}{
		{TestStatusPass, nil},
		{TestStatusFail, &reporter.ErrorDescriptor{Name: "FAIL", Message: "m"}},
		{TestStatusTimeout, &reporter.ErrorDescriptor{Name: "TIMEOUT", Message: "m"}},
		{TestStatusNotRun, &reporter.ErrorDescriptor{Name: "NOTRUN", Message: "m"}},
		{TestStatusPreconditionFailed, &reporter.ErrorDescriptor{Name: "PRECONDITION_FAILED", Message: "m"}},
		{42, &reporter.ErrorDescriptor{Name: "UNKNOWN", Message: "m"}},
	}

	for _, tt := range tests {
		got := ToTestResult("x", tt.status, "m")
		assert.Equal(t, "x", got.Test.Name)
		assert.Equal(t, tt.want, got.Error, "status %d", tt.status)
	}
}
