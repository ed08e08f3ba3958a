package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// BindReporter installs a global constructor called name. Scripts obtain a
// reporter object from it, with or without new, whose started, testStarted,
// testFinished and finished methods forward to r.
//
// Arguments are read duck-typed. Missing or non-string fields are converted the
// way template literals convert them, so an absent test name reads "undefined".
// A result whose error is null or undefined is a success.
func BindReporter(rt *Runtime, name string, r reporter.Reporter) error {
	vm := rt.VM()
	logger := rt.Logger().New("reporter", name)

	return vm.Set(name, func(call goja.ConstructorCall) *goja.Object {
		obj := vm.NewObject()

		obj.Set("started", func(goja.FunctionCall) goja.Value {
			logger.Trace("started")
			r.Started()
			return goja.Undefined()
		})

		obj.Set("testStarted", func(call goja.FunctionCall) goja.Value {
			test := readTest(vm, call.Argument(0))
			logger.Trace("testStarted", "test", test.Name)
			r.TestStarted(test)
			return goja.Undefined()
		})

		obj.Set("testFinished", func(call goja.FunctionCall) goja.Value {
			result := readResult(vm, call.Argument(0))
			logger.Trace("testFinished", "test", result.Test.Name, "passed", result.Passed())
			r.TestFinished(result)
			return goja.Undefined()
		})

		obj.Set("finished", func(call goja.FunctionCall) goja.Value {
			results := readResults(vm, call.Argument(0))
			logger.Trace("finished", "results", len(results))
			r.Finished(results)
			return goja.Undefined()
		})

		return obj
	})
}

// isMissing reports whether v is absent, undefined or null.
func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// field returns obj[key] as a string, or "undefined" when obj itself is missing.
func field(vm *goja.Runtime, obj goja.Value, key string) string {
	if isMissing(obj) {
		return formatValue(nil)
	}
	return formatValue(obj.ToObject(vm).Get(key))
}

func readTest(vm *goja.Runtime, v goja.Value) reporter.Test {
	return reporter.Test{Name: field(vm, v, "name")}
}

func readResult(vm *goja.Runtime, v goja.Value) reporter.TestResult {
	if isMissing(v) {
		return reporter.TestResult{Test: readTest(vm, nil)}
	}
	obj := v.ToObject(vm)

	result := reporter.TestResult{Test: readTest(vm, obj.Get("test"))}
	if errVal := obj.Get("error"); !isMissing(errVal) {
		result.Error = &reporter.ErrorDescriptor{
			Name:    field(vm, errVal, "name"),
			Message: field(vm, errVal, "message"),
		}
	}
	return result
}

// maxResults bounds how many entries are read from an array-like results
// value, whose length is supplied by the script.
const maxResults = 1 << 20

// ArrayLength returns obj.length clamped to [0, maxResults].
func ArrayLength(obj *goja.Object) int {
	length := obj.Get("length")
	if isMissing(length) {
		return 0
	}
	return int(min(max(length.ToInteger(), 0), maxResults))
}

func readResults(vm *goja.Runtime, v goja.Value) []reporter.TestResult {
	if isMissing(v) {
		return nil
	}
	obj := v.ToObject(vm)

	var results []reporter.TestResult
	for i, n := 0, ArrayLength(obj); i < n; i++ {
		results = append(results, readResult(vm, obj.Get(vm.ToValue(i).String())))
	}
	return results
}
