// Package js runs test scripts that report through the reporter package.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
package js

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/ethereum/go-ethereum/log"
)

// Runtime wraps a goja JavaScript runtime with a console, timers and the
// global aliases scripts written for browsers expect.
type Runtime struct {
	vm      *goja.Runtime
	log     log.Logger
	mu      sync.Mutex
	errors  []error
	onError func(error)
	timers  *timerQueue
}

// NewRuntime creates a new JavaScript runtime. Console output goes to logger,
// or to the root logger when logger is nil.
func NewRuntime(logger log.Logger) *Runtime {
	if logger == nil {
		logger = log.Root()
	}
	r := &Runtime{
		vm:     goja.New(),
		log:    logger.New("component", "js"),
		timers: newTimerQueue(),
	}

	r.setupConsole()
	r.setupTimers()
	r.setupGlobals()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Logger returns the logger console output is written to.
func (r *Runtime) Logger() log.Logger {
	return r.log
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (goja.Value, error) {
	return r.run(context.Background(), "", code)
}

// ExecuteScript compiles and runs code, attributing errors to src. Scripts
// are compiled in sloppy mode unless they opt into strict mode themselves.
// When ctx is cancelled the script is interrupted and ctx.Err() is returned.
func (r *Runtime) ExecuteScript(ctx context.Context, code, src string) error {
	_, err := r.run(ctx, src, code)
	return err
}

func (r *Runtime) run(ctx context.Context, src, code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// goja's parser has panicked on malformed input before.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script panic in %q: %v", src, p)
			r.recordError(err)
		}
	}()

	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			r.vm.Interrupt(ctx.Err())
		})
		defer func() {
			stop()
			r.vm.ClearInterrupt()
		}()
	}

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return nil, err
	}

	result, err = r.vm.RunProgram(program)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) && ctx.Err() != nil {
			err = ctx.Err()
		}
		r.recordError(err)
	}
	return result, err
}

// Call invokes the global function name with args converted to JS values.
func (r *Runtime) Call(name string, args ...interface{}) (goja.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn, ok := goja.AssertFunction(r.vm.Get(name))
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	values := make([]goja.Value, len(args))
	for i, arg := range args {
		values[i] = r.vm.ToValue(arg)
	}
	result, err := fn(goja.Undefined(), values...)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.log.Debug("Script error", "err", err)
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// setupConsole creates the console object. Each method logs at the matching level.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	levels := map[string]func(msg string, ctx ...interface{}){
		"log":   r.log.Info,
		"info":  r.log.Info,
		"warn":  r.log.Warn,
		"error": r.log.Error,
		"debug": r.log.Debug,
		"trace": r.log.Trace,
	}
	for name, logFn := range levels {
		logFn := logFn
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			logFn(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			r.log.Error(msg)
		}
		return goja.Undefined()
	})

	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := "default"
		if len(call.Arguments) > 0 {
			label = call.Arguments[0].String()
		}
		counts[label]++
		r.log.Info(label, "count", counts[label])
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

// setupGlobals makes window, self and globalThis refer to the global object.
func (r *Runtime) setupGlobals() {
	global := r.vm.GlobalObject()
	r.vm.Set("window", global)
	r.vm.Set("self", global)
	r.vm.Set("globalThis", global)
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value the way template-literal interpolation
// does: undefined and null become "undefined" and "null".
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
