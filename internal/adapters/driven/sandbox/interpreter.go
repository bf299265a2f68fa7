// Package sandbox runs untrusted JavaScript in an isolated in-process
// interpreter.
//
// Each Eval gets a fresh goja runtime that is discarded afterwards, so
// no state leaks between submissions and a hung script cannot outlive
// its call: the context deadline interrupts the runtime. goja grants
// the script no filesystem, network or host environment access - the
// only exchange with the host is the script text in and the
// JSON-encoded completion value out.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/core/ports/driven"
	"github.com/frozenisback/sp-src/internal/logger"
)

// Ensure Interpreter implements the interface.
var _ driven.Interpreter = (*Interpreter)(nil)

// Interpreter is a goja-backed driven.Interpreter.
type Interpreter struct{}

// New creates a new sandbox interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// Eval runs the script in a fresh runtime and returns its completion
// value encoded as JSON. The script's console output is forwarded to
// the verbose logger. Failures wrap domain.ErrInterpreterFailure.
func (i *Interpreter) Eval(ctx context.Context, script string) (json.RawMessage, error) {
	vm := goja.New()

	registry := require.NewRegistry()
	registry.Enable(vm)
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(loggerPrinter{}))
	console.Enable(vm)

	// Interrupt the runtime when the context expires. The watchdog is
	// released on every exit path so no goroutine outlives the call.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	value, err := vm.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("%w: run script: %v", domain.ErrInterpreterFailure, err)
	}

	return encode(vm, value)
}

// encode serializes the completion value with the runtime's own JSON
// so the host never re-interprets JavaScript value semantics.
func encode(vm *goja.Runtime, value goja.Value) (json.RawMessage, error) {
	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return nil, fmt.Errorf("%w: JSON.stringify unavailable", domain.ErrInterpreterFailure)
	}

	encoded, err := stringify(goja.Undefined(), value)
	if err != nil {
		return nil, fmt.Errorf("%w: encode result: %v", domain.ErrInterpreterFailure, err)
	}
	if goja.IsUndefined(encoded) {
		return nil, fmt.Errorf("%w: script produced no encodable value", domain.ErrInterpreterFailure)
	}

	return json.RawMessage(encoded.String()), nil
}

// loggerPrinter forwards sandbox console output to the verbose logger.
type loggerPrinter struct{}

func (loggerPrinter) Log(msg string)   { logger.Debug("sandbox: %s", msg) }
func (loggerPrinter) Warn(msg string)  { logger.Warn("sandbox: %s", msg) }
func (loggerPrinter) Error(msg string) { logger.Debug("sandbox: %s", msg) }
