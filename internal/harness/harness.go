// Package harness composes the self-contained script that force-loads
// candidate modules inside the sandbox and captures their side effects.
package harness

import (
	"fmt"
	"strings"

	"github.com/frozenisback/sp-src/internal/core/domain"
)

// captureHook intercepts every assignment to a "secret" property on
// any object. The setter records the assigned-to object, then
// redefines "secret" as a normal data property on that specific
// object, restoring ordinary semantics after first capture and
// avoiding re-triggering. The install is guarded so it runs once per
// interpreter.
const captureHook = `(() => {
  if (globalThis.__secretHookInstalled) return;
  globalThis.__secretHookInstalled = true;
  globalThis.__captures = [];
  Object.defineProperty(Object.prototype, "secret", {
    configurable: true,
    set: function (v) {
      __captures.push(this);
      Object.defineProperty(this, "secret", {
        value: v,
        writable: true,
        configurable: true,
        enumerable: true,
      });
    },
  });
})();
`

// moduleLoader reproduces the bundler's module-resolution contract: a
// memoizing loader that invokes a module's function with
// (module, exports, require)-shaped arguments. The exports object is
// memoized BEFORE invocation, which is what keeps require cycles from
// recursing unboundedly - there is no separate cycle detection.
// Absent ids log a diagnostic and resolve to an empty object.
const moduleLoader = `
const modEnv = {};
let currentlyImporting = null;

function n(id) {
  if (modEnv[id]) {
    return modEnv[id];
  }
  if (__webpack_modules__[id]) {
    modEnv[id] = {};
    currentlyImporting = id;
    __webpack_modules__[id]({id}, modEnv[id], n);
    console.error("imported", id);
    currentlyImporting = null;
    return modEnv[id];
  }
  console.error("failed to import " + id + " (during import of " + currentlyImporting + ")");
  return {};
}
n.d = () => {};

`

// readout is the harness's final expression: the captured objects that
// carry both the intercepted property and a sibling version.
const readout = `
globalThis.__captures.filter((c) => c.secret && c.version)
`

// Build composes the harness script: capture hook, module loader shim,
// the literal module table, one forced load per candidate in candidate
// order, and the readout expression. Pure string composition - output
// is byte-identical across calls with identical inputs.
func Build(tableSource string, candidates []domain.Candidate) string {
	var b strings.Builder
	b.WriteString(captureHook)
	b.WriteString(moduleLoader)
	b.WriteString("var __webpack_modules__ = ")
	b.WriteString(tableSource)
	b.WriteString(";\n\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "n(%d);\n", c.Key)
	}
	b.WriteString(readout)
	return b.String()
}
