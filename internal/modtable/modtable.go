// Package modtable parses an extracted module table fragment into an
// enumerable table of numeric-keyed function entries.
//
// Unlike package scan, this is a full-grammar parse: the fragment is
// wrapped in a trivial declaration to make it a syntactically complete
// program and handed to the goja parser. The parse is pure analysis -
// nothing is evaluated.
package modtable

import (
	"fmt"
	"math"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/logger"
)

// wrapPrefix turns the bare object literal into a parseable program.
// Parser-reported offsets are shifted back by its length when mapping
// into bundle coordinates.
const wrapPrefix = "var __webpack_modules__ = "

// Parse parses the recovered fragment and returns its numeric-keyed
// function entries in source order.
//
// A property qualifies when its key is a numeric literal and its value
// is a function or arrow function with a recoverable body span. Each
// entry's BodyText is sliced from the original bundle source using the
// parser-reported offsets, never re-serialized, so later signal
// matching sees exact source formatting.
//
// Fails with domain.ErrMalformedModuleTable when the fragment does not
// parse, and with domain.ErrNoEligibleModules when it parses but no
// property qualifies.
func Parse(source string, frag domain.Fragment) ([]domain.ModuleEntry, error) {
	program, err := parser.ParseFile(nil, "bundle.js", wrapPrefix+frag.Text+";", 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedModuleTable, err)
	}

	table, err := tableLiteral(program)
	if err != nil {
		return nil, err
	}

	var entries []domain.ModuleEntry
	for _, prop := range table.Value {
		keyed, ok := prop.(*ast.PropertyKeyed)
		if !ok {
			continue
		}
		key, ok := numericKey(keyed.Key)
		if !ok {
			continue
		}
		body, ok := functionBody(keyed.Value)
		if !ok {
			continue
		}

		span := bundleSpan(body, frag)
		if !span.Valid(len(source)) {
			logger.Warn("Module %d body span [%d:%d] out of range, skipping", key, span.Start, span.End)
			continue
		}
		entries = append(entries, domain.ModuleEntry{
			Key:      key,
			BodySpan: span,
			BodyText: source[span.Start:span.End],
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %d properties, none numeric-keyed functions",
			domain.ErrNoEligibleModules, len(table.Value))
	}

	logger.Debug("Module table parsed: %d of %d properties eligible", len(entries), len(table.Value))
	return entries, nil
}

// tableLiteral unwraps the declaration added by wrapPrefix down to the
// object literal.
func tableLiteral(program *ast.Program) (*ast.ObjectLiteral, error) {
	if len(program.Body) == 0 {
		return nil, fmt.Errorf("%w: empty program", domain.ErrMalformedModuleTable)
	}
	stmt, ok := program.Body[0].(*ast.VariableStatement)
	if !ok || len(stmt.List) == 0 {
		return nil, fmt.Errorf("%w: fragment is not a declaration initializer", domain.ErrMalformedModuleTable)
	}
	obj, ok := stmt.List[0].Initializer.(*ast.ObjectLiteral)
	if !ok {
		return nil, fmt.Errorf("%w: fragment is not an object literal", domain.ErrMalformedModuleTable)
	}
	return obj, nil
}

// numericKey extracts an integer module id from a property key.
func numericKey(key ast.Expression) (int, bool) {
	num, ok := key.(*ast.NumberLiteral)
	if !ok {
		return 0, false
	}
	switch v := num.Value.(type) {
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// functionBody returns the body node of a function-valued property.
func functionBody(value ast.Expression) (ast.Node, bool) {
	switch fn := value.(type) {
	case *ast.FunctionLiteral:
		if fn.Body == nil {
			return nil, false
		}
		return fn.Body, true
	case *ast.ArrowFunctionLiteral:
		if fn.Body == nil {
			return nil, false
		}
		return fn.Body, true
	default:
		return nil, false
	}
}

// bundleSpan translates a node's position in the wrapped program back
// into bundle coordinates. goja file indexes are 1-based.
func bundleSpan(node ast.Node, frag domain.Fragment) domain.Span {
	start := int(node.Idx0()) - 1 - len(wrapPrefix) + frag.Span.Start
	end := int(node.Idx1()) - 1 - len(wrapPrefix) + frag.Span.Start
	return domain.Span{Start: start, End: end}
}
