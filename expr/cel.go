package expr

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// The CEL environment exposes a single variable: `fact`, a map view of
// the element under test. One environment serves all predicates; compiled
// programs are cached by source text since rule definitions routinely
// reuse the same expressions.
var (
	celEnvOnce sync.Once
	celEnv     *cel.Env
	celEnvErr  error
	celCache   sync.Map // map[string]cel.Program
)

func env() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Declarations(
				decls.NewVar("fact", decls.NewMapType(decls.String, decls.Dyn)),
			),
		)
	})
	return celEnv, celEnvErr
}

// CEL compiles a textual CEL expression into a predicate over T.
//
// The expression sees one variable, `fact`, holding a map view of the
// element (struct fields appear under their JSON names):
//
//	adult, err := expr.CEL[Person](`fact.age > 18`)
//
// The returned predicate carries a CELNode descriptor: unlike an opaque
// Func closure, the source text fully describes the condition, so a
// compiling engine that understands CEL can inspect and index it.
//
// Returns an error if the expression does not compile or does not
// produce a boolean. Evaluation errors at match time (missing fields,
// type mismatches) make the predicate evaluate false rather than fail:
// a fact the expression cannot judge does not match.
func CEL[T any](source string) (Predicate[T], error) {
	prg, err := compileCEL(source)
	if err != nil {
		return Predicate[T]{}, err
	}
	fn := func(v T) bool {
		m, err := factMap(v)
		if err != nil {
			return false
		}
		out, _, err := prg.Eval(map[string]any{"fact": m})
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}
	return Predicate[T]{fn: fn, descr: CELNode{Source: source}}, nil
}

// compileCEL compiles source against the shared environment, consulting
// the program cache first.
func compileCEL(source string) (cel.Program, error) {
	if v, ok := celCache.Load(source); ok {
		return v.(cel.Program), nil
	}

	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := e.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", source, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("compile %q: predicate must produce bool, got %s", source, ast.OutputType())
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", source, err)
	}
	celCache.Store(source, prg)
	return prg, nil
}

// factMap converts a fact to the map view CEL evaluates against.
// The conversion is a JSON round trip, so struct fields appear under
// their JSON names and unexported fields are invisible.
func factMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
