package expr

import (
	"cmp"
	"reflect"
	"runtime"
	"strings"
)

// Predicate is a boolean condition over elements of type T.
//
// A predicate pairs the evaluable closure with a structural descriptor.
// Predicates attached to the same pattern or filter stage combine with
// AND: an element passes only if every predicate evaluates true.
type Predicate[T any] struct {
	fn    func(T) bool
	descr Node
}

// Eval applies the predicate to one element.
func (p Predicate[T]) Eval(v T) bool { return p.fn(v) }

// Descriptor returns the structural descriptor.
func (p Predicate[T]) Descriptor() Node { return p.descr }

// Erase converts the predicate to its untyped plan form.
// The erased closure asserts T; evaluating it against a value of any
// other type is a programming error and panics.
func (p Predicate[T]) Erase() Condition {
	fn := p.fn
	return Condition{
		Eval:  func(v any) bool { return fn(v.(T)) },
		Descr: p.descr,
	}
}

// Func captures an opaque predicate closure.
//
// The descriptor is a Call node named after the function symbol, which is
// diagnostic only: the compiling engine cannot inspect what fn tests.
// Prefer FieldEq/FieldCmp/CEL when the condition should be indexable.
func Func[T any](fn func(T) bool) Predicate[T] {
	return Predicate[T]{fn: fn, descr: Call{Name: funcName(fn)}}
}

// FieldEq captures an equality test on one field.
//
// The field string is a dotted access path ("Age", "Address.City") and
// must describe what get actually reads - the descriptor is trusted, not
// verified. The descriptor shape is Cmp{Field, ==, Const}.
func FieldEq[T any, V comparable](field string, get func(T) V, want V) Predicate[T] {
	return Predicate[T]{
		fn:    func(v T) bool { return get(v) == want },
		descr: Cmp{Op: CmpEq, Left: Field{Path: splitPath(field)}, Right: Const{Value: want}},
	}
}

// FieldCmp captures an ordered comparison on one field.
//
// Panics if op is not a defined CmpOp; an undefined operator is a
// programming error in the rule definition, not a runtime condition.
func FieldCmp[T any, V cmp.Ordered](field string, get func(T) V, op CmpOp, want V) Predicate[T] {
	if !validOp(op) {
		panic("expr: undefined comparison operator " + string(op))
	}
	return Predicate[T]{
		fn: func(v T) bool {
			got := get(v)
			switch op {
			case CmpEq:
				return got == want
			case CmpNe:
				return got != want
			case CmpLt:
				return got < want
			case CmpLe:
				return got <= want
			case CmpGt:
				return got > want
			default: // CmpGe - validOp already excluded everything else
				return got >= want
			}
		},
		descr: Cmp{Op: op, Left: Field{Path: splitPath(field)}, Right: Const{Value: want}},
	}
}

// Selector is a total projection from T to R.
type Selector[T, R any] struct {
	fn    func(T) R
	descr Node
}

// Apply projects one element.
func (s Selector[T, R]) Apply(v T) R { return s.fn(v) }

// Descriptor returns the structural descriptor.
func (s Selector[T, R]) Descriptor() Node { return s.descr }

// Erase converts the selector to its untyped plan form.
func (s Selector[T, R]) Erase() Mapping {
	fn := s.fn
	return Mapping{
		Apply: func(v any) any { return fn(v.(T)) },
		Descr: s.descr,
	}
}

// Map captures an opaque projection closure (Call descriptor).
func Map[T, R any](fn func(T) R) Selector[T, R] {
	return Selector[T, R]{fn: fn, descr: Call{Name: funcName(fn)}}
}

// FieldOf captures a projection that reads one field (Field descriptor).
// As with FieldEq, the path must describe what get reads.
func FieldOf[T, R any](field string, get func(T) R) Selector[T, R] {
	return Selector[T, R]{fn: get, descr: Field{Path: splitPath(field)}}
}

// Identity returns the identity selector with an Ident descriptor.
func Identity[T any]() Selector[T, T] {
	return Selector[T, T]{fn: func(v T) T { return v }, descr: Ident{}}
}

// SeqSelector is a flattening projection from T to zero or more R.
type SeqSelector[T, R any] struct {
	fn    func(T) []R
	descr Node
}

// Apply projects one element to its output sequence.
func (s SeqSelector[T, R]) Apply(v T) []R { return s.fn(v) }

// Descriptor returns the structural descriptor.
func (s SeqSelector[T, R]) Descriptor() Node { return s.descr }

// Erase converts the selector to its untyped plan form.
func (s SeqSelector[T, R]) Erase() FlatMapping {
	fn := s.fn
	return FlatMapping{
		Apply: func(v any) []any {
			rs := fn(v.(T))
			out := make([]any, len(rs))
			for i, r := range rs {
				out[i] = r
			}
			return out
		},
		Descr: s.descr,
	}
}

// FlatMap captures an opaque flattening closure (Call descriptor).
func FlatMap[T, R any](fn func(T) []R) SeqSelector[T, R] {
	return SeqSelector[T, R]{fn: fn, descr: Call{Name: funcName(fn)}}
}

// Source is a parameter-less expression producing one value of type T.
// A source does not match working memory; it materializes the supplied
// expression when the compiled plan runs.
type Source[T any] struct {
	fn    func() T
	descr Node
}

// Produce evaluates the source expression once.
func (s Source[T]) Produce() T { return s.fn() }

// Descriptor returns the structural descriptor.
func (s Source[T]) Descriptor() Node { return s.descr }

// Erase converts the source to its untyped plan form.
func (s Source[T]) Erase() SourceExpr {
	fn := s.fn
	return SourceExpr{
		Produce: func() any { return fn() },
		Descr:   s.descr,
	}
}

// Value captures a constant source (Const descriptor).
func Value[T any](v T) Source[T] {
	return Source[T]{fn: func() T { return v }, descr: Const{Value: v}}
}

// Compute captures an opaque source expression (Call descriptor).
func Compute[T any](fn func() T) Source[T] {
	return Source[T]{fn: fn, descr: Call{Name: funcName(fn)}}
}

// splitPath splits a dotted field path into segments.
func splitPath(field string) []string {
	return strings.Split(field, ".")
}

// funcName resolves the symbol name of fn for Call descriptors.
// Returns the bare name without package path; anonymous closures come
// back as their compiler-assigned name (e.g. "TestWhere.func1").
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
