package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the structural descriptor of a captured predicate or selector.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backend compilers.
//
// Node values are inert data: they carry no closures and are safe to
// serialize, hash, and compare structurally.
type Node interface {
	node() // Marker method - seals interface to this package

	// String renders the node for diagnostics and plan dumps.
	String() string
}

// CmpOp identifies the operator of a binary comparison.
type CmpOp string

const (
	CmpEq CmpOp = "=="
	CmpNe CmpOp = "!="
	CmpLt CmpOp = "<"
	CmpLe CmpOp = "<="
	CmpGt CmpOp = ">"
	CmpGe CmpOp = ">="
)

// validOp reports whether op is one of the defined comparison operators.
func validOp(op CmpOp) bool {
	switch op {
	case CmpEq, CmpNe, CmpLt, CmpLe, CmpGt, CmpGe:
		return true
	}
	return false
}

// Field describes a field-access path into the current element.
//
// Path holds the segments of a dotted access, outermost first:
// "Address.City" becomes ["Address", "City"]. The path refers to the
// element produced by the current chain stage, never to an outer scope.
type Field struct {
	Path []string
}

func (Field) node() {}

func (f Field) String() string {
	return "fact." + strings.Join(f.Path, ".")
}

// Cmp describes a binary comparison between two descriptor nodes.
//
// The typical introspectable shape is Cmp{Field, op, Const}, which a
// backend can turn into an index lookup. Other shapes are legal but may
// not be indexable.
type Cmp struct {
	Op    CmpOp
	Left  Node
	Right Node
}

func (Cmp) node() {}

func (c Cmp) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// Const describes a literal value.
type Const struct {
	Value any
}

func (Const) node() {}

// String formats the constant deterministically. Strings are quoted,
// integers and booleans use their canonical Go form; everything else
// falls back to fmt.
func (c Const) String() string {
	switch v := c.Value.(type) {
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Call describes an opaque reference to a host-language function.
//
// The name is diagnostic only: two Call nodes with the same name are not
// guaranteed to describe the same behavior. Backends must treat Call
// steps as black boxes.
type Call struct {
	Name string
}

func (Call) node() {}

func (c Call) String() string {
	if c.Name == "" {
		return "call(?)"
	}
	return "call(" + c.Name + ")"
}

// Ident describes the identity selector.
//
// GroupBy without an element selector records Ident, and an author
// passing Identity() records the same node. The two forms therefore
// produce structurally identical plan fragments.
type Ident struct{}

func (Ident) node() {}

func (Ident) String() string { return "identity" }

// CELNode describes a predicate authored as a CEL expression.
//
// Unlike Call, the source text is a complete structural description: a
// backend that understands CEL can parse and index it.
type CELNode struct {
	Source string
}

func (CELNode) node() {}

func (n CELNode) String() string {
	return "cel(" + n.Source + ")"
}
