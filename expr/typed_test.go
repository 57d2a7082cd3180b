package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	Age  int
}

func TestFieldCmp_Eval(t *testing.T) {
	adult := FieldCmp("Age", func(p person) int { return p.Age }, CmpGt, 18)

	assert.True(t, adult.Eval(person{Name: "ada", Age: 30}))
	assert.False(t, adult.Eval(person{Name: "kid", Age: 10}))
	assert.False(t, adult.Eval(person{Name: "edge", Age: 18}))
}

func TestFieldCmp_AllOperators(t *testing.T) {
	age := func(p person) int { return p.Age }
	cases := []struct {
		op   CmpOp
		age  int
		want bool
	}{
		{CmpEq, 18, true},
		{CmpEq, 19, false},
		{CmpNe, 19, true},
		{CmpNe, 18, false},
		{CmpLt, 17, true},
		{CmpLt, 18, false},
		{CmpLe, 18, true},
		{CmpLe, 19, false},
		{CmpGt, 19, true},
		{CmpGt, 18, false},
		{CmpGe, 18, true},
		{CmpGe, 17, false},
	}
	for _, tc := range cases {
		pred := FieldCmp("Age", age, tc.op, 18)
		assert.Equal(t, tc.want, pred.Eval(person{Age: tc.age}), "%s with age %d", tc.op, tc.age)
	}
}

func TestFieldCmp_UndefinedOperatorPanics(t *testing.T) {
	assert.Panics(t, func() {
		FieldCmp("Age", func(p person) int { return p.Age }, CmpOp("~"), 18)
	})
}

func TestFieldCmp_Descriptor(t *testing.T) {
	pred := FieldCmp("Age", func(p person) int { return p.Age }, CmpGt, 18)

	cmp, ok := pred.Descriptor().(Cmp)
	require.True(t, ok)
	assert.Equal(t, CmpGt, cmp.Op)
	assert.Equal(t, Field{Path: []string{"Age"}}, cmp.Left)
	assert.Equal(t, Const{Value: 18}, cmp.Right)
}

func TestFieldEq(t *testing.T) {
	named := FieldEq("Name", func(p person) string { return p.Name }, "ada")

	assert.True(t, named.Eval(person{Name: "ada"}))
	assert.False(t, named.Eval(person{Name: "bob"}))

	cmp, ok := named.Descriptor().(Cmp)
	require.True(t, ok)
	assert.Equal(t, CmpEq, cmp.Op)
}

func TestFieldEq_NestedPath(t *testing.T) {
	type address struct{ City string }
	type customer struct{ Address address }

	local := FieldEq("Address.City", func(c customer) string { return c.Address.City }, "Oslo")

	cmp := local.Descriptor().(Cmp)
	assert.Equal(t, Field{Path: []string{"Address", "City"}}, cmp.Left)
	assert.True(t, local.Eval(customer{Address: address{City: "Oslo"}}))
}

func TestFunc_OpaqueDescriptor(t *testing.T) {
	pred := Func(func(p person) bool { return p.Age > 18 && p.Name != "" })

	call, ok := pred.Descriptor().(Call)
	require.True(t, ok)
	// Anonymous closures carry their compiler-assigned symbol.
	assert.True(t, strings.Contains(call.Name, "func"), "got %q", call.Name)
	assert.True(t, pred.Eval(person{Name: "ada", Age: 30}))
}

func TestPredicate_Erase(t *testing.T) {
	adult := FieldCmp("Age", func(p person) int { return p.Age }, CmpGe, 18)
	cond := adult.Erase()

	assert.True(t, cond.Eval(person{Age: 20}))
	assert.False(t, cond.Eval(person{Age: 10}))
	assert.Equal(t, adult.Descriptor(), cond.Descr)
}

func TestPredicate_EraseWrongTypePanics(t *testing.T) {
	adult := FieldCmp("Age", func(p person) int { return p.Age }, CmpGe, 18)
	cond := adult.Erase()

	assert.Panics(t, func() { cond.Eval("not a person") })
}

func TestFieldOf(t *testing.T) {
	name := FieldOf("Name", func(p person) string { return p.Name })

	assert.Equal(t, "ada", name.Apply(person{Name: "ada"}))
	assert.Equal(t, Field{Path: []string{"Name"}}, name.Descriptor())

	m := name.Erase()
	assert.Equal(t, "ada", m.Apply(person{Name: "ada"}))
}

func TestIdentity(t *testing.T) {
	id := Identity[person]()
	p := person{Name: "ada", Age: 30}

	assert.Equal(t, p, id.Apply(p))
	assert.Equal(t, Ident{}, id.Descriptor())
}

func TestMap_OpaqueDescriptor(t *testing.T) {
	upper := Map(func(p person) string { return strings.ToUpper(p.Name) })

	_, ok := upper.Descriptor().(Call)
	assert.True(t, ok)
	assert.Equal(t, "ADA", upper.Apply(person{Name: "ada"}))
}

func TestFlatMap(t *testing.T) {
	letters := FlatMap(func(p person) []string { return strings.Split(p.Name, "") })

	assert.Equal(t, []string{"a", "d", "a"}, letters.Apply(person{Name: "ada"}))

	fm := letters.Erase()
	out := fm.Apply(person{Name: "ab"})
	assert.Equal(t, []any{"a", "b"}, out)

	_, ok := letters.Descriptor().(Call)
	assert.True(t, ok)
}

func TestValue(t *testing.T) {
	src := Value(42)

	assert.Equal(t, 42, src.Produce())
	assert.Equal(t, Const{Value: 42}, src.Descriptor())

	erased := src.Erase()
	assert.Equal(t, 42, erased.Produce())
}

func TestCompute(t *testing.T) {
	n := 0
	src := Compute(func() int { n++; return n })

	assert.Equal(t, 1, src.Produce())
	assert.Equal(t, 2, src.Produce())

	_, ok := src.Descriptor().(Call)
	assert.True(t, ok)
}
