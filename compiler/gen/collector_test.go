package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/zodgen/typegraph"
)

func TestSuccessors(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")
	str := p.Std(typegraph.StdString)
	base := model(ns, "Base")
	pet := model(ns, "Pet", prop("name", str))
	pet.BaseModel = base

	t.Run("model", func(t *testing.T) {
		assert.Equal(t, []typegraph.Type{base, str}, Successors(pet))
		arr := p.ArrayOf(pet)
		assert.Equal(t, []typegraph.Type{p.Std(typegraph.StdInteger), pet}, Successors(arr))
	})
	t.Run("union", func(t *testing.T) {
		u := &typegraph.Union{}
		u.AddVariant(&typegraph.UnionVariant{Type: pet})
		u.AddVariant(&typegraph.UnionVariant{Type: str})
		assert.Equal(t, []typegraph.Type{pet, str}, Successors(u))
		assert.Equal(t, []typegraph.Type{pet}, Successors(u.Variants[0]))
	})
	t.Run("operation", func(t *testing.T) {
		params := p.CreateModel(prop("id", str))
		op := &typegraph.Operation{Name: "get", Parameters: params, ReturnType: pet}
		assert.Equal(t, []typegraph.Type{params, pet}, Successors(op))
		assert.Empty(t, Successors(&typegraph.Operation{Name: "noop"}))
		assert.Empty(t, Successors(&typegraph.Operation{Name: "typed nil", ReturnType: (*typegraph.Model)(nil)}))
	})
	t.Run("scalar", func(t *testing.T) {
		assert.Equal(t, []typegraph.Type{p.Std(typegraph.StdInteger)}, Successors(p.Std(typegraph.StdInt64)))
		assert.Empty(t, Successors(str))
	})
	t.Run("tuple", func(t *testing.T) {
		assert.Equal(t, []typegraph.Type{str, pet}, Successors(&typegraph.Tuple{Values: []typegraph.Type{str, pet}}))
	})
	t.Run("leaves", func(t *testing.T) {
		assert.Empty(t, Successors(&typegraph.StringLiteral{Value: "x"}))
		assert.Empty(t, Successors(ns.AddEnum(&typegraph.Enum{Name: "Color"})))
		assert.Empty(t, Successors(p.Intrinsic(typegraph.IntrinsicNull)))
	})
}

func TestCollectorOrder(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")

	b := model(ns, "B", prop("v", p.Std(typegraph.StdString)))
	a := model(ns, "A", prop("b", b))

	c := NewCollector(p, nil)
	require.True(t, c.Collect(a))
	require.True(t, c.Collect(b))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []typegraph.Type{b, a}, c.Types())
}

func TestCollectorCycle(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")

	a := model(ns, "A")
	b := model(ns, "B")
	cc := model(ns, "C")
	a.AddProperty(prop("b", b))
	b.AddProperty(prop("c", cc))
	cc.AddProperty(prop("a", a))

	c := NewCollector(p, nil)
	for _, m := range []*typegraph.Model{a, b, cc} {
		c.Collect(m)
	}
	assert.Equal(t, [][]typegraph.Type{{a, b, cc}}, c.Components())
	assert.Equal(t, []typegraph.Type{a, b, cc}, c.Types())
}

func TestCollectorCycleWithDependency(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")

	d := model(ns, "D")
	a := model(ns, "A")
	b := model(ns, "B")
	a.AddProperty(prop("b", b))
	b.AddProperty(prop("a", a))
	b.AddProperty(prop("d", d))

	c := NewCollector(p, nil)
	c.Collect(a)
	c.Collect(b)
	c.Collect(d)
	assert.Equal(t, [][]typegraph.Type{{d}, {a, b}}, c.Components())
}

func TestCollectorCycleAnyOrder(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")

	t1 := model(ns, "T1")
	t2 := model(ns, "T2")
	t3 := model(ns, "T3")
	t1.AddProperty(prop("t2", t2))
	t2.AddProperty(prop("t3", t3))
	t3.AddProperty(prop("t2", t2))

	orders := [][]*typegraph.Model{
		{t1, t2, t3}, {t1, t3, t2}, {t2, t1, t3},
		{t2, t3, t1}, {t3, t1, t2}, {t3, t2, t1},
	}
	for _, order := range orders {
		c := NewCollector(p, nil)
		for _, m := range order {
			c.Collect(m)
		}
		types := c.Types()
		require.Len(t, types, 3)
		assert.Equal(t, typegraph.Type(t1), types[2], "T1 depends on the cycle")
		assert.ElementsMatch(t, []typegraph.Type{t2, t3}, types[:2])
	}
}

func TestCollectorSelfReference(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")
	node := model(ns, "Node")
	node.AddProperty(&typegraph.ModelProperty{Name: "children", Type: p.ArrayOf(node)})

	c := NewCollector(p, nil)
	c.Collect(node)
	assert.Equal(t, [][]typegraph.Type{{node}}, c.Components())
}

func TestCollectorSkips(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")
	pet := model(ns, "Pet")

	c := NewCollector(p, nil)
	assert.False(t, c.Collect(p.Std(typegraph.StdString)), "built-in scalar")
	assert.False(t, c.Collect(p.ArrayOf(pet)), "array instance")
	assert.False(t, c.Collect(p.CreateModel()), "anonymous model")
	assert.False(t, c.Collect(&typegraph.Union{}), "union expression")
	assert.False(t, c.Collect(nil))
	assert.False(t, c.Collect((*typegraph.Model)(nil)))
	assert.True(t, c.Collect(pet))
	assert.False(t, c.Collect(pet), "already collected")
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, NewCollector(p, nil).Types())
}

func TestCollectorPassesThroughInlinedTypes(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")

	b := model(ns, "B")
	inline := p.CreateModel(prop("b", b))
	a := model(ns, "A", prop("inline", inline), prop("list", p.ArrayOf(b)))
	hidden := ns.AddScalar(&typegraph.Scalar{Name: "Hidden", BaseScalar: p.Std(typegraph.StdString)})
	a.AddProperty(prop("hidden", hidden))

	custom := NewCustomEmitOptions().ForType(hidden, CustomEmit{NoDeclaration: true})
	c := NewCollector(p, custom)
	c.Collect(a)
	c.Collect(b)
	assert.False(t, c.Collect(hidden))
	assert.Equal(t, []typegraph.Type{b, a}, c.Types())
}

func TestCollectorRecomputesAfterCollect(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")
	b := model(ns, "B")
	a := model(ns, "A", prop("b", b))
	x := model(ns, "X")

	c := NewCollector(p, nil)
	c.Collect(a)
	assert.Equal(t, []typegraph.Type{a}, c.Types())

	c.Collect(b)
	c.Collect(x)
	assert.Equal(t, []typegraph.Type{b, a, x}, c.Types())
	assert.Len(t, c.Components(), 3)
}
