package gen

import (
	"github.com/syssam/zodgen/typegraph"
)

// Successors returns the types t refers to directly. They are the edges of
// the dependency graph the Collector orders declarations by.
func Successors(t typegraph.Type) []typegraph.Type {
	var out []typegraph.Type
	add := func(ts ...typegraph.Type) {
		for _, s := range ts {
			if !isNil(s) {
				out = append(out, s)
			}
		}
	}
	switch t := t.(type) {
	case *typegraph.Model:
		if t.BaseModel != nil {
			add(t.BaseModel)
		}
		if t.Indexer != nil {
			add(t.Indexer.Key, t.Indexer.Value)
		}
		for _, p := range t.Properties {
			add(p.Type)
		}
	case *typegraph.Union:
		for _, v := range t.Variants {
			add(v.Type)
		}
	case *typegraph.UnionVariant:
		add(t.Type)
	case *typegraph.Interface:
		for _, o := range t.Operations {
			add(o)
		}
	case *typegraph.Operation:
		if t.Parameters != nil {
			add(t.Parameters)
		}
		add(t.ReturnType)
	case *typegraph.Scalar:
		if t.BaseScalar != nil {
			add(t.BaseScalar)
		}
	case *typegraph.Tuple:
		add(t.Values...)
	case *typegraph.Namespace:
		for _, o := range t.Operations {
			add(o)
		}
		for _, s := range t.Scalars {
			add(s)
		}
		for _, m := range t.Models {
			add(m)
		}
		for _, e := range t.Enums {
			add(e)
		}
		for _, i := range t.Interfaces {
			add(i)
		}
		for _, n := range t.Namespaces {
			add(n)
		}
	}
	return out
}

// isNil reports whether t is nil or a typed nil pointer.
func isNil(t typegraph.Type) bool {
	switch t := t.(type) {
	case nil:
		return true
	case *typegraph.Model:
		return t == nil
	case *typegraph.Scalar:
		return t == nil
	case *typegraph.Union:
		return t == nil
	case *typegraph.Enum:
		return t == nil
	case *typegraph.Operation:
		return t == nil
	}
	return false
}

// Collector gathers the types that get their own declaration and orders them
// so that every type follows the types it depends on. Mutually recursive
// types form a component and keep their discovery order.
type Collector struct {
	types     TypeSystem
	custom    *CustomEmitOptions
	roots     []typegraph.Type
	collected map[typegraph.Type]bool

	dirty      bool
	components [][]typegraph.Type
}

// NewCollector returns an empty collector.
func NewCollector(types TypeSystem, custom *CustomEmitOptions) *Collector {
	return &Collector{
		types:     types,
		custom:    custom,
		collected: make(map[typegraph.Type]bool),
	}
}

// Collect adds t if it should be referenced by name. Types that are inlined
// and types already collected are ignored. It reports whether t was added.
func (c *Collector) Collect(t typegraph.Type) bool {
	if isNil(t) || c.collected[t] || !ShouldReference(c.types, t, c.custom) {
		return false
	}
	c.collected[t] = true
	c.roots = append(c.roots, t)
	c.dirty = true
	return true
}

// Len returns the number of collected types.
func (c *Collector) Len() int { return len(c.roots) }

// Types returns the collected types in dependency order.
func (c *Collector) Types() []typegraph.Type {
	var out []typegraph.Type
	for _, comp := range c.Components() {
		out = append(out, comp...)
	}
	return out
}

// Components returns the collected types grouped by strongly connected
// component, dependencies first.
func (c *Collector) Components() [][]typegraph.Type {
	if c.dirty || c.components == nil {
		c.components = c.order()
		c.dirty = false
	}
	return c.components
}

type tarjanNode struct {
	index, lowlink int
	onStack        bool
}

// order runs Tarjan's algorithm from every root. Components are produced
// after all components reachable from them, so dependencies come first.
func (c *Collector) order() [][]typegraph.Type {
	var (
		index  int
		stack  []typegraph.Type
		nodes  = make(map[typegraph.Type]*tarjanNode)
		result = make([][]typegraph.Type, 0, len(c.roots))
	)
	var connect func(v typegraph.Type)
	connect = func(v typegraph.Type) {
		n := &tarjanNode{index: index, lowlink: index, onStack: true}
		nodes[v] = n
		index++
		stack = append(stack, v)

		for _, w := range Successors(v) {
			m, seen := nodes[w]
			switch {
			case !seen:
				connect(w)
				n.lowlink = min(n.lowlink, nodes[w].lowlink)
			case m.onStack:
				n.lowlink = min(n.lowlink, m.index)
			}
		}
		if n.lowlink != n.index {
			return
		}

		var comp []typegraph.Type
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			nodes[w].onStack = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		// Popped in reverse discovery order.
		var kept []typegraph.Type
		for i := len(comp) - 1; i >= 0; i-- {
			if c.collected[comp[i]] {
				kept = append(kept, comp[i])
			}
		}
		if len(kept) > 0 {
			result = append(result, kept)
		}
	}
	for _, r := range c.roots {
		if _, seen := nodes[r]; !seen {
			connect(r)
		}
	}
	return result
}
