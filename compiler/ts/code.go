// Package ts builds and prints TypeScript source.
//
// Code is an expression or statement tree. Declarations carry reference keys
// and references name a key rather than an identifier; names are assigned
// when a File is rendered, after every declaration in it is known, so a
// reference may precede the declaration it points to.
package ts

import (
	"github.com/google/uuid"
)

// Code is a node of the TypeScript tree.
type Code interface {
	code()
}

// Refkey identifies a declared symbol independently of its printed name.
type Refkey struct {
	v any
}

// KeyOf returns the refkey for a comparable value. Equal values give equal
// keys.
func KeyOf(v any) Refkey { return Refkey{v: v} }

// NewRefkey returns a fresh refkey, distinct from every other key.
func NewRefkey() Refkey { return Refkey{v: uuid.New()} }

// IsZero reports whether k is the zero key.
func (k Refkey) IsZero() bool { return k.v == nil }

type external struct {
	module string
	name   string
}

// External returns the refkey of an imported symbol. Referencing it adds
// `import { name } from "module"` to the rendered file.
func External(module, name string) Refkey {
	return Refkey{v: external{module: module, name: name}}
}

type partKind uint8

const (
	partID partKind = iota
	partRef
	partArgs
	partExpr
)

// Part is one link of a member chain: an identifier, a reference, a call
// argument list or an arbitrary expression.
type Part struct {
	kind partKind
	name string
	key  Refkey
	args []Code
	expr Code
}

// Parts is a sequence of member chain links.
type Parts []Part

// ID returns an identifier part.
func ID(name string) Part { return Part{kind: partID, name: name} }

// RefPart returns a part printed as the name bound to key.
func RefPart(key Refkey) Part { return Part{kind: partRef, key: key} }

// Args returns a call argument list part.
func Args(args ...Code) Part { return Part{kind: partArgs, args: args} }

// ExprPart returns a part printing c. A member expression is spliced.
func ExprPart(c Code) Part { return Part{kind: partExpr, expr: c} }

// Call returns the parts of `.name(args...)`.
func Call(name string, args ...Code) Parts {
	return Parts{ID(name), Args(args...)}
}

type (
	// MemberExpr is a chain such as z.string().min(1).
	MemberExpr struct {
		parts Parts
	}

	// VarDecl is a variable declaration statement.
	VarDecl struct {
		Name    string
		Refkeys []Refkey
		Export  bool
		Let     bool
		Body    Code
	}

	rawCode      struct{ text string }
	groupCode    struct{ items []Code }
	refCode      struct{ key Refkey }
	objectCode   struct{ items []Code }
	propertyCode struct {
		name  string
		value Code
	}
	arrayCode struct{ items []Code }
)

func (*MemberExpr) code()   {}
func (*VarDecl) code()      {}
func (*rawCode) code()      {}
func (*groupCode) code()    {}
func (*refCode) code()      {}
func (*objectCode) code()   {}
func (*propertyCode) code() {}
func (*arrayCode) code()    {}

// Member returns a member chain of parts. Parts wrapping another member
// chain are flattened into it.
func Member(parts ...Part) *MemberExpr {
	m := &MemberExpr{parts: make(Parts, 0, len(parts))}
	for _, p := range parts {
		if p.kind == partExpr {
			if inner, ok := p.expr.(*MemberExpr); ok {
				m.parts = append(m.parts, inner.parts...)
				continue
			}
		}
		m.parts = append(m.parts, p)
	}
	return m
}

// Parts returns the links of the chain.
func (m *MemberExpr) Parts() Parts { return m.parts }

// Raw returns verbatim source text.
func Raw(text string) Code { return &rawCode{text: text} }

// Group returns the concatenation of items.
func Group(items ...Code) Code { return &groupCode{items: items} }

// Ref returns an expression printed as the name bound to key.
func Ref(key Refkey) Code { return &refCode{key: key} }

// Object returns an object literal. Items are usually properties; each item
// is printed on its own line followed by a comma.
func Object(items ...Code) Code { return &objectCode{items: items} }

// Property returns an object literal entry. Keys that are not identifiers
// are quoted.
func Property(name string, value Code) Code { return &propertyCode{name: name, value: value} }

// Array returns an array literal.
func Array(items ...Code) Code { return &arrayCode{items: items} }

// Str returns a string literal.
func Str(s string) Code { return &rawCode{text: Quote(s)} }

// Bool returns a boolean literal.
func Bool(b bool) Code {
	if b {
		return &rawCode{text: "true"}
	}
	return &rawCode{text: "false"}
}

// Null returns the null literal.
func Null() Code { return &rawCode{text: "null"} }

// walk calls fn for c and every node below it, depth first.
func walk(c Code, fn func(Code)) {
	if c == nil {
		return
	}
	fn(c)
	switch c := c.(type) {
	case *MemberExpr:
		for _, p := range c.parts {
			switch p.kind {
			case partArgs:
				for _, a := range p.args {
					walk(a, fn)
				}
			case partExpr:
				walk(p.expr, fn)
			}
		}
	case *VarDecl:
		walk(c.Body, fn)
	case *groupCode:
		for _, it := range c.items {
			walk(it, fn)
		}
	case *objectCode:
		for _, it := range c.items {
			walk(it, fn)
		}
	case *propertyCode:
		walk(c.value, fn)
	case *arrayCode:
		for _, it := range c.items {
			walk(it, fn)
		}
	}
}
