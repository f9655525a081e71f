package gen

import (
	"regexp"
	"strings"

	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// MemberParts returns the modifiers a property adds to its type's schema:
// .optional() and .default(value).
func (s *Synthesizer) MemberParts(member *typegraph.ModelProperty) ts.Parts {
	if member == nil {
		return nil
	}
	var parts ts.Parts
	if member.Optional {
		parts = append(parts, ts.Call("optional")...)
	}
	if member.Default != nil {
		parts = append(parts, ts.Call("default", ValueCode(member.Default))...)
	}
	return parts
}

// ValueCode renders a constant value as a TypeScript expression. A scalar
// constructor call renders as its first argument.
func ValueCode(v *typegraph.Value) ts.Code {
	if v == nil {
		return ts.Raw("undefined")
	}
	switch v.Kind {
	case typegraph.ValueString:
		return ts.Str(v.Str)
	case typegraph.ValueNumber:
		return ts.Raw(v.Num.String())
	case typegraph.ValueBoolean:
		return ts.Bool(v.Bool)
	case typegraph.ValueArray:
		items := make([]ts.Code, len(v.Items))
		for i, it := range v.Items {
			items[i] = ValueCode(it)
		}
		return ts.Array(items...)
	case typegraph.ValueObject:
		props := make([]ts.Code, len(v.Fields))
		for i, f := range v.Fields {
			props[i] = ts.Property(f.Name, ValueCode(f.Value))
		}
		return ts.Object(props...)
	case typegraph.ValueScalar:
		if len(v.Args) == 0 {
			return ts.Raw("undefined")
		}
		return ValueCode(v.Args[0])
	default:
		return ts.Null()
	}
}

var newlines = regexp.MustCompile(`[\r\n]+`)

// DescriptionParts returns .describe("...") carrying the documentation of
// the member, or of t when the member has none. Built-in types are never
// described.
func (s *Synthesizer) DescriptionParts(t typegraph.Type, member *typegraph.ModelProperty) ts.Parts {
	var sources []typegraph.Type
	if member != nil && !IsBuiltIn(s.types, member) {
		sources = append(sources, member)
	}
	if !IsBuiltIn(s.types, t) {
		sources = append(sources, t)
	}
	for _, src := range sources {
		if doc := s.types.Doc(src); doc != "" {
			return ts.Call("describe", ts.Raw(describeLiteral(doc)))
		}
	}
	return nil
}

// describeLiteral quotes doc as a single-line string literal.
func describeLiteral(doc string) string {
	doc = newlines.ReplaceAllString(doc, " ")
	doc = strings.ReplaceAll(doc, `\`, `\\`)
	doc = strings.ReplaceAll(doc, `"`, `\"`)
	return `"` + doc + `"`
}
