package gen

import (
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// BaseSchemaParts returns the structural schema of t without constraints,
// modifiers or description, e.g. z.object({...}) or z.string().
func (s *Synthesizer) BaseSchemaParts(t typegraph.Type) ts.Parts {
	switch t := t.(type) {
	case *typegraph.Intrinsic:
		return s.intrinsicBase(t)
	case *typegraph.StringLiteral, *typegraph.NumberLiteral, *typegraph.BooleanLiteral:
		return s.literalBase(t)
	case *typegraph.Scalar:
		return s.scalarBase(t)
	case *typegraph.Model:
		return s.modelBase(t)
	case *typegraph.Union:
		return s.unionBase(t)
	case *typegraph.Enum:
		return s.enumBase(t)
	case *typegraph.ModelProperty:
		return s.BaseSchemaParts(t.Type)
	case *typegraph.EnumMember:
		if t.Value != nil {
			return s.literalBase(s.types.CreateLiteral(t.Value))
		}
		return s.literalBase(s.types.CreateLiteral(t.Name))
	case *typegraph.Tuple:
		items := make([]ts.Code, len(t.Values))
		for i, v := range t.Values {
			items[i] = s.NestedSchema(v)
		}
		return s.zodCall("tuple", ts.Array(items...))
	default:
		return s.zodCall("any")
	}
}

func (s *Synthesizer) intrinsicBase(t *typegraph.Intrinsic) ts.Parts {
	switch t.Name {
	case typegraph.IntrinsicNull:
		return s.zodCall("null")
	case typegraph.IntrinsicNever:
		return s.zodCall("never")
	case typegraph.IntrinsicUnknown:
		return s.zodCall("unknown")
	case typegraph.IntrinsicVoid:
		return s.zodCall("void")
	default:
		return s.zodCall("any")
	}
}

func (s *Synthesizer) literalBase(t typegraph.Type) ts.Parts {
	switch t := t.(type) {
	case *typegraph.StringLiteral:
		return s.zodCall("literal", ts.Str(t.Value))
	case *typegraph.NumberLiteral:
		return s.zodCall("literal", ts.Raw(t.Value.String()))
	case *typegraph.BooleanLiteral:
		return s.zodCall("literal", ts.Bool(t.Value))
	default:
		return s.zodCall("any")
	}
}

func (s *Synthesizer) scalarBase(t *typegraph.Scalar) ts.Parts {
	if t.BaseScalar != nil && s.ShouldReference(t.BaseScalar) {
		return ts.Parts{ts.RefPart(s.Refkey(t.BaseScalar))}
	}
	ext := func(std typegraph.Std) bool { return s.types.Extends(t, std) }
	switch {
	case ext(typegraph.StdBoolean):
		return s.zodCall("boolean")
	case ext(typegraph.StdNumeric):
		if !ext(typegraph.StdInteger) {
			// floats and decimals alike; Zod has no decimal type
			return s.zodCall("number")
		}
		if ext(typegraph.StdInt32) || ext(typegraph.StdUint32) || ext(typegraph.StdSafeint) {
			return s.zod(ts.Call("number"), ts.Call("int"))
		}
		return s.zodCall("bigint")
	case ext(typegraph.StdString):
		if ext(typegraph.StdURL) {
			return s.zod(ts.Call("string"), ts.Call("url"))
		}
		return s.zodCall("string")
	case ext(typegraph.StdBytes):
		return s.zodCall("any")
	case ext(typegraph.StdPlainDate):
		return s.coerceDate()
	case ext(typegraph.StdPlainTime):
		return s.zod(ts.Call("string"), ts.Call("time"))
	case ext(typegraph.StdUTCDateTime), ext(typegraph.StdOffsetDateTime):
		enc := s.types.Encoding(t)
		switch {
		case enc == nil:
			return s.coerceDate()
		case enc.Name == "rfc3339":
			return s.zod(ts.Call("string"), ts.Call("datetime"))
		default:
			// unixTimestamp, rfc7231 and custom encodings validate the
			// encoded representation.
			return s.scalarBase(s.encodedType(enc))
		}
	case ext(typegraph.StdDuration):
		enc := s.types.Encoding(t)
		if enc == nil || enc.Name == "ISO8601" {
			return s.zod(ts.Call("string"), ts.Call("duration"))
		}
		return s.scalarBase(s.encodedType(enc))
	default:
		return s.zodCall("any")
	}
}

func (s *Synthesizer) coerceDate() ts.Parts {
	return s.zod(ts.Parts{ts.ID("coerce")}, ts.Call("date"))
}

func (s *Synthesizer) encodedType(enc *typegraph.Encoding) *typegraph.Scalar {
	if enc.Type != nil {
		return enc.Type
	}
	return s.types.Std(typegraph.StdString)
}

func (s *Synthesizer) modelBase(t *typegraph.Model) ts.Parts {
	if s.types.IsArray(t) {
		return s.zodCall("array", s.NestedSchema(t.Indexer.Value))
	}

	var record, object *ts.MemberExpr
	switch {
	case IsRecord(s.types, t):
		record = s.zodExpr("record", s.NestedSchema(t.Indexer.Key), s.NestedSchema(t.Indexer.Value))
	case t.BaseModel != nil && IsRecord(s.types, t.BaseModel) && !IsDeclaration(s.types, t.BaseModel):
		idx := t.BaseModel.Indexer
		record = s.zodExpr("record", s.NestedSchema(idx.Key), s.NestedSchema(idx.Value))
	}
	if len(t.Properties) > 0 {
		props := make([]ts.Code, len(t.Properties))
		for i, p := range t.Properties {
			props[i] = s.property(p)
		}
		object = s.zodExpr("object", ts.Object(props...))
	}

	var parts ts.Parts
	switch {
	case object == nil && record == nil:
		parts = s.zodCall("object", ts.Object())
	case object != nil && record != nil:
		parts = s.zodCall("intersection", object, record)
	case object != nil:
		parts = object.Parts()
	default:
		parts = record.Parts()
	}

	base := t.BaseModel
	switch {
	case base == nil:
		return parts
	case s.ShouldReference(base):
		return ts.Parts{ts.RefPart(s.Refkey(base)), ts.ID("merge"), ts.Args(ts.Member(parts...))}
	case IsDeclaration(s.types, base) && !IsBuiltIn(s.types, base):
		// The base declaration is suppressed by a customization.
		return append(s.BaseSchemaParts(base), ts.ID("merge"), ts.Args(ts.Member(parts...)))
	default:
		return parts
	}
}

// property renders one object literal entry, dispatched through the
// property's Declare override.
func (s *Synthesizer) property(p *typegraph.ModelProperty) ts.Code {
	wrap := func(body ts.Code) ts.Code { return ts.Property(p.Name, body) }
	return s.declare(p, wrap(s.NestedSchema(p)), p.Name, nil, wrap)
}

func (s *Synthesizer) unionBase(u *typegraph.Union) ts.Parts {
	d := s.types.Discriminator(u)
	if u.IsExpression() || d == nil || !s.validDiscriminator(u, d) {
		items := make([]ts.Code, len(u.Variants))
		for i, v := range u.Variants {
			items[i] = s.NestedSchema(v.Type)
		}
		return s.zodCall("union", ts.Array(items...))
	}

	items := make([]ts.Code, len(u.Variants))
	for i, v := range u.Variants {
		if d.Envelope == typegraph.EnvelopeNone {
			items[i] = s.NestedSchema(v.Type)
			continue
		}
		envelope := s.types.CreateModel(
			s.types.CreateProperty(d.DiscriminatorPropertyName, s.types.CreateLiteral(v.Name)),
			s.types.CreateProperty(d.EnvelopePropertyName, v.Type),
		)
		items[i] = s.NestedSchema(envelope)
	}
	return s.zodCall("discriminatedUnion", ts.Str(d.DiscriminatorPropertyName), ts.Array(items...))
}

// validDiscriminator reports whether a discriminated union can be emitted
// as z.discriminatedUnion. Malformed unions fall back to z.union.
func (s *Synthesizer) validDiscriminator(u *typegraph.Union, d *typegraph.Discriminated) bool {
	if d.DiscriminatorPropertyName == "" {
		s.logger.Warn("zodgen: discriminated union without discriminator property", "union", u.Name)
		return false
	}
	for _, v := range u.Variants {
		if d.Envelope == typegraph.EnvelopeObject {
			if v.Name == "" {
				s.logger.Warn("zodgen: discriminated union variant without name", "union", u.Name)
				return false
			}
			continue
		}
		if !hasProperty(v.Type, d.DiscriminatorPropertyName) {
			s.logger.Warn("zodgen: discriminated union variant lacks discriminator",
				"union", u.Name, "variant", v.Name, "property", d.DiscriminatorPropertyName)
			return false
		}
	}
	return true
}

func hasProperty(t typegraph.Type, name string) bool {
	m, ok := t.(*typegraph.Model)
	for ; ok && m != nil; m = m.BaseModel {
		if m.Property(name) != nil {
			return true
		}
	}
	return false
}

func (s *Synthesizer) enumBase(e *typegraph.Enum) ts.Parts {
	items := make([]ts.Code, len(e.Members))
	for i, m := range e.Members {
		var lit ts.Code
		switch v := m.Value.(type) {
		case string:
			lit = ts.Str(v)
		case typegraph.Numeric:
			lit = ts.Raw(v.String())
		default:
			lit = ts.Str(m.Name)
		}
		items[i] = s.declare(m, lit, m.Name, nil, func(body ts.Code) ts.Code { return body })
	}
	return s.zodCall("enum", ts.Array(items...))
}
