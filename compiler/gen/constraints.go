package gen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// numericBounds is a set of numeric constraints. Nil fields are unset.
type numericBounds struct {
	min, minExclusive *typegraph.Numeric
	max, maxExclusive *typegraph.Numeric
	safe              *bool
}

// merge folds o into b keeping the tightest bound at each end.
func (b *numericBounds) merge(o numericBounds) {
	b.min = maxNumeric(b.min, o.min)
	b.minExclusive = maxNumeric(b.minExclusive, o.minExclusive)
	b.max = minNumeric(b.max, o.max)
	b.maxExclusive = minNumeric(b.maxExclusive, o.maxExclusive)
	if b.safe == nil {
		b.safe = o.safe
	}
}

func maxNumeric(a, b *typegraph.Numeric) *typegraph.Numeric {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Cmp(*a) > 0:
		return b
	default:
		return a
	}
}

func minNumeric(a, b *typegraph.Numeric) *typegraph.Numeric {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Cmp(*a) < 0:
		return b
	default:
		return a
	}
}

func num(s string) *typegraph.Numeric {
	n := typegraph.MustNumeric(s)
	return &n
}

func bigNum(s string) *typegraph.Numeric {
	n := typegraph.MustNumeric(s).BigInt()
	return &n
}

// intrinsicBounds lists the value range of the sized standard numerics.
// Order matters: narrower scalars extend wider ones.
var intrinsicBounds = []struct {
	std    typegraph.Std
	bounds numericBounds
}{
	{typegraph.StdSafeint, numericBounds{safe: ptr(true)}},
	{typegraph.StdInt8, numericBounds{min: num("-128"), max: num("127")}},
	{typegraph.StdInt16, numericBounds{min: num("-32768"), max: num("32767")}},
	{typegraph.StdInt32, numericBounds{min: num("-2147483648"), max: num("2147483647")}},
	{typegraph.StdInt64, numericBounds{min: bigNum("-9223372036854775808"), max: bigNum("9223372036854775807")}},
	{typegraph.StdUint8, numericBounds{min: num("0"), max: num("255")}},
	{typegraph.StdUint16, numericBounds{min: num("0"), max: num("65535")}},
	{typegraph.StdUint32, numericBounds{min: num("0"), max: num("4294967295")}},
	{typegraph.StdUint64, numericBounds{min: bigNum("0"), max: bigNum("18446744073709551615")}},
	{typegraph.StdFloat32, numericBounds{min: num("-3.4028235e38"), max: num("3.4028235e38")}},
}

func ptr[T any](v T) *T { return &v }

// ConstraintParts returns the constraint method calls for t, such as
// .min(1).max(10) or .int().gte(0). The member, when given, contributes its
// own decorators.
func (s *Synthesizer) ConstraintParts(t typegraph.Type, member *typegraph.ModelProperty) ts.Parts {
	switch {
	case s.types.Extends(t, typegraph.StdNumeric):
		return s.numericConstraints(t, member)
	case s.types.Extends(t, typegraph.StdString):
		return s.stringConstraints(t, member)
	case s.types.Extends(t, typegraph.StdUTCDateTime),
		s.types.Extends(t, typegraph.StdOffsetDateTime),
		s.types.Extends(t, typegraph.StdDuration):
		enc := s.types.Encoding(t)
		if enc == nil {
			return nil
		}
		return numericParts(s.intrinsicBounds(s.encodedType(enc)))
	case s.types.IsArray(t):
		return s.arrayConstraints(t, member)
	default:
		return nil
	}
}

// sources returns the nodes whose decorators apply to t, most specific
// first: the member, t itself, then the base scalars inlined into t up to
// the first built-in one.
func (s *Synthesizer) sources(t typegraph.Type, member *typegraph.ModelProperty) []typegraph.Type {
	var out []typegraph.Type
	if member != nil {
		out = append(out, member)
	}
	out = append(out, t)
	sc, ok := t.(*typegraph.Scalar)
	if !ok {
		return out
	}
	for cur := sc.BaseScalar; cur != nil && !s.ShouldReference(cur); cur = cur.BaseScalar {
		out = append(out, cur)
		if IsBuiltIn(s.types, cur) {
			break
		}
	}
	return out
}

func (s *Synthesizer) intrinsicBounds(t typegraph.Type) numericBounds {
	std := s.types.StdBase(t)
	if std == nil || !s.types.Extends(std, typegraph.StdNumeric) {
		return numericBounds{}
	}
	for _, ib := range intrinsicBounds {
		if s.types.Extends(std, ib.std) {
			return ib.bounds
		}
	}
	return numericBounds{}
}

func (s *Synthesizer) numericConstraints(t typegraph.Type, member *typegraph.ModelProperty) ts.Parts {
	var decl numericBounds
	for _, src := range s.sources(t, member) {
		c := s.types.Constraints(src)
		decl.merge(numericBounds{
			min:          c.MinValue,
			minExclusive: c.MinValueExclusive,
			max:          c.MaxValue,
			maxExclusive: c.MaxValueExclusive,
		})
	}
	// An inclusive and an exclusive bound at the same end: keep the tighter.
	if decl.min != nil && decl.minExclusive != nil {
		if decl.minExclusive.Cmp(*decl.min) > 0 {
			decl.min = nil
		} else {
			decl.minExclusive = nil
		}
	}
	if decl.max != nil && decl.maxExclusive != nil {
		if decl.maxExclusive.Cmp(*decl.max) < 0 {
			decl.max = nil
		} else {
			decl.maxExclusive = nil
		}
	}

	intrinsic := s.intrinsicBounds(t)
	if intrinsic.min != nil {
		switch {
		case decl.min != nil:
			if intrinsic.min.Cmp(*decl.min) > 0 {
				decl.min = nil
			} else {
				intrinsic.min = nil
			}
		case decl.minExclusive != nil:
			if intrinsic.min.Cmp(*decl.minExclusive) > 0 {
				decl.minExclusive = nil
			} else {
				intrinsic.min = nil
			}
		}
	}
	if intrinsic.max != nil {
		switch {
		case decl.max != nil:
			if intrinsic.max.Cmp(*decl.max) < 0 {
				decl.max = nil
			} else {
				intrinsic.max = nil
			}
		case decl.maxExclusive != nil:
			if intrinsic.max.Cmp(*decl.maxExclusive) < 0 {
				decl.maxExclusive = nil
			} else {
				intrinsic.max = nil
			}
		}
	}

	var final numericBounds
	final.merge(intrinsic)
	final.merge(decl)
	return numericParts(final)
}

func numericParts(b numericBounds) ts.Parts {
	var parts ts.Parts
	if b.safe != nil && *b.safe {
		parts = append(parts, ts.Call("safe")...)
	}
	for _, c := range []struct {
		name  string
		value *typegraph.Numeric
	}{
		{"min", b.min},
		{"minExclusive", b.minExclusive},
		{"max", b.max},
		{"maxExclusive", b.maxExclusive},
	} {
		if c.value == nil {
			continue
		}
		if c.name == "min" && c.value.Sign() == 0 {
			parts = append(parts, ts.Call("nonnegative")...)
			continue
		}
		parts = append(parts, ts.Call(numericMethod(c.name), ts.Raw(c.value.String()))...)
	}
	return parts
}

// numericMethod maps a bound name to its Zod method. It panics on names it
// does not know.
func numericMethod(name string) string {
	switch name {
	case "min":
		return "gte"
	case "max":
		return "lte"
	case "minExclusive":
		return "gt"
	case "maxExclusive":
		return "lt"
	default:
		panic(fmt.Errorf("%w: %s", zodgen.ErrUnknownConstraint, name))
	}
}

// stringFormats maps format names to Zod string methods.
var stringFormats = map[string]string{
	"email":     "email",
	"uuid":      "uuid",
	"url":       "url",
	"uri":       "url",
	"date-time": "datetime",
	"datetime":  "datetime",
	"date":      "date",
	"time":      "time",
	"duration":  "duration",
	"ipv4":      "ip",
	"ipv6":      "ip",
	"ip":        "ip",
	"cuid":      "cuid",
	"cuid2":     "cuid2",
	"ulid":      "ulid",
	"emoji":     "emoji",
	"nanoid":    "nanoid",
	"base64":    "base64",
}

func (s *Synthesizer) stringConstraints(t typegraph.Type, member *typegraph.ModelProperty) ts.Parts {
	var (
		minLength, maxLength *float64
		pattern, format      string
	)
	for _, src := range s.sources(t, member) {
		c := s.types.Constraints(src)
		if c.MinLength != nil && (minLength == nil || *c.MinLength > *minLength) {
			minLength = c.MinLength
		}
		if c.MaxLength != nil && (maxLength == nil || *c.MaxLength < *maxLength) {
			maxLength = c.MaxLength
		}
		if pattern == "" {
			pattern = c.Pattern
		}
		if format == "" {
			format = c.Format
		}
	}

	var parts ts.Parts
	if minLength != nil && *minLength != 0 {
		parts = append(parts, ts.Call("min", ts.Raw(typegraph.FormatJSNumber(*minLength)))...)
	}
	if maxLength != nil && !math.IsInf(*maxLength, 0) {
		parts = append(parts, ts.Call("max", ts.Raw(typegraph.FormatJSNumber(*maxLength)))...)
	}
	if pattern != "" {
		parts = append(parts, ts.Call("regex", ts.Raw(regexLiteral(pattern)))...)
	}
	if format != "" {
		if method, ok := stringFormats[strings.ToLower(format)]; ok {
			parts = append(parts, ts.Call(method)...)
		} else {
			s.logger.Debug("zodgen: unsupported string format", "type", typegraph.Name(t), "format", format)
		}
	}
	return parts
}

// regexLiteral returns pattern as a JavaScript regular expression literal.
func regexLiteral(pattern string) string {
	var b strings.Builder
	b.WriteByte('/')
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			b.WriteByte('\\')
		case r == '\n':
			b.WriteString(`\n`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('/')
	return b.String()
}

func (s *Synthesizer) arrayConstraints(t typegraph.Type, member *typegraph.ModelProperty) ts.Parts {
	c := s.types.Constraints(t)
	minItems, maxItems := c.MinItems, c.MaxItems
	if member != nil {
		mc := s.types.Constraints(member)
		if mc.MinItems != nil && (minItems == nil || *mc.MinItems > *minItems) {
			minItems = mc.MinItems
		}
		if mc.MaxItems != nil && (maxItems == nil || *mc.MaxItems < *maxItems) {
			maxItems = mc.MaxItems
		}
	}
	var parts ts.Parts
	if minItems != nil && *minItems > 0 {
		parts = append(parts, ts.Call("min", ts.Raw(strconv.FormatInt(*minItems, 10)))...)
	}
	if maxItems != nil && *maxItems > 0 {
		parts = append(parts, ts.Call("max", ts.Raw(strconv.FormatInt(*maxItems, 10)))...)
	}
	return parts
}
