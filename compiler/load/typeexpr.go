package load

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/syssam/zodgen/typegraph"
)

// TypeExpr is a parsed type expression. The grammar is
//
//	union   = postfix { "|" postfix }
//	postfix = primary { "[" "]" }
//	primary = name [ "<" union { "," union } ">" ]
//	        | string | number | "true" | "false"
//	        | "[" [ union { "," union } ] "]"
//	        | "{" [ prop { "," prop } ] "}"
//	        | "(" union ")"
//	name    = ident { "." ident }
//	prop    = ident [ "?" ] ":" union
//
// so "Pet[]", "Record<string>", "Cat | Dog", "[string, int32]",
// `"on" | "off"` and "{ id: string, tag?: string }" are all valid.
type TypeExpr interface {
	fmt.Stringer
	typeExpr()
}

type (
	// NameExpr references a declaration, optionally qualified and with
	// template arguments (Array<T>, Record<T>).
	NameExpr struct {
		Path []string
		Args []TypeExpr
	}

	// ArrayExpr is the T[] shorthand.
	ArrayExpr struct {
		Elem TypeExpr
	}

	// UnionExpr is an anonymous union.
	UnionExpr struct {
		Variants []TypeExpr
	}

	// TupleExpr is a fixed-length list.
	TupleExpr struct {
		Items []TypeExpr
	}

	// LiteralExpr is a string, number or boolean literal type. Value is a
	// string, a typegraph.Numeric or a bool.
	LiteralExpr struct {
		Value any
	}

	// ObjectExpr is an anonymous model.
	ObjectExpr struct {
		Props []ObjectProp
	}
)

// ObjectProp is a property of an anonymous model.
type ObjectProp struct {
	Name     string
	Optional bool
	Type     TypeExpr
}

func (*NameExpr) typeExpr()    {}
func (*ArrayExpr) typeExpr()   {}
func (*UnionExpr) typeExpr()   {}
func (*TupleExpr) typeExpr()   {}
func (*LiteralExpr) typeExpr() {}
func (*ObjectExpr) typeExpr()  {}

func (e *NameExpr) String() string {
	s := strings.Join(e.Path, ".")
	if len(e.Args) > 0 {
		s += "<" + join(e.Args, ", ") + ">"
	}
	return s
}

func (e *ArrayExpr) String() string {
	if _, ok := e.Elem.(*UnionExpr); ok {
		return "(" + e.Elem.String() + ")[]"
	}
	return e.Elem.String() + "[]"
}

func (e *UnionExpr) String() string { return join(e.Variants, " | ") }

func (e *TupleExpr) String() string { return "[" + join(e.Items, ", ") + "]" }

func (e *LiteralExpr) String() string {
	switch v := e.Value.(type) {
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func (e *ObjectExpr) String() string {
	if len(e.Props) == 0 {
		return "{}"
	}
	parts := make([]string, len(e.Props))
	for i, p := range e.Props {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		parts[i] = p.Name + opt + ": " + p.Type.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func join(es []TypeExpr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

var typeExprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},
	{Name: "Number", Pattern: `-?\d[\d.eE+-]*`},
	{Name: "Punct", Pattern: `[.<>,\[\](){}|?:]`},
	{Name: "Invalid", Pattern: `.`},
})

var typeExprParser = participle.MustBuild[unionNode](
	participle.Lexer(typeExprLexer),
	participle.Elide("Whitespace"),
)

// Grammar nodes. They are converted into the TypeExpr tree once parsed.
type (
	unionNode struct {
		Variants []*postfixNode `@@ ( "|" @@ )*`
	}

	postfixNode struct {
		Primary *primaryNode `@@`
		Dims    []string     `( @"[" "]" )*`
	}

	primaryNode struct {
		Pos    lexer.Position
		Bool   *string     `  @( "true" | "false" )`
		Name   *nameNode   `| @@`
		String *string     `| @String`
		Number *string     `| @Number`
		Tuple  *tupleNode  `| @@`
		Object *objectNode `| @@`
		Group  *unionNode  `| "(" @@ ")"`
	}

	nameNode struct {
		Path []string  `@Ident ( "." @Ident )*`
		Args *argsNode `@@?`
	}

	argsNode struct {
		Pos  lexer.Position
		Open string       `@"<"`
		Args []*unionNode `( @@ ( "," @@ )* )? ">"`
	}

	tupleNode struct {
		Open  string       `@"["`
		Items []*unionNode `( @@ ( "," @@ )* )? "]"`
	}

	objectNode struct {
		Open  string      `@"{"`
		Props []*propNode `( @@ ( "," @@ )* ","? )? "}"`
	}

	propNode struct {
		Pos      lexer.Position
		Name     string     `( @Ident | @String )`
		Optional bool       `@"?"?`
		Type     *unionNode `":" @@`
	}
)

// ParseTypeExpr parses a type expression.
func ParseTypeExpr(src string) (TypeExpr, error) {
	n, err := typeExprParser.ParseString("", src)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, exprError(src, perr.Position(), perr.Message())
		}
		return nil, fmt.Errorf("type expression %q: %w", src, err)
	}
	return n.expr(src)
}

func exprError(src string, pos lexer.Position, msg string) error {
	return fmt.Errorf("type expression %q: column %d: %s", src, pos.Column, msg)
}

func (n *unionNode) expr(src string) (TypeExpr, error) {
	variants := make([]TypeExpr, 0, len(n.Variants))
	for _, v := range n.Variants {
		e, err := v.expr(src)
		if err != nil {
			return nil, err
		}
		variants = append(variants, e)
	}
	if len(variants) == 1 {
		return variants[0], nil
	}
	return &UnionExpr{Variants: variants}, nil
}

func (n *postfixNode) expr(src string) (TypeExpr, error) {
	e, err := n.Primary.expr(src)
	if err != nil {
		return nil, err
	}
	for range n.Dims {
		e = &ArrayExpr{Elem: e}
	}
	return e, nil
}

func (n *primaryNode) expr(src string) (TypeExpr, error) {
	switch {
	case n.Bool != nil:
		return &LiteralExpr{Value: *n.Bool == "true"}, nil
	case n.Name != nil:
		return n.Name.expr(src)
	case n.String != nil:
		s, err := unquote(*n.String)
		if err != nil {
			return nil, exprError(src, n.Pos, "invalid string "+*n.String)
		}
		return &LiteralExpr{Value: s}, nil
	case n.Number != nil:
		v, err := typegraph.ParseNumeric(*n.Number)
		if err != nil {
			return nil, exprError(src, n.Pos, "invalid number "+*n.Number)
		}
		return &LiteralExpr{Value: v}, nil
	case n.Tuple != nil:
		items, err := exprs(src, n.Tuple.Items)
		if err != nil {
			return nil, err
		}
		return &TupleExpr{Items: items}, nil
	case n.Object != nil:
		return n.Object.expr(src)
	default:
		return n.Group.expr(src)
	}
}

func (n *nameNode) expr(src string) (TypeExpr, error) {
	e := &NameExpr{Path: n.Path}
	if n.Args == nil {
		return e, nil
	}
	if len(n.Args.Args) == 0 {
		return nil, exprError(src, n.Args.Pos, strings.Join(n.Path, ".")+" has empty template arguments")
	}
	args, err := exprs(src, n.Args.Args)
	if err != nil {
		return nil, err
	}
	e.Args = args
	return e, nil
}

func (n *objectNode) expr(src string) (TypeExpr, error) {
	obj := &ObjectExpr{}
	for _, p := range n.Props {
		name := p.Name
		if strings.HasPrefix(name, `"`) || strings.HasPrefix(name, "'") {
			s, err := unquote(name)
			if err != nil {
				return nil, exprError(src, p.Pos, "invalid property name "+name)
			}
			name = s
		}
		t, err := p.Type.expr(src)
		if err != nil {
			return nil, err
		}
		obj.Props = append(obj.Props, ObjectProp{Name: name, Optional: p.Optional, Type: t})
	}
	return obj, nil
}

func exprs(src string, nodes []*unionNode) ([]TypeExpr, error) {
	out := make([]TypeExpr, 0, len(nodes))
	for _, n := range nodes {
		e, err := n.expr(src)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// unquote accepts double and single quoted strings.
func unquote(s string) (string, error) {
	if strings.HasPrefix(s, "'") {
		inner := strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`)
		s = strconv.Quote(inner)
		// Quote escaped the backslashes of the original escapes.
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return strconv.Unquote(s)
}
