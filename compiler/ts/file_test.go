package ts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/zodgen"
)

var z = External("zod", "z")

func zcall(name string, args ...Code) *MemberExpr {
	return Member(append(Parts{RefPart(z)}, Call(name, args...)...)...)
}

func TestFormatMember(t *testing.T) {
	parts := append(Parts{RefPart(z)}, Call("number")...)
	parts = append(parts, Call("int")...)
	parts = append(parts, Call("gte", Raw("-20"))...)
	out, err := Format(Member(parts...))
	require.NoError(t, err)
	assert.Equal(t, "z.number().int().gte(-20)", out)
}

func TestFormatFlattensNestedMembers(t *testing.T) {
	inner := zcall("string")
	out, err := Format(Member(ExprPart(inner), ID("optional"), Args()))
	require.NoError(t, err)
	assert.Equal(t, "z.string().optional()", out)
}

func TestFormatObject(t *testing.T) {
	obj := zcall("object", Object(
		Property("name", zcall("string")),
		Property("foo-bar", zcall("number")),
		Raw("/* custom */"),
	))
	out, err := Format(obj)
	require.NoError(t, err)
	assert.Equal(t, `z.object({
  name: z.string(),
  "foo-bar": z.number(),
  /* custom */,
})`, out)

	out, err = Format(zcall("object", Object()))
	require.NoError(t, err)
	assert.Equal(t, "z.object({})", out)
}

func TestFormatArguments(t *testing.T) {
	t.Run("inline arguments", func(t *testing.T) {
		out, err := Format(zcall("record", zcall("string"), zcall("number")))
		require.NoError(t, err)
		assert.Equal(t, "z.record(z.string(), z.number())", out)
	})
	t.Run("multi line arguments break", func(t *testing.T) {
		obj := zcall("object", Object(Property("prop", zcall("literal", Str("hi")))))
		out, err := Format(zcall("intersection", obj, zcall("record", zcall("string"), zcall("number"))))
		require.NoError(t, err)
		assert.Equal(t, `z.intersection(
  z.object({
    prop: z.literal("hi"),
  }),
  z.record(z.string(), z.number())
)`, out)
	})
}

func TestFormatArray(t *testing.T) {
	t.Run("fits on one line", func(t *testing.T) {
		out, err := Format(zcall("enum", Array(Str("A"), Str("B"))))
		require.NoError(t, err)
		assert.Equal(t, `z.enum(["A", "B"])`, out)
	})
	t.Run("multi line elements", func(t *testing.T) {
		obj := zcall("object", Object(Property("oneItem", zcall("literal", Raw("true")))))
		out, err := Format(zcall("union", Array(obj, zcall("literal", Raw("true")))))
		require.NoError(t, err)
		assert.Equal(t, `z.union([
  z.object({
    oneItem: z.literal(true),
  }),
  z.literal(true)
])`, out)
	})
	t.Run("too wide", func(t *testing.T) {
		items := make([]Code, 12)
		for i := range items {
			items[i] = Str("abcdefgh")
		}
		out, err := Format(Array(items...))
		require.NoError(t, err)
		assert.Contains(t, out, "[\n  \"abcdefgh\",\n")
	})
	t.Run("empty", func(t *testing.T) {
		out, err := Format(Array())
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
	})
}

func TestFileRender(t *testing.T) {
	require := require.New(t)
	userKey := NewRefkey()
	otherKey := KeyOf("Other")

	f := NewFile("models.ts", CamelCase)
	f.Add(
		&VarDecl{Name: "MyModel", Refkeys: []Refkey{userKey}, Export: true, Body: Member(RefPart(otherKey), ID("optional"), Args())},
		&VarDecl{Name: "Other", Refkeys: []Refkey{otherKey}, Export: true, Body: zcall("string")},
	)
	out, err := f.Render()
	require.NoError(err)
	assert.Equal(t, `import { z } from "zod";

export const myModel = other.optional();

export const other = z.string();
`, string(out))
}

func TestFileRenderCollisions(t *testing.T) {
	f := NewFile("models.ts", CamelCase)
	f.Add(
		&VarDecl{Name: "z", Body: zcall("string")},
		&VarDecl{Name: "Thing", Body: Raw("1")},
		&VarDecl{Name: "thing", Let: true, Body: Raw("2")},
		&VarDecl{Name: "Class", Body: Raw("3")},
	)
	out, err := f.Render()
	require.NoError(t, err)
	assert.Equal(t, `import { z } from "zod";

const z_2 = z.string();

const thing = 1;

let thing_2 = 2;

const class_ = 3;
`, string(out))
}

func TestFileRenderUnresolved(t *testing.T) {
	f := NewFile("models.ts", nil)
	f.Add(&VarDecl{Name: "A", Body: Ref(KeyOf("missing"))})
	out, err := f.Render()
	require.Error(t, err)
	assert.True(t, errors.Is(err, zodgen.ErrUnresolvedReference))
	assert.Equal(t, "const A = undefined;\n", string(out))
}

func TestFileRenderEmpty(t *testing.T) {
	out, err := NewFile("models.ts", nil).Render()
	require.NoError(t, err)
	assert.Empty(t, out)
}
