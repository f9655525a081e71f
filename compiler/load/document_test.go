package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/typegraph"
)

const demoYAML = `namespace: Demo
models:
  - name: Pet
    minItems: 1
    properties:
      - name: meta
        type: "{ a: string }"
        optional: true
        default: {z: 1, a: [true, null, "x"]}
      - name: born
        type: utcDateTime
        default: {$scalar: utcDateTime.fromISO, args: "2024-01-01T00:00:00Z"}
`

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML("demo.yaml", []byte(demoYAML))
	require.NoError(t, err)
	assert.Equal(t, "demo.yaml", doc.Path)
	assert.Equal(t, "Demo", doc.Namespace)
	require.Len(t, doc.Models, 1)

	pet := doc.Models[0]
	assert.Equal(t, 3, pet.Line)
	require.NotNil(t, pet.MinItems)
	assert.Equal(t, int64(1), *pet.MinItems)
	require.Len(t, pet.Properties, 2)

	meta := pet.Properties[0]
	assert.Equal(t, 6, meta.Line)
	assert.True(t, meta.Optional)
	require.NotNil(t, meta.Default)
	def := meta.Default.Value
	require.Equal(t, typegraph.ValueObject, def.Kind)
	require.Len(t, def.Fields, 2)
	assert.Equal(t, "z", def.Fields[0].Name, "fields keep source order")
	assert.Equal(t, "1", def.Fields[0].Value.Num.String())
	assert.Equal(t, "a", def.Fields[1].Name)
	items := def.Fields[1].Value.Items
	require.Len(t, items, 3)
	assert.Equal(t, typegraph.BoolValue(true), items[0])
	assert.Equal(t, typegraph.NullValue(), items[1])
	assert.Equal(t, typegraph.StringValue("x"), items[2])

	born := pet.Properties[1].Default.Value
	assert.Equal(t, typegraph.ValueScalar, born.Kind)
	assert.Equal(t, "utcDateTime.fromISO", born.Constructor)
	assert.Nil(t, born.Scalar, "resolved later")
	require.Len(t, born.Args, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", born.Args[0].Str)
}

func TestParseYAMLEmpty(t *testing.T) {
	doc, err := ParseYAML("empty.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "empty.yaml", doc.Path)
	assert.Empty(t, doc.Models)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unknown field", "namespace: Demo\nbogus: 1\n", 2, "field bogus not found"},
		{"bad bound", "scalars:\n  - name: S\n    minValue: abc\n", 0, "invalid numeric literal"},
		{"bad constructor", "models:\n  - name: M\n    properties:\n      - name: p\n        type: string\n        default: {$scalar: now}\n", 0, "scalar.constructor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML("bad.yaml", []byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, zodgen.ErrInvalidSchema)
			assert.Contains(t, err.Error(), tt.msg)
			var serr *zodgen.SchemaError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, "bad.yaml", serr.File)
			if tt.line > 0 {
				assert.Equal(t, tt.line, serr.Line)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	src := `{
  "namespace": "Demo",
  "scalars": [{"name": "Big", "extends": "int64", "minValue": "9007199254740993", "maxValue": 1e3}],
  "models": [{
    "name": "Pet",
    "properties": [
      {"name": "n", "type": "Big", "format": "int", "default": {"$scalar": "Demo.Big.of", "args": [1]}},
      {"name": "o", "type": "Record<string>", "default": {"b": "x", "a": {"c": null}}}
    ]
  }],
  "enums": [{"name": "E", "members": [{"name": "A", "value": 1.5}, {"name": "B"}]}]
}`
	doc, err := ParseJSON("demo.json", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Demo", doc.Namespace)

	big := doc.Scalars[0]
	require.NotNil(t, big.MinValue)
	assert.Equal(t, "9007199254740993", big.MinValue.String(), "bounds keep full precision")
	assert.Equal(t, "1000", big.MaxValue.String())

	props := doc.Models[0].Properties
	assert.Equal(t, "int", props[0].Format)
	ctor := props[0].Default.Value
	assert.Equal(t, typegraph.ValueScalar, ctor.Kind)
	assert.Equal(t, "Demo.Big.of", ctor.Constructor)
	require.Len(t, ctor.Args, 1)
	assert.Equal(t, "1", ctor.Args[0].Num.String())

	obj := props[1].Default.Value
	require.Len(t, obj.Fields, 2)
	assert.Equal(t, "b", obj.Fields[0].Name)
	assert.Equal(t, "a", obj.Fields[1].Name)
	assert.Equal(t, typegraph.ValueNull, obj.Fields[1].Value.Fields[0].Value.Kind)

	members := doc.Enums[0].Members
	assert.Equal(t, "1.5", members[0].Value.Num.String())
	assert.Nil(t, members[1].Value)
}

func TestParseJSONErrors(t *testing.T) {
	for name, src := range map[string]string{
		"syntax":        `{"namespace": `,
		"unknown field": `{"bogus": true}`,
		"bad bound":     `{"scalars": [{"name": "S", "minValue": "x"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON("bad.json", []byte(src))
			require.Error(t, err)
			assert.ErrorIs(t, err, zodgen.ErrInvalidSchema)
		})
	}
}
