package ts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamePolicies(t *testing.T) {
	tests := []struct {
		in, camel, pascal string
	}{
		{"MyModel", "myModel", "MyModel"},
		{"Test", "test", "Test"},
		{"shared_model", "sharedModel", "SharedModel"},
		{"Test2", "test2", "Test2"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.camel, CamelCase(tt.in))
			assert.Equal(t, tt.pascal, PascalCase(tt.in))
			assert.Equal(t, tt.in, Identity(tt.in))
		})
	}
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("camel")
	require.NoError(t, err)
	assert.Equal(t, "myModel", p("MyModel"))

	p, err = PolicyByName("none")
	require.NoError(t, err)
	assert.Equal(t, "MyModel", p("MyModel"))

	_, err = PolicyByName("snake")
	require.Error(t, err)
}

func TestIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("myModel"))
	assert.True(t, IsIdentifier("$ref_1"))
	assert.False(t, IsIdentifier("1abc"))
	assert.False(t, IsIdentifier("foo-bar"))
	assert.False(t, IsIdentifier(""))

	assert.Equal(t, "foo_bar", Identifier("foo-bar"))
	assert.Equal(t, "_1abc", Identifier("1abc"))
	assert.Equal(t, "default_", Identifier("default"))
	assert.Equal(t, "_", Identifier(""))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"hello"`, Quote("hello"))
	assert.Equal(t, `"say \"hi\""`, Quote(`say "hi"`))
	assert.Equal(t, `"<a&b>"`, Quote("<a&b>"))
	assert.Equal(t, `"line\nbreak"`, Quote("line\nbreak"))
}
