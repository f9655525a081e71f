package gen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("// Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "// Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithTarget(t *testing.T) {
	t.Run("sets target", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithTarget("./src/schemas")(c))
		assert.Equal(t, "./src/schemas", c.Target)
	})

	t.Run("empty target returns error", func(t *testing.T) {
		c := &Config{}
		err := WithTarget("")(c)

		require.Error(t, err)
		assert.True(t, zodgen.IsConfigError(err))
		assert.ErrorIs(t, err, zodgen.ErrMissingConfig)
	})
}

func TestWithFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"plain", "schemas.ts", false},
		{"nested", "zod/models.ts", false},
		{"wrong extension", "models.js", true},
		{"absolute", "/tmp/models.ts", true},
		{"escapes target", "../models.ts", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithFilename(tt.file)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, zodgen.IsConfigError(err))
				assert.Empty(t, c.Filename)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.file, c.Filename)
			}
		})
	}
}

func TestWithNamePolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  string
		in, out string
		wantErr bool
	}{
		{"camel", "camel", "PetStore", "petStore", false},
		{"pascal", "pascal", "pet_store", "PetStore", false},
		{"none", "none", "Pet_store", "Pet_store", false},
		{"case insensitive", "Camel", "PetStore", "petStore", false},
		{"invalid", "snake", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithNamePolicy(tt.policy)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, zodgen.IsConfigError(err))
				assert.Contains(t, err.Error(), "use camel, pascal, or none")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c.NamePolicy)
			assert.Equal(t, tt.out, c.NamePolicy(tt.in))
		})
	}
}

func TestWithWidth(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWidth(120)(c))
	assert.Equal(t, 120, c.Width)

	for _, n := range []int{0, -1} {
		err := WithWidth(n)(c)
		require.Error(t, err)
		assert.True(t, zodgen.IsConfigError(err))
	}
	assert.Equal(t, 120, c.Width)
}

func TestWithZodModule(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithZodModule("zod/v4")(c))
	assert.Equal(t, "zod/v4", c.ZodModule)

	err := WithZodModule("")(c)
	require.Error(t, err)
	assert.True(t, zodgen.IsConfigError(err))
}

func TestWithCustomEmit(t *testing.T) {
	t.Run("sets options", func(t *testing.T) {
		o := NewCustomEmitOptions()
		c := &Config{}
		require.NoError(t, WithCustomEmit(o)(c))
		assert.Same(t, o, c.Custom)
	})

	t.Run("nil options returns error", func(t *testing.T) {
		err := WithCustomEmit(nil)(&Config{})
		require.Error(t, err)
		assert.True(t, zodgen.IsConfigError(err))
	})
}

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(slog.NewTextHandler(&buf, nil))
		c := &Config{}
		require.NoError(t, WithLogger(l)(c))
		assert.Same(t, l, c.logger())
	})

	t.Run("nil logger returns error", func(t *testing.T) {
		err := WithLogger(nil)(&Config{})
		require.Error(t, err)
		assert.True(t, zodgen.IsConfigError(err))
	})

	t.Run("defaults to slog default", func(t *testing.T) {
		assert.Same(t, slog.Default(), (&Config{}).logger())
	})
}

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string) ([]byte, error) { return m[key], nil }
func (m mapCache) Set(_ context.Context, key string, v []byte) error { m[key] = v; return nil }
func (m mapCache) Delete(_ context.Context, key string) error        { delete(m, key); return nil }
func (m mapCache) Clear(_ context.Context) error                     { clear(m); return nil }

func TestWithCache(t *testing.T) {
	cache := mapCache{}
	c := &Config{}
	require.NoError(t, WithCache(cache)(c))
	assert.Equal(t, zodgen.Cache(cache), c.Cache)

	require.NoError(t, WithCache(nil)(c), "nil disables the cache")
	assert.Nil(t, c.Cache)
}

func TestConfigCustomizations(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")
	e := ns.AddEnum(&typegraph.Enum{Name: "Color"})
	id := ns.AddScalar(&typegraph.Scalar{Name: "ID", BaseScalar: p.Std(typegraph.StdString)})

	t.Run("disabled keeps registry", func(t *testing.T) {
		o := NewCustomEmitOptions()
		c := MustNewConfig(WithCustomEmit(o))
		assert.Same(t, o, c.customizations())
		assert.Nil(t, MustNewConfig().customizations())
	})

	t.Run("enabled adds enum preset", func(t *testing.T) {
		o := NewCustomEmitOptions().ForType(id, CustomEmit{NoDeclaration: true})
		c := MustNewConfig(WithCustomEmit(o), WithEnumsAsUnions(true))
		got := c.customizations()

		assert.NotSame(t, o, got)
		assert.False(t, ShouldReference(p, e, got))
		assert.False(t, ShouldReference(p, id, got))
		_, ok := o.forKind(typegraph.KindEnum)
		assert.False(t, ok, "caller registry is not modified")
	})

	t.Run("explicit enum entry wins", func(t *testing.T) {
		o := NewCustomEmitOptions().ForTypeKind(typegraph.KindEnum, CustomEmit{})
		got := MustNewConfig(WithCustomEmit(o), WithEnumsAsUnions(true)).customizations()
		assert.True(t, ShouldReference(p, e, got))
	})
}

func TestConfigApply(t *testing.T) {
	t.Run("applies multiple options", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithTarget("./out"),
			WithFilename("zod.ts"),
			WithHeader("// Custom"),
		)

		require.NoError(t, err)
		assert.Equal(t, "./out", c.Target)
		assert.Equal(t, "zod.ts", c.Filename)
		assert.Equal(t, "// Custom", c.Header)
	})

	t.Run("stops on first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithFilename("zod.js"), // Error
			WithTarget("./out"),    // Should not be applied
		)

		require.Error(t, err)
		assert.Empty(t, c.Filename)
		assert.Empty(t, c.Target)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithTarget(""),      // Error
			WithNamePolicy("x"), // Error
			WithWidth(100),
		)

		require.Error(t, err)
		unwrapper, ok := err.(interface{ Unwrap() []error })
		require.True(t, ok, "error should implement Unwrap() []error")
		assert.Len(t, unwrapper.Unwrap(), 2)
		assert.True(t, errors.Is(err, zodgen.ErrMissingConfig))
		assert.Equal(t, 100, c.Width)
	})

	t.Run("returns nil when all succeed", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.ApplyAll(WithTarget("./out"), WithEnumsAsUnions(true)))
		assert.True(t, c.EnumsAsUnions)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()

		require.NoError(t, err)
		assert.Equal(t, DefaultFilename, c.Filename)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, ts.DefaultWidth, c.Width)
		assert.Equal(t, ZodModule, c.ZodModule)
		assert.Equal(t, "myModel", c.NamePolicy("MyModel"))
		assert.Empty(t, c.Target)
		assert.False(t, c.EnumsAsUnions)
	})

	t.Run("creates config with options", func(t *testing.T) {
		c, err := NewConfig(
			WithTarget("./out"),
			WithNamePolicy("none"),
		)

		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "./out", c.Target)
		assert.Equal(t, "MyModel", c.NamePolicy("MyModel"))
	})

	t.Run("returns error on invalid option", func(t *testing.T) {
		c, err := NewConfig(
			WithTarget(""),
		)

		require.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestMustNewConfig(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		c := MustNewConfig(
			WithTarget("./out"),
		)

		require.NotNil(t, c)
		assert.Equal(t, "./out", c.Target)
	})

	t.Run("panics on error", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewConfig(WithTarget(""))
		})
	})
}
