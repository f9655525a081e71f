package gen

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// petStore builds a small graph: Pet refers to the Status enum and the
// Owner model, both declared after it.
func petStore() *typegraph.Program {
	p := typegraph.NewProgram()
	ns := p.Namespace("PetStore")
	str := p.Std(typegraph.StdString)

	pet := ns.AddModel(&typegraph.Model{Name: "Pet"})
	owner := ns.AddModel(&typegraph.Model{Name: "Owner"})
	owner.AddProperty(prop("name", str))
	status := ns.AddEnum(&typegraph.Enum{Name: "Status"})
	status.AddMember(&typegraph.EnumMember{Name: "Available", Value: "available"})
	status.AddMember(&typegraph.EnumMember{Name: "Sold", Value: "sold"})

	pet.AddProperty(&typegraph.ModelProperty{Name: "name", Type: str, Constraints: typegraph.Constraints{MinLength: float(1)}})
	pet.AddProperty(&typegraph.ModelProperty{Name: "tag", Type: str, Optional: true})
	pet.AddProperty(prop("status", status))
	pet.AddProperty(&typegraph.ModelProperty{Name: "owner", Type: owner, Optional: true})
	return p
}

const petStoreOut = `// Code generated by zodgen, DO NOT EDIT.

import { z } from "zod";

export const status = z.enum(["available", "sold"]);

export const owner = z.object({
  name: z.string(),
});

export const pet = z.object({
  name: z.string().min(1),
  tag: z.string().optional(),
  status: status,
  owner: owner.optional(),
});
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestEmitterRender(t *testing.T) {
	p := petStore()
	e := NewEmitter(p, MustNewConfig(WithLogger(quietLogger())))

	out, err := e.Render()
	require.NoError(t, err)
	assert.Equal(t, petStoreOut, string(out))
	assert.Equal(t, 3, e.Collector().Len())

	// Collecting again is a no-op.
	e.Collect()
	assert.Equal(t, 3, e.Collector().Len())
}

func TestEmitterRenderDeterministic(t *testing.T) {
	first, err := NewEmitter(petStore(), MustNewConfig(WithLogger(quietLogger()))).Render()
	require.NoError(t, err)
	second, err := NewEmitter(petStore(), MustNewConfig(WithLogger(quietLogger()))).Render()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmitterRenderOptions(t *testing.T) {
	p := petStore()
	cfg := MustNewConfig(
		WithLogger(quietLogger()),
		WithHeader(""),
		WithNamePolicy("none"),
		WithZodModule("zod/v4"),
		WithEnumsAsUnions(true),
	)
	out, err := NewEmitter(p, cfg).Render()
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "import { z } from \"zod/v4\";\n\nexport const Owner = z.object({"), s)
	assert.Contains(t, s, `status: z.union([z.literal("available"), z.literal("sold")]),`)
	assert.Contains(t, s, "owner: Owner.optional(),")
	assert.NotContains(t, s, "z.enum")
}

func TestEmitterNilConfig(t *testing.T) {
	e := NewEmitter(petStore(), nil)
	assert.NotNil(t, e.Synthesizer())
	assert.Equal(t, DefaultFilename, e.File().Path)
}

func TestEmitterNavigation(t *testing.T) {
	p := typegraph.NewProgram()
	api := p.Namespace("Api")
	models := p.Namespace("Api.Models")
	str := p.Std(typegraph.StdString)

	receipt := model(models, "Receipt", prop("id", str))
	order := model(models, "Order", prop("sku", str))
	api.AddOperation(&typegraph.Operation{
		Name:       "create",
		Parameters: p.CreateModel(prop("body", order)),
		ReturnType: receipt,
	})
	svc := api.AddInterface(&typegraph.Interface{Name: "Orders"})
	cancel := models.AddUnion(&typegraph.Union{Name: "CancelResult"})
	cancel.AddVariant(&typegraph.UnionVariant{Name: "ok", Type: receipt})
	svc.AddOperation(&typegraph.Operation{Name: "cancel", ReturnType: cancel})

	// Declarations placed in the built-in namespace are never emitted.
	p.StdNamespace().AddModel(&typegraph.Model{Name: "Hidden"})

	e := NewEmitter(p, MustNewConfig(WithLogger(quietLogger())))
	e.Collect()
	assert.Equal(t, []typegraph.Type{order, receipt, cancel}, e.Collector().Types())
}

func TestEmitterNavigationOrder(t *testing.T) {
	p := typegraph.NewProgram()
	ns := p.Namespace("Demo")
	str := p.Std(typegraph.StdString)

	color := ns.AddEnum(&typegraph.Enum{Name: "Color"})
	color.AddMember(&typegraph.EnumMember{Name: "Red"})
	u := ns.AddUnion(&typegraph.Union{Name: "Shape"})
	u.AddVariant(&typegraph.UnionVariant{Type: str})
	id := ns.AddScalar(&typegraph.Scalar{Name: "ID", BaseScalar: str})
	m := model(ns, "Pet")
	child := p.Namespace("Demo.Inner")
	inner := model(child, "Inner")

	e := NewEmitter(p, MustNewConfig(WithLogger(quietLogger())))
	e.Collect()
	assert.Equal(t, []typegraph.Type{m, id, inner, u, color}, e.Collector().Types())
}

func TestEmitterRenderUnresolved(t *testing.T) {
	p := petStore()
	owner := p.Namespace("PetStore").Lookup("Owner")
	custom := NewCustomEmitOptions().ForType(owner, CustomEmit{Declare: func(*DeclareProps) ts.Code {
		return ts.Raw("// owner omitted")
	}})
	_, err := NewEmitter(p, MustNewConfig(WithLogger(quietLogger()), WithCustomEmit(custom))).Render()
	require.Error(t, err)
	assert.True(t, zodgen.IsGenerationError(err))
	assert.ErrorIs(t, err, zodgen.ErrUnresolvedReference)
}

func TestEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("writes module", func(t *testing.T) {
		dir := t.TempDir()
		cfg := MustNewConfig(WithTarget(dir), WithLogger(quietLogger()))
		require.NoError(t, Emit(ctx, petStore(), cfg))

		got, err := os.ReadFile(filepath.Join(dir, DefaultFilename))
		require.NoError(t, err)
		assert.Equal(t, petStoreOut, string(got))
	})

	t.Run("nested filename", func(t *testing.T) {
		dir := t.TempDir()
		cfg := MustNewConfig(WithTarget(dir), WithFilename("zod/pets.ts"), WithLogger(quietLogger()))
		require.NoError(t, Emit(ctx, petStore(), cfg))
		assert.FileExists(t, filepath.Join(dir, "zod", "pets.ts"))
	})

	t.Run("skips unchanged output", func(t *testing.T) {
		dir := t.TempDir()
		cache, err := OpenFileCache(filepath.Join(dir, CacheFilename))
		require.NoError(t, err)

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		cfg := MustNewConfig(WithTarget(dir), WithCache(cache), WithLogger(logger))
		require.NoError(t, Emit(ctx, petStore(), cfg))
		assert.Contains(t, logs.String(), "written=1")

		logs.Reset()
		require.NoError(t, Emit(ctx, petStore(), cfg))
		assert.Contains(t, logs.String(), "output unchanged")
		assert.Contains(t, logs.String(), "skipped=1")
	})

	t.Run("missing target", func(t *testing.T) {
		err := Emit(ctx, petStore(), MustNewConfig(WithLogger(quietLogger())))
		require.Error(t, err)
		assert.True(t, zodgen.IsConfigError(err))
		assert.Contains(t, err.Error(), "missing target directory")
	})
}
