package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/syssam/zodgen/compiler/gen"
	"github.com/syssam/zodgen/compiler/load"
	"github.com/syssam/zodgen/internal/cli"
)

var (
	genOut           string
	genFilename      string
	genHeader        string
	genNamePolicy    string
	genZodModule     string
	genWidth         int
	genEnumsAsUnions bool
	genCache         bool
	genStdout        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [inputs...]",
	Short: "Generate Zod schemas",
	Long: `Generate a TypeScript module of Zod schemas from input documents.

Inputs are files or directories. Directories are searched recursively for
.yaml, .yml, .json, .graphql and .gql documents; hidden directories are
skipped. All documents are merged into one program before emission.`,
	Example: `  # Generate from the inputs listed in zodgen.yaml
  zodgen generate

  # Generate from a directory into web/src/zod/models.ts
  zodgen generate schemas/ --out web/src/zod

  # PascalCase declaration names, enums as unions of literals
  zodgen generate schemas/ --name-policy pascal --enums-as-unions

  # Print the module instead of writing it
  zodgen generate schemas/api.yaml --stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := resolveGenerateOptions(args)
		if genStdout {
			return generateTo(cmd.Context(), opts, cmd.OutOrStdout())
		}
		path, err := generate(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", path)
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	addGenerateFlags(f)
	f.BoolVar(&genStdout, "stdout", false, "print the module instead of writing it")
}

// addGenerateFlags registers the flags shared by generate and watch.
func addGenerateFlags(f *pflag.FlagSet) {
	f.StringVar(&genOut, "out", "", "output directory (default: zod)")
	f.StringVar(&genFilename, "filename", "", "output file name (default: models.ts)")
	f.StringVar(&genHeader, "header", "", "comment placed at the top of the module")
	f.StringVar(&genNamePolicy, "name-policy", "", "declaration names: camel, pascal or none (default: camel)")
	f.StringVar(&genZodModule, "zod-module", "", `module z is imported from (default: "zod")`)
	f.IntVar(&genWidth, "width", 0, "line width of the printer (default: 80)")
	f.BoolVar(&genEnumsAsUnions, "enums-as-unions", false, "emit enums as unions of literals")
	f.BoolVar(&genCache, "cache", false, "skip rewriting unchanged output using a cache file")
}

// generateOptions are the resolved settings of one generation.
type generateOptions struct {
	Inputs        []string
	Dir           string
	Filename      string
	Header        string
	NamePolicy    string
	ZodModule     string
	Width         int
	EnumsAsUnions bool
	Cache         bool
	Logger        *slog.Logger
}

// resolveGenerateOptions resolves values: flags > config > defaults.
func resolveGenerateOptions(args []string) generateOptions {
	return generateOptions{
		Inputs:        resolveInputs(args),
		Dir:           resolveString(genOut, cfg.Output.Dir, "zod"),
		Filename:      resolveString(genFilename, cfg.Output.Filename, gen.DefaultFilename),
		Header:        resolveString(genHeader, cfg.Output.Header, gen.DefaultHeader),
		NamePolicy:    resolveString(genNamePolicy, cfg.Generate.NamePolicy, "camel"),
		ZodModule:     resolveString(genZodModule, cfg.Generate.ZodModule, gen.ZodModule),
		Width:         resolveInt(genWidth, cfg.Generate.Width),
		EnumsAsUnions: resolveBool(genEnumsAsUnions, cfg.Generate.EnumsAsUnions),
		Cache:         resolveBool(genCache, cfg.Output.Cache),
		Logger:        logger,
	}
}

func (o generateOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// config builds the emitter configuration. All invalid options are reported.
func (o generateOptions) config() (*gen.Config, error) {
	c, err := gen.NewConfig(gen.WithTarget(o.Dir))
	if err != nil {
		return nil, cli.ConfigError("invalid options", err)
	}
	opts := []gen.Option{
		gen.WithFilename(o.Filename),
		gen.WithHeader(o.Header),
		gen.WithNamePolicy(o.NamePolicy),
		gen.WithZodModule(o.ZodModule),
		gen.WithEnumsAsUnions(o.EnumsAsUnions),
		gen.WithLogger(o.logger()),
	}
	if o.Width > 0 {
		opts = append(opts, gen.WithWidth(o.Width))
	}
	if o.Cache {
		cache, err := gen.OpenFileCache(filepath.Join(o.Dir, gen.CacheFilename))
		if err != nil {
			return nil, cli.GeneralError("opening cache", err)
		}
		opts = append(opts, gen.WithCache(cache))
	}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, cli.ConfigError("invalid options", err)
	}
	return c, nil
}

// emitter loads the inputs and returns an emitter over the program.
func (o generateOptions) emitter(ctx context.Context) (*gen.Emitter, error) {
	c, err := o.config()
	if err != nil {
		return nil, err
	}
	prog, err := load.New(load.WithLogger(o.logger())).Load(ctx, o.Inputs...)
	if err != nil {
		return nil, cli.Classify("loading schemas", err)
	}
	return gen.NewEmitter(prog, c), nil
}

// generate writes the module and returns its path.
func generate(ctx context.Context, o generateOptions) (string, error) {
	e, err := o.emitter(ctx)
	if err != nil {
		return "", err
	}
	if err := e.Emit(ctx); err != nil {
		return "", cli.Classify("generating schemas", err)
	}
	return filepath.Join(o.Dir, o.Filename), nil
}

// generateTo renders the module to w.
func generateTo(ctx context.Context, o generateOptions, w io.Writer) error {
	e, err := o.emitter(ctx)
	if err != nil {
		return err
	}
	out, err := e.Render()
	if err != nil {
		return cli.Classify("generating schemas", err)
	}
	if _, err := w.Write(out); err != nil {
		return cli.GeneralError("writing output", err)
	}
	return nil
}
