// Package load reads input documents and resolves them into a type graph.
//
// Three formats are understood: the YAML and JSON declaration format (see
// Document) and GraphQL SDL. Files are parsed in parallel and resolved
// together, so declarations may reference each other across files.
package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/typegraph"
)

// Format is an input file format.
type Format string

// Input formats.
const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatGraphQL Format = "graphql"
)

var extensions = map[string]Format{
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".json":    FormatJSON,
	".graphql": FormatGraphQL,
	".gql":     FormatGraphQL,
}

// FormatOf returns the format of a file by extension.
func FormatOf(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Loader loads input files into a program.
type Loader struct {
	logger  *slog.Logger
	workers int
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithWorkers sets the number of files parsed in parallel.
func WithWorkers(n int) Option {
	return func(ld *Loader) {
		if n > 0 {
			ld.workers = n
		}
	}
}

// New returns a loader.
func New(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default(), workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the files at paths and resolves them into one program.
// Directories are searched recursively for files of a known format.
func (l *Loader) Load(ctx context.Context, paths ...string) (*typegraph.Program, error) {
	start := time.Now()
	files, err := Files(paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no input files in %s", zodgen.ErrMissingConfig, strings.Join(paths, ", "))
	}
	docs := make([]*Document, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := ParseFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			l.logger.Debug("zodgen: parsed input", "file", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	prog, err := Resolve(docs...)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("zodgen: loaded program", "files", len(files), "duration", time.Since(start))
	return prog, nil
}

// Files expands paths into the sorted list of input files. Hidden
// directories are skipped. A file named explicitly must have a known format.
func Files(paths ...string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("zodgen: input %s: %w", root, err)
		}
		if !info.IsDir() {
			if _, ok := FormatOf(root); !ok {
				return nil, fmt.Errorf("%w: input %s: unknown file format", zodgen.ErrMissingConfig, root)
			}
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := FormatOf(path); ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("zodgen: walk %s: %w", root, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// ParseFile reads and parses one input file.
func ParseFile(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("zodgen: read input: %w", err)
	}
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("zodgen: input %s: unknown file format", path)
	}
	return Parse(path, format, src)
}

// Parse decodes src in the given format. Path is used in errors.
func Parse(path string, format Format, src []byte) (*Document, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(path, src)
	case FormatJSON:
		return ParseJSON(path, src)
	case FormatGraphQL:
		return ParseGraphQL(path, src)
	default:
		return nil, fmt.Errorf("zodgen: unknown format %q", format)
	}
}

// ParseYAML decodes a YAML document. An empty file is an empty document.
func ParseYAML(path string, src []byte) (*Document, error) {
	doc := &Document{}
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, zodgen.NewSchemaError(path, yamlErrorLine(err), "", "decode yaml", err)
	}
	doc.Path = path
	return doc, nil
}

// yamlErrorLine extracts the first line number reported by yaml.v3.
func yamlErrorLine(err error) int {
	msg := err.Error()
	if te := (*yaml.TypeError)(nil); errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(msg[i:], "line %d", &n); err != nil {
		return 0
	}
	return n
}

// ParseJSON decodes a JSON document.
func ParseJSON(path string, src []byte) (*Document, error) {
	doc := &Document{}
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, zodgen.NewSchemaError(path, 0, "", "decode json", err)
	}
	doc.Path = path
	return doc, nil
}
