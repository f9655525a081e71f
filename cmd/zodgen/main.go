// Package main provides the zodgen CLI.
//
// The CLI supports:
//   - generate: Emit a TypeScript module of Zod schemas from input documents
//   - watch: Regenerate whenever an input document changes
//   - graph: Dump the resolved type graph as JSON
//   - config show: Print the effective configuration
//
// Usage:
//
//	zodgen [flags] <command>
//
// Inputs are files or directories of .yaml, .yml, .json, .graphql and .gql
// documents. Without positional arguments the inputs listed in zodgen.yaml
// are used.
package main

func main() {
	Execute()
}
