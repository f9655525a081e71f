package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/zodgen/internal/cli"
	"github.com/syssam/zodgen/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [inputs...]",
	Short: "Regenerate Zod schemas on change",
	Long: `Generate once, then regenerate whenever an input document is created,
changed or removed. Changes are debounced (watch.debounce in zodgen.yaml).
Generation errors are reported and watching continues.`,
	Example: `  # Watch the inputs listed in zodgen.yaml
  zodgen watch

  # Watch a directory, writing to web/src/zod
  zodgen watch schemas/ --out web/src/zod --cache`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), resolveGenerateOptions(args), cfg.Watch, cmd.OutOrStdout())
	},
}

func init() {
	addGenerateFlags(watchCmd.Flags())
}

func runWatch(ctx context.Context, opts generateOptions, wc cli.WatchConfig, out io.Writer) error {
	regenerate := func(ctx context.Context, changed []string) {
		path, err := generate(ctx, opts)
		switch {
		case ctx.Err() != nil:
			// Interrupted.
		case err != nil:
			opts.logger().Error("zodgen: generate failed", "changed", changed, "error", err)
		case !quiet:
			fmt.Fprintf(out, "Generated %s\n", path)
		}
	}

	wopts := []watch.Option{watch.WithLogger(opts.logger())}
	if wc.Debounce > 0 {
		wopts = append(wopts, watch.WithDebounce(wc.Debounce))
	}
	w, err := watch.New(opts.Inputs, regenerate, wopts...)
	if err != nil {
		return cli.ConfigError("watching inputs", err)
	}

	regenerate(ctx, nil)
	if !quiet {
		fmt.Fprintf(out, "Watching %d directories, press Ctrl-C to stop\n", len(w.Watched()))
	}
	if err := w.Run(ctx); err != nil {
		return cli.GeneralError("watching inputs", err)
	}
	return nil
}
