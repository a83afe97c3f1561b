package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	fernio "github.com/matzehuels/barnsley/pkg/io"
)

const defaultExportPath = "barnsley_fern.json"

// exportCommand writes the raw point sequence as JSON.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		seed    uint64
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [points]",
		Short: "Write the generated points as JSON",
		Long: `Export runs the chaos game and writes every point, together with the index of
the map that produced it, to a JSON file. The file can be plotted later with
"barnsley plot" without generating again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.PipelineOptions()
			if opts.Points, err = parsePoints(args, opts.Points); err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}

			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			seq, hit, err := runner.GenerateWithCacheInfo(ctx, opts)
			if err != nil {
				return err
			}
			if err := fernio.ExportJSON(seq, output); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Exported %d points", seq.Len()))

			printSuccess("Exported points")
			printStats(seq.Len(), hit)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible fern (0 = random)")
	cmd.Flags().StringVarP(&output, "output", "o", defaultExportPath, "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
