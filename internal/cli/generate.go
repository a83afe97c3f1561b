package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barnsley/pkg/render"
)

// generateOpts holds the flags of the root command.
type generateOpts struct {
	renderFlags
	seed    uint64
	output  string
	noSave  bool
	noCache bool
	refresh bool
}

// generateCommand builds the command behind "barnsley [points]".
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for a reproducible fern (0 = random)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", render.DefaultSavePath, "output file")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "print the summary without writing files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if a cached sequence exists")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, args []string, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := cfg.PipelineOptions()
	if popts.Points, err = parsePoints(args, popts.Points); err != nil {
		return err
	}
	if err := opts.apply(cmd, &popts); err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		popts.Seed = opts.seed
	}
	popts.Refresh = opts.refresh

	output := cfg.Output.Path
	if cmd.Flags().Changed("output") {
		output = opts.output
		if f := formatFromOutput(output); f != "" && !cmd.Flags().Changed("format") {
			popts.Formats = []string{f}
		}
	}

	runner := c.newRunner(ctx, cfg, opts.noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d points...", popts.Points))
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Generated Barnsley fern")
	printStats(result.Stats.Points, result.CacheInfo.GenerateHit)
	printSummary(result.Summary, result.Sequence.Transforms())
	logger.Debug("pipeline finished",
		"run", result.RunID,
		"generate", result.Stats.GenerateTime,
		"render", result.Stats.RenderTime)

	if opts.noSave {
		printInfo("Skipped saving (--no-save)")
		return nil
	}
	return saveArtifacts(ctx, result.Artifacts, popts.Formats, output)
}

// saveArtifacts writes each artifact next to output, in format order.
func saveArtifacts(ctx context.Context, artifacts map[string][]byte, formats []string, output string) error {
	prog := newProgress(loggerFromContext(ctx))
	paths := outputPaths(output, formats)
	for _, f := range formats {
		if err := render.Save(paths[f], artifacts[f]); err != nil {
			return err
		}
		printFile(paths[f])
	}
	prog.done(fmt.Sprintf("Saved %d file(s)", len(formats)))
	return nil
}
