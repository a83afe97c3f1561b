package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barnsley/pkg/errors"
	fernio "github.com/matzehuels/barnsley/pkg/io"
	"github.com/matzehuels/barnsley/pkg/render"
)

// plotCommand renders a sequence written by "barnsley export".
func (c *CLI) plotCommand() *cobra.Command {
	var (
		flags   renderFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "plot <points.json>",
		Short: "Plot a previously exported point file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := args[0]

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			seq, err := fernio.ImportJSON(input)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Infof("Loaded %d points from %s", seq.Len(), input)

			opts := cfg.PipelineOptions()
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + render.FormatPNG
			} else if f := formatFromOutput(output); f != "" && !cmd.Flags().Changed("format") {
				opts.Formats = []string{f}
			}

			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			artifacts, hit, err := runner.RenderWithCacheInfo(ctx, seq, opts)
			if err != nil {
				return err
			}

			printSuccess("Plotted %s", input)
			printStats(seq.Len(), hit)
			formats := opts.Formats
			if len(formats) == 0 {
				formats = []string{render.FormatPNG}
			}
			for _, p := range outputPaths(output, formats) {
				if filepath.Clean(p) == filepath.Clean(input) {
					return errors.New(errors.ErrCodeInvalidPath, "refusing to overwrite input %s", input)
				}
			}
			return saveArtifacts(ctx, artifacts, formats, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with .png)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
