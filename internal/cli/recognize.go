package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/facetower/pkg/observability"
	"github.com/matzehuels/facetower/pkg/observability/promhooks"
	"github.com/matzehuels/facetower/pkg/pipeline"
)

// runFlags holds the command-line flags that are not pipeline options.
type runFlags struct {
	config  string // TOML config file loaded before flag overrides
	output  string // output file (single format), base path, or "-" for stdout
	formats string // comma-separated output formats
	noCache bool   // bypass the result cache
	watch   bool   // re-run whenever the model file changes
	metrics string // write Prometheus metrics to this file ("-" for stderr)
}

// fileSuffixes maps output formats to the suffix appended to the base path.
// The report gets a compound suffix so it never overwrites a JSON fixture.
var fileSuffixes = map[string]string{
	pipeline.FormatJSON: ".report.json",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatSVG:  ".svg",
}

// recognizeCommand creates the recognize command, which writes a feature
// report by default.
func (c *CLI) recognizeCommand() *cobra.Command {
	return c.pipelineCommand(
		"recognize [model]",
		"Recognize drill holes and blend chains on a model fixture",
		`Recognize loads a model fixture (JSON, TOML or YAML), finds drill holes,
then finds blends on the remaining faces and groups them into chains.
The feature report is written next to the model as <name>.report.json.`,
		pipeline.FormatJSON,
	)
}

// renderCommand creates the render command, which draws the attributed graph
// as SVG by default.
func (c *CLI) renderCommand() *cobra.Command {
	return c.pipelineCommand(
		"render [model]",
		"Draw the attributed face adjacency graph",
		`Render runs recognition on a model fixture and draws its face adjacency
graph, colouring faces by the features recognized on them.`,
		pipeline.FormatSVG,
	)
}

func (c *CLI) pipelineCommand(use, short, long, defaultFormat string) *cobra.Command {
	var flags runFlags
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),

		ValidArgsFunction: completeModelFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveOptions(cmd, flags, opts, args, defaultFormat)
			if err != nil {
				return err
			}
			return c.runPipeline(cmd, resolved, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "TOML config file (flags override its values)")
	_ = cmd.MarkFlagFilename("config", "toml")
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): json, dot, svg (comma-separated, default "+defaultFormat+")")
	f.BoolVar(&flags.noCache, "no-cache", false, "bypass the result cache")
	f.BoolVarP(&flags.watch, "watch", "w", false, "re-run whenever the model file changes")
	f.StringVar(&flags.metrics, "metrics", "", "write Prometheus metrics to this file on exit (- for stderr)")

	f.Float64Var(&opts.MaxHoleRadius, "max-hole-radius", pipeline.DefaultMaxHoleRadius, "largest drill hole radius")
	f.BoolVar(&opts.AllowCones, "allow-cones", false, "accept conical bores as drill holes")
	f.BoolVar(&opts.SkipHoles, "skip-holes", false, "skip drill hole recognition")
	f.Float64Var(&opts.MaxBlendRadius, "max-blend-radius", pipeline.DefaultMaxBlendRadius, "largest blend radius")
	f.BoolVar(&opts.Blocking, "blocking", false, "stop blend propagation at rejected faces")
	f.IntVar(&opts.MinBlendNeighbors, "min-neighbors", pipeline.DefaultMinBlendNeighbors, "blend neighbors a vertex blend needs")
	f.IntSliceVar(&opts.Seeds, "seeds", nil, "faces to start blend propagation from (default all)")
	f.BoolVar(&opts.SkipBlends, "skip-blends", false, "skip blend recognition")
	f.Float64Var(&opts.TolerancePct, "tolerance", pipeline.DefaultTolerancePct, "radius tolerance in percent for chain grouping")
	f.BoolVar(&opts.Detailed, "detailed", false, "label graph faces with surface and feature details")
	f.BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")

	return cmd
}

// resolveOptions layers the config file, the flags the user set and the
// positional model argument, in that order.
func resolveOptions(cmd *cobra.Command, flags runFlags, set pipeline.Options, args []string, defaultFormat string) (pipeline.Options, error) {
	var opts pipeline.Options
	if flags.config != "" {
		if err := opts.LoadFile(flags.config); err != nil {
			return opts, err
		}
	}

	f := cmd.Flags()
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"max-hole-radius", func() { opts.MaxHoleRadius = set.MaxHoleRadius }},
		{"allow-cones", func() { opts.AllowCones = set.AllowCones }},
		{"skip-holes", func() { opts.SkipHoles = set.SkipHoles }},
		{"max-blend-radius", func() { opts.MaxBlendRadius = set.MaxBlendRadius }},
		{"blocking", func() { opts.Blocking = set.Blocking }},
		{"min-neighbors", func() { opts.MinBlendNeighbors = set.MinBlendNeighbors }},
		{"seeds", func() { opts.Seeds = set.Seeds }},
		{"skip-blends", func() { opts.SkipBlends = set.SkipBlends }},
		{"tolerance", func() { opts.TolerancePct = set.TolerancePct }},
		{"detailed", func() { opts.Detailed = set.Detailed }},
		{"refresh", func() { opts.Refresh = set.Refresh }},
	}
	for _, o := range overrides {
		if f.Changed(o.flag) {
			o.apply()
		}
	}

	if len(args) == 1 {
		opts.Model = args[0]
	}
	if opts.Model == "" {
		return opts, fmt.Errorf("a model file is required (argument or config key \"model\")")
	}
	if f.Changed("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(flags.formats, defaultFormat)
	}
	if flags.output == "-" && len(opts.Formats) != 1 {
		return opts, fmt.Errorf("--output - needs exactly one format, got %d", len(opts.Formats))
	}
	opts.Logger = loggerFromContext(cmd.Context())
	return opts, opts.ValidateAndSetDefaults()
}

func (c *CLI) runPipeline(cmd *cobra.Command, opts pipeline.Options, flags runFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if flags.metrics != "" {
		reg := prometheus.NewRegistry()
		promhooks.New(reg).Install()
		defer observability.Reset()
		defer func() {
			if err := c.dumpMetrics(cmd, reg, flags.metrics); err != nil {
				logger.Warn("write metrics", "err", err)
			}
		}()
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	once := func(ctx context.Context) error {
		prog := newProgress(logger)
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		if err := writeArtifacts(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, opts, flags.output); err != nil {
			return err
		}
		printStats(cmd.ErrOrStderr(), result.Stats.FaceCount, result.Stats.HoleCount, result.Stats.ChainCount, result.CacheInfo.ReportHit)
		prog.done("recognized", "model", opts.Model, "cached", result.CacheInfo.ReportHit)
		return nil
	}

	err = once(ctx)
	if !flags.watch {
		return err
	}
	if err != nil {
		printError(cmd.ErrOrStderr(), "%v", err)
	}

	printInfo(cmd.ErrOrStderr(), "Watching %s for changes", opts.Model)
	return watchFile(ctx, opts.Model, logger, func() {
		if err := once(ctx); err != nil {
			printError(cmd.ErrOrStderr(), "%v", err)
		}
	})
}

// writeArtifacts writes each rendered format and lists the files written.
func writeArtifacts(stdout, status io.Writer, result *pipeline.Result, opts pipeline.Options, output string) error {
	if output == "-" {
		_, err := stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	for _, format := range opts.Formats {
		path := outputPath(output, opts.Model, format, len(opts.Formats) == 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		printFile(status, path)
	}
	return nil
}

// outputPath derives where an artifact is written. An explicit output is
// used as-is for a single format; otherwise it is a base path with any known
// suffix stripped. Without output, the model path minus its extension is the
// base.
func outputPath(output, model, format string, single bool) string {
	if output != "" && single {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(model, filepath.Ext(model))
	}
	for _, suffix := range fileSuffixes {
		base = strings.TrimSuffix(base, suffix)
	}
	return base + fileSuffixes[format]
}
