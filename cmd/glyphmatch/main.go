package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wbrown/glyphmatch"
	"github.com/wbrown/glyphmatch/imageutil"
)

// app carries the state shared by every subcommand.
type app struct {
	verbose    bool
	configPath string
	logger     *zap.Logger
}

// evaluateFlags mirror the Config fields that can be overridden per run.
type evaluateFlags struct {
	workers     int
	scoreScale  int
	skipInvalid bool
	loader      string
	noCache     bool
	format      string
	watch       bool
	debounce    time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "glyphmatch",
		Short: "Nearest-neighbour glyph recognition over a labelled image corpus",
		Long: `glyphmatch recognises the digits 0-9 and the signs + and - from
small grayscale images. Each image is reduced to a four-number shape
descriptor and classified as the label of its nearest neighbour in a
corpus directory whose file names start with the glyph they show.

Hidden files in the corpus are never queried and never matched.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(
		a.newEvaluateCmd(),
		a.newClassifyCmd(),
		a.newDescribeCmd(),
		a.newGenerateCmd(),
	)
	return root
}

// loadConfig returns the config file named by --config, or the defaults.
func (a *app) loadConfig() (*glyphmatch.Config, error) {
	if a.configPath == "" {
		return glyphmatch.DefaultConfig(), nil
	}
	return glyphmatch.LoadConfig(a.configPath)
}

func (a *app) newEvaluateCmd() *cobra.Command {
	var f evaluateFlags

	cmd := &cobra.Command{
		Use:   "evaluate [corpus-dir]",
		Short: "Classify every corpus image against the others and print the confusion matrix",
		Long: `Runs leave-one-out classification over the corpus: every visible image
is matched against all other visible images, and the predictions are
tabulated into a 12x12 confusion matrix (rows are true labels, columns
predicted labels).

The "accuracy" line is a scaled score, correct x score-scale / 100,
kept for compatibility with earlier reports. The recognition rate line
is the true percentage.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.CorpusDir = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("workers") {
				cfg.Workers = f.workers
			}
			if flags.Changed("score-scale") {
				cfg.ScoreScale = f.scoreScale
			}
			if flags.Changed("skip-invalid") {
				cfg.SkipInvalid = f.skipInvalid
			}
			if flags.Changed("loader") {
				cfg.Loader = f.loader
			}
			if f.noCache {
				cfg.CacheDescriptors = false
			}
			return a.runEvaluate(cmd, cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&f.workers, "workers", "w", 1, "Number of queries classified concurrently")
	flags.IntVar(&f.scoreScale, "score-scale", glyphmatch.DefaultScoreScale, "K in the reported score correct*K/100")
	flags.BoolVar(&f.skipInvalid, "skip-invalid", false, "Skip files whose name does not start with a glyph")
	flags.StringVar(&f.loader, "loader", "imaging", "Image decoder: imaging, stdlib or gocv")
	flags.BoolVar(&f.noCache, "no-cache", false, "Recompute descriptors on every scan")
	flags.StringVarP(&f.format, "format", "f", "text", "Output format: text or yaml")
	flags.BoolVar(&f.watch, "watch", false, "Re-evaluate whenever the corpus directory changes")
	flags.DurationVar(&f.debounce, "debounce", glyphmatch.DefaultDebounce, "Quiet period before re-evaluating in --watch mode")
	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, cfg *glyphmatch.Config, f evaluateFlags) error {
	var write func(res *glyphmatch.EvaluationResult) error
	switch f.format {
	case "text":
		write = func(res *glyphmatch.EvaluationResult) error {
			return glyphmatch.WriteReport(cmd.OutOrStdout(), res)
		}
	case "yaml":
		write = func(res *glyphmatch.EvaluationResult) error {
			return glyphmatch.WriteYAML(cmd.OutOrStdout(), res)
		}
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", f.format)
	}

	p, err := glyphmatch.NewPipeline(cfg, a.logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if err := write(res); err != nil {
		return err
	}
	if !f.watch {
		return nil
	}

	return glyphmatch.Watch(ctx, cfg.CorpusDir, f.debounce, a.logger, func(ctx context.Context) error {
		if p.Cache != nil {
			p.Cache.Invalidate()
		}
		res, err := p.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return write(res)
	})
}

func (a *app) newClassifyCmd() *cobra.Command {
	var (
		corpusDir string
		loader    string
	)

	cmd := &cobra.Command{
		Use:   "classify <image>",
		Short: "Print the label of the corpus image closest to the given image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if corpusDir != "" {
				cfg.CorpusDir = corpusDir
			}
			if cmd.Flags().Changed("loader") {
				cfg.Loader = loader
			}
			p, err := glyphmatch.NewPipeline(cfg, a.logger)
			if err != nil {
				return err
			}
			corpus, err := p.Corpus()
			if err != nil {
				return err
			}

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			// The query's own label, if any, plays no part in matching.
			query := glyphmatch.Entry{Path: abs, Name: filepath.Base(abs)}

			m, ok, err := p.Matcher.FindClosest(query, corpus)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no corpus image to compare %s against", query.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, distance %.4f)\n",
				query.Name, m.Entry.Label, m.Entry.Name, m.Distance)
			return nil
		},
	}

	cmd.Flags().StringVarP(&corpusDir, "corpus", "c", "", "Corpus directory (overrides corpus_dir from --config)")
	cmd.Flags().StringVar(&loader, "loader", "imaging", "Image decoder: imaging, stdlib or gocv")
	return cmd
}

func (a *app) newDescribeCmd() *cobra.Command {
	var loader string

	cmd := &cobra.Command{
		Use:   "describe <image>...",
		Short: "Print the shape descriptor of each image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			load, err := imageutil.LoaderByName(loader)
			if err != nil {
				return err
			}
			m := glyphmatch.NewMatcher(load, nil, a.logger)
			for _, path := range args {
				d, err := m.Describe(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", filepath.Base(path), d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&loader, "loader", "imaging", "Image decoder: imaging, stdlib or gocv")
	return cmd
}

func (a *app) newGenerateCmd() *cobra.Command {
	defaults := glyphmatch.DefaultGenerateOptions()
	opts := glyphmatch.GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <dir>",
		Short: "Render a labelled glyph corpus from TrueType fonts",
		Long: `Renders each of the twelve glyphs for every font and size into dir,
named "<glyph>_<font>_<n>.png" so the files are ready for evaluate.

Fonts are either embedded Go fonts (goregular, gobold, gomono) or paths
to TTF files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := glyphmatch.GenerateCorpus(args[0], opts)
			if err != nil {
				return err
			}
			a.logger.Info("Generated corpus",
				zap.String("dir", args[0]),
				zap.Int("images", len(paths)))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d images to %s\n", len(paths), args[0])
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.Fonts, "font", defaults.Fonts, "Embedded font names or TTF paths")
	flags.Float64SliceVar(&opts.Sizes, "size", defaults.Sizes, "Point sizes to render")
	flags.IntVar(&opts.Width, "width", defaults.Width, "Image width in pixels")
	flags.IntVar(&opts.Height, "height", defaults.Height, "Image height in pixels")
	return cmd
}
