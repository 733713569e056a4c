package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/dom"
	fibererrors "github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host/idle"
	"github.com/go-drift/fiber/pkg/host/memhost"
	"github.com/go-drift/fiber/pkg/logging"
	"github.com/go-drift/fiber/pkg/metrics"
)

// DefaultRenderTimeout bounds how long render waits for the first commit.
const DefaultRenderTimeout = 5 * time.Second

type renderOptions struct {
	*rootOptions
	metrics bool
	noColor bool
	timeout time.Duration
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: root}
	c := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a YAML node tree and print the host tree",
		Long: `Render reads a node tree from FILE, mounts it into an in-memory host
through an idle-time event loop and prints the committed host tree.

A document is one element mapping:

  type: ul
  props: {id: list}
  children:
    - {type: li, children: [one]}
    - two

Scalar children become text nodes; null and booleans leave an empty slot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runRender(c.Context(), c.OutOrStdout(), c.ErrOrStderr(), args[0], opts)
		},
	}
	c.Flags().BoolVar(&opts.metrics, "metrics", false, "print the renderer metrics in the prometheus text format")
	c.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	c.Flags().DurationVar(&opts.timeout, "timeout", DefaultRenderTimeout, "maximum time to wait for the first commit")
	return c
}

func runRender(ctx context.Context, stdout, stderr io.Writer, path string, opts *renderOptions) error {
	res, err := opts.resolve()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	node, err := ParseDocument(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	logger := logging.NewWriter(stderr, res.LogLevel, res.LogFormat)
	prev := fibererrors.SetHandler(&fibererrors.LogHandler{Logger: logger, Verbose: res.VerboseErrors})
	defer fibererrors.SetHandler(prev)

	collector := metrics.New(res.MetricsNamespace)
	registry := prometheus.NewRegistry()
	if err := collector.Register(registry); err != nil {
		return err
	}

	result, err := renderTree(ctx, node, core.Config{
		Logger:         logger,
		Metrics:        collector,
		SliceThreshold: res.SliceThreshold,
	}, res.FrameBudget, opts.timeout)
	if err != nil {
		return err
	}
	logger.Info("rendered",
		"file", path,
		"units", result.stats.Units,
		"placements", result.stats.Placements,
		"frames", result.frames,
		"duration", result.stats.Duration)

	var outOpts []termenv.OutputOption
	if opts.noColor {
		outOpts = append(outOpts, termenv.WithProfile(termenv.Ascii))
	}
	out := termenv.NewOutput(stdout, outOpts...)
	for _, child := range result.doc.Body().Children() {
		newTreeWriter(out).write(child, 0)
	}

	if opts.metrics {
		return writeMetrics(stdout, registry)
	}
	return nil
}

type renderResult struct {
	doc    *memhost.Document
	stats  core.CommitStats
	frames uint64
}

// renderTree mounts node into a fresh document driven by an idle.Loop and
// returns once the first commit is done. cfg.Host and cfg.Scheduler are
// replaced.
func renderTree(ctx context.Context, node *core.Node, cfg core.Config, frame, timeout time.Duration) (*renderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc := memhost.NewDocument()
	loop := idle.NewLoop(frame)
	result := &renderResult{doc: doc}
	committed := false

	cfg.Host, cfg.Scheduler = doc, loop
	cfg.OnCommit = func(stats core.CommitStats) {
		result.stats = stats
		committed = true
		cancel()
	}
	env := dom.NewEnvironment(cfg)
	if err := loop.Post(func() { env.Render(node, doc.Body()) }); err != nil {
		return nil, err
	}

	err := loop.Run(ctx)
	if !committed {
		return nil, fmt.Errorf("render did not commit: %w", err)
	}
	result.frames = loop.Frames()
	return result, nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
