package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"exoml/adapters/catalog"
	"exoml/adapters/rng"
	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal/charts"
	"exoml/internal/config"
	"exoml/internal/export"
	"exoml/internal/viewer"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type options struct {
	catalogFile string
}

// load reads configuration and the catalog, honouring --catalog
func (o *options) load(ctx context.Context) (*config.Config, *catalog.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.catalogFile != "" {
		cfg.Catalog.File = o.catalogFile
	}
	src, err := catalog.SourceFor(cfg.Catalog.File, cfg.Catalog.DataPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func (o *options) controllerAt(ctx context.Context, arg string) (*config.Config, *viewer.Controller, error) {
	cfg, store, err := o.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("index must be an integer: %q", arg)
	}
	ctrl, err := viewer.NewController(store, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := ctrl.SelectSample(index); err != nil {
		return nil, nil, err
	}
	return cfg, ctrl, nil
}

func newSamplesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tID\tNAME\tDISPOSITION\tCONFIDENCE")
			for i, smp := range store.All() {
				conf := sample.Confidence(smp.Disposition, smp.Criteria)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\n", i, smp.ID, smp.Name, smp.Disposition, sample.RoundPercent(conf))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Print a sample's criteria and diagnostic metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctrl, err := opts.controllerAt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tab != "" {
				if err := ctrl.SwitchTab(tab); err != nil {
					return fmt.Errorf("%w: %q", err, tab)
				}
			}
			printView(cmd, ctrl.View())

			st := ctrl.State()
			renderer := charts.NewRenderer(rng.New(cfg.Charts.Population), cfg.Charts.Width, cfg.Charts.Height, cfg.Charts.MaxConcurrentRenders)
			sum, err := renderer.Summary(cmd.Context(), st.Sample, st.Tab)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "\npopulation: n=%d  median y=%.3g  sample rank x=%.0f%% y=%.0f%%\n",
					sum.Population, sum.MedianY, sum.RankX*100, sum.RankY*100)
			case !core.IsNotFoundError(err):
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "Diagnostic tab to show metrics for")
	return cmd
}

func printView(cmd *cobra.Command, v viewer.View) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s  [%s]\n", v.SampleID, v.SampleName, v.Disposition)
	fmt.Fprintf(out, "%s\n\n", v.ConfidenceText)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range v.Criteria {
		fmt.Fprintf(w, "%s\t%d\t%s\n", c.Label, c.Value, c.Tone)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%s metrics:\n", v.Tab)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, m := range v.Metrics {
		fmt.Fprintf(w, "  %s\t%s\n", m.Label, m.Value)
	}
	w.Flush()
}

func newConfidenceCmd(opts *options) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "confidence <index>",
		Short: "Print the confidence for a sample, optionally with adjusted criteria",
		Long: `Print the displayed confidence for a sample.

Example: exoml-cli confidence 2 --set transit-signal=90 --set false-positive=10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := opts.controllerAt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range sets {
				key, value, err := parseSet(s)
				if err != nil {
					return err
				}
				if err := ctrl.SetCriterion(key, value); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctrl.View().ConfidenceText)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Override a criterion, key=value (repeatable)")
	return cmd
}

// parseSet splits a "key=value" override
func parseSet(s string) (string, int, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", 0, fmt.Errorf("expected key=value, got %q", s)
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", 0, fmt.Errorf("value for %s must be an integer: %q", key, raw)
	}
	return strings.TrimSpace(key), value, nil
}

func newExportCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <index>",
		Short: "Write the JSON export for a sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := opts.controllerAt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st := ctrl.State()
			body, err := export.NewRecord(st, core.Now()).JSON()
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, export.DataFileName(st.Sample.ID))
			if err := os.WriteFile(path, body, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Output directory")
	return cmd
}

func newChartCmd(opts *options) *cobra.Command {
	var tab, outDir string
	var all bool

	cmd := &cobra.Command{
		Use:   "chart <index>",
		Short: "Render diagnostic charts to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctrl, err := opts.controllerAt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st := ctrl.State()

			tabs := []sample.Criterion{st.Tab}
			switch {
			case all:
				tabs = sample.AllCriteria()
			case tab != "":
				crit, err := sample.ParseCriterion(tab)
				if err != nil {
					return fmt.Errorf("%w: %q", core.ErrUnknownTab, tab)
				}
				tabs = []sample.Criterion{crit}
			}

			renderer := charts.NewRenderer(rng.New(cfg.Charts.Population), cfg.Charts.Width, cfg.Charts.Height, cfg.Charts.MaxConcurrentRenders)
			paths, err := renderCharts(cmd.Context(), renderer, st.Sample, tabs, outDir)
			for _, p := range paths {
				if p != "" {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "Tab to render (default: transit-signal)")
	cmd.Flags().BoolVar(&all, "all", false, "Render every tab")
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Output directory")
	cmd.MarkFlagsMutuallyExclusive("tab", "all")
	return cmd
}

// renderCharts renders the tabs concurrently. paths[i] is empty for tabs
// with nothing to plot.
func renderCharts(ctx context.Context, renderer *charts.Renderer, smp sample.Sample, tabs []sample.Criterion, outDir string) ([]string, error) {
	paths := make([]string, len(tabs))
	g, gctx := errgroup.WithContext(ctx)
	for i, tab := range tabs {
		i, tab := i, tab
		g.Go(func() error {
			png, err := renderer.RenderPNG(gctx, smp, tab)
			if err != nil {
				if core.IsNotFoundError(err) {
					return nil
				}
				return err
			}
			path := filepath.Join(outDir, fmt.Sprintf("exoml-%s-%s.png", smp.ID, tab))
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	return paths, g.Wait()
}
