package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggmark/internal/config"
	"github.com/gogpu/ggmark/internal/job"
)

func newRenderCmd() *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "render JOB...",
		Short: "Render job files to PNG or HTML",
		Long: `Render every job file. Jobs run concurrently and each prints the path it
wrote. With --watch, jobs are re-rendered whenever the job file or its
data file changes, until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && cmd.Flags().Changed("output") {
				return fmt.Errorf("--output needs exactly one job file, got %d", len(args))
			}
			if watchMode {
				return watch(cmd.Context(), args, cmd.Flags(), cmd.OutOrStdout())
			}
			paths, err := renderAll(cmd.Context(), args, cmd.Flags())
			for _, p := range paths {
				if p != "" {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default: job file name with the format extension)")
	f.String("format", config.DefaultFormat, "output format: png or html")
	f.String("render-mode", config.DefaultRenderMode, "label backend: canvas or css (css needs html)")
	f.Int("width", config.DefaultWidth, "image width in pixels")
	f.Int("height", config.DefaultHeight, "image height in pixels")
	f.String("background", config.DefaultBackground, "background color")
	f.Bool("use-map", false, "project x/y from longitude/latitude to Web Mercator")
	f.BoolVarP(&watchMode, "watch", "w", false, "re-render on changes")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"png", "html"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("render-mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"canvas", "css"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func loadJob(ctx context.Context, file string, flags *pflag.FlagSet) (*job.Job, error) {
	cfg, err := config.Load(file, flags)
	if err != nil {
		return nil, err
	}
	j, err := job.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return j, nil
}

// renderAll renders files concurrently. The returned paths are in file
// order; failed jobs leave an empty entry.
func renderAll(ctx context.Context, files []string, flags *pflag.FlagSet) ([]string, error) {
	paths := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			j, err := loadJob(ctx, file, flags)
			if err != nil {
				return err
			}
			p, err := j.RenderFile()
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			paths[i] = p
			return nil
		})
	}
	err := g.Wait()
	return paths, err
}
