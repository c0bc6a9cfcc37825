package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aristath/stepweaver/internal/config"
	"github.com/aristath/stepweaver/internal/events"
	"github.com/aristath/stepweaver/internal/instructions"
	"github.com/aristath/stepweaver/internal/runner"
	"github.com/aristath/stepweaver/internal/scheduler"
	"github.com/aristath/stepweaver/internal/tui"
)

type rootOptions struct {
	globalPath  string
	projectPath string
	workers     int
	baseOffset  int
	alphabet    string
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "stepweaver",
		Short:         "Order precedence-constrained steps and simulate parallel workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	globalPath, projectPath, err := config.DefaultPaths()
	if err != nil {
		log.Printf("WARNING: %v; global config disabled", err)
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.globalPath, "global-config", globalPath, "global config file")
	flags.StringVar(&opts.projectPath, "config", projectPath, "project config file")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "worker pool size (overrides config)")
	flags.IntVarP(&opts.baseOffset, "base-offset", "b", 0, "ticks added to every task duration (overrides config)")
	flags.StringVar(&opts.alphabet, "alphabet", "", "ordered task alphabet (overrides config)")

	root.AddCommand(
		newOrderCmd(),
		newScheduleCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// loadConfig merges config files with any flags the user set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.globalPath, o.projectPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("base-offset") {
		cfg.BaseOffset = o.baseOffset
	}
	if flags.Changed("alphabet") {
		cfg.Alphabet = o.alphabet
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readDependencies parses the named file, or the command's stdin when no
// file is given or the name is "-".
func readDependencies(cmd *cobra.Command, args []string) ([]scheduler.Dependency, error) {
	if len(args) == 0 || args[0] == "-" {
		return instructions.Parse(cmd.InOrStdin())
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening instructions: %w", err)
	}
	defer f.Close()

	deps, err := instructions.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return deps, nil
}

func newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order [file]",
		Short: "Print the sequential step order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := readDependencies(cmd, args)
			if err != nil {
				return err
			}
			g, err := scheduler.BuildGraph(deps)
			if err != nil {
				return err
			}
			order, err := scheduler.Resolve(g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(order, ""))
			return nil
		},
	}
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var timeline bool
	var width int

	cmd := &cobra.Command{
		Use:   "schedule [file]",
		Short: "Print the sequential order and the parallel completion schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			deps, err := readDependencies(cmd, args)
			if err != nil {
				return err
			}

			r := runner.New(runner.Config{
				Workers:    cfg.Workers,
				BaseOffset: cfg.BaseOffset,
				Duration:   cfg.DurationFunc(),
			})
			report, err := r.Run(cmd.Context(), deps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sequential steps: %s\n", strings.Join(report.Sequential, ""))
			fmt.Fprintf(out, "Parallel steps:   %s\n", strings.Join(report.Schedule.Order, ""))
			fmt.Fprintf(out, "Ticks:            %d (%d workers, base offset %d)\n",
				report.Schedule.Ticks, cfg.Workers, cfg.BaseOffset)
			fmt.Fprintf(out, "Critical path:    %s (%d ticks)\n",
				strings.Join(report.CriticalPath.Tasks, ""), report.CriticalPath.Length)
			fmt.Fprintf(out, "Utilization:      %.1f%%\n", report.Schedule.Utilization()*100)
			if timeline {
				fmt.Fprintln(out)
				fmt.Fprint(out, tui.RenderTimeline(report.Schedule, width))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&timeline, "timeline", false, "print a per-worker timeline")
	cmd.Flags().IntVar(&width, "width", 100, "maximum timeline width in columns")
	return cmd
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Replay the parallel schedule in an interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			deps, err := readDependencies(cmd, args)
			if err != nil {
				return err
			}
			return watch(cmd, opts, cfg, deps, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "wall-clock time per replayed tick")
	return cmd
}

func watch(cmd *cobra.Command, opts *rootOptions, cfg *config.Config, deps []scheduler.Dependency, interval time.Duration) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bus := events.NewEventBus()
	defer bus.Close()

	model := tui.New(bus, cfg, opts.globalPath, opts.projectPath)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	r := runner.New(runner.Config{
		Workers:      cfg.Workers,
		BaseOffset:   cfg.BaseOffset,
		Duration:     cfg.DurationFunc(),
		Bus:          bus,
		TickInterval: interval,
	})

	runErr := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, deps)
		if err != nil {
			p.Quit()
		}
		runErr <- err
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal view: %w", err)
	}

	select {
	case err := <-runErr:
		return err
	default:
		// Viewer closed before the replay ended
		return nil
	}
}
