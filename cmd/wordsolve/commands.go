package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/wordsolve/internal/cli"
	"github.com/bastiangx/wordsolve/internal/logger"
	"github.com/bastiangx/wordsolve/internal/utils"
	"github.com/bastiangx/wordsolve/pkg/builder"
	"github.com/bastiangx/wordsolve/pkg/config"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/evaluate"
	"github.com/bastiangx/wordsolve/pkg/server"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	debug      bool
	configPath string
	dataPath   string

	cfg     *config.Config
	cfgFrom string
	paths   *utils.PathResolver
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Wordle guess suggestions from a precomputed dataset",
		Long:          "wordsolve compiles a word pool into a dataset of guess/answer patterns and\nuses it to suggest the next Wordle guess.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Toggle debug mode")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a wordsolve.toml config file")
	root.PersistentFlags().StringVar(&a.dataPath, "data", "", "Dataset path (overrides the config)")

	root.AddCommand(
		a.buildCmd(),
		a.solveCmd(),
		a.testCmd(),
		a.serveCmd(),
		a.infoCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	logger.Setup(cmd.ErrOrStderr(), a.debug)

	cfg, from, err := config.LoadConfigWithPriority(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", config.GetActiveConfigPath(from), err)
	}
	if a.dataPath != "" {
		cfg.Paths.Data = a.dataPath
	}
	a.cfg, a.cfgFrom = cfg, from

	a.paths, err = utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to initialize path resolver: %v", err)
		return err
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(from))
	return nil
}

func (a *app) loadEnvironment() (*environment.Environment, *solver.Engine, error) {
	path := a.paths.Resolve(a.cfg.Paths.Data)
	env, err := environment.Load(path)
	if err != nil {
		return nil, nil, err
	}
	engine, err := solver.NewEngine(env, env.Strategy(), a.cfg.Solver.Workers)
	if err != nil {
		return nil, nil, err
	}
	return env, engine, nil
}

func (a *app) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [POOL TARGETS SOLVER_ID]",
		Short: "Compile the dataset from the word lists",
		Long: `Reads the pool of allowed guesses and the list of possible answers, computes
every guess/answer pattern and the opening guess, and writes the dataset.

With no arguments the configured lists and strategy are used. Otherwise all
three must be given; "d" keeps the default for any of them. SOLVER_ID is 0
(minimax) or 1 (entropy).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if n := len(args); n != 0 && n != 3 {
				return fmt.Errorf("%w: got %d", errArgCount, n)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, targets := a.cfg.Paths.Pool, a.cfg.Paths.Targets
			strategy, err := a.cfg.StrategyID()
			if err != nil {
				return err
			}
			if len(args) == 3 {
				pool = orDefault(args[0], pool)
				targets = orDefault(args[1], targets)
				if args[2] != "d" {
					strategy, err = environment.ParseStrategy(args[2])
					if err != nil {
						return fmt.Errorf("%w: %v", errSolverArg, err)
					}
				}
			}

			start := time.Now()
			env, err := builder.Build(builder.Options{
				PoolPath:    a.paths.Resolve(pool),
				TargetsPath: a.paths.Resolve(targets),
				DataPath:    a.paths.Resolve(a.cfg.Paths.Data),
				Strategy:    strategy,
				Workers:     a.cfg.Solver.Workers,
				Progress:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opening, _ := env.Word(env.StartingGuess())
			fmt.Fprintf(out, "Build complete in %s\n", utils.FormatMillis(time.Since(start)))
			fmt.Fprintf(out, "%s words, %s targets, %s, opening guess %s\n",
				utils.FormatWithCommas(env.Len()), utils.FormatWithCommas(len(env.Targets())),
				env.Strategy(), opening)
			return nil
		},
	}
}

func orDefault(arg, def string) string {
	if arg == "d" {
		return def
	}
	return arg
}

func (a *app) solveCmd() *cobra.Command {
	var listLimit int
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a game interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, engine, err := a.loadEnvironment()
			if err != nil {
				return err
			}
			return cli.NewInputHandler(env, engine, cmd.InOrStdin(), cmd.OutOrStdout(), listLimit).Start()
		},
	}
	cmd.Flags().IntVar(&listLimit, "list-limit", cli.DefaultListLimit, "Maximum words printed by the list command")
	return cmd
}

func (a *app) testCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Play every answer and report guess statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := a.loadEnvironment()
			if err != nil {
				return err
			}
			opts := evaluate.Options{
				MaxGuesses: a.cfg.Test.MaxGuesses,
				Workers:    a.cfg.Test.Workers,
			}
			if !quiet {
				opts.Progress = cmd.ErrOrStderr()
			}
			r, err := evaluate.Run(cmd.Context(), env, opts)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), r)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

func printReport(w io.Writer, r *evaluate.Report) {
	renderer := lipgloss.NewRenderer(w)
	bar := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	warn := renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})

	fmt.Fprintf(w, "%s wordles solved in %.3fs\n", utils.FormatWithCommas(r.Solved), r.Elapsed.Seconds())
	fmt.Fprintf(w, "Average time per word: %s\n", utils.FormatMillis(r.PerGame()))
	fmt.Fprintf(w, "Average time per guess: %s\n", utils.FormatMillis(r.PerGuess()))
	fmt.Fprintf(w, "Between %d and %d guesses, average %.5f\n", r.Min, r.Max, r.Mean)
	if r.Failed > 0 {
		fmt.Fprintln(w, warn.Render(fmt.Sprintf("%d games hit the guess limit", r.Failed)))
	}

	counts := make([]int, 0, len(r.Histogram))
	most := 0
	for n, c := range r.Histogram {
		counts = append(counts, n)
		most = max(most, c)
	}
	slices.Sort(counts)
	for _, n := range counts {
		c := r.Histogram[n]
		width := 1 + c*40/max(most, 1)
		fmt.Fprintf(w, "%4d %s %s\n", n, bar.Render(strings.Repeat("#", width)), utils.FormatWithCommas(c))
	}
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve solving sessions over msgpack on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, engine, err := a.loadEnvironment()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l := logger.New(cmd.ErrOrStderr(), "serve")
			l.Debugf("spawning IPC: pid=%d max_sessions=%d", os.Getpid(), a.cfg.Server.MaxSessions)
			srv := server.NewServer(env, engine, cmd.InOrStdin(), cmd.OutOrStdout(), server.Options{
				MaxSessions: a.cfg.Server.MaxSessions,
				Logger:      l,
			})
			return srv.Start(ctx)
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the compiled dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.paths.Resolve(a.cfg.Paths.Data)
			h, err := environment.ReadHeader(path)
			if err != nil {
				return err
			}
			env, err := environment.Load(path)
			if err != nil {
				return err
			}
			opening, _ := env.Word(h.StartingGuess)

			l := infoLogger(cmd.OutOrStdout())
			l.Print("Dataset", "path", utils.GetAbsolutePath(path))
			l.Print("", "strategy", h.Strategy.String())
			l.Print("", "words", utils.FormatWithCommas(h.Words))
			l.Print("", "targets", utils.FormatWithCommas(h.Targets))
			l.Print("", "opening", opening.String())
			l.Print("", "bytes", utils.FormatWithCommas(environment.EncodedSize(h.Words, h.Targets)))
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if rebuild {
				path, err := config.RebuildConfigFile(a.cfgFrom)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rebuilt %s\n", path)
				return nil
			}
			fmt.Fprintf(out, "# %s\n", config.GetActiveConfigPath(a.cfgFrom))
			return toml.NewEncoder(out).Encode(a.cfg)
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Overwrite the config file with defaults")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Args:  cobra.NoArgs,
		// No config or logger setup needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			l := infoLogger(cmd.OutOrStdout())
			l.Print("")
			l.Print("[ wordsolve ] Wordle guesses from precomputed patterns")
			l.Print("", "version", Version)
			l.Print("")
			l.Print("use -h or --help to see available options")
			l.Print("Github Repo", "gh", gh)
		},
	}
}

func infoLogger(w io.Writer) *log.Logger {
	l := logger.NewWithConfig(w, "", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["opening"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)
	return l
}
