package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"movie-tickets-cli/config"
	"movie-tickets-cli/logging"
	"movie-tickets-cli/service"
	"movie-tickets-cli/store"
	"movie-tickets-cli/tui"
)

const (
	appName     = "movie-tickets-cli"
	logFileName = "movie-tickets.log"
)

var log = logging.New("cmd")

type rootOptions struct {
	catalogURL  string
	offline     bool
	animationMS int
	logFile     string
	logLevel    string
}

// Execute runs the root command with the given build information.
func Execute(version, commit string) error {
	return newRootCmd(version, commit).Execute()
}

func newRootCmd(version, commit string) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Browse movies and book tickets from the terminal",
		Long:          `Pick a movie from the poster grid, drag its popup open, choose a day and a showtime and book.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.logLevel != "" {
				logging.SetLevel(opts.logLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}

			closeLog := redirectLog(cmd.ErrOrStderr(), opts.logFile)
			defer closeLog()
			log.Info("starting", "version", version, "catalog", cfg.CatalogURL, "offline", cfg.Offline)

			model := tui.New(tui.Options{
				Client:            service.NewClient(cfg.CatalogURL, nil),
				Offline:           cfg.Offline,
				AnimationDuration: cfg.AnimationDuration(),
			})
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
			return err
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.catalogURL, "catalog-url", "", "catalog endpoint serving the movie list as JSON")
	flags.BoolVar(&opts.offline, "offline", false, "use the cached or built-in catalog only")
	flags.IntVar(&opts.animationMS, "animation-ms", config.DefaultAnimationMillis, "popup open/close animation duration in milliseconds")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of the cache directory")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default from "+logging.LevelEnv+")")

	root.AddCommand(newVersionCmd(version, commit), newBookingsCmd(), newConfigureCmd())
	return root
}

// resolveConfig loads the saved configuration and applies command line flags
// on top of it. Flags win over the environment, which wins over the file.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("catalog-url") {
		cfg.CatalogURL = opts.catalogURL
	}
	if flags.Changed("offline") {
		cfg.Offline = opts.offline
	}
	if flags.Changed("animation-ms") {
		cfg.AnimationMillis = opts.animationMS
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// redirectLog sends log output to a file while the terminal UI owns the
// screen. It returns a function restoring stderr output.
func redirectLog(stderr io.Writer, path string) func() {
	if path == "" {
		var err error
		path, err = store.CachePath(logFileName)
		if err != nil {
			logging.SetOutput(io.Discard)
			return func() { logging.SetOutput(stderr) }
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(stderr, "logging disabled: %v\n", err)
		logging.SetOutput(io.Discard)
		return func() { logging.SetOutput(stderr) }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "logging disabled: %v\n", err)
		logging.SetOutput(io.Discard)
		return func() { logging.SetOutput(stderr) }
	}
	logging.SetOutput(f)
	return func() {
		logging.SetOutput(stderr)
		_ = f.Close()
	}
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + appName,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, version)
			if commit != "none" && commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			fmt.Fprintln(out)
		},
	}
}
