package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olehluchkiv/asmdump/internal/analyzer"
	"github.com/olehluchkiv/asmdump/internal/discovery"
	"github.com/olehluchkiv/asmdump/internal/dump"
	"github.com/olehluchkiv/asmdump/internal/logging"
	"github.com/olehluchkiv/asmdump/internal/metadata"
	"github.com/olehluchkiv/asmdump/internal/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError marks errors caused by the command line itself. They are
// reported together with the usage text.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// execute runs the root command and maps its outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

// runFlags are the per-run filters. They are never read from config.
type runFlags struct {
	paths     string
	library   string
	typeName  string
	member    string
	ctorsOnly bool
	all       bool
	inherited bool
	stats     bool
	config    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var rf runFlags
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "asmdump",
		Short: "Print the public API surface of .NET libraries",
		Long: `asmdump lists the constructors, methods, properties and enum values of the
libraries found in one or more directories, one C#-style signature per line.

Libraries are read through a metadata provider: by default a JSON or YAML
document next to each library (Foo.dll.json), or the output of the external
dumper command given with --provider.`,
		Example: `  asmdump -p "C:\app\bin;C:\app\plugins" -s
  asmdump -l Foo.dll -t Bar -m Run
  asmdump -t string -c`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, rf.config)
			if err != nil {
				return err
			}
			return run(cmd.Context(), rf, s, cmd.OutOrStdout(), stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVarP(&rf.paths, "path", "p", "", "search path(s) separated by ';' (default: current directory)")
	f.StringVarP(&rf.library, "library", "l", "", "process only this library file name")
	f.StringVarP(&rf.typeName, "type", "t", "", "only types with this name (short or full; int and System.Int32 are equivalent)")
	f.StringVarP(&rf.member, "member", "m", "", "only members with this name")
	f.BoolVarP(&rf.ctorsOnly, "ctors", "c", false, "only constructors")
	f.BoolVarP(&rf.all, "all", "a", false, "include non-public types and members")
	f.BoolVarP(&rf.inherited, "inherited", "i", false, "include inherited methods and properties")
	f.BoolVarP(&rf.stats, "stats", "s", false, "print the number of lines per library after the listing")
	f.BoolP("help", "?", false, "print this help")
	f.Int("jobs", 1, "libraries processed concurrently (0: one per CPU)")
	f.String("provider", "", "external metadata dumper command (default: sidecar documents)")
	f.StringVar(&rf.config, "config", "", "config file (default: asmdump.toml in $HOME/.config/asmdump or .)")
	f.String("log-level", "warn", "log level (debug, info, warn, error)")
	f.String("log-file", "", "also write logs to this file")
	bindSettings(v, f)

	return cmd
}

// run wires the logger, ignore list and provider, then dumps every library.
func run(ctx context.Context, rf runFlags, s settings, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.Setup(stderr, s.LogFile, level)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer cleanup()

	ignore, err := discovery.LoadIgnoreList(s.IgnoreFile, s.IgnoreRequired)
	if err != nil {
		logger.Error("failed to load ignore list", "path", s.IgnoreFile, "error", err)
		return err
	}
	logger.Debug("ignore list loaded", "path", s.IgnoreFile, "patterns", ignore.Len())

	provider, err := newProvider(s.Provider, logger)
	if err != nil {
		return err
	}

	dirs := discovery.SplitPaths(rf.paths)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	cfg := dump.Config{
		Dirs: dirs,
		Discovery: discovery.Options{
			LibraryName: rf.library,
			Extensions:  s.Extensions,
			Ignore:      ignore,
		},
		Analyze: analyzer.Options{
			TypeFilter:       rf.typeName,
			MemberFilter:     rf.member,
			CtorsOnly:        rf.ctorsOnly,
			PublicOnly:       !rf.all,
			IncludeInherited: rf.inherited,
		},
		Stats: rf.stats,
		Jobs:  s.Jobs,
	}
	if err := dump.Run(ctx, cfg, provider, render.NewNames(), stdout, logger); err != nil {
		logger.Error("dump failed", "error", err)
		return err
	}
	return nil
}

func newProvider(command string, logger *slog.Logger) (metadata.Provider, error) {
	if command == "" {
		return metadata.NewSidecarProvider(logger), nil
	}
	return metadata.NewCommandProvider(command, logger)
}
