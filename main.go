package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var (
	appName = "wikirank"
	appSha  = ""
)

// Process exit codes.
const (
	exitOK            = 0
	exitSchemaMissing = 1
	exitStartup       = 2
	exitFailure       = 3
)

// exitError carries the process exit code of a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var exitErr *exitError
	if xerrors.As(err, &exitErr) {
		return exitErr.code
	}
	// Anything cobra rejects before the run starts.
	return exitStartup
}

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGHUP)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, logger)
	cancel()
	os.Exit(code)
}

// execute runs the root command with args and returns the exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, logger *logrus.Entry) int {
	a := newApp(stdin, stdout, logger)
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName + " [language]",
		Short: "Crawl a wiki edition and rank its articles with PageRank",
		Long: `wikirank walks the alphabetical index of one language edition of a wiki,
records the links between its articles in a graph store and prints the
articles with the highest PageRank.

When the language code is omitted it is read from the terminal.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var lang string
			if len(args) == 1 {
				lang = args[0]
			}
			a.flags = cmd.Flags()
			return a.run(cmd.Context(), lang)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&a.opts.configPath, "config", "c", "", "path of the YAML config file")
	flags.BoolVarP(&a.opts.drop, "drop", "y", false, "drop existing tables of the language without asking")
	flags.BoolVarP(&a.opts.analyzeOnly, "analyze-only", "a", false, "skip crawling and rank the graph stored by a previous run")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.String("format", "text", "report format (text or markdown)")
	flags.String("store", "", "graph store URI (in-memory://, postgresql://..., sqlite:///path/to/file.db)")

	return cmd
}
