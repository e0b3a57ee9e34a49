package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Ahmed-Sermani/wikirank/config"
	"github.com/Ahmed-Sermani/wikirank/crawler"
	"github.com/Ahmed-Sermani/wikirank/graph"
	memgraph "github.com/Ahmed-Sermani/wikirank/graph/store/memory"
	"github.com/Ahmed-Sermani/wikirank/graph/store/pg"
	"github.com/Ahmed-Sermani/wikirank/graph/store/sqlgraph"
	"github.com/Ahmed-Sermani/wikirank/graph/store/sqlite"
	"github.com/Ahmed-Sermani/wikirank/ranker"
	"github.com/Ahmed-Sermani/wikirank/report"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"
)

const (
	msgSchemaMissing = "Tables do not exist. Analyze the pages first"
	msgNoLinks       = "There are no links; can't analyze."
	msgDeclined      = "Please, drop or rename tables or choose a different language."
)

type options struct {
	configPath  string
	drop        bool
	analyzeOnly bool
	verbose     bool
}

// app is one invocation of the command line tool.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	logger *logrus.Entry

	opts  options
	flags *pflag.FlagSet
}

func newApp(in io.Reader, out io.Writer, logger *logrus.Entry) *app {
	return &app{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

type linkGraph interface {
	graph.Graph
	Close() error
}

func (a *app) run(ctx context.Context, lang string) error {
	cfg, err := a.loadConfig(lang)
	if err != nil {
		return withCode(exitStartup, err)
	}

	store, err := getLinkGraph(cfg.StoreURI(), cfg.Language, a.logger)
	if err != nil {
		return withCode(exitStartup, err)
	}
	defer func() {
		if cErr := store.Close(); cErr != nil {
			a.logger.WithError(cErr).Warn("closing graph store")
		}
	}()

	if !a.opts.analyzeOnly {
		proceed, err := a.prepareStore(store, cfg.Language)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(a.out, msgDeclined)
			return nil
		}
		if err := a.crawl(ctx, cfg, store); err != nil {
			return err
		}
	}

	return a.rank(ctx, cfg, store)
}

func (a *app) loadConfig(lang string) (*config.Config, error) {
	loader := &config.Loader{Path: a.opts.configPath}
	if a.flags != nil {
		loader.Flags = map[string]*pflag.Flag{
			"report.format": a.flags.Lookup("format"),
			"database.uri":  a.flags.Lookup("store"),
		}
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if lang == "" {
		lang = cfg.Language
	}
	if lang == "" {
		if lang, err = a.prompt("Wikipedia language code: "); err != nil {
			return nil, xerrors.Errorf("read language code: %w", err)
		}
	}
	cfg.Language = strings.TrimSpace(lang)

	if err := cfg.Validate(); err != nil {
		return nil, xerrors.Errorf("invalid configuration: %w", err)
	}

	level, _ := logrus.ParseLevel(cfg.Log.Level)
	if a.opts.verbose {
		level = logrus.DebugLevel
	}
	a.logger.Logger.SetLevel(level)
	a.logger = a.logger.WithField("lang", cfg.Language)
	return cfg, nil
}

// prepareStore drops and recreates the tables of lang. It returns false
// when the user declines to drop tables left by a previous run.
func (a *app) prepareStore(store linkGraph, lang string) (bool, error) {
	exists, err := store.TablesExist()
	if err != nil {
		return false, withCode(exitStartup, xerrors.Errorf("inspect graph store: %w", err))
	}

	if exists && !a.opts.drop {
		proceed, err := a.confirmDrop(lang)
		if err != nil {
			return false, withCode(exitStartup, err)
		}
		if !proceed {
			return false, nil
		}
	}

	if err := store.Reset(); err != nil {
		return false, withCode(exitFailure, xerrors.Errorf("reset graph store: %w", err))
	}
	return true, nil
}

func (a *app) confirmDrop(lang string) (bool, error) {
	tables := sqlgraph.TablesFor(lang)

	var b strings.Builder
	b.WriteString("About to drop tables (if they exist):\n")
	for _, name := range []string{tables.Articles, tables.Links, tables.URLs} {
		fmt.Fprintf(&b, "\t- %s\n", name)
	}
	b.WriteString("\nDo you wish to proceed? [y/n]: ")

	for {
		answer, err := a.prompt(b.String())
		if err != nil {
			return false, xerrors.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// prompt writes question and returns the next line of input. A final
// line without a newline is accepted.
func (a *app) prompt(question string) (string, error) {
	fmt.Fprint(a.out, question)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) crawl(ctx context.Context, cfg *config.Config, store linkGraph) error {
	logger := a.logger.WithFields(logrus.Fields{
		"component": "crawler",
		"run":       uuid.New().String(),
	})

	c, err := crawler.NewCrawler(crawler.Config{
		BaseURL: cfg.WikiURL(),
		URLGetter: crawler.NewHTTPGetter(crawler.GetterConfig{
			UserAgent:         cfg.Crawler.UserAgent,
			Timeout:           cfg.Crawler.Timeout,
			RequestsPerSecond: cfg.Crawler.RequestsPerSecond,
			MaxBodySize:       cfg.Crawler.MaxBodySize,
		}),
		Graph:  store,
		Logger: logger,
	})
	if err != nil {
		return withCode(exitStartup, err)
	}
	if err := c.Preflight(ctx); err != nil {
		return withCode(exitStartup, err)
	}

	logger.WithField("wiki", cfg.WikiURL()).Info("crawling")
	stats, err := c.Crawl(ctx)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"articles": stats.Articles,
			"elapsed":  stats.Elapsed,
		}).Warn("crawl stopped before the index was exhausted")
		return withCode(exitFailure, err)
	}

	logger.WithField("roots", stats.Roots).Infof("All %d pages analyzed! Took %s", stats.Articles, stats.Elapsed)
	return nil
}

func (a *app) rank(ctx context.Context, cfg *config.Config, store linkGraph) error {
	if err := store.Verify(); err != nil {
		if xerrors.Is(err, graph.ErrSchemaMissing) {
			return withCode(exitSchemaMissing, xerrors.New(msgSchemaMissing))
		}
		return withCode(exitFailure, xerrors.Errorf("verify graph store: %w", err))
	}

	it, err := store.Edges()
	if err != nil {
		return withCode(exitFailure, xerrors.Errorf("read links: %w", err))
	}
	edges, err := ranker.CollectEdges(it)
	if err != nil {
		return withCode(exitFailure, xerrors.Errorf("read links: %w", err))
	}

	r, err := ranker.NewRanker(ranker.Config{
		DampingFactor:  cfg.Ranker.DampingFactor,
		Iterations:     cfg.Ranker.Iterations,
		Dangling:       ranker.DanglingPolicy(cfg.Ranker.Dangling),
		ComputeWorkers: cfg.Ranker.Workers,
		Logger:         a.logger.WithField("component", "ranker"),
	})
	if err != nil {
		return withCode(exitStartup, err)
	}
	defer func() { _ = r.Close() }()

	scores, err := r.Rank(ctx, edges)
	if xerrors.Is(err, ranker.ErrEmptyGraph) {
		fmt.Fprintln(a.out, msgNoLinks)
		return nil
	} else if err != nil {
		return withCode(exitFailure, err)
	}

	w, err := report.NewWriter(cfg.Report.Format, a.out)
	if err != nil {
		return withCode(exitStartup, err)
	}
	return withCode(exitFailure, w.Write(&report.Report{
		Language: cfg.Language,
		Ranked:   len(scores),
		Top:      ranker.Top(scores, cfg.Ranker.Top),
	}))
}

func getLinkGraph(linkGraphURI, lang string, logger *logrus.Entry) (linkGraph, error) {
	if linkGraphURI == "" {
		return nil, xerrors.Errorf("graph store URI must be specified with --store")
	}

	uri, err := url.Parse(linkGraphURI)
	if err != nil {
		return nil, xerrors.Errorf("could not parse graph store URI: %w", err)
	}

	logger = logger.WithField("component", "store")
	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory graph")
		return memgraph.NewInMemoryGraph(), nil
	case "postgresql", "postgres":
		logger.WithField("host", uri.Host).Info("using PostgreSQL graph")
		return pg.NewPostgresGraph(linkGraphURI, lang)
	case "sqlite":
		path := strings.TrimPrefix(linkGraphURI, "sqlite://")
		logger.WithField("path", path).Info("using SQLite graph")
		return sqlite.NewSQLiteGraph(path, lang)
	default:
		return nil, xerrors.Errorf("unsupported graph store URI scheme: %q", uri.Scheme)
	}
}
