/*
   Crawls every article of one wiki edition and records the link graph.

   The alphabetical "all pages" index is streamed through a pipeline whose
   single stage visits each index entry depth-first. All store writes
   happen on that stage so the graph has a single writer.
*/
package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/Ahmed-Sermani/wikirank/pipeline"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/Ahmed-Sermani/wikirank/crawler URLGetter,Graph

// AllPagesPath is the path of the alphabetical index of a wiki.
const AllPagesPath = "/wiki/Special:AllPages"

// URLGetter is implemented by objects that can perform HTTP GET requests.
type URLGetter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Graph is implemented by objects that can store the articles, URL
// bindings and links discovered by the crawler.
type Graph interface {
	InsertArticle(article *graph.Article) error
	InsertURL(binding *graph.URLBinding) error
	FindTitleByURL(url string) (string, error)
	InsertEdge(edge *graph.Edge) error
}

type Config struct {
	// BaseURL is the scheme and host of the wiki, e.g.
	// https://en.wikipedia.org. Relative article links resolve against it.
	BaseURL string

	URLGetter URLGetter
	Graph     Graph
	Logger    *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.BaseURL == "" {
		err = multierror.Append(err, xerrors.New("base URL not specified"))
	} else if u, pErr := url.Parse(cfg.BaseURL); pErr != nil || u.Scheme == "" || u.Host == "" {
		err = multierror.Append(err, xerrors.Errorf("invalid base URL %q", cfg.BaseURL))
	}
	if cfg.URLGetter == nil {
		err = multierror.Append(err, xerrors.New("URL getter not specified"))
	}
	if cfg.Graph == nil {
		err = multierror.Append(err, xerrors.New("graph not specified"))
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(l)
	}
	return err
}

// Stats summarises a crawl run.
type Stats struct {
	// Roots is the number of index entries that resolved to an article.
	Roots int

	// Articles is the number of distinct articles stored.
	Articles int

	Elapsed time.Duration
}

// Crawler walks the index of a wiki and visits every article it can reach.
type Crawler struct {
	cfg  Config
	base *url.URL
}

// NewCrawler returns a Crawler for the wiki at cfg.BaseURL.
func NewCrawler(cfg Config) (*Crawler, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("crawler config validation failed: %w", err)
	}
	base, _ := url.Parse(cfg.BaseURL)
	base.Path, base.RawQuery, base.Fragment = "", "", ""

	return &Crawler{cfg: cfg, base: base}, nil
}

// Preflight checks that the wiki host answers before any work starts.
func (c *Crawler) Preflight(ctx context.Context) error {
	res, err := c.cfg.URLGetter.Get(ctx, c.base.String())
	if err != nil {
		return xerrors.Errorf("wiki %s is unreachable: %w", c.base, err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return xerrors.Errorf("wiki %s answered with status %d", c.base, res.StatusCode)
	}
	return nil
}

// Crawl visits every article listed on the wiki index together with
// everything reachable from it. Calls to Crawl block until the index is
// exhausted, a store write fails, the index cannot be read or ctx is
// cancelled.
func (c *Crawler) Crawl(ctx context.Context) (Stats, error) {
	start := time.Now()
	session := c.NewSession()
	defer func() { _ = session.Close() }()

	source := newIndexSource(c.cfg.URLGetter, c.base, c.cfg.Logger)
	sink := new(countingSink)
	err := pipeline.New(
		pipeline.FIFO(newVisitor(session)),
	).Process(ctx, source, sink)

	stats := Stats{
		Roots:    sink.getCount(),
		Articles: session.Visited(),
		Elapsed:  time.Since(start),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stats, xerrors.Errorf("crawl interrupted: %w", ctxErr)
	}
	if err != nil {
		return stats, xerrors.Errorf("crawl: %w", err)
	}
	return stats, nil
}

// NewSession returns a Session that shares this crawler's store and
// HTTP getter. Callers must Close it once the run is over.
func (c *Crawler) NewSession() *Session {
	return &Session{
		getter:    c.cfg.URLGetter,
		g:         c.cfg.Graph,
		extractor: newLinkExtractor(c.base),
		logger:    c.cfg.Logger,
		visited:   make(map[string]struct{}),
		bound:     make(map[string]struct{}),
	}
}
