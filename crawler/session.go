package crawler

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Session holds the state of one crawl run: the titles visited so far and
// the URLs already bound to a title. A Session is not safe for concurrent
// use.
type Session struct {
	getter    URLGetter
	g         Graph
	extractor *linkExtractor
	logger    *logrus.Entry

	visited map[string]struct{}
	bound   map[string]struct{}
}

// frame is an article whose outbound links are being visited.
type frame struct {
	url   string
	title string
	links []string
	next  int
}

// Visit resolves rawURL to an article title, storing the article and
// everything reachable from it that has not been visited yet. Traversal is
// depth-first in link order. An empty title means the URL does not lead to
// an article; fetch and parse failures are logged and never returned.
// Errors are only returned for store failures and context cancellation.
func (s *Session) Visit(ctx context.Context, rawURL string) (string, error) {
	title, root, err := s.open(ctx, rawURL)
	if err != nil || root == nil {
		return title, err
	}

	stack := []*frame{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.links) {
			link := top.links[top.next]
			top.next++

			childTitle, child, err := s.open(ctx, link)
			if err != nil {
				return "", err
			}
			if child != nil {
				stack = append(stack, child)
			} else if childTitle != "" {
				if err := s.link(top.title, childTitle); err != nil {
					return "", err
				}
			}
			continue
		}

		// Every link of top has been resolved.
		stack = stack[:len(stack)-1]
		if err := s.bind(top.title, top.url); err != nil {
			return "", err
		}
		if len(stack) == 0 {
			return top.title, nil
		}
		if err := s.link(stack[len(stack)-1].title, top.title); err != nil {
			return "", err
		}
	}
	return "", nil
}

// open resolves rawURL. Known URLs and already visited titles yield just
// the title. A newly discovered article is stored and returned as a frame
// whose links still need visiting.
func (s *Session) open(ctx context.Context, rawURL string) (string, *frame, error) {
	title, err := s.g.FindTitleByURL(rawURL)
	if err == nil {
		return title, nil, nil
	} else if !xerrors.Is(err, graph.ErrNotFound) {
		return "", nil, xerrors.Errorf("lookup %s: %w", rawURL, err)
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	content, err := s.fetch(ctx, rawURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, ctxErr
		}
		s.logFetchError(rawURL, err)
		return "", nil, nil
	}

	page, err := s.extractor.Extract(content, rawURL)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"url": rawURL, "err": err}).Debug("skipping page")
		return "", nil, nil
	}

	if _, seen := s.visited[page.Title]; seen {
		if err := s.bind(page.Title, rawURL); err != nil {
			return "", nil, err
		}
		return page.Title, nil, nil
	}

	err = s.g.InsertArticle(&graph.Article{Title: page.Title, URL: page.CanonicalURL})
	if err != nil && !xerrors.Is(err, graph.ErrDuplicateTitle) {
		return "", nil, xerrors.Errorf("store article %q: %w", page.Title, err)
	}
	s.visited[page.Title] = struct{}{}
	if err != nil {
		// Stored by an earlier run; its links are not walked again.
		return page.Title, nil, s.bind(page.Title, rawURL)
	}

	s.logger.WithFields(logrus.Fields{
		"title":   page.Title,
		"visited": len(s.visited),
	}).Info("parsed article")

	return page.Title, &frame{url: rawURL, title: page.Title, links: page.Links}, nil
}

func (s *Session) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := s.getter.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < http.StatusOK || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, xerrors.Errorf("unexpected status %d", res.StatusCode)
	}
	return io.ReadAll(decodedBody(res))
}

func (s *Session) logFetchError(rawURL string, err error) {
	entry := s.logger.WithFields(logrus.Fields{"url": rawURL, "err": err})

	var netErr net.Error
	switch {
	case xerrors.As(err, &netErr) && netErr.Timeout():
		entry.Warn("timed out")
	case xerrors.As(err, &netErr):
		entry.Warn("couldn't connect")
	default:
		entry.Warn("fetch failed")
	}
}

// bind records that rawURL resolves to title. Each URL is bound at most
// once per session.
func (s *Session) bind(title, rawURL string) error {
	if _, done := s.bound[rawURL]; done {
		return nil
	}
	if err := s.g.InsertURL(&graph.URLBinding{Title: title, URL: rawURL}); err != nil {
		return xerrors.Errorf("bind %s to %q: %w", rawURL, title, err)
	}
	s.bound[rawURL] = struct{}{}
	return nil
}

func (s *Session) link(from, to string) error {
	if err := s.g.InsertEdge(&graph.Edge{From: from, To: to}); err != nil {
		return xerrors.Errorf("link %q to %q: %w", from, to, err)
	}
	return nil
}

// Visited returns the number of distinct articles stored by the session.
func (s *Session) Visited() int { return len(s.visited) }

// Close releases the session state.
func (s *Session) Close() error {
	s.visited = nil
	s.bound = nil
	return nil
}
