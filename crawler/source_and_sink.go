package crawler

import (
	"context"
	"net/url"

	"github.com/Ahmed-Sermani/wikirank/pipeline"
	"github.com/sirupsen/logrus"
)

// indexSource yields the article URLs listed on the wiki index, fetching
// index pages lazily as the pipeline asks for more.
type indexSource struct {
	index  *indexReader
	logger *logrus.Entry

	nextURL string
	pages   int
	pending []string
	cur     string
	err     error
}

func newIndexSource(getter URLGetter, base *url.URL, logger *logrus.Entry) *indexSource {
	return &indexSource{
		index:   newIndexReader(getter, base),
		logger:  logger,
		nextURL: base.ResolveReference(&url.URL{Path: AllPagesPath}).String(),
	}
}

func (s *indexSource) Next(ctx context.Context) bool {
	for len(s.pending) == 0 {
		if s.err != nil || s.nextURL == "" {
			return false
		}

		s.logger.WithField("page", s.pages+1).Info("reading index")
		page, err := s.index.Read(ctx, s.nextURL, s.pages == 0)
		if err != nil {
			s.err = err
			return false
		}
		s.pages++
		s.pending = page.Entries
		s.nextURL = page.Next
	}

	s.cur, s.pending = s.pending[0], s.pending[1:]
	return true
}

func (s *indexSource) Payload() pipeline.Payload {
	return newPayload(s.cur)
}

func (s *indexSource) Error() error { return s.err }

var _ pipeline.Processor = (*visitor)(nil)

// visitor resolves each index entry through the crawl session. Entries
// that do not lead to an article are dropped.
type visitor struct {
	session *Session
}

func newVisitor(session *Session) *visitor {
	return &visitor{session: session}
}

func (v *visitor) Process(ctx context.Context, p pipeline.Payload) (pipeline.Payload, error) {
	payload := p.(*crawlerPayload)
	title, err := v.session.Visit(ctx, payload.URL)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, nil
	}
	payload.Title = title
	return payload, nil
}

type countingSink struct {
	count int
}

func (s *countingSink) Consume(_ context.Context, p pipeline.Payload) error {
	s.count++
	return nil
}

func (s *countingSink) getCount() int {
	return s.count
}
