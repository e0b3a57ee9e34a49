package crawler_test

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/Ahmed-Sermani/wikirank/crawler"
	"github.com/Ahmed-Sermani/wikirank/crawler/mocks"
	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/golang/mock/gomock"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(SessionTestSuite))

type SessionTestSuite struct {
	getter *mocks.MockURLGetter
	g      *mocks.MockGraph
}

const baseURL = "https://en.wikipedia.org"

func (s *SessionTestSuite) newSession(c *gc.C, ctrl *gomock.Controller) *crawler.Session {
	s.getter = mocks.NewMockURLGetter(ctrl)
	s.g = mocks.NewMockGraph(ctrl)
	cr, err := crawler.NewCrawler(crawler.Config{
		BaseURL:   baseURL,
		URLGetter: s.getter,
		Graph:     s.g,
	})
	c.Assert(err, gc.IsNil)
	return cr.NewSession()
}

func (s *SessionTestSuite) TestBoundURLSkipsFetch(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	session := s.newSession(c, ctrl)

	s.g.EXPECT().FindTitleByURL(baseURL+"/wiki/Go").Return("Go", nil)

	title, err := session.Visit(context.TODO(), baseURL+"/wiki/Go")
	c.Assert(err, gc.IsNil)
	c.Assert(title, gc.Equals, "Go")
}

func (s *SessionTestSuite) TestStoreFailureIsReturned(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	session := s.newSession(c, ctrl)

	s.g.EXPECT().FindTitleByURL(gomock.Any()).Return("", graph.ErrNotFound)
	s.getter.EXPECT().Get(gomock.Any(), baseURL+"/wiki/Go").Return(htmlResponse(articleHTML("Go", "Go")), nil)
	s.g.EXPECT().InsertArticle(&graph.Article{Title: "Go", URL: baseURL + "/w/index.php?title=Go"}).Return(xerrors.New("disk full"))

	_, err := session.Visit(context.TODO(), baseURL+"/wiki/Go")
	c.Assert(err, gc.ErrorMatches, `store article "Go": disk full`)
}

func (s *SessionTestSuite) TestLookupFailureIsReturned(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	session := s.newSession(c, ctrl)

	s.g.EXPECT().FindTitleByURL(gomock.Any()).Return("", xerrors.New("connection reset"))

	_, err := session.Visit(context.TODO(), baseURL+"/wiki/Go")
	c.Assert(err, gc.ErrorMatches, `lookup .*: connection reset`)
}

func (s *SessionTestSuite) TestFetchFailureIsNotFound(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	session := s.newSession(c, ctrl)

	s.g.EXPECT().FindTitleByURL(gomock.Any()).Return("", graph.ErrNotFound)
	s.getter.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, xerrors.New("connection refused"))

	title, err := session.Visit(context.TODO(), baseURL+"/wiki/Go")
	c.Assert(err, gc.IsNil)
	c.Assert(title, gc.Equals, "")
}

func (s *SessionTestSuite) TestEdgesAndBindingsForNewArticle(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	session := s.newSession(c, ctrl)

	goURL, cURL := baseURL+"/wiki/Go", baseURL+"/wiki/C"
	gomock.InOrder(
		s.g.EXPECT().FindTitleByURL(goURL).Return("", graph.ErrNotFound),
		s.getter.EXPECT().Get(gomock.Any(), goURL).Return(htmlResponse(articleHTML("Go", "Go", "C")), nil),
		s.g.EXPECT().InsertArticle(gomock.Any()).Return(nil),
		s.g.EXPECT().FindTitleByURL(cURL).Return("C (programming language)", nil),
		s.g.EXPECT().InsertEdge(&graph.Edge{From: "Go", To: "C (programming language)"}).Return(nil),
		s.g.EXPECT().InsertURL(&graph.URLBinding{Title: "Go", URL: goURL}).Return(nil),
	)

	title, err := session.Visit(context.TODO(), goURL)
	c.Assert(err, gc.IsNil)
	c.Assert(title, gc.Equals, "Go")
	c.Assert(session.Visited(), gc.Equals, 1)
}

func (s *SessionTestSuite) TestCancelledVisit(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	session := s.newSession(c, ctrl)

	s.g.EXPECT().FindTitleByURL(gomock.Any()).Return("", graph.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := session.Visit(ctx, baseURL+"/wiki/Go")
	c.Assert(xerrors.Is(err, context.Canceled), gc.Equals, true)
	c.Assert(session.Close(), gc.IsNil)
}

func htmlResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
