package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(IndexReaderTestSuite))

type IndexReaderTestSuite struct{}

type staticGetter map[string]string

func (g staticGetter) Get(_ context.Context, rawURL string) (*http.Response, error) {
	body, ok := g[rawURL]
	if !ok {
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
}

const (
	wikiBase  = "https://en.wikipedia.org"
	firstURL  = wikiBase + "/wiki/Special:AllPages"
	chunkHref = "/w/index.php?title=Special:AllPages&amp;from="
	chunkURL  = wikiBase + "/w/index.php?title=Special:AllPages&from="
)

func chunk(nav string, entries ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	if nav != "" {
		b.WriteString(`<div class="mw-allpages-nav">` + nav + `</div>`)
	}
	b.WriteString(`<div class="mw-allpages-body"><ul class="mw-allpages-chunk">`)
	for _, e := range entries {
		b.WriteString(`<li><a href="/wiki/` + e + `">` + e + `</a></li>`)
	}
	b.WriteString(`</ul></div></body></html>`)
	return b.String()
}

func (s *IndexReaderTestSuite) read(c *gc.C, getter staticGetter, pageURL string, first bool) *IndexPage {
	base, err := url.Parse(wikiBase)
	c.Assert(err, gc.IsNil)
	page, err := newIndexReader(getter, base).Read(context.TODO(), pageURL, first)
	c.Assert(err, gc.IsNil)
	return page
}

func (s *IndexReaderTestSuite) TestFirstPageFollowsSingleNextLink(c *gc.C) {
	getter := staticGetter{firstURL: chunk(`<a href="`+chunkHref+`B">Next page (B)</a>`, "A", "Aa")}

	page := s.read(c, getter, firstURL, true)
	c.Assert(page.Entries, gc.DeepEquals, []string{wikiBase + "/wiki/A", wikiBase + "/wiki/Aa"})
	c.Assert(page.Next, gc.Equals, chunkURL+"B")
}

func (s *IndexReaderTestSuite) TestMiddlePageFollowsLastLink(c *gc.C) {
	getter := staticGetter{chunkURL + "B": chunk(
		`<a href="`+chunkHref+`A">Previous page (A)</a> | <a href="`+chunkHref+`C">Next page (C)</a>`, "B")}

	page := s.read(c, getter, chunkURL+"B", false)
	c.Assert(page.Next, gc.Equals, chunkURL+"C")
}

func (s *IndexReaderTestSuite) TestLastPage(c *gc.C) {
	getter := staticGetter{
		chunkURL + "C": chunk(`<a href="`+chunkHref+`B">Previous page (B)</a>`, "C"),
		firstURL:       chunk("", "Only"),
	}

	c.Assert(s.read(c, getter, chunkURL+"C", false).Next, gc.Equals, "")
	c.Assert(s.read(c, getter, firstURL, true).Next, gc.Equals, "")
}

func (s *IndexReaderTestSuite) TestFailedFetch(c *gc.C) {
	base, _ := url.Parse(wikiBase)
	_, err := newIndexReader(staticGetter{}, base).Read(context.TODO(), firstURL, true)
	c.Assert(err, gc.ErrorMatches, "fetch index .*: unexpected status 404")
}

func (s *IndexReaderTestSuite) TestDecodesDeclaredCharset(c *gc.C) {
	specs := []struct {
		contentType string
		body        string
		exp         string
	}{
		{contentType: "text/html; charset=ISO-8859-1", body: "M\xfcnchen", exp: "München"},
		{contentType: "text/html; charset=UTF-8", body: "München", exp: "München"},
		{contentType: "text/html", body: "München", exp: "München"},
		{contentType: "", body: "München", exp: "München"},
	}

	for i, spec := range specs {
		res := &http.Response{
			Header: http.Header{"Content-Type": []string{spec.contentType}},
			Body:   io.NopCloser(strings.NewReader(spec.body)),
		}
		got, err := io.ReadAll(decodedBody(res))
		c.Assert(err, gc.IsNil)
		c.Assert(string(got), gc.Equals, spec.exp, gc.Commentf("spec %d", i))
	}
}
