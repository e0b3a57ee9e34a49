package crawler

import (
	"net/url"

	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(LinkExtractorTestSuite))

type LinkExtractorTestSuite struct {
	le *linkExtractor
}

func (s *LinkExtractorTestSuite) SetUpTest(c *gc.C) {
	base, err := url.Parse("https://de.wikipedia.org")
	c.Assert(err, gc.IsNil)
	s.le = newLinkExtractor(base)
}

const pageHead = `<html><head><script>RLCONF={"wgCanonicalNamespace":"","wgPageName":"Berlin"};</script></head><body>`

func (s *LinkExtractorTestSuite) TestExtract(c *gc.C) {
	content := pageHead + `
<h1 id="firstHeading"> Berlin </h1>
<div id="mw-content-text"><div class="mw-parser-output">
<p>Berlin is the capital of <a href="/wiki/Deutschland" title="Deutschland">Germany</a>
and lies on the <a href="/wiki/Spree#Verlauf">Spree</a>.
It has no <a class="new" href="/w/index.php?title=Nichts&amp;action=edit&amp;redlink=1">Nichts</a>,
see <a href="https://example.org">example</a> and <a href="//commons.wikimedia.org/wiki/Berlin">commons</a>
or <a>nothing</a>. Again <a href="/wiki/Deutschland">Germany</a>.</p>
<table><tr><td><a href="/wiki/Brandenburg">Brandenburg</a></td></tr></table>
<p><b><a href="/wiki/Bold">nested</a></b></p>
</div></div>
<li id="t-permalink"><a href="/w/index.php?title=Berlin&amp;oldid=98765">Permanenter Link</a></li>
</body></html>`

	page, err := s.le.Extract([]byte(content), "https://de.wikipedia.org/wiki/Berlin")
	c.Assert(err, gc.IsNil)
	c.Assert(page.Title, gc.Equals, "Berlin")
	c.Assert(page.CanonicalURL, gc.Equals, "https://de.wikipedia.org/w/index.php?title=Berlin")
	c.Assert(page.Links, gc.DeepEquals, []string{
		"https://de.wikipedia.org/wiki/Deutschland",
		"https://de.wikipedia.org/wiki/Spree",
		"https://de.wikipedia.org/wiki/Deutschland",
	})
}

func (s *LinkExtractorTestSuite) TestCanonicalURL(c *gc.C) {
	specs := []struct {
		permalink string
		exp       string
	}{
		{permalink: "/w/index.php?title=Go&amp;oldid=1", exp: "https://de.wikipedia.org/w/index.php?title=Go"},
		{permalink: "/w/index.php?oldid=1&amp;title=Go", exp: "https://de.wikipedia.org/w/index.php?title=Go"},
		{permalink: "/w/index.php?title=Go&amp;oldid=1&amp;uselang=en", exp: "https://de.wikipedia.org/w/index.php?title=Go&uselang=en"},
		{permalink: "", exp: "https://de.wikipedia.org/wiki/Go"},
	}

	for i, spec := range specs {
		permalink := ""
		if spec.permalink != "" {
			permalink = `<li id="t-permalink"><a href="` + spec.permalink + `">link</a></li>`
		}
		content := pageHead + `<h1 id="firstHeading">Go</h1>` + permalink + `</body></html>`

		page, err := s.le.Extract([]byte(content), "https://de.wikipedia.org/wiki/Go")
		c.Assert(err, gc.IsNil)
		c.Assert(page.CanonicalURL, gc.Equals, spec.exp, gc.Commentf("spec %d", i))
	}
}

func (s *LinkExtractorTestSuite) TestNotAnArticle(c *gc.C) {
	specs := []string{
		`<html><head><script>RLCONF={"wgCanonicalNamespace":"Talk"};</script></head><body><h1 id="firstHeading">Talk:Go</h1></body></html>`,
		pageHead + `<h2>no heading</h2></body></html>`,
		pageHead + `<h1 id="firstHeading">   </h1></body></html>`,
	}

	for i, content := range specs {
		_, err := s.le.Extract([]byte(content), "https://de.wikipedia.org/wiki/X")
		c.Assert(xerrors.Is(err, ErrNotArticle), gc.Equals, true, gc.Commentf("spec %d", i))
	}
}
