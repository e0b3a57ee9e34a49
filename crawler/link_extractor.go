package crawler

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/xerrors"
)

// ErrNotArticle is returned for pages outside the article namespace or
// pages missing the structure of a rendered article.
var ErrNotArticle = xerrors.New("not an article")

// articleMarker is embedded in the page configuration of every page that
// belongs to the main (article) namespace.
var articleMarker = []byte(`"wgCanonicalNamespace":""`)

var oldidParam = regexp.MustCompile(`([?&])oldid=\d*&?`)

const (
	headingSelector   = "#firstHeading"
	permalinkSelector = "#t-permalink a"
	bodyLinkSelector  = ".mw-parser-output > p > a"
	redLinkClass      = "new"
)

// Page is what the crawler learns from one fetched article.
type Page struct {
	Title        string
	CanonicalURL string

	// Links holds the absolute URLs of the articles linked from the body
	// text in order of appearance. Repeated links are kept.
	Links []string
}

type linkExtractor struct {
	base *url.URL
}

func newLinkExtractor(base *url.URL) *linkExtractor {
	return &linkExtractor{base: base}
}

// Extract parses content fetched from pageURL.
func (le *linkExtractor) Extract(content []byte, pageURL string) (*Page, error) {
	if !bytes.Contains(content, articleMarker) {
		return nil, ErrNotArticle
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, xerrors.Errorf("parse %s: %w", pageURL, err)
	}

	title := strings.TrimSpace(doc.Find(headingSelector).First().Text())
	if title == "" {
		return nil, xerrors.Errorf("%s has no heading: %w", pageURL, ErrNotArticle)
	}

	page := &Page{
		Title:        title,
		CanonicalURL: le.canonicalURL(doc, pageURL),
	}
	doc.Find(bodyLinkSelector).Each(func(_ int, a *goquery.Selection) {
		if a.HasClass(redLinkClass) {
			return
		}
		href, ok := a.Attr("href")
		if !ok || !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
			return
		}
		if link, ok := le.resolve(href); ok {
			page.Links = append(page.Links, link)
		}
	})

	return page, nil
}

// canonicalURL returns the permalink of the page without its revision id,
// falling back to pageURL when the page has no permalink.
func (le *linkExtractor) canonicalURL(doc *goquery.Document, pageURL string) string {
	href, ok := doc.Find(permalinkSelector).First().Attr("href")
	if !ok || href == "" {
		return pageURL
	}

	href = strings.TrimRight(oldidParam.ReplaceAllString(href, "$1"), "?&")
	if link, ok := le.resolve(href); ok {
		return link
	}
	return pageURL
}

// resolve turns href into an absolute URL on the wiki host and drops any
// fragment.
func (le *linkExtractor) resolve(href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := le.base.ResolveReference(ref)
	abs.Fragment = ""
	abs.RawFragment = ""
	return abs.String(), true
}
