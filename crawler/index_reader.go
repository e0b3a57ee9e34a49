package crawler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/xerrors"
)

const (
	indexNavSelector   = ".mw-allpages-nav"
	indexEntrySelector = ".mw-allpages-chunk li > a"
)

// IndexPage is one chunk of the alphabetical index.
type IndexPage struct {
	Entries []string

	// Next is the URL of the following chunk or empty on the last one.
	Next string
}

type indexReader struct {
	getter URLGetter
	base   *url.URL
}

func newIndexReader(getter URLGetter, base *url.URL) *indexReader {
	return &indexReader{getter: getter, base: base}
}

// Read fetches and parses the index chunk at pageURL. Unlike article
// fetches, any failure here is returned to the caller.
func (r *indexReader) Read(ctx context.Context, pageURL string, first bool) (*IndexPage, error) {
	res, err := r.getter.Get(ctx, pageURL)
	if err != nil {
		return nil, xerrors.Errorf("fetch index %s: %w", pageURL, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, xerrors.Errorf("fetch index %s: unexpected status %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(decodedBody(res))
	if err != nil {
		return nil, xerrors.Errorf("parse index %s: %w", pageURL, err)
	}

	page := new(IndexPage)
	doc.Find(indexEntrySelector).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			if link, ok := r.resolve(href); ok {
				page.Entries = append(page.Entries, link)
			}
		}
	})

	page.Next = r.nextPage(doc, pageURL, first)
	return page, nil
}

// nextPage follows the last link of the navigation control. The first
// chunk only offers "next"; any later chunk whose control holds a single
// link only offers "previous" and is therefore the last one.
func (r *indexReader) nextPage(doc *goquery.Document, pageURL string, first bool) string {
	nav := doc.Find(indexNavSelector).First()
	if nav.Length() == 0 {
		return ""
	}

	children := nav.Children()
	if children.Length() == 0 || (!first && children.Length() == 1) {
		return ""
	}

	href, ok := children.Last().Attr("href")
	if !ok {
		return ""
	}
	next, ok := r.resolve(href)
	if !ok || next == pageURL {
		return ""
	}
	return next
}

func (r *indexReader) resolve(href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := r.base.ResolveReference(ref)
	abs.Fragment = ""
	return abs.String(), true
}
