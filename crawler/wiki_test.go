package crawler_test

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/Ahmed-Sermani/wikirank/graph/store/memory"
)

// fakeWiki serves articles and index chunks from memory and counts the
// requests it receives per path.
type fakeWiki struct {
	*httptest.Server

	mu    sync.Mutex
	pages map[string]string
	delay map[string]time.Duration
	hits  map[string]int
}

func newFakeWiki() *fakeWiki {
	w := &fakeWiki{
		pages: make(map[string]string),
		delay: make(map[string]time.Duration),
		hits:  make(map[string]int),
	}
	w.Server = httptest.NewServer(http.HandlerFunc(w.serve))
	return w
}

func (w *fakeWiki) serve(rw http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	w.mu.Lock()
	w.hits[key]++
	body, found := w.pages[key]
	delay := w.delay[key]
	w.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if key == "/" {
		rw.WriteHeader(http.StatusOK)
		return
	}
	if !found {
		http.NotFound(rw, r)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=UTF-8")
	_, _ = fmt.Fprint(rw, body)
}

func (w *fakeWiki) set(key, body string) {
	w.mu.Lock()
	w.pages[key] = body
	w.mu.Unlock()
}

func (w *fakeWiki) hitCount(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits[key]
}

// article registers an article at /wiki/<slug> titled title that links to
// the given slugs in its body text.
func (w *fakeWiki) article(slug, title string, links ...string) {
	w.set("/wiki/"+slug, articleHTML(title, slug, links...))
}

// index registers a single index chunk listing slugs.
func (w *fakeWiki) index(slugs ...string) {
	w.set("/wiki/Special:AllPages", indexHTML("", slugs...))
}

func (w *fakeWiki) url(slug string) string { return w.URL + "/wiki/" + slug }

func articleHTML(title, slug string, links ...string) string {
	var body strings.Builder
	for _, link := range links {
		fmt.Fprintf(&body, `see <a href="/wiki/%s" title="%s">%s</a>, `, link, link, link)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><script>RLCONF={"wgCanonicalNamespace":"","wgTitle":%q};</script></head>
<body>
<h1 id="firstHeading" class="firstHeading">%s</h1>
<div id="mw-content-text"><div class="mw-parser-output"><p>%s</p></div></div>
<ul><li id="t-permalink"><a href="/w/index.php?title=%s&amp;oldid=1234">Permanent link</a></li></ul>
</body></html>`, title, html.EscapeString(title), body.String(), slug)
}

func specialPageHTML(title string) string {
	return fmt.Sprintf(`<html><head><script>RLCONF={"wgCanonicalNamespace":"Special"};</script></head>
<body><h1 id="firstHeading">%s</h1></body></html>`, html.EscapeString(title))
}

// indexHTML renders an index chunk; nav holds the raw navigation links.
func indexHTML(nav string, slugs ...string) string {
	var items strings.Builder
	for _, slug := range slugs {
		fmt.Fprintf(&items, `<li><a href="/wiki/%s" title="%s">%s</a></li>`+"\n", slug, slug, slug)
	}
	navBlock := ""
	if nav != "" {
		navBlock = `<div class="mw-allpages-nav">` + nav + `</div>`
	}
	return fmt.Sprintf(`<html><body>%s
<div class="mw-allpages-body"><ul class="mw-allpages-chunk">
%s</ul></div>%s</body></html>`, navBlock, items.String(), navBlock)
}

// recordingGraph counts the writes reaching an in-memory graph.
type recordingGraph struct {
	*memory.InMemoryGraph

	mu       sync.Mutex
	bindings []graph.URLBinding
	edges    []graph.Edge
	articles []string
}

func newRecordingGraph() *recordingGraph {
	g := memory.NewInMemoryGraph()
	_ = g.Reset()
	return &recordingGraph{InMemoryGraph: g}
}

func (g *recordingGraph) InsertArticle(a *graph.Article) error {
	if err := g.InMemoryGraph.InsertArticle(a); err != nil {
		return err
	}
	g.mu.Lock()
	g.articles = append(g.articles, a.Title)
	g.mu.Unlock()
	return nil
}

func (g *recordingGraph) InsertURL(b *graph.URLBinding) error {
	if err := g.InMemoryGraph.InsertURL(b); err != nil {
		return err
	}
	g.mu.Lock()
	g.bindings = append(g.bindings, *b)
	g.mu.Unlock()
	return nil
}

func (g *recordingGraph) InsertEdge(e *graph.Edge) error {
	if err := g.InMemoryGraph.InsertEdge(e); err != nil {
		return err
	}
	g.mu.Lock()
	g.edges = append(g.edges, *e)
	g.mu.Unlock()
	return nil
}

func (g *recordingGraph) edgeCount(from, to string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	var n int
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			n++
		}
	}
	return n
}

func (g *recordingGraph) bindingsFor(title string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var urls []string
	for _, b := range g.bindings {
		if b.Title == title {
			urls = append(urls, b.URL)
		}
	}
	return urls
}
