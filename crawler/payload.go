package crawler

import (
	"sync"

	"github.com/Ahmed-Sermani/wikirank/pipeline"
)

var (
	_ pipeline.Payload = (*crawlerPayload)(nil)

	// payloadPool recycles payloads; a large wiki index yields millions
	// of them.
	payloadPool = sync.Pool{
		New: func() any { return new(crawlerPayload) },
	}
)

// crawlerPayload carries one index entry through the pipeline.
type crawlerPayload struct {
	URL   string
	Title string
}

func newPayload(url string) *crawlerPayload {
	p := payloadPool.Get().(*crawlerPayload)
	p.URL = url
	return p
}

// MarkAsProcessed resets the payload and returns it to the pool.
func (p *crawlerPayload) MarkAsProcessed() {
	p.URL = ""
	p.Title = ""
	payloadPool.Put(p)
}
