package aggregators

import (
	"math"
	"sync/atomic"

	"github.com/Ahmed-Sermani/wikirank/bsp"
)

var _ bsp.Aggregator = (*Float64Aggregator)(nil)

// Float64Aggregator sums float64 values without locking. Float addition is
// not associative so concurrent Aggregate calls may differ in the last bits
// between runs.
type Float64Aggregator struct {
	// IEEE 754 bits of the running sum.
	sum atomic.Uint64
}

func (*Float64Aggregator) Type() string { return "Float64Aggregator" }

func (a *Float64Aggregator) Get() any { return math.Float64frombits(a.sum.Load()) }

func (a *Float64Aggregator) Set(v any) { a.sum.Store(math.Float64bits(v.(float64))) }

func (a *Float64Aggregator) Aggregate(v any) {
	x := v.(float64)
	for {
		old := a.sum.Load()
		if a.sum.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+x)) {
			return
		}
	}
}
