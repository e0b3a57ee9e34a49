package aggregators

import (
	"sync/atomic"

	"github.com/Ahmed-Sermani/wikirank/bsp"
)

var _ bsp.Aggregator = (*IntAggregator)(nil)

// IntAggregator sums int values. It is safe for concurrent use.
type IntAggregator struct {
	sum atomic.Int64
}

func (*IntAggregator) Type() string { return "IntAggregator" }

func (a *IntAggregator) Get() any { return int(a.sum.Load()) }

func (a *IntAggregator) Set(v any) { a.sum.Store(int64(v.(int))) }

func (a *IntAggregator) Aggregate(v any) { a.sum.Add(int64(v.(int))) }
