package bsp

import (
	"runtime"

	"github.com/Ahmed-Sermani/wikirank/bsp/message"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// GraphConfig encapsulates the configuration options for creating graphs.
type GraphConfig[VT, ET any] struct {
	// QueueFactory is used by the graph to create message queue instances
	// for each vertex. Defaults to an in-memory queue.
	QueueFactory message.QueueFactory

	// ComputeFn is invoked on every active vertex in each superstep.
	ComputeFn ComputeFunc[VT, ET]

	// ComputeWorkers is the number of goroutines that run ComputeFn.
	// Defaults to runtime.NumCPU().
	ComputeWorkers int

	// BatchSize is the number of vertices a worker computes per dispatch.
	// Defaults to 64.
	BatchSize int
}

const defaultBatchSize = 64

func (g *GraphConfig[VT, ET]) validate() error {
	var err error
	if g.QueueFactory == nil {
		g.QueueFactory = message.NewInMemoryQueue
	}
	if g.ComputeWorkers == 0 {
		g.ComputeWorkers = runtime.NumCPU()
	}
	if g.BatchSize == 0 {
		g.BatchSize = defaultBatchSize
	}

	if g.ComputeWorkers < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for ComputeWorkers: %d", g.ComputeWorkers))
	}
	if g.BatchSize < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for BatchSize: %d", g.BatchSize))
	}
	if g.ComputeFn == nil {
		err = multierror.Append(err, xerrors.New("compute function not specified"))
	}
	return err
}
