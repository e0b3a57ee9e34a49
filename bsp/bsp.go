/*
   Bulk synchronous parallel (BSP) graph processing in the style of Pregel.

   A Graph holds vertices with values and weighted outgoing edges. Each
   superstep runs a compute function on every active vertex in parallel;
   messages sent during superstep n are delivered in superstep n+1.
   Aggregators collect global values across a superstep.
*/
package bsp

import (
	"golang.org/x/xerrors"
)

var (
	// ErrUnknownEdgeSource is returned by AddEdge when the source vertex
	// has not been added to the graph.
	ErrUnknownEdgeSource = xerrors.New("source vertex is not part of the graph")

	// ErrInvalidMessageDestination is returned by SendMessage when the
	// destination vertex is not part of the graph.
	ErrInvalidMessageDestination = xerrors.New("invalid message destination")
)

// Aggregator accumulates a global value from the vertices of a graph. Every
// implementation must be safe for concurrent use.
type Aggregator interface {
	Type() string
	Set(val any)
	Get() any

	// Aggregate folds val into the current value.
	Aggregate(val any)
}
