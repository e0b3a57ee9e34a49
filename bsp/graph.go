package bsp

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Ahmed-Sermani/wikirank/bsp/message"
	"golang.org/x/xerrors"
)

// ComputeFunc is invoked by the graph on each vertex when executing a
// superstep.
type ComputeFunc[VT, ET any] func(g *Graph[VT, ET], v *Vertex[VT, ET], msgIt message.Iterator) error

type Vertex[VT any, ET any] struct {
	id     string
	value  VT
	active bool

	// inbox[superstep%2] holds the messages delivered in the current
	// superstep while inbox[(superstep+1)%2] collects the ones for the
	// next superstep.
	inbox [2]message.Queue
	edges []*Edge[ET]
}

func (v *Vertex[VT, ET]) ID() string { return v.id }

func (v *Vertex[VT, ET]) Edges() []*Edge[ET] { return v.edges }

// Freeze marks the vertex as inactive. Inactive vertices are skipped in
// the following supersteps until they receive a message.
func (v *Vertex[VT, ET]) Freeze() { v.active = false }

func (v *Vertex[VT, ET]) Value() VT { return v.value }

func (v *Vertex[VT, ET]) SetValue(val VT) { v.value = val }

type Edge[ET any] struct {
	value ET
	dstID string
}

func (e *Edge[ET]) DstID() string { return e.dstID }

func (e *Edge[ET]) Value() ET { return e.value }

// Graph is a parallel graph processor modelled on Pregel
// (https://15799.courses.cs.cmu.edu/fall2013/static/papers/p135-malewicz.pdf).
//
// Vertices are handed to the compute workers in batches of consecutive ids
// so that graphs with millions of vertices do not pay for one channel send
// per vertex and superstep.
type Graph[VT, ET any] struct {
	superstep    int
	vertices     map[string]*Vertex[VT, ET]
	queueFactory message.QueueFactory
	aggregators  map[string]Aggregator
	computeFunc  ComputeFunc[VT, ET]
	batchSize    int

	// order lists the vertices sorted by id. It is rebuilt lazily after
	// vertices are added.
	order []*Vertex[VT, ET]

	workers sync.WaitGroup
	batchCh chan []*Vertex[VT, ET]

	// pending tracks the batches of the running superstep.
	pending sync.WaitGroup

	// errCh has room for a single error. Workers drop any error that
	// arrives once it is full.
	errCh chan error

	// activeInStep counts the vertices processed in the current superstep.
	activeInStep int64
}

// NewGraph creates a Graph using cfg. Callers must Close the graph once
// they are done with it.
func NewGraph[VT, ET any](cfg GraphConfig[VT, ET]) (*Graph[VT, ET], error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("graph config validation failed: %w", err)
	}

	g := &Graph[VT, ET]{
		computeFunc:  cfg.ComputeFn,
		queueFactory: cfg.QueueFactory,
		batchSize:    cfg.BatchSize,
		aggregators:  make(map[string]Aggregator),
		vertices:     make(map[string]*Vertex[VT, ET]),
	}
	g.startWorkers(cfg.ComputeWorkers)

	return g, nil
}

// Close stops the compute workers and releases the vertex queues.
func (g *Graph[VT, ET]) Close() error {
	close(g.batchCh)
	g.workers.Wait()

	return g.Reset()
}

// Reset removes every vertex and aggregator and rewinds the superstep
// counter.
func (g *Graph[VT, ET]) Reset() error {
	g.superstep = 0
	for _, v := range g.vertices {
		for i := range v.inbox {
			if err := v.inbox[i].Close(); err != nil {
				return xerrors.Errorf("closing message queue #%d for vertex %v: %w", i, v.ID(), err)
			}
		}
	}
	g.vertices = make(map[string]*Vertex[VT, ET])
	g.aggregators = make(map[string]Aggregator)
	g.order = nil
	return nil
}

// AddVertex inserts a vertex with the given id and initial value. Adding
// an existing id only overwrites its value.
func (g *Graph[VT, ET]) AddVertex(id string, initValue VT) {
	v := g.vertices[id]
	if v == nil {
		v = &Vertex[VT, ET]{
			id:     id,
			inbox:  [2]message.Queue{g.queueFactory(), g.queueFactory()},
			active: true,
		}
		g.vertices[id] = v
		g.order = nil
	}
	v.SetValue(initValue)
}

// AddEdge inserts a directed edge from srcID to dstID annotated with
// initValue. Edges are owned by their source vertex which must exist.
func (g *Graph[VT, ET]) AddEdge(srcID, dstID string, initValue ET) error {
	src := g.vertices[srcID]
	if src == nil {
		return xerrors.Errorf("create edge from %q to %q: %w", srcID, dstID, ErrUnknownEdgeSource)
	}

	src.edges = append(src.edges, &Edge[ET]{dstID: dstID, value: initValue})
	return nil
}

func (g *Graph[VT, ET]) RegisterAggregator(name string, aggregator Aggregator) {
	g.aggregators[name] = aggregator
}

func (g *Graph[VT, ET]) Aggregator(name string) Aggregator {
	return g.aggregators[name]
}

func (g *Graph[VT, ET]) Superstep() int { return g.superstep }

// Vertex returns the vertex with the given id or nil.
func (g *Graph[VT, ET]) Vertex(id string) *Vertex[VT, ET] { return g.vertices[id] }

// VisitVertices calls visitFn for every vertex in ascending id order and
// stops at the first error. It must not run concurrently with a superstep.
func (g *Graph[VT, ET]) VisitVertices(visitFn func(*Vertex[VT, ET]) error) error {
	for _, v := range g.sortedVertices() {
		if err := visitFn(v); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph[VT, ET]) sortedVertices() []*Vertex[VT, ET] {
	if g.order != nil && len(g.order) == len(g.vertices) {
		return g.order
	}
	g.order = make([]*Vertex[VT, ET], 0, len(g.vertices))
	for _, v := range g.vertices {
		g.order = append(g.order, v)
	}
	sort.Slice(g.order, func(i, j int) bool { return g.order[i].id < g.order[j].id })
	return g.order
}

// BroadcastToNeighbors sends msg along every outgoing edge of v. Neighbors
// receive it in the next superstep.
func (g *Graph[VT, ET]) BroadcastToNeighbors(v *Vertex[VT, ET], msg message.Message) error {
	for _, e := range v.edges {
		if err := g.SendMessage(e.DstID(), msg); err != nil {
			return err
		}
	}
	return nil
}

// SendMessage queues msg for delivery to the vertex with id dst in the
// next superstep.
func (g *Graph[VT, ET]) SendMessage(dst string, msg message.Message) error {
	v := g.vertices[dst]
	if v == nil {
		return xerrors.Errorf("can't deliver message to %q: %w", dst, ErrInvalidMessageDestination)
	}
	return v.inbox[(g.superstep+1)%2].Enqueue(msg)
}

func (g *Graph[VT, ET]) startWorkers(numWorkers int) {
	g.batchCh = make(chan []*Vertex[VT, ET], numWorkers)
	g.errCh = make(chan error, 1)

	g.workers.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go g.stepWorker()
	}
}

// stepWorker computes every vertex of the batches read from batchCh until
// the channel is closed.
func (g *Graph[VT, ET]) stepWorker() {
	defer g.workers.Done()
	for batch := range g.batchCh {
		for _, v := range batch {
			g.compute(v)
		}
		g.pending.Done()
	}
}

func (g *Graph[VT, ET]) compute(v *Vertex[VT, ET]) {
	inbox := v.inbox[g.superstep%2]
	if !v.active && !inbox.PendingMessages() {
		return
	}
	atomic.AddInt64(&g.activeInStep, 1)
	v.active = true

	if err := g.computeFunc(g, v, inbox.Messages()); err != nil {
		emitError(g.errCh, xerrors.Errorf("error while running compute function for vertex %q: %w", v.ID(), err))
	} else if err := inbox.DiscardMessages(); err != nil {
		emitError(g.errCh, xerrors.Errorf("failed discarding un-processed message for vertex %q: %w", v.ID(), err))
	}
}

// step executes the next superstep and returns the number of vertices that
// were processed, either because they were active or because they received
// a message.
func (g *Graph[VT, ET]) step() (int, error) {
	atomic.StoreInt64(&g.activeInStep, 0)

	order := g.sortedVertices()
	for lo := 0; lo < len(order); lo += g.batchSize {
		hi := lo + g.batchSize
		if hi > len(order) {
			hi = len(order)
		}
		g.pending.Add(1)
		g.batchCh <- order[lo:hi]
	}
	g.pending.Wait()

	var err error
	select {
	case err = <-g.errCh:
	default:
	}

	return int(atomic.LoadInt64(&g.activeInStep)), err
}

func emitError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}
