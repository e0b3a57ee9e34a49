/*
   PageRank (https://en.wikipedia.org/wiki/PageRank) over the link graph of
   a wiki.

   A random surfer either follows one of the outbound links of the current
   article, with probability equal to the damping factor, or jumps to an
   article picked uniformly at random. The score of an article estimates
   the probability of finding the surfer there.

   Links are first folded into a column-stochastic transition matrix over
   the sorted set of titles. The matrix is then loaded into a BSP graph,
   one vertex per title and one weighted edge per non-zero cell, and a
   fixed number of power iterations is run on it.
*/
package ranker

import (
	"context"

	"github.com/Ahmed-Sermani/wikirank/bsp"
	"github.com/Ahmed-Sermani/wikirank/bsp/aggregators"
	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ErrEmptyGraph is returned when there are no links to rank.
var ErrEmptyGraph = xerrors.New("there are no links to rank")

// Ranker runs a fixed number of PageRank iterations on a transition matrix.
type Ranker struct {
	g      *bsp.Graph[float64, float64]
	cfg    Config
	matrix *TransitionMatrix
}

// NewRanker returns a new Ranker instance using the provided config
// options.
func NewRanker(cfg Config) (*Ranker, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("PageRank ranker config validation failed: %w", err)
	}

	g, err := bsp.NewGraph(bsp.GraphConfig[float64, float64]{
		ComputeWorkers: cfg.ComputeWorkers,
		ComputeFn:      makeComputeFunc(cfg.DampingFactor, cfg.Iterations+1),
	})
	if err != nil {
		return nil, err
	}

	return &Ranker{cfg: cfg, g: g}, nil
}

// Close releases the graph processor.
func (r *Ranker) Close() error {
	return r.g.Close()
}

// Load replaces the graph with one vertex per title of m and one edge per
// non-zero cell, weighted with the cell value.
func (r *Ranker) Load(m *TransitionMatrix) error {
	if err := r.g.Reset(); err != nil {
		return xerrors.Errorf("load transition matrix: %w", err)
	}

	for _, title := range m.Titles {
		r.g.AddVertex(title, 0.0)
	}
	for col, cells := range m.Columns {
		for _, cell := range cells {
			if err := r.g.AddEdge(m.Titles[col], m.Titles[cell.Row], cell.Weight); err != nil {
				return xerrors.Errorf("load transition matrix: %w", err)
			}
		}
	}
	r.matrix = m
	return nil
}

// Graph returns the underlying bsp.Graph instance.
func (r *Ranker) Graph() *bsp.Graph[float64, float64] {
	return r.g
}

// Executor creates a bsp.Executor for running PageRank once the matrix has
// been loaded.
func (r *Ranker) Executor() *bsp.Executor[float64, float64] {
	r.registerAggregators()
	return bsp.NewExecutor(r.g, bsp.ExecutorHooks[float64, float64]{
		PreStep: func(_ context.Context, g *bsp.Graph[float64, float64]) error {
			g.Aggregator("SAD").Set(0.0)
			g.Aggregator("residual").Set(r.danglingResidual(g))
			return nil
		},
		PostStep: func(_ context.Context, g *bsp.Graph[float64, float64], active int) (bool, error) {
			if active == 0 {
				return false, nil
			}
			if g.Superstep() > 1 {
				r.cfg.Logger.WithFields(logrus.Fields{
					"iteration": g.Superstep() - 1,
					"sad":       g.Aggregator("SAD").Get().(float64),
				}).Debug("rank iteration complete")
			}
			return true, nil
		},
	})
}

// danglingResidual returns the score each article receives from dangling
// articles in the upcoming superstep. It walks the titles in sorted order
// so the sum is reproducible.
func (r *Ranker) danglingResidual(g *bsp.Graph[float64, float64]) float64 {
	if r.cfg.Dangling != DanglingRedistribute || r.matrix == nil || g.Superstep() < 2 {
		return 0.0
	}

	var sum float64
	for col, title := range r.matrix.Titles {
		if r.matrix.Dangling(col) {
			sum += g.Vertex(title).Value()
		}
	}
	return sum / float64(r.matrix.Size())
}

func (r *Ranker) registerAggregators() {
	r.g.RegisterAggregator("page_count", new(aggregators.IntAggregator))
	r.g.RegisterAggregator("residual", new(aggregators.Float64Aggregator))
	r.g.RegisterAggregator("SAD", new(aggregators.Float64Aggregator))
}

// Scores invokes visitFn for each title in sorted order.
func (r *Ranker) Scores(visitFn func(title string, score float64) error) error {
	if r.matrix == nil {
		return nil
	}
	return r.g.VisitVertices(func(v *bsp.Vertex[float64, float64]) error {
		return visitFn(v.ID(), v.Value())
	})
}

// Rank computes the rank vector for edges and returns it sorted by
// descending score. It returns ErrEmptyGraph when edges is empty.
func (r *Ranker) Rank(ctx context.Context, edges []graph.Edge) ([]Score, error) {
	if len(edges) == 0 {
		return nil, ErrEmptyGraph
	}

	if err := r.Load(NewTransitionMatrix(edges)); err != nil {
		return nil, err
	}
	r.cfg.Logger.WithField("titles", r.matrix.Size()).Info("ranking articles")

	// One superstep counts the vertices, one seeds the vector, one runs per
	// iteration and a final idle one ends the run.
	if err := r.Executor().RunToCompletion(ctx); err != nil {
		return nil, xerrors.Errorf("rank: %w", err)
	}

	scores := make([]Score, 0, r.matrix.Size())
	_ = r.Scores(func(title string, score float64) error {
		scores = append(scores, Score{Title: title, Rank: score})
		return nil
	})
	SortScores(scores)
	return scores, nil
}
