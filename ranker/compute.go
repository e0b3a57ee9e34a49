package ranker

import (
	"math"
	"sort"

	"github.com/Ahmed-Sermani/wikirank/bsp"
	"github.com/Ahmed-Sermani/wikirank/bsp/message"
)

// IncomingScoreMessage carries the share of Src's score that flows along
// one transition matrix cell.
type IncomingScoreMessage struct {
	Src   string
	Score float64
}

func (pr IncomingScoreMessage) Type() string { return "score" }

// makeComputeFunc returns a ComputeFunc that executes the PageRank power
// iteration with dampingFactor. Superstep 0 counts the vertices, superstep
// 1 assigns the uniform starting vector and every later superstep applies
// one update. Vertices freeze without sending scores at lastStep, which
// leaves the following superstep idle.
func makeComputeFunc(dampingFactor float64, lastStep int) bsp.ComputeFunc[float64, float64] {
	return func(g *bsp.Graph[float64, float64], v *bsp.Vertex[float64, float64], msgIt message.Iterator) error {
		superstep := g.Superstep()
		pageCountAgg := g.Aggregator("page_count")

		if superstep == 0 {
			pageCountAgg.Aggregate(1)
			return nil
		}

		var (
			pageCount = float64(pageCountAgg.Get().(int))
			newScore  float64
		)
		switch superstep {
		case 1:
			newScore = 1.0 / pageCount
		default:
			incoming, err := drainScores(msgIt)
			if err != nil {
				return err
			}

			// Sum in source order so the result does not depend on
			// which worker delivered a message first.
			var sum float64
			for _, msg := range incoming {
				sum += msg.Score
			}
			residual := g.Aggregator("residual").Get().(float64)
			newScore = dampingFactor*sum + (1.0-dampingFactor)/pageCount + dampingFactor*residual
		}

		g.Aggregator("SAD").Aggregate(math.Abs(v.Value() - newScore))
		v.SetValue(newScore)

		if superstep == lastStep {
			v.Freeze()
			return nil
		}
		for _, e := range v.Edges() {
			msg := IncomingScoreMessage{Src: v.ID(), Score: e.Value() * newScore}
			if err := g.SendMessage(e.DstID(), msg); err != nil {
				return err
			}
		}
		return nil
	}
}

func drainScores(msgIt message.Iterator) ([]IncomingScoreMessage, error) {
	var incoming []IncomingScoreMessage
	for msgIt.Next() {
		incoming = append(incoming, msgIt.Message().(IncomingScoreMessage))
	}
	if err := msgIt.Error(); err != nil {
		return nil, err
	}
	sort.Slice(incoming, func(i, j int) bool { return incoming[i].Src < incoming[j].Src })
	return incoming, nil
}
