package bsp

import "context"

// ExecutorHooks are invoked around every superstep. Both are optional.
type ExecutorHooks[VT, ET any] struct {
	// PreStep runs before the superstep. It may reset or seed the
	// aggregators read during that superstep.
	PreStep func(ctx context.Context, g *Graph[VT, ET]) error

	// PostStep runs after the superstep with the number of vertices it
	// processed. Returning false ends the run.
	PostStep func(ctx context.Context, g *Graph[VT, ET], active int) (bool, error)
}

// Executor drives a Graph through supersteps.
type Executor[VT, ET any] struct {
	g     *Graph[VT, ET]
	hooks ExecutorHooks[VT, ET]
}

// NewExecutor rewinds g to superstep 0 and returns an Executor that runs it
// with hooks.
func NewExecutor[VT, ET any](g *Graph[VT, ET], hooks ExecutorHooks[VT, ET]) *Executor[VT, ET] {
	g.superstep = 0
	return &Executor[VT, ET]{g: g, hooks: hooks}
}

// RunToCompletion executes supersteps until no vertex is processed, ctx is
// cancelled, a step fails or PostStep returns false.
func (ex *Executor[VT, ET]) RunToCompletion(ctx context.Context) error {
	return ex.run(ctx, -1)
}

// RunSteps executes at most n supersteps. It stops early on the same
// conditions as RunToCompletion.
func (ex *Executor[VT, ET]) RunSteps(ctx context.Context, n int) error {
	return ex.run(ctx, n)
}

func (ex *Executor[VT, ET]) Graph() *Graph[VT, ET] { return ex.g }

func (ex *Executor[VT, ET]) Superstep() int { return ex.g.Superstep() }

func (ex *Executor[VT, ET]) run(ctx context.Context, remaining int) error {
	for ; remaining != 0; remaining-- {
		if err := ctx.Err(); err != nil {
			return err
		}

		if pre := ex.hooks.PreStep; pre != nil {
			if err := pre(ctx, ex.g); err != nil {
				return err
			}
		}

		active, err := ex.g.step()
		if err != nil {
			return err
		}

		keepRunning := active > 0
		if post := ex.hooks.PostStep; post != nil {
			if keepRunning, err = post(ctx, ex.g, active); err != nil {
				return err
			}
		}
		ex.g.superstep++
		if !keepRunning {
			return nil
		}
	}
	return nil
}
