/*
   Source -> stages -> sink pipeline. Each stage runs on its own goroutine
   and stages are wired together with unbuffered channels, so a slow stage
   applies back-pressure to the source.

   The first failure cancels the run. Every error reported before the
   pipeline drains is returned together.
*/
package pipeline

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Payload is implemented by values that can be sent through the pipeline.
type Payload interface {
	// MarkAsProcessed is called by the pipeline once the payload reaches
	// the sink or is discarded by a stage.
	MarkAsProcessed()
}

// Processor is implemented by types that process payloads as part of a
// pipeline stage.
type Processor interface {
	// Process returns the payload to forward to the next stage. Returning
	// a nil payload drops it.
	Process(context.Context, Payload) (Payload, error)
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(context.Context, Payload) (Payload, error)

func (f ProcessorFunc) Process(ctx context.Context, p Payload) (Payload, error) {
	return f(ctx, p)
}

// StageRunner is implemented by the stages of a pipeline. Run reads from
// in until it is closed or ctx is cancelled and forwards its results to
// out. The pipeline closes out once Run returns.
type StageRunner interface {
	Run(ctx context.Context, in <-chan Payload, out chan<- Payload) error
}

type Source interface {
	// Next fetches the next payload. It returns false once the source is
	// exhausted or an error occurred.
	Next(context.Context) bool

	Payload() Payload

	// Error returns the last error observed by the source.
	Error() error
}

type Sink interface {
	// Consume handles a payload that made it through every stage.
	Consume(context.Context, Payload) error
}

type Pipeline struct {
	stages []StageRunner
}

// New returns a Pipeline where payloads traverse stages in order.
func New(stages ...StageRunner) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process streams the payloads of source through the stages and into sink.
// It blocks until the source is exhausted, an error occurs or ctx is
// cancelled.
func (p *Pipeline) Process(ctx context.Context, source Source, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	spawn := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
				cancel()
			}
		}()
	}

	head := make(chan Payload)
	spawn(func() error {
		defer close(head)
		return feed(ctx, source, head)
	})

	var in <-chan Payload = head
	for i, stage := range p.stages {
		src, out := in, make(chan Payload)
		spawn(func() error {
			defer close(out)
			if err := stage.Run(ctx, src, out); err != nil {
				return xerrors.Errorf("pipeline stage %d: %w", i, err)
			}
			return nil
		})
		in = out
	}

	tail := in
	spawn(func() error {
		return drain(ctx, sink, tail)
	})

	wg.Wait()
	return errs
}

// feed pushes the payloads of source into out.
func feed(ctx context.Context, source Source, out chan<- Payload) error {
	for source.Next(ctx) {
		payload := source.Payload()
		select {
		case out <- payload:
		case <-ctx.Done():
			payload.MarkAsProcessed()
			return nil
		}
	}

	if err := source.Error(); err != nil {
		return xerrors.Errorf("pipeline source: %w", err)
	}
	return nil
}

// drain hands the output of the last stage to sink and marks every
// payload as processed.
func drain(ctx context.Context, sink Sink, in <-chan Payload) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, open := <-in:
			if !open {
				return nil
			}
			err := sink.Consume(ctx, payload)
			payload.MarkAsProcessed()
			if err != nil {
				return xerrors.Errorf("pipeline sink: %w", err)
			}
		}
	}
}
