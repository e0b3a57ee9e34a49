package pipeline

import "context"

type fifo struct {
	proc Processor
}

// FIFO returns a StageRunner that processes payloads one at a time in the
// order they arrive.
func FIFO(proc Processor) StageRunner {
	return fifo{proc: proc}
}

func (f fifo) Run(ctx context.Context, in <-chan Payload, out chan<- Payload) error {
	for {
		var payload Payload
		select {
		case <-ctx.Done():
			return nil
		case p, open := <-in:
			if !open {
				return nil
			}
			payload = p
		}

		next, err := f.proc.Process(ctx, payload)
		if err != nil || next == nil {
			payload.MarkAsProcessed()
			if err != nil {
				return err
			}
			continue
		}

		select {
		case out <- next:
		case <-ctx.Done():
			next.MarkAsProcessed()
			return nil
		}
	}
}
