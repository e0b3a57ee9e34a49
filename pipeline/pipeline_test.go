package pipeline_test

import (
	"context"
	"sort"
	"testing"

	"github.com/Ahmed-Sermani/wikirank/pipeline"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(PipelineTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type PipelineTestSuite struct{}

func (s *PipelineTestSuite) TestDataFlow(c *gc.C) {
	double := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		in := p.(*intPayload)
		in.val *= 2
		return in, nil
	})
	dropOdd := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		if p.(*intPayload).val%4 != 0 {
			return nil, nil
		}
		return p, nil
	})

	src := &sourceStub{data: payloads(1, 2, 3, 4, 5, 6)}
	sink := new(sinkStub)
	p := pipeline.New(pipeline.FIFO(double), pipeline.FIFO(dropOdd))

	c.Assert(p.Process(context.TODO(), src, sink), gc.IsNil)
	c.Assert(sink.values(), gc.DeepEquals, []int{4, 8, 12})
	for _, payload := range src.data {
		c.Assert(payload.(*intPayload).processed, gc.Equals, true)
	}
}

func (s *PipelineTestSuite) TestSourceErrorAborts(c *gc.C) {
	src := &sourceStub{data: payloads(1, 2), err: xerrors.New("index unavailable")}
	sink := new(sinkStub)
	p := pipeline.New(pipeline.FIFO(passThrough()))

	err := p.Process(context.TODO(), src, sink)
	c.Assert(err, gc.ErrorMatches, "(?s).*pipeline source: index unavailable.*")
}

func (s *PipelineTestSuite) TestStageErrorStopsProcessing(c *gc.C) {
	var seen int
	failing := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		seen++
		if p.(*intPayload).val == 2 {
			return nil, xerrors.New("store unavailable")
		}
		return p, nil
	})

	src := &sourceStub{data: payloads(1, 2, 3, 4, 5)}
	err := pipeline.New(pipeline.FIFO(failing)).Process(context.TODO(), src, new(sinkStub))
	c.Assert(err, gc.ErrorMatches, "(?s).*pipeline stage 0: store unavailable.*")
	c.Assert(seen, gc.Equals, 2)
}

func (s *PipelineTestSuite) TestSinkError(c *gc.C) {
	src := &sourceStub{data: payloads(1, 2, 3)}
	sink := &sinkStub{err: xerrors.New("full")}

	err := pipeline.New(pipeline.FIFO(passThrough())).Process(context.TODO(), src, sink)
	c.Assert(err, gc.ErrorMatches, "(?s).*pipeline sink: full.*")
}

func (s *PipelineTestSuite) TestCancelledContext(c *gc.C) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sourceStub{data: payloads(1, 2, 3)}
	sink := new(sinkStub)
	c.Assert(pipeline.New(pipeline.FIFO(passThrough())).Process(ctx, src, sink), gc.IsNil)
	c.Assert(len(sink.data) <= 3, gc.Equals, true)
}

func passThrough() pipeline.Processor {
	return pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		return p, nil
	})
}

type intPayload struct {
	val       int
	processed bool
}

func (p *intPayload) MarkAsProcessed() { p.processed = true }

func payloads(vals ...int) []pipeline.Payload {
	out := make([]pipeline.Payload, len(vals))
	for i, v := range vals {
		out[i] = &intPayload{val: v}
	}
	return out
}

type sourceStub struct {
	index int
	data  []pipeline.Payload
	err   error
}

func (s *sourceStub) Next(context.Context) bool {
	if s.index >= len(s.data) {
		return false
	}
	s.index++
	return true
}
func (s *sourceStub) Error() error              { return s.err }
func (s *sourceStub) Payload() pipeline.Payload { return s.data[s.index-1] }

type sinkStub struct {
	data []pipeline.Payload
	err  error
}

func (s *sinkStub) Consume(_ context.Context, p pipeline.Payload) error {
	if s.err != nil {
		return s.err
	}
	s.data = append(s.data, p)
	return nil
}

func (s *sinkStub) values() []int {
	out := make([]int, 0, len(s.data))
	for _, p := range s.data {
		out = append(out, p.(*intPayload).val)
	}
	sort.Ints(out)
	return out
}
