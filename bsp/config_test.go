package bsp

import (
	"github.com/Ahmed-Sermani/wikirank/bsp/message"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ConfigTestSuite))

type ConfigTestSuite struct{}

func (s *ConfigTestSuite) TestDefaults(c *gc.C) {
	cfg := GraphConfig[float64, float64]{
		ComputeFn: func(*Graph[float64, float64], *Vertex[float64, float64], message.Iterator) error { return nil },
	}
	c.Assert(cfg.validate(), gc.IsNil)
	c.Assert(cfg.QueueFactory, gc.NotNil)
	c.Assert(cfg.ComputeWorkers > 0, gc.Equals, true)
	c.Assert(cfg.BatchSize, gc.Equals, defaultBatchSize)
}

func (s *ConfigTestSuite) TestInvalid(c *gc.C) {
	cfg := GraphConfig[float64, float64]{ComputeWorkers: -1, BatchSize: -3}
	err := cfg.validate()
	c.Assert(err, gc.ErrorMatches, `(?s).*invalid value for ComputeWorkers: -1.*invalid value for BatchSize: -3.*compute function not specified.*`)
}
