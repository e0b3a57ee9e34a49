package ranker

import (
	"io"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// DanglingPolicy decides what happens to the score held by articles that
// have no outbound links.
type DanglingPolicy string

const (
	// DanglingZero leaves the column of a dangling article empty so its
	// score leaks out of the vector on every iteration.
	DanglingZero DanglingPolicy = "zero"

	// DanglingRedistribute spreads the score of dangling articles
	// uniformly over all articles, as in textbook PageRank.
	DanglingRedistribute DanglingPolicy = "redistribute"
)

// Config encapsulates the settings for the PageRank ranker.
type Config struct {
	// DampingFactor is the probability of following an outbound link.
	DampingFactor float64

	// Iterations is the fixed number of power iterations to run.
	Iterations int

	// Dangling selects how dangling articles are treated.
	Dangling DanglingPolicy

	// ComputeWorkers is the number of workers used by the graph processor.
	ComputeWorkers int

	Logger *logrus.Entry
}

// DefaultConfig returns 20 iterations with a damping factor of 0.85 and
// empty dangling columns.
func DefaultConfig() Config {
	return Config{
		DampingFactor:  0.85,
		Iterations:     20,
		Dangling:       DanglingZero,
		ComputeWorkers: runtime.NumCPU(),
	}
}

func (cfg *Config) validate() error {
	var err error
	if cfg.DampingFactor <= 0 || cfg.DampingFactor >= 1 {
		err = multierror.Append(err, xerrors.Errorf("damping factor must be in (0, 1); got %v", cfg.DampingFactor))
	}
	if cfg.Iterations < 1 {
		err = multierror.Append(err, xerrors.Errorf("iterations must be at least 1; got %d", cfg.Iterations))
	}
	switch cfg.Dangling {
	case "":
		cfg.Dangling = DanglingZero
	case DanglingZero, DanglingRedistribute:
	default:
		err = multierror.Append(err, xerrors.Errorf("unknown dangling policy %q", cfg.Dangling))
	}
	if cfg.ComputeWorkers <= 0 {
		err = multierror.Append(err, xerrors.New("invalid value for compute workers"))
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(l)
	}
	return err
}
