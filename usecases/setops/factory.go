//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package setops

import (
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
	"github.com/weaviate/setstream/usecases/config"
	"github.com/weaviate/setstream/usecases/monitoring"
)

// Factory creates pipelines sharing backend, logger, metrics and random
// seed. It is safe for concurrent use, the pipelines it creates are not.
type Factory struct {
	backend roaringset.Backend
	seed    int64
	created atomic.Int64
	logger  logrus.FieldLogger
	metrics *monitoring.Metrics
}

// NewFactory validates the backend of cfg. logger and metrics may be nil.
func NewFactory(cfg config.Config, logger logrus.FieldLogger, metrics *monitoring.Metrics) (*Factory, error) {
	backend, err := roaringset.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger()
	}

	return &Factory{
		backend: backend,
		seed:    cfg.RandomSeed,
		logger:  logger,
		metrics: metrics,
	}, nil
}

var defaultFactory = func() *Factory {
	f, err := NewFactory(config.Defaults(), nil, nil)
	if err != nil {
		panic(err)
	}
	return f
}()

// New creates an empty pipeline with default settings.
func New() *Pipeline {
	return defaultFactory.New()
}

// New creates an empty pipeline.
func (f *Factory) New() *Pipeline {
	n := f.created.Add(1)
	return &Pipeline{
		set:     roaringset.New(f.backend),
		rnd:     f.newRand(n),
		logger:  f.logger.WithField("pipeline", n),
		metrics: f.metrics,
	}
}

// A fixed seed makes the n-th pipeline of every factory draw the same
// samples.
func (f *Factory) newRand(n int64) *rand.Rand {
	if f.seed != 0 {
		return rand.New(rand.NewSource(f.seed + n - 1))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() ^ n))
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
