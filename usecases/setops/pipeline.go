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
	"math/rand"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
	"github.com/weaviate/setstream/adapters/sources"
	enterrors "github.com/weaviate/setstream/entities/errors"
	"github.com/weaviate/setstream/usecases/monitoring"
)

// Pipeline owns a compressed set and the chain of steps not yet applied to
// it. The set survives executions, so a pipeline can be extended and
// executed again any number of times.
type Pipeline struct {
	set   roaringset.Set
	chain Chain
	// err is the first argument error of a builder call.
	err error

	rnd     *rand.Rand
	logger  logrus.FieldLogger
	metrics *monitoring.Metrics
}

type stepStats struct {
	tokens    uint64
	applied   uint64
	bytesRead int64
}

func (p *Pipeline) Distinct(source sources.Source) *Pipeline {
	return p.Then(Distinct, source)
}

func (p *Pipeline) Exclude(source sources.Source) *Pipeline {
	return p.Then(Exclude, source)
}

func (p *Pipeline) Intersect(source sources.Source) *Pipeline {
	return p.Then(Intersect, source)
}

func (p *Pipeline) Union(source sources.Source) *Pipeline {
	return p.Then(Union, source)
}

// Then queues op with source and returns the pipeline for chaining. An
// invalid argument is not queued, it is kept as the pipeline's error and
// every further builder call is ignored until Clear. Use Append to get the
// error right away.
func (p *Pipeline) Then(op Operator, source sources.Source) *Pipeline {
	if p.err != nil {
		return p
	}
	if err := p.Append(op, source); err != nil {
		p.err = err
	}
	return p
}

// Append validates source and queues the step. Nothing is queued if an error
// is returned.
func (p *Pipeline) Append(op Operator, source sources.Source) error {
	if !op.Valid() {
		return enterrors.NewInvalidArgument("unknown operator %d", int(op))
	}
	if source == nil {
		return enterrors.NewInvalidArgument("source for %s must not be nil", op)
	}
	if backed, ok := source.(interface{ Backing() roaringset.Set }); ok && backed.Backing() == p.set {
		return enterrors.ErrSelfReference
	}
	if err := source.Validate(); err != nil {
		return errors.Wrapf(err, "%s", op)
	}

	p.chain.Append(op, source)
	return nil
}

// Err returns the argument error recorded by a builder call, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// Pending is the number of queued steps.
func (p *Pipeline) Pending() int {
	return p.chain.Len()
}

// Execute applies all queued steps in order and empties the chain. If a step
// fails the error is returned, steps before it stay applied and all queued
// steps are dropped.
func (p *Pipeline) Execute() (*Pipeline, error) {
	if p.err != nil {
		return p, p.err
	}
	if p.chain.Len() == 0 {
		return p, nil
	}

	started := time.Now()
	steps := p.chain.Len()
	err := p.chain.Drain(func(i int, s step) error {
		stepStarted := time.Now()
		stats, err := p.runStep(s)
		took := time.Since(stepStarted)

		logger := p.logger.WithFields(logrus.Fields{
			"action":   "setops_execute_step",
			"step":     i,
			"operator": s.op.String(),
			"source":   s.source.String(),
			"tokens":   stats.tokens,
			"applied":  stats.applied,
			"took":     took,
		})
		p.metrics.AddBytesRead(stats.bytesRead)
		if err != nil {
			p.metrics.ObserveStep(s.op.String(), "error", stats.tokens, stats.applied, took)
			logger.WithError(err).Warn("chain step failed")
			return errors.Wrapf(err, "step %d (%s %s)", i, s.op, s.source)
		}

		p.metrics.ObserveStep(s.op.String(), "success", stats.tokens, stats.applied, took)
		logger.WithField("cardinality", p.set.Cardinality()).Debug("chain step applied")
		return nil
	})
	if err != nil {
		return p, err
	}

	p.logger.WithFields(logrus.Fields{
		"action":      "setops_execute",
		"steps":       steps,
		"cardinality": p.set.Cardinality(),
		"took":        time.Since(started),
	}).Debug("executed chain")
	return p, nil
}

// Stream executes the chain and returns a view on the result.
func (p *Pipeline) Stream() (*ResultView, error) {
	if _, err := p.Execute(); err != nil {
		return nil, err
	}
	return p.Read(), nil
}

func (p *Pipeline) runStep(s step) (stats stepStats, err error) {
	producer, err := s.source.Open()
	if err != nil {
		return stats, err
	}
	defer func() {
		if metered, ok := producer.(interface{ BytesRead() int64 }); ok {
			stats.bytesRead = metered.BytesRead()
		}
		if cerr := producer.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	target := p.set
	var collected roaringset.Set
	if s.op.Collects() {
		collected = p.set.Empty()
		target = collected
	}

	consume := func(v uint64) bool {
		// elements missing from the shared set can never survive the
		// intersection, so they are not collected
		if collected != nil && !p.set.Contains(v) {
			return false
		}
		return s.op.Apply(target, v)
	}

	for producer.HasNext() {
		applied, err := producer.Next(consume)
		if err != nil {
			return stats, err
		}
		stats.tokens++
		if applied {
			stats.applied++
		}
	}
	if err := producer.Err(); err != nil {
		return stats, err
	}

	if collected != nil {
		s.op.Finalize(p.set, collected)
	}
	return stats, nil
}

// Read returns a view on the current set. Queued steps are not reflected
// until Execute runs. The view is live: later changes to the pipeline show
// through it.
func (p *Pipeline) Read() *ResultView {
	return &ResultView{set: p.set, owner: p, logger: p.logger, metrics: p.metrics}
}

// RandomExtract removes up to n random elements from the pipeline's set and
// returns them as an independent view.
func (p *Pipeline) RandomExtract(n int64) *ResultView {
	before := p.set.Cardinality()
	extracted := p.set.ExtractRandom(n, p.rnd)

	p.metrics.AddExtracted(extracted.Cardinality())
	p.logger.WithFields(logrus.Fields{
		"action":    "setops_random_extract",
		"requested": n,
		"extracted": extracted.Cardinality(),
		"before":    before,
		"remaining": p.set.Cardinality(),
	}).Debug("extracted random subset")

	return &ResultView{set: extracted, logger: p.logger, metrics: p.metrics}
}

func (p *Pipeline) IsEmpty() bool {
	return p.set.IsEmpty()
}

func (p *Pipeline) Size() uint64 {
	return p.set.Cardinality()
}

// Clear empties the set, drops queued steps and forgets a recorded argument
// error.
func (p *Pipeline) Clear() {
	p.set.Clear()
	p.chain.Reset()
	p.err = nil
}
