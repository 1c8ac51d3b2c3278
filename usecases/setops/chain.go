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
	"github.com/weaviate/setstream/adapters/sources"
)

type step struct {
	op     Operator
	source sources.Source
}

// Chain is the FIFO of steps that were queued but not executed yet.
type Chain struct {
	steps []step
}

func (c *Chain) Append(op Operator, source sources.Source) {
	c.steps = append(c.steps, step{op: op, source: source})
}

func (c *Chain) Len() int {
	return len(c.steps)
}

func (c *Chain) Reset() {
	c.steps = nil
}

// Drain removes all steps and hands them to fn in insertion order. It stops
// at the first error, the remaining steps are dropped as well.
func (c *Chain) Drain(fn func(i int, s step) error) error {
	steps := c.steps
	c.steps = nil

	for i, s := range steps {
		if err := fn(i, s); err != nil {
			return err
		}
	}
	return nil
}
