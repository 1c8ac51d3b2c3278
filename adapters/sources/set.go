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

package sources

import (
	"fmt"
	"io"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
	enterrors "github.com/weaviate/setstream/entities/errors"
)

// SetSource streams the elements of an already materialized set in
// ascending order. It is how the result of one pipeline feeds another.
type SetSource struct {
	set roaringset.Set
}

func FromSet(set roaringset.Set) *SetSource {
	return &SetSource{set: set}
}

// Backing returns the streamed set, pipelines use it to refuse consuming
// their own result.
func (s *SetSource) Backing() roaringset.Set {
	if s == nil {
		return nil
	}
	return s.set
}

func (s *SetSource) Validate() error {
	if s == nil || s.set == nil {
		return enterrors.NewInvalidArgument("stream source needs a result set")
	}
	return nil
}

func (s *SetSource) Open() (Producer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &setProducer{it: s.set.Iterator()}, nil
}

func (s *SetSource) String() string {
	if s == nil || s.set == nil {
		return "stream(nil)"
	}
	return fmt.Sprintf("stream(%d)", s.set.Cardinality())
}

type setProducer struct {
	it         roaringset.Iterator
	pending    uint64
	hasPending bool
	done       bool
}

func (p *setProducer) HasNext() bool {
	if p.hasPending {
		return true
	}
	if p.done {
		return false
	}
	v, ok := p.it.Next()
	if !ok {
		p.done = true
		return false
	}
	p.pending, p.hasPending = v, true
	return true
}

func (p *setProducer) Next(consume Consumer) (bool, error) {
	if !p.HasNext() {
		return false, io.EOF
	}
	p.hasPending = false
	return consume(p.pending), nil
}

func (p *setProducer) Err() error {
	return nil
}

func (p *setProducer) Close() error {
	p.done, p.hasPending = true, false
	return nil
}
