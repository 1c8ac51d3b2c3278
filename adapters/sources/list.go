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

	enterrors "github.com/weaviate/setstream/entities/errors"
)

// ListSource delivers an in-memory list, either typed values or raw string
// tokens that are parsed on delivery.
type ListSource struct {
	values []uint64
	tokens []string
	typed  bool
	window window
}

// Values is a list source of typed values.
func Values(values ...uint64) *ListSource {
	return List(values)
}

// Strings is a list source of raw tokens.
func Strings(tokens ...string) *ListSource {
	return Tokens(tokens)
}

func List(values []uint64, opts ...Option) *ListSource {
	return &ListSource{values: values, typed: true, window: newWindow(opts)}
}

func Tokens(tokens []string, opts ...Option) *ListSource {
	return &ListSource{tokens: tokens, window: newWindow(opts)}
}

func (s *ListSource) len() int {
	if s.typed {
		return len(s.values)
	}
	return len(s.tokens)
}

func (s *ListSource) Validate() error {
	if s == nil || s.len() == 0 {
		return enterrors.NewInvalidArgument("list source must not be empty")
	}
	return s.window.validate()
}

func (s *ListSource) Open() (Producer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := int64(s.len())
	start := s.window.skip
	if start > n {
		start = n
	}
	end := n
	if s.window.hasLimit && start+s.window.limit < end {
		end = start + s.window.limit
	}

	return &listProducer{source: s, pos: start, end: end}, nil
}

func (s *ListSource) String() string {
	if s == nil {
		return "list(nil)"
	}
	return fmt.Sprintf("list(%d)", s.len())
}

type listProducer struct {
	source *ListSource
	pos    int64
	end    int64
}

func (p *listProducer) HasNext() bool {
	return p.pos < p.end
}

func (p *listProducer) Next(consume Consumer) (bool, error) {
	if !p.HasNext() {
		return false, io.EOF
	}

	i := p.pos
	p.pos++

	if p.source.typed {
		return consume(p.source.values[i]), nil
	}

	v, err := ParseToken(p.source.tokens[i])
	if err != nil {
		return false, enterrors.NewParseError("list", i+1, p.source.tokens[i], err)
	}
	return consume(v), nil
}

func (p *listProducer) Err() error {
	return nil
}

func (p *listProducer) Close() error {
	p.pos = p.end
	return nil
}
