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

// Package sources provides the inputs of pipeline chain steps. A Source is a
// validated description of where values come from, each chain step opens it
// exactly once and drains the resulting Producer.
package sources

import (
	"strconv"
	"strings"

	enterrors "github.com/weaviate/setstream/entities/errors"
)

// Consumer receives a converted token and reports whether it acted on it.
type Consumer func(v uint64) bool

// Producer is a one-shot, lazy sequence of values.
//
//	for p.HasNext() {
//		if _, err := p.Next(consume); err != nil {
//			return err
//		}
//	}
//	if err := p.Err(); err != nil {
//		return err
//	}
type Producer interface {
	HasNext() bool
	// Next converts the next token and hands it to consume. The returned bool
	// is the consumer's verdict. Conversion failures are returned as
	// *errors.ParseError and the token is not delivered.
	Next(consume Consumer) (bool, error)
	// Err reports a read error that made HasNext return false.
	Err() error
	Close() error
}

// Source is validated when it is added to a pipeline and opened when the
// pipeline executes the step.
type Source interface {
	Validate() error
	Open() (Producer, error)
	String() string
}

// ParseToken strictly converts a decimal token into a uint64. Surrounding
// blanks and a single leading '+' are accepted.
func ParseToken(token string) (uint64, error) {
	s := strings.TrimSpace(token)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	return strconv.ParseUint(s, 10, 64)
}

// window implements skip and limit over a token sequence.
type window struct {
	skip     int64
	limit    int64
	hasLimit bool
}

type Option func(w *window)

// WithSkip drops the first n tokens.
func WithSkip(n int64) Option {
	return func(w *window) {
		w.skip = n
	}
}

// WithLimit caps the number of tokens delivered after skipping.
func WithLimit(n int64) Option {
	return func(w *window) {
		w.limit = n
		w.hasLimit = true
	}
}

func newWindow(opts []Option) window {
	var w window
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

func (w window) validate() error {
	if w.skip < 0 {
		return enterrors.NewInvalidArgument("skip must not be negative, got %d", w.skip)
	}
	if w.hasLimit && w.limit < 0 {
		return enterrors.NewInvalidArgument("limit must not be negative, got %d", w.limit)
	}
	return nil
}

// exhausted reports whether delivered tokens reached the limit.
func (w window) exhausted(delivered int64) bool {
	return w.hasLimit && delivered >= w.limit
}
