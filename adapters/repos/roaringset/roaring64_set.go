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

package roaringset

import (
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Roaring64Set is a Set backed by the portable 64-bit roaring bitmap. It
// trades some speed on sparse data for a wider container vocabulary (run
// containers) and is selected with BackendRoaring64.
type Roaring64Set struct {
	bm *roaring64.Bitmap
}

func NewRoaring64Set(values ...uint64) *Roaring64Set {
	return &Roaring64Set{bm: roaring64.BitmapOf(values...)}
}

func (s *Roaring64Set) Contains(v uint64) bool {
	return s.bm.Contains(v)
}

func (s *Roaring64Set) Insert(v uint64) bool {
	return s.bm.CheckedAdd(v)
}

func (s *Roaring64Set) Remove(v uint64) bool {
	return s.bm.CheckedRemove(v)
}

func (s *Roaring64Set) Cardinality() uint64 {
	return s.bm.GetCardinality()
}

func (s *Roaring64Set) IsEmpty() bool {
	return s.bm.IsEmpty()
}

func (s *Roaring64Set) Iterator() Iterator {
	return &roaring64Iterator{
		it:        s.bm.Iterator(),
		remaining: int(s.bm.GetCardinality()),
	}
}

func (s *Roaring64Set) ExtractRandom(n int64, rnd *rand.Rand) Set {
	card := s.Cardinality()
	switch {
	case n <= 0 || card == 0:
		return NewRoaring64Set()
	case uint64(n) >= card:
		all := &Roaring64Set{bm: s.bm}
		s.bm = roaring64.New()
		return all
	}

	extracted := NewRoaring64Set()
	extractRandom(s, extracted, uint64(n), rnd)
	s.bm.RunOptimize()
	return extracted
}

func (s *Roaring64Set) RetainAll(other Set) {
	if o, ok := other.(*Roaring64Set); ok {
		if o == s {
			return
		}
		s.bm.And(o.bm)
		return
	}
	retainGeneric(s, other)
}

func (s *Roaring64Set) Clear() {
	s.bm.Clear()
}

func (s *Roaring64Set) ToArray() []uint64 {
	return s.bm.ToArray()
}

func (s *Roaring64Set) Empty() Set {
	return NewRoaring64Set()
}

type roaring64Iterator struct {
	it        roaring64.IntPeekable64
	remaining int
}

func (i *roaring64Iterator) Next() (uint64, bool) {
	if !i.it.HasNext() {
		i.remaining = 0
		return 0, false
	}
	i.remaining--
	return i.it.Next(), true
}

func (i *roaring64Iterator) Len() int {
	return i.remaining
}
