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

	"github.com/weaviate/sroar"
)

// BitmapSet is the default Set, backed by a *sroar.Bitmap.
type BitmapSet struct {
	bm *sroar.Bitmap
}

func NewBitmapSet(values ...uint64) *BitmapSet {
	return &BitmapSet{bm: NewBitmap(values...)}
}

func (s *BitmapSet) Contains(v uint64) bool {
	return s.bm.Contains(v)
}

func (s *BitmapSet) Insert(v uint64) bool {
	if s.bm.Contains(v) {
		return false
	}
	s.bm.Set(v)
	return true
}

func (s *BitmapSet) Remove(v uint64) bool {
	if !s.bm.Contains(v) {
		return false
	}
	s.bm.Remove(v)
	return true
}

func (s *BitmapSet) Cardinality() uint64 {
	return uint64(s.bm.GetCardinality())
}

func (s *BitmapSet) IsEmpty() bool {
	return s.bm.IsEmpty()
}

func (s *BitmapSet) Iterator() Iterator {
	return newBitmapIterator(s.bm)
}

func (s *BitmapSet) ExtractRandom(n int64, rnd *rand.Rand) Set {
	card := s.Cardinality()
	switch {
	case n <= 0 || card == 0:
		return NewBitmapSet()
	case uint64(n) >= card:
		all := &BitmapSet{bm: s.bm}
		s.bm = sroar.NewBitmap()
		return all
	}

	extracted := NewBitmapSet()
	extractRandom(s, extracted, uint64(n), rnd)
	s.bm = Condense(s.bm)
	return extracted
}

func (s *BitmapSet) RetainAll(other Set) {
	if o, ok := other.(*BitmapSet); ok {
		if o == s {
			return
		}
		s.bm.And(o.bm)
		return
	}
	retainGeneric(s, other)
}

func (s *BitmapSet) Clear() {
	s.bm = sroar.NewBitmap()
}

func (s *BitmapSet) ToArray() []uint64 {
	return s.bm.ToArray()
}

func (s *BitmapSet) Empty() Set {
	return NewBitmapSet()
}

// sroar's iterator does not signal exhaustion, so the remaining cardinality
// is tracked alongside it.
type bitmapIterator struct {
	next      func() uint64
	remaining int
}

func newBitmapIterator(bm *sroar.Bitmap) *bitmapIterator {
	return &bitmapIterator{
		next:      bm.NewIterator().Next,
		remaining: bm.GetCardinality(),
	}
}

func (i *bitmapIterator) Next() (uint64, bool) {
	if i.remaining <= 0 {
		return 0, false
	}
	i.remaining--
	return i.next(), true
}

func (i *bitmapIterator) Len() int {
	return i.remaining
}
