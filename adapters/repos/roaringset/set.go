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
	"fmt"
	"math/rand"
	"strings"
)

// Iterator walks the elements of a Set in ascending order. It is finite and
// can not be restarted, request a new one from the set instead.
type Iterator interface {
	// Next returns the next element, ok is false once the iterator is
	// exhausted.
	Next() (v uint64, ok bool)
	// Len is the number of elements not yet returned.
	Len() int
}

// Set is a mutable, compressed set of uint64 values. Implementations are not
// safe for concurrent use.
type Set interface {
	Contains(v uint64) bool
	// Insert adds v and reports whether the set changed.
	Insert(v uint64) bool
	// Remove deletes v and reports whether the set changed.
	Remove(v uint64) bool
	Cardinality() uint64
	IsEmpty() bool
	Iterator() Iterator
	// ExtractRandom removes up to n elements picked uniformly at random and
	// returns them as a new set of the same backend. n <= 0 leaves the set
	// untouched and returns an empty set, n >= Cardinality() moves the whole
	// content into the returned set.
	ExtractRandom(n int64, rnd *rand.Rand) Set
	// RetainAll keeps only elements also contained in other.
	RetainAll(other Set)
	Clear()
	ToArray() []uint64
	// Empty returns a new empty set of the same backend.
	Empty() Set
}

type Backend string

const (
	BackendSroar     Backend = "sroar"
	BackendRoaring64 Backend = "roaring64"

	DefaultBackend = BackendSroar
)

func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case "", BackendSroar:
		return BackendSroar, nil
	case BackendRoaring64:
		return BackendRoaring64, nil
	default:
		return "", fmt.Errorf("unsupported set backend %q, use %q or %q",
			name, BackendSroar, BackendRoaring64)
	}
}

// New creates a set of the given backend holding values. Unknown backends
// fall back to DefaultBackend.
func New(backend Backend, values ...uint64) Set {
	switch backend {
	case BackendRoaring64:
		return NewRoaring64Set(values...)
	default:
		return NewBitmapSet(values...)
	}
}

// retainGeneric is used when the other set is backed by a different
// implementation and a native And is not possible.
func retainGeneric(s Set, other Set) {
	if other.IsEmpty() {
		s.Clear()
		return
	}

	var drop []uint64
	it := s.Iterator()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		if !other.Contains(v) {
			drop = append(drop, v)
		}
	}
	for _, v := range drop {
		s.Remove(v)
	}
}
