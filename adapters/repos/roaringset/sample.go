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

// pickRanks chooses k distinct ranks out of [0, card) uniformly at random
// using Floyd's algorithm. If k is more than half of card the complement is
// sampled instead and invert is set, so a rank r is picked if
// ranks.Contains(r) != invert.
func pickRanks(card, k uint64, rnd *rand.Rand) (ranks *sroar.Bitmap, invert bool) {
	if k > card/2 {
		k = card - k
		invert = true
	}

	ranks = sroar.NewBitmap()
	for j := card - k; j < card; j++ {
		t := uint64(rnd.Int63n(int64(j + 1)))
		if ranks.Contains(t) {
			ranks.Set(j)
		} else {
			ranks.Set(t)
		}
	}
	return ranks, invert
}

// selectByRank walks it once and returns the elements whose position is
// picked by ranks. Values come back in ascending order.
func selectByRank(it Iterator, ranks *sroar.Bitmap, invert bool, k uint64) []uint64 {
	picked := make([]uint64, 0, k)
	var rank uint64
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		if ranks.Contains(rank) != invert {
			picked = append(picked, v)
			if uint64(len(picked)) == k {
				break
			}
		}
		rank++
	}
	return picked
}

// extractRandom moves a random subset of size 0 < n < card from src into
// dst.
func extractRandom(src, dst Set, n uint64, rnd *rand.Rand) {
	ranks, invert := pickRanks(src.Cardinality(), n, rnd)
	for _, v := range selectByRank(src.Iterator(), ranks, invert, n) {
		dst.Insert(v)
		src.Remove(v)
	}
}
