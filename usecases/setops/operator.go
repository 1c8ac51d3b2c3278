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

// Package setops computes distinct, union, intersect and exclude over large
// collections of uint64 identifiers. A Pipeline queues chain steps lazily and
// applies them to a single compressed set when executed:
//
//	view, err := setops.New().
//		Distinct(sources.Files("users.txt")).
//		Exclude(sources.Values(1, 2, 3)).
//		Stream()
//
// Results can be fetched, iterated, written to files or fed into another
// pipeline through ResultView.Source. Pipelines are not safe for concurrent
// use.
package setops

import (
	"fmt"
	"strings"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
)

type Operator int

const (
	// Distinct inserts every token that is not yet in the set.
	Distinct Operator = iota
	// Exclude removes every token that is in the set.
	Exclude
	// Intersect keeps only elements that also occur in the input. It is the
	// only operator that needs the complete input before it can decide.
	Intersect
	// Union behaves like Distinct.
	Union
)

var operatorNames = [...]string{
	Distinct:  "distinct",
	Exclude:   "exclude",
	Intersect: "intersect",
	Union:     "union",
}

func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("operator(%d)", int(o))
	}
	return operatorNames[o]
}

func (o Operator) Valid() bool {
	return o >= Distinct && o <= Union
}

func ParseOperator(name string) (Operator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for op, n := range operatorNames {
		if n == name {
			return Operator(op), nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", name)
}

// Collects reports whether the operator accumulates its input into a
// temporary set and needs Finalize once the input is exhausted.
func (o Operator) Collects() bool {
	return o == Intersect
}

// Apply feeds a single token to set and reports whether set changed. For
// Intersect, set is the temporary collector of the step, not the shared set.
func (o Operator) Apply(set roaringset.Set, v uint64) bool {
	switch o {
	case Distinct, Union, Intersect:
		return set.Insert(v)
	case Exclude:
		return set.Remove(v)
	default:
		return false
	}
}

// Finalize completes a collecting operator after all tokens of the step were
// applied to collected.
func (o Operator) Finalize(shared, collected roaringset.Set) {
	if o == Intersect {
		shared.RetainAll(collected)
	}
}
