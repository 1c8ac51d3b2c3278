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
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
)

// Key identifies a pipeline in a Registry.
type Key struct {
	Namespace string
	Name      string
}

// Registry keeps a bounded number of named pipelines. When it is full the
// least recently used pipeline is evicted and cleared to release its memory.
// Removing or purging pipelines clears them as well.
type Registry struct {
	// mu makes the lookup and insert of GetOrCreate atomic, the cache
	// locks every single operation itself.
	mu      sync.Mutex
	cache   *lru.Cache
	factory *Factory
	logger  logrus.FieldLogger
}

func NewRegistry(size int, factory *Factory, logger logrus.FieldLogger) (*Registry, error) {
	if logger == nil {
		logger = discardLogger()
	}

	r := &Registry{factory: factory, logger: logger}
	cache, err := lru.NewWithEvict(size, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// GetOrCreate returns the pipeline stored under key, creating an empty one
// if there is none. created reports whether a new pipeline was made.
func (r *Registry) GetOrCreate(key Key) (p *Pipeline, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(key); ok {
		return v.(*Pipeline), false
	}

	p = r.factory.New()
	r.cache.Add(key, p)
	return p, true
}

func (r *Registry) Get(key Key) (*Pipeline, bool) {
	v, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Pipeline), true
}

func (r *Registry) Contains(key Key) bool {
	return r.cache.Contains(key)
}

// Remove clears and forgets the pipeline stored under key.
func (r *Registry) Remove(key Key) bool {
	return r.cache.Remove(key)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

// Keys returns the keys from the least to the most recently used.
func (r *Registry) Keys() []Key {
	raw := r.cache.Keys()
	keys := make([]Key, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k.(Key))
	}
	return keys
}

func (r *Registry) Purge() {
	r.cache.Purge()
}

func (r *Registry) onEvict(key, value interface{}) {
	k := key.(Key)
	p := value.(*Pipeline)

	r.logger.WithFields(logrus.Fields{
		"action":      "setops_registry_evict",
		"namespace":   k.Namespace,
		"name":        k.Name,
		"cardinality": p.Size(),
	}).Debug("dropping pipeline from registry")
	p.Clear()
}
