package replicas

import (
	"sort"
	"sync"
	"sync/atomic"
)

type roundRobinStrategy[H any] struct {
	names       []string
	providers   []Provider[H]
	indexByName map[string]int
	mutex       sync.RWMutex
	current     uint64
}

func newRoundRobinStrategy[H any](providers map[string]Provider[H]) *roundRobinStrategy[H] {
	r := &roundRobinStrategy[H]{
		names:       make([]string, 0, len(providers)),
		providers:   make([]Provider[H], 0, len(providers)),
		indexByName: make(map[string]int, len(providers)),
	}

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.add(name, providers[name])
	}
	return r
}

func (r *roundRobinStrategy[H]) get(name string) Provider[H] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, found := r.indexByName[name]
	if !found {
		return nil
	}
	return r.providers[index]
}

// add appends a provider to the rotation unless name is already taken.
func (r *roundRobinStrategy[H]) add(name string, p Provider[H]) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.indexByName[name]; ok {
		return false
	}
	r.indexByName[name] = len(r.providers)
	r.names = append(r.names, name)
	r.providers = append(r.providers, p)
	return true
}

func (r *roundRobinStrategy[H]) delete(name string) Provider[H] {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	index, found := r.indexByName[name]
	if !found {
		return nil
	}
	delete(r.indexByName, name)

	p := r.providers[index]
	r.providers = append(r.providers[:index], r.providers[index+1:]...)
	r.names = append(r.names[:index], r.names[index+1:]...)

	for k, v := range r.indexByName {
		if v > index {
			r.indexByName[k] = v - 1
		}
	}
	return p
}

// next returns the next provider in rotation, or false if there are none.
func (r *roundRobinStrategy[H]) next() (string, Provider[H], bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if len(r.providers) == 0 {
		return "", nil, false
	}
	idx := r.nextIndex()
	return r.names[idx], r.providers[idx], true
}

func (r *roundRobinStrategy[H]) list() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ret := make([]string, len(r.names))
	copy(ret, r.names)
	return ret
}

func (r *roundRobinStrategy[H]) all() []Provider[H] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ret := make([]Provider[H], len(r.providers))
	copy(ret, r.providers)
	return ret
}

func (r *roundRobinStrategy[H]) nextIndex() uint64 {
	next := atomic.AddUint64(&r.current, 1)
	return (next - 1) % uint64(len(r.providers))
}
