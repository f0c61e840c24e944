// Package pool holds the authoritative in-memory registry of lockable
// resources. A single mutex guards every resource: reads return copies and
// every state transition runs inside Update as one critical section, so the
// resources examined for a decision are the ones mutated by it.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/label"
)

var (
	// ErrUnknownResource is returned when a resource name is not in the pool
	ErrUnknownResource = errors.New("pool: unknown resource")
	// ErrDuplicate is returned when adding a resource whose name is taken
	ErrDuplicate = errors.New("pool: duplicate resource")
	// ErrInUse is returned when removing a claimed resource
	ErrInUse = errors.New("pool: resource in use")
)

// Pool represents a named set of lockable resources
type Pool struct {
	mux       sync.Mutex
	resources []*resource.Resource
	index     map[string]*resource.Resource
	cache     *label.Cache
}

// Update runs fn as a single critical section. If fn returns an error every
// change made through tx is rolled back.
func (p *Pool) Update(fn func(tx *Tx) error) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	tx := newTx(p)
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// Load replaces pool content, used when restoring persisted resources
func (p *Pool) Load(resources []*resource.Resource) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	index := make(map[string]*resource.Resource, len(resources))
	list := make([]*resource.Resource, 0, len(resources))
	for _, item := range resources {
		if item == nil || item.Name == "" {
			continue
		}
		if _, ok := index[item.Name]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicate, item.Name)
		}
		if err := label.Validate(item.Labels...); err != nil {
			return fmt.Errorf("resource %v: %w", item.Name, err)
		}
		r := item.Clone()
		if r.State == "" {
			r.State = resource.StateFree
		}
		index[r.Name] = r
		list = append(list, r)
	}
	p.resources, p.index = list, index
	return nil
}

// Add registers free resources
func (p *Pool) Add(resources ...*resource.Resource) error {
	return p.Update(func(tx *Tx) error {
		for _, r := range resources {
			if err := tx.Add(r); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns a copy of the named resource or nil
func (p *Pool) Get(name string) *resource.Resource {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.index[name].Clone()
}

// Has returns true if the named resource exists
func (p *Pool) Has(name string) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	_, ok := p.index[name]
	return ok
}

// Len returns number of resources
func (p *Pool) Len() int {
	p.mux.Lock()
	defer p.mux.Unlock()
	return len(p.resources)
}

// Names returns resource names in pool order
func (p *Pool) Names() []string {
	p.mux.Lock()
	defer p.mux.Unlock()
	result := make([]string, 0, len(p.resources))
	for _, r := range p.resources {
		result = append(result, r.Name)
	}
	return result
}

// Resources returns copies of all resources in pool order
func (p *Pool) Resources() []*resource.Resource {
	p.mux.Lock()
	defer p.mux.Unlock()
	return cloneAll(p.resources)
}

// Snapshot returns status of every resource in pool order
func (p *Pool) Snapshot() []*resource.Status {
	p.mux.Lock()
	defer p.mux.Unlock()
	result := make([]*resource.Status, 0, len(p.resources))
	for _, r := range p.resources {
		result = append(result, r.Status())
	}
	return result
}

// Labels returns every distinct label carried by pool resources, sorted
func (p *Pool) Labels() []string {
	p.mux.Lock()
	defer p.mux.Unlock()
	seen := map[string]bool{}
	var result []string
	for _, r := range p.resources {
		for _, item := range r.Labels {
			if !seen[item] {
				seen[item] = true
				result = append(result, item)
			}
		}
	}
	sort.Strings(result)
	return result
}

// HasLabel returns true if any resource carries the label verbatim
func (p *Pool) HasLabel(name string) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, r := range p.resources {
		if r.HasLabel(name) {
			return true
		}
	}
	return false
}

// Matching returns copies of resources matching a label expression
func (p *Pool) Matching(expr string) ([]*resource.Resource, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	matched, err := p.match(expr)
	if err != nil {
		return nil, err
	}
	return cloneAll(matched), nil
}

// Candidates returns copies of resources a resolved requirement selects from
func (p *Pool) Candidates(resolved *requirement.Resolved) ([]*resource.Resource, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	candidates, err := p.candidates(resolved)
	if err != nil {
		return nil, err
	}
	return cloneAll(candidates), nil
}

func (p *Pool) match(expr string) ([]*resource.Resource, error) {
	e, err := p.cache.Parse(expr)
	if err != nil {
		return nil, err
	}
	var result []*resource.Resource
	for _, r := range p.resources {
		if e.Eval(r.LabelSet()) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (p *Pool) candidates(resolved *requirement.Resolved) ([]*resource.Resource, error) {
	switch resolved.Kind {
	case requirement.KindNames:
		result := make([]*resource.Resource, 0, len(resolved.Names))
		seen := map[string]bool{}
		for _, name := range resolved.Names {
			r, ok := p.index[name]
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrUnknownResource, name)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			result = append(result, r)
		}
		return result, nil
	case requirement.KindCount:
		if resolved.Label == "" {
			return append([]*resource.Resource(nil), p.resources...), nil
		}
	}
	return p.match(resolved.Label)
}

func cloneAll(resources []*resource.Resource) []*resource.Resource {
	result := make([]*resource.Resource, 0, len(resources))
	for _, r := range resources {
		result = append(result, r.Clone())
	}
	return result
}

// New creates a pool; a nil cache disables expression caching
func New(cache *label.Cache, resources ...*resource.Resource) (*Pool, error) {
	ret := &Pool{index: map[string]*resource.Resource{}, cache: cache}
	if err := ret.Load(resources); err != nil {
		return nil, err
	}
	return ret, nil
}
