package pool

import (
	"fmt"

	"github.com/viant/arbiter/internal/clock"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/label"
)

// Tx gives access to live resources within Pool.Update. Resources returned by
// Tx must not be retained or mutated outside the transaction.
type Tx struct {
	pool      *Pool
	resources []*resource.Resource
	originals map[string]*resource.Resource
	touched   []string
	removed   []string
}

func newTx(p *Pool) *Tx {
	return &Tx{pool: p, resources: p.resources, originals: map[string]*resource.Resource{}}
}

// Lookup returns the live named resource or nil
func (t *Tx) Lookup(name string) *resource.Resource {
	return t.pool.index[name]
}

// Resources returns live resources in pool order
func (t *Tx) Resources() []*resource.Resource {
	return t.pool.resources
}

// Candidates returns live resources a resolved requirement selects from, in pool order
func (t *Tx) Candidates(resolved *requirement.Resolved) ([]*resource.Resource, error) {
	return t.pool.candidates(resolved)
}

// Claim moves r to state for owner. Claiming a resource held by another owner
// breaks the pool invariant and panics; callers check availability first.
func (t *Tx) Claim(r *resource.Resource, state resource.State, owner string) {
	if !r.IsFree() && r.Owner != owner {
		panic(fmt.Sprintf("pool: %v already held by %v, cannot be claimed by %v", r.Name, r.Owner, owner))
	}
	t.touch(r)
	r.State = state
	r.Owner = owner
	r.Since = clock.Now()
}

// Reserve moves r to reserved state on behalf of actor
func (t *Tx) Reserve(r *resource.Resource, owner, actor string) {
	t.Claim(r, resource.StateReserved, owner)
	r.ReservedBy = actor
}

// Release frees r
func (t *Tx) Release(r *resource.Resource) {
	if r.IsFree() && r.Owner == "" && r.ReservedBy == "" {
		return
	}
	t.touch(r)
	r.State = resource.StateFree
	r.Owner = ""
	r.ReservedBy = ""
	r.Since = clock.Now()
}

// SetLabels replaces labels of r, rejecting labels no expression could select
func (t *Tx) SetLabels(r *resource.Resource, labels ...string) error {
	normalized := &resource.Resource{}
	normalized.SetLabels(labels...)
	if err := label.Validate(normalized.Labels...); err != nil {
		return fmt.Errorf("resource %v: %w", r.Name, err)
	}
	t.touch(r)
	r.Labels = normalized.Labels
	return nil
}

// Add registers a free resource
func (t *Tx) Add(r *resource.Resource) error {
	if r == nil || r.Name == "" {
		return fmt.Errorf("pool: resource name was empty")
	}
	if _, ok := t.pool.index[r.Name]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicate, r.Name)
	}
	if err := label.Validate(r.Labels...); err != nil {
		return fmt.Errorf("resource %v: %w", r.Name, err)
	}
	added := r.Clone()
	added.State, added.Owner, added.ReservedBy = resource.StateFree, "", ""
	t.touch(added)
	t.pool.resources = append(t.pool.resources[:len(t.pool.resources):len(t.pool.resources)], added)
	t.pool.index[added.Name] = added
	return nil
}

// Remove deletes a free resource
func (t *Tx) Remove(name string) error {
	r, ok := t.pool.index[name]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownResource, name)
	}
	if !r.IsFree() {
		return fmt.Errorf("%w: %v is %v by %v", ErrInUse, name, r.State, r.Owner)
	}
	t.touch(r)
	list := make([]*resource.Resource, 0, len(t.pool.resources)-1)
	for _, candidate := range t.pool.resources {
		if candidate != r {
			list = append(list, candidate)
		}
	}
	t.pool.resources = list
	delete(t.pool.index, name)
	t.removed = append(t.removed, name)
	return nil
}

// Changed returns copies of resources modified or added so far
func (t *Tx) Changed() []*resource.Resource {
	var result []*resource.Resource
	for _, name := range t.touched {
		if r, ok := t.pool.index[name]; ok {
			result = append(result, r.Clone())
		}
	}
	return result
}

// Removed returns names of resources removed so far
func (t *Tx) Removed() []string {
	return append([]string(nil), t.removed...)
}

func (t *Tx) touch(r *resource.Resource) {
	if _, ok := t.originals[r.Name]; ok {
		return
	}
	var original *resource.Resource
	if t.pool.index[r.Name] == r {
		original = r.Clone()
	}
	t.originals[r.Name] = original
	t.touched = append(t.touched, r.Name)
}

func (t *Tx) rollback() {
	t.pool.resources = t.resources
	index := make(map[string]*resource.Resource, len(t.resources))
	for _, r := range t.resources {
		if original := t.originals[r.Name]; original != nil {
			*r = *original
		}
		index[r.Name] = r
	}
	t.pool.index = index
}
