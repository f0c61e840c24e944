// Package job keeps job configurations known to the scheduler, keyed by name.
package job

import (
	"errors"
	"fmt"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/viant/arbiter/model/job"
)

// ErrNotFound is returned when a job is not registered
var ErrNotFound = errors.New("job: not found")

// Registry represents a concurrent job registry
type Registry struct {
	jobs cmap.ConcurrentMap[string, *job.Job]
}

// Register validates and adds or replaces a job
func (r *Registry) Register(aJob *job.Job) error {
	if aJob == nil {
		return fmt.Errorf("job was nil")
	}
	if err := aJob.Validate(); err != nil {
		return err
	}
	r.jobs.Set(aJob.Name, aJob)
	return nil
}

// Lookup returns a registered job
func (r *Registry) Lookup(name string) (*job.Job, error) {
	aJob, ok := r.jobs.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, name)
	}
	return aJob, nil
}

// Remove unregisters a job, returns false if it was not registered
func (r *Registry) Remove(name string) bool {
	_, ok := r.jobs.Pop(name)
	return ok
}

// Names returns registered job names, sorted
func (r *Registry) Names() []string {
	names := r.jobs.Keys()
	sort.Strings(names)
	return names
}

// Jobs returns registered jobs sorted by name
func (r *Registry) Jobs() []*job.Job {
	var result []*job.Job
	for _, name := range r.Names() {
		if aJob, ok := r.jobs.Get(name); ok {
			result = append(result, aJob)
		}
	}
	return result
}

// Len returns number of registered jobs
func (r *Registry) Len() int {
	return r.jobs.Count()
}

// NewRegistry creates a registry
func NewRegistry() *Registry {
	return &Registry{jobs: cmap.New[*job.Job]()}
}
