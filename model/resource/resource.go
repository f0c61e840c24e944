package resource

import (
	"strings"
	"time"
)

// State represents the current availability of a resource
type State string

const (
	StateFree     State = "free"
	StateQueued   State = "queued"   //claimed for a build that has not started yet
	StateReserved State = "reserved" //held manually, not tied to a build
	StateLocked   State = "locked"   //held by a running build
)

// IsFree returns true when the resource can be claimed
func (s State) IsFree() bool {
	return s == StateFree || s == ""
}

// Resource represents a named, exclusively-ownable unit of the pool
type Resource struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Labels      []string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	State       State     `json:"state,omitempty" yaml:"state,omitempty"`
	Owner       string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	ReservedBy  string    `json:"reservedBy,omitempty" yaml:"reservedBy,omitempty"`
	Since       time.Time `json:"since,omitempty" yaml:"since,omitempty"`
}

// New creates a free resource with the supplied labels
func New(name string, labels ...string) *Resource {
	ret := &Resource{Name: name, State: StateFree}
	ret.SetLabels(labels...)
	return ret
}

// HasLabel returns true when the resource carries the label
func (r *Resource) HasLabel(label string) bool {
	for _, candidate := range r.Labels {
		if candidate == label {
			return true
		}
	}
	return false
}

// SetLabels replaces labels, dropping blanks and duplicates while keeping order
func (r *Resource) SetLabels(labels ...string) {
	var result []string
	seen := map[string]bool{}
	for _, label := range labels {
		for _, item := range strings.Fields(label) {
			if seen[item] {
				continue
			}
			seen[item] = true
			result = append(result, item)
		}
	}
	r.Labels = result
}

// LabelSet returns labels as a lookup set
func (r *Resource) LabelSet() map[string]bool {
	ret := make(map[string]bool, len(r.Labels))
	for _, label := range r.Labels {
		ret[label] = true
	}
	return ret
}

// IsFree returns true when the resource is not claimed
func (r *Resource) IsFree() bool {
	return r.State.IsFree()
}

// IsLocked returns true when a build holds the resource
func (r *Resource) IsLocked() bool {
	return r.State == StateLocked
}

// IsHeldBy returns true when owner claimed the resource
func (r *Resource) IsHeldBy(owner string) bool {
	return !r.IsFree() && r.Owner == owner
}

// Clone returns a deep copy
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	ret := *r
	ret.Labels = append([]string(nil), r.Labels...)
	return &ret
}

// Status is a read-only view of a resource used for status listings
type Status struct {
	Name       string   `json:"name"`
	Labels     []string `json:"labels,omitempty"`
	State      State    `json:"state"`
	Locked     bool     `json:"locked"`
	Reserved   bool     `json:"reserved"`
	Owner      string   `json:"owner,omitempty"`
	ReservedBy string   `json:"reservedBy,omitempty"`
}

// Status returns a read-only view of the resource
func (r *Resource) Status() *Status {
	state := r.State
	if state == "" {
		state = StateFree
	}
	return &Status{
		Name:       r.Name,
		Labels:     append([]string(nil), r.Labels...),
		State:      state,
		Locked:     r.State == StateLocked,
		Reserved:   r.State == StateReserved,
		Owner:      r.Owner,
		ReservedBy: r.ReservedBy,
	}
}
