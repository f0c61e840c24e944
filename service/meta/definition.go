package meta

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/arbiter/model/job"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"gopkg.in/yaml.v3"
)

// Labels accepts either a whitespace separated string or a list
type Labels []string

// UnmarshalYAML decodes scalar or sequence labels
func (l *Labels) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: labels must be a string or a list", node.Line)
}

// ResourceDefinition represents a declared pool resource
type ResourceDefinition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Labels      Labels `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Resource returns a free resource
func (d *ResourceDefinition) Resource() *resource.Resource {
	ret := resource.New(d.Name, d.Labels...)
	ret.Description = d.Description
	return ret
}

// JobDefinition represents a job with its requirement in flat form, at most one of
// Resources, Label or Quantity (with optional Label) may be set
type JobDefinition struct {
	Name       string           `json:"name" yaml:"name"`
	Parameters []*job.Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Resources  string           `json:"resources,omitempty" yaml:"resources,omitempty"`
	Label      string           `json:"label,omitempty" yaml:"label,omitempty"`
	Quantity   string           `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Variable   string           `json:"variable,omitempty" yaml:"variable,omitempty"`
}

// Job returns the job configuration
func (d *JobDefinition) Job() (*job.Job, error) {
	ret := &job.Job{Name: d.Name, Parameters: d.Parameters}
	descriptor, err := requirement.FromFields(d.Resources, d.Label, d.Quantity)
	switch {
	case err == nil:
		descriptor.Variable = d.Variable
		ret.Requirement = descriptor
	case !errors.Is(err, requirement.ErrEmpty):
		return nil, fmt.Errorf("job %v: %w", d.Name, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Definition represents a pool definition file
type Definition struct {
	Resources []*ResourceDefinition `json:"resources" yaml:"resources"`
	Jobs      []*JobDefinition      `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// PoolResources returns declared resources in definition order
func (d *Definition) PoolResources() []*resource.Resource {
	result := make([]*resource.Resource, 0, len(d.Resources))
	for _, item := range d.Resources {
		result = append(result, item.Resource())
	}
	return result
}

// JobConfigs returns declared jobs
func (d *Definition) JobConfigs() ([]*job.Job, error) {
	var result []*job.Job
	for _, item := range d.Jobs {
		aJob, err := item.Job()
		if err != nil {
			return nil, err
		}
		result = append(result, aJob)
	}
	return result, nil
}

// Validate checks resource names are set and unique and jobs are consistent
func (d *Definition) Validate() error {
	seen := map[string]bool{}
	for i, item := range d.Resources {
		if item == nil || item.Name == "" {
			return fmt.Errorf("resource[%d]: name was empty", i)
		}
		if seen[item.Name] {
			return fmt.Errorf("resource %v: duplicate name", item.Name)
		}
		seen[item.Name] = true
	}
	_, err := d.JobConfigs()
	return err
}
