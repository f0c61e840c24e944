package job

import (
	"fmt"

	"github.com/viant/arbiter/model/requirement"
)

// Parameter represents a job parameter definition
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Job represents a job configuration consulted by the validator and the scheduler
type Job struct {
	Name        string                  `json:"name" yaml:"name"`
	Parameters  []*Parameter            `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Requirement *requirement.Descriptor `json:"requirement,omitempty" yaml:"requirement,omitempty"`
}

// New creates a job with parameter names
func New(name string, parameters ...string) *Job {
	ret := &Job{Name: name}
	for _, parameter := range parameters {
		ret.Parameters = append(ret.Parameters, &Parameter{Name: parameter})
	}
	return ret
}

// ParameterNames returns declared parameter names
func (j *Job) ParameterNames() []string {
	if j == nil {
		return nil
	}
	result := make([]string, 0, len(j.Parameters))
	for _, parameter := range j.Parameters {
		result = append(result, parameter.Name)
	}
	return result
}

// Env returns parameter defaults overridden by the supplied build environment
func (j *Job) Env(env map[string]string) map[string]string {
	ret := make(map[string]string, len(j.Parameters)+len(env))
	for _, parameter := range j.Parameters {
		if parameter.Default != "" {
			ret[parameter.Name] = parameter.Default
		}
	}
	for k, v := range env {
		ret[k] = v
	}
	return ret
}

// Validate checks the job definition
func (j *Job) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job name was empty")
	}
	seen := map[string]bool{}
	for _, parameter := range j.Parameters {
		if parameter.Name == "" {
			return fmt.Errorf("job %v: parameter name was empty", j.Name)
		}
		if seen[parameter.Name] {
			return fmt.Errorf("job %v: duplicate parameter %v", j.Name, parameter.Name)
		}
		seen[parameter.Name] = true
	}
	if j.Requirement != nil {
		if err := j.Requirement.Validate(); err != nil {
			return fmt.Errorf("job %v: %w", j.Name, err)
		}
	}
	return nil
}
