package allocator

import "strings"

// Outcome reports the effect of a manual action
type Outcome string

const (
	Done     Outcome = "done"     //state changed
	NoOp     Outcome = "noop"     //nothing to do, benign
	Rejected Outcome = "rejected" //resource held by someone else
)

// Status reports an allocation decision
type Status string

const (
	Granted Status = "granted"
	Waiting Status = "waiting"
)

// Decision represents the result of an allocation attempt
type Decision struct {
	ID          string   `json:"id"`
	Status      Status   `json:"status"`
	Owner       string   `json:"owner"`
	Requirement string   `json:"requirement"`
	Resources   []string `json:"resources,omitempty"`
	// Variable is the env variable exposing granted resource names, optional
	Variable string `json:"variable,omitempty"`
}

// IsGranted returns true if resources were claimed
func (d *Decision) IsGranted() bool {
	return d != nil && d.Status == Granted
}

// Env returns the variable binding for granted resources, comma separated
func (d *Decision) Env() map[string]string {
	if !d.IsGranted() || d.Variable == "" {
		return nil
	}
	return map[string]string{d.Variable: strings.Join(d.Resources, ",")}
}
