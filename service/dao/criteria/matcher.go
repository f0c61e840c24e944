package criteria

import (
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
)

// Filter names supported by resource DAOs
const (
	ByState = "State"
	ByOwner = "Owner"
	ByLabel = "Label"
)

// Match returns true if r satisfies every parameter; unknown parameters are ignored
func Match(r *resource.Resource, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		values := parameter.Values()
		switch parameter.Name {
		case ByState:
			state := r.State
			if state == "" {
				state = resource.StateFree
			}
			if !contains(values, string(state)) {
				return false
			}
		case ByOwner:
			if !contains(values, r.Owner) {
				return false
			}
		case ByLabel:
			matched := false
			for _, value := range values {
				if r.HasLabel(value) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
