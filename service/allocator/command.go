package allocator

import (
	"context"
	"fmt"
	"strings"
)

// Action enumerates manual commands
type Action string

const (
	ActionReserve   Action = "reserve"
	ActionUnreserve Action = "unreserve"
	ActionUnlock    Action = "unlock"
	ActionReset     Action = "reset"
)

// Actions lists supported manual commands
var Actions = []Action{ActionReserve, ActionUnreserve, ActionUnlock, ActionReset}

// ParseAction returns the action named by text, case insensitive
func ParseAction(text string) (Action, error) {
	candidate := Action(strings.ToLower(strings.TrimSpace(text)))
	for _, action := range Actions {
		if action == candidate {
			return action, nil
		}
	}
	return "", fmt.Errorf("allocator: unsupported action %q", text)
}

// Command represents a manual action on a single resource
type Command struct {
	Action   Action `json:"action" yaml:"action"`
	Resource string `json:"resource" yaml:"resource"`
	Actor    string `json:"actor,omitempty" yaml:"actor,omitempty"`
}

// Execute dispatches cmd to the matching typed operation
func (s *Service) Execute(ctx context.Context, cmd *Command) (Outcome, error) {
	if cmd == nil || cmd.Resource == "" {
		return "", fmt.Errorf("allocator: command resource was empty")
	}
	switch cmd.Action {
	case ActionReserve:
		return s.Reserve(ctx, cmd.Resource, cmd.Actor)
	case ActionUnreserve:
		return s.Unreserve(ctx, cmd.Resource)
	case ActionUnlock:
		return s.Unlock(ctx, cmd.Resource)
	case ActionReset:
		return s.Reset(ctx, cmd.Resource)
	}
	return "", fmt.Errorf("allocator: unsupported action %q", cmd.Action)
}
