package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier. Override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string
func New() string { return NewFunc() }

// NewOwner returns an owner identifier for a manual action performed by actor
func NewOwner(actor string) string {
	if actor == "" {
		actor = "anonymous"
	}
	return actor + "/" + New()
}
