package event

import "time"

// Type identifies a resource transition
type Type string

const (
	TypeQueued     Type = "queued"     //granted to a waiting build
	TypeLocked     Type = "locked"     //locked by a running build
	TypeUnlocked   Type = "unlocked"   //released by a build
	TypeReserved   Type = "reserved"   //reserved manually
	TypeUnreserved Type = "unreserved" //manual reservation released
	TypeReset      Type = "reset"      //forced free by an administrator
	TypeAdded      Type = "added"
	TypeRemoved    Type = "removed"
	TypeLabeled    Type = "labeled"
)

// Event represents a resource pool change
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Resources []string  `json:"resources"`
	Owner     string    `json:"owner,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEvent creates an event
func NewEvent(eventType Type, owner string, resources ...string) *Event {
	return &Event{Type: eventType, Owner: owner, Resources: resources}
}
