package event

import (
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/arbiter/service/messaging"
	"github.com/viant/arbiter/service/messaging/fs"
	"github.com/viant/arbiter/service/messaging/memory"
)

// NewQueue creates an event queue for the vendor
func NewQueue(vendor messaging.Vendor, opts ...Option) (messaging.Queue[Event], error) {
	o := &options{fsConfig: fs.DefaultConfig(), memoryConfig: memory.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	switch vendor {
	case messaging.VendorFs:
		return fs.NewQueue[Event](afs.New(), o.fsConfig)
	case messaging.VendorMemory, "":
		return memory.NewQueue[Event](o.memoryConfig), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", vendor)
}

// New creates a publisher over a new vendor queue
func New(vendor messaging.Vendor, opts ...Option) (*Publisher, error) {
	queue, err := NewQueue(vendor, opts...)
	if err != nil {
		return nil, err
	}
	return NewPublisher(queue), nil
}
