package event

import (
	"github.com/viant/arbiter/service/messaging/fs"
	"github.com/viant/arbiter/service/messaging/memory"
)

// Option configures queue creation
type Option func(o *options)

type options struct {
	fsConfig     fs.Config
	memoryConfig memory.Config
}

// WithFsConfig sets the file system queue configuration
func WithFsConfig(config fs.Config) Option {
	return func(o *options) {
		o.fsConfig = config
	}
}

// WithMemoryConfig sets the memory queue configuration
func WithMemoryConfig(config memory.Config) Option {
	return func(o *options) {
		o.memoryConfig = config
	}
}
