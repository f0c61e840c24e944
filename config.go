package arbiter

import (
	"context"
	"fmt"

	"github.com/imdario/mergo"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/label"
	"github.com/viant/arbiter/service/messaging"
	"github.com/viant/arbiter/service/meta"
)

// Config is a serialisable representation of the engine configuration. Zero
// fields inherit DefaultConfig values when loaded with LoadConfig.
type Config struct {
	// Definition is the URL of the pool definition loaded at start, optional
	Definition string       `json:"definition,omitempty" yaml:"definition,omitempty"`
	CacheSize  int          `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty"`
	Store      StoreConfig  `json:"store" yaml:"store"`
	Events     EventsConfig `json:"events" yaml:"events"`
}

// StoreConfig selects where resource state is persisted
type StoreConfig struct {
	Vendor   dao.Vendor `json:"vendor" yaml:"vendor"`
	BasePath string     `json:"basePath,omitempty" yaml:"basePath,omitempty"`
}

// EventsConfig selects the event queue
type EventsConfig struct {
	Vendor   messaging.Vendor `json:"vendor" yaml:"vendor"`
	BasePath string           `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Buffer   int              `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// DefaultConfig returns in-memory state and events
func DefaultConfig() *Config {
	return &Config{
		CacheSize: label.DefaultCacheSize,
		Store:     StoreConfig{Vendor: dao.VendorMemory},
		Events:    EventsConfig{Vendor: messaging.VendorMemory, Buffer: 1024},
	}
}

// Validate returns an error describing the first invalid setting or nil
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cacheSize must be >= 0")
	}
	if err := validateVendor("store", c.Store.Vendor, c.Store.BasePath, dao.VendorMemory, dao.VendorFs); err != nil {
		return err
	}
	if err := validateVendor("events", c.Events.Vendor, c.Events.BasePath, messaging.VendorMemory, messaging.VendorFs); err != nil {
		return err
	}
	if c.Events.Buffer < 0 {
		return fmt.Errorf("events.buffer must be >= 0")
	}
	return nil
}

func validateVendor[V ~string](section string, vendor V, basePath string, memory, fs V) error {
	switch vendor {
	case memory, "":
		return nil
	case fs:
		if basePath == "" {
			return fmt.Errorf("%v.basePath is required for fs vendor", section)
		}
		return nil
	}
	return fmt.Errorf("%v.vendor %q is not supported", section, vendor)
}

// LoadConfig loads a YAML or JSON config and fills unset fields from DefaultConfig
func LoadConfig(ctx context.Context, URL string, opts ...meta.Option) (*Config, error) {
	ret := &Config{}
	if err := meta.New(opts...).Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := mergo.Merge(ret, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
