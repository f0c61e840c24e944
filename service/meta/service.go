// Package meta loads pool and job definitions from any afs supported storage.
// ${env.KEY} expressions are expanded with process environment before decoding.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service represents a definition loader
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
	lookup  func(key string) (string, bool)
}

// URL returns location resolved against the base URL
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download returns the content of URL with env expressions expanded
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	URL = s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(expandEnv(string(data), s.lookup)), nil
}

// Load decodes URL into dest, JSON for .json files, YAML otherwise
func (s *Service) Load(ctx context.Context, URL string, dest interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if strings.EqualFold(path.Ext(URL), ".json") {
		err = json.Unmarshal(data, dest)
	} else {
		err = yaml.Unmarshal(data, dest)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// LoadDefinition loads and validates a pool definition
func (s *Service) LoadDefinition(ctx context.Context, URL string) (*Definition, error) {
	ret := &Definition{}
	if err := s.Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition %v: %w", URL, err)
	}
	return ret, nil
}

// Option represents meta service option
type Option func(s *Service)

// WithLookup sets env lookup, os.LookupEnv by default
func WithLookup(lookup func(key string) (string, bool)) Option {
	return func(s *Service) {
		s.lookup = lookup
	}
}

// WithBaseURL resolves relative locations against baseURL
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithFsOptions sets storage options, e.g. an embed.FS
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.options = options
	}
}

// WithFs sets storage service
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// New creates a meta service
func New(opts ...Option) *Service {
	ret := &Service{fs: afs.New(), lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
