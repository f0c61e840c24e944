package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	aurl "github.com/viant/afs/url"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/dao/criteria"
)

// Service implements a filesystem-based resource storage, one JSON document per resource
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, resource.Resource] = (*Service)(nil)

// Save persists a resource
func (s *Service) Save(ctx context.Context, r *resource.Resource) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.Name == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal resource %v: %w", r.Name, err)
	}
	filePath := s.resourcePath(r.Name)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save resource to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a resource
func (s *Service) Load(ctx context.Context, name string) (*resource.Resource, error) {
	if name == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.resourcePath(name)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if resource exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", dao.ErrNotFound, name)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource file: %w", err)
	}
	ret := &resource.Resource{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource %s: %w", name, err)
	}
	return ret, nil
}

// Delete removes a resource
func (s *Service) Delete(ctx context.Context, name string) error {
	if name == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.resourcePath(name)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if resource exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", dao.ErrNotFound, name)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete resource file: %w", err)
	}
	return nil
}

// List returns resources matching parameters, sorted by name
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*resource.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource files: %w", err)
	}
	var result []*resource.Resource
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read resource file %s: %w", object.URL(), err)
		}
		r := &resource.Resource{}
		if err := json.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resource from %s: %w", object.URL(), err)
		}
		if !criteria.Match(r, parameters) {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// resourcePath returns the file path for a resource; names are escaped to stay a single path segment
func (s *Service) resourcePath(name string) string {
	return path.Join(s.basePath, url.PathEscape(name)+".json")
}

// New creates a filesystem resource storage service
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	basePath = aurl.Normalize(basePath, file.Scheme)
	return &Service{
		basePath: basePath,
		fs:       fs,
	}, nil
}
