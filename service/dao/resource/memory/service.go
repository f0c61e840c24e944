package memory

import (
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/dao/criteria"
	"github.com/viant/arbiter/service/dao/store"
)

// Service implements an in-memory, thread-safe resource store
type Service struct {
	*store.MemoryStore[string, resource.Resource]
}

var _ dao.Service[string, resource.Resource] = (*Service)(nil)

func key(r *resource.Resource) string { return r.Name }

// New creates an in-memory resource store
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, resource.Resource](key, (*resource.Resource).Clone, criteria.Match)}
}
