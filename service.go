package arbiter

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/allocator"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/dao/criteria"
	fsresource "github.com/viant/arbiter/service/dao/resource/fs"
	memresource "github.com/viant/arbiter/service/dao/resource/memory"
	"github.com/viant/arbiter/service/event"
	"github.com/viant/arbiter/service/job"
	"github.com/viant/arbiter/service/label"
	"github.com/viant/arbiter/service/messaging"
	"github.com/viant/arbiter/service/messaging/fs"
	"github.com/viant/arbiter/service/messaging/memory"
	"github.com/viant/arbiter/service/meta"
	"github.com/viant/arbiter/service/pool"
	"github.com/viant/arbiter/service/validator"
)

// Service represents arbiter service
type Service struct {
	config      *Config
	pool        *pool.Pool
	resourceDAO dao.Service[string, resource.Resource]
	queue       messaging.Queue[event.Event]
	publisher   *event.Publisher
	metaService *meta.Service
	allocator   *allocator.Service
	validator   *validator.Service
	jobs        *job.Registry
	logger      logrus.FieldLogger
	registerer  prometheus.Registerer
}

// Allocator returns the allocation engine
func (s *Service) Allocator() *allocator.Service {
	return s.allocator
}

// Validator returns the requirement validator
func (s *Service) Validator() *validator.Service {
	return s.validator
}

// Jobs returns the job registry
func (s *Service) Jobs() *job.Registry {
	return s.jobs
}

// Pool returns the resource pool
func (s *Service) Pool() *pool.Pool {
	return s.pool
}

// Events returns the event publisher
func (s *Service) Events() *event.Publisher {
	return s.publisher
}

// Snapshot returns status of every resource in pool order
func (s *Service) Snapshot() []*resource.Status {
	return s.pool.Snapshot()
}

// Find returns copies of resources matching every parameter in pool order,
// criteria lists supported filter names
func (s *Service) Find(parameters ...*dao.Parameter) []*resource.Resource {
	var result []*resource.Resource
	for _, r := range s.pool.Resources() {
		if criteria.Match(r, parameters) {
			result = append(result, r)
		}
	}
	return result
}

// Load loads a pool definition and restores persisted state on top of it
func (s *Service) Load(ctx context.Context, URL string) error {
	definition, err := s.metaService.LoadDefinition(ctx, URL)
	if err != nil {
		return err
	}
	jobs, err := definition.JobConfigs()
	if err != nil {
		return err
	}
	if err = s.restore(ctx, definition.PoolResources()); err != nil {
		return err
	}
	for _, aJob := range jobs {
		if err = s.jobs.Register(aJob); err != nil {
			return err
		}
	}
	s.logger.WithField("definition", URL).Infof("loaded %d resources and %d jobs", s.pool.Len(), len(jobs))
	return nil
}

// Restore loads persisted resources into the pool
func (s *Service) Restore(ctx context.Context) error {
	return s.restore(ctx, nil)
}

// restore merges defined resources with persisted state. Defined resources keep
// definition order, labels and description; persisted resources missing from
// the definition were added at run time and follow in store order.
func (s *Service) restore(ctx context.Context, defined []*resource.Resource) error {
	persisted, err := s.resourceDAO.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted resources: %w", err)
	}
	stored := make(map[string]*resource.Resource, len(persisted))
	for _, r := range persisted {
		stored[r.Name] = r
	}
	var merged []*resource.Resource
	seen := map[string]bool{}
	for _, r := range defined {
		seen[r.Name] = true
		if previous, ok := stored[r.Name]; ok {
			r.State, r.Owner, r.ReservedBy, r.Since = previous.State, previous.Owner, previous.ReservedBy, previous.Since
		} else if err = s.resourceDAO.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to persist resource %v: %w", r.Name, err)
		}
		merged = append(merged, r)
	}
	for _, r := range persisted {
		if !seen[r.Name] {
			merged = append(merged, r)
		}
	}
	return s.pool.Load(merged)
}

// Schedule resolves the job requirement with env and tries to allocate it for owner.
// A job without requirement is granted nothing.
func (s *Service) Schedule(ctx context.Context, jobName string, env map[string]string, owner string) (*allocator.Decision, error) {
	aJob, err := s.jobs.Lookup(jobName)
	if err != nil {
		return nil, err
	}
	if aJob.Requirement == nil {
		return &allocator.Decision{Status: allocator.Granted, Owner: owner}, nil
	}
	resolved, err := aJob.Requirement.Resolve(aJob.Env(env))
	if err != nil {
		return nil, fmt.Errorf("job %v: %w", jobName, err)
	}
	return s.allocator.TryAllocate(ctx, resolved, owner)
}

// Validate checks a registered job requirement against the pool
func (s *Service) Validate(jobName string) (*validator.Result, error) {
	aJob, err := s.jobs.Lookup(jobName)
	if err != nil {
		return nil, err
	}
	return s.validator.CheckJob(aJob), nil
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.metaService == nil {
		s.metaService = meta.New()
	}
	if err := s.ensureStore(); err != nil {
		return err
	}
	if err := s.ensureQueue(); err != nil {
		return err
	}
	cache, err := label.NewCache(s.config.CacheSize)
	if err != nil {
		return err
	}
	if s.pool, err = pool.New(cache); err != nil {
		return err
	}
	s.publisher = event.NewPublisher(s.queue)
	s.allocator, err = allocator.New(s.pool,
		allocator.WithDAO(s.resourceDAO),
		allocator.WithPublisher(s.publisher),
		allocator.WithLogger(s.logger),
		allocator.WithRegisterer(s.registerer))
	if err != nil {
		return err
	}
	s.validator = validator.New(s.pool)
	s.jobs = job.NewRegistry()
	return nil
}

func (s *Service) ensureStore() error {
	if s.resourceDAO != nil {
		return nil
	}
	if s.config.Store.Vendor != dao.VendorFs {
		s.resourceDAO = memresource.New()
		return nil
	}
	store, err := fsresource.New(s.config.Store.BasePath)
	if err != nil {
		return err
	}
	s.resourceDAO = store
	return nil
}

func (s *Service) ensureQueue() error {
	if s.queue != nil {
		return nil
	}
	queue, err := event.NewQueue(s.config.Events.Vendor,
		event.WithFsConfig(fs.Config{BasePath: s.config.Events.BasePath, MaxRetries: fs.DefaultConfig().MaxRetries}),
		event.WithMemoryConfig(memoryConfig(s.config.Events.Buffer)))
	if err != nil {
		return err
	}
	s.queue = queue
	return nil
}

func memoryConfig(buffer int) memory.Config {
	ret := memory.DefaultConfig()
	if buffer > 0 {
		ret.QueueBuffer = buffer
	}
	return ret
}

// New creates an arbiter service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	if ret.config.Definition != "" {
		if err := ret.Load(context.Background(), ret.config.Definition); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
