package allocator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/arbiter/internal/idgen"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/event"
	"github.com/viant/arbiter/service/pool"
	"github.com/viant/arbiter/tracing"
)

var (
	// ErrUnknownResource is returned when a named resource is not in the pool
	ErrUnknownResource = pool.ErrUnknownResource
	// ErrUnresolved is returned when allocating a requirement with placeholders left
	ErrUnresolved = errors.New("allocator: requirement has unresolved parameters")
	// ErrEmptyOwner is returned when a claim carries no owner or actor
	ErrEmptyOwner = errors.New("allocator: owner was empty")
)

// Service arbitrates pool resources between builds and manual actions
type Service struct {
	pool       *pool.Pool
	dao        dao.Service[string, resource.Resource]
	publisher  *event.Publisher
	logger     logrus.FieldLogger
	registerer prometheus.Registerer
	metrics    *metrics
}

// transition collects the effect of one critical section
type transition struct {
	outcome Outcome
	reason  string
	events  []*event.Event
}

func (t *transition) emit(eventType event.Type, owner, actor string, names ...string) {
	t.outcome = Done
	evt := event.NewEvent(eventType, owner, names...)
	evt.Actor = actor
	t.events = append(t.events, evt)
}

func (t *transition) reject(format string, args ...interface{}) {
	t.outcome = Rejected
	t.reason = fmt.Sprintf(format, args...)
}

func (t *transition) skip(format string, args ...interface{}) {
	t.outcome = NoOp
	t.reason = fmt.Sprintf(format, args...)
}

// Pool returns the managed pool
func (s *Service) Pool() *pool.Pool {
	return s.pool
}

// Snapshot returns status of every resource in pool order
func (s *Service) Snapshot() []*resource.Status {
	return s.pool.Snapshot()
}

// Reserve moves a free resource to reserved on behalf of actor
func (s *Service) Reserve(ctx context.Context, name, actor string) (Outcome, error) {
	return s.update(ctx, "reserve", logrus.Fields{"resource": name, "actor": actor}, func(tx *pool.Tx, t *transition) error {
		if actor == "" {
			return fmt.Errorf("%w: reserve %v", ErrEmptyOwner, name)
		}
		r, err := lookup(tx, name)
		if err != nil {
			return err
		}
		if !r.IsFree() {
			t.reject("%v is already %v by %v", name, r.State, r.Owner)
			return nil
		}
		tx.Reserve(r, actor, actor)
		t.emit(event.TypeReserved, actor, actor, name)
		return nil
	})
}

// Unreserve frees a reserved resource; any other state is a no-op
func (s *Service) Unreserve(ctx context.Context, name string) (Outcome, error) {
	return s.update(ctx, "unreserve", logrus.Fields{"resource": name}, func(tx *pool.Tx, t *transition) error {
		r, err := lookup(tx, name)
		if err != nil {
			return err
		}
		if r.State != resource.StateReserved {
			t.skip("%v is not reserved", name)
			return nil
		}
		owner, actor := r.Owner, r.ReservedBy
		tx.Release(r)
		t.emit(event.TypeUnreserved, owner, actor, name)
		return nil
	})
}

// Lock locks every named resource for owner, or none of them. Resources must be
// free or queued for the same owner; resources already locked by owner are kept.
func (s *Service) Lock(ctx context.Context, names []string, owner string) (Outcome, error) {
	names = unique(names)
	return s.update(ctx, "lock", logrus.Fields{"resources": names, "owner": owner}, func(tx *pool.Tx, t *transition) error {
		if owner == "" {
			return fmt.Errorf("%w: lock %v", ErrEmptyOwner, strings.Join(names, ", "))
		}
		var claim []*resource.Resource
		for _, name := range names {
			r, err := lookup(tx, name)
			if err != nil {
				return err
			}
			switch {
			case r.IsLocked() && r.Owner == owner:
			case r.IsFree(), r.State == resource.StateQueued && r.Owner == owner:
				claim = append(claim, r)
			default:
				t.reject("%v is %v by %v", name, r.State, r.Owner)
				return nil
			}
		}
		if len(claim) == 0 {
			t.skip("already locked by %v", owner)
			return nil
		}
		for _, r := range claim {
			tx.Claim(r, resource.StateLocked, owner)
		}
		t.emit(event.TypeLocked, owner, "", namesOf(claim)...)
		return nil
	})
}

// Unlock frees each locked resource independently; free or otherwise held resources are left as they are
func (s *Service) Unlock(ctx context.Context, names ...string) (Outcome, error) {
	names = unique(names)
	return s.update(ctx, "unlock", logrus.Fields{"resources": names}, func(tx *pool.Tx, t *transition) error {
		for _, name := range names {
			r, err := lookup(tx, name)
			if err != nil {
				return err
			}
			if !r.IsLocked() {
				continue
			}
			owner := r.Owner
			tx.Release(r)
			t.emit(event.TypeUnlocked, owner, "", name)
		}
		if t.outcome != Done {
			t.skip("nothing locked")
		}
		return nil
	})
}

// Release frees every resource queued or locked by owner, used when a build finishes or is aborted
func (s *Service) Release(ctx context.Context, owner string) (Outcome, error) {
	return s.update(ctx, "release", logrus.Fields{"owner": owner}, func(tx *pool.Tx, t *transition) error {
		var released []string
		for _, r := range tx.Resources() {
			if r.Owner != owner || (r.State != resource.StateQueued && r.State != resource.StateLocked) {
				continue
			}
			tx.Release(r)
			released = append(released, r.Name)
		}
		if len(released) == 0 {
			t.skip("%v holds nothing", owner)
			return nil
		}
		t.emit(event.TypeUnlocked, owner, "", released...)
		return nil
	})
}

// Start promotes resources queued for owner to locked, used when the build starts
func (s *Service) Start(ctx context.Context, owner string) (Outcome, error) {
	return s.update(ctx, "start", logrus.Fields{"owner": owner}, func(tx *pool.Tx, t *transition) error {
		var started []*resource.Resource
		for _, r := range tx.Resources() {
			if r.State == resource.StateQueued && r.Owner == owner {
				started = append(started, r)
			}
		}
		if len(started) == 0 {
			t.skip("nothing queued for %v", owner)
			return nil
		}
		for _, r := range started {
			tx.Claim(r, resource.StateLocked, owner)
		}
		t.emit(event.TypeLocked, owner, "", namesOf(started)...)
		return nil
	})
}

// Reset forces a resource free whatever its state
func (s *Service) Reset(ctx context.Context, name string) (Outcome, error) {
	return s.update(ctx, "reset", logrus.Fields{"resource": name}, func(tx *pool.Tx, t *transition) error {
		r, err := lookup(tx, name)
		if err != nil {
			return err
		}
		if r.IsFree() && r.Owner == "" && r.ReservedBy == "" {
			t.skip("%v is free", name)
			return nil
		}
		owner := r.Owner
		tx.Release(r)
		t.emit(event.TypeReset, owner, "", name)
		return nil
	})
}

// TryAllocate claims resources satisfying resolved for owner. Named requirements need every
// resource; label requirements take the first Count available candidates in pool order, or
// all of them when Count is 0. Selected resources become queued; a Waiting decision leaves
// the pool unchanged.
func (s *Service) TryAllocate(ctx context.Context, resolved *requirement.Resolved, owner string) (*Decision, error) {
	if resolved == nil {
		return nil, fmt.Errorf("allocator: requirement was nil")
	}
	if !resolved.IsResolved() {
		return nil, fmt.Errorf("%w: %v", ErrUnresolved, strings.Join(resolved.Unresolved, ", "))
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: allocate %v", ErrEmptyOwner, resolved)
	}
	decision := &Decision{ID: idgen.New(), Status: Waiting, Owner: owner, Requirement: resolved.String(), Variable: resolved.Variable}
	_, err := s.update(ctx, "allocate", logrus.Fields{"requirement": decision.Requirement, "owner": owner}, func(tx *pool.Tx, t *transition) error {
		candidates, err := tx.Candidates(resolved)
		if err != nil {
			return err
		}
		selected, claim := selectResources(resolved, candidates, owner)
		if len(selected) == 0 {
			t.skip("waiting for %v", decision.Requirement)
			return nil
		}
		for _, r := range claim {
			tx.Claim(r, resource.StateQueued, owner)
		}
		decision.Status = Granted
		decision.Resources = namesOf(selected)
		if len(claim) == 0 {
			t.skip("%v already held by %v", decision.Requirement, owner)
			return nil
		}
		t.emit(event.TypeQueued, owner, "", namesOf(claim)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.allocation(decision.Status)
	return decision, nil
}

// AddResource registers a free resource
func (s *Service) AddResource(ctx context.Context, r *resource.Resource) (Outcome, error) {
	if r == nil {
		return "", fmt.Errorf("allocator: resource was nil")
	}
	return s.update(ctx, "add", logrus.Fields{"resource": r.Name}, func(tx *pool.Tx, t *transition) error {
		if err := tx.Add(r); err != nil {
			return err
		}
		t.emit(event.TypeAdded, "", "", r.Name)
		return nil
	})
}

// RemoveResource deletes a free resource
func (s *Service) RemoveResource(ctx context.Context, name string) (Outcome, error) {
	return s.update(ctx, "remove", logrus.Fields{"resource": name}, func(tx *pool.Tx, t *transition) error {
		if err := tx.Remove(name); err != nil {
			return err
		}
		t.emit(event.TypeRemoved, "", "", name)
		return nil
	})
}

// SetLabels replaces labels of a resource
func (s *Service) SetLabels(ctx context.Context, name string, labels ...string) (Outcome, error) {
	return s.update(ctx, "label", logrus.Fields{"resource": name, "labels": labels}, func(tx *pool.Tx, t *transition) error {
		r, err := lookup(tx, name)
		if err != nil {
			return err
		}
		if err = tx.SetLabels(r, labels...); err != nil {
			return err
		}
		t.emit(event.TypeLabeled, r.Owner, "", name)
		return nil
	})
}

// update runs fn with persistence as one pool critical section, then publishes
// events, logs and counts the outcome
func (s *Service) update(ctx context.Context, action string, fields logrus.Fields, fn func(tx *pool.Tx, t *transition) error) (Outcome, error) {
	ctx, span := tracing.StartSpan(ctx, "allocator."+action)
	span.WithFields(fields)
	t := &transition{outcome: NoOp}
	err := s.pool.Update(func(tx *pool.Tx) error {
		if err := fn(tx, t); err != nil {
			return err
		}
		return s.persist(ctx, tx)
	})
	span.WithFields(map[string]interface{}{"action": action, "outcome": string(t.outcome)})
	tracing.EndSpan(span, err)
	entry := s.logger.WithFields(fields).WithField("action", action)
	if err != nil {
		entry.WithError(err).Errorf("%v failed", action)
		s.metrics.action(action, "error")
		return "", err
	}
	s.metrics.action(action, t.outcome)
	switch t.outcome {
	case Rejected:
		entry.Warnf("%v rejected: %v", action, t.reason)
	case NoOp:
		entry.Debugf("%v skipped: %v", action, t.reason)
	default:
		entry.Infof("%v done", action)
	}
	for _, evt := range t.events {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			entry.WithError(err).Warnf("failed to publish %v event", evt.Type)
		}
	}
	return t.outcome, nil
}

func (s *Service) persist(ctx context.Context, tx *pool.Tx) error {
	if s.dao == nil {
		return nil
	}
	for _, r := range tx.Changed() {
		if err := s.dao.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to persist resource %v: %w", r.Name, err)
		}
	}
	for _, name := range tx.Removed() {
		if err := s.dao.Delete(ctx, name); err != nil && !errors.Is(err, dao.ErrNotFound) {
			return fmt.Errorf("failed to delete resource %v: %w", name, err)
		}
	}
	return nil
}

// selectResources returns resources granting resolved and the subset still to be claimed;
// both are empty when the requirement cannot be satisfied now
func selectResources(resolved *requirement.Resolved, candidates []*resource.Resource, owner string) (selected, claim []*resource.Resource) {
	want := len(candidates)
	everyCandidate := resolved.Kind == requirement.KindNames || resolved.Count == 0
	if !everyCandidate {
		want = resolved.Count
	}
	if want == 0 || want > len(candidates) {
		return nil, nil
	}
	for _, r := range candidates {
		if len(selected) == want {
			break
		}
		held := r.Owner == owner && (r.State == resource.StateQueued || r.State == resource.StateLocked)
		if !r.IsFree() && !held {
			if everyCandidate {
				return nil, nil
			}
			continue
		}
		selected = append(selected, r)
		if !held {
			claim = append(claim, r)
		}
	}
	if len(selected) < want {
		return nil, nil
	}
	return selected, claim
}

func lookup(tx *pool.Tx, name string) (*resource.Resource, error) {
	r := tx.Lookup(name)
	if r == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownResource, name)
	}
	return r, nil
}

func namesOf(resources []*resource.Resource) []string {
	result := make([]string, 0, len(resources))
	for _, r := range resources {
		result = append(result, r.Name)
	}
	return result
}

func unique(names []string) []string {
	var result []string
	seen := map[string]bool{}
	for _, name := range names {
		for _, item := range strings.Fields(name) {
			if !seen[item] {
				seen[item] = true
				result = append(result, item)
			}
		}
	}
	return result
}

// New creates an allocator over p
func New(p *pool.Pool, opts ...Option) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("allocator: pool was nil")
	}
	ret := &Service{pool: p, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(ret)
	}
	var err error
	if ret.metrics, err = newMetrics(ret.registerer); err != nil {
		return nil, fmt.Errorf("failed to register allocator metrics: %w", err)
	}
	return ret, nil
}
