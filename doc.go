// Package arbiter arbitrates a finite pool of named, exclusive-use resources
// among competing build jobs.
//
// A job declares what it needs by explicit resource names, by a boolean label
// expression, or as "any N resources matching a label". Requirements may embed
// $name / ${name} build parameters which are resolved per build. The engine
// validates requirements against the pool, then grants, defers or rejects them
// atomically under concurrent scheduling:
//
//	srv, _ := arbiter.New()
//	_ = srv.Load(ctx, "pool.yaml")
//	decision, _ := srv.Schedule(ctx, "build", map[string]string{"rig": "rig-2"}, "build#42")
//	if decision.IsGranted() {
//		_, _ = srv.Allocator().Start(ctx, "build#42")
//		defer srv.Allocator().Release(ctx, "build#42")
//	}
//
// See service/allocator for state transitions and service/validator for
// configuration checks.
package arbiter
