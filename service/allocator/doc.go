// Package allocator is the only service allowed to change resource state.
// Every transition (reserve, unreserve, lock, unlock, allocate, reset) runs as
// one pool critical section: availability is checked and resources are claimed,
// persisted and journaled together, or nothing changes at all.
//
// Allocation never blocks; a requirement that cannot be satisfied now yields a
// Waiting decision and the caller retries on its next maintenance pass.
package allocator
