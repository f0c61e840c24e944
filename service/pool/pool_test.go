package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/label"
)

func newTestPool(t *testing.T) *Pool {
	cache, err := label.NewCache(0)
	require.NoError(t, err)
	p, err := New(cache,
		resource.New("rig-1", "linux", "x86"),
		resource.New("rig-2", "linux", "arm"),
		resource.New("rig-3", "windows", "x86"),
	)
	require.NoError(t, err)
	return p
}

func TestPool_Load(t *testing.T) {
	_, err := New(nil, resource.New("a"), resource.New("a"))
	assert.ErrorIs(t, err, ErrDuplicate)

	for _, invalid := range []string{"gpu(1)", "AND", "c&d", "x!"} {
		_, err = New(nil, resource.New("a", "linux", invalid))
		assert.ErrorIs(t, err, label.ErrInvalidLabel, invalid)
	}

	p, err := New(nil, &resource.Resource{Name: "a"}, nil, &resource.Resource{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p.Names())
	assert.Equal(t, resource.StateFree, p.Get("a").State)
}

func TestPool_Queries(t *testing.T) {
	p := newTestPool(t)
	assert.Equal(t, 3, p.Len())
	assert.True(t, p.Has("rig-2"))
	assert.False(t, p.Has("rig-9"))
	assert.Nil(t, p.Get("rig-9"))
	assert.True(t, p.HasLabel("arm"))
	assert.False(t, p.HasLabel("mac"))
	assert.Equal(t, []string{"arm", "linux", "windows", "x86"}, p.Labels())

	matched, err := p.Matching("x86 && !windows")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "rig-1", matched[0].Name)

	_, err = p.Matching("x86 &&")
	assert.Error(t, err)

	copied := p.Get("rig-1")
	copied.Labels[0] = "mutated"
	assert.True(t, p.HasLabel("linux"))
}

func TestPool_Candidates(t *testing.T) {
	p := newTestPool(t)
	testCases := []struct {
		description string
		resolved    *requirement.Resolved
		expected    []string
		expectErr   error
	}{
		{
			description: "names keep requested order and drop duplicates",
			resolved:    &requirement.Resolved{Kind: requirement.KindNames, Names: []string{"rig-3", "rig-1", "rig-3"}},
			expected:    []string{"rig-3", "rig-1"},
		},
		{
			description: "unknown name",
			resolved:    &requirement.Resolved{Kind: requirement.KindNames, Names: []string{"rig-9"}},
			expectErr:   ErrUnknownResource,
		},
		{
			description: "label in pool order",
			resolved:    &requirement.Resolved{Kind: requirement.KindLabel, Label: "x86"},
			expected:    []string{"rig-1", "rig-3"},
		},
		{
			description: "count of any",
			resolved:    &requirement.Resolved{Kind: requirement.KindCount, Count: 1},
			expected:    []string{"rig-1", "rig-2", "rig-3"},
		},
		{
			description: "count with label",
			resolved:    &requirement.Resolved{Kind: requirement.KindCount, Label: "linux", Count: 1},
			expected:    []string{"rig-1", "rig-2"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			candidates, err := p.Candidates(tc.resolved)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, c := range candidates {
				names = append(names, c.Name)
			}
			assert.Equal(t, tc.expected, names)
		})
	}
}

func TestPool_UpdateRollback(t *testing.T) {
	p := newTestPool(t)
	before := p.Resources()
	failure := errors.New("boom")
	err := p.Update(func(tx *Tx) error {
		tx.Claim(tx.Lookup("rig-1"), resource.StateQueued, "build-1")
		require.NoError(t, tx.SetLabels(tx.Lookup("rig-2"), "mac"))
		require.NoError(t, tx.Add(resource.New("rig-4")))
		require.NoError(t, tx.Remove("rig-3"))
		assert.Len(t, tx.Changed(), 3)
		assert.Equal(t, []string{"rig-3"}, tx.Removed())
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.EqualValues(t, before, p.Resources())
	assert.Equal(t, []string{"rig-1", "rig-2", "rig-3"}, p.Names())
}

func TestPool_UpdateCommit(t *testing.T) {
	p := newTestPool(t)
	var changed []*resource.Resource
	err := p.Update(func(tx *Tx) error {
		tx.Claim(tx.Lookup("rig-1"), resource.StateQueued, "build-1")
		tx.Claim(tx.Lookup("rig-1"), resource.StateLocked, "build-1")
		tx.Reserve(tx.Lookup("rig-2"), "alice/1", "alice")
		changed = tx.Changed()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, resource.StateLocked, p.Get("rig-1").State)
	assert.Equal(t, "build-1", p.Get("rig-1").Owner)
	assert.Equal(t, "alice", p.Get("rig-2").ReservedBy)

	err = p.Update(func(tx *Tx) error {
		tx.Release(tx.Lookup("rig-2"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, p.Get("rig-2").IsFree())
	assert.Empty(t, p.Get("rig-2").ReservedBy)
}

func TestPool_ClaimHeldByOtherPanics(t *testing.T) {
	p := newTestPool(t)
	require.NoError(t, p.Update(func(tx *Tx) error {
		tx.Claim(tx.Lookup("rig-1"), resource.StateLocked, "build-1")
		return nil
	}))
	assert.Panics(t, func() {
		_ = p.Update(func(tx *Tx) error {
			tx.Claim(tx.Lookup("rig-1"), resource.StateLocked, "build-2")
			return nil
		})
	})
	assert.Equal(t, "build-1", p.Get("rig-1").Owner)
}

func TestPool_AddRemove(t *testing.T) {
	p := newTestPool(t)
	assert.ErrorIs(t, p.Add(resource.New("rig-1")), ErrDuplicate)
	assert.ErrorIs(t, p.Add(resource.New("rig-5", "c&d")), label.ErrInvalidLabel)
	err := p.Update(func(tx *Tx) error { return tx.SetLabels(tx.Lookup("rig-1"), "linux", "gpu(1)") })
	assert.ErrorIs(t, err, label.ErrInvalidLabel)
	assert.Equal(t, []string{"linux", "x86"}, p.Get("rig-1").Labels)
	require.NoError(t, p.Add(resource.New("rig-4", "mac")))
	assert.Equal(t, []string{"rig-1", "rig-2", "rig-3", "rig-4"}, p.Names())

	require.NoError(t, p.Update(func(tx *Tx) error {
		tx.Claim(tx.Lookup("rig-4"), resource.StateLocked, "build-1")
		return nil
	}))
	err = p.Update(func(tx *Tx) error { return tx.Remove("rig-4") })
	assert.ErrorIs(t, err, ErrInUse)
	err = p.Update(func(tx *Tx) error { return tx.Remove("rig-9") })
	assert.ErrorIs(t, err, ErrUnknownResource)

	snapshot := p.Snapshot()
	require.Len(t, snapshot, 4)
	assert.True(t, snapshot[3].Locked)
	assert.Equal(t, "build-1", snapshot[3].Owner)
}
