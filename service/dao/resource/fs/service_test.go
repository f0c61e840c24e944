package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/dao/criteria"
)

func TestService(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "resources")
	srv, err := New(baseDir)
	require.NoError(t, err)
	ctx := context.Background()

	reserved := resource.New("lab/rig 2", "linux")
	reserved.State, reserved.Owner, reserved.ReservedBy = resource.StateReserved, "alice/1", "alice"
	require.NoError(t, srv.Save(ctx, resource.New("rig-1", "linux", "x86")))
	require.NoError(t, srv.Save(ctx, reserved))

	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	loaded, err := srv.Load(ctx, "lab/rig 2")
	require.NoError(t, err)
	assert.Equal(t, reserved.Owner, loaded.Owner)
	assert.Equal(t, reserved.Labels, loaded.Labels)
	assert.Equal(t, resource.StateReserved, loaded.State)

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	list, err := srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "lab/rig 2", list[0].Name)
	assert.Equal(t, "rig-1", list[1].Name)

	list, err = srv.List(ctx, dao.NewParameter(criteria.ByState, string(resource.StateFree)))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "rig-1", list[0].Name)

	require.NoError(t, srv.Delete(ctx, "rig-1"))
	assert.ErrorIs(t, srv.Delete(ctx, "rig-1"), dao.ErrNotFound)

	_, err = New("")
	assert.Error(t, err)
}
