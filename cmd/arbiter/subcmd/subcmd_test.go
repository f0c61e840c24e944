package subcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arbiter/service/allocator"
)

const definition = `
resources:
  - name: rig-1
    labels: linux x86
  - name: rig-2
    labels: linux arm
  - name: rig-3
    labels: windows
jobs:
  - name: build
    parameters:
      - name: rig
        default: rig-1
    resources: ${rig} rig-3
    variable: RIGS
  - name: test
    label: linux
    quantity: "1"
`

func writeDefinition(t *testing.T, content string) (string, string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, filepath.Join(dir, "state")
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	return runContext(context.Background(), cmd, args...)
}

func runContext(ctx context.Context, cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestAllocateCommand(t *testing.T) {
	def, state := writeDefinition(t, definition)
	testCases := []struct {
		description string
		args        []string
		expected    string
		expectErr   bool
	}{
		{
			description: "job with parameter",
			args:        []string{"--job", "build", "--param", "rig=rig-2", "--owner", "build#1"},
			expected:    "granted build#1 rig-2 rig-3\nRIGS=rig-2,rig-3\n",
		},
		{
			description: "persisted claim blocks the same resources",
			args:        []string{"--job", "build", "--owner", "build#2"},
			expected:    "waiting build#2 \n",
		},
		{
			description: "ad hoc label count",
			args:        []string{"--label", "linux", "--quantity", "1", "--owner", "adhoc#1", "--start"},
			expected:    "granted adhoc#1 rig-1\n",
		},
		{
			description: "ad hoc names with unknown resource",
			args:        []string{"--resources", "rig-9", "--owner", "adhoc#2"},
			expectErr:   true,
		},
		{
			description: "job combined with requirement",
			args:        []string{"--job", "build", "--label", "linux"},
			expectErr:   true,
		},
		{
			description: "unknown job",
			args:        []string{"--job", "deploy"},
			expectErr:   true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			output, err := run(t, NewAllocateCommand(), append([]string{"-d", def, "-s", state}, tc.args...)...)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, output)
		})
	}

	output, err := run(t, NewStatusCommand(), "-d", def, "-s", state)
	require.NoError(t, err)
	assert.Contains(t, output, "build#1")
	assert.Contains(t, output, "locked")
	assert.Contains(t, output, "queued")

	output, err = run(t, NewStatusCommand(), "-d", def, "-s", state, "--status", "locked")
	require.NoError(t, err)
	assert.Contains(t, output, "adhoc#1")
	assert.NotContains(t, output, "build#1")

	output, err = run(t, NewStatusCommand(), "-d", def, "-s", state, "--owner", "build#1", "--label", "windows")
	require.NoError(t, err)
	assert.Contains(t, output, "rig-3")
	assert.NotContains(t, output, "rig-2")

	_, err = run(t, NewStatusCommand(), "-d", def, "-s", state, "--status", "busy")
	assert.Error(t, err)

	output, err = run(t, NewReleaseCommand(), "-d", def, "-s", state, "build#1")
	require.NoError(t, err)
	assert.Equal(t, "done\n", output)

	output, err = run(t, NewAllocateCommand(), "-d", def, "-s", state, "--job", "build", "--owner", "build#2")
	require.NoError(t, err)
	assert.Equal(t, "waiting build#2 \n", output, "rig-1 is locked by adhoc#1")
}

func TestActionCommand(t *testing.T) {
	def, state := writeDefinition(t, definition)

	output, err := run(t, NewActionCommand(allocator.ActionReserve), "-d", def, "-s", state, "--actor", "alice", "rig-1", "rig-2")
	require.NoError(t, err)
	assert.Equal(t, "rig-1 done\nrig-2 done\n", output)

	output, err = run(t, NewActionCommand(allocator.ActionReserve), "-d", def, "-s", state, "--actor", "bob", "rig-1")
	require.NoError(t, err)
	assert.Equal(t, "rig-1 rejected\n", output)

	_, err = run(t, NewActionCommand(allocator.ActionReserve), "-d", def, "-s", state, "rig-3")
	assert.Error(t, err, "actor is required")

	output, err = run(t, NewActionCommand(allocator.ActionUnreserve), "-d", def, "-s", state, "rig-1", "rig-3")
	require.NoError(t, err)
	assert.Equal(t, "rig-1 done\nrig-3 noop\n", output)

	output, err = run(t, NewActionCommand(allocator.ActionReset), "-d", def, "-s", state, "rig-2")
	require.NoError(t, err)
	assert.Equal(t, "rig-2 done\n", output)

	_, err = run(t, NewActionCommand(allocator.ActionUnlock), "-d", def, "-s", state, "rig-9")
	assert.Error(t, err)

	output, err = run(t, NewStatusCommand(), "-d", def, "-s", state, "--label", "linux")
	require.NoError(t, err)
	assert.Contains(t, output, "rig-1")
	assert.NotContains(t, output, "rig-3")
	assert.NotContains(t, output, "alice")
}

func TestValidateCommand(t *testing.T) {
	def, _ := writeDefinition(t, definition)
	output, err := run(t, NewValidateCommand(), "-d", def)
	require.NoError(t, err)
	assert.Contains(t, output, "build")
	assert.Contains(t, output, "WARNING")

	broken, _ := writeDefinition(t, definition+`
  - name: broken
    resources: rig-1 rig-9
`)
	output, err = run(t, NewValidateCommand(), "-d", broken, "broken")
	assert.Error(t, err)
	assert.Contains(t, output, "The following resources do not exist: [rig-9]")

	_, err = run(t, NewValidateCommand())
	assert.Error(t, err, "definition is required")
}

func TestStateLock(t *testing.T) {
	def, state := writeDefinition(t, definition)
	_, err := run(t, NewStatusCommand(), "-d", def, "-s", state)
	require.NoError(t, err)

	held := flock.New(filepath.Join(state, lockFile))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = runContext(ctx, NewActionCommand(allocator.ActionReserve), "-d", def, "-s", state, "--actor", "alice", "rig-1")
	assert.Error(t, err, "state is locked by another command")

	require.NoError(t, held.Unlock())
	output, err := run(t, NewActionCommand(allocator.ActionReserve), "-d", def, "-s", state, "--actor", "alice", "rig-1")
	require.NoError(t, err)
	assert.Equal(t, "rig-1 done\n", output)
}
