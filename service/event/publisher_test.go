package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arbiter/internal/clock"
	"github.com/viant/arbiter/internal/idgen"
	"github.com/viant/arbiter/service/messaging"
	"github.com/viant/arbiter/service/messaging/fs"
)

func TestPublisher(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	defer clock.Freeze(now)()
	previous := idgen.NewFunc
	idgen.NewFunc = func() string { return "evt-1" }
	defer func() { idgen.NewFunc = previous }()

	testCases := []struct {
		description string
		vendor      messaging.Vendor
		options     []Option
	}{
		{description: "memory", vendor: messaging.VendorMemory},
		{description: "fs", vendor: messaging.VendorFs, options: []Option{WithFsConfig(fs.Config{BasePath: t.TempDir()})}},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			ctx := context.Background()
			publisher, err := New(tc.vendor, tc.options...)
			require.NoError(t, err)
			require.NoError(t, publisher.Publish(ctx, NewEvent(TypeLocked, "build-1", "rig-1", "rig-2")))

			consumed, err := publisher.Consume(ctx)
			require.NoError(t, err)
			require.NotNil(t, consumed)
			assert.Equal(t, &Event{ID: "evt-1", Type: TypeLocked, Owner: "build-1", Resources: []string{"rig-1", "rig-2"}, CreatedAt: now}, consumed)
		})
	}

	_, err := New("kafka")
	assert.Error(t, err)

	var discard *Publisher
	assert.NoError(t, discard.Publish(context.Background(), NewEvent(TypeReset, "", "rig-1")))
}
