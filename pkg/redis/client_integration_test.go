//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PublishSubscribe(t *testing.T) {
	ctx := context.Background()

	tc, err := NewTestContainer(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tc.Close(ctx) })

	require.NoError(t, tc.Client.Ping(ctx))

	pubSub, err := tc.Client.Subscribe(ctx, tc.Config.TickChannel("EURUSD"))
	require.NoError(t, err)
	defer pubSub.Close()

	receivers, err := tc.Client.Publish(ctx, tc.Config.TickChannel("EURUSD"), `{"price":1.1}`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), receivers)

	select {
	case msg := <-pubSub.Channel():
		assert.Equal(t, "ticks:EURUSD", msg.Channel)
		assert.Equal(t, `{"price":1.1}`, msg.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
