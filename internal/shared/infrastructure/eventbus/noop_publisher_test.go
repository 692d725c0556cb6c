package eventbus_test

import (
	"context"
	"testing"

	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher_PublishAndCloseAlwaysSucceed(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)

	require.NoError(t, p.Publish(context.Background(), "scheduling.run.started", []byte(`{}`)))
	assert.NoError(t, p.Close())
}

func TestNoopPublisher_SatisfiesPublisherInterface(t *testing.T) {
	var _ eventbus.Publisher = eventbus.NewNoopPublisher(nil)
}
