//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "sponsorreg/pkg/platform/audit"
	auditkafka "sponsorreg/pkg/platform/audit/publishers/kafka"
	"sponsorreg/pkg/testutil/containers"
)

func TestPublisher(t *testing.T) {
	const topic = "sponsorreg.audit.test"

	ctx := context.Background()
	rp := containers.NewRedpandaContainer(t, topic)

	pub, err := auditkafka.Connect(rp.Brokers, topic)
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	event := audit.NewEvent(audit.ActionAgreementCreated, "SP_SPONSOR")
	event.AgreementID = 7
	event.Height = 42
	event.Detail = "Alpha"

	require.NoError(t, pub.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)

	assert.Equal(t, "7", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, audit.ActionAgreementCreated, got.Action)
	assert.Equal(t, "SP_SPONSOR", got.Actor)
	assert.Equal(t, uint64(7), got.AgreementID)
	assert.Equal(t, uint64(42), got.Height)
	assert.Equal(t, "Alpha", got.Detail)
}
