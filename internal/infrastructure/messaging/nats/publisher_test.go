package nats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type published struct {
	subject string
	data    []byte
}

type fakeJetStream struct {
	messages []published
	err      error
}

func (f *fakeJetStream) PublishAsync(subj string, data []byte, _ ...nats.PubOpt) (nats.PubAckFuture, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, published{subject: subj, data: data})
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.NewWithOptions("error", "text", io.Discard)
}

func TestPublishEvent_PrefixesSubject(t *testing.T) {
	js := &fakeJetStream{}
	publisher := newPublisher(nil, js, "niche.", testLogger())

	event := map[string]string{"project_id": "p1", "to": "danger"}
	require.NoError(t, publisher.PublishEvent(context.Background(), "project.health_changed", event))

	require.Len(t, js.messages, 1)
	assert.Equal(t, "niche.project.health_changed", js.messages[0].subject)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(js.messages[0].data, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublishEvent_NoPrefix(t *testing.T) {
	publisher := newPublisher(nil, &fakeJetStream{}, "", testLogger())
	assert.Equal(t, "github.synced", publisher.Subject("github.synced"))
}

func TestPublishEvent_Errors(t *testing.T) {
	js := &fakeJetStream{err: errors.New("no responders")}
	publisher := newPublisher(nil, js, "niche", testLogger())

	err := publisher.PublishEvent(context.Background(), "data.imported", struct{}{})
	assert.ErrorContains(t, err, "no responders")

	err = publisher.PublishEvent(context.Background(), "data.imported", make(chan int))
	assert.ErrorContains(t, err, "marshal")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, publisher.PublishEvent(ctx, "data.imported", struct{}{}), context.Canceled)
}

func TestPing_NotConnected(t *testing.T) {
	publisher := newPublisher(nil, &fakeJetStream{}, "niche", testLogger())
	assert.Error(t, publisher.Ping(context.Background()))
	assert.NoError(t, publisher.Close())
}
