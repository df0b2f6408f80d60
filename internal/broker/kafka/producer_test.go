package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerPublish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "viah.events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "cv_w1:v1" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var evt Event
		if err := json.Unmarshal(value, &evt); err != nil {
			return err
		}
		if evt.Type != "conversation.closed" {
			return errors.New("unexpected type " + evt.Type)
		}
		return nil
	})

	p := newProducer(sp, "viah.events")
	err := p.Publish(context.Background(), NewEvent("conversation.closed", "cv_w1:v1", map[string]string{"reason": "booked elsewhere"}))
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducerPublishError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(sp, "viah.events")
	err := p.Publish(context.Background(), NewEvent("message.sent", "k", nil))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewEvent("lead.created", "v1", nil)))
	assert.NoError(t, p.Close())
}
