package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/rps-backend/testing/suite"
)

func TestPublisher_Subject(t *testing.T) {
	publisher := NewWithConn(nil, "game.rooms.")

	assert.Equal(t, "game.rooms.ABC123.round-result", publisher.Subject("ABC123", "round-result"))
	assert.Equal(t, DefaultSubjectPrefix+".ABC123.game-over", NewWithConn(nil, "").Subject("ABC123", "game-over"))
}

func TestPublisher_Publish(t *testing.T) {
	_, st := suite.NewNATS(t)

	// Given: a subscriber on every event of one room
	sub, err := nats.Connect(st.NATSURL)
	require.NoError(t, err)
	defer sub.Close()

	subscription, err := sub.SubscribeSync(DefaultSubjectPrefix + ".ABC123.>")
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	publisher, err := New(st.NATSURL, "")
	require.NoError(t, err)
	defer publisher.Close()

	// When: a round result is published
	err = publisher.Publish("ABC123", "round-result", map[string]any{"round": 1, "winner": "tie"})
	require.NoError(t, err)

	// Then: the subscriber receives the envelope
	msg, err := subscription.NextMsg(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultSubjectPrefix+".ABC123.round-result", msg.Subject)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &envelope))
	assert.Equal(t, "ABC123", envelope.RoomID)
	assert.Equal(t, "round-result", envelope.Event)
	assert.JSONEq(t, `{"round":1,"winner":"tie"}`, string(envelope.Payload))
	assert.False(t, envelope.Timestamp.IsZero())
}
