package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/mocks"
	smartdialjs "github.com/feral-file/ff-smartdial/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

var testConfig = smartdialjs.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "SMARTDIAL",
	MaxReconnects:  3,
	ReconnectWait:  time.Second,
	ConnectionName: "smartdial-test",
}

func testEvent() *domain.IndexChanged {
	return &domain.IndexChanged{
		EventID:   "01JABCDEF0123456789ABCDEFG",
		PassID:    "0192f0c2-0000-7000-8000-000000000000",
		Watermark: 1700000000000,
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Stats:     domain.SyncStats{UpdatedContacts: 2, InsertedEntries: 3},
	}
}

func expectConnect(ctrl *gomock.Controller) (*mocks.MockNatsJetStream, *mocks.MockNatsConn, *mocks.MockJetStream) {
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(nc, js, nil)
	js.EXPECT().
		CreateOrUpdateStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cfg jetstream.StreamConfig) error {
			if cfg.Name != testConfig.StreamName {
				return errors.New("unexpected stream name")
			}
			if len(cfg.Subjects) != 1 || cfg.Subjects[0] != domain.INDEX_CHANGED_SUBJECT {
				return errors.New("unexpected stream subjects")
			}
			return nil
		})

	return natsJS, nc, js
}

func TestPublisher_PublishIndexChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	natsJS, nc, js := expectConnect(ctrl)

	publisher, err := smartdialjs.NewPublisher(ctx, testConfig, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	event := testEvent()
	expected, err := json.Marshal(event)
	require.NoError(t, err)

	js.EXPECT().
		Publish(ctx, domain.INDEX_CHANGED_SUBJECT, expected, gomock.Any()).
		Return(&jetstream.PubAck{Stream: testConfig.StreamName, Sequence: 1}, nil)

	require.NoError(t, publisher.PublishIndexChanged(ctx, event))

	nc.EXPECT().Close()
	publisher.Close()
}

func TestPublisher_PublishError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	natsJS, _, js := expectConnect(ctrl)

	publisher, err := smartdialjs.NewPublisher(ctx, testConfig, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	js.EXPECT().
		Publish(ctx, domain.INDEX_CHANGED_SUBJECT, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("no responders"))

	err = publisher.PublishIndexChanged(ctx, testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestPublisher_ConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any()).
		Return(nil, nil, errors.New("connection refused"))

	publisher, err := smartdialjs.NewPublisher(context.Background(), testConfig, natsJS, adapter.NewJSON())
	require.Error(t, err)
	assert.Nil(t, publisher)
}

func TestPublisher_StreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nc, js, nil)
	js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(errors.New("insufficient resources"))
	nc.EXPECT().Close()

	publisher, err := smartdialjs.NewPublisher(context.Background(), testConfig, natsJS, adapter.NewJSON())
	require.Error(t, err)
	assert.Nil(t, publisher)
	assert.Contains(t, err.Error(), "failed to create stream")
}

// subscribeWith runs Subscribe, delivering msg to the handler from inside Consume
func subscribeWith(t *testing.T, ctrl *gomock.Controller, msg adapter.Message, handler func(*domain.IndexChanged) error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	natsJS, _, js := expectConnect(ctrl)
	consumer := mocks.NewMockNatsConsumer(ctrl)
	cc := mocks.NewMockConsumeContext(ctrl)

	js.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), testConfig.StreamName, gomock.Any()).
		Return(consumer, nil)
	consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(h adapter.MessageHandler, opts ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			h(msg)
			// stop Subscribe once the message is handled
			cancel()
			return cc, nil
		})
	cc.EXPECT().Closed().Return(make(chan struct{})).AnyTimes()
	cc.EXPECT().Stop()

	subscriber, err := smartdialjs.NewSubscriber(ctx, testConfig, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	require.NoError(t, subscriber.Subscribe(ctx, handler))
}

func TestSubscriber_DeliversAndAcks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	data, err := json.Marshal(testEvent())
	require.NoError(t, err)

	msg := mocks.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Data().Return(data)
	msg.EXPECT().Ack().Return(nil)

	var received *domain.IndexChanged
	subscribeWith(t, ctrl, msg, func(event *domain.IndexChanged) error {
		received = event
		return nil
	})

	require.NotNil(t, received)
	assert.Equal(t, testEvent().EventID, received.EventID)
	assert.Equal(t, 3, received.Stats.InsertedEntries)
}

func TestSubscriber_HandlerErrorNaks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	data, err := json.Marshal(testEvent())
	require.NoError(t, err)

	msg := mocks.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Data().Return(data)
	msg.EXPECT().Nak().Return(nil)

	subscribeWith(t, ctrl, msg, func(event *domain.IndexChanged) error {
		return errors.New("listener busy")
	})
}

func TestSubscriber_MalformedMessageIsTerminated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msg := mocks.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Data().Return([]byte("{not json"))
	msg.EXPECT().Subject().Return(domain.INDEX_CHANGED_SUBJECT)
	msg.EXPECT().Term().Return(nil)

	called := false
	subscribeWith(t, ctrl, msg, func(event *domain.IndexChanged) error {
		called = true
		return nil
	})
	assert.False(t, called)
}
