package jetstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

type publisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	nc     *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupPublisherMocks(t *testing.T) *publisherMocks {
	ctrl := gomock.NewController(t)
	return &publisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		nc:     mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

func testConfig() Config {
	return Config{
		URL:            "nats://localhost:4222",
		StreamName:     "ARTIVIO_TOKENS",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "artivio-api",
	}
}

func TestNewPublisher_EnsuresStream(t *testing.T) {
	m := setupPublisherMocks(t)
	ctx := context.Background()

	m.natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().EnsureStream(ctx, "ARTIVIO_TOKENS", []string{"artivio.tokens.>"}).Return(nil)

	pub, err := NewPublisher(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	assert.NotNil(t, pub)
}

func TestNewPublisher_ConnectError(t *testing.T) {
	m := setupPublisherMocks(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("no servers available"))

	pub, err := NewPublisher(context.Background(), testConfig(), m.natsJS, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, pub)
	assert.Contains(t, err.Error(), "no servers available")
}

func TestNewPublisher_StreamErrorClosesConnection(t *testing.T) {
	m := setupPublisherMocks(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("stream subjects overlap"))
	m.nc.EXPECT().Close()

	pub, err := NewPublisher(context.Background(), testConfig(), m.natsJS, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, pub)
}

func TestPublishEvent(t *testing.T) {
	m := setupPublisherMocks(t)
	ctx := context.Background()

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pub, err := NewPublisher(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	event := &domain.TokenEvent{
		Type:            domain.EventTypeMinted,
		Chain:           domain.ChainPolygonAmoy,
		ContractAddress: "0x00000000000000000000000000000000000A7710",
		TokenID:         "65536",
		SKU:             "1",
		Kind:            "CoA",
		TxHash:          "0xabc",
		BlockNumber:     101,
	}

	var published []byte
	m.js.EXPECT().
		Publish(ctx, "artivio.tokens.polygon-amoy.token.minted", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			published = data
			return &jetstream.PubAck{Stream: "ARTIVIO_TOKENS", Sequence: 1}, nil
		})

	require.NoError(t, pub.PublishEvent(ctx, event))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(published, &decoded))
	assert.Equal(t, "token.minted", decoded["type"])
	assert.Equal(t, "65536", decoded["token_id"])
	assert.Equal(t, "0xabc", decoded["tx_hash"])
}

func TestPublishEvent_PublishError(t *testing.T) {
	m := setupPublisherMocks(t)
	ctx := context.Background()

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.js.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	pub, err := NewPublisher(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	err = pub.PublishEvent(ctx, &domain.TokenEvent{Type: domain.EventTypeLicenseBound, Chain: domain.ChainLocalDev, TokenID: "1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestPublishEvent_MarshalError(t *testing.T) {
	m := setupPublisherMocks(t)
	ctx := context.Background()
	jsonMock := mocks.NewMockJSON(m.ctrl)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	jsonMock.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("boom"))

	pub, err := NewPublisher(ctx, testConfig(), m.natsJS, jsonMock)
	require.NoError(t, err)

	err = pub.PublishEvent(ctx, &domain.TokenEvent{Type: domain.EventTypeMinted})
	assert.ErrorContains(t, err, "failed to marshal event")
}

func TestBuildSubject(t *testing.T) {
	tests := []struct {
		chain     domain.Chain
		eventType domain.EventType
		expected  string
	}{
		{domain.ChainPolygonMainnet, domain.EventTypeMinted, "artivio.tokens.polygon.token.minted"},
		{domain.ChainPolygonAmoy, domain.EventTypeLicenseBound, "artivio.tokens.polygon-amoy.license.bound"},
		{domain.ChainLocalDev, domain.EventTypeProvenanceRecorded, "artivio.tokens.localhost.provenance.recorded"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildSubject(&domain.TokenEvent{Chain: tt.chain, Type: tt.eventType}))
		})
	}
}

func TestClose(t *testing.T) {
	m := setupPublisherMocks(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.nc, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.nc.EXPECT().Close()

	pub, err := NewPublisher(context.Background(), testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	pub.Close()
}
