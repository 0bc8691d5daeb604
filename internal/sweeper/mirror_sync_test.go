package sweeper_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/ledger/ledgertest"
	"github.com/artivio/artivio-chain/internal/mocks"
	"github.com/artivio/artivio-chain/internal/store"
	"github.com/artivio/artivio-chain/internal/store/schema"
	"github.com/artivio/artivio-chain/internal/sweeper"
)

var artisan = common.HexToAddress("0x1111111111111111111111111111111111111111")

// never fires, so Start blocks between passes until it is stopped
var never <-chan time.Time = make(chan time.Time)

func fastRetry() adapter.RetryPolicy {
	return adapter.RetryPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		MaxElapsedTime:  10 * time.Millisecond,
	}
}

func strPtr(s string) *string {
	return &s
}

func record(id *big.Int, kind schema.Kind, uri string, amount *string) schema.Token {
	return schema.Token{
		TokenID:  id.String(),
		Kind:     kind,
		TokenURI: uri,
		Amount:   amount,
		TxHash:   "0xabc",
		Chain:    string(domain.ChainLocalDev),
	}
}

func TestMirrorSync_Name(t *testing.T) {
	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{}, nil, ledgertest.New(), adapter.NewClock())
	assert.Equal(t, "mirror-sync", s.Name())
}

func TestMirrorSync_RunOnce_RefreshesDrift(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := ledgertest.New()
	staleURI := fake.Seed(artisan, big.NewInt(1), domain.KindCoA, "ipfs://new", 1, 500)
	staleSupply := fake.Seed(artisan, big.NewInt(2), domain.KindRights, "ipfs://rights", 50, 500)
	inSync := fake.Seed(artisan, big.NewInt(3), domain.KindCoA, "ipfs://same", 1, 500)
	unknownID, err := domain.EncodeTokenID(big.NewInt(4), domain.KindCoA)
	require.NoError(t, err)

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().
		ListTokens(gomock.Any(), store.TokenFilter{Limit: 10, Offset: 0}).
		Return([]schema.Token{
			record(staleURI, schema.KindCoA, "ipfs://old", nil),
			record(staleSupply, schema.KindRights, "ipfs://rights", strPtr("40")),
			record(inSync, schema.KindCoA, "ipfs://same", nil),
			record(unknownID, schema.KindCoA, "ipfs://gone", nil),
		}, nil)

	st.EXPECT().
		MergeToken(gomock.Any(), staleURI.String(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, update store.TokenUpdate) error {
			if assert.NotNil(t, update.TokenURI) {
				assert.Equal(t, "ipfs://new", *update.TokenURI)
			}
			assert.Nil(t, update.Amount)
			assert.False(t, update.UpdatedAt.IsZero())
			return nil
		})
	st.EXPECT().
		MergeToken(gomock.Any(), staleSupply.String(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, update store.TokenUpdate) error {
			assert.Nil(t, update.TokenURI)
			if assert.NotNil(t, update.Amount) {
				assert.Equal(t, "50", *update.Amount)
			}
			return nil
		})

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{
		BatchSize:      10,
		WorkerPoolSize: 2,
		ReadRetry:      fastRetry(),
	}, st, fake, adapter.NewClock())

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), report.Checked)
	assert.Equal(t, int32(2), report.Updated)
	assert.Equal(t, int32(1), report.Unknown)
	assert.Equal(t, int32(0), report.Failed)
}

func TestMirrorSync_RunOnce_Pages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := ledgertest.New()
	var tokens []schema.Token
	for sku := int64(1); sku <= 3; sku++ {
		id := fake.Seed(artisan, big.NewInt(sku), domain.KindCoA, "ipfs://meta", 1, 500)
		tokens = append(tokens, record(id, schema.KindCoA, "ipfs://meta", nil))
	}

	st := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		st.EXPECT().ListTokens(gomock.Any(), store.TokenFilter{Limit: 2, Offset: 0}).Return(tokens[:2], nil),
		st.EXPECT().ListTokens(gomock.Any(), store.TokenFilter{Limit: 2, Offset: 2}).Return(tokens[2:], nil),
	)

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{
		BatchSize:      2,
		WorkerPoolSize: 1,
		ReadRetry:      fastRetry(),
	}, st, fake, adapter.NewClock())

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), report.Checked)
	assert.Equal(t, int32(0), report.Updated)
}

func TestMirrorSync_RunOnce_FullLastPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := ledgertest.New()
	id := fake.Seed(artisan, big.NewInt(1), domain.KindCoA, "ipfs://meta", 1, 500)

	st := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		st.EXPECT().ListTokens(gomock.Any(), store.TokenFilter{Limit: 1, Offset: 0}).
			Return([]schema.Token{record(id, schema.KindCoA, "ipfs://meta", nil)}, nil),
		st.EXPECT().ListTokens(gomock.Any(), store.TokenFilter{Limit: 1, Offset: 1}).Return(nil, nil),
	)

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{BatchSize: 1, ReadRetry: fastRetry()}, st, fake, adapter.NewClock())

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), report.Checked)
}

func TestMirrorSync_RunOnce_LedgerUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := ledgertest.New()
	id := fake.Seed(artisan, big.NewInt(1), domain.KindCoA, "ipfs://new", 1, 500)
	fake.FailReads(errors.New("rpc unavailable"))

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().
		ListTokens(gomock.Any(), gomock.Any()).
		Return([]schema.Token{record(id, schema.KindCoA, "ipfs://old", nil)}, nil)
	st.EXPECT().MergeToken(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{BatchSize: 10, ReadRetry: fastRetry()}, st, fake, adapter.NewClock())

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), report.Checked)
	assert.Equal(t, int32(1), report.Failed)
	assert.Equal(t, int32(0), report.Updated)
}

func TestMirrorSync_RunOnce_MergeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fake := ledgertest.New()
	id := fake.Seed(artisan, big.NewInt(1), domain.KindCoA, "ipfs://new", 1, 500)

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().
		ListTokens(gomock.Any(), gomock.Any()).
		Return([]schema.Token{record(id, schema.KindCoA, "ipfs://old", nil)}, nil)
	st.EXPECT().
		MergeToken(gomock.Any(), id.String(), gomock.Any()).
		Return(errors.New("connection reset"))

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{BatchSize: 10, ReadRetry: fastRetry()}, st, fake, adapter.NewClock())

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), report.Failed)
}

func TestMirrorSync_RunOnce_InvalidRecordID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().
		ListTokens(gomock.Any(), gomock.Any()).
		Return([]schema.Token{{TokenID: "not-a-number", Kind: schema.KindCoA}}, nil)

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{BatchSize: 10, ReadRetry: fastRetry()}, st, ledgertest.New(), adapter.NewClock())

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), report.Failed)
}

func TestMirrorSync_RunOnce_ListFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().ListTokens(gomock.Any(), gomock.Any()).Return(nil, errors.New("database is down"))

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{ReadRetry: fastRetry()}, st, ledgertest.New(), adapter.NewClock())

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list mirrored tokens")
}

func TestMirrorSync_RunOnce_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{}, st, ledgertest.New(), adapter.NewClock())

	_, err := s.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMirrorSync_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Millisecond).AnyTimes()
	clock.EXPECT().After(gomock.Any()).Return(never).AnyTimes()

	passed := make(chan struct{}, 1)
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().
		ListTokens(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, store.TokenFilter) ([]schema.Token, error) {
			select {
			case passed <- struct{}{}:
			default:
			}
			return nil, nil
		}).
		AnyTimes()

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{Interval: time.Hour}, st, ledgertest.New(), clock)

	done := make(chan error, 1)
	go func() {
		done <- s.Start(context.Background())
	}()

	select {
	case <-passed:
	case <-time.After(5 * time.Second):
		t.Fatal("mirror sync did not run a pass")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("mirror sync did not stop")
	}

	// stopping twice is a no-op
	assert.NoError(t, s.Stop(stopCtx))
}

func TestMirrorSync_StartTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Millisecond).AnyTimes()
	clock.EXPECT().After(gomock.Any()).Return(never).AnyTimes()

	passed := make(chan struct{}, 1)
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().
		ListTokens(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, store.TokenFilter) ([]schema.Token, error) {
			select {
			case passed <- struct{}{}:
			default:
			}
			return nil, nil
		}).
		AnyTimes()

	s := sweeper.NewMirrorSync(sweeper.MirrorSyncConfig{}, st, ledgertest.New(), clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	select {
	case <-passed:
	case <-time.After(5 * time.Second):
		t.Fatal("mirror sync did not run a pass")
	}

	err := s.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("mirror sync did not exit on cancel")
	}
}
