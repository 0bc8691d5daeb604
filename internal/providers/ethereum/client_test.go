package ethereum

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/ledger"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/mocks"
)

const testContract = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

var testArtisan = common.HexToAddress("0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// rpcError mimics the JSON-RPC error returned by nodes for reverted calls
type rpcError struct {
	msg  string
	data interface{}
}

func (e *rpcError) Error() string          { return e.msg }
func (e *rpcError) ErrorData() interface{} { return e.data }

func TestContractABI(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(artisanRights1155ABI))
	require.NoError(t, err)

	methods := make([]string, 0, len(parsed.Methods))
	for name := range parsed.Methods {
		methods = append(methods, name)
	}
	assert.ElementsMatch(t, []string{
		"mintCoA", "mintRights", "bindLicense", "recordProvenanceNote",
		"uri", "exists", "totalSupply", "royaltyInfo",
	}, methods)
	assert.Empty(t, parsed.Events)
	assert.Len(t, parsed.Errors, 5)
}

func newTestClient(t *testing.T, eth *mocks.MockEthClient) *contractClient {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	l, err := NewContractClient(context.Background(), Config{
		ContractAddress: testContract,
		PrivateKey:      hex.EncodeToString(crypto.FromECDSA(key)),
		ChainID:         80002,
		PollInterval:    time.Millisecond,
	}, eth, adapter.NewClock())
	require.NoError(t, err)
	return l.(*contractClient)
}

func customErrorData(t *testing.T, c *contractClient, name string, args ...interface{}) string {
	t.Helper()
	e, ok := c.abi.Errors[name]
	require.True(t, ok)
	packed, err := e.Inputs.Pack(args...)
	require.NoError(t, err)
	data := append(append([]byte{}, e.ID[:4]...), packed...)
	return hexutil.Encode(data)
}

func stringRevertData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestNewContractClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	eth := mocks.NewMockEthClient(ctrl)

	t.Run("reads chain id from node when not configured", func(t *testing.T) {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(80002), nil)

		l, err := NewContractClient(context.Background(), Config{
			ContractAddress: testContract,
			PrivateKey:      "0x" + hex.EncodeToString(crypto.FromECDSA(key)),
		}, eth, adapter.NewClock())
		require.NoError(t, err)
		assert.Equal(t, domain.ChainPolygonAmoy, l.Chain())
		assert.Equal(t, common.HexToAddress(testContract), l.ContractAddress())
	})

	t.Run("rejects invalid contract address", func(t *testing.T) {
		_, err := NewContractClient(context.Background(), Config{ContractAddress: "0x123", PrivateKey: "00"}, eth, adapter.NewClock())
		assert.Error(t, err)
	})

	t.Run("rejects invalid private key", func(t *testing.T) {
		_, err := NewContractClient(context.Background(), Config{ContractAddress: testContract, PrivateKey: "not-a-key", ChainID: 1}, eth, adapter.NewClock())
		assert.Error(t, err)
	})

	t.Run("read-only without a private key", func(t *testing.T) {
		l, err := NewContractClient(context.Background(), Config{ContractAddress: testContract, ChainID: 80002}, eth, adapter.NewClock())
		require.NoError(t, err)

		_, err = l.BindLicense(context.Background(), big.NewInt(1), "bafylicense")
		assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	})
}

func TestMintCoA_Submits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	eth := mocks.NewMockEthClient(ctrl)
	c := newTestClient(t, eth)

	var sent *types.Transaction
	eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
			assert.Equal(t, c.from, msg.From)
			require.NotNil(t, msg.To)
			assert.Equal(t, common.HexToAddress(testContract), *msg.To)
			return 100000, nil
		})
	eth.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(30_000_000_000), nil)
	eth.EXPECT().PendingNonceAt(gomock.Any(), c.from).Return(uint64(7), nil)
	eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.Transaction) error {
			sent = tx
			return nil
		})

	sub, err := c.MintCoA(context.Background(), testArtisan, big.NewInt(42), "ipfs://meta", 750)
	require.NoError(t, err)
	require.NotNil(t, sent)

	assert.Equal(t, sent.Hash().Hex(), sub.TxHash)
	assert.Equal(t, uint64(7), sub.Nonce)
	assert.Equal(t, uint64(7), sent.Nonce())
	assert.GreaterOrEqual(t, sent.Gas(), uint64(119999))
	assert.Equal(t, int64(80002), sent.ChainId().Int64())

	sender, err := types.Sender(c.signer, sent)
	require.NoError(t, err)
	assert.Equal(t, c.from, sender)

	method, err := c.abi.MethodById(sent.Data()[:4])
	require.NoError(t, err)
	assert.Equal(t, "mintCoA", method.Name)
	args, err := method.Inputs.Unpack(sent.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, testArtisan, args[0])
	assert.Equal(t, "42", args[1].(*big.Int).String())
	assert.Equal(t, "ipfs://meta", args[2])
	assert.Equal(t, "750", args[3].(*big.Int).String())
}

func TestTransact_TracksNonceLocally(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	eth := mocks.NewMockEthClient(ctrl)
	c := newTestClient(t, eth)

	eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(50000), nil).Times(2)
	eth.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil).Times(2)
	// the node has not seen the first transaction yet
	eth.EXPECT().PendingNonceAt(gomock.Any(), c.from).Return(uint64(3), nil).Times(2)
	eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	tokenID := big.NewInt(2752512)
	first, err := c.BindLicense(context.Background(), tokenID, "bafylicense")
	require.NoError(t, err)
	second, err := c.RecordProvenanceNote(context.Background(), tokenID, "ipfs://note")
	require.NoError(t, err)

	assert.Equal(t, uint64(3), first.Nonce)
	assert.Equal(t, uint64(4), second.Nonce)
	assert.NotEqual(t, first.TxHash, second.TxHash)
}

func TestTransact_PreflightErrors(t *testing.T) {
	tests := []struct {
		name      string
		estimate  func(c *contractClient) error
		wantErr   error
		wantExtra error
	}{
		{
			name: "custom error token already exists",
			estimate: func(c *contractClient) error {
				return &rpcError{msg: "execution reverted", data: customErrorData(t, c, "TokenAlreadyExists", big.NewInt(2752512))}
			},
			wantErr: domain.ErrTokenAlreadyExists,
		},
		{
			name: "custom error invalid royalty",
			estimate: func(c *contractClient) error {
				return &rpcError{msg: "execution reverted", data: customErrorData(t, c, "InvalidRoyalty", big.NewInt(20000))}
			},
			wantErr: domain.ErrInvalidRoyalty,
		},
		{
			name: "custom error invalid recipient",
			estimate: func(c *contractClient) error {
				return &rpcError{msg: "execution reverted", data: customErrorData(t, c, "InvalidRecipient", common.Address{})}
			},
			wantErr: domain.ErrInvalidAddress,
		},
		{
			name: "string revert reason",
			estimate: func(c *contractClient) error {
				return &rpcError{msg: "execution reverted", data: stringRevertData(t, "ERC1155: token already minted")}
			},
			wantErr: domain.ErrTokenAlreadyExists,
		},
		{
			name: "revert reason in message only",
			estimate: func(c *contractClient) error {
				return errors.New("execution reverted: token does not exist")
			},
			wantErr: domain.ErrTokenNotFound,
		},
		{
			name: "insufficient funds",
			estimate: func(c *contractClient) error {
				return errors.New("insufficient funds for gas * price + value")
			},
			wantErr:   domain.ErrInsufficientFunds,
			wantExtra: domain.ErrSubmissionFailed,
		},
		{
			name: "unknown node failure",
			estimate: func(c *contractClient) error {
				return errors.New("connection refused")
			},
			wantErr: domain.ErrSubmissionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			eth := mocks.NewMockEthClient(ctrl)
			c := newTestClient(t, eth)

			eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), tt.estimate(c))
			// nothing is broadcast after a failed pre-flight
			eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Times(0)

			sub, err := c.MintCoA(context.Background(), testArtisan, big.NewInt(42), "ipfs://meta", 500)
			assert.Nil(t, sub)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantExtra != nil {
				assert.ErrorIs(t, err, tt.wantExtra)
			}
		})
	}
}

func TestTransact_SendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	eth := mocks.NewMockEthClient(ctrl)
	c := newTestClient(t, eth)

	eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(50000), nil)
	eth.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil)
	eth.EXPECT().PendingNonceAt(gomock.Any(), c.from).Return(uint64(0), nil)
	eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("nonce too low"))

	_, err := c.MintRights(context.Background(), testArtisan, big.NewInt(42), "ipfs://meta", big.NewInt(10), 500)
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	assert.Equal(t, uint64(0), c.nextNonce)
}

func TestWaitConfirmed(t *testing.T) {
	sub := &ledger.Submission{TxHash: "0x1111111111111111111111111111111111111111111111111111111111111111"}

	t.Run("polls until receipt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		eth := mocks.NewMockEthClient(ctrl)
		c := newTestClient(t, eth)

		gomock.InOrder(
			eth.EXPECT().TransactionReceipt(gomock.Any(), common.HexToHash(sub.TxHash)).Return(nil, ethereum.NotFound),
			eth.EXPECT().TransactionReceipt(gomock.Any(), common.HexToHash(sub.TxHash)).Return(nil, ethereum.NotFound),
			eth.EXPECT().TransactionReceipt(gomock.Any(), common.HexToHash(sub.TxHash)).Return(&types.Receipt{
				Status:      types.ReceiptStatusSuccessful,
				BlockNumber: big.NewInt(1234),
			}, nil),
		)

		receipt, err := c.WaitConfirmed(context.Background(), sub)
		require.NoError(t, err)
		assert.True(t, receipt.Success)
		assert.Equal(t, uint64(1234), receipt.BlockNumber)
		assert.Equal(t, sub.TxHash, receipt.TxHash)
	})

	t.Run("reverted receipt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		eth := mocks.NewMockEthClient(ctrl)
		c := newTestClient(t, eth)

		eth.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{
			Status:      types.ReceiptStatusFailed,
			BlockNumber: big.NewInt(99),
		}, nil)

		receipt, err := c.WaitConfirmed(context.Background(), sub)
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		require.NotNil(t, receipt)
		assert.False(t, receipt.Success)
		assert.Equal(t, uint64(99), receipt.BlockNumber)
	})

	t.Run("deadline expires", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		eth := mocks.NewMockEthClient(ctrl)
		c := newTestClient(t, eth)

		eth.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, ethereum.NotFound).AnyTimes()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		receipt, err := c.WaitConfirmed(ctx, sub)
		assert.Nil(t, receipt)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	eth := mocks.NewMockEthClient(ctrl)
	c := newTestClient(t, eth)
	ctx := context.Background()
	tokenID := big.NewInt(2752513)

	pack := func(method string, values ...interface{}) []byte {
		out, err := c.abi.Methods[method].Outputs.Pack(values...)
		require.NoError(t, err)
		return out
	}

	t.Run("uri", func(t *testing.T) {
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(pack("uri", "ipfs://meta"), nil)
		uri, err := c.URI(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://meta", uri)
	})

	t.Run("exists", func(t *testing.T) {
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(pack("exists", true), nil)
		exists, err := c.Exists(ctx, tokenID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("total supply", func(t *testing.T) {
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(pack("totalSupply", big.NewInt(100)), nil)
		supply, err := c.TotalSupply(ctx, tokenID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), supply.Int64())
	})

	t.Run("royalty info", func(t *testing.T) {
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).DoAndReturn(
			func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				method, err := c.abi.MethodById(msg.Data[:4])
				require.NoError(t, err)
				assert.Equal(t, "royaltyInfo", method.Name)
				return pack("royaltyInfo", testArtisan, big.NewInt(5e16)), nil
			})
		info, err := c.RoyaltyInfo(ctx, tokenID, big.NewInt(1e18))
		require.NoError(t, err)
		assert.Equal(t, testArtisan, info.Receiver)
		assert.Equal(t, int64(5e16), info.Amount.Int64())
	})

	t.Run("uri of missing token", func(t *testing.T) {
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil,
			&rpcError{msg: "execution reverted", data: customErrorData(t, c, "TokenDoesNotExist", tokenID)})
		_, err := c.URI(ctx, tokenID)
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})

	t.Run("empty response", func(t *testing.T) {
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return([]byte{}, nil)
		_, err := c.Exists(ctx, tokenID)
		assert.Error(t, err)
	})
}
