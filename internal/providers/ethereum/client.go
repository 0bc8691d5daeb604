package ethereum

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/ledger"
	"github.com/artivio/artivio-chain/internal/logger"
)

const (
	defaultPollInterval       = 2 * time.Second
	defaultGasLimitMultiplier = 1.2
)

// Config holds the settings of the contract client
type Config struct {
	ContractAddress    string
	PrivateKey         string
	ChainID            int64
	PollInterval       time.Duration
	GasLimitMultiplier float64
}

type contractClient struct {
	client        adapter.EthClient
	clock         adapter.Clock
	abi           abi.ABI
	contract      common.Address
	chainID       *big.Int
	key           *ecdsa.PrivateKey
	from          common.Address
	signer        types.Signer
	pollInterval  time.Duration
	gasMultiplier float64

	// nonceMu serialises nonce allocation and broadcast for the operator key
	nonceMu   sync.Mutex
	nextNonce uint64
}

// NewContractClient creates a Ledger backed by the ArtisanRights1155 contract.
// When cfg.ChainID is zero the chain id is read from the node.
// An empty private key yields a read-only client whose submissions fail.
func NewContractClient(ctx context.Context, cfg Config, client adapter.EthClient, clock adapter.Clock) (ledger.Ledger, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address: %q", cfg.ContractAddress)
	}

	var key *ecdsa.PrivateKey
	var from common.Address
	if cfg.PrivateKey != "" {
		var err error
		key, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		from = crypto.PubkeyToAddress(key.PublicKey)
	}

	parsed, err := abi.JSON(strings.NewReader(artisanRights1155ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	multiplier := cfg.GasLimitMultiplier
	if multiplier < 1 {
		multiplier = defaultGasLimitMultiplier
	}

	return &contractClient{
		client:        client,
		clock:         clock,
		abi:           parsed,
		contract:      common.HexToAddress(cfg.ContractAddress),
		chainID:       chainID,
		key:           key,
		from:          from,
		signer:        types.LatestSignerForChainID(chainID),
		pollInterval:  pollInterval,
		gasMultiplier: multiplier,
	}, nil
}

func (c *contractClient) ContractAddress() common.Address {
	return c.contract
}

func (c *contractClient) Chain() domain.Chain {
	return domain.ChainFromID(c.chainID.Int64())
}

func (c *contractClient) MintCoA(ctx context.Context, to common.Address, sku *big.Int, tokenURI string, royaltyBps uint16) (*ledger.Submission, error) {
	return c.transact(ctx, "mintCoA", to, sku, tokenURI, big.NewInt(int64(royaltyBps)))
}

func (c *contractClient) MintRights(ctx context.Context, to common.Address, sku *big.Int, tokenURI string, amount *big.Int, royaltyBps uint16) (*ledger.Submission, error) {
	return c.transact(ctx, "mintRights", to, sku, tokenURI, amount, big.NewInt(int64(royaltyBps)))
}

func (c *contractClient) BindLicense(ctx context.Context, tokenID *big.Int, licenseCID string) (*ledger.Submission, error) {
	return c.transact(ctx, "bindLicense", tokenID, licenseCID)
}

func (c *contractClient) RecordProvenanceNote(ctx context.Context, tokenID *big.Int, ref string) (*ledger.Submission, error) {
	return c.transact(ctx, "recordProvenanceNote", tokenID, ref)
}

// transact estimates, signs and broadcasts a contract call.
// The gas estimate doubles as a pre-flight: a revert there is mapped to the matching precondition error.
func (c *contractClient) transact(ctx context.Context, method string, args ...interface{}) (*ledger.Submission, error) {
	if c.key == nil {
		return nil, fmt.Errorf("%w: %s needs an operator key", domain.ErrSubmissionFailed, method)
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{From: c.from, To: &c.contract, Data: data})
	if err != nil {
		if mapped := c.classifyError(err); mapped != nil {
			return nil, fmt.Errorf("%s rejected: %w", method, mapped)
		}
		return nil, fmt.Errorf("%w: estimate gas for %s: %v", domain.ErrSubmissionFailed, method, err)
	}
	gasLimit := uint64(float64(gas) * c.gasMultiplier)

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: suggest gas price: %v", domain.ErrSubmissionFailed, err)
	}

	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	nonce, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("%w: pending nonce: %v", domain.ErrSubmissionFailed, err)
	}
	if nonce < c.nextNonce {
		nonce = c.nextNonce
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &c.contract,
		Value:    big.NewInt(0),
		Data:     data,
	})
	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", method, err)
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		if mapped := c.classifyError(err); mapped != nil {
			return nil, fmt.Errorf("%s rejected: %w", method, mapped)
		}
		return nil, fmt.Errorf("%w: send %s: %v", domain.ErrSubmissionFailed, method, err)
	}
	c.nextNonce = nonce + 1

	logger.InfoCtx(ctx, "Transaction submitted",
		zap.String("method", method),
		zap.String("txHash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gasLimit", gasLimit),
	)

	return &ledger.Submission{TxHash: signed.Hash().Hex(), Nonce: nonce}, nil
}

// WaitConfirmed polls for the receipt until it is available or ctx is done
func (c *contractClient) WaitConfirmed(ctx context.Context, sub *ledger.Submission) (*ledger.Receipt, error) {
	hash := common.HexToHash(sub.TxHash)
	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			result := &ledger.Receipt{
				TxHash:  sub.TxHash,
				Success: receipt.Status == types.ReceiptStatusSuccessful,
			}
			if receipt.BlockNumber != nil {
				result.BlockNumber = receipt.BlockNumber.Uint64()
			}
			if !result.Success {
				return result, fmt.Errorf("%w: %s", domain.ErrTransactionReverted, sub.TxHash)
			}
			return result, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil {
			logger.WarnCtx(ctx, "Failed to fetch transaction receipt", zap.String("txHash", sub.TxHash), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", sub.TxHash, ctx.Err())
		case <-c.clock.After(c.pollInterval):
		}
	}
}

func (c *contractClient) URI(ctx context.Context, tokenID *big.Int) (string, error) {
	values, err := c.call(ctx, "uri", tokenID)
	if err != nil {
		return "", err
	}
	uri, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected uri output type %T", values[0])
	}
	return uri, nil
}

func (c *contractClient) Exists(ctx context.Context, tokenID *big.Int) (bool, error) {
	values, err := c.call(ctx, "exists", tokenID)
	if err != nil {
		return false, err
	}
	exists, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected exists output type %T", values[0])
	}
	return exists, nil
}

func (c *contractClient) TotalSupply(ctx context.Context, tokenID *big.Int) (*big.Int, error) {
	values, err := c.call(ctx, "totalSupply", tokenID)
	if err != nil {
		return nil, err
	}
	supply, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected totalSupply output type %T", values[0])
	}
	return supply, nil
}

func (c *contractClient) RoyaltyInfo(ctx context.Context, tokenID *big.Int, salePrice *big.Int) (*ledger.RoyaltyInfo, error) {
	values, err := c.call(ctx, "royaltyInfo", tokenID, salePrice)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected royaltyInfo output length %d", len(values))
	}
	receiver, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected royaltyInfo receiver type %T", values[0])
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected royaltyInfo amount type %T", values[1])
	}
	return &ledger.RoyaltyInfo{Receiver: receiver, Amount: amount}, nil
}

func (c *contractClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	out, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		if mapped := c.classifyError(err); mapped != nil {
			return nil, fmt.Errorf("%s: %w", method, mapped)
		}
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty response from %s", method)
	}

	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no outputs from %s", method)
	}
	return values, nil
}

// classifyError maps node and revert errors to domain errors.
// It returns nil when the error is not recognised.
func (c *contractClient) classifyError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, domain.ErrInsufficientFunds)
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); len(data) >= 4 {
			if mapped := c.classifyRevertData(data); mapped != nil {
				return mapped
			}
		}
	}

	return classifyRevertReason(err.Error())
}

func (c *contractClient) classifyRevertData(data []byte) error {
	if reason, err := abi.UnpackRevert(data); err == nil {
		if mapped := classifyRevertReason(reason); mapped != nil {
			return fmt.Errorf("%s: %w", reason, mapped)
		}
		return nil
	}

	for name, e := range c.abi.Errors {
		if !bytes.Equal(e.ID[:4], data[:4]) {
			continue
		}
		switch name {
		case "TokenAlreadyExists":
			return domain.ErrTokenAlreadyExists
		case "TokenDoesNotExist":
			return domain.ErrTokenNotFound
		case "InvalidRoyalty":
			return domain.ErrInvalidRoyalty
		case "InvalidRecipient":
			return domain.ErrInvalidAddress
		case "InvalidAmount":
			return domain.ErrInvalidAmount
		}
	}
	return nil
}

func classifyRevertReason(reason string) error {
	reason = strings.ToLower(reason)
	switch {
	case strings.Contains(reason, "already exists"), strings.Contains(reason, "already minted"):
		return domain.ErrTokenAlreadyExists
	case strings.Contains(reason, "nonexistent"), strings.Contains(reason, "does not exist"):
		return domain.ErrTokenNotFound
	case strings.Contains(reason, "royalty"):
		return domain.ErrInvalidRoyalty
	case strings.Contains(reason, "zero address"), strings.Contains(reason, "invalid recipient"):
		return domain.ErrInvalidAddress
	default:
		return nil
	}
}

func revertData(v interface{}) []byte {
	switch data := v.(type) {
	case string:
		decoded, err := hexutil.Decode(data)
		if err != nil {
			return nil
		}
		return decoded
	case []byte:
		return data
	default:
		return nil
	}
}
