package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/config"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/types"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	timeout    = flag.Duration("timeout", 15*time.Second, "RPC timeout")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: wallet-tool [flags] <command>\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  generate           create a new operator key\n")
	fmt.Fprintf(os.Stderr, "  balance [address]  show the native balance of address, or of the configured operator\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	config.ChdirRepoRoot()
	cfg, err := config.LoadWalletToolConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := logger.Initialize(logger.Config{Debug: cfg.Debug}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(time.Second)

	switch flag.Arg(0) {
	case "generate":
		if err := generate(); err != nil {
			logger.Fatal("Failed to generate key", zap.Error(err))
		}
	case "balance":
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		if err := balance(ctx, cfg.Ethereum, flag.Arg(1)); err != nil {
			logger.Fatal("Failed to read balance", zap.Error(err))
		}
	default:
		usage()
		os.Exit(2)
	}
}

func generate() error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	fmt.Printf("Address:     %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Printf("Private key: %s\n", hexutil.Encode(crypto.FromECDSA(key)))
	fmt.Println("Store the private key in ARTIVIO_ETHEREUM_PRIVATE_KEY and fund the address before minting.")
	return nil
}

func balance(ctx context.Context, ethCfg config.EthereumConfig, address string) error {
	if ethCfg.RPCURL == "" {
		return fmt.Errorf("ethereum.rpc_url is required")
	}

	account, err := resolveAccount(ethCfg, address)
	if err != nil {
		return err
	}

	client, err := adapter.NewEthClientDialer().Dial(ctx, ethCfg.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial rpc: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	wei, err := client.BalanceAt(ctx, account, nil)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	fmt.Printf("Network: %s\n", domain.ChainFromID(chainID.Int64()).NetworkName())
	fmt.Printf("Address: %s\n", account.Hex())
	fmt.Printf("Balance: %s (%s wei)\n", ether.Text('f', 6), wei.String())
	return nil
}

// resolveAccount uses the explicit address, falling back to the configured operator key
func resolveAccount(ethCfg config.EthereumConfig, address string) (common.Address, error) {
	if address != "" {
		return types.ParseEthereumAddress(address)
	}

	if ethCfg.PrivateKey == "" {
		return common.Address{}, fmt.Errorf("no address given and ethereum.private_key is not configured")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(ethCfg.PrivateKey, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
