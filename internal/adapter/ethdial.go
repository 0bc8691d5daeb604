package adapter

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
)

// EthClientDialer dials an RPC endpoint and returns an EthClient
type EthClientDialer interface {
	Dial(ctx context.Context, rawurl string) (EthClient, error)
}

type ethClientDialer struct{}

func NewEthClientDialer() EthClientDialer {
	return &ethClientDialer{}
}

func (ethClientDialer) Dial(ctx context.Context, rawurl string) (EthClient, error) {
	return ethclient.DialContext(ctx, rawurl)
}
