// Package ledgertest provides an in-memory Ledger for tests.
package ledgertest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/ledger"
)

// Op names a mutating ledger call for failure injection and call counting
type Op string

const (
	OpMintCoA          Op = "mintCoA"
	OpMintRights       Op = "mintRights"
	OpBindLicense      Op = "bindLicense"
	OpRecordProvenance Op = "recordProvenanceNote"
)

type token struct {
	uri         string
	supply      *big.Int
	receiver    common.Address
	royaltyBps  uint16
	licenseCID  string
	provenances []string
}

type pendingTx struct {
	op       Op
	reverted bool
	apply    func()
}

// Fake is a thread-safe in-memory ledger enforcing the contract's preconditions at submission time.
// Effects become visible when the transaction is confirmed.
type Fake struct {
	mu       sync.Mutex
	contract common.Address
	chain    domain.Chain
	tokens   map[string]*token
	// reserved holds ids with a pending mint so that a second mint is rejected before the first confirms
	reserved map[string]struct{}
	pending  map[string]*pendingTx
	calls    map[Op]int
	block    uint64
	nonce    uint64

	submitErrs        map[Op]error
	revertNext        map[Op]bool
	holdConfirmations bool
	readErr           error
}

// New returns an empty fake ledger
func New() *Fake {
	return &Fake{
		contract:   common.HexToAddress("0x00000000000000000000000000000000000A7710"),
		chain:      domain.ChainLocalDev,
		tokens:     make(map[string]*token),
		reserved:   make(map[string]struct{}),
		pending:    make(map[string]*pendingTx),
		calls:      make(map[Op]int),
		submitErrs: make(map[Op]error),
		revertNext: make(map[Op]bool),
		block:      100,
	}
}

// FailSubmission makes every subsequent submission of op fail with err
func (f *Fake) FailSubmission(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.submitErrs, op)
		return
	}
	f.submitErrs[op] = err
}

// RevertNext makes the next submission of op be mined with a failed status
func (f *Fake) RevertNext(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revertNext[op] = true
}

// HoldConfirmations makes WaitConfirmed block until its context is done
func (f *Fake) HoldConfirmations(hold bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdConfirmations = hold
}

// FailReads makes every read call fail with err
func (f *Fake) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// Calls returns how many submissions of op were attempted
func (f *Fake) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// LicenseOf returns the license bound to a token
func (f *Fake) LicenseOf(tokenID *big.Int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[tokenID.String()]; ok {
		return t.licenseCID
	}
	return ""
}

// ProvenanceOf returns the provenance references recorded on a token
func (f *Fake) ProvenanceOf(tokenID *big.Int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[tokenID.String()]; ok {
		return append([]string(nil), t.provenances...)
	}
	return nil
}

// Seed mints a token directly without a transaction
func (f *Fake) Seed(to common.Address, sku *big.Int, kind domain.TokenKind, uri string, supply int64, royaltyBps uint16) *big.Int {
	id, err := domain.EncodeTokenID(sku, kind)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[id.String()] = &token{uri: uri, supply: big.NewInt(supply), receiver: to, royaltyBps: royaltyBps}
	return id
}

func (f *Fake) MintCoA(ctx context.Context, to common.Address, sku *big.Int, tokenURI string, royaltyBps uint16) (*ledger.Submission, error) {
	return f.mint(OpMintCoA, to, sku, domain.KindCoA, tokenURI, big.NewInt(1), royaltyBps)
}

func (f *Fake) MintRights(ctx context.Context, to common.Address, sku *big.Int, tokenURI string, amount *big.Int, royaltyBps uint16) (*ledger.Submission, error) {
	if amount == nil || amount.Sign() <= 0 {
		f.mu.Lock()
		f.calls[OpMintRights]++
		f.mu.Unlock()
		return nil, domain.ErrInvalidAmount
	}
	return f.mint(OpMintRights, to, sku, domain.KindRights, tokenURI, amount, royaltyBps)
}

func (f *Fake) mint(op Op, to common.Address, sku *big.Int, kind domain.TokenKind, uri string, amount *big.Int, royaltyBps uint16) (*ledger.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++

	if err := f.submitErrs[op]; err != nil {
		return nil, err
	}
	if to == (common.Address{}) {
		return nil, domain.ErrInvalidAddress
	}
	if royaltyBps > domain.MAX_ROYALTY_BPS {
		return nil, domain.ErrInvalidRoyalty
	}
	id, err := domain.EncodeTokenID(sku, kind)
	if err != nil {
		return nil, err
	}
	key := id.String()
	if _, ok := f.tokens[key]; ok {
		return nil, domain.ErrTokenAlreadyExists
	}
	if _, ok := f.reserved[key]; ok {
		return nil, domain.ErrTokenAlreadyExists
	}

	reverted := f.revertNext[op]
	delete(f.revertNext, op)
	if !reverted {
		f.reserved[key] = struct{}{}
	}

	supply := new(big.Int).Set(amount)
	return f.submit(op, reverted, func() {
		delete(f.reserved, key)
		f.tokens[key] = &token{uri: uri, supply: supply, receiver: to, royaltyBps: royaltyBps}
	}), nil
}

func (f *Fake) BindLicense(ctx context.Context, tokenID *big.Int, licenseCID string) (*ledger.Submission, error) {
	return f.update(OpBindLicense, tokenID, func(t *token) { t.licenseCID = licenseCID })
}

func (f *Fake) RecordProvenanceNote(ctx context.Context, tokenID *big.Int, ref string) (*ledger.Submission, error) {
	return f.update(OpRecordProvenance, tokenID, func(t *token) { t.provenances = append(t.provenances, ref) })
}

func (f *Fake) update(op Op, tokenID *big.Int, apply func(*token)) (*ledger.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++

	if err := f.submitErrs[op]; err != nil {
		return nil, err
	}
	key := tokenID.String()
	if _, ok := f.tokens[key]; !ok {
		return nil, domain.ErrTokenNotFound
	}

	reverted := f.revertNext[op]
	delete(f.revertNext, op)
	return f.submit(op, reverted, func() {
		if t, ok := f.tokens[key]; ok {
			apply(t)
		}
	}), nil
}

// submit must be called with f.mu held
func (f *Fake) submit(op Op, reverted bool, apply func()) *ledger.Submission {
	f.nonce++
	hash := crypto.Keccak256Hash([]byte(fmt.Sprintf("%s:%d", op, f.nonce))).Hex()
	f.pending[hash] = &pendingTx{op: op, reverted: reverted, apply: apply}
	return &ledger.Submission{TxHash: hash, Nonce: f.nonce}
}

func (f *Fake) WaitConfirmed(ctx context.Context, sub *ledger.Submission) (*ledger.Receipt, error) {
	f.mu.Lock()
	hold := f.holdConfirmations
	f.mu.Unlock()
	if hold {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.pending[sub.TxHash]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", sub.TxHash)
	}
	delete(f.pending, sub.TxHash)
	f.block++

	receipt := &ledger.Receipt{TxHash: sub.TxHash, BlockNumber: f.block, Success: !tx.reverted}
	if tx.reverted {
		return receipt, domain.ErrTransactionReverted
	}
	tx.apply()
	return receipt, nil
}

func (f *Fake) URI(ctx context.Context, tokenID *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", f.readErr
	}
	t, ok := f.tokens[tokenID.String()]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return t.uri, nil
}

func (f *Fake) Exists(ctx context.Context, tokenID *big.Int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return false, f.readErr
	}
	_, ok := f.tokens[tokenID.String()]
	return ok, nil
}

func (f *Fake) TotalSupply(ctx context.Context, tokenID *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	t, ok := f.tokens[tokenID.String()]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(t.supply), nil
}

func (f *Fake) RoyaltyInfo(ctx context.Context, tokenID *big.Int, salePrice *big.Int) (*ledger.RoyaltyInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	t, ok := f.tokens[tokenID.String()]
	if !ok {
		return &ledger.RoyaltyInfo{Amount: big.NewInt(0)}, nil
	}
	amount := new(big.Int).Mul(salePrice, big.NewInt(int64(t.royaltyBps)))
	amount.Div(amount, big.NewInt(domain.MAX_ROYALTY_BPS))
	return &ledger.RoyaltyInfo{Receiver: t.receiver, Amount: amount}, nil
}

func (f *Fake) ContractAddress() common.Address {
	return f.contract
}

func (f *Fake) Chain() domain.Chain {
	return f.chain
}

var _ ledger.Ledger = (*Fake)(nil)
