package checks

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum-optimism/op-seatbelt/bytecode"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// Classification is the per-address verdict of the selfdestruct check.
type Classification string

const (
	ClassEmpty        Classification = "empty"
	ClassEOA          Classification = "eoa"
	ClassTrusted      Classification = "trusted"
	ClassSafe         Classification = "safe"
	ClassDelegatecall Classification = "delegatecall"
	ClassSelfdestruct Classification = "selfdestruct"
)

// EthClient is the RPC surface the classifier needs. *ethclient.Client
// satisfies it.
type EthClient interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
}

type accountState struct {
	code  []byte
	nonce uint64
}

// Classifier resolves an address to a Classification. Code and nonce lookups
// are memoized for the process lifetime; a cold cache produces the same
// classifications as a warm one.
type Classifier struct {
	client  EthClient
	trusted map[common.Address]struct{}
	cache   *lru.Cache[common.Address, accountState]
}

func NewClassifier(client EthClient, trusted []common.Address) *Classifier {
	trustedSet := make(map[common.Address]struct{}, len(trusted))
	for _, addr := range trusted {
		trustedSet[addr] = struct{}{}
	}
	cache, _ := lru.New[common.Address, accountState](4096)
	return &Classifier{client: client, trusted: trustedSet, cache: cache}
}

// Classify determines what kind of account addr is. Trusted addresses (the
// governor and timelock themselves) are never scanned.
func (c *Classifier) Classify(ctx context.Context, addr common.Address) (Classification, error) {
	if _, ok := c.trusted[addr]; ok {
		return ClassTrusted, nil
	}
	state, err := c.accountState(ctx, addr)
	if err != nil {
		return "", err
	}
	if len(state.code) == 0 {
		if state.nonce == 0 {
			return ClassEmpty, nil
		}
		return ClassEOA, nil
	}
	switch bytecode.Scan(state.code) {
	case bytecode.Selfdestruct:
		return ClassSelfdestruct, nil
	case bytecode.Delegatecall:
		return ClassDelegatecall, nil
	default:
		return ClassSafe, nil
	}
}

func (c *Classifier) accountState(ctx context.Context, addr common.Address) (accountState, error) {
	if state, ok := c.cache.Get(addr); ok {
		return state, nil
	}
	var state accountState
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		code, err := c.client.CodeAt(ctx, addr, nil)
		if err != nil {
			return fmt.Errorf("getCode %s: %w", addr, err)
		}
		state.code = code
		return nil
	})
	group.Go(func() error {
		nonce, err := c.client.NonceAt(ctx, addr, nil)
		if err != nil {
			return fmt.Errorf("getTransactionCount %s: %w", addr, err)
		}
		state.nonce = nonce
		return nil
	})
	if err := group.Wait(); err != nil {
		return accountState{}, err
	}
	c.cache.Add(addr, state)
	return state, nil
}
