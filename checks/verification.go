package checks

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// Verifier reports whether a contract's source is verified on a block
// explorer. Implementations may cache; results are advisory.
type Verifier interface {
	IsVerified(ctx context.Context, addr common.Address, chainID string) (bool, error)
}

// VerificationCheck reports the source verification status of the
// proposal's target contracts. Unverified code is suspicious, not
// conclusively dangerous, so it warns.
type VerificationCheck struct {
	log      log.Logger
	verifier Verifier
	chainID  string
}

var _ Check = (*VerificationCheck)(nil)

func NewVerificationCheck(logger log.Logger, verifier Verifier, chainID string) *VerificationCheck {
	return &VerificationCheck{log: logger, verifier: verifier, chainID: chainID}
}

func (c *VerificationCheck) Name() string {
	return "targets-verified"
}

func (c *VerificationCheck) Run(ctx context.Context, input *Input) (*Result, error) {
	addrs := dedupeAddresses(input.Targets)
	verified := make([]bool, len(addrs))
	errs := make([]error, len(addrs))

	var group errgroup.Group
	for i, addr := range addrs {
		group.Go(func() error {
			verified[i], errs[i] = c.verifier.IsVerified(ctx, addr, c.chainID)
			return nil
		})
	}
	_ = group.Wait()

	result := &Result{}
	for i, addr := range addrs {
		switch {
		case errs[i] != nil:
			c.log.Warn("Verification lookup failed", "address", addr, "err", errs[i])
			result.Info = append(result.Info, fmt.Sprintf("%s verification status unknown: %v", addr, errs[i]))
		case verified[i]:
			result.Info = append(result.Info, fmt.Sprintf("%s source code is verified", addr))
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s source code is not verified", addr))
		}
	}
	return result, nil
}
