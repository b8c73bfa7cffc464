package checks

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// SelfdestructCheck classifies a candidate address set and reports reachable
// SELFDESTRUCT as an error, DELEGATECALL and empty accounts as warnings.
type SelfdestructCheck struct {
	log         log.Logger
	classifier  *Classifier
	placeholder common.Address
	name        string
	candidates  func(*Input) []common.Address
}

var _ Check = (*SelfdestructCheck)(nil)

// NewTargetsSelfdestructCheck scans the proposal's declared targets.
func NewTargetsSelfdestructCheck(logger log.Logger, classifier *Classifier, placeholder common.Address) *SelfdestructCheck {
	return &SelfdestructCheck{
		log:         logger,
		classifier:  classifier,
		placeholder: placeholder,
		name:        "targets-no-selfdestruct",
		candidates:  func(in *Input) []common.Address { return in.Targets },
	}
}

// NewTouchedSelfdestructCheck scans every contract the simulation touched.
func NewTouchedSelfdestructCheck(logger log.Logger, classifier *Classifier, placeholder common.Address) *SelfdestructCheck {
	return &SelfdestructCheck{
		log:         logger,
		classifier:  classifier,
		placeholder: placeholder,
		name:        "touched-contracts-no-selfdestruct",
		candidates:  func(in *Input) []common.Address { return in.TouchedAddresses() },
	}
}

func (c *SelfdestructCheck) Name() string {
	return c.name
}

type addressedLine struct {
	addr common.Address
	line string
}

func (c *SelfdestructCheck) Run(ctx context.Context, input *Input) (*Result, error) {
	addrs := dedupeAddresses(c.candidates(input))
	classes := make([]Classification, len(addrs))
	errs := make([]error, len(addrs))

	var group errgroup.Group
	for i, addr := range addrs {
		group.Go(func() error {
			classes[i], errs[i] = c.classifier.Classify(ctx, addr)
			return nil
		})
	}
	_ = group.Wait()

	result := &Result{}
	var warnings []addressedLine
	for i, addr := range addrs {
		if errs[i] != nil {
			// Lookup failures reduce completeness, they are not findings.
			c.log.Warn("Could not classify address", "address", addr, "err", errs[i])
			result.Info = append(result.Info, fmt.Sprintf("%s could not be classified: %v", addr, errs[i]))
			continue
		}
		switch classes[i] {
		case ClassTrusted:
			result.Info = append(result.Info, fmt.Sprintf("%s is a trusted contract, not scanned", addr))
		case ClassSafe:
			result.Info = append(result.Info, fmt.Sprintf("%s contains no reachable SELFDESTRUCT or DELEGATECALL", addr))
		case ClassEOA:
			result.Info = append(result.Info, fmt.Sprintf("%s is an externally owned account", addr))
		case ClassEmpty:
			result.Info = append(result.Info, fmt.Sprintf("%s is an empty account", addr))
			warnings = append(warnings, addressedLine{addr, fmt.Sprintf("%s has no code, but code can be deployed to it later", addr)})
		case ClassDelegatecall:
			result.Info = append(result.Info, fmt.Sprintf("%s contains a reachable DELEGATECALL", addr))
			warnings = append(warnings, addressedLine{addr, fmt.Sprintf("%s contains a reachable DELEGATECALL: its logic can be swapped out", addr)})
		case ClassSelfdestruct:
			result.Errors = append(result.Errors, fmt.Sprintf("%s contains a reachable SELFDESTRUCT", addr))
		}
	}

	for _, w := range suppressPlaceholder(warnings, c.placeholder) {
		result.Warnings = append(result.Warnings, w.line)
	}
	return result, nil
}

// suppressPlaceholder removes warnings attributed to the synthetic
// simulation sender, but only when no other address warned: every dry run of
// a not-yet-proposed transaction would otherwise warn about its own
// placeholder caller being an empty account. The match is address-exact so a
// different empty account is never hidden, and when any real warning exists
// the placeholder's warnings stay visible alongside it.
func suppressPlaceholder(warnings []addressedLine, placeholder common.Address) []addressedLine {
	onlyPlaceholder := len(warnings) > 0
	for _, w := range warnings {
		if w.addr != placeholder {
			onlyPlaceholder = false
			break
		}
	}
	if onlyPlaceholder {
		return nil
	}
	return warnings
}

func dedupeAddresses(addrs []common.Address) []common.Address {
	seen := make(map[common.Address]struct{}, len(addrs))
	var out []common.Address
	for _, addr := range addrs {
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
