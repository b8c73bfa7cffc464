// Package config holds the analysis tool's configuration: chain endpoints,
// bridge entry points and the trusted governance contracts.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ethereum-optimism/op-seatbelt/bridge"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
)

// DefaultPlaceholderSender is the synthetic sender used when simulating a
// proposal that has not been submitted on chain, and the address whose
// lone empty-account warning the selfdestruct check suppresses.
var DefaultPlaceholderSender = common.HexToAddress("0x00000000000000000000000000000000000badd1")

type Config struct {
	// L1ChainID is the decimal chain ID proposals execute on.
	L1ChainID string `toml:"l1-chain-id"`
	// RPCURL is the L1 execution client endpoint for code/nonce lookups.
	RPCURL string `toml:"rpc-url"`

	BackendURL string `toml:"backend-url"`
	BackendKey string `toml:"backend-key"`
	// SupportedChains are the chain IDs the simulation backend can run
	// against. Destinations outside this set are reported as skipped.
	SupportedChains []string `toml:"supported-chains"`

	// ArbitrumInbox is the L1 delayed inbox; ArbitrumChainID its L2.
	ArbitrumInbox   string `toml:"arbitrum-inbox"`
	ArbitrumChainID string `toml:"arbitrum-chain-id"`
	// OptimismMessengers maps destination chain IDs to the
	// L1CrossDomainMessenger serving them.
	OptimismMessengers map[string]string `toml:"optimism-messengers"`

	// TrustedAddresses (governor, timelock) are never bytecode-scanned.
	TrustedAddresses []string `toml:"trusted-addresses"`
	// PlaceholderSender overrides DefaultPlaceholderSender.
	PlaceholderSender string `toml:"placeholder-sender"`
}

// Default is the mainnet configuration.
func Default() *Config {
	messengers := make(map[string]string, len(bridge.DefaultMessengers))
	for chainID, addr := range bridge.DefaultMessengers {
		messengers[chainID] = addr.Hex()
	}
	return &Config{
		L1ChainID:          "1",
		SupportedChains:    []string{"1", "10", "8453", "42161"},
		ArbitrumInbox:      bridge.ArbitrumOneInbox.Hex(),
		ArbitrumChainID:    bridge.ArbitrumOneChainID,
		OptimismMessengers: messengers,
		PlaceholderSender:  DefaultPlaceholderSender.Hex(),
	}
}

// Load reads a TOML file over the defaults. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Check validates the configuration, reporting every problem at once.
func (c *Config) Check() error {
	var result error
	if c.L1ChainID == "" {
		result = multierror.Append(result, fmt.Errorf("missing l1-chain-id"))
	}
	if !common.IsHexAddress(c.ArbitrumInbox) {
		result = multierror.Append(result, fmt.Errorf("invalid arbitrum-inbox %q", c.ArbitrumInbox))
	}
	if c.ArbitrumChainID == "" {
		result = multierror.Append(result, fmt.Errorf("missing arbitrum-chain-id"))
	}
	for chainID, addr := range c.OptimismMessengers {
		if chainID == "" || !common.IsHexAddress(addr) {
			result = multierror.Append(result, fmt.Errorf("invalid optimism messenger %q -> %q", chainID, addr))
		}
	}
	for _, addr := range c.TrustedAddresses {
		if !common.IsHexAddress(addr) {
			result = multierror.Append(result, fmt.Errorf("invalid trusted address %q", addr))
		}
	}
	if c.PlaceholderSender != "" && !common.IsHexAddress(c.PlaceholderSender) {
		result = multierror.Append(result, fmt.Errorf("invalid placeholder-sender %q", c.PlaceholderSender))
	}
	return result
}

func (c *Config) ArbitrumInboxAddress() common.Address {
	return common.HexToAddress(c.ArbitrumInbox)
}

func (c *Config) Messengers() map[string]common.Address {
	out := make(map[string]common.Address, len(c.OptimismMessengers))
	for chainID, addr := range c.OptimismMessengers {
		out[chainID] = common.HexToAddress(addr)
	}
	return out
}

func (c *Config) Trusted() []common.Address {
	out := make([]common.Address, 0, len(c.TrustedAddresses))
	for _, addr := range c.TrustedAddresses {
		out = append(out, common.HexToAddress(addr))
	}
	return out
}

func (c *Config) Placeholder() common.Address {
	if c.PlaceholderSender == "" {
		return DefaultPlaceholderSender
	}
	return common.HexToAddress(c.PlaceholderSender)
}
