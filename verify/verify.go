// Package verify looks up contract source verification status on an
// Etherscan-compatible explorer API.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Client queries the explorer and memoizes answers per (address, chain) for
// the process lifetime. Verification status changes rarely enough that the
// memo never needs invalidation within one run.
type Client struct {
	log    log.Logger
	http   *resty.Client
	apiKey string
	cache  *lru.Cache[string, bool]
}

func NewClient(logger log.Logger, baseURL string, apiKey string) *Client {
	cache, _ := lru.New[string, bool](4096)
	return &Client{
		log:    logger,
		http:   resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
		cache:  cache,
	}
}

// IsVerified reports whether the contract's source is published. An
// "ABI not verified" answer is a negative result, not an error.
func (c *Client) IsVerified(ctx context.Context, addr common.Address, chainID string) (bool, error) {
	key := strings.ToLower(addr.Hex()) + "|" + chainID
	if verified, ok := c.cache.Get(key); ok {
		return verified, nil
	}
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"chainid": chainID,
			"module":  "contract",
			"action":  "getabi",
			"address": addr.Hex(),
			"apikey":  c.apiKey,
		}).
		SetResult(&out).
		Get("/v2/api")
	if err != nil {
		return false, fmt.Errorf("explorer request failed: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("explorer returned status %d", resp.StatusCode())
	}
	verified := out.Status == "1"
	c.cache.Add(key, verified)
	return verified, nil
}
