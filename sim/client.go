package sim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/log"
	"github.com/go-resty/resty/v2"
)

// ErrRateLimited is returned once the rate-limit retry budget is exhausted.
var ErrRateLimited = errors.New("simulation backend rate limited")

const (
	// Backoff schedule for rate-limited requests: 1s, 2s, 4s with jitter,
	// then give up. Roughly an 8s cumulative budget.
	retryAttempts     = 4
	retryInitialDelay = time.Second
	retryMaxDelay     = 4 * time.Second
	retryMaxJitter    = 250 * time.Millisecond
)

// Client is an HTTP client for the simulation backend.
type Client struct {
	log       log.Logger
	http      *resty.Client
	supported map[string]struct{}
}

var _ Backend = (*Client)(nil)

// NewClient creates a backend client. supportedChains is the set of chain
// IDs (decimal strings) the backend can simulate against; requests for other
// chains must be gated by the caller via SupportsChain.
func NewClient(logger log.Logger, baseURL string, accessKey string, supportedChains []string) *Client {
	supported := make(map[string]struct{}, len(supportedChains))
	for _, id := range supportedChains {
		supported[id] = struct{}{}
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("X-Access-Key", accessKey).
		SetHeader("Content-Type", "application/json")
	return &Client{
		log:       logger,
		http:      httpClient,
		supported: supported,
	}
}

func (c *Client) SupportsChain(chainID string) bool {
	_, ok := c.supported[chainID]
	return ok
}

// Simulate posts the request to the backend. Rate-limit responses are
// retried with exponential backoff and jitter; other HTTP errors and
// transport failures are surfaced immediately.
func (c *Client) Simulate(ctx context.Context, req *Request) (*Result, error) {
	result, err := retry.DoWithData(
		func() (*Result, error) {
			resp, err := c.http.R().
				SetContext(ctx).
				SetBody(req).
				SetResult(&Result{}).
				Post("/simulate")
			if err != nil {
				return nil, fmt.Errorf("simulation request failed: %w", err)
			}
			if resp.StatusCode() == http.StatusTooManyRequests {
				c.log.Warn("Simulation backend rate limited, backing off", "network", req.NetworkID)
				return nil, ErrRateLimited
			}
			if resp.IsError() {
				return nil, fmt.Errorf("simulation backend returned status %d: %s", resp.StatusCode(), resp.String())
			}
			return resp.Result().(*Result), nil
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryInitialDelay),
		retry.MaxDelay(retryMaxDelay),
		retry.MaxJitter(retryMaxJitter),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrRateLimited) }),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
