package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sw33tLie/tagscope/pkg/stock"
)

const defaultRetries = 3

// FetchURL downloads a JSON stock collection. Transient failures are retried
// with backoff.
func FetchURL(ctx context.Context, url string, opts Options) ([]stock.Stock, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	if client.RetryMax <= 0 {
		client.RetryMax = defaultRetries
	}
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	stocks, err := ParseJSON(body, opts.JSONPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return stocks, nil
}
