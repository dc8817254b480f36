package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client pulls a rate table from the upstream provider. One bounded request
// per call; the caller decides when to run again, there is no retry loop.
type Client struct {
	baseURL string
	path    string
	client  *http.Client
}

func NewClient(baseURL, path string, timeoutMs int) *Client {
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}
	return &Client{
		baseURL: baseURL,
		path:    path,
		client:  &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
	}
}

type providerResponse struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// FetchLatest returns quote->rate for the given base currency.
func (c *Client) FetchLatest(ctx context.Context, base string) (map[string]float64, error) {
	url := c.baseURL + c.path + "/" + base
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, fmt.Errorf("provider base=%s status=%d", base, res.StatusCode)
	}

	var pr providerResponse
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return nil, err
	}
	if pr.Result != "success" || len(pr.Rates) == 0 {
		return nil, fmt.Errorf("provider base=%s result=%q rates=%d", base, pr.Result, len(pr.Rates))
	}
	return pr.Rates, nil
}
