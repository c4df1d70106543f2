// Package explorer fetches reported transaction lists from an
// etherscan-compatible block explorer API.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trungle-dev/ethtribute/internal/ingest/metrics"
)

const defaultPageSize = 10000

// Transaction is one entry of a txlist/txlistinternal response.
type Transaction struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Hash  string `json:"hash"`
}

type listResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Result  []Transaction `json:"result"`
}

// Client talks to an etherscan-alike explorer API.
type Client struct {
	baseURL    string
	apiKey     string
	chainID    uint64
	pageSize   int
	httpClient *http.Client
}

// NewClient creates an explorer client for the given chain.
func NewClient(baseURL, apiKey string, chainID uint64) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		chainID:  chainID,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// TxList returns all regular transactions reported for an address, ascending.
func (c *Client) TxList(ctx context.Context, address string) ([]Transaction, error) {
	return c.fetchAll(ctx, "txlist", address)
}

// TxListInternal returns all internal calls reported for an address, ascending.
func (c *Client) TxListInternal(ctx context.Context, address string) ([]Transaction, error) {
	return c.fetchAll(ctx, "txlistinternal", address)
}

// fetchAll walks pages until a short page. The explorer reports an empty tail
// page as status "0", which only terminates pagination; a non-"1" status on
// the first page fails the whole call.
func (c *Client) fetchAll(ctx context.Context, action, address string) ([]Transaction, error) {
	var all []Transaction
	for page := 1; ; page++ {
		batch, err := c.fetchPage(ctx, action, address, page)
		if err != nil {
			if page > 1 && isEmptyPage(err) {
				break
			}
			metrics.ExplorerCalls.WithLabelValues(action, "error").Inc()
			return nil, err
		}
		metrics.ExplorerCalls.WithLabelValues(action, "ok").Inc()
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			break
		}
	}
	return all, nil
}

// emptyPageError marks a status-"0" response carrying no rows.
type emptyPageError struct{ message string }

func (e *emptyPageError) Error() string {
	return fmt.Sprintf("explorer returned no rows: %s", e.message)
}

func isEmptyPage(err error) bool {
	_, ok := err.(*emptyPageError)
	return ok
}

func (c *Client) fetchPage(ctx context.Context, action, address string, page int) ([]Transaction, error) {
	url := fmt.Sprintf(
		"%s/api?chainid=%d&module=account&action=%s&address=%s&startblock=0&endblock=99999999&page=%d&offset=%d&sort=asc&apikey=%s",
		c.baseURL,
		c.chainID,
		action,
		address,
		page,
		c.pageSize,
		c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s call: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s http %d: %s", action, resp.StatusCode, string(body))
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", action, err)
	}
	if list.Status != "1" {
		if len(list.Result) == 0 {
			return nil, &emptyPageError{message: list.Message}
		}
		return nil, fmt.Errorf("%s failed: status %s: %s", action, list.Status, list.Message)
	}
	return list.Result, nil
}
