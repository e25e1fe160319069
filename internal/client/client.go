package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KryptoniteDAO/swap-extention-old/internal/asset"
	"github.com/KryptoniteDAO/swap-extention-old/internal/models"
	"github.com/KryptoniteDAO/swap-extention-old/internal/server"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wallet"
)

// Client talks to the routerd HTTP gateway.
type Client struct {
	BaseURL  string
	APIKey   string
	AdminKey string // sent on mint only
	HTTP     *http.Client

	chainID string
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

// Error prefers the gateway's error message over the raw body.
func (e *HTTPError) Error() string {
	var er server.ErrorResponse
	if err := json.Unmarshal(e.Body, &er); err == nil && er.Error != "" {
		return fmt.Sprintf("routerd http %d: %s", e.StatusCode, er.Error)
	}
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("routerd http %d", e.StatusCode)
	}
	return fmt.Sprintf("routerd http %d: %s", e.StatusCode, b)
}

func (c *Client) Health(ctx context.Context) (*server.HealthResponse, error) {
	var out server.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sequence returns the nonce addr's next execute must carry.
func (c *Client) Sequence(ctx context.Context, addr string) (uint64, error) {
	var out server.SequenceResponse
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(addr)+"/sequence", nil, &out); err != nil {
		return 0, err
	}
	return out.Sequence, nil
}

// Execute marshals msg, signs it with w at the account's current sequence
// and runs it against contract.
func (c *Client) Execute(ctx context.Context, contract string, w *wallet.Wallet, msg any, funds asset.Coins) (*server.ExecuteResponse, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal msg: %w", err)
	}
	if c.chainID == "" {
		h, err := c.Health(ctx)
		if err != nil {
			return nil, err
		}
		c.chainID = h.ChainID
	}
	nonce, err := c.Sequence(ctx, w.Address())
	if err != nil {
		return nil, err
	}

	sig, err := w.SignDoc(wallet.SignDoc{
		ChainID:  c.chainID,
		Contract: contract,
		Nonce:    nonce,
		Msg:      raw,
		Funds:    funds,
	})
	if err != nil {
		return nil, err
	}
	req := server.ExecuteRequest{Sender: w.Address(), Nonce: nonce, Msg: raw, Funds: funds, Signature: sig}

	var out server.ExecuteResponse
	if err := c.do(ctx, http.MethodPost, "/v1/contracts/"+url.PathEscape(contract)+"/execute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query runs a smart query and decodes the contract's answer into out.
func (c *Client) Query(ctx context.Context, contract string, msg, out any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal msg: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/v1/contracts/"+url.PathEscape(contract)+"/query", server.QueryRequest{Msg: raw}, out)
}

func (c *Client) Balance(ctx context.Context, addr, denom string) (asset.Coin, error) {
	var out server.BalanceResponse
	path := "/v1/bank/balances/" + url.PathEscape(addr) + "/" + url.PathEscape(denom)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return asset.Coin{}, err
	}
	return out.Balance, nil
}

func (c *Client) Mint(ctx context.Context, addr string, coins asset.Coins) (*server.ExecuteResponse, error) {
	var out server.ExecuteResponse
	if err := c.do(ctx, http.MethodPost, "/v1/bank/mint", server.MintRequest{Address: addr, Coins: coins}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecentSwaps(ctx context.Context, limit int) ([]*models.SwapEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Items []*models.SwapEvent `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/swaps/recent?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("accept", "application/json")
	if in != nil {
		httpReq.Header.Set("content-type", "application/json")
	}
	if c.APIKey != "" {
		httpReq.Header.Set("x-api-key", c.APIKey)
	}
	if c.AdminKey != "" && path == "/v1/bank/mint" {
		httpReq.Header.Set("x-admin-key", c.AdminKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode, Body: data}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
