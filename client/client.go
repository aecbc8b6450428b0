package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/totegamma/syscoin-offchain"
)

const (
	defaultTimeout = 5 * time.Second
	nodeInfoTTL    = 10 * time.Second
	userAgent      = "syscoin-offchain/1.0"
)

// syscoind error codes (rpc/protocol.h)
const (
	RPCMiscError           = -1
	RPCWalletError         = -4
	RPCInvalidAddressOrKey = -5
	RPCInvalidParameter    = -8
	RPCInWarmup            = -28
	RPCMethodNotFound      = -32601
)

// RPCError is an error object returned by syscoind itself, as opposed to a
// transport failure.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Client talks JSON-RPC to a syscoind node. It is safe for concurrent use.
type Client struct {
	client   *http.Client
	cache    *cache.Cache
	endpoint string
	username string
	password string
	nextID   atomic.Int64
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := http.Client{
		Timeout: timeout,
	}

	endpoint := "http://" + net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)) + "/"
	slog.Info(
		"Initialize syscoind client",
		slog.String("endpoint", endpoint),
		slog.String("module", "client"),
	)

	c := &Client{
		client:   &httpClient,
		cache:    cache.New(nodeInfoTTL, time.Minute),
		endpoint: endpoint,
		username: opts.Username,
		password: opts.Password,
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return http.DefaultTransport.RoundTrip(req)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Call invokes method and decodes its result into out. Errors reported by the
// node come back as *RPCError; anything else is a transport failure.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "1.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	// syscoind answers rpc level errors with a 500 and a json body
	var rpcResp rpcResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&rpcResp)
	if decodeErr == nil && rpcResp.Error != nil {
		return rpcResp.Error
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %v", decodeErr)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(rpcResp.Result, out)
}

// AliasInfo returns the on-chain record of alias.
func (c *Client) AliasInfo(ctx context.Context, alias string) (offchain.AliasInfo, error) {
	var info offchain.AliasInfo
	err := c.Call(ctx, "aliasinfo", []any{alias}, &info)
	if err != nil {
		return offchain.AliasInfo{}, err
	}
	return info, nil
}

// GetInfo returns the node's getinfo result, cached for a few seconds.
func (c *Client) GetInfo(ctx context.Context) (map[string]any, error) {
	const cacheKey = "getinfo"
	if x, found := c.cache.Get(cacheKey); found {
		return x.(map[string]any), nil
	}

	var info map[string]any
	err := c.Call(ctx, "getinfo", nil, &info)
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, info, cache.DefaultExpiration)
	return info, nil
}
