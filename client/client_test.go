package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	return New(Options{Host: host, Port: port, Username: "u", Password: "p", Timeout: time.Second})
}

func decodeRequest(t *testing.T, r *http.Request) rpcRequest {
	t.Helper()
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Errorf("decode request: %v", err)
	}
	return req
}

func TestAliasInfo(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "u" || pass != "p" {
			t.Errorf("missing basic auth")
		}
		req := decodeRequest(t, r)
		if req.Method != "aliasinfo" || len(req.Params) != 1 || req.Params[0] != "myalias" {
			t.Errorf("unexpected request %+v", req)
		}
		w.Write([]byte(`{"result":{"_id":"myalias","address":"SaddrXYZ","expired":false},"error":null,"id":1}`))
	})

	info, err := cl.AliasInfo(context.Background(), "myalias")
	if err != nil {
		t.Fatalf("AliasInfo failed: %v", err)
	}
	if info.Address != "SaddrXYZ" || info.Name != "myalias" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestAliasInfoRPCError(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"result":null,"error":{"code":-4,"message":"Failed to read from alias DB"},"id":1}`))
	})

	_, err := cl.AliasInfo(context.Background(), "missing")
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %v", err)
	}
	if rpcErr.Code != -4 {
		t.Fatalf("unexpected code %d", rpcErr.Code)
	}
}

func TestCallTransportError(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := cl.AliasInfo(context.Background(), "myalias")
	if err == nil {
		t.Fatalf("expected error")
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		t.Fatalf("auth failure must not look like an rpc error")
	}
}

func TestCallContextDeadline(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"result":{},"error":null}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := cl.AliasInfo(ctx, "myalias")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGetInfoCached(t *testing.T) {
	var hits atomic.Int32
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		req := decodeRequest(t, r)
		if req.Method != "getinfo" {
			t.Errorf("unexpected method %s", req.Method)
		}
		w.Write([]byte(`{"result":{"version":3040400,"blocks":12},"error":null}`))
	})

	for i := 0; i < 3; i++ {
		info, err := cl.GetInfo(context.Background())
		if err != nil {
			t.Fatalf("GetInfo failed: %v", err)
		}
		if info["blocks"] != 12.0 {
			t.Fatalf("unexpected info %v", info)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single upstream call, got %d", hits.Load())
	}
}
