package chain

import (
	"context"
	"strings"
	"testing"
	"time"
)

// HTTP endpoints are dialed lazily, so no server needs to be listening.
func newLocalClient(t *testing.T) *RPCClient {
	t.Helper()
	c, err := NewRPCClient("http://127.0.0.1:8545", nil, 4, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return c
}

func TestMultiClientRoutesByActiveChain(t *testing.T) {
	multi := NewMultiClient(map[int64]*RPCClient{31612: newLocalClient(t)}, func() int64 { return 31611 })

	_, err := multi.NativeBalance(context.Background(), "0x1111111111111111111111111111111111111111")
	if err == nil || !strings.Contains(err.Error(), "no rpc client for chain 31611") {
		t.Fatalf("err=%v, want missing-chain routing error", err)
	}
}

func TestWaitForReceiptRoutesByArgument(t *testing.T) {
	// The active selection points at a configured chain; the watch must
	// still follow its own chain id.
	multi := NewMultiClient(map[int64]*RPCClient{31612: newLocalClient(t)}, func() int64 { return 31612 })

	_, err := multi.WaitForReceipt(context.Background(), "0xhash1", 31611)
	if err == nil || !strings.Contains(err.Error(), "no rpc client for chain 31611") {
		t.Fatalf("err=%v, want routing by submission chain id", err)
	}
}

func TestSubmitTransferRoutesByArgument(t *testing.T) {
	multi := NewMultiClient(map[int64]*RPCClient{31612: newLocalClient(t)}, func() int64 { return 31612 })

	_, err := multi.SubmitTransfer(context.Background(), "0x1111111111111111111111111111111111111111", nil, 31611)
	if err == nil || !strings.Contains(err.Error(), "no rpc client for chain 31611") {
		t.Fatalf("err=%v, want routing by submission chain id", err)
	}
}
