package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler func(method string, params []json.RawMessage) (any, *rpcError)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": 1}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestClient_LatestCheckpoint(t *testing.T) {
	client := newTestClient(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "sui_getLatestCheckpointSequenceNumber", method)
		return "123456", nil
	})

	seq, err := client.LatestCheckpoint(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, uint64(123456), seq)
}

func TestClient_TransactionStatus_Finalized(t *testing.T) {
	client := newTestClient(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		return map[string]any{
			"digest":     "Digest1",
			"effects":    map[string]any{"status": map[string]any{"status": "success"}},
			"checkpoint": "99",
		}, nil
	})

	status, err := client.TransactionStatus(context.Background(), "Digest1")

	assert.NoError(t, err)
	assert.Equal(t, StatusFinalized, status)
}

func TestClient_TransactionStatus_NotFound(t *testing.T) {
	client := newTestClient(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32602, Message: "Could not find the referenced transaction"}
	})

	status, err := client.TransactionStatus(context.Background(), "UnknownDigest")

	assert.NoError(t, err)
	assert.Equal(t, StatusUnconfirmed, status)
}

func TestClient_TransactionStatus_ExecutionFailure(t *testing.T) {
	client := newTestClient(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		return map[string]any{
			"digest":  "Digest1",
			"effects": map[string]any{"status": map[string]any{"status": "failure", "error": "InsufficientGas"}},
		}, nil
	})

	status, err := client.TransactionStatus(context.Background(), "Digest1")

	assert.NoError(t, err)
	assert.Equal(t, StatusError, status)
}

func TestClient_Transaction_RebuildsTransferFromBalanceChanges(t *testing.T) {
	client := newTestClient(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "sui_getTransactionBlock", method)
		return map[string]any{
			"digest": "Digest1",
			"transaction": map[string]any{
				"data": map[string]any{"sender": "0xsender"},
			},
			"effects": map[string]any{"status": map[string]any{"status": "success"}},
			"balanceChanges": []map[string]any{
				{
					"owner":    map[string]any{"AddressOwner": "0xsender"},
					"coinType": "0x2::sui::SUI",
					"amount":   "-2000050000",
				},
				{
					"owner":    map[string]any{"AddressOwner": "0xrecipient"},
					"coinType": "0x2::sui::SUI",
					"amount":   "2000000000",
				},
			},
			"checkpoint": "99",
		}, nil
	})

	result, err := client.Transaction(context.Background(), "Digest1")

	assert.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Equal(t, "0xsender", result.Sender)
	assert.Equal(t, "0xrecipient", result.Recipient)
	assert.Equal(t, 2.0, result.AmountDelta)
}

func TestClient_SubmitTransfer(t *testing.T) {
	client := newTestClient(t, func(method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "sui_executeTransactionBlock", method)
		return map[string]any{"digest": "NewDigest"}, nil
	})

	digest, err := client.SubmitTransfer(context.Background(), "dHhieXRlcw==", "c2lnbmF0dXJl")

	assert.NoError(t, err)
	assert.Equal(t, "NewDigest", digest)
}

func TestClient_RPCError(t *testing.T) {
	client := newTestClient(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "node overloaded"}
	})

	_, err := client.LatestCheckpoint(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "node overloaded")
}
