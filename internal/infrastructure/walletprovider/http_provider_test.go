package walletprovider

import (
	"context"
	"net"
	"testing"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"
	"wallet_connector/internal/pkg/logger"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newTestHTTPProvider(t *testing.T, handler func(req rpcRequest) (any, *rpcError)) *HTTPProvider {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		var req rpcRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		result, rpcErr := handler(req)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		body, _ := json.Marshal(resp)
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	}}
	go func() { _ = srv.Serve(ln) }()

	p, err := NewHTTPProvider(HTTPOptions{
		URL:          "http://wallet.local/rpc",
		PollInterval: time.Hour,
		Dial:         func(string) (net.Conn, error) { return ln.Dial() },
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = p.Close()
		_ = ln.Close()
	})
	return p
}

func TestHTTPProviderRequest(t *testing.T) {
	p := newTestHTTPProvider(t, func(req rpcRequest) (any, *rpcError) {
		switch req.Method {
		case port.MethodChainID:
			return "0xa869", nil
		case port.MethodGetBalance:
			if len(req.Params) != 2 || req.Params[1] != "latest" {
				return nil, &rpcError{Code: -32602, Message: "invalid params"}
			}
			return "0xde0b6b3a7640000", nil
		default:
			return []string{}, nil
		}
	})

	var chainID string
	require.NoError(t, p.Request(context.Background(), port.MethodChainID, nil, &chainID))
	require.Equal(t, "0xa869", chainID)

	var balance string
	require.NoError(t, p.Request(context.Background(), port.MethodGetBalance, []any{"0xabc", "latest"}, &balance))
	require.Equal(t, "0xde0b6b3a7640000", balance)
}

func TestHTTPProviderMapsRPCErrors(t *testing.T) {
	p := newTestHTTPProvider(t, func(req rpcRequest) (any, *rpcError) {
		if req.Method == port.MethodRequestAccounts {
			return nil, &rpcError{Code: entity.CodeUserRejected, Message: "User rejected the request."}
		}
		return []string{}, nil
	})

	var accounts []string
	err := p.Request(context.Background(), port.MethodRequestAccounts, nil, &accounts)
	require.Error(t, err)
	require.Equal(t, entity.KindUserRejected, entity.ClassifyError(err))

	var perr *entity.ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, port.MethodRequestAccounts, perr.Method)
}

func TestHTTPProviderCancelledContext(t *testing.T) {
	p := newTestHTTPProvider(t, func(rpcRequest) (any, *rpcError) { return []string{}, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Request(ctx, port.MethodChainID, nil, new(string))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewHTTPProviderRequiresURL(t *testing.T) {
	_, err := NewHTTPProvider(HTTPOptions{}, logger.NewNop())
	require.Error(t, err)
}
