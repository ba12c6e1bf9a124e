package kit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name+"_before")
				resp, err := next(ctx, req)
				order = append(order, name+"_after")
				return resp, err
			}
		}
	}

	base := func(_ context.Context, _ any) (any, error) {
		order = append(order, "endpoint")
		return "ok", nil
	}

	chained := Chain(mw("a"), mw("b"))(base)
	resp, err := chained(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp != "ok" {
		t.Fatalf("response: got %v", resp)
	}

	expected := []string{"a_before", "b_before", "endpoint", "b_after", "a_after"}
	if len(order) != len(expected) {
		t.Fatalf("order length: got %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Fatalf("order[%d]: got %q, want %q", i, order[i], v)
		}
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	errFail := errors.New("fail")
	ep := Logging(nil, "x")(func(context.Context, any) (any, error) { return nil, errFail })
	if _, err := ep(context.Background(), nil); !errors.Is(err, errFail) {
		t.Fatalf("error: got %v, want %v", err, errFail)
	}
}

func TestContext_Transport(t *testing.T) {
	if v := GetTransport(context.Background()); v != "http" {
		t.Fatalf("default transport: got %q", v)
	}
	ctx := WithTransport(context.Background(), "mcp")
	if v := GetTransport(ctx); v != "mcp" {
		t.Fatalf("transport: got %q", v)
	}
}

func TestHTTPHandler_StatusFromError(t *testing.T) {
	ep := func(ctx context.Context, _ any) (any, error) {
		return nil, &HTTPError{Code: http.StatusConflict, Err: errors.New("busy")}
	}
	rec := httptest.NewRecorder()
	HTTPHandler(ep, NoRequest)(rec, httptest.NewRequest("POST", "/x", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "busy" {
		t.Errorf("error body: got %q", body["error"])
	}
}

func TestHTTPHandler_DecodeError(t *testing.T) {
	ep := func(context.Context, any) (any, error) { return "unreachable", nil }
	decode := func(*http.Request) (any, error) { return nil, errors.New("bad limit") }
	rec := httptest.NewRecorder()
	HTTPHandler(ep, decode)(rec, httptest.NewRequest("GET", "/x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

type echoRequest struct {
	Text string `json:"text"`
}

func TestRegisterMCPTool(t *testing.T) {
	impl := &mcp.Implementation{Name: "kit-test", Version: "0.1.0"}
	srv := mcp.NewServer(impl, nil)
	RegisterMCPTool(srv, &mcp.Tool{
		Name:        "echo",
		Description: "Echo text.",
		InputSchema: InputSchema(map[string]any{"text": map[string]any{"type": "string"}}, []string{"text"}),
	}, func(ctx context.Context, req any) (any, error) {
		r := req.(*echoRequest)
		if r.Text == "fail" {
			return nil, errors.New("asked to fail")
		}
		return map[string]string{"text": r.Text, "transport": string(GetTransport(ctx))}, nil
	}, DecodeJSON[echoRequest]())

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()
	session, err := mcp.NewClient(impl, nil).Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	json.Unmarshal([]byte(res.Content[0].(*mcp.TextContent).Text), &got)
	if got["text"] != "hi" || got["transport"] != "mcp" {
		t.Errorf("echo: got %v", got)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "fail"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("endpoint error should be a tool error")
	}
	if msg := res.Content[0].(*mcp.TextContent).Text; !strings.Contains(msg, "echo: asked to fail") {
		t.Errorf("tool error: got %q", msg)
	}
}
