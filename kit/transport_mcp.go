package kit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Decoder turns raw tool arguments into an endpoint request.
type Decoder func(*mcp.CallToolRequest) (any, error)

// RegisterMCPTool exposes an Endpoint as an MCP tool. Bad arguments and
// endpoint errors come back as tool errors so the client model can read
// them; only a broken session is a protocol error.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, ep Endpoint, decode Decoder) {
	srv.AddTool(tool, func(ctx context.Context, call *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := decode(call)
		if err != nil {
			return toolError("%s: invalid arguments: %v", tool.Name, err), nil
		}
		resp, err := ep(WithTransport(ctx, TransportMCP), req)
		if err != nil {
			return toolError("%s: %v", tool.Name, err), nil
		}
		text, err := json.Marshal(resp)
		if err != nil {
			return toolError("%s: encode result: %v", tool.Name, err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, nil
	})
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	res := &mcp.CallToolResult{}
	res.SetError(fmt.Errorf(format, args...))
	return res
}

// DecodeJSON returns a Decoder that unmarshals the arguments into a new T.
// Absent arguments decode to the zero T.
func DecodeJSON[T any]() Decoder {
	return func(call *mcp.CallToolRequest) (any, error) {
		r := new(T)
		if args := call.Params.Arguments; len(args) > 0 && string(args) != "null" {
			if err := json.Unmarshal(args, r); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
}

// InputSchema builds an object schema from property schemas.
func InputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
