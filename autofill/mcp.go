package autofill

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/jobfill/kit"
)

// RegisterMCP registers the autofill tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	empty := kit.InputSchema(map[string]any{}, nil)
	noArgs := kit.DecodeJSON[struct{}]()

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "autofill_trigger",
		Description: "Run autofill on the current page. Returns the run report with per-field outcomes.",
		InputSchema: empty,
	}, s.endpoint("trigger", s.trigger), noArgs)

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "autofill_status",
		Description: "Current run phase and the report of the last run.",
		InputSchema: empty,
	}, s.endpoint("status", s.status), noArgs)

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "autofill_describe_fields",
		Description: "List the fillable fields on the current page with their attributes, question text and resolved slot. Fills nothing.",
		InputSchema: empty,
	}, s.endpoint("describe_fields", s.fields), noArgs)

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "autofill_questions",
		Description: "Extracted question text of every field on the current page and the heuristic that found it.",
		InputSchema: empty,
	}, s.endpoint("questions", s.questions), noArgs)

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "autofill_profile",
		Description: "The profile a run would use now, with the value of every slot.",
		InputSchema: empty,
	}, s.endpoint("profile", s.profile), noArgs)

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "autofill_runs",
		Description: "Persisted run reports, newest first.",
		InputSchema: kit.InputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max reports (default 50)"},
		}, nil),
	}, s.endpoint("runs", s.listRuns), kit.DecodeJSON[runsRequest]())
}
