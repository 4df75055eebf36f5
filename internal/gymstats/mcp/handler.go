package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetGymstatsContextTool returns the MCP tool handler for get_gymstats_context.
func (h *Handler) GetGymstatsContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// UserInput is the input of the per-user tools.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"User id (uuid)"`
}

// GetPersonalRecordsTool returns the MCP tool handler for get_personal_records.
func (h *Handler) GetPersonalRecordsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return errorResult("Invalid user_id: use a uuid"), nil, nil
		}
		records, err := h.service.GetPersonalRecords(ctx, userID)
		if err != nil {
			return errorResult("Error fetching personal records: " + err.Error()), nil, nil
		}
		return jsonResult(records), nil, nil
	}
}

// GetStrengthRanksTool returns the MCP tool handler for get_strength_ranks.
func (h *Handler) GetStrengthRanksTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return errorResult("Invalid user_id: use a uuid"), nil, nil
		}
		ranks, err := h.service.GetStrengthRanks(ctx, userID)
		if err != nil {
			return errorResult("Error fetching strength ranks: " + err.Error()), nil, nil
		}
		return jsonResult(ranks), nil, nil
	}
}
