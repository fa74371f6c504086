package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/content-planner/pkg/planner"
)

// Handler exposes planner operations as MCP tools
type Handler struct {
	service planner.Service
	logger  *slog.Logger
}

// NewHandler creates a new MCP tool handler
func NewHandler(service planner.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterTools registers the tools that never touch stored items
func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "generate_content",
		Description: "Generate a title, description, hashtags and pinned comment for a content idea",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"title":    map[string]any{"type": "string", "description": "Working title of the content"},
				"platform": map[string]any{"type": "string", "enum": platformNames()},
				"notes":    map[string]any{"type": "string", "description": "Free-form notes"},
				"tags":     map[string]any{"type": "string", "description": "Comma separated tags"},
			},
			Required: []string{"title", "platform"},
		},
	}, h.handleGenerateContent)
}

// RegisterUserTools registers the tools that read a user's stored items.
// They take user_id as a plain argument, so only register them on a
// transport whose client is already trusted, such as stdio.
func (h *Handler) RegisterUserTools(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "list_items",
		Description: "List a user's planned content items, optionally filtered by platform and status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"user_id":  map[string]any{"type": "string", "description": "Owner UUID"},
				"platform": map[string]any{"type": "string"},
				"status":   map[string]any{"type": "string"},
			},
			Required: []string{"user_id"},
		},
	}, h.handleListItems)
}

func (h *Handler) handleGenerateContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	platform, err := planner.ParsePlatform(stringArg(args, "platform"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item := planner.ContentItem{
		Title:    stringArg(args, "title"),
		Platform: platform,
	}
	if notes := stringArg(args, "notes"); notes != "" {
		item.Notes = planner.StringPtr(notes)
	}
	if tags := stringArg(args, "tags"); tags != "" {
		item.Tags = planner.StringPtr(tags)
	}

	generated, err := h.service.GenerateFor(ctx, item)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(generated)
}

func (h *Handler) handleListItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	userID, err := uuid.Parse(stringArg(args, "user_id"))
	if err != nil {
		return mcp.NewToolResultError("user_id must be a UUID"), nil
	}

	var filter planner.ItemFilter
	if raw := stringArg(args, "platform"); raw != "" {
		platform, err := planner.ParsePlatform(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter.Platform = &platform
	}
	if raw := stringArg(args, "status"); raw != "" {
		status, err := planner.ParseStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter.Status = &status
	}

	items, err := h.service.ListItems(ctx, planner.ListItemsRequest{UserID: userID, Filter: filter})
	if err != nil {
		h.logger.ErrorContext(ctx, "list_items failed", "user_id", userID, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if items == nil {
		items = []*planner.ContentItem{}
	}
	return jsonResult(items)
}

func stringArg(args map[string]any, name string) string {
	if v, ok := args[name]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func platformNames() []string {
	names := make([]string, 0, len(planner.Platforms()))
	for _, p := range planner.Platforms() {
		names = append(names, string(p))
	}
	return names
}
