// Package mcpserver exposes a recipe catalog over the Model Context Protocol:
// the catalog tools from package tools plus two read-only JSON resources.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mealplanner"
	"mealplanner/recipes"
	"mealplanner/tools"
)

const (
	ServerName    = "recipe-database"
	ServerVersion = "v1.0.0"

	SummaryURI = "recipe://database/summary"
	TagsURI    = "recipe://tags/available"
)

// New builds a server over catalog. The caller connects it to a transport.
func New(catalog *recipes.Catalog) (*mcp.Server, error) {
	registry, err := tools.NewRegistry(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)
	for _, t := range registry.GetTools() {
		server.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		}, toolHandler(t))
	}

	server.AddResource(&mcp.Resource{
		URI:         SummaryURI,
		Name:        "database_summary",
		Description: "Recipe count, tags, average cost and names.",
		MIMEType:    "application/json",
	}, jsonResource(func() any { return catalog.Summary() }))
	server.AddResource(&mcp.Resource{
		URI:         TagsURI,
		Name:        "available_tags",
		Description: "Dietary tags with the number of recipes carrying each.",
		MIMEType:    "application/json",
	}, jsonResource(func() any { return catalog.Tags() }))

	slog.Info("MCP_SERVER: catalog server ready", "recipes", catalog.Len(), "tools", len(registry.GetTools()))
	return server, nil
}

// toolHandler adapts a catalog tool. Tool failures are reported as error
// results carrying an ErrorPayload so the session stays usable.
func toolHandler(t tools.Tool) mcp.ToolHandler {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]any]) (*mcp.CallToolResultFor[any], error) {
		ctx, span := otel.Tracer(mealplanner.TracerNameMCP).Start(ctx, "Tool."+t.Name())
		defer span.End()

		out, err := t.Run(ctx, params.Arguments)
		if err != nil {
			code := tools.ErrorCode(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("mcp.error_code", code))
			slog.Warn("MCP_SERVER: tool call failed", "tool", t.Name(), "code", code, "error", err)
			return errorResult(code, err.Error()), nil
		}

		body, err := json.Marshal(out)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return errorResult(tools.CodeInternal, fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		slog.Debug("MCP_SERVER: tool call", "tool", t.Name(), "bytes", len(body))
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
		}, nil
	}
}

func errorResult(code, message string) *mcp.CallToolResultFor[any] {
	body, _ := json.Marshal(tools.ErrorPayload{Error: code, Message: message})
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}
}

func jsonResource(value func() any) mcp.ResourceHandler {
	return func(_ context.Context, _ *mcp.ServerSession, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error) {
		body, err := json.MarshalIndent(value(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource %s: %w", params.URI, err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      params.URI,
				MIMEType: "application/json",
				Text:     string(body),
			}},
		}, nil
	}
}
