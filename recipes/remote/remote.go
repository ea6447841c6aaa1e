// Package remote reads a recipe catalog served by an MCP server.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mealplanner/recipes"
	"mealplanner/tools"
)

type toolCaller interface {
	CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error)
}

// Catalog implements recipes.Reader by calling the catalog tools of a
// connected MCP server.
type Catalog struct {
	caller  toolCaller
	session *mcp.ClientSession
}

var _ recipes.Reader = (*Catalog)(nil)

// New wraps an existing session or any other tool caller.
func New(caller toolCaller) *Catalog {
	c := &Catalog{caller: caller}
	if s, ok := caller.(*mcp.ClientSession); ok {
		c.session = s
	}
	return c
}

// Connect opens a client session over transport.
func Connect(ctx context.Context, transport mcp.Transport) (*Catalog, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "meal-planner", Version: "v1.0.0"}, nil)
	session, err := client.Connect(ctx, transport)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to recipe server: %w", err)
	}
	return New(session), nil
}

// Spawn starts a recipe server subprocess and talks to it over stdio.
func Spawn(ctx context.Context, command string, args ...string) (*Catalog, error) {
	slog.Info("CATALOG: starting remote recipe server", "command", command, "args", args)
	return Connect(ctx, mcp.NewCommandTransport(exec.CommandContext(ctx, command, args...)))
}

// Close ends the session when Catalog owns one.
func (c *Catalog) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

func (c *Catalog) Get(ctx context.Context, name string) (recipes.Recipe, error) {
	var out tools.DetailsResult
	if err := c.call(ctx, "recipe_details", map[string]any{"recipe_name": name}, &out); err != nil {
		return recipes.Recipe{}, err
	}
	if !out.Found || out.Recipe == nil {
		return recipes.Recipe{}, &recipes.NotFoundError{Name: name, Available: out.Available}
	}
	return *out.Recipe, nil
}

func (c *Catalog) SearchByName(ctx context.Context, query string) ([]recipes.Recipe, error) {
	return c.list(ctx, "recipe_search_by_name", map[string]any{"query": query})
}

func (c *Catalog) FilterByTags(ctx context.Context, tags []string) ([]recipes.Recipe, error) {
	if tags == nil {
		tags = []string{}
	}
	return c.list(ctx, "recipe_filter_by_tags", map[string]any{"tags": tags})
}

func (c *Catalog) SearchByIngredient(ctx context.Context, ingredient string) ([]recipes.Recipe, error) {
	return c.list(ctx, "recipe_search_by_ingredient", map[string]any{"ingredient": ingredient})
}

func (c *Catalog) ByBudget(ctx context.Context, maxCost recipes.Price) ([]recipes.Costed, error) {
	if maxCost < 0 {
		return nil, fmt.Errorf("budget %s is negative: %w", maxCost, recipes.ErrInvalidArgument)
	}
	var out tools.BudgetResult
	if err := c.call(ctx, "recipe_by_budget", map[string]any{"max_budget": maxCost.Float64()}, &out); err != nil {
		return nil, err
	}
	if out.Recipes == nil {
		out.Recipes = []recipes.Costed{}
	}
	return out.Recipes, nil
}

func (c *Catalog) All(ctx context.Context) ([]recipes.Recipe, error) {
	return c.list(ctx, "recipe_list", map[string]any{})
}

func (c *Catalog) list(ctx context.Context, tool string, args map[string]any) ([]recipes.Recipe, error) {
	var out tools.RecipesResult
	if err := c.call(ctx, tool, args, &out); err != nil {
		return nil, err
	}
	if out.Recipes == nil {
		out.Recipes = []recipes.Recipe{}
	}
	return out.Recipes, nil
}

func (c *Catalog) call(ctx context.Context, tool string, args map[string]any, out any) error {
	res, err := c.caller.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", tool, err)
	}

	text := resultText(res)
	if res.IsError {
		return decodeError(tool, text)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", tool, err)
	}
	return nil
}

func resultText(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// decodeError maps an error result back onto the catalog sentinels.
func decodeError(tool, text string) error {
	var payload tools.ErrorPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil || payload.Error == "" {
		return fmt.Errorf("%s failed: %s", tool, text)
	}
	switch payload.Error {
	case tools.CodeInvalidArgument:
		return fmt.Errorf("%s: %s: %w", tool, payload.Message, recipes.ErrInvalidArgument)
	case tools.CodeNotFound:
		return fmt.Errorf("%s: %s: %w", tool, payload.Message, recipes.ErrNotFound)
	default:
		return errors.New(tool + ": " + payload.Message)
	}
}
