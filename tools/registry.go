package tools

import (
	"fmt"
	"sort"

	"mealplanner/recipes"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a registry with every catalog tool bound to catalog.
func NewRegistry(catalog recipes.Reader) (*Registry, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	registry := Registry{}
	for _, t := range []Tool{
		NewSearchByName(catalog),
		NewFilterByTags(catalog),
		NewDetails(catalog),
		NewList(catalog),
		NewSearchByIngredient(catalog),
		NewByBudget(catalog),
	} {
		registry[t.Name()] = t
	}
	return &registry, nil
}

// GetTools returns all tools sorted by name
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
