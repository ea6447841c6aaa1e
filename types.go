package mealplanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"mealplanner/recipes"
)

// ErrExtractionFailed marks a failure of the preference extractor, including
// an expired deadline or output that could not be decoded.
var ErrExtractionFailed = errors.New("preference extraction failed")

const (
	DefaultNumRecipes = 5
)

// DefaultBudget is applied when a request names no budget.
var DefaultBudget = recipes.Dollars(50)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type SlackClient interface {
	PostMessage(ctx context.Context, channel string, message string) error
}

// PreferenceExtractor turns a free-form request into a Requirement. Failures
// must wrap ErrExtractionFailed.
type PreferenceExtractor interface {
	Extract(ctx context.Context, text string) (Requirement, error)
}

// Requirement is the structured form of a planning request.
type Requirement struct {
	NumRecipes  int           `json:"num_recipes"`
	DietaryTags []string      `json:"dietary_tags"`
	Budget      recipes.Price `json:"budget"`
}

// DefaultRequirement is five recipes, no restrictions, $50.
func DefaultRequirement() Requirement {
	return Requirement{
		NumRecipes:  DefaultNumRecipes,
		DietaryTags: []string{},
		Budget:      DefaultBudget,
	}
}

// Validate checks the bounds a requirement must satisfy before selection.
func (r Requirement) Validate() error {
	if r.NumRecipes < 1 {
		return fmt.Errorf("num_recipes must be at least 1, got %d", r.NumRecipes)
	}
	if r.Budget < 0 {
		return fmt.Errorf("budget must not be negative, got %s", r.Budget)
	}
	return nil
}

// HasTag reports whether tag is among the dietary tags.
func (r Requirement) HasTag(tag string) bool {
	return slices.Contains(r.DietaryTags, tag)
}

type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a planning conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
