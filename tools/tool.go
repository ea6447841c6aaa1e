// Package tools exposes catalog reads as named tools with JSON schemas and
// map-shaped input and output, ready for an MCP server or a model's tool list.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealplanner/recipes"
)

const (
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal"
)

// ErrorCode classifies a tool error for transport.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, recipes.ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, recipes.ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// ErrorPayload is the body of a failed tool call.
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output map[string]any, err error)
}

// toMap converts v to its JSON object form.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool output: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode tool output: %w", err)
	}
	return m, nil
}

func stringArg(input map[string]any, key string) (string, error) {
	v, ok := input[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%s is required: %w", key, recipes.ErrInvalidArgument)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T: %w", key, v, recipes.ErrInvalidArgument)
	}
	return s, nil
}

// stringsArg accepts a list of strings or a single comma separated string.
func stringsArg(input map[string]any, key string) ([]string, error) {
	switch v := input[key].(type) {
	case nil:
		return nil, fmt.Errorf("%s is required: %w", key, recipes.ErrInvalidArgument)
	case string:
		return strings.Split(v, ","), nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must contain strings, got %T: %w", key, item, recipes.ErrInvalidArgument)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a list of strings, got %T: %w", key, v, recipes.ErrInvalidArgument)
	}
}

func priceArg(input map[string]any, key string) (recipes.Price, error) {
	var f float64
	switch v := input[key].(type) {
	case nil:
		return 0, fmt.Errorf("%s is required: %w", key, recipes.ErrInvalidArgument)
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s: %v: %w", key, err, recipes.ErrInvalidArgument)
		}
		f = parsed
	case string:
		p, err := recipes.ParsePrice(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %v: %w", key, err, recipes.ErrInvalidArgument)
		}
		return p, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T: %w", key, v, recipes.ErrInvalidArgument)
	}
	p, err := recipes.FromDollars(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %v: %w", key, err, recipes.ErrInvalidArgument)
	}
	return p, nil
}
