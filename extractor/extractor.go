// Package extractor holds what the preference extractors share: the
// requirement schema handed to models, the system prompt, and lenient
// decoding of model output into a Requirement.
package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealplanner"
	"mealplanner/recipes"
)

// ToolName is the name of the structured-output tool models are asked to call.
const ToolName = "record_requirement"

const SystemPrompt = `You extract meal planning requirements from a user's request.

Return exactly one JSON object with these fields:
- num_recipes: how many dinners to plan (integer, at least 1). Omit if the user did not say.
- dietary_tags: dietary restrictions mentioned, lowercase, from: vegetarian, vegan, gluten-free, low-carb. Empty list if none.
- budget: total budget in dollars (number). Omit if the user did not say.

Do not add any other fields, explanations, or markdown.`

// RequirementSchema describes the object models must produce.
func RequirementSchema() *jsonschema.Schema {
	one := 1.0
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"num_recipes": {
				Type:        "integer",
				Description: "Number of dinners to plan",
				Minimum:     &one,
			},
			"dietary_tags": {
				Type:        "array",
				Description: "Dietary restrictions such as vegetarian, vegan, gluten-free, low-carb",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"budget": {
				Type:        "number",
				Description: "Total budget in dollars",
				Minimum:     &zero,
			},
		},
		Required: []string{"dietary_tags"},
	}
}

// count accepts 3, 3.0 or "3".
type count int

func (c *count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("num_recipes: %w", err)
	}
	if math.IsNaN(f) || math.Abs(f) >= 0x1p63 || f != math.Trunc(f) {
		return fmt.Errorf("num_recipes: %v is not a whole number in range", f)
	}
	*c = count(f)
	return nil
}

type payload struct {
	NumRecipes  *count         `json:"num_recipes"`
	DietaryTags []string       `json:"dietary_tags"`
	Budget      *recipes.Price `json:"budget"`
}

// Decode turns a JSON object into a Requirement, applying defaults for
// missing fields. Errors wrap mealplanner.ErrExtractionFailed.
func Decode(data []byte) (mealplanner.Requirement, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return mealplanner.Requirement{}, Failed(fmt.Errorf("failed to decode requirement: %w", err))
	}

	req := mealplanner.DefaultRequirement()
	if p.NumRecipes != nil {
		req.NumRecipes = int(*p.NumRecipes)
	}
	if p.Budget != nil {
		req.Budget = *p.Budget
	}
	req.DietaryTags = NormalizeTags(p.DietaryTags)

	if err := req.Validate(); err != nil {
		return mealplanner.Requirement{}, Failed(err)
	}
	return req, nil
}

// DecodeText finds the first JSON object in free text and decodes it.
func DecodeText(text string) (mealplanner.Requirement, error) {
	obj, ok := FirstJSONObject(text)
	if !ok {
		return mealplanner.Requirement{}, Failed(fmt.Errorf("no JSON object in model output"))
	}
	return Decode([]byte(obj))
}

// NormalizeTags lowercases, trims and dedupes tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Failed wraps err as an extraction failure.
func Failed(err error) error {
	return fmt.Errorf("%w: %w", mealplanner.ErrExtractionFailed, err)
}

// FirstJSONObject returns the first balanced {...} in s, skipping braces
// inside strings.
func FirstJSONObject(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		start := strings.IndexByte(s[i:], '{')
		if start == -1 {
			return "", false
		}
		start += i

		depth := 0
		inString := false
		escaped := false
		for end := start; end < len(s); end++ {
			char := s[end]
			if escaped {
				escaped = false
				continue
			}
			if char == '\\' && inString {
				escaped = true
				continue
			}
			if char == '"' {
				inString = !inString
			} else if !inString {
				if char == '{' {
					depth++
				} else if char == '}' {
					depth--
					if depth == 0 {
						candidate := s[start : end+1]
						if json.Valid([]byte(candidate)) {
							return candidate, true
						}
						break
					}
				}
			}
		}
		i = start
	}
	return "", false
}
