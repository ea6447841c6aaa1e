package planner

import (
	"github.com/google/uuid"

	"mealplanner"
	"mealplanner/recipes"
)

// State is the data threaded through one planning session. Only the workflow
// that created it mutates it.
type State struct {
	SessionID            string                  `json:"session_id"`
	Stage                Stage                   `json:"stage"`
	Step                 int                     `json:"step"`
	Conversation         []mealplanner.Message   `json:"conversation"`
	Requirement          mealplanner.Requirement `json:"requirement"`
	SelectedRecipes      []string                `json:"selected_recipes"`
	CombinedIngredients  []recipes.Ingredient    `json:"combined_ingredients"`
	NeedsCostCalculation bool                    `json:"needs_cost_calculation"`
	Overlaps             []Overlap               `json:"overlaps"`
	GroceryList          []ConsolidatedItem      `json:"grocery_list"`
}

// NewState opens a session at Gather with the user's request as the first turn.
func NewState(request string) *State {
	return &State{
		SessionID:           uuid.NewString(),
		Stage:               StageGather,
		Conversation:        []mealplanner.Message{mealplanner.HumanMessage(request)},
		SelectedRecipes:     []string{},
		CombinedIngredients: []recipes.Ingredient{},
	}
}

// Request returns the human turn that opened the session.
func (s *State) Request() string {
	for _, m := range s.Conversation {
		if m.Role == mealplanner.RoleHuman {
			return m.Content
		}
	}
	return ""
}

// LastMessage returns the most recent turn, or a zero Message.
func (s *State) LastMessage() mealplanner.Message {
	if len(s.Conversation) == 0 {
		return mealplanner.Message{}
	}
	return s.Conversation[len(s.Conversation)-1]
}

func (s *State) say(content string) {
	s.Conversation = append(s.Conversation, mealplanner.AssistantMessage(content))
}
