package slack_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"mealplanner"
	"mealplanner/planner"
	"mealplanner/pricing"
	"mealplanner/recipes"
	"mealplanner/slack"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type mockDoer struct {
	resp   *http.Response
	err    error
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return m.resp, m.err
}

func TestNewClient(t *testing.T) {
	webhook := "http://slack.com/webhook"
	client := slack.NewClient(webhook, &mockDoer{})
	must.NotNil(t, client, "expected non-nil client")
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name    string
		doFunc  func(req *http.Request) (*http.Response, error)
		wantErr error
	}{
		{
			name: "success",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
			},
			wantErr: nil,
		},
		{
			name: "failure status",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Body: io.NopCloser(bytes.NewBufferString("bad request"))}, nil
			},
			wantErr: fmt.Errorf("failed to post message: 400 Bad Request"),
		},
		{
			name: "do error",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
			wantErr: fmt.Errorf("network error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: tt.doFunc})
			err := client.PostMessage(context.Background(), "#meal-planning", "Dinner is planned")
			should.Equal(t, tt.wantErr, err)
		})
	}
}

func planFixture() (*planner.State, pricing.Quote) {
	st := &planner.State{
		Stage: planner.StageDone,
		Requirement: mealplanner.Requirement{
			NumRecipes:  2,
			DietaryTags: []string{"vegetarian"},
			Budget:      recipes.Dollars(10),
		},
		SelectedRecipes: []string{"Greek Salad", "Lentil Soup"},
	}
	quote := pricing.PriceAndCheck([]planner.ConsolidatedItem{
		{Item: "lentils", Quantities: []string{"1 cup"}, TotalPrice: recipes.Dollars(1.25)},
		{Item: "feta", Quantities: []string{"4 oz", "2 oz"}, TotalPrice: recipes.Dollars(3.00)},
	}, st.Requirement.Budget)
	return st, quote
}

func TestFormatPlan(t *testing.T) {
	st, quote := planFixture()

	text := slack.FormatPlan(st, quote)
	should.Contains(t, text, "*Meal plan* (2 dinners, budget $10.00)")
	should.Contains(t, text, "_Preferences: vegetarian_")
	should.Contains(t, text, "1. Greek Salad\n2. Lentil Soup\n")
	should.Contains(t, text, "• feta: 2x portions ($3.00)")
	should.Contains(t, text, "*Total:* $4.25 :white_check_mark: within budget")

	over := pricing.PriceAndCheck([]planner.ConsolidatedItem{
		{Item: "salmon", Quantities: []string{"1 lb"}, TotalPrice: recipes.Dollars(12)},
	}, st.Requirement.Budget)
	should.Contains(t, slack.FormatPlan(st, over), ":warning: over budget by $2.00")
}

func TestPostPlan(t *testing.T) {
	st, quote := planFixture()

	var payload map[string]string
	doer := &mockDoer{doFunc: func(req *http.Request) (*http.Response, error) {
		must.Equal(t, "application/json", req.Header.Get("Content-Type"))
		must.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
	}}

	err := slack.NewClient("http://example.com/webhook", doer).PostPlan(context.Background(), "#meal-planning", st, quote)
	must.NoError(t, err)
	should.Equal(t, "#meal-planning", payload["channel"])
	should.Equal(t, slack.FormatPlan(st, quote), payload["text"])
}
