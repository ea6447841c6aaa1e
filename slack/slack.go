// Package slack posts finished meal plans to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mealplanner"
	"mealplanner/planner"
	"mealplanner/pricing"
)

type Client struct {
	webhookURL string
	httpClient mealplanner.HTTPClient
}

var _ mealplanner.SlackClient = (*Client)(nil)

func NewClient(webhookURL string, httpClient mealplanner.HTTPClient) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostPlan posts the selected recipes and the priced grocery list.
func (c *Client) PostPlan(ctx context.Context, channel string, st *planner.State, quote pricing.Quote) error {
	return c.PostMessage(ctx, channel, FormatPlan(st, quote))
}

// FormatPlan renders a finished session as Slack mrkdwn.
func FormatPlan(st *planner.State, quote pricing.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Meal plan* (%d dinners, budget %s)\n", st.Requirement.NumRecipes, st.Requirement.Budget)
	if len(st.Requirement.DietaryTags) > 0 {
		fmt.Fprintf(&b, "_Preferences: %s_\n", strings.Join(st.Requirement.DietaryTags, ", "))
	}

	b.WriteString("\n*Recipes*\n")
	for i, name := range st.SelectedRecipes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}

	b.WriteString("\n*Grocery list*\n")
	for _, it := range quote.Items {
		fmt.Fprintf(&b, "• %s: %s (%s)\n", it.Item, it.Quantity, it.Price)
	}

	fmt.Fprintf(&b, "\n*Total:* %s", quote.Total)
	if quote.WithinBudget {
		b.WriteString(" :white_check_mark: within budget")
	} else {
		fmt.Fprintf(&b, " :warning: over budget by %s", quote.Overage())
	}
	return b.String()
}
